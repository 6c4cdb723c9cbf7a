package zmachine

import (
	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/screen"
)

func opSplitWindow(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.SplitWindow(int(v))
	}
	return nil
}

func opSetWindow(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.SetWindow(int(v))
	}
	return nil
}

func opEraseWindow(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.EraseWindow(int(int16(v)))
	}
	return nil
}

func opEraseLine(m *Machine, inst *disasm.Instruction) error {
	// erase_line with an argument other than 1 is a no-op per the
	// standard; a real terminal redraw isn't modelled here.
	_, err := m.operandValue(inst.Operands[0])
	return err
}

func opSetCursor(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.SetCursor(int(vals[1]), int(vals[0]))
	}
	return nil
}

func opGetCursor(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	// No headless/terminal screen in this interpreter reports cursor
	// position back; write the last-known origin.
	if err := m.MM.WriteWord(uint32(vals[0]), 1); err != nil {
		return err
	}
	return m.MM.WriteWord(uint32(vals[0])+2, 1)
}

func opSetTextStyle(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.SetStyle(screen.TextStyle(v))
	}
	return nil
}

func opSetColour(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.SetColour(int(vals[0]), int(vals[1]))
	}
	return nil
}

func opSetTrueColour(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if m.Screen != nil {
		m.Screen.SetTrueColour(int16(vals[0]), int16(vals[1]))
	}
	return nil
}

func opSetFont(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	prev := 1
	if m.Screen != nil {
		prev = m.Screen.SetFont(int(v))
	}
	return m.store(inst, uint16(prev))
}
