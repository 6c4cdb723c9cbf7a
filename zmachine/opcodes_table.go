package zmachine

import (
	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/ztable"
)

func opPrintTable(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	width := vals[1]
	height := uint16(1)
	if len(vals) > 2 {
		height = vals[2]
	}
	skip := uint16(0)
	if len(vals) > 3 {
		skip = vals[3]
	}
	text, err := ztable.PrintTable(m.MM, uint32(vals[0]), width, height, skip)
	if err != nil {
		return err
	}
	return m.printString(text)
}

func opScanTable(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	form := uint16(0b1000_0010)
	if len(vals) > 3 {
		form = vals[3]
	}
	addr, err := ztable.ScanTable(m.MM, vals[0], uint32(vals[1]), vals[2], form)
	if err != nil {
		return err
	}
	if err := m.store(inst, uint16(addr)); err != nil {
		return err
	}
	return m.branch(inst, addr != 0)
}

func opCopyTable(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return ztable.CopyTable(m.MM, uint32(vals[0]), uint32(vals[1]), int16(vals[2]))
}
