package zmachine

import (
	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/zerr"
)

func opJe(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	for _, v := range vals[1:] {
		if v == vals[0] {
			return m.branch(inst, true)
		}
	}
	return m.branch(inst, false)
}

func opJl(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.branch(inst, int16(vals[0]) < int16(vals[1]))
}

func opJg(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.branch(inst, int16(vals[0]) > int16(vals[1]))
}

func opDecChk(m *Machine, inst *disasm.Instruction) error {
	varNum := uint8(inst.Operands[0].Value)
	val, err := m.operandValue(inst.Operands[1])
	if err != nil {
		return err
	}
	cur, err := m.readVariable(varNum)
	if err != nil {
		return err
	}
	cur--
	if err := m.writeVariable(varNum, cur); err != nil {
		return err
	}
	return m.branch(inst, int16(cur) < int16(val))
}

func opIncChk(m *Machine, inst *disasm.Instruction) error {
	varNum := uint8(inst.Operands[0].Value)
	val, err := m.operandValue(inst.Operands[1])
	if err != nil {
		return err
	}
	cur, err := m.readVariable(varNum)
	if err != nil {
		return err
	}
	cur++
	if err := m.writeVariable(varNum, cur); err != nil {
		return err
	}
	return m.branch(inst, int16(cur) > int16(val))
}

func opInc(m *Machine, inst *disasm.Instruction) error {
	varNum := uint8(inst.Operands[0].Value)
	cur, err := m.readVariable(varNum)
	if err != nil {
		return err
	}
	return m.writeVariable(varNum, cur+1)
}

func opDec(m *Machine, inst *disasm.Instruction) error {
	varNum := uint8(inst.Operands[0].Value)
	cur, err := m.readVariable(varNum)
	if err != nil {
		return err
	}
	return m.writeVariable(varNum, cur-1)
}

func opAdd(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.store(inst, uint16(int16(vals[0])+int16(vals[1])))
}

func opSub(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.store(inst, uint16(int16(vals[0])-int16(vals[1])))
}

func opMul(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.store(inst, uint16(int16(vals[0])*int16(vals[1])))
}

func opDiv(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if int16(vals[1]) == 0 {
		return zerr.New(zerr.Decode, "division by zero at 0x%x", inst.Address)
	}
	return m.store(inst, uint16(int16(vals[0])/int16(vals[1])))
}

func opMod(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if int16(vals[1]) == 0 {
		return zerr.New(zerr.Decode, "division by zero at 0x%x", inst.Address)
	}
	return m.store(inst, uint16(int16(vals[0])%int16(vals[1])))
}

func opOr(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.store(inst, vals[0]|vals[1])
}

func opAnd(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.store(inst, vals[0]&vals[1])
}

func opNot(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	return m.store(inst, ^v)
}

func opLogShift(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	shift := int16(vals[1])
	if shift >= 0 {
		return m.store(inst, vals[0]<<uint16(shift))
	}
	return m.store(inst, vals[0]>>uint16(-shift))
}

func opArtShift(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	shift := int16(vals[1])
	if shift >= 0 {
		return m.store(inst, uint16(int16(vals[0])<<uint16(shift)))
	}
	return m.store(inst, uint16(int16(vals[0])>>uint16(-shift)))
}

func opRandom(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	n := int16(v)
	switch {
	case n > 0:
		return m.store(inst, uint16(m.rng.Intn(int(n))+1))
	case n == 0:
		m.rng = newSeededRand()
		return m.store(inst, 0)
	default:
		m.rng = newSeededRandFromSeed(int64(-n))
		return m.store(inst, 0)
	}
}
