package zmachine

import (
	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/zobject"
)

func (m *Machine) getObject(id uint16) (zobject.Object, error) {
	return zobject.Get(m.MM, id, m.Core.ObjectTableBase, m.Core.Version, m.Alphabets, m.Core.AbbreviationTableBase)
}

func opJin(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if vals[0] == 0 {
		return m.branch(inst, false)
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	return m.branch(inst, obj.Parent == vals[1])
}

func opTest(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.branch(inst, vals[0]&vals[1] == vals[1])
}

func opTestAttr(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	if vals[0] == 0 {
		return m.branch(inst, false)
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	return m.branch(inst, obj.TestAttribute(vals[1]))
}

func opSetAttr(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	return obj.SetAttribute(vals[1], m.MM, m.Core.Version)
}

func opClearAttr(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	return obj.ClearAttribute(vals[1], m.MM, m.Core.Version)
}

// unlink detaches obj from its current parent's sibling chain.
func (m *Machine) unlink(obj *zobject.Object) error {
	if obj.Parent == 0 {
		return nil
	}
	parent, err := m.getObject(obj.Parent)
	if err != nil {
		return err
	}
	if parent.Child == obj.Id {
		return parent.SetChild(obj.Sibling, m.Core.Version, m.MM)
	}
	sibling, err := m.getObject(parent.Child)
	if err != nil {
		return err
	}
	for sibling.Sibling != obj.Id {
		sibling, err = m.getObject(sibling.Sibling)
		if err != nil {
			return err
		}
	}
	return sibling.SetSibling(obj.Sibling, m.Core.Version, m.MM)
}

func opRemoveObj(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	if v == 0 {
		return nil
	}
	obj, err := m.getObject(v)
	if err != nil {
		return err
	}
	if err := m.unlink(&obj); err != nil {
		return err
	}
	return obj.SetParent(0, m.Core.Version, m.MM)
}

func opInsertObj(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	if err := m.unlink(&obj); err != nil {
		return err
	}
	dest, err := m.getObject(vals[1])
	if err != nil {
		return err
	}
	if err := obj.SetParent(dest.Id, m.Core.Version, m.MM); err != nil {
		return err
	}
	if err := obj.SetSibling(dest.Child, m.Core.Version, m.MM); err != nil {
		return err
	}
	return dest.SetChild(obj.Id, m.Core.Version, m.MM)
}

func opGetSibling(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	sibling := uint16(0)
	if v != 0 {
		obj, err := m.getObject(v)
		if err != nil {
			return err
		}
		sibling = obj.Sibling
	}
	if err := m.store(inst, sibling); err != nil {
		return err
	}
	return m.branch(inst, sibling != 0)
}

func opGetChild(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	child := uint16(0)
	if v != 0 {
		obj, err := m.getObject(v)
		if err != nil {
			return err
		}
		child = obj.Child
	}
	if err := m.store(inst, child); err != nil {
		return err
	}
	return m.branch(inst, child != 0)
}

func opGetParent(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	parent := uint16(0)
	if v != 0 {
		obj, err := m.getObject(v)
		if err != nil {
			return err
		}
		parent = obj.Parent
	}
	return m.store(inst, parent)
}

func opGetPropLen(m *Machine, inst *disasm.Instruction) error {
	addr, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	if addr == 0 {
		return m.store(inst, 0)
	}
	n, err := zobject.GetPropertyLength(m.MM, uint32(addr), m.Core.Version)
	if err != nil {
		return err
	}
	return m.store(inst, n)
}

func opPrintObj(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	obj, err := m.getObject(v)
	if err != nil {
		return err
	}
	return m.printString(obj.Name)
}

func opGetProp(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	prop, err := obj.GetProperty(uint8(vals[1]), m.MM, m.Core.Version, m.Core.ObjectTableBase)
	if err != nil {
		return err
	}
	var value uint16
	if len(prop.Data) == 1 {
		value = uint16(prop.Data[0])
	} else {
		value = uint16(prop.Data[0])<<8 | uint16(prop.Data[1])
	}
	return m.store(inst, value)
}

func opGetPropAddr(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	prop, err := obj.GetProperty(uint8(vals[1]), m.MM, m.Core.Version, m.Core.ObjectTableBase)
	if err != nil {
		return err
	}
	return m.store(inst, uint16(prop.DataAddress))
}

func opGetNextProp(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	next, err := obj.GetNextProperty(uint8(vals[1]), m.MM, m.Core.Version)
	if err != nil {
		return err
	}
	return m.store(inst, uint16(next))
}

func opPutProp(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	obj, err := m.getObject(vals[0])
	if err != nil {
		return err
	}
	return obj.SetProperty(uint8(vals[1]), vals[2], m.MM, m.Core.Version)
}

func opLoadw(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	v, err := m.MM.ReadWord(uint32(vals[0]) + 2*uint32(vals[1]))
	if err != nil {
		return err
	}
	return m.store(inst, v)
}

func opLoadb(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	v, err := m.MM.ReadByte(uint32(vals[0]) + uint32(vals[1]))
	if err != nil {
		return err
	}
	return m.store(inst, uint16(v))
}

func opStorew(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.MM.WriteWord(uint32(vals[0])+2*uint32(vals[1]), vals[2])
}

func opStoreb(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.MM.WriteByte(uint32(vals[0])+uint32(vals[1]), uint8(vals[2]))
}

func opStoreVar(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	return m.writeVariable(uint8(vals[0]), vals[1])
}

func opLoad(m *Machine, inst *disasm.Instruction) error {
	varNum := uint8(inst.Operands[0].Value)
	v, err := m.readVariable(varNum)
	if err != nil {
		return err
	}
	return m.store(inst, v)
}

func opPush(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	m.State.PushEval(v)
	return nil
}

// opPull is `pull`: the operand names a variable by reference (it is
// not itself dereferenced, the same convention opInc/opDec use), so
// pulling into variable 0 would otherwise net out to popping the
// stack and immediately pushing the same value back. The reference
// interpreter special-cases that: it discards a second stack value
// and warns that the stack is being used as its own destination.
func opPull(m *Machine, inst *disasm.Instruction) error {
	varNum := uint8(inst.Operands[0].Value)
	popped, err := m.State.PopEval()
	if err != nil {
		return err
	}
	if varNum == 0 {
		m.Warnf("pull - using stack as variable")
		if _, err := m.State.PopEval(); err != nil {
			return err
		}
	}
	return m.writeVariable(varNum, popped)
}

func opJump(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	m.State.PC = uint32(int32(inst.Address+inst.Length) + int32(int16(v)) - 2)
	return nil
}

func opRet(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	return m.doReturn(v)
}

func opRtrue(m *Machine, inst *disasm.Instruction) error  { return m.doReturn(1) }
func opRfalse(m *Machine, inst *disasm.Instruction) error { return m.doReturn(0) }

func opRetPopped(m *Machine, inst *disasm.Instruction) error {
	v, err := m.State.PopEval()
	if err != nil {
		return err
	}
	return m.doReturn(v)
}

func opNop(m *Machine, inst *disasm.Instruction) error { return nil }
