package zmachine

import "github.com/zcodevm/zgo/disasm"

// callStore handles the store-variant call opcodes: call, call_1s,
// call_2s, call_vs, call_vs2. The first operand is the packed routine
// address; the rest are arguments.
func callStore(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	routineAddr := m.unpackRoutineAddress(vals[0])
	return m.doCall(routineAddr, vals[1:], inst.StoreVar, false, inst.Address+inst.Length)
}

// callDiscard handles the discard-variant call opcodes: call_1n,
// call_2n, call_vn, call_vn2. Their return value is thrown away.
func callDiscard(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	routineAddr := m.unpackRoutineAddress(vals[0])
	return m.doCall(routineAddr, vals[1:], 0, true, inst.Address+inst.Length)
}
