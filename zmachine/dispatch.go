package zmachine

import "github.com/zcodevm/zgo/disasm"

type handlerFunc func(m *Machine, inst *disasm.Instruction) error

// opJz implements jz: branch if the operand is zero.
func opJz(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	return m.branch(inst, v == 0)
}

// opNotOrCall1n is 1OP opcode 15: bitwise `not` pre-v5, `call_1n` from
// v5 onward (disasm's opcodeStores already reflects which one this is).
func opNotOrCall1n(m *Machine, inst *disasm.Instruction) error {
	if inst.HasStore {
		return opNot(m, inst)
	}
	return callDiscard(m, inst)
}

// opPopOrCatch is 0OP opcode 9: `pop` (discard stack top) pre-v5,
// `catch` (stores a frame marker) from v5 onward.
func opPopOrCatch(m *Machine, inst *disasm.Instruction) error {
	if inst.HasStore {
		return opCatch(m, inst)
	}
	_, err := m.State.PopEval()
	return err
}

func opSoundEffect(m *Machine, inst *disasm.Instruction) error {
	// No audio device is modelled; games that probe for sound support
	// get silence rather than a decode error.
	return nil
}

var op0Table = map[uint8]handlerFunc{
	0:  opRtrue,
	1:  opRfalse,
	2:  opPrint,
	3:  opPrintRet,
	4:  opNop,
	5:  opSave,
	6:  opRestore,
	7:  opRestart,
	8:  opRetPopped,
	9:  opPopOrCatch,
	10: opQuit,
	11: opNewLine,
	12: opShowStatus,
	13: opVerify,
	15: opPiracy,
}

var op1Table = map[uint8]handlerFunc{
	0:  opJz,
	1:  opGetSibling,
	2:  opGetChild,
	3:  opGetParent,
	4:  opGetPropLen,
	5:  opInc,
	6:  opDec,
	7:  opPrintAddr,
	8:  callStore,
	9:  opRemoveObj,
	10: opPrintObj,
	11: opRet,
	12: opJump,
	13: opPrintPaddr,
	14: opLoad,
	15: opNotOrCall1n,
}

var op2Table = map[uint8]handlerFunc{
	1:  opJe,
	2:  opJl,
	3:  opJg,
	4:  opDecChk,
	5:  opIncChk,
	6:  opJin,
	7:  opTest,
	8:  opOr,
	9:  opAnd,
	10: opTestAttr,
	11: opSetAttr,
	12: opClearAttr,
	13: opStoreVar,
	14: opInsertObj,
	15: opLoadw,
	16: opLoadb,
	17: opGetProp,
	18: opGetPropAddr,
	19: opGetNextProp,
	20: opAdd,
	21: opSub,
	22: opMul,
	23: opDiv,
	24: opMod,
	25: callStore,
	26: callDiscard,
	27: opSetColour,
	28: opThrow,
}

var varTable = map[uint8]handlerFunc{
	0:  callStore,
	1:  opStorew,
	2:  opStoreb,
	3:  opPutProp,
	4:  opSread,
	5:  opPrintChar,
	6:  opPrintNum,
	7:  opRandom,
	8:  opPush,
	9:  opPull,
	10: opSplitWindow,
	11: opSetWindow,
	12: callStore,
	13: opEraseWindow,
	14: opEraseLine,
	15: opSetCursor,
	16: opGetCursor,
	17: opSetTextStyle,
	18: opBufferMode,
	19: opOutputStream,
	20: opInputStream,
	21: opSoundEffect,
	22: opReadChar,
	23: opScanTable,
	24: opNot,
	25: callDiscard,
	26: callDiscard,
	27: opTokenise,
	28: opEncodeText,
	29: opCopyTable,
	30: opPrintTable,
	31: opCheckArgCount,
}

var extTable = map[uint8]handlerFunc{
	0:  opSave,
	1:  opRestore,
	2:  opLogShift,
	3:  opArtShift,
	4:  opSetFont,
	9:  opSaveUndo,
	10: opRestoreUndo,
	11: opPrintUnicode,
	12: opCheckUnicode,
	13: opSetTrueColour,
}

// lookupHandler resolves a decoded instruction to the function that
// carries out its effect, or nil if the opcode isn't implemented.
func lookupHandler(form disasm.Form, count disasm.OperandCount, opcode uint8) handlerFunc {
	if form == disasm.ExtForm {
		return extTable[opcode]
	}
	switch count {
	case disasm.OP0:
		return op0Table[opcode]
	case disasm.OP1:
		return op1Table[opcode]
	case disasm.OP2:
		return op2Table[opcode]
	case disasm.VAR:
		return varTable[opcode]
	}
	return nil
}
