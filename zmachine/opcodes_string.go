package zmachine

import (
	"fmt"

	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/zstring"
)

func opPrint(m *Machine, inst *disasm.Instruction) error {
	text, _, err := zstring.Decode(m.MM, inst.Address+(opcodeHeaderLen(inst)), m.Core.Version, m.Alphabets, m.Core.AbbreviationTableBase)
	if err != nil {
		return err
	}
	return m.printString(text)
}

func opPrintRet(m *Machine, inst *disasm.Instruction) error {
	text, _, err := zstring.Decode(m.MM, inst.Address+(opcodeHeaderLen(inst)), m.Core.Version, m.Alphabets, m.Core.AbbreviationTableBase)
	if err != nil {
		return err
	}
	if err := m.printString(text + "\n"); err != nil {
		return err
	}
	return m.doReturn(1)
}

// opcodeHeaderLen returns the number of bytes the opcode byte plus
// its type byte(s) occupied, i.e. where the inline string begins.
// print/print_ret are always 0OP with no operands, so this is simply
// 1 (the single opcode byte; short form with omitted operands).
func opcodeHeaderLen(inst *disasm.Instruction) uint32 {
	return 1
}

func opPrintAddr(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	text, _, err := zstring.Decode(m.MM, uint32(v), m.Core.Version, m.Alphabets, m.Core.AbbreviationTableBase)
	if err != nil {
		return err
	}
	return m.printString(text)
}

func opPrintPaddr(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	addr := m.unpackStringAddress(v)
	text, _, err := zstring.Decode(m.MM, addr, m.Core.Version, m.Alphabets, m.Core.AbbreviationTableBase)
	if err != nil {
		return err
	}
	return m.printString(text)
}

func opPrintChar(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	r, ok := zstring.ZsciiToUnicode(uint8(v), m.Core)
	if !ok {
		r = rune(v)
	}
	return m.printString(string(r))
}

func opPrintNum(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	return m.printString(fmt.Sprintf("%d", int16(v)))
}

func opNewLine(m *Machine, inst *disasm.Instruction) error {
	return m.printString("\n")
}

func opPrintUnicode(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	return m.printString(string(rune(v)))
}

func opCheckUnicode(m *Machine, inst *disasm.Instruction) error {
	// Capability probe; this interpreter can both print and (when a
	// real terminal is attached) accept any Unicode codepoint.
	return m.store(inst, 0b11)
}
