// Package disasm decodes a single Z-machine instruction at an address
// without executing it: operand count and form, operand values with
// their addressing mode still tagged, and the store/branch targets.
// The opcode dispatcher uses the same Decode call inline; cmd/trace
// uses it purely to print instructions as they execute.
package disasm

import (
	"fmt"

	"github.com/zcodevm/zgo/zmem"
)

type OperandType uint8

const (
	LargeConstant OperandType = 0b00
	SmallConstant OperandType = 0b01
	Variable      OperandType = 0b10
	Omitted       OperandType = 0b11
)

type Form uint8

const (
	LongForm Form = iota
	ShortForm
	VarForm
	ExtForm
)

type OperandCount uint8

const (
	OP0 OperandCount = iota
	OP1
	OP2
	VAR
)

// Operand is one decoded operand, still tagged with its addressing
// mode so the interpreter knows whether `value` is a literal or a
// variable number to resolve.
type Operand struct {
	Type  OperandType
	Value uint16
}

// Instruction is a fully decoded opcode plus its operands and the
// store/branch metadata that follows them, along with the byte span
// it occupied so a tracer can print the raw encoding.
type Instruction struct {
	Address      uint32
	Length       uint32
	Form         Form
	OperandCount OperandCount
	Opcode       uint8 // opcode number within its form/count space
	Name         string
	Operands     []Operand

	HasStore  bool
	StoreVar  uint8
	HasBranch bool
	BranchOn  bool // branch condition polarity (true = branch if condition true)
	BranchAbs int32 // absolute target address, or -1/-2 for the return-false/true sentinels
}

const (
	BranchReturnFalse = -1
	BranchReturnTrue  = -2
)

// Decode reads one instruction starting at addr.
func Decode(mm *zmem.MemoryMap, addr uint32, version uint8) (Instruction, error) {
	start := addr
	opByte, err := mm.ReadByte(addr)
	if err != nil {
		return Instruction{}, err
	}
	addr++

	inst := Instruction{Address: start}

	switch {
	case opByte == 0xbe && version >= 5:
		opNum, err := mm.ReadByte(addr)
		if err != nil {
			return Instruction{}, err
		}
		addr++
		inst.Form = ExtForm
		inst.OperandCount = VAR
		inst.Opcode = opNum
		addr, err = readVarOperands(mm, addr, &inst, false)
		if err != nil {
			return Instruction{}, err
		}

	case opByte>>6 == 0b11: // variable form
		inst.Form = VarForm
		inst.Opcode = opByte & 0b1_1111
		isVar := (opByte>>5)&1 == 1
		if isVar {
			inst.OperandCount = VAR
		} else {
			inst.OperandCount = OP2
		}
		extendedCall := inst.OperandCount == VAR && (inst.Opcode == 12 || inst.Opcode == 26)
		addr, err = readVarOperands(mm, addr, &inst, extendedCall)
		if err != nil {
			return Instruction{}, err
		}

	case opByte>>6 == 0b10: // short form
		inst.Form = ShortForm
		inst.Opcode = opByte & 0b1111
		operandType := OperandType((opByte >> 4) & 0b11)
		if operandType == Omitted {
			inst.OperandCount = OP0
		} else {
			inst.OperandCount = OP1
			switch operandType {
			case LargeConstant:
				v, err := mm.ReadWord(addr)
				if err != nil {
					return Instruction{}, err
				}
				inst.Operands = append(inst.Operands, Operand{Type: operandType, Value: v})
				addr += 2
			default:
				v, err := mm.ReadByte(addr)
				if err != nil {
					return Instruction{}, err
				}
				inst.Operands = append(inst.Operands, Operand{Type: operandType, Value: uint16(v)})
				addr++
			}
		}

	default: // long form
		inst.Form = LongForm
		inst.Opcode = opByte & 0b1_1111
		inst.OperandCount = OP2
		t1, t2 := SmallConstant, SmallConstant
		if (opByte>>6)&1 == 1 {
			t1 = Variable
		}
		if (opByte>>5)&1 == 1 {
			t2 = Variable
		}
		for _, t := range []OperandType{t1, t2} {
			v, err := mm.ReadByte(addr)
			if err != nil {
				return Instruction{}, err
			}
			inst.Operands = append(inst.Operands, Operand{Type: t, Value: uint16(v)})
			addr++
		}
	}

	inst.Name = OpcodeName(inst.Form, inst.OperandCount, inst.Opcode)

	if opcodeStores(inst.Form, inst.OperandCount, inst.Opcode, version) {
		v, err := mm.ReadByte(addr)
		if err != nil {
			return Instruction{}, err
		}
		inst.HasStore = true
		inst.StoreVar = v
		addr++
	}

	if opcodeBranches(inst.Form, inst.OperandCount, inst.Opcode, version) {
		b1, err := mm.ReadByte(addr)
		if err != nil {
			return Instruction{}, err
		}
		addr++
		inst.HasBranch = true
		inst.BranchOn = b1&0b1000_0000 != 0
		var offset int32
		if b1&0b0100_0000 != 0 {
			offset = int32(b1 & 0b0011_1111)
		} else {
			b2, err := mm.ReadByte(addr)
			if err != nil {
				return Instruction{}, err
			}
			addr++
			raw := uint16(b1&0b0011_1111)<<8 | uint16(b2)
			if raw&0x2000 != 0 { // sign-extend 14-bit value
				offset = int32(raw) - 0x4000
			} else {
				offset = int32(raw)
			}
		}
		switch offset {
		case 0:
			inst.BranchAbs = BranchReturnFalse
		case 1:
			inst.BranchAbs = BranchReturnTrue
		default:
			inst.BranchAbs = int32(addr) + offset - 2
		}
	}

	if opcodeHasText(inst.Form, inst.OperandCount, inst.Opcode) {
		textLen, err := textLength(mm, addr)
		if err != nil {
			return Instruction{}, err
		}
		addr += textLen
	}

	inst.Length = addr - start
	return inst, nil
}

func textLength(mm *zmem.MemoryMap, addr uint32) (uint32, error) {
	ptr := addr
	var n uint32
	for {
		w, err := mm.ReadWord(ptr)
		if err != nil {
			return 0, err
		}
		ptr += 2
		n += 2
		if w>>15 == 1 {
			break
		}
	}
	return n, nil
}

func readVarOperands(mm *zmem.MemoryMap, addr uint32, inst *Instruction, extendedCall bool) (uint32, error) {
	typeByte, err := mm.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	addr++

	typeByte2 := uint8(0)
	maxOperands := 4
	if extendedCall {
		typeByte2, err = mm.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		addr++
		maxOperands = 8
	}

	for i := 0; i < maxOperands; i++ {
		var t OperandType
		if i < 4 {
			t = OperandType((typeByte >> (2 * (3 - i))) & 0b11)
		} else {
			t = OperandType((typeByte2 >> (2 * (7 - i))) & 0b11)
		}
		if t == Omitted {
			break
		}
		switch t {
		case LargeConstant:
			v, err := mm.ReadWord(addr)
			if err != nil {
				return 0, err
			}
			inst.Operands = append(inst.Operands, Operand{Type: t, Value: v})
			addr += 2
		default:
			v, err := mm.ReadByte(addr)
			if err != nil {
				return 0, err
			}
			inst.Operands = append(inst.Operands, Operand{Type: t, Value: uint16(v)})
			addr++
		}
	}
	return addr, nil
}

// String renders an instruction the way a tracer would print it.
func (i Instruction) String() string {
	s := fmt.Sprintf("%05x: %-16s", i.Address, i.Name)
	for _, op := range i.Operands {
		switch op.Type {
		case Variable:
			s += fmt.Sprintf(" var[%02x]", op.Value)
		default:
			s += fmt.Sprintf(" #%04x", op.Value)
		}
	}
	if i.HasStore {
		s += fmt.Sprintf(" -> var[%02x]", i.StoreVar)
	}
	if i.HasBranch {
		s += fmt.Sprintf(" ?%v %d", i.BranchOn, i.BranchAbs)
	}
	return s
}
