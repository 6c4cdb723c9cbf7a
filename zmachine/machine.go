// Package zmachine is the opcode dispatcher: it decodes one
// instruction at the program counter, routes it through a dispatch
// table keyed by operand-count form, and carries out its effect
// against the memory map, call stack, object tree, dictionary and
// screen.
package zmachine

import (
	"math/rand"

	"github.com/zcodevm/zgo/dictionary"
	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/savestore"
	"github.com/zcodevm/zgo/screen"
	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zerr"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstate"
	"github.com/zcodevm/zgo/zstring"
)

// Machine is the composite owner of a running Z-machine: the
// immutable story (Core), its mutable half (State), the gated memory
// view over both (MM), and the collaborators (Screen, SaveStore).
type Machine struct {
	Core       *zcore.Core
	State      *zstate.State
	MM         *zmem.MemoryMap
	Alphabets  *zstring.Alphabets
	Dictionary *dictionary.Dictionary
	Screen     screen.Screen
	SaveStore  savestore.SaveStore

	streams   streamState
	undoStack []undoSnapshot
	rng       *rand.Rand
	Warnf     func(format string, args ...interface{})
	Quit      bool
}

// New constructs a Machine from loaded story bytes. It rejects V6
// story files outright since windowed graphics are out of scope.
func New(storyBytes []uint8, scr screen.Screen, store savestore.SaveStore) (*Machine, error) {
	core, err := zcore.LoadCore(storyBytes)
	if err != nil {
		return nil, err
	}
	if core.Version == 6 {
		return nil, zerr.New(zerr.Unsupported, "V6 story files (windowed graphics) are not supported")
	}

	state := zstate.New(core)
	mm := zmem.New(core, state)

	alphabets, err := zstring.LoadAlphabets(core.Version, mm, core.AlternativeCharSetBaseAddress)
	if err != nil {
		return nil, err
	}

	dict, err := dictionary.Parse(mm, uint32(core.DictionaryBase), core.Version, alphabets, core.AbbreviationTableBase)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		Core:       core,
		State:      state,
		MM:         mm,
		Alphabets:  alphabets,
		Dictionary: dict,
		Screen:     scr,
		SaveStore:  store,
		rng:        rand.New(rand.NewSource(1)),
		Warnf:      func(string, ...interface{}) {},
	}
	m.streams = newStreamState(scr)
	return m, nil
}

// Step decodes and executes one instruction.
func (m *Machine) Step() error {
	inst, err := disasm.Decode(m.MM, m.State.PC, m.Core.Version)
	if err != nil {
		return err
	}
	m.State.PC = inst.Address + inst.Length

	handler := lookupHandler(inst.Form, inst.OperandCount, inst.Opcode)
	if handler == nil {
		return zerr.New(zerr.Decode, "unimplemented opcode %q at 0x%x", inst.Name, inst.Address)
	}
	return handler(m, &inst)
}

// Run steps the machine until Quit is set or an error occurs.
func (m *Machine) Run() error {
	for !m.Quit {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// operandValue resolves an operand to its numeric value, reading
// through a variable reference when necessary.
func (m *Machine) operandValue(op disasm.Operand) (uint16, error) {
	if op.Type == disasm.Variable {
		return m.readVariable(uint8(op.Value))
	}
	return op.Value, nil
}

func (m *Machine) operandValues(ops []disasm.Operand) ([]uint16, error) {
	out := make([]uint16, len(ops))
	for i, op := range ops {
		v, err := m.operandValue(op)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// readVariable implements the variable-number convention: 0 is the
// top of the evaluation stack (popped), 1-15 are locals, 16-255 are
// globals.
func (m *Machine) readVariable(v uint8) (uint16, error) {
	switch {
	case v == 0:
		return m.State.PopEval()
	case v <= 15:
		return m.State.ReadLocal(v)
	default:
		return m.MM.ReadGlobal(v - 16)
	}
}

// writeVariable is readVariable's counterpart; variable 0 pushes.
func (m *Machine) writeVariable(v uint8, value uint16) error {
	switch {
	case v == 0:
		m.State.PushEval(value)
		return nil
	case v <= 15:
		return m.State.WriteLocal(v, value)
	default:
		return m.MM.WriteGlobal(v-16, value)
	}
}

// store writes an instruction's result into its declared store
// target, if it has one.
func (m *Machine) store(inst *disasm.Instruction, value uint16) error {
	if !inst.HasStore {
		return nil
	}
	return m.writeVariable(inst.StoreVar, value)
}

// branch resolves an instruction's branch descriptor against a
// computed boolean condition.
func (m *Machine) branch(inst *disasm.Instruction, condition bool) error {
	if !inst.HasBranch {
		return nil
	}
	if condition != inst.BranchOn {
		return nil
	}
	switch inst.BranchAbs {
	case disasm.BranchReturnFalse:
		return m.doReturn(0)
	case disasm.BranchReturnTrue:
		return m.doReturn(1)
	default:
		m.State.PC = uint32(inst.BranchAbs)
		return nil
	}
}

// unpackRoutineAddress converts a packed routine address to a byte
// address, per the version-dependent multiplier (plus the header's
// routine offset for v7; V6 is rejected before any call is made).
func (m *Machine) unpackRoutineAddress(packed uint16) uint32 {
	switch {
	case m.Core.Version <= 3:
		return uint32(packed) * 2
	case m.Core.Version <= 5:
		return uint32(packed) * 4
	case m.Core.Version == 7:
		return uint32(packed)*4 + uint32(m.Core.RoutinesOffset)*8
	default: // v8
		return uint32(packed) * 8
	}
}

func (m *Machine) unpackStringAddress(packed uint16) uint32 {
	switch {
	case m.Core.Version <= 3:
		return uint32(packed) * 2
	case m.Core.Version <= 5:
		return uint32(packed) * 4
	case m.Core.Version == 7:
		return uint32(packed)*4 + uint32(m.Core.StringOffset)*8
	default:
		return uint32(packed) * 8
	}
}
