package zmachine

import (
	"github.com/zcodevm/zgo/zstate"
)

// doCall enters routineAddr (already unpacked) with the given
// arguments. resultVar/discard describe where the caller wants the
// return value stored; returnPC is the address execution resumes at
// when the callee returns.
func (m *Machine) doCall(routineAddr uint32, args []uint16, resultVar uint8, discard bool, returnPC uint32) error {
	if routineAddr == 0 {
		// Calling address 0 is defined to return false immediately.
		if discard {
			return nil
		}
		return m.writeVariable(resultVar, 0)
	}

	numLocals, err := m.MM.ReadByte(routineAddr)
	if err != nil {
		return err
	}
	locals := make([]uint16, numLocals)
	ptr := routineAddr + 1
	if m.Core.Version <= 4 {
		for i := 0; i < int(numLocals); i++ {
			v, err := m.MM.ReadWord(ptr)
			if err != nil {
				return err
			}
			locals[i] = v
			ptr += 2
		}
	}

	argsMask := uint8(0)
	for i := 0; i < len(args) && i < int(numLocals) && i < 7; i++ {
		locals[i] = args[i]
		argsMask |= 1 << uint(i)
	}

	frame := zstate.Frame{
		ReturnPC:     returnPC,
		Discard:      discard,
		ResultVar:    resultVar,
		ArgsSupplied: argsMask,
		Locals:       locals,
	}
	if err := m.State.PushFrame(frame); err != nil {
		return err
	}
	m.State.PC = ptr
	return nil
}

// doReturn pops the active frame, resumes at its ReturnPC, and stores
// value into its result variable unless the caller discarded it.
func (m *Machine) doReturn(value uint16) error {
	frame, err := m.State.PopFrame()
	if err != nil {
		return err
	}
	m.State.PC = frame.ReturnPC
	if !frame.Discard {
		if err := m.writeVariable(frame.ResultVar, value); err != nil {
			return err
		}
	}
	return nil
}
