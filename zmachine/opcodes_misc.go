package zmachine

import (
	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/zerr"
	"github.com/zcodevm/zgo/zstate"
)

// saveResult reports a save/restore outcome the way the instruction's
// shape demands: branch on v1-3, store on v4+.
func (m *Machine) saveResult(inst *disasm.Instruction, success bool) error {
	if inst.HasBranch {
		return m.branch(inst, success)
	}
	v := uint16(0)
	if success {
		v = 1
	}
	return m.store(inst, v)
}

func opSave(m *Machine, inst *disasm.Instruction) error {
	if m.SaveStore == nil {
		return m.saveResult(inst, false)
	}
	data, err := zstate.SaveQuetzal(m.Core, m.State)
	if err != nil {
		return m.saveResult(inst, false)
	}
	path, err := m.SaveStore.Prompt(true, "story.sav")
	if err != nil || path == "" {
		return m.saveResult(inst, false)
	}
	if _, err := m.SaveStore.Write(path, data); err != nil {
		return m.saveResult(inst, false)
	}
	return m.saveResult(inst, true)
}

func opRestore(m *Machine, inst *disasm.Instruction) error {
	if m.SaveStore == nil {
		return m.saveResult(inst, false)
	}
	path, err := m.SaveStore.Prompt(false, "")
	if err != nil || path == "" {
		return m.saveResult(inst, false)
	}
	data, err := m.SaveStore.Read(path)
	if err != nil {
		return m.saveResult(inst, false)
	}
	restored, err := zstate.RestoreQuetzal(m.Core, data)
	if err != nil {
		if m.Warnf != nil {
			m.Warnf("restore failed: %v", err)
		}
		return m.saveResult(inst, false)
	}
	// A successful restore replaces execution state outright; the PC it
	// carries already points past whatever resumed the original save,
	// so the restore instruction itself never "returns" in the normal
	// sense.
	m.State = restored
	m.MM.State = restored
	return nil
}

type undoSnapshot struct {
	dynamic []uint8
	pc      uint32
	frames  []zstate.Frame
}

func snapshotState(s *zstate.State) undoSnapshot {
	dyn := append([]uint8(nil), s.Dynamic...)
	frames := make([]zstate.Frame, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = zstate.Frame{
			ReturnPC:     f.ReturnPC,
			Discard:      f.Discard,
			ResultVar:    f.ResultVar,
			ArgsSupplied: f.ArgsSupplied,
			Locals:       append([]uint16(nil), f.Locals...),
			Stack:        append([]uint16(nil), f.Stack...),
		}
	}
	return undoSnapshot{dynamic: dyn, pc: s.PC, frames: frames}
}

const maxUndoDepth = 8

func opSaveUndo(m *Machine, inst *disasm.Instruction) error {
	m.undoStack = append(m.undoStack, snapshotState(m.State))
	if len(m.undoStack) > maxUndoDepth {
		m.undoStack = m.undoStack[len(m.undoStack)-maxUndoDepth:]
	}
	return m.store(inst, 1)
}

func opRestoreUndo(m *Machine, inst *disasm.Instruction) error {
	if len(m.undoStack) == 0 {
		return m.store(inst, 0)
	}
	snap := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.State.Dynamic = snap.dynamic
	m.State.PC = snap.pc
	m.State.Frames = snap.frames
	return nil
}

func opRestart(m *Machine, inst *disasm.Instruction) error {
	m.State = zstate.New(m.Core)
	m.MM.State = m.State
	m.undoStack = nil
	m.streams = newStreamState(m.Screen)
	if m.Screen != nil {
		m.Screen.EraseWindow(-1)
	}
	return nil
}

func opCatch(m *Machine, inst *disasm.Instruction) error {
	return m.store(inst, uint16(len(m.State.Frames)))
}

func opThrow(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	value, depth := vals[0], vals[1]
	if int(depth) > len(m.State.Frames) || depth == 0 {
		return zerr.New(zerr.StackUnderflow, "throw: invalid catch frame %d (have %d frames)", depth, len(m.State.Frames))
	}
	m.State.Frames = m.State.Frames[:depth]
	return m.doReturn(value)
}

func opCheckArgCount(m *Machine, inst *disasm.Instruction) error {
	v, err := m.operandValue(inst.Operands[0])
	if err != nil {
		return err
	}
	frame := m.State.Current()
	supplied := v > 0 && v <= 7 && frame.ArgsSupplied&(1<<(v-1)) != 0
	return m.branch(inst, supplied)
}
