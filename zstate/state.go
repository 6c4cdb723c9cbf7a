// Package zstate owns everything about a running Z-machine that
// changes after load: dynamic memory, the call-stack frames, the
// program counter, and Quetzal save/restore of all three.
package zstate

import (
	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zerr"
)

const maxFrames = 2048

// Frame is one call-stack frame, laid out so it serialises directly
// into a Quetzal Stks sub-chunk: return PC, a discard-result flag, the
// variable to store the result in (meaningless when Discard is set),
// the mask of arguments actually supplied by the caller, the routine's
// locals and its private evaluation stack.
type Frame struct {
	ReturnPC     uint32
	Discard      bool
	ResultVar    uint8
	ArgsSupplied uint8
	Locals       []uint16
	Stack        []uint16
}

// State is the mutable half of a running machine: a clone of the
// story's dynamic memory, the PC, and the frame stack. The original
// story bytes (zcore.Core) are never touched again after load.
type State struct {
	Dynamic []uint8
	PC      uint32
	Frames  []Frame
}

// New clones dynamic memory out of core and installs the dummy frame
// that the real game's first call eventually returns into.
func New(core *zcore.Core) *State {
	dynSize := uint32(core.StaticMemoryBase)
	if dynSize > core.MemoryLength() {
		dynSize = core.MemoryLength()
	}
	if dynSize < 64 {
		dynSize = 64
	}
	dyn := make([]uint8, dynSize)
	copy(dyn, core.ReadSlice(0, dynSize))

	return &State{
		Dynamic: dyn,
		PC:      uint32(core.FirstInstruction),
		Frames:  []Frame{{Discard: true}},
	}
}

// Current returns the active frame.
func (s *State) Current() *Frame {
	return &s.Frames[len(s.Frames)-1]
}

// PushFrame enters a new routine call.
func (s *State) PushFrame(f Frame) error {
	if len(s.Frames) >= maxFrames {
		return zerr.New(zerr.StackOverflow, "call stack exceeds %d frames", maxFrames)
	}
	s.Frames = append(s.Frames, f)
	return nil
}

// PopFrame returns from the active routine, yielding the popped frame.
func (s *State) PopFrame() (Frame, error) {
	if len(s.Frames) <= 1 {
		return Frame{}, zerr.New(zerr.StackUnderflow, "return with no active call frame")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f, nil
}

// PushEval pushes a word onto the active frame's evaluation stack.
func (s *State) PushEval(v uint16) {
	f := s.Current()
	f.Stack = append(f.Stack, v)
}

// PopEval pops a word off the active frame's evaluation stack.
func (s *State) PopEval() (uint16, error) {
	f := s.Current()
	if len(f.Stack) == 0 {
		return 0, zerr.New(zerr.StackUnderflow, "pop from empty evaluation stack")
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, nil
}

// PeekEval reads the top of the active frame's evaluation stack
// without removing it.
func (s *State) PeekEval() (uint16, error) {
	f := s.Current()
	if len(f.Stack) == 0 {
		return 0, zerr.New(zerr.StackUnderflow, "peek on empty evaluation stack")
	}
	return f.Stack[len(f.Stack)-1], nil
}

// ReadLocal reads local variable n (1-based) of the active frame.
func (s *State) ReadLocal(n uint8) (uint16, error) {
	f := s.Current()
	if int(n) < 1 || int(n) > len(f.Locals) {
		return 0, zerr.New(zerr.MemoryAccess, "local variable %d out of range (have %d)", n, len(f.Locals))
	}
	return f.Locals[n-1], nil
}

// WriteLocal writes local variable n (1-based) of the active frame.
func (s *State) WriteLocal(n uint8, v uint16) error {
	f := s.Current()
	if int(n) < 1 || int(n) > len(f.Locals) {
		return zerr.New(zerr.MemoryAccess, "local variable %d out of range (have %d)", n, len(f.Locals))
	}
	f.Locals[n-1] = v
	return nil
}

// StaticMemoryBase exposes the boundary between dynamic and static
// memory, which equals len(Dynamic) by construction.
func (s *State) StaticMemoryBase() uint32 {
	return uint32(len(s.Dynamic))
}
