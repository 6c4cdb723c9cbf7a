package zstate_test

import (
	"testing"

	"github.com/zcodevm/zgo/zstate"
)

func TestQuetzalRoundTrip(t *testing.T) {
	core := newCore(t)
	state := zstate.New(core)

	state.Dynamic[10] = 0x42
	state.PC = 0x1000
	if err := state.PushFrame(zstate.Frame{
		ReturnPC:     0x500,
		ResultVar:    3,
		ArgsSupplied: 0b0000_0011,
		Locals:       []uint16{1, 2, 3},
		Stack:        []uint16{7, 8},
	}); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}

	data, err := zstate.SaveQuetzal(core, state)
	if err != nil {
		t.Fatalf("SaveQuetzal: %v", err)
	}
	if string(data[0:4]) != "FORM" || string(data[8:12]) != "IFZS" {
		t.Fatalf("missing FORM/IFZS header: %q", data[:12])
	}

	restored, err := zstate.RestoreQuetzal(core, data)
	if err != nil {
		t.Fatalf("RestoreQuetzal: %v", err)
	}
	if restored.PC != state.PC {
		t.Fatalf("restored PC = %#x, want %#x", restored.PC, state.PC)
	}
	if restored.Dynamic[10] != 0x42 {
		t.Fatalf("restored dynamic[10] = %#x, want 0x42", restored.Dynamic[10])
	}
	if len(restored.Frames) != len(state.Frames) {
		t.Fatalf("restored %d frames, want %d", len(restored.Frames), len(state.Frames))
	}
	top := restored.Frames[len(restored.Frames)-1]
	if top.ReturnPC != 0x500 || top.ResultVar != 3 || top.ArgsSupplied != 0b0000_0011 {
		t.Fatalf("restored top frame mismatch: %+v", top)
	}
	if len(top.Locals) != 3 || top.Locals[2] != 3 {
		t.Fatalf("restored locals = %v, want [1 2 3]", top.Locals)
	}
	if len(top.Stack) != 2 || top.Stack[1] != 8 {
		t.Fatalf("restored stack = %v, want [7 8]", top.Stack)
	}
}

func TestPeekIFhd(t *testing.T) {
	core := newCore(t)
	state := zstate.New(core)
	data, err := zstate.SaveQuetzal(core, state)
	if err != nil {
		t.Fatalf("SaveQuetzal: %v", err)
	}

	info, err := zstate.PeekIFhd(data)
	if err != nil {
		t.Fatalf("PeekIFhd: %v", err)
	}
	if info.ReleaseNumber != core.ReleaseNumber || info.SerialNumber != core.SerialNumber {
		t.Fatalf("IFhd mismatch: %+v", info)
	}
}

func TestRestoreQuetzalRejectsGarbage(t *testing.T) {
	if _, err := zstate.RestoreQuetzal(newCore(t), []byte("not a save file")); err == nil {
		t.Fatal("expected an error restoring a non-Quetzal buffer")
	}
}
