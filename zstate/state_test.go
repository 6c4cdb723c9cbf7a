package zstate_test

import (
	"testing"

	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zstate"
)

func newCore(t *testing.T) *zcore.Core {
	t.Helper()
	buf := make([]uint8, 128)
	buf[0] = 3
	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	return core
}

func TestNewFloorsDynamicSizeAt64(t *testing.T) {
	core := newCore(t)
	state := zstate.New(core)
	if state.StaticMemoryBase() != 64 {
		t.Fatalf("dynamic size = %d, want 64", state.StaticMemoryBase())
	}
}

func TestPushPopFrame(t *testing.T) {
	state := zstate.New(newCore(t))
	if err := state.PushFrame(zstate.Frame{Locals: []uint16{1, 2}}); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}
	v, err := state.ReadLocal(2)
	if err != nil {
		t.Fatalf("ReadLocal: %v", err)
	}
	if v != 2 {
		t.Fatalf("local 2 = %d, want 2", v)
	}

	if _, err := state.PopFrame(); err != nil {
		t.Fatalf("PopFrame: %v", err)
	}
	if _, err := state.PopFrame(); err == nil {
		t.Fatal("expected an error popping the dummy frame")
	}
}

func TestEvalStack(t *testing.T) {
	state := zstate.New(newCore(t))
	state.PushEval(10)
	state.PushEval(20)

	v, err := state.PeekEval()
	if err != nil {
		t.Fatalf("PeekEval: %v", err)
	}
	if v != 20 {
		t.Fatalf("peek = %d, want 20", v)
	}

	v, err = state.PopEval()
	if err != nil {
		t.Fatalf("PopEval: %v", err)
	}
	if v != 20 {
		t.Fatalf("pop = %d, want 20", v)
	}
	v, err = state.PopEval()
	if err != nil || v != 10 {
		t.Fatalf("pop = %d, %v; want 10, nil", v, err)
	}
	if _, err := state.PopEval(); err == nil {
		t.Fatal("expected an error popping an empty stack")
	}
}

func TestLocalVariableBounds(t *testing.T) {
	state := zstate.New(newCore(t))
	if err := state.PushFrame(zstate.Frame{Locals: []uint16{1}}); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}
	if _, err := state.ReadLocal(0); err == nil {
		t.Fatal("expected an error reading local 0")
	}
	if _, err := state.ReadLocal(2); err == nil {
		t.Fatal("expected an error reading a local beyond the frame's count")
	}
	if err := state.WriteLocal(1, 99); err != nil {
		t.Fatalf("WriteLocal: %v", err)
	}
	v, _ := state.ReadLocal(1)
	if v != 99 {
		t.Fatalf("local 1 = %d, want 99", v)
	}
}
