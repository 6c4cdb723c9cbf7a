package ztable_test

import (
	"testing"

	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstate"
	"github.com/zcodevm/zgo/ztable"
)

func newMemory(t *testing.T, payload []uint8) *zmem.MemoryMap {
	t.Helper()
	buf := make([]uint8, 0x40+len(payload))
	buf[0] = 3
	buf[0x0e] = uint8(len(buf) >> 8)
	buf[0x0f] = uint8(len(buf))
	copy(buf[0x40:], payload)
	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	state := zstate.New(core)
	return zmem.New(core, state)
}

func TestPrintTable(t *testing.T) {
	mm := newMemory(t, []uint8{'a', 'b', 'c', 'd', 'e', 'f'})
	got, err := ztable.PrintTable(mm, 0x40, 3, 2, 0)
	if err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	if got != "abc\ndef" {
		t.Fatalf("got %q, want %q", got, "abc\ndef")
	}
}

func TestScanTableBytes(t *testing.T) {
	mm := newMemory(t, []uint8{1, 2, 3, 4})
	addr, err := ztable.ScanTable(mm, 3, 0x40, 4, 1)
	if err != nil {
		t.Fatalf("ScanTable: %v", err)
	}
	if addr != 0x42 {
		t.Fatalf("addr = %#x, want %#x", addr, 0x42)
	}

	addr, err = ztable.ScanTable(mm, 9, 0x40, 4, 1)
	if err != nil {
		t.Fatalf("ScanTable: %v", err)
	}
	if addr != 0 {
		t.Fatalf("expected no match, got %#x", addr)
	}
}

func TestScanTableWords(t *testing.T) {
	mm := newMemory(t, []uint8{0, 1, 0, 2, 0, 3})
	addr, err := ztable.ScanTable(mm, 2, 0x40, 3, 0b1000_0010)
	if err != nil {
		t.Fatalf("ScanTable: %v", err)
	}
	if addr != 0x42 {
		t.Fatalf("addr = %#x, want %#x", addr, 0x42)
	}
}

func TestCopyTableNonOverlapping(t *testing.T) {
	mm := newMemory(t, []uint8{1, 2, 3, 0, 0, 0})
	if err := ztable.CopyTable(mm, 0x40, 0x43, 3); err != nil {
		t.Fatalf("CopyTable: %v", err)
	}
	for i, want := range []uint8{1, 2, 3} {
		v, err := mm.ReadByte(0x43 + uint32(i))
		if err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
		if v != want {
			t.Fatalf("byte %d = %d, want %d", i, v, want)
		}
	}
}

func TestCopyTableZeroFill(t *testing.T) {
	mm := newMemory(t, []uint8{9, 9, 9})
	if err := ztable.CopyTable(mm, 0x40, 0, 3); err != nil {
		t.Fatalf("CopyTable: %v", err)
	}
	for i := uint32(0); i < 3; i++ {
		v, _ := mm.ReadByte(0x40 + i)
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}
