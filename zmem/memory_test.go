package zmem_test

import (
	"testing"

	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstate"
)

// newFixture builds a story whose dynamic region is the 0x40-byte
// header plus 16 writable bytes (0x40-0x4f, also the start of the
// global variables), followed by 16 bytes of static memory.
func newFixture(t *testing.T) *zmem.MemoryMap {
	t.Helper()
	buf := make([]uint8, 0x50+16)
	buf[0] = 3
	buf[0x0c] = 0
	buf[0x0d] = 0x40
	buf[0x0e] = 0
	buf[0x0f] = 0x50
	buf[0x50] = 0xab // first static byte
	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	state := zstate.New(core)
	return zmem.New(core, state)
}

func TestWriteThenReadDynamic(t *testing.T) {
	mm := newFixture(t)
	if err := mm.WriteWord(0x44, 0x1234); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	v, err := mm.ReadWord(0x44)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0x1234 {
		t.Fatalf("read back %#x, want %#x", v, 0x1234)
	}
}

func TestWriteToStaticMemoryFails(t *testing.T) {
	mm := newFixture(t)
	if err := mm.WriteByte(0x50, 1); err == nil {
		t.Fatal("expected an error writing static memory")
	}
}

func TestWriteToHeaderFails(t *testing.T) {
	mm := newFixture(t)
	if err := mm.WriteByte(0x00, 1); err == nil {
		t.Fatal("expected an error writing the version byte")
	}
	if err := mm.WriteByte(0x0e, 1); err == nil {
		t.Fatal("expected an error writing the static memory base")
	}
}

func TestWriteFlags2MergesMaskedBitsOnly(t *testing.T) {
	mm := newFixture(t) // v3 fixture: mask is 0x03
	if err := mm.WriteByte(0x10, 0xff); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	v, err := mm.ReadByte(0x10)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if v != 0x03 {
		t.Fatalf("flags2 = %#x, want %#x (only the masked bits set)", v, 0x03)
	}

	if err := mm.WriteByte(0x10, 0x00); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	v, err = mm.ReadByte(0x10)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if v != 0x00 {
		t.Fatalf("flags2 = %#x, want 0 after clearing the masked bits", v)
	}
}

func TestReadStaticMemory(t *testing.T) {
	mm := newFixture(t)
	v, err := mm.ReadByte(0x50)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if v != 0xab {
		t.Fatalf("read %#x, want %#x", v, 0xab)
	}
}

func TestReadByteOutOfRange(t *testing.T) {
	mm := newFixture(t)
	if _, err := mm.ReadByte(1 << 20); err == nil {
		t.Fatal("expected an error reading past the story's length")
	}
}

func TestReadSliceAcrossBoundary(t *testing.T) {
	mm := newFixture(t)
	if err := mm.WriteByte(0x4f, 0x11); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	s, err := mm.ReadSlice(0x4f, 0x51)
	if err != nil {
		t.Fatalf("ReadSlice: %v", err)
	}
	if len(s) != 2 || s[0] != 0x11 || s[1] != 0xab {
		t.Fatalf("slice = %v, want [0x11 0xab]", s)
	}
}

func TestGlobalVariables(t *testing.T) {
	mm := newFixture(t)
	if err := mm.WriteGlobal(0, 42); err != nil {
		t.Fatalf("WriteGlobal: %v", err)
	}
	v, err := mm.ReadGlobal(0)
	if err != nil {
		t.Fatalf("ReadGlobal: %v", err)
	}
	if v != 42 {
		t.Fatalf("global 0 = %d, want 42", v)
	}
}

type recordingTracer struct {
	accesses int
}

func (r *recordingTracer) OnAccess(addr uint32, value uint16, write bool, word bool) {
	r.accesses++
}

func TestTracerIsConsulted(t *testing.T) {
	mm := newFixture(t)
	tr := &recordingTracer{}
	mm.Tracer = tr

	if _, err := mm.ReadByte(0); err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if tr.accesses == 0 {
		t.Fatal("expected the tracer to observe at least one access")
	}
}
