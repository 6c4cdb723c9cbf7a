package zmachine

import (
	"testing"

	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/internal/headlessscreen"
	"github.com/zcodevm/zgo/internal/tempsavestore"
)

// buildV5Story mirrors zmachine_test's buildStory but targets v5, where
// sread/aread gains the preloaded-character-count byte at text_buf+1.
// The static memory base sits well past the text buffer used by these
// tests so that buffer stays writable dynamic memory.
func buildV5Story(t *testing.T, code []uint8) []uint8 {
	t.Helper()
	const staticBase = 0x300
	const dictBase = staticBase
	const codeBase = dictBase + 4

	buf := make([]uint8, codeBase+uint32(len(code)))
	buf[0] = 5

	putWord := func(addr uint32, v uint16) {
		buf[addr] = uint8(v >> 8)
		buf[addr+1] = uint8(v)
	}
	putWord(0x06, uint16(codeBase))
	putWord(0x08, dictBase)
	putWord(0x0a, 0x10)
	putWord(0x0c, 0x10)
	putWord(0x0e, staticBase)

	buf[dictBase] = 0
	buf[dictBase+1] = 4
	putWord(dictBase+2, 0)

	copy(buf[codeBase:], code)
	return buf
}

// TestSreadHonoursExistingCharacterCount checks that a v5 sread/aread
// appends new input after whatever text_buf+1 already reports, rather
// than overwriting it. The input fits in the remaining capacity, so
// the capacity limit itself is not exercised here.
func TestSreadHonoursExistingCharacterCount(t *testing.T) {
	buf := buildV5Story(t, []uint8{0xba})
	scr := headlessscreen.New("lo")
	store := tempsavestore.New(t.TempDir())
	m, err := New(buf, scr, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const textBuffer = 0x200
	const maxLen = 8
	const existing = 5
	if err := m.MM.WriteByte(textBuffer, maxLen); err != nil {
		t.Fatalf("WriteByte maxLen: %v", err)
	}
	if err := m.MM.WriteByte(textBuffer+1, existing); err != nil {
		t.Fatalf("WriteByte existing count: %v", err)
	}
	for i, c := range []uint8("hello") {
		if err := m.MM.WriteByte(textBuffer+2+uint32(i), c); err != nil {
			t.Fatalf("WriteByte prefix[%d]: %v", i, err)
		}
	}

	inst := &disasm.Instruction{
		Operands: []disasm.Operand{
			{Type: disasm.LargeConstant, Value: textBuffer},
		},
	}
	if err := opSread(m, inst); err != nil {
		t.Fatalf("opSread: %v", err)
	}

	count, err := m.MM.ReadByte(textBuffer + 1)
	if err != nil {
		t.Fatalf("ReadByte count: %v", err)
	}
	if count != existing+2 {
		t.Fatalf("text_buf+1 = %d, want %d (existing %d + 2 new chars)", count, existing+2, existing)
	}

	tail, err := m.MM.ReadSlice(textBuffer+2, textBuffer+2+uint32(count))
	if err != nil {
		t.Fatalf("ReadSlice: %v", err)
	}
	if string(tail) != "hellolo" {
		t.Fatalf("text buffer contents = %q, want %q", string(tail), "hellolo")
	}
}

// TestSreadRejectsOversizedExistingCount mirrors the reference
// interpreter's own bounds check: a preloaded count larger than the
// buffer's declared capacity is a story-file error, not something to
// silently clamp.
func TestSreadRejectsOversizedExistingCount(t *testing.T) {
	buf := buildV5Story(t, []uint8{0xba})
	scr := headlessscreen.New("x")
	store := tempsavestore.New(t.TempDir())
	m, err := New(buf, scr, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const textBuffer = 0x200
	if err := m.MM.WriteByte(textBuffer, 4); err != nil {
		t.Fatalf("WriteByte maxLen: %v", err)
	}
	if err := m.MM.WriteByte(textBuffer+1, 9); err != nil {
		t.Fatalf("WriteByte existing count: %v", err)
	}

	inst := &disasm.Instruction{
		Operands: []disasm.Operand{
			{Type: disasm.LargeConstant, Value: textBuffer},
		},
	}
	if err := opSread(m, inst); err == nil {
		t.Fatal("expected an error when the existing count exceeds the buffer's max length")
	}
}
