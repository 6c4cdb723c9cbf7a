package zstring

import (
	"testing"

	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstate"
)

// newTestMemory builds a minimal valid story header so zcore/zstate/zmem
// can be constructed, then writes payload starting at dynamic memory
// address 0x40 (past the header) and returns a MemoryMap plus that
// address.
func newTestMemory(t *testing.T, version uint8, payload []uint8) (*zmem.MemoryMap, uint32) {
	t.Helper()
	buf := make([]uint8, 128+len(payload))
	buf[0] = version
	copy(buf[0x40:], payload)

	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	state := zstate.New(core)
	return zmem.New(core, state), 0x40
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		version   uint8
		in        []uint8
		out       string
		bytesRead uint32
	}{
		{"normal", 1, []uint8{11, 45, 42, 234, 1, 216, 0, 192, 98, 70, 70, 32, 72, 206, 68, 244, 116, 13, 42, 234, 142, 37, 11, 45, 42, 234, 1, 216}, "There is a small mailbox here.", 22},
		{"zscii", 1, []uint8{12, 193, 248, 165}, ">", 4},
		{"partial", 5, []uint8{26, 94, 23, 24, 148, 207}, "amy's", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm, addr := newTestMemory(t, tt.version, tt.in)
			alphabets := DefaultAlphabets(tt.version)

			str, bytesRead, err := Decode(mm, addr, tt.version, alphabets, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if str != tt.out {
				t.Fatalf("decoded %q, want %q", str, tt.out)
			}
			if bytesRead != tt.bytesRead {
				t.Fatalf("read %d bytes, want %d", bytesRead, tt.bytesRead)
			}
		})
	}
}

// TestDecodeV2AbbreviationExpansion checks that z-char 1 expands an
// abbreviation from version 2 onward (only v1 treats it as a literal
// newline); a version-2 story's abbreviation table is otherwise
// identical in shape to v3+.
func TestDecodeV2AbbreviationExpansion(t *testing.T) {
	const abbrTableBase = 0x40
	const abbrStrAddr = 0x44 // word-aligned, right after the 4-byte table

	alphabets := DefaultAlphabets(2)
	abbrText := Encode([]rune("hi"), 2, alphabets)

	buf := make([]uint8, abbrStrAddr+uint32(len(abbrText))+2)
	buf[0] = 2 // version

	wordAddr := uint16(abbrStrAddr / 2)
	buf[abbrTableBase] = uint8(wordAddr >> 8)
	buf[abbrTableBase+1] = uint8(wordAddr)
	copy(buf[abbrStrAddr:], abbrText)

	// Main string: a single word holding z-char 1 (abbreviation
	// marker), x=0 (abbreviation index 0), then a shift-5 filler,
	// with the end-of-string bit set.
	mainAddr := abbrStrAddr + uint32(len(abbrText))
	word := uint16(0x8000) | uint16(1)<<10 | uint16(5)
	buf[mainAddr] = uint8(word >> 8)
	buf[mainAddr+1] = uint8(word)

	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	state := zstate.New(core)
	mm := zmem.New(core, state)

	str, _, err := Decode(mm, mainAddr, 2, alphabets, abbrTableBase)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if str != "hi" {
		t.Fatalf("decoded %q, want %q", str, "hi")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	alphabets := DefaultAlphabets(3)
	encoded := Encode([]rune("mailbox"), 3, alphabets)
	if len(encoded)%2 != 0 {
		t.Fatalf("encoded length %d is not a whole number of words", len(encoded))
	}

	mm, addr := newTestMemory(t, 3, encoded)
	decoded, _, err := Decode(mm, addr, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "mailbox" {
		t.Fatalf("round trip gave %q, want %q", decoded, "mailbox")
	}
}

func TestEncodeDictionaryWordPadsAndTruncates(t *testing.T) {
	alphabets := DefaultAlphabets(3)
	got := EncodeDictionaryWord([]rune("a"), 3, alphabets)
	if len(got) != 4 {
		t.Fatalf("v3 dictionary word encoded to %d bytes, want 4", len(got))
	}

	got = EncodeDictionaryWord([]rune("averylongwordthatoverflows"), 3, alphabets)
	if len(got) != 4 {
		t.Fatalf("truncated v3 dictionary word encoded to %d bytes, want 4", len(got))
	}
}
