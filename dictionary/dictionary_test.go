package dictionary_test

import (
	"testing"

	"github.com/zcodevm/zgo/dictionary"
	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstate"
	"github.com/zcodevm/zgo/zstring"
)

// buildDictionary lays out a v3 dictionary table (no input codes, one
// byte of data per entry) with count entries; count < 0 produces an
// unsorted header so Dictionary.Find falls back to a linear scan.
func buildDictionary(t *testing.T, words []string, count int16) (*zmem.MemoryMap, uint32, *zstring.Alphabets) {
	t.Helper()
	alphabets := zstring.DefaultAlphabets(3)

	const entryLength = 4 + 1 // 4-byte encoded word, 1 data byte
	base := uint32(0x40)
	totalSize := base + 1 + 1 + 2 + uint32(len(words))*entryLength
	buf := make([]uint8, totalSize)
	buf[0] = 3
	buf[0x0e] = uint8(totalSize >> 8)
	buf[0x0f] = uint8(totalSize)

	buf[base] = 0 // no input codes
	buf[base+1] = entryLength
	buf[base+2] = uint8(uint16(count) >> 8)
	buf[base+3] = uint8(uint16(count))

	pos := base + 4
	for i, w := range words {
		encoded := zstring.EncodeDictionaryWord([]rune(w), 3, alphabets)
		copy(buf[pos:], encoded)
		buf[pos+4] = uint8(i) // data byte identifies the entry
		pos += entryLength
	}

	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	state := zstate.New(core)
	return zmem.New(core, state), base, alphabets
}

func TestParseAndFindSortedSingleEntry(t *testing.T) {
	mm, base, alphabets := buildDictionary(t, []string{"mailbox"}, 1)
	d, err := dictionary.Parse(mm, base, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(d.Entries))
	}
	want := zstring.EncodeDictionaryWord([]rune("mailbox"), 3, alphabets)
	if addr := d.Find(want); addr != d.Entries[0].Address {
		t.Fatalf("Find = %#x, want %#x", addr, d.Entries[0].Address)
	}
	if addr := d.Find(zstring.EncodeDictionaryWord([]rune("lantern"), 3, alphabets)); addr != 0 {
		t.Fatalf("expected no match for an absent word, got %#x", addr)
	}
}

func TestParseAndFindUnsorted(t *testing.T) {
	mm, base, alphabets := buildDictionary(t, []string{"zebra", "apple"}, -2)
	d, err := dictionary.Parse(mm, base, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(d.Entries))
	}
	want := zstring.EncodeDictionaryWord([]rune("apple"), 3, alphabets)
	addr := d.Find(want)
	if addr != d.Entries[1].Address {
		t.Fatalf("Find = %#x, want %#x (second, out-of-order entry)", addr, d.Entries[1].Address)
	}
}

func TestTokenise(t *testing.T) {
	mm, base, alphabets := buildDictionary(t, []string{"mailbox"}, 1)
	d, err := dictionary.Parse(mm, base, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// The dictionary's separator set (InputCodes) is empty in this
	// fixture, so only whitespace splits words.
	tokens := d.Tokenise("open the mailbox")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3: %+v", len(tokens), tokens)
	}
	if tokens[0].Word != "open" || tokens[2].Word != "mailbox" {
		t.Fatalf("tokens = %+v", tokens)
	}
}
