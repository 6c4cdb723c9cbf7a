// Package dictionary parses a story's dictionary table and resolves
// encoded words against it, plus the lexer that splits an input line
// into dictionary-ready tokens.
package dictionary

import (
	"bytes"
	"sort"

	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstring"
)

// Header is the dictionary's word-separator preamble.
type Header struct {
	InputCodes  []uint8
	EntryLength uint8
	// Count is signed: a negative value means the entries are *not*
	// sorted and must be searched linearly (rare, but real story files
	// do this), a non-negative value is the normal sorted case.
	Count int16
}

// Entry is one parsed dictionary word.
type Entry struct {
	Address     uint16
	EncodedWord []uint8
	DecodedWord string
	Data        []uint8
}

// Dictionary is a story's parsed word list.
type Dictionary struct {
	Header  Header
	Entries []Entry
	sorted  bool
}

// Parse reads the dictionary table at baseAddress.
func Parse(mm *zmem.MemoryMap, baseAddress uint32, version uint8, alphabets *zstring.Alphabets, abbreviationBase uint16) (*Dictionary, error) {
	numInputCodes, err := mm.ReadByte(baseAddress)
	if err != nil {
		return nil, err
	}
	codesStart := baseAddress + 1
	codes, err := mm.ReadSlice(codesStart, codesStart+uint32(numInputCodes))
	if err != nil {
		return nil, err
	}
	entryLength, err := mm.ReadByte(codesStart + uint32(numInputCodes))
	if err != nil {
		return nil, err
	}
	countWord, err := mm.ReadWord(codesStart + uint32(numInputCodes) + 1)
	if err != nil {
		return nil, err
	}
	count := int16(countWord)

	header := Header{InputCodes: codes, EntryLength: entryLength, Count: count}

	encodedWordLength := 4
	if version > 3 {
		encodedWordLength = 6
	}

	n := int(count)
	if n < 0 {
		n = -n
	}

	entryPtr := codesStart + uint32(numInputCodes) + 3
	entries := make([]Entry, n)
	for ix := 0; ix < n; ix++ {
		encodedWord, err := mm.ReadSlice(entryPtr, entryPtr+uint32(encodedWordLength))
		if err != nil {
			return nil, err
		}
		decodedWord, _, err := zstring.Decode(mm, entryPtr, version, alphabets, abbreviationBase)
		if err != nil {
			return nil, err
		}
		data, err := mm.ReadSlice(entryPtr+uint32(encodedWordLength), entryPtr+uint32(header.EntryLength))
		if err != nil {
			return nil, err
		}
		entries[ix] = Entry{
			Address:     uint16(entryPtr),
			EncodedWord: append([]uint8(nil), encodedWord...),
			DecodedWord: decodedWord,
			Data:        append([]uint8(nil), data...),
		}
		entryPtr += uint32(header.EntryLength)
	}

	d := &Dictionary{Header: header, Entries: entries, sorted: count >= 0}
	return d, nil
}

// Find resolves an encoded word to its dictionary address, or 0 if
// it isn't present. Sorted dictionaries are searched with a binary
// search; a dictionary whose header count was negative (declaring
// itself unsorted) falls back to a linear scan.
func (d *Dictionary) Find(encodedWord []uint8) uint16 {
	if d.sorted {
		ix := sort.Search(len(d.Entries), func(i int) bool {
			return bytes.Compare(d.Entries[i].EncodedWord, encodedWord) >= 0
		})
		if ix < len(d.Entries) && bytes.Equal(d.Entries[ix].EncodedWord, encodedWord) {
			return d.Entries[ix].Address
		}
		return 0
	}
	for _, e := range d.Entries {
		if bytes.Equal(e.EncodedWord, encodedWord) {
			return e.Address
		}
	}
	return 0
}

// Token is one word split out of an input line by Tokenise, with its
// byte offset and length within the original line.
type Token struct {
	Word   string
	Start  int
	Length int
}

// Tokenise splits line into dictionary words, using the dictionary's
// declared word-separator characters as additional split points that
// are themselves kept as one-character tokens (matching the real
// lexer's treatment of punctuation like '.' and ',').
func (d *Dictionary) Tokenise(line string) []Token {
	isSeparator := func(r rune) bool {
		for _, c := range d.Header.InputCodes {
			if rune(c) == r {
				return true
			}
		}
		return false
	}

	var tokens []Token
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			tokens = append(tokens, Token{Word: line[start:end], Start: start, Length: end - start})
		}
		start = -1
	}

	runes := []rune(line)
	byteIx := 0
	for _, r := range runes {
		w := len(string(r))
		switch {
		case r == ' ':
			flush(byteIx)
		case isSeparator(r):
			flush(byteIx)
			tokens = append(tokens, Token{Word: string(r), Start: byteIx, Length: w})
		default:
			if start < 0 {
				start = byteIx
			}
		}
		byteIx += w
	}
	flush(byteIx)

	return tokens
}
