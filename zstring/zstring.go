// Package zstring implements ZSCII string decoding and encoding: the
// three-z-chars-per-word packing, the alphabet shift/lock state
// machine (which differs between v1-2 and v3+), abbreviation
// expansion, the ZSCII escape for arbitrary characters, and the
// Unicode translation table.
package zstring

import (
	"github.com/zcodevm/zgo/zmem"
)

var a0Default = [26]uint8{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z'}
var a1Default = [26]uint8{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z'}
var a2V1 = [26]uint8{' ', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '<', '-', ':', '(', ')'}
var a2Default = [26]uint8{' ', '\n', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '-', ':', '(', ')'}

// Alphabets holds the three 26-entry rows a story uses, which are
// either the version's default tables or a custom table supplied via
// the header's alphabet-table-address field (v5+).
type Alphabets struct {
	A0, A1, A2 [26]uint8
}

// DefaultAlphabets returns the standard alphabet table for a version.
func DefaultAlphabets(version uint8) *Alphabets {
	a := &Alphabets{A0: a0Default, A1: a1Default}
	if version == 1 {
		a.A2 = a2V1
	} else {
		a.A2 = a2Default
	}
	return a
}

// LoadAlphabets returns the version's default alphabets, or the
// story's custom table when the header declares one (v5+ only).
func LoadAlphabets(version uint8, mm *zmem.MemoryMap, customTableAddr uint16) (*Alphabets, error) {
	a := DefaultAlphabets(version)
	if version < 5 || customTableAddr == 0 {
		return a, nil
	}
	raw, err := mm.ReadSlice(uint32(customTableAddr), uint32(customTableAddr)+78)
	if err != nil {
		return nil, err
	}
	copy(a.A0[:], raw[0:26])
	copy(a.A1[:], raw[26:52])
	copy(a.A2[:], raw[52:78])
	return a, nil
}

const maxAbbreviationDepth = 1

// Decode reads a Z-string starting at addr and returns the decoded
// text plus the number of bytes consumed (always a multiple of 2).
// abbreviationTableBase of 0 disables abbreviation expansion, used
// when decoding an abbreviation string itself (they do not nest).
// A ZSCII escape cut short by the end of the string is dropped.
func Decode(mm *zmem.MemoryMap, addr uint32, version uint8, alphabets *Alphabets, abbreviationTableBase uint16) (string, uint32, error) {
	return decode(mm, addr, version, alphabets, abbreviationTableBase, 0)
}

func decode(mm *zmem.MemoryMap, addr uint32, version uint8, alphabets *Alphabets, abbreviationTableBase uint16, depth int) (string, uint32, error) {
	var zchrStream []uint8
	var bytesRead uint32
	ptr := addr
	for {
		word, err := mm.ReadWord(ptr)
		if err != nil {
			return "", 0, err
		}
		ptr += 2
		bytesRead += 2
		isLast := word>>15 == 1
		zchrStream = append(zchrStream, uint8((word>>10)&0b11111), uint8((word>>5)&0b11111), uint8(word&0b11111))
		if isLast {
			break
		}
	}

	var out []rune
	baseAlphabet := 0
	currentAlphabet := 0
	nextAlphabet := 0

	for i := 0; i < len(zchrStream); i++ {
		zchr := zchrStream[i]
		currentAlphabet = nextAlphabet
		nextAlphabet = baseAlphabet

		switch zchr {
		case 0:
			out = append(out, ' ')
			continue
		case 1:
			if version == 1 {
				out = append(out, '\n')
				continue
			}
			if version >= 2 && abbreviationTableBase != 0 && depth < maxAbbreviationDepth && i+1 < len(zchrStream) {
				i++
				text, err := expandAbbreviation(mm, version, alphabets, abbreviationTableBase, zchr, zchrStream[i], depth)
				if err != nil {
					return "", 0, err
				}
				out = append(out, []rune(text)...)
				continue
			}
		case 2:
			if version <= 2 {
				nextAlphabet = (nextAlphabet + 1) % 3
				continue
			}
			if abbreviationTableBase != 0 && depth < maxAbbreviationDepth && i+1 < len(zchrStream) {
				i++
				text, err := expandAbbreviation(mm, version, alphabets, abbreviationTableBase, zchr, zchrStream[i], depth)
				if err != nil {
					return "", 0, err
				}
				out = append(out, []rune(text)...)
				continue
			}
		case 3:
			if version <= 2 {
				nextAlphabet = (nextAlphabet + 2) % 3
				continue
			}
			if abbreviationTableBase != 0 && depth < maxAbbreviationDepth && i+1 < len(zchrStream) {
				i++
				text, err := expandAbbreviation(mm, version, alphabets, abbreviationTableBase, zchr, zchrStream[i], depth)
				if err != nil {
					return "", 0, err
				}
				out = append(out, []rune(text)...)
				continue
			}
		case 4:
			if version <= 2 {
				baseAlphabet = (baseAlphabet + 1) % 3
				nextAlphabet = baseAlphabet
			} else {
				nextAlphabet = (nextAlphabet + 1) % 3
			}
			continue
		case 5:
			if version <= 2 {
				baseAlphabet = (baseAlphabet + 2) % 3
				nextAlphabet = baseAlphabet
			} else {
				nextAlphabet = (nextAlphabet + 2) % 3
			}
			continue
		}

		if currentAlphabet == 2 && zchr == 6 {
			if i+2 >= len(zchrStream) {
				break
			}
			hi := zchrStream[i+1]
			lo := zchrStream[i+2]
			i += 2
			zscii := hi<<5 | lo
			r, ok := ZsciiToUnicode(zscii, mm.Core)
			if !ok {
				r = rune(zscii)
			}
			out = append(out, r)
			continue
		}

		if zchr < 6 {
			// Unreachable shift/abbreviation codes that fell through
			// because an abbreviation table wasn't supplied; treat as
			// a literal space so decoding can still make progress.
			out = append(out, ' ')
			continue
		}

		var row [26]uint8
		switch currentAlphabet {
		case 0:
			row = alphabets.A0
		case 1:
			row = alphabets.A1
		default:
			row = alphabets.A2
		}
		out = append(out, rune(row[zchr-6]))
	}

	return string(out), bytesRead, nil
}

func expandAbbreviation(mm *zmem.MemoryMap, version uint8, alphabets *Alphabets, abbreviationTableBase uint16, z uint8, x uint8, depth int) (string, error) {
	abbrIx := 32*(uint16(z)-1) + uint16(x)
	entryAddr := uint32(abbreviationTableBase) + 2*uint32(abbrIx)
	wordAddr, err := mm.ReadWord(entryAddr)
	if err != nil {
		return "", err
	}
	strAddr := uint32(wordAddr) * 2
	text, _, err := decode(mm, strAddr, version, alphabets, 0, depth+1)
	return text, err
}

// DecodeBytes is a convenience wrapper for decoding out of a plain
// byte slice, without abbreviation expansion or the Unicode
// translation table.
func DecodeBytes(bytes []uint8, version uint8, alphabets *Alphabets) string {
	var out []rune
	baseAlphabet, currentAlphabet, nextAlphabet := 0, 0, 0

	var zchrStream []uint8
	for ptr := 0; ptr+1 < len(bytes); ptr += 2 {
		word := uint16(bytes[ptr])<<8 | uint16(bytes[ptr+1])
		isLast := word>>15 == 1
		zchrStream = append(zchrStream, uint8((word>>10)&0b11111), uint8((word>>5)&0b11111), uint8(word&0b11111))
		if isLast {
			break
		}
	}

	for i := 0; i < len(zchrStream); i++ {
		zchr := zchrStream[i]
		currentAlphabet = nextAlphabet
		nextAlphabet = baseAlphabet

		switch zchr {
		case 0:
			out = append(out, ' ')
			continue
		case 1, 2, 3:
			if version <= 2 {
				shift := map[uint8]int{1: 1, 2: 1, 3: 2}[zchr]
				nextAlphabet = (nextAlphabet + shift) % 3
			}
			continue
		case 4:
			if version <= 2 {
				baseAlphabet = (baseAlphabet + 1) % 3
				nextAlphabet = baseAlphabet
			} else {
				nextAlphabet = (nextAlphabet + 1) % 3
			}
			continue
		case 5:
			if version <= 2 {
				baseAlphabet = (baseAlphabet + 2) % 3
				nextAlphabet = baseAlphabet
			} else {
				nextAlphabet = (nextAlphabet + 2) % 3
			}
			continue
		}

		if currentAlphabet == 2 && zchr == 6 && i+2 < len(zchrStream) {
			zscii := zchrStream[i+1]<<5 | zchrStream[i+2]
			i += 2
			out = append(out, rune(zscii))
			continue
		}
		if zchr < 6 {
			continue
		}
		var row [26]uint8
		switch currentAlphabet {
		case 0:
			row = alphabets.A0
		case 1:
			row = alphabets.A1
		default:
			row = alphabets.A2
		}
		out = append(out, rune(row[zchr-6]))
	}
	return string(out)
}

// Encode converts runes into a z-character stream (no abbreviations),
// padding the final word to a multiple of 3 z-characters with the
// shift-5 filler and setting the end bit on the final word.
func Encode(runes []rune, version uint8, alphabets *Alphabets) []uint8 {
	zchrs := encodeZchars(runes, version, alphabets)
	return packZchars(zchrs)
}

// EncodeDictionaryWord encodes runes to the dictionary's fixed word
// length (2 words / 6 z-chars for v<=3, 3 words / 9 z-chars for v>=4),
// truncating or padding with the shift-5 filler as required.
func EncodeDictionaryWord(runes []rune, version uint8, alphabets *Alphabets) []uint8 {
	n := 9
	if version <= 3 {
		n = 6
	}
	zchrs := encodeZchars(runes, version, alphabets)
	if len(zchrs) > n {
		zchrs = zchrs[:n]
	}
	for len(zchrs) < n {
		zchrs = append(zchrs, 5)
	}
	return packZchars(zchrs)
}

func encodeZchars(runes []rune, version uint8, alphabets *Alphabets) []uint8 {
	var zchrs []uint8
	for _, r := range runes {
		if r == ' ' {
			zchrs = append(zchrs, 0)
			continue
		}
		if idx, ok := findInRow(alphabets.A0, r); ok {
			zchrs = append(zchrs, idx+6)
			continue
		}
		if idx, ok := findInRow(alphabets.A1, r); ok {
			zchrs = append(zchrs, 4, idx+6)
			continue
		}
		if idx, ok := findInRow(alphabets.A2, r); ok {
			zchrs = append(zchrs, 5, idx+6)
			continue
		}
		// Fall back to the 10-bit ZSCII escape.
		zscii := uint8(r)
		zchrs = append(zchrs, 5, 6, zscii>>5, zscii&0b11111)
	}
	return zchrs
}

func findInRow(row [26]uint8, r rune) (uint8, bool) {
	for i, c := range row {
		if rune(c) == r {
			return uint8(i), true
		}
	}
	return 0, false
}

func packZchars(zchrs []uint8) []uint8 {
	for len(zchrs)%3 != 0 {
		zchrs = append(zchrs, 5)
	}
	out := make([]uint8, 0, len(zchrs)/3*2)
	for i := 0; i < len(zchrs); i += 3 {
		word := uint16(zchrs[i])<<10 | uint16(zchrs[i+1])<<5 | uint16(zchrs[i+2])
		if i+3 >= len(zchrs) {
			word |= 0x8000
		}
		out = append(out, uint8(word>>8), uint8(word))
	}
	return out
}
