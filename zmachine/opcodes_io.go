package zmachine

import (
	"context"
	"strings"

	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/zerr"
	"github.com/zcodevm/zgo/zstring"
)

func (m *Machine) requireScreen() error {
	if m.Screen == nil {
		return zerr.New(zerr.InputSuppressed, "blocking input requested with no screen attached")
	}
	return nil
}

// opSread implements sread (v1-4, no store) / aread (v5+, stores
// terminator char). Text is tokenised into the dictionary unless the
// parse-buffer operand is 0 (v5+ may omit it to skip tokenising).
//
// v5+ stories may preload text_buf+1 with a count of characters already
// sitting in the buffer (continuing a previously-interrupted read); new
// input is appended after that prefix rather than overwriting it, and
// the real capacity for new characters shrinks by the same amount.
func opSread(m *Machine, inst *disasm.Instruction) error {
	if err := m.requireScreen(); err != nil {
		return err
	}
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	textBuffer := uint32(vals[0])

	maxLen, err := m.MM.ReadByte(textBuffer)
	if err != nil {
		return err
	}
	v5Style := m.Core.Version >= 5

	var existingLen uint8
	if v5Style {
		existingLen, err = m.MM.ReadByte(textBuffer + 1)
		if err != nil {
			return err
		}
		if existingLen > maxLen {
			return zerr.New(zerr.MemoryAccess, "sread: text buffer already contains more text (%d) than allowed (%d)", existingLen, maxLen)
		}
	}
	realMax := maxLen - existingLen

	var initial string
	line, err := m.Screen.ReadLine(context.Background(), int(realMax), initial)
	if err != nil {
		return err
	}
	line = strings.ToLower(line)
	if len(line) > int(realMax) {
		line = line[:realMax]
	}

	if v5Style {
		if err := m.MM.WriteByte(textBuffer+1, existingLen+uint8(len(line))); err != nil {
			return err
		}
		for i := 0; i < len(line); i++ {
			if err := m.MM.WriteByte(textBuffer+2+uint32(existingLen)+uint32(i), line[i]); err != nil {
				return err
			}
		}
	} else {
		for i := 0; i < len(line); i++ {
			if err := m.MM.WriteByte(textBuffer+1+uint32(i), line[i]); err != nil {
				return err
			}
		}
		if err := m.MM.WriteByte(textBuffer+1+uint32(len(line)), 0); err != nil {
			return err
		}
	}

	if len(vals) > 1 && vals[1] != 0 {
		fullLine := line
		if existingLen > 0 {
			prefix, err := m.MM.ReadSlice(textBuffer+2, textBuffer+2+uint32(existingLen))
			if err != nil {
				return err
			}
			fullLine = string(prefix) + line
		}
		if err := m.tokenise(uint32(vals[1]), fullLine, textBuffer, v5Style); err != nil {
			return err
		}
	}

	if inst.HasStore {
		return m.store(inst, 13) // terminated by newline
	}
	return nil
}

// tokenise splits line on dictionary separators and writes the parse
// buffer (word count, then per-word: dictionary addr, length, offset).
func (m *Machine) tokenise(parseBuffer uint32, line string, textBuffer uint32, v5Style bool) error {
	maxWords, err := m.MM.ReadByte(parseBuffer)
	if err != nil {
		return err
	}
	tokens := m.Dictionary.Tokenise(line)
	if len(tokens) > int(maxWords) {
		tokens = tokens[:maxWords]
	}
	if err := m.MM.WriteByte(parseBuffer+1, uint8(len(tokens))); err != nil {
		return err
	}
	textOffset := uint32(1)
	if v5Style {
		textOffset = 2
	}
	for i, tok := range tokens {
		encoded := zstring.EncodeDictionaryWord([]rune(tok.Word), m.Core.Version, m.Alphabets)
		addr := m.Dictionary.Find(encoded)
		base := parseBuffer + 2 + uint32(i)*4
		if err := m.MM.WriteWord(base, addr); err != nil {
			return err
		}
		if err := m.MM.WriteByte(base+2, uint8(tok.Length)); err != nil {
			return err
		}
		if err := m.MM.WriteByte(base+3, uint8(tok.Start)+uint8(textOffset)); err != nil {
			return err
		}
	}
	return nil
}

func opTokenise(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	textBuffer := uint32(vals[0])
	length, err := m.MM.ReadByte(textBuffer + 1)
	if err != nil {
		return err
	}
	bytesStr, err := m.MM.ReadSlice(textBuffer+2, textBuffer+2+uint32(length))
	if err != nil {
		return err
	}
	return m.tokenise(uint32(vals[1]), string(bytesStr), textBuffer, true)
}

func opEncodeText(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	zsciiTable, from, length, codedBuffer := uint32(vals[0]), vals[1], vals[2], uint32(vals[3])
	raw, err := m.MM.ReadSlice(zsciiTable+uint32(from), zsciiTable+uint32(from)+uint32(length))
	if err != nil {
		return err
	}
	encoded := zstring.EncodeDictionaryWord([]rune(string(raw)), m.Core.Version, m.Alphabets)
	for i, b := range encoded {
		if err := m.MM.WriteByte(codedBuffer+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}

func opReadChar(m *Machine, inst *disasm.Instruction) error {
	if err := m.requireScreen(); err != nil {
		return err
	}
	r, err := m.Screen.ReadChar(context.Background())
	if err != nil {
		return err
	}
	zchr, ok := zstring.DefaultUnicodeTranslationTable[r]
	if !ok {
		zchr = uint8(r)
	}
	return m.store(inst, uint16(zchr))
}

func opShowStatus(m *Machine, inst *disasm.Instruction) error {
	if m.Screen == nil {
		return nil
	}
	locationObj, err := m.MM.ReadGlobal(0)
	if err != nil {
		return err
	}
	obj, err := m.getObject(locationObj)
	if err != nil {
		return err
	}
	score, err := m.MM.ReadGlobal(1)
	if err != nil {
		return err
	}
	turns, err := m.MM.ReadGlobal(2)
	if err != nil {
		return err
	}
	m.Screen.ShowStatus(obj.Name, int(int16(score)), int(turns), m.Core.StatusBarTimeBased)
	return nil
}

func opVerify(m *Machine, inst *disasm.Instruction) error {
	var sum uint16
	length := m.Core.FileLength()
	for addr := uint32(0x40); addr < length; addr++ {
		b, err := m.MM.ReadByte(addr)
		if err != nil {
			break
		}
		sum += uint16(b)
	}
	return m.branch(inst, sum == m.Core.FileChecksum)
}

func opPiracy(m *Machine, inst *disasm.Instruction) error {
	return m.branch(inst, true)
}

func opQuit(m *Machine, inst *disasm.Instruction) error {
	m.Quit = true
	if m.Screen != nil {
		m.Screen.Quit()
	}
	return nil
}

func opOutputStream(m *Machine, inst *disasm.Instruction) error {
	vals, err := m.operandValues(inst.Operands)
	if err != nil {
		return err
	}
	table := uint32(0)
	if len(vals) > 1 {
		table = uint32(vals[1])
	}
	return m.setOutputStream(int16(vals[0]), table)
}

func opInputStream(m *Machine, inst *disasm.Instruction) error {
	// Reading from a recorded command file isn't supported; accepted
	// as a no-op so games that probe for it don't fail outright.
	return nil
}

func opBufferMode(m *Machine, inst *disasm.Instruction) error {
	return nil
}
