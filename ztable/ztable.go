// Package ztable implements the table-manipulation opcodes:
// print_table, scan_table and copy_table.
package ztable

import (
	"strings"

	"github.com/zcodevm/zgo/zmem"
)

// PrintTable renders a text table (width/height/skip in character
// units) to a string, one row per line.
func PrintTable(mm *zmem.MemoryMap, baddr uint32, width uint16, height uint16, skip uint16) (string, error) {
	var s strings.Builder
	rows := height
	if rows == 0 {
		rows = 1
	}
	for row := uint16(0); row < rows; row++ {
		if row != 0 {
			s.WriteByte('\n')
		}
		rowStart := baddr + uint32(row)*uint32(width+skip)
		for col := uint16(0); col < width; col++ {
			b, err := mm.ReadByte(rowStart + uint32(col))
			if err != nil {
				return "", err
			}
			s.WriteByte(b)
		}
	}
	return s.String(), nil
}

// ScanTable searches a table of `length` fields for test, returning
// the matching field's address or 0. form's low 7 bits give the field
// size in bytes; bit 7 set compares each field's first word, clear
// its first byte.
func ScanTable(mm *zmem.MemoryMap, test uint16, baddr uint32, length uint16, form uint16) (uint32, error) {
	fieldSize := form & 0b0111_1111
	checkWord := form&0b1000_0000 != 0
	if fieldSize == 0 {
		return 0, nil
	}

	ptr := baddr
	for i := uint16(0); i < length; i++ {
		if checkWord {
			v, err := mm.ReadWord(ptr)
			if err != nil {
				return 0, err
			}
			if v == test {
				return ptr, nil
			}
		} else {
			v, err := mm.ReadByte(ptr)
			if err != nil {
				return 0, err
			}
			if uint16(v) == test {
				return ptr, nil
			}
		}
		ptr += uint32(fieldSize)
	}
	return 0, nil
}

// CopyTable copies size bytes from first to second. A negative size
// permits overlap to corrupt the source mid-copy (per spec); second
// == 0 zero-fills |size| bytes of the first table.
func CopyTable(mm *zmem.MemoryMap, first uint32, second uint32, size int16) error {
	sizeAbs := uint32(size)
	if size < 0 {
		sizeAbs = uint32(-int32(size))
	}

	if second == 0 {
		for i := uint32(0); i < sizeAbs; i++ {
			if err := mm.WriteByte(first+i, 0); err != nil {
				return err
			}
		}
		return nil
	}

	if size >= 0 {
		tmp, err := mm.ReadSlice(first, first+sizeAbs)
		if err != nil {
			return err
		}
		tmp = append([]uint8(nil), tmp...)
		for i, v := range tmp {
			if err := mm.WriteByte(second+uint32(i), v); err != nil {
				return err
			}
		}
		return nil
	}

	for i := uint32(0); i < sizeAbs; i++ {
		v, err := mm.ReadByte(first + i)
		if err != nil {
			return err
		}
		if err := mm.WriteByte(second+i, v); err != nil {
			return err
		}
	}
	return nil
}
