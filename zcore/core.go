// Package zcore parses a story file's header and holds the original,
// immutable story bytes. Dynamic memory is cloned out of this into
// zstate.State; zcore itself never mutates after construction other
// than the header-normalisation LoadCore performs once at load time.
package zcore

import (
	"encoding/binary"

	"github.com/zcodevm/zgo/zerr"
)

const (
	minStoryBytes = 64
	maxVersion    = 8
)

// Core is the parsed header plus a read-only view of the original story
// bytes, used as the baseline for static/high memory reads and for the
// Quetzal CMem delta.
type Core struct {
	bytes                            []uint8
	Version                          uint8
	FlagByte1                        uint8
	StatusBarTimeBased               bool
	ReleaseNumber                    uint16
	PagedMemoryBase                  uint16
	FirstInstruction                 uint16
	DictionaryBase                   uint16
	ObjectTableBase                  uint16
	GlobalVariableBase               uint16
	StaticMemoryBase                 uint16
	SerialNumber                     [6]uint8
	AbbreviationTableBase            uint16
	FileChecksum                     uint16
	InterpreterNumber                uint8
	InterpreterVersion               uint8
	ScreenHeightLines                uint8
	ScreenWidthChars                 uint8
	ScreenWidthUnits                 uint16
	ScreenHeightUnits                uint16
	FontHeight                       uint8
	FontWidth                        uint8
	RoutinesOffset                   uint16
	StringOffset                     uint16
	DefaultBackgroundColorNumber     uint8
	DefaultForegroundColorNumber     uint8
	TerminatingCharTableBase         uint16
	OutputStream3Width               uint16
	StandardRevisionNumber           uint16
	AlternativeCharSetBaseAddress    uint16
	ExtensionTableBaseAddress        uint16
	PlayerLoginName                  []uint8
	UnicodeExtensionTableBaseAddress uint16
}

// LoadCore validates bytes as a story file and parses its header,
// normalising the interpreter-capability flags the way a modern
// interpreter announces itself to the game.
func LoadCore(bytes []uint8) (*Core, error) {
	if len(bytes) < minStoryBytes {
		return nil, zerr.New(zerr.Format, "story file too small (%d bytes)", len(bytes))
	}
	version := bytes[0x00]
	if version == 0 || version > maxVersion {
		return nil, zerr.New(zerr.Format, "unrecognised story file version %d", version)
	}
	maxStoryBytes := 128 * 1024
	switch {
	case version >= 6:
		maxStoryBytes = 512 * 1024
	case version >= 4:
		maxStoryBytes = 256 * 1024
	}
	if len(bytes) > maxStoryBytes {
		return nil, zerr.New(zerr.Format, "story file too large for version %d (%d bytes)", version, len(bytes))
	}

	bytes[0x1e] = 0x6 // Interpreter number - IBM PC chosen as closest match
	bytes[0x1f] = 0x1 // Interpreter version - nobody cares

	// Typical 80x25 terminal dimensions, 1x1 font units.
	bytes[0x20] = 25
	bytes[0x21] = 80
	bytes[0x22] = 0
	bytes[0x23] = 80
	bytes[0x24] = 0
	bytes[0x25] = 25
	bytes[0x26] = 1
	bytes[0x27] = 1

	// Claim support for standard 1.1.
	bytes[0x32] = 0x1
	bytes[0x33] = 0x1

	if version <= 3 {
		bytes[1] |= 0b0010_0000 // split screen available
	} else {
		// bold (0x04), italic (0x08), fixed-pitch (0x10), split screen
		// (0x20), timed input (0x80); colours (0x01) from v5
		bytes[1] |= 0b1011_1100
		if version >= 5 {
			bytes[1] |= 0b0000_0001
		}
	}

	extensionTableBaseAddress := binary.BigEndian.Uint16(bytes[0x36:0x38])
	unicodeExtensionTableBaseAddress := uint16(0)
	if extensionTableBaseAddress != 0 && int(extensionTableBaseAddress)+8 <= len(bytes) {
		unicodeExtensionTableBaseAddress = binary.BigEndian.Uint16(bytes[extensionTableBaseAddress+6 : extensionTableBaseAddress+8])
	}

	var serial [6]uint8
	copy(serial[:], bytes[0x12:0x18])

	return &Core{
		bytes:                            bytes,
		Version:                          bytes[0x00],
		FlagByte1:                        bytes[0x01],
		StatusBarTimeBased:               bytes[0x01]&0b0000_0010 == 0b0000_0010,
		ReleaseNumber:                    binary.BigEndian.Uint16(bytes[0x02:0x04]),
		PagedMemoryBase:                  binary.BigEndian.Uint16(bytes[0x04:0x06]),
		FirstInstruction:                 binary.BigEndian.Uint16(bytes[0x06:0x08]),
		DictionaryBase:                   binary.BigEndian.Uint16(bytes[0x08:0x0a]),
		ObjectTableBase:                  binary.BigEndian.Uint16(bytes[0x0a:0x0c]),
		GlobalVariableBase:               binary.BigEndian.Uint16(bytes[0x0c:0x0e]),
		StaticMemoryBase:                 binary.BigEndian.Uint16(bytes[0x0e:0x10]),
		SerialNumber:                     serial,
		AbbreviationTableBase:            binary.BigEndian.Uint16(bytes[0x18:0x1a]),
		FileChecksum:                     binary.BigEndian.Uint16(bytes[0x1c:0x1e]),
		InterpreterNumber:                bytes[0x1e],
		InterpreterVersion:               bytes[0x1f],
		ScreenHeightLines:                bytes[0x20],
		ScreenWidthChars:                 bytes[0x21],
		ScreenWidthUnits:                 binary.BigEndian.Uint16(bytes[0x22:0x24]),
		ScreenHeightUnits:                binary.BigEndian.Uint16(bytes[0x24:0x26]),
		FontHeight:                       bytes[0x26],
		FontWidth:                        bytes[0x27],
		RoutinesOffset:                   binary.BigEndian.Uint16(bytes[0x28:0x2a]),
		StringOffset:                     binary.BigEndian.Uint16(bytes[0x2a:0x2c]),
		DefaultBackgroundColorNumber:     bytes[0x2c],
		DefaultForegroundColorNumber:     bytes[0x2d],
		TerminatingCharTableBase:         binary.BigEndian.Uint16(bytes[0x2e:0x30]),
		OutputStream3Width:               binary.BigEndian.Uint16(bytes[0x30:0x32]),
		StandardRevisionNumber:           binary.BigEndian.Uint16(bytes[0x32:0x34]),
		AlternativeCharSetBaseAddress:    binary.BigEndian.Uint16(bytes[0x34:0x36]),
		ExtensionTableBaseAddress:        extensionTableBaseAddress,
		PlayerLoginName:                  bytes[0x38:0x40],
		UnicodeExtensionTableBaseAddress: unicodeExtensionTableBaseAddress,
	}, nil
}

// FileLength returns the story's declared length in bytes, per the
// version-dependent unit multiplier held at 0x1a.
func (core *Core) FileLength() uint32 {
	var divisor uint32
	switch {
	case core.Version <= 3:
		divisor = 2
	case core.Version <= 5:
		divisor = 4
	default:
		divisor = 8
	}
	return uint32(binary.BigEndian.Uint16(core.bytes[0x1a:0x1c])) * divisor
}

func (core *Core) SetDefaultBackgroundColorNumber(color uint8) {
	core.bytes[0x2c] = color
	core.DefaultBackgroundColorNumber = color
}

func (core *Core) SetDefaultForegroundColorNumber(color uint8) {
	core.bytes[0x2d] = color
	core.DefaultForegroundColorNumber = color
}

// Original returns the read-only original story bytes, used by zstate
// as the Quetzal CMem delta baseline.
func (core *Core) Original() []uint8 { return core.bytes }

func (core *Core) ReadZByte(address uint32) uint8 {
	return core.bytes[address]
}

func (core *Core) ReadHalfWord(address uint32) uint16 {
	return binary.BigEndian.Uint16(core.bytes[address : address+2])
}

func (core *Core) ReadSlice(startAddress uint32, endAddress uint32) []uint8 {
	return core.bytes[startAddress:endAddress]
}

func (core *Core) MemoryLength() uint32 {
	return uint32(len(core.bytes))
}

// PackedAddressMultiplier returns the multiplier used to unpack a
// routine/string packed address for this story's version.
func (core *Core) PackedAddressMultiplier(forString bool) uint32 {
	switch {
	case core.Version <= 3:
		return 2
	case core.Version <= 7:
		return 4 // v6/7 packed addresses also carry a routine/string offset, applied by the caller.
	default:
		return 8
	}
}
