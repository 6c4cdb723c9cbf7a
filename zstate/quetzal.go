package zstate

import (
	"encoding/binary"

	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zerr"
)

// SaveQuetzal serialises the current state (dynamic memory delta plus
// the full call-stack) into a Quetzal-compatible IFF "FORM"/"IFZS"
// file, as original_source/src/core/state.c's get_quetzal_cmem/
// get_quetzal_stks do.
func SaveQuetzal(core *zcore.Core, s *State) ([]byte, error) {
	ifhd := buildIFhd(core, s)
	cmem := buildCMem(core, s)
	stks := buildStks(s)

	var out []byte
	out = append(out, []byte("FORM")...)
	out = append(out, placeholder4...)
	out = append(out, []byte("IFZS")...)
	out = appendChunk(out, "IFhd", ifhd)
	out = appendChunk(out, "CMem", cmem)
	out = appendChunk(out, "Stks", stks)

	binary.BigEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out, nil
}

var placeholder4 = []byte{0, 0, 0, 0}

func appendChunk(out []byte, id string, data []byte) []byte {
	out = append(out, []byte(id)...)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(data)))
	out = append(out, size[:]...)
	out = append(out, data...)
	if len(data)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func buildIFhd(core *zcore.Core, s *State) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint16(b[0:2], core.ReleaseNumber)
	copy(b[2:8], core.SerialNumber[:])
	binary.BigEndian.PutUint16(b[8:10], core.FileChecksum)
	b[10] = uint8(s.PC >> 16)
	b[11] = uint8(s.PC >> 8)
	b[12] = uint8(s.PC)
	return b
}

// buildCMem XORs the current dynamic memory against the original story
// bytes and run-length-encodes the zero bytes: a 0x00 byte begins a
// run, followed by a count byte of how many further zero bytes follow
// (0-255); a run longer than 256 bytes is split into consecutive runs.
func buildCMem(core *zcore.Core, s *State) []byte {
	original := core.Original()
	var out []byte
	inZeroRun := false
	zeros := 0
	for i, v := range s.Dynamic {
		var orig uint8
		if i < len(original) {
			orig = original[i]
		}
		val := v ^ orig
		if val != 0 {
			if inZeroRun {
				out = append(out, uint8(zeros))
				inZeroRun = false
			}
			out = append(out, val)
		} else if !inZeroRun {
			out = append(out, 0x00)
			zeros = 0
			inZeroRun = true
		} else {
			zeros++
			if zeros == 256 {
				out = append(out, 0xff, 0x00)
				zeros = 0
			}
		}
	}
	if inZeroRun {
		out = append(out, uint8(zeros))
	}
	return out
}

// buildStks writes each frame, oldest (the dummy frame) first, in the
// per-frame Quetzal layout: 3-byte return PC, 1 flags byte
// (000pvvvv), 1 result-var byte, 1 args-supplied-mask byte, a 2-byte
// eval-stack word count, then locals then eval-stack words.
func buildStks(s *State) []byte {
	var out []byte
	for _, f := range s.Frames {
		out = append(out,
			uint8(f.ReturnPC>>16), uint8(f.ReturnPC>>8), uint8(f.ReturnPC),
		)
		flags := uint8(len(f.Locals)) & 0x0f
		if f.Discard {
			flags |= 0x10
		}
		out = append(out, flags, f.ResultVar, f.ArgsSupplied)

		var stackCount [2]byte
		binary.BigEndian.PutUint16(stackCount[:], uint16(len(f.Stack)))
		out = append(out, stackCount[:]...)

		for _, v := range f.Locals {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], v)
			out = append(out, b[:]...)
		}
		for _, v := range f.Stack {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], v)
			out = append(out, b[:]...)
		}
	}
	return out
}

// RestoreQuetzal parses an IFF FORM/IFZS buffer and returns the State
// it encodes. The caller is responsible for checking the IFhd release/
// serial/checksum against the currently loaded story before accepting
// the result, per the Quetzal convention of warning-but-allowing on a
// mismatch.
func RestoreQuetzal(core *zcore.Core, data []byte) (*State, error) {
	if len(data) < 12 || string(data[0:4]) != "FORM" || string(data[8:12]) != "IFZS" {
		return nil, zerr.New(zerr.Format, "not a Quetzal save file")
	}

	var cmem, stks, ifhd []byte
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		start := pos + 8
		end := start + int(size)
		if end > len(data) {
			break
		}
		chunk := data[start:end]
		switch id {
		case "CMem":
			cmem = chunk
		case "Stks":
			stks = chunk
		case "IFhd":
			ifhd = chunk
		}
		pos = end
		if size%2 == 1 {
			pos++
		}
	}
	if cmem == nil || stks == nil || ifhd == nil {
		return nil, zerr.New(zerr.Format, "Quetzal file missing IFhd/CMem/Stks chunk")
	}
	if len(ifhd) < 13 {
		return nil, zerr.New(zerr.Format, "Quetzal IFhd chunk too short")
	}
	pc := uint32(ifhd[10])<<16 | uint32(ifhd[11])<<8 | uint32(ifhd[12])

	dynSize := len(core.Original())
	if dynSize > int(core.StaticMemoryBase) {
		dynSize = int(core.StaticMemoryBase)
	}
	if dynSize < 64 {
		dynSize = 64
	}
	dynamic, err := decompressCMem(cmem, core.Original(), dynSize)
	if err != nil {
		return nil, err
	}

	frames, err := parseStks(stks)
	if err != nil {
		return nil, err
	}

	return &State{Dynamic: dynamic, PC: pc, Frames: frames}, nil
}


// IFhdInfo is the subset of a Quetzal IFhd chunk a caller compares
// against the currently-loaded story before accepting a restore.
type IFhdInfo struct {
	ReleaseNumber uint16
	SerialNumber  [6]uint8
	FileChecksum  uint16
}

// PeekIFhd extracts the IFhd chunk from a Quetzal buffer without fully
// parsing CMem/Stks, so a caller can compare it against the running
// story before committing to a restore.
func PeekIFhd(data []byte) (IFhdInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "FORM" || string(data[8:12]) != "IFZS" {
		return IFhdInfo{}, zerr.New(zerr.Format, "not a Quetzal save file")
	}
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		start := pos + 8
		end := start + int(size)
		if end > len(data) || id != "IFhd" {
			pos = end
			if size%2 == 1 {
				pos++
			}
			continue
		}
		chunk := data[start:end]
		if len(chunk) < 13 {
			return IFhdInfo{}, zerr.New(zerr.Format, "Quetzal IFhd chunk too short")
		}
		var info IFhdInfo
		info.ReleaseNumber = binary.BigEndian.Uint16(chunk[0:2])
		copy(info.SerialNumber[:], chunk[2:8])
		info.FileChecksum = binary.BigEndian.Uint16(chunk[8:10])
		return info, nil
	}
	return IFhdInfo{}, zerr.New(zerr.Format, "Quetzal file missing IFhd chunk")
}

func decompressCMem(cmem []uint8, original []uint8, dynSize int) ([]uint8, error) {
	out := make([]uint8, dynSize)
	copy(out, original[:min(dynSize, len(original))])

	i := 0
	pos := 0
	for i < len(cmem) && pos < dynSize {
		b := cmem[i]
		i++
		if b == 0 {
			if i >= len(cmem) {
				return nil, zerr.New(zerr.Format, "truncated CMem run")
			}
			count := int(cmem[i]) + 1
			i++
			pos += count
			continue
		}
		var orig uint8
		if pos < len(original) {
			orig = original[pos]
		}
		out[pos] = b ^ orig
		pos++
	}
	return out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func parseStks(stks []uint8) ([]Frame, error) {
	var frames []Frame
	pos := 0
	for pos+8 <= len(stks) {
		pc := uint32(stks[pos])<<16 | uint32(stks[pos+1])<<8 | uint32(stks[pos+2])
		flags := stks[pos+3]
		resultVar := stks[pos+4]
		args := stks[pos+5]
		stackCount := int(binary.BigEndian.Uint16(stks[pos+6 : pos+8]))
		pos += 8

		numLocals := int(flags & 0x0f)
		discard := flags&0x10 != 0

		if pos+2*(numLocals+stackCount) > len(stks) {
			return nil, zerr.New(zerr.Format, "truncated Stks frame")
		}
		locals := make([]uint16, numLocals)
		for i := 0; i < numLocals; i++ {
			locals[i] = binary.BigEndian.Uint16(stks[pos : pos+2])
			pos += 2
		}
		stack := make([]uint16, stackCount)
		for i := 0; i < stackCount; i++ {
			stack[i] = binary.BigEndian.Uint16(stks[pos : pos+2])
			pos += 2
		}

		frames = append(frames, Frame{
			ReturnPC:     pc,
			Discard:      discard,
			ResultVar:    resultVar,
			ArgsSupplied: args,
			Locals:       locals,
			Stack:        stack,
		})
	}
	if len(frames) == 0 {
		return nil, zerr.New(zerr.Format, "Stks chunk has no frames")
	}
	return frames, nil
}
