// Package zmem provides the single gated path through which every
// other package touches story bytes: dynamic memory is read/write,
// static and high memory are read-only, and an optional Tracer
// observes every access without the caller needing to know it's there.
package zmem

import (
	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zerr"
	"github.com/zcodevm/zgo/zstate"
)

// Tracer observes memory accesses; it is consulted from ReadByte et al
// when non-nil, which is how cmd/trace instruments a running machine
// without the interpreter itself depending on tracing.
type Tracer interface {
	OnAccess(addr uint32, value uint16, write bool, word bool)
}

// MemoryMap is the gated view over a story's dynamic/static/high
// memory regions, backed by a *zcore.Core (original bytes) and a
// *zstate.State (mutable dynamic memory).
type MemoryMap struct {
	Core   *zcore.Core
	State  *zstate.State
	Tracer Tracer
}

func New(core *zcore.Core, state *zstate.State) *MemoryMap {
	return &MemoryMap{Core: core, State: state}
}

func (m *MemoryMap) dynSize() uint32 { return m.State.StaticMemoryBase() }

// ReadByte reads any address in dynamic, static or high memory.
func (m *MemoryMap) ReadByte(addr uint32) (uint8, error) {
	var v uint8
	if addr < m.dynSize() {
		v = m.State.Dynamic[addr]
	} else {
		if addr >= m.Core.MemoryLength() {
			return 0, zerr.New(zerr.MemoryAccess, "read byte out of range at 0x%x", addr)
		}
		v = m.Core.ReadZByte(addr)
	}
	m.trace(addr, uint16(v), false, false)
	return v, nil
}

// ReadWord reads a big-endian 16-bit word from any memory region,
// including across the static/high memory boundary where high memory
// may legitimately overlap the top of static memory.
func (m *MemoryMap) ReadWord(addr uint32) (uint16, error) {
	hi, err := m.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	lo, err := m.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	v := uint16(hi)<<8 | uint16(lo)
	m.trace(addr, v, false, true)
	return v, nil
}

// flags2Mask returns the Flags2 bits (header byte 0x10) a game is
// actually allowed to write: the transcript bit (bit 0) pre-v3, plus
// the fixed-pitch request bit (0x3) from v3 on, plus bit 2 (0x7) on v6.
func (m *MemoryMap) flags2Mask() uint8 {
	switch {
	case m.Core.Version < 3:
		return 0x01
	case m.Core.Version == 6:
		return 0x07
	default:
		return 0x03
	}
}

// WriteByte writes dynamic memory only; the header (addresses below
// 64) rejects every write except a masked merge into the Flags2 byte
// at 0x10, which a game may legitimately toggle.
func (m *MemoryMap) WriteByte(addr uint32, value uint8) error {
	if addr < 64 {
		if addr != 0x10 {
			return zerr.New(zerr.MemoryAccess, "write to header memory at 0x%x", addr)
		}
		mask := m.flags2Mask()
		m.State.Dynamic[0x10] = (m.State.Dynamic[0x10] &^ mask) | (value & mask)
		m.trace(addr, uint16(m.State.Dynamic[0x10]), true, false)
		return nil
	}
	if addr >= m.dynSize() {
		return zerr.New(zerr.MemoryAccess, "write to read-only memory at 0x%x", addr)
	}
	m.State.Dynamic[addr] = value
	m.trace(addr, uint16(value), true, false)
	return nil
}

// WriteWord writes a big-endian 16-bit word into dynamic memory.
func (m *MemoryMap) WriteWord(addr uint32, value uint16) error {
	if err := m.WriteByte(addr, uint8(value>>8)); err != nil {
		return err
	}
	if err := m.WriteByte(addr+1, uint8(value)); err != nil {
		return err
	}
	m.trace(addr, value, true, true)
	return nil
}

// ReadSlice returns a read-only view spanning addresses that may cross
// the dynamic/static boundary; callers must not retain it past the
// next write.
func (m *MemoryMap) ReadSlice(start, end uint32) ([]uint8, error) {
	if end > m.Core.MemoryLength() {
		return nil, zerr.New(zerr.MemoryAccess, "slice end 0x%x beyond story length", end)
	}
	if end <= m.dynSize() {
		return m.State.Dynamic[start:end], nil
	}
	if start >= m.dynSize() {
		return m.Core.ReadSlice(start, end), nil
	}
	out := make([]uint8, end-start)
	copy(out, m.State.Dynamic[start:m.dynSize()])
	copy(out[m.dynSize()-start:], m.Core.ReadSlice(m.dynSize(), end))
	return out, nil
}

// ReadGlobal reads global variable g (0-239, corresponding to variable
// numbers 16-255).
func (m *MemoryMap) ReadGlobal(g uint8) (uint16, error) {
	return m.ReadWord(uint32(m.Core.GlobalVariableBase) + uint32(g)*2)
}

// WriteGlobal writes global variable g (0-239).
func (m *MemoryMap) WriteGlobal(g uint8, value uint16) error {
	return m.WriteWord(uint32(m.Core.GlobalVariableBase)+uint32(g)*2, value)
}

func (m *MemoryMap) trace(addr uint32, v uint16, write, word bool) {
	if m.Tracer != nil {
		m.Tracer.OnAccess(addr, v, write, word)
	}
}
