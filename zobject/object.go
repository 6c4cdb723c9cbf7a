// Package zobject implements the object tree and property table:
// attributes, parent/sibling/child links, and property read/write,
// all routed through a zmem.MemoryMap so writes respect the dynamic
// memory write gate.
package zobject

import (
	"github.com/zcodevm/zgo/zerr"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zstring"
)

// Object is one entry out of the object table, with its attributes,
// tree links and a pointer to its property table decoded eagerly.
type Object struct {
	BaseAddress     uint32
	Id              uint16
	Name            string
	Attributes      uint64 // top 32 bits always valid; bits 32-47 only on v4+
	Parent          uint16
	Sibling         uint16
	Child           uint16
	PropertyPointer uint16
}

func defaultPropertyTableWords(version uint8) uint32 {
	if version >= 4 {
		return 63
	}
	return 31
}

func entrySize(version uint8) uint32 {
	if version >= 4 {
		return 14
	}
	return 9
}

// Get decodes object objId out of the object table at objectTableBase.
func Get(mm *zmem.MemoryMap, objId uint16, objectTableBase uint16, version uint8, alphabets *zstring.Alphabets, abbreviationTableBase uint16) (Object, error) {
	if objId == 0 {
		return Object{}, zerr.New(zerr.MemoryAccess, "object 0 does not exist")
	}

	base := uint32(objectTableBase) + defaultPropertyTableWords(version)*2 + uint32(objId-1)*entrySize(version)

	var parent, sibling, child uint16
	var propertyPtr uint16
	var attrs uint64

	if version >= 4 {
		w0, err := mm.ReadWord(base)
		if err != nil {
			return Object{}, err
		}
		w1, err := mm.ReadWord(base + 2)
		if err != nil {
			return Object{}, err
		}
		w2, err := mm.ReadWord(base + 4)
		if err != nil {
			return Object{}, err
		}
		attrs = uint64(w0)<<48 | uint64(w1)<<32 | uint64(w2)<<16
		parent, err = mm.ReadWord(base + 6)
		if err != nil {
			return Object{}, err
		}
		sibling, err = mm.ReadWord(base + 8)
		if err != nil {
			return Object{}, err
		}
		child, err = mm.ReadWord(base + 10)
		if err != nil {
			return Object{}, err
		}
		propertyPtr, err = mm.ReadWord(base + 12)
		if err != nil {
			return Object{}, err
		}
	} else {
		hi, err := mm.ReadWord(base)
		if err != nil {
			return Object{}, err
		}
		lo, err := mm.ReadWord(base + 2)
		if err != nil {
			return Object{}, err
		}
		attrs = uint64(hi)<<48 | uint64(lo)<<32
		p, err := mm.ReadByte(base + 4)
		if err != nil {
			return Object{}, err
		}
		s, err := mm.ReadByte(base + 5)
		if err != nil {
			return Object{}, err
		}
		c, err := mm.ReadByte(base + 6)
		if err != nil {
			return Object{}, err
		}
		parent, sibling, child = uint16(p), uint16(s), uint16(c)
		propertyPtr, err = mm.ReadWord(base + 7)
		if err != nil {
			return Object{}, err
		}
	}

	name, _, err := zstring.Decode(mm, uint32(propertyPtr)+1, version, alphabets, abbreviationTableBase)
	if err != nil {
		return Object{}, err
	}

	return Object{
		BaseAddress:     base,
		Id:              objId,
		Name:            name,
		Attributes:      attrs,
		Parent:          parent,
		Sibling:         sibling,
		Child:           child,
		PropertyPointer: propertyPtr,
	}, nil
}

func attributeMask(attribute uint16) uint64 {
	return uint64(1) << (63 - attribute)
}

func (o *Object) TestAttribute(attribute uint16) bool {
	return o.Attributes&attributeMask(attribute) != 0
}

func (o *Object) writeAttributes(mm *zmem.MemoryMap, version uint8) error {
	if err := mm.WriteWord(o.BaseAddress, uint16(o.Attributes>>48)); err != nil {
		return err
	}
	if err := mm.WriteWord(o.BaseAddress+2, uint16(o.Attributes>>32)); err != nil {
		return err
	}
	if version < 4 {
		return nil
	}
	return mm.WriteWord(o.BaseAddress+4, uint16(o.Attributes>>16))
}

func (o *Object) SetAttribute(attribute uint16, mm *zmem.MemoryMap, version uint8) error {
	o.Attributes |= attributeMask(attribute)
	return o.writeAttributes(mm, version)
}

func (o *Object) ClearAttribute(attribute uint16, mm *zmem.MemoryMap, version uint8) error {
	o.Attributes &^= attributeMask(attribute)
	return o.writeAttributes(mm, version)
}

func (o *Object) SetParent(parent uint16, version uint8, mm *zmem.MemoryMap) error {
	o.Parent = parent
	if version >= 4 {
		return mm.WriteWord(o.BaseAddress+6, parent)
	}
	return mm.WriteByte(o.BaseAddress+4, uint8(parent))
}

func (o *Object) SetSibling(sibling uint16, version uint8, mm *zmem.MemoryMap) error {
	o.Sibling = sibling
	if version >= 4 {
		return mm.WriteWord(o.BaseAddress+8, sibling)
	}
	return mm.WriteByte(o.BaseAddress+5, uint8(sibling))
}

func (o *Object) SetChild(child uint16, version uint8, mm *zmem.MemoryMap) error {
	o.Child = child
	if version >= 4 {
		return mm.WriteWord(o.BaseAddress+10, child)
	}
	return mm.WriteByte(o.BaseAddress+6, uint8(child))
}

// DefaultProperty reads a property's story-wide default value out of
// the object table header (used when an object doesn't override it).
func DefaultProperty(mm *zmem.MemoryMap, objectTableBase uint16, propertyId uint8) (uint16, error) {
	return mm.ReadWord(uint32(objectTableBase) + 2*uint32(propertyId-1))
}
