package zobject

import (
	"github.com/zcodevm/zgo/zerr"
	"github.com/zcodevm/zgo/zmem"
)

// Property is one decoded entry out of an object's property table.
type Property struct {
	Id                   uint8
	Length               uint8
	Data                 []uint8
	PropertyHeaderLength uint8
	Address              uint32
	DataAddress          uint32
}

// GetPropertyLength implements get_prop_len: given the address of a
// property's data (not its size byte), work back to find its length
// from the size byte(s) immediately preceding it.
func GetPropertyLength(mm *zmem.MemoryMap, addr uint32, version uint8) (uint16, error) {
	if addr == 0 {
		return 0, nil
	}
	prevByte, err := mm.ReadByte(addr - 1)
	if err != nil {
		return 0, err
	}
	if version <= 3 {
		return uint16(prevByte>>5) + 1, nil
	}
	if prevByte&0b1000_0000 != 0 {
		if prevByte&0b11_1111 == 0 {
			return 64, nil
		}
		return uint16(prevByte & 0b11_1111), nil
	}
	return uint16((prevByte>>6)&1) + 1, nil
}

func (o *Object) propertyTableStart(mm *zmem.MemoryMap) (uint32, error) {
	nameLength, err := mm.ReadByte(uint32(o.PropertyPointer))
	if err != nil {
		return 0, err
	}
	return uint32(o.PropertyPointer) + 1 + uint32(nameLength)*2, nil
}

// GetPropertyByAddress decodes the property whose size byte(s) start
// at propertyAddr.
func (o *Object) GetPropertyByAddress(propertyAddr uint32, mm *zmem.MemoryMap, version uint8) (Property, error) {
	sizeByte, err := mm.ReadByte(propertyAddr)
	if err != nil {
		return Property{}, err
	}

	length := (sizeByte >> 5) + 1
	id := sizeByte & 0b1_1111
	headerLength := uint8(1)

	if version >= 4 {
		if sizeByte&0b1000_0000 != 0 {
			second, err := mm.ReadByte(propertyAddr + 1)
			if err != nil {
				return Property{}, err
			}
			length = second & 0b11_1111
			if length == 0 {
				length = 64
			}
			id = sizeByte & 0b11_1111
			headerLength = 2
		} else {
			length = ((sizeByte >> 6) & 1) + 1
			id = sizeByte & 0b11_1111
		}
	}

	dataAddress := propertyAddr + uint32(headerLength)
	data, err := mm.ReadSlice(dataAddress, dataAddress+uint32(length))
	if err != nil {
		return Property{}, err
	}

	return Property{
		Id:                   id,
		Length:               length,
		Data:                 data,
		PropertyHeaderLength: headerLength,
		Address:              propertyAddr,
		DataAddress:          dataAddress,
	}, nil
}

// GetProperty returns propertyId's entry on this object, or the
// story-wide default (with DataAddress 0) when the object doesn't
// override it.
func (o *Object) GetProperty(propertyId uint8, mm *zmem.MemoryMap, version uint8, objectTableBase uint16) (Property, error) {
	currentPtr, err := o.propertyTableStart(mm)
	if err != nil {
		return Property{}, err
	}

	for {
		b, err := mm.ReadByte(currentPtr)
		if err != nil {
			return Property{}, err
		}
		if b == 0 {
			break
		}
		prop, err := o.GetPropertyByAddress(currentPtr, mm, version)
		if err != nil {
			return Property{}, err
		}
		if prop.Id == propertyId {
			return prop, nil
		}
		currentPtr += uint32(prop.Length) + uint32(prop.PropertyHeaderLength)
	}

	defaultValue, err := DefaultProperty(mm, objectTableBase, propertyId)
	if err != nil {
		return Property{}, err
	}
	return Property{Id: propertyId, Data: []uint8{uint8(defaultValue >> 8), uint8(defaultValue)}}, nil
}

// SetProperty overwrites propertyId's 1- or 2-byte value on this
// object. The property must already exist on the object.
func (o *Object) SetProperty(propertyId uint8, value uint16, mm *zmem.MemoryMap, version uint8) error {
	currentPtr, err := o.propertyTableStart(mm)
	if err != nil {
		return err
	}

	for {
		b, err := mm.ReadByte(currentPtr)
		if err != nil {
			return err
		}
		if b == 0 {
			break
		}
		prop, err := o.GetPropertyByAddress(currentPtr, mm, version)
		if err != nil {
			return err
		}
		if prop.Id == propertyId {
			switch prop.Length {
			case 1:
				return mm.WriteByte(prop.DataAddress, uint8(value))
			case 2:
				return mm.WriteWord(prop.DataAddress, value)
			default:
				return zerr.New(zerr.MemoryAccess, "put_prop on property %d of length %d", propertyId, prop.Length)
			}
		}
		currentPtr += uint32(prop.Length) + uint32(prop.PropertyHeaderLength)
	}

	return zerr.New(zerr.MemoryAccess, "object %d has no property %d", o.Id, propertyId)
}

// GetNextProperty implements get_next_prop: propertyId 0 asks for the
// object's first property.
func (o *Object) GetNextProperty(propertyId uint8, mm *zmem.MemoryMap, version uint8) (uint8, error) {
	if propertyId == 0 {
		currentPtr, err := o.propertyTableStart(mm)
		if err != nil {
			return 0, err
		}
		b, err := mm.ReadByte(currentPtr)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, nil
		}
		prop, err := o.GetPropertyByAddress(currentPtr, mm, version)
		if err != nil {
			return 0, err
		}
		return prop.Id, nil
	}

	currentPtr, err := o.propertyTableStart(mm)
	if err != nil {
		return 0, err
	}
	for {
		b, err := mm.ReadByte(currentPtr)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, zerr.New(zerr.MemoryAccess, "get_next_prop: object %d has no property %d", o.Id, propertyId)
		}
		prop, err := o.GetPropertyByAddress(currentPtr, mm, version)
		if err != nil {
			return 0, err
		}
		next := currentPtr + uint32(prop.Length) + uint32(prop.PropertyHeaderLength)
		if prop.Id == propertyId {
			nb, err := mm.ReadByte(next)
			if err != nil {
				return 0, err
			}
			if nb == 0 {
				return 0, nil
			}
			nextProp, err := o.GetPropertyByAddress(next, mm, version)
			if err != nil {
				return 0, err
			}
			return nextProp.Id, nil
		}
		currentPtr = next
	}
}
