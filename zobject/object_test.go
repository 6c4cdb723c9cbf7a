package zobject_test

import (
	"testing"

	"github.com/zcodevm/zgo/zcore"
	"github.com/zcodevm/zgo/zmem"
	"github.com/zcodevm/zgo/zobject"
	"github.com/zcodevm/zgo/zstate"
	"github.com/zcodevm/zgo/zstring"
)

// buildV3Fixture lays out a v3 object table with a single object (id
// 1): 31 words of property defaults, a 9-byte object entry, and a
// property table holding the name "mailbox" plus one property (id 5,
// one byte of data) before the terminating zero.
func buildV3Fixture(t *testing.T) (*zmem.MemoryMap, uint16) {
	t.Helper()

	const objectTableBase uint32 = 0x40
	entryBase := objectTableBase + 31*2
	alphabets := zstring.DefaultAlphabets(3)
	nameBytes := zstring.Encode([]rune("mailbox"), 3, alphabets)
	propTableBase := entryBase + 9

	totalSize := propTableBase + 1 + uint32(len(nameBytes)) + 2 + 2
	buf := make([]uint8, totalSize)
	buf[0] = 3 // version
	// Declare the whole fixture as dynamic memory so attribute/property
	// writes below are legal.
	buf[0x0e] = uint8(totalSize >> 8)
	buf[0x0f] = uint8(totalSize)

	// object entry: attributes=0, parent=0, sibling=0, child=0, property ptr
	buf[entryBase+7] = uint8(propTableBase >> 8)
	buf[entryBase+8] = uint8(propTableBase)

	// property table: name-length-in-words, name bytes, one property, terminator
	pos := propTableBase
	buf[pos] = uint8(len(nameBytes) / 2)
	pos++
	copy(buf[pos:], nameBytes)
	pos += uint32(len(nameBytes))
	buf[pos] = (0 << 5) | 5 // size byte: length 1, property 5
	pos++
	buf[pos] = 42 // property data
	pos++
	buf[pos] = 0 // terminator

	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	state := zstate.New(core)
	return zmem.New(core, state), uint16(objectTableBase)
}

func TestGetObjectZeroIsInvalid(t *testing.T) {
	mm, base := buildV3Fixture(t)
	alphabets := zstring.DefaultAlphabets(3)

	if _, err := zobject.Get(mm, 0, base, 3, alphabets, 0); err == nil {
		t.Fatal("expected an error retrieving object 0")
	}
}

func TestGetObjectDecodesNameAndLinks(t *testing.T) {
	mm, base := buildV3Fixture(t)
	alphabets := zstring.DefaultAlphabets(3)

	obj, err := zobject.Get(mm, 1, base, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Name != "mailbox" {
		t.Fatalf("name = %q, want %q", obj.Name, "mailbox")
	}
	if obj.Parent != 0 || obj.Sibling != 0 || obj.Child != 0 {
		t.Fatalf("expected all links zero, got parent=%d sibling=%d child=%d", obj.Parent, obj.Sibling, obj.Child)
	}
}

func TestObjectAttributes(t *testing.T) {
	mm, base := buildV3Fixture(t)
	alphabets := zstring.DefaultAlphabets(3)

	obj, err := zobject.Get(mm, 1, base, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.TestAttribute(3) {
		t.Fatal("attribute 3 should start clear")
	}
	if err := obj.SetAttribute(3, mm, 3); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	if !obj.TestAttribute(3) {
		t.Fatal("attribute 3 should be set")
	}
	if err := obj.ClearAttribute(3, mm, 3); err != nil {
		t.Fatalf("ClearAttribute: %v", err)
	}
	if obj.TestAttribute(3) {
		t.Fatal("attribute 3 should be clear again")
	}
}

func TestGetProperty(t *testing.T) {
	mm, base := buildV3Fixture(t)
	alphabets := zstring.DefaultAlphabets(3)

	obj, err := zobject.Get(mm, 1, base, 3, alphabets, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	prop, err := obj.GetProperty(5, mm, 3, base)
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if len(prop.Data) != 1 || prop.Data[0] != 42 {
		t.Fatalf("property data = %v, want [42]", prop.Data)
	}

	missing, err := obj.GetProperty(9, mm, 3, base)
	if err != nil {
		t.Fatalf("GetProperty (default): %v", err)
	}
	if missing.DataAddress != 0 {
		t.Fatalf("expected a default property with no data address, got %d", missing.DataAddress)
	}
}
