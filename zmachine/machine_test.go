package zmachine_test

import (
	"testing"

	"github.com/zcodevm/zgo/internal/headlessscreen"
	"github.com/zcodevm/zgo/internal/tempsavestore"
	"github.com/zcodevm/zgo/zmachine"
)

// buildStory lays out a minimal v3 story: an empty dictionary at
// 0x40, declared static from there on, with code starting at 0x44.
func buildStory(t *testing.T, code []uint8) []uint8 {
	t.Helper()
	const dictBase = 0x40
	const codeBase = dictBase + 4

	buf := make([]uint8, codeBase+uint32(len(code)))
	buf[0] = 3 // version

	putWord := func(addr uint32, v uint16) {
		buf[addr] = uint8(v >> 8)
		buf[addr+1] = uint8(v)
	}
	putWord(0x06, uint16(codeBase)) // first instruction
	putWord(0x08, dictBase)         // dictionary base
	putWord(0x0a, 0x10)             // object table base (unused by these tests)
	putWord(0x0c, 0x10)             // global variable base (unused)
	putWord(0x0e, dictBase)         // static memory base

	// empty dictionary: no input codes, entry length 4, zero entries
	buf[dictBase] = 0
	buf[dictBase+1] = 4
	putWord(dictBase+2, 0)

	copy(buf[codeBase:], code)
	return buf
}

func TestRunExecutesQuit(t *testing.T) {
	buf := buildStory(t, []uint8{0xba}) // 0OP:10 quit
	scr := headlessscreen.New()
	store := tempsavestore.New(t.TempDir())

	m, err := zmachine.New(buf, scr, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !m.Quit {
		t.Fatal("expected Quit to be set after executing the quit opcode")
	}
}

func TestNewRejectsV6(t *testing.T) {
	buf := buildStory(t, []uint8{0xba})
	buf[0] = 6
	scr := headlessscreen.New()
	store := tempsavestore.New(t.TempDir())
	if _, err := zmachine.New(buf, scr, store); err == nil {
		t.Fatal("expected an error loading a v6 story")
	}
}

func TestArithmeticAndStore(t *testing.T) {
	// add #5 #7 -> sp ; quit
	buf := buildStory(t, []uint8{
		0x14, 5, 7, 0, // 2OP:20 add 5 7 -> stack
		0xba, // quit
	})
	scr := headlessscreen.New()
	store := tempsavestore.New(t.TempDir())
	m, err := zmachine.New(buf, scr, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step (add): %v", err)
	}
	v, err := m.State.PopEval()
	if err != nil {
		t.Fatalf("PopEval: %v", err)
	}
	if v != 12 {
		t.Fatalf("add result = %d, want 12", v)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step (quit): %v", err)
	}
	if !m.Quit {
		t.Fatal("expected Quit to be set")
	}
}

func TestPrintWritesToScreen(t *testing.T) {
	// print_num needs no string table, unlike print/print_ret, so it's
	// the simplest opcode to check the output path end to end with.
	buf := buildStory(t, []uint8{
		0xe6, 0b0111_1111, 42, // VAR:6 print_num #42 (single small-constant operand)
		0xba, // quit
	})
	scr := headlessscreen.New()
	store := tempsavestore.New(t.TempDir())
	m, err := zmachine.New(buf, scr, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := scr.Lines()
	if len(lines) == 0 || lines[len(lines)-1] != "42" {
		t.Fatalf("lines = %v, want a trailing \"42\"", lines)
	}
}
