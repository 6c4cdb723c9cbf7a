package headlessscreen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zcodevm/zgo/internal/headlessscreen"
	"github.com/zcodevm/zgo/zerr"
)

func TestPrintAccumulatesLines(t *testing.T) {
	scr := headlessscreen.New()
	scr.Print("hello\nworld")
	lines := scr.Lines()
	if len(lines) != 2 || lines[0] != "hello" || lines[1] != "world" {
		t.Fatalf("lines = %v, want [hello world]", lines)
	}
}

func TestEraseWindowClearsOutput(t *testing.T) {
	scr := headlessscreen.New()
	scr.Print("gone\n")
	scr.EraseWindow(-1)
	if lines := scr.Lines(); len(lines) != 0 {
		t.Fatalf("lines = %v, want none after erase", lines)
	}
}

func TestReadLineConsumesScript(t *testing.T) {
	scr := headlessscreen.New("open mailbox", "look")
	cmd, err := scr.ReadLine(context.Background(), 255, "")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if cmd != "open mailbox" {
		t.Fatalf("cmd = %q, want %q", cmd, "open mailbox")
	}
	cmd, err = scr.ReadLine(context.Background(), 255, "")
	if err != nil || cmd != "look" {
		t.Fatalf("second ReadLine = %q, %v; want look, nil", cmd, err)
	}
}

func TestReadLineReportsInputSuppressedWhenExhausted(t *testing.T) {
	scr := headlessscreen.New()
	_, err := scr.ReadLine(context.Background(), 255, "")
	var zerror *zerr.Error
	if !errors.As(err, &zerror) || zerror.Kind != zerr.InputSuppressed {
		t.Fatalf("err = %v, want a zerr.InputSuppressed error", err)
	}
}

func TestQuit(t *testing.T) {
	scr := headlessscreen.New()
	if scr.Quitted() {
		t.Fatal("should not start quitted")
	}
	scr.Quit()
	if !scr.Quitted() {
		t.Fatal("expected Quitted() to report true after Quit()")
	}
}
