package zcore_test

import (
	"testing"

	"github.com/zcodevm/zgo/zcore"
)

func minimalV3Story(t *testing.T) []uint8 {
	t.Helper()
	buf := make([]uint8, 128)
	buf[0] = 3
	// FileLength at 0x1a, in 2-byte units for v3.
	buf[0x1a] = 0
	buf[0x1b] = uint8(len(buf) / 2)
	return buf
}

func TestLoadCoreRejectsShortFiles(t *testing.T) {
	if _, err := zcore.LoadCore(make([]uint8, 10)); err == nil {
		t.Fatal("expected an error loading a too-short story")
	}
}

func TestLoadCoreRejectsBadVersion(t *testing.T) {
	buf := minimalV3Story(t)
	buf[0] = 0
	if _, err := zcore.LoadCore(buf); err == nil {
		t.Fatal("expected an error loading version 0")
	}
	buf[0] = 9
	if _, err := zcore.LoadCore(buf); err == nil {
		t.Fatal("expected an error loading version 9")
	}
}

func TestLoadCoreNormalisesInterpreterFlags(t *testing.T) {
	core, err := zcore.LoadCore(minimalV3Story(t))
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	if core.InterpreterNumber != 6 {
		t.Fatalf("interpreter number = %d, want 6", core.InterpreterNumber)
	}
	if core.FlagByte1&0b0010_0000 == 0 {
		t.Fatal("expected split-screen flag set for v3")
	}
}

func TestFileLength(t *testing.T) {
	buf := minimalV3Story(t)
	core, err := zcore.LoadCore(buf)
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	if got, want := core.FileLength(), uint32(len(buf)); got != want {
		t.Fatalf("FileLength = %d, want %d", got, want)
	}
}

func TestSetDefaultColors(t *testing.T) {
	core, err := zcore.LoadCore(minimalV3Story(t))
	if err != nil {
		t.Fatalf("LoadCore: %v", err)
	}
	core.SetDefaultForegroundColorNumber(5)
	core.SetDefaultBackgroundColorNumber(2)
	if core.DefaultForegroundColorNumber != 5 || core.DefaultBackgroundColorNumber != 2 {
		t.Fatalf("colors not updated: fg=%d bg=%d", core.DefaultForegroundColorNumber, core.DefaultBackgroundColorNumber)
	}
	if core.Original()[0x2d] != 5 || core.Original()[0x2c] != 2 {
		t.Fatal("SetDefault* did not write through to the underlying bytes")
	}
}
