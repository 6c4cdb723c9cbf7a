package tempsavestore_test

import (
	"testing"

	"github.com/zcodevm/zgo/internal/tempsavestore"
)

func TestWriteThenRead(t *testing.T) {
	store := tempsavestore.New(t.TempDir())
	path, err := store.Write("story.sav", []byte("quetzal bytes"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "quetzal bytes" {
		t.Fatalf("read %q, want %q", data, "quetzal bytes")
	}
}

func TestReadRelativePath(t *testing.T) {
	store := tempsavestore.New(t.TempDir())
	if _, err := store.Write("story.sav", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := store.Read("story.sav")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "x" {
		t.Fatalf("read %q, want %q", data, "x")
	}
}

func TestPromptForSaveReturnsSuggestedName(t *testing.T) {
	store := tempsavestore.New(t.TempDir())
	name, err := store.Prompt(true, "adventure.sav")
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if name != "adventure.sav" {
		t.Fatalf("name = %q, want adventure.sav", name)
	}
}

func TestPromptForRestorePicksMostRecent(t *testing.T) {
	store := tempsavestore.New(t.TempDir())
	if _, err := store.Write("first.sav", []byte("1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := store.Write("second.sav", []byte("2")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	name, err := store.Prompt(false, "")
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if name != "first.sav" && name != "second.sav" {
		t.Fatalf("name = %q, want one of the written saves", name)
	}
}

func TestPromptForRestoreEmptyDir(t *testing.T) {
	store := tempsavestore.New(t.TempDir())
	if _, err := store.Prompt(false, ""); err == nil {
		t.Fatal("expected an error prompting for restore with no saves present")
	}
}
