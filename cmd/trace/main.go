// Command trace disassembles a story file one instruction at a time
// as it actually executes, for debugging the interpreter itself
// rather than playing the game. It runs a real Machine with a
// headless screen so the game can proceed unattended.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zcodevm/zgo/disasm"
	"github.com/zcodevm/zgo/internal/headlessscreen"
	"github.com/zcodevm/zgo/internal/tempsavestore"
	"github.com/zcodevm/zgo/zmachine"
)

func main() {
	var maxSteps int
	flag.IntVar(&maxSteps, "n", 10000, "maximum instructions to trace before stopping")
	flag.Parse()

	storyPath := flag.Arg(0)
	if storyPath == "" {
		fmt.Fprintln(os.Stderr, "usage: trace [-n max] story-file [scripted-input...]")
		os.Exit(2)
	}

	storyBytes, err := os.ReadFile(storyPath)
	if err != nil {
		log.Fatalf("reading story file: %v", err)
	}

	scr := headlessscreen.New(flag.Args()[1:]...)
	store := tempsavestore.New("")

	m, err := zmachine.New(storyBytes, scr, store)
	if err != nil {
		log.Fatalf("loading story file: %v", err)
	}
	m.Warnf = func(format string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	}

	for i := 0; i < maxSteps && !m.Quit; i++ {
		inst, err := disasm.Decode(m.MM, m.State.PC, m.Core.Version)
		if err != nil {
			log.Fatalf("decode at 0x%05x: %v", m.State.PC, err)
		}
		fmt.Printf("%05x: %-14s %v\n", inst.Address, inst.Name, inst.Operands)

		if err := m.Step(); err != nil {
			log.Fatalf("step at 0x%05x (%s): %v", inst.Address, inst.Name, err)
		}
	}

	for _, line := range scr.Lines() {
		fmt.Println(line)
	}
}
