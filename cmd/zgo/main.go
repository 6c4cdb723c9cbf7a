// Command zgo runs a story file in a terminal, using a Bubble Tea
// screen for rendering and a temp-directory SaveStore for save/restore.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zcodevm/zgo/config"
	"github.com/zcodevm/zgo/internal/tempsavestore"
	"github.com/zcodevm/zgo/internal/tui"
	"github.com/zcodevm/zgo/zmachine"
)

func main() {
	var (
		verbose    bool
		debug      bool
		confPath   string
		transcript string
	)
	flag.BoolVar(&verbose, "v", false, "log warnings to stderr")
	flag.BoolVar(&verbose, "verbose", false, "log warnings to stderr")
	flag.BoolVar(&debug, "D", false, "print how to run the instruction tracer (cmd/trace) and exit")
	flag.BoolVar(&debug, "debug", false, "print how to run the instruction tracer (cmd/trace) and exit")
	flag.StringVar(&confPath, "c", "", "path to a TOML config file")
	flag.StringVar(&confPath, "conf", "", "path to a TOML config file")
	flag.StringVar(&transcript, "T", "", "write a game transcript (output stream 2) to this path")
	flag.StringVar(&transcript, "transcript", "", "write a game transcript (output stream 2) to this path")
	flag.Parse()

	storyPath := flag.Arg(0)
	if storyPath == "" {
		fmt.Fprintln(os.Stderr, "usage: zgo [flags] story-file")
		os.Exit(2)
	}

	if debug {
		fmt.Fprintln(os.Stderr, "zgo -D hands off to the trace command; run: go run ./cmd/trace", storyPath)
		os.Exit(2)
	}

	cfg := config.Default()
	if confPath != "" {
		loaded, err := config.Load(confPath)
		if err != nil {
			log.Fatalf("loading config %s: %v", confPath, err)
		}
		cfg = loaded
	}
	storyBytes, err := os.ReadFile(storyPath)
	if err != nil {
		log.Fatalf("reading story file: %v", err)
	}

	var program *tea.Program
	send := func(msg interface{}) {
		if program != nil {
			program.Send(msg)
		}
	}
	scr := tui.NewScreen(send)

	store := tempsavestore.New("")

	m, err := zmachine.New(storyBytes, scr, store)
	if err != nil {
		log.Fatalf("loading story file: %v", err)
	}
	if verbose {
		m.Warnf = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		}
	}
	if transcript != "" {
		f, err := os.Create(transcript)
		if err != nil {
			log.Fatalf("opening transcript file: %v", err)
		}
		defer f.Close()
		m.SetTranscript(f)
	}

	model := tui.New(storyPath, cfg.Screen.Columns)
	program = tea.NewProgram(model)

	go func() {
		if err := m.Run(); err != nil {
			program.Send(err)
		}
		scr.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error running program:", err)
		os.Exit(1)
	}
}
