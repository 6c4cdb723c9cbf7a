// Package headlessscreen implements screen.Screen without a terminal:
// output accumulates into an in-memory buffer and input is drawn from
// a scripted queue, for smoke-testing story files without a TUI.
package headlessscreen

import (
	"context"
	"strings"

	"github.com/zcodevm/zgo/screen"
	"github.com/zcodevm/zgo/zerr"
)

// Screen is a buffer-backed screen.Screen. Zero value is ready to use.
type Screen struct {
	lines   []string
	current strings.Builder
	style   screen.TextStyle

	Commands []string // scripted sread/aread responses, consumed in order
	quit     bool
}

func New(commands ...string) *Screen {
	return &Screen{Commands: commands}
}

func (s *Screen) Print(text string) {
	for _, r := range text {
		if r == '\n' {
			s.lines = append(s.lines, s.current.String())
			s.current.Reset()
			continue
		}
		s.current.WriteRune(r)
	}
}

// Lines returns every completed line of output plus any partial line
// still pending, in order.
func (s *Screen) Lines() []string {
	if s.current.Len() == 0 {
		return s.lines
	}
	return append(append([]string(nil), s.lines...), s.current.String())
}

func (s *Screen) SetStyle(mask screen.TextStyle)       { s.style = mask }
func (s *Screen) SetColour(fg, bg int)                 {}
func (s *Screen) SetTrueColour(fg, bg int16)           {}
func (s *Screen) EraseWindow(window int)               { s.lines = nil; s.current.Reset() }
func (s *Screen) SplitWindow(lines int)                {}
func (s *Screen) SetWindow(window int)                 {}
func (s *Screen) SetCursor(x, y int)                   {}
func (s *Screen) SetBuffered(buffered bool)             {}
func (s *Screen) SetFont(font int) int                 { return 1 }
func (s *Screen) ShowStatus(location string, score, turnsOrTime int, timeBased bool) {}
func (s *Screen) Quit()                                { s.quit = true }

// ReadLine pops the next scripted command, or reports InputSuppressed
// once the script is exhausted so a driving test can stop the run
// loop and inspect what was printed up to that point.
func (s *Screen) ReadLine(ctx context.Context, maxLen int, initial string) (string, error) {
	if len(s.Commands) == 0 {
		return "", zerr.New(zerr.InputSuppressed, "no scripted input remaining")
	}
	cmd := s.Commands[0]
	s.Commands = s.Commands[1:]
	return cmd, nil
}

func (s *Screen) ReadChar(ctx context.Context) (rune, error) {
	if len(s.Commands) == 0 {
		return 0, zerr.New(zerr.InputSuppressed, "no scripted input remaining")
	}
	cmd := s.Commands[0]
	s.Commands = s.Commands[1:]
	if len(cmd) == 0 {
		return '\n', nil
	}
	return []rune(cmd)[0], nil
}

// Quitted reports whether the quit opcode was executed.
func (s *Screen) Quitted() bool { return s.quit }
