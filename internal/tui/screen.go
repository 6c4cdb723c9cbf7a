// Package tui renders a running Z-machine in a terminal using Bubble
// Tea, adapted from the original ad hoc channel-based UI into an
// implementation of the screen.Screen collaborator interface so
// zmachine.Machine never needs to know a TUI exists.
package tui

import (
	"context"

	"github.com/zcodevm/zgo/screen"
)

// lineRequest/charRequest are posted to the Bubble Tea program to ask
// for player input; the reply comes back over the embedded channel.
type lineRequest struct {
	maxLen  int
	initial string
	reply   chan string
}

type charRequest struct {
	reply chan rune
}

// textMsg, styleMsg etc are posted into the Bubble Tea program's
// Update loop from Screen's methods, which are called from the
// Machine's goroutine rather than the UI goroutine.
type textMsg string
type styleMsg screen.TextStyle
type colourMsg struct{ fg, bg int }
type trueColourMsg struct{ fg, bg int16 }
type eraseWindowMsg int
type splitWindowMsg int
type setWindowMsg int
type cursorMsg struct{ x, y int }
type bufferedMsg bool
type fontMsg struct {
	font  int
	reply chan int
}
type statusMsg struct {
	location    string
	score       int
	turnsOrTime int
	timeBased   bool
}
type quitMsg struct{}

// Screen bridges zmachine.Machine (running on its own goroutine) to a
// Bubble Tea Program (running on the main goroutine) purely through
// channels; every screen.Screen method is safe to call concurrently
// with the Program's Update/View loop.
type Screen struct {
	send func(msg interface{})
}

// NewScreen constructs a Screen that posts through send, normally
// (*tea.Program).Send.
func NewScreen(send func(msg interface{})) *Screen {
	return &Screen{send: send}
}

func (s *Screen) Print(text string)             { s.send(textMsg(text)) }
func (s *Screen) SetStyle(mask screen.TextStyle) { s.send(styleMsg(mask)) }
func (s *Screen) SetColour(fg, bg int)           { s.send(colourMsg{fg, bg}) }
func (s *Screen) SetTrueColour(fg, bg int16)     { s.send(trueColourMsg{fg, bg}) }
func (s *Screen) EraseWindow(window int)         { s.send(eraseWindowMsg(window)) }
func (s *Screen) SplitWindow(lines int)          { s.send(splitWindowMsg(lines)) }
func (s *Screen) SetWindow(window int)           { s.send(setWindowMsg(window)) }
func (s *Screen) SetCursor(x, y int)             { s.send(cursorMsg{x, y}) }
func (s *Screen) SetBuffered(buffered bool)      { s.send(bufferedMsg(buffered)) }

func (s *Screen) SetFont(font int) int {
	reply := make(chan int, 1)
	s.send(fontMsg{font: font, reply: reply})
	return <-reply
}

func (s *Screen) ShowStatus(location string, score, turnsOrTime int, timeBased bool) {
	s.send(statusMsg{location, score, turnsOrTime, timeBased})
}

func (s *Screen) Quit() { s.send(quitMsg{}) }

func (s *Screen) ReadLine(ctx context.Context, maxLen int, initial string) (string, error) {
	reply := make(chan string, 1)
	s.send(lineRequest{maxLen: maxLen, initial: initial, reply: reply})
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Screen) ReadChar(ctx context.Context) (rune, error) {
	reply := make(chan rune, 1)
	s.send(charRequest{reply: reply})
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
