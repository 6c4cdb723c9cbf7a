// Package screen defines the Screen collaborator interface: the
// boundary between the interpreter's output-stream/opcode semantics
// and whatever renders them (a terminal UI, a headless test buffer).
package screen

import "context"

// TextStyle is a bitmask matching set_text_style's argument.
type TextStyle uint8

const (
	StyleRoman       TextStyle = 0
	StyleReverse     TextStyle = 1 << 0
	StyleBold        TextStyle = 1 << 1
	StyleItalic      TextStyle = 1 << 2
	StyleFixedPitch  TextStyle = 1 << 3
)

// Screen is implemented by whatever renders the game's output and
// supplies its input: a terminal UI in normal play, a headless buffer
// for batch smoke tests.
type Screen interface {
	Print(s string)
	SetStyle(mask TextStyle)
	SetColour(fg, bg int)
	SetTrueColour(fg, bg int16)
	EraseWindow(window int)
	SplitWindow(lines int)
	SetWindow(window int)
	SetCursor(x, y int)
	SetBuffered(buffered bool)
	SetFont(font int) int

	// ReadLine blocks for a full line of player input (sread/aread).
	ReadLine(ctx context.Context, maxLen int, initial string) (string, error)
	// ReadChar blocks for a single keystroke (read_char).
	ReadChar(ctx context.Context) (rune, error)

	ShowStatus(location string, score int, turnsOrTime int, timeBased bool)
	Quit()
}
