package zmachine

import (
	"io"

	"github.com/zcodevm/zgo/screen"
)

// mem3Redirect is one active stream-3 redirect: output is captured
// into a word-count-prefixed table instead of being shown, and
// redirects nest (the most recent one wins, per spec).
type mem3Redirect struct {
	tableAddr uint32
	buffer    []byte
}

type streamState struct {
	screen           screen.Screen
	screenEnabled    bool
	transcript       io.Writer
	transcriptOn     bool
	commands         io.Writer
	commandsOn       bool
	mem3Stack        []mem3Redirect
}

func newStreamState(scr screen.Screen) streamState {
	return streamState{screen: scr, screenEnabled: true}
}

// SetTranscript enables output stream 2 (the game transcript) onto w,
// for the -T/--transcript CLI flag. The game may still toggle it off
// and on itself via output_stream.
func (m *Machine) SetTranscript(w io.Writer) {
	m.streams.transcript = w
	m.streams.transcriptOn = true
}

// printString writes text to every enabled output stream. Stream 3
// (memory) takes exclusive priority over streams 1/2 while active,
// per the standard.
func (m *Machine) printString(text string) error {
	if len(m.streams.mem3Stack) > 0 {
		top := &m.streams.mem3Stack[len(m.streams.mem3Stack)-1]
		top.buffer = append(top.buffer, []byte(text)...)
		return nil
	}
	if m.streams.screenEnabled && m.streams.screen != nil {
		m.streams.screen.Print(text)
	}
	if m.streams.transcriptOn && m.streams.transcript != nil {
		io.WriteString(m.streams.transcript, text)
	}
	return nil
}

// setOutputStream implements the output_stream opcode.
func (m *Machine) setOutputStream(n int16, tableAddr uint32) error {
	switch {
	case n == 1:
		m.streams.screenEnabled = true
	case n == -1:
		m.streams.screenEnabled = false
	case n == 2:
		m.streams.transcriptOn = true
	case n == -2:
		m.streams.transcriptOn = false
	case n == 3:
		m.streams.mem3Stack = append(m.streams.mem3Stack, mem3Redirect{tableAddr: tableAddr})
	case n == -3:
		if len(m.streams.mem3Stack) > 0 {
			top := m.streams.mem3Stack[len(m.streams.mem3Stack)-1]
			m.streams.mem3Stack = m.streams.mem3Stack[:len(m.streams.mem3Stack)-1]
			if err := m.MM.WriteWord(top.tableAddr, uint16(len(top.buffer))); err != nil {
				return err
			}
			for i, b := range top.buffer {
				if err := m.MM.WriteByte(top.tableAddr+2+uint32(i), b); err != nil {
					return err
				}
			}
		}
	case n == 4:
		m.streams.commandsOn = true
	case n == -4:
		m.streams.commandsOn = false
	}
	return nil
}
