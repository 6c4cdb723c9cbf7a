package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/zcodevm/zgo/screen"
)

type inputMode int

const (
	modeRunning inputMode = iota
	modeLine
	modeChar
)

// Model is a Bubble Tea program driving one running story. Output
// comes in as messages posted by a Screen created with NewScreen;
// input replies go back over the channel embedded in the pending
// lineRequest/charRequest.
type Model struct {
	Title string

	width int

	upperLines []string
	upperStyle lipgloss.Style
	lowerText  strings.Builder
	lowerStyle lipgloss.Style

	status      statusMsg
	mode        inputMode
	pendingLine chan string
	pendingChar chan rune
	input       textinput.Model

	splitAt       int
	currentWindow int
	cursorLine    int
}

func New(title string, initialWidth int) Model {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 512
	return Model{
		Title:      title,
		width:      initialWidth,
		input:      ti,
		upperStyle: lipgloss.NewStyle(),
		lowerStyle: lipgloss.NewStyle(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(m.Title), tea.WindowSize())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case error:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeChar:
			zchr := keyToZChar(msg.String(), msg.Runes)
			ch := m.pendingChar
			m.pendingChar = nil
			m.mode = modeRunning
			if zchr == 0 && len(msg.Runes) == 0 {
				zchr = 13
			}
			ch <- rune(zchr)
			return m, nil
		case modeLine:
			if msg.Type == tea.KeyEnter {
				line := m.input.Value()
				m.lowerText.WriteString(line + "\n")
				m.input.SetValue("")
				reply := m.pendingLine
				m.pendingLine = nil
				m.mode = modeRunning
				reply <- line
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil

	case textMsg:
		if m.currentWindow == 1 {
			m.appendUpper(string(msg))
		} else {
			m.appendLower(string(msg))
		}
		return m, nil

	case styleMsg:
		m.setActiveStyle(applyStyle(m.activeStyle(), screen.TextStyle(msg)))
		return m, nil

	case colourMsg:
		st := m.activeStyle()
		if msg.fg > 1 {
			st = st.Foreground(lipgloss.Color(standardColor(msg.fg).hex()))
		}
		if msg.bg > 1 {
			st = st.Background(lipgloss.Color(standardColor(msg.bg).hex()))
		}
		m.setActiveStyle(st)
		return m, nil

	case trueColourMsg:
		st := m.activeStyle()
		if msg.fg >= 0 {
			st = st.Foreground(lipgloss.Color(rgb15(msg.fg)))
		}
		if msg.bg >= 0 {
			st = st.Background(lipgloss.Color(rgb15(msg.bg)))
		}
		m.setActiveStyle(st)
		return m, nil

	case eraseWindowMsg:
		switch int(msg) {
		case -1, -2:
			m.upperLines = nil
			m.lowerText.Reset()
		case 0:
			m.lowerText.Reset()
		case 1:
			m.upperLines = nil
		}
		return m, nil

	case splitWindowMsg:
		m.splitAt = int(msg)
		for len(m.upperLines) < m.splitAt {
			m.upperLines = append(m.upperLines, "")
		}
		return m, nil

	case setWindowMsg:
		m.currentWindow = int(msg)
		if m.currentWindow == 1 {
			m.cursorLine = 0
		}
		return m, nil

	case cursorMsg:
		m.cursorLine = msg.y - 1
		return m, nil

	case bufferedMsg:
		return m, nil

	case fontMsg:
		msg.reply <- 1
		return m, nil

	case statusMsg:
		m.status = msg
		return m, nil

	case quitMsg:
		return m, tea.Quit

	case lineRequest:
		m.mode = modeLine
		m.pendingLine = msg.reply
		if msg.initial != "" {
			m.input.SetValue(msg.initial)
		}
		return m, nil

	case charRequest:
		m.mode = modeChar
		m.pendingChar = msg.reply
		return m, nil
	}

	return m, nil
}

func (m Model) activeStyle() lipgloss.Style {
	if m.currentWindow == 1 {
		return m.upperStyle
	}
	return m.lowerStyle
}

func (m *Model) setActiveStyle(st lipgloss.Style) {
	if m.currentWindow == 1 {
		m.upperStyle = st
	} else {
		m.lowerStyle = st
	}
}

func (m *Model) appendLower(text string) {
	m.lowerText.WriteString(m.lowerStyle.Render(text))
}

// appendUpper writes text into the fixed-size upper window at the
// current cursor line, per the standard's split_window/set_cursor
// model: the upper window is addressed by line, not appended to.
func (m *Model) appendUpper(text string) {
	for len(m.upperLines) <= m.cursorLine {
		m.upperLines = append(m.upperLines, "")
	}
	m.upperLines[m.cursorLine] += m.upperStyle.Render(text)
}

func applyStyle(base lipgloss.Style, mask screen.TextStyle) lipgloss.Style {
	return base.
		Bold(mask&screen.StyleBold != 0).
		Italic(mask&screen.StyleItalic != 0).
		Reverse(mask&screen.StyleReverse != 0)
}

// rgb15 converts a Z-machine 15-bit (5/5/5) true colour value to a hex
// string.
func rgb15(v int16) string {
	r := (v & 0x1f) * 8
	g := ((v >> 5) & 0x1f) * 8
	b := ((v >> 10) & 0x1f) * 8
	return color{int(r), int(g), int(b)}.hex()
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	if m.status.location != "" {
		s.WriteString(renderStatusLine(m.width, m.status))
		s.WriteByte('\n')
	}
	for _, l := range m.upperLines {
		s.WriteString(l)
		s.WriteByte('\n')
	}

	body := wordwrap.String(m.lowerText.String(), m.width)
	s.WriteString(body)

	if m.mode == modeLine {
		s.WriteString("\n" + m.input.View())
	}

	return s.String()
}

func renderStatusLine(width int, st statusMsg) string {
	style := lipgloss.NewStyle().Reverse(true)
	right := "Score: 0"
	if st.timeBased {
		right = "Time"
	}
	line := st.location
	pad := width - len(line) - len(right)
	if pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	if len(line) > width {
		line = line[:width]
	}
	return style.Render(line)
}

// BlockingContext is the context passed to Screen.ReadLine/ReadChar by
// a CLI main that has no cancellation source of its own.
func BlockingContext() context.Context { return context.Background() }
