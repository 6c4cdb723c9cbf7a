package tui

import "fmt"

// color is an RGB triple convertible to a lipgloss hex string.
type color struct{ r, g, b int }

func (c color) hex() string { return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b) }

// standardColor maps a Z-machine colour number (2-12) to RGB, per the
// standard's fixed palette. The caller applies only 2-12; for 0
// (current) and 1 (default) it leaves the colour as it is.
func standardColor(n int) color {
	switch n {
	case 2:
		return color{0, 0, 0}
	case 3:
		return color{255, 0, 0}
	case 4:
		return color{0, 255, 0}
	case 5:
		return color{255, 255, 0}
	case 6:
		return color{0, 0, 255}
	case 7:
		return color{255, 0, 255}
	case 8:
		return color{0, 255, 255}
	case 9:
		return color{255, 255, 255}
	case 10:
		return color{192, 192, 192}
	case 11:
		return color{128, 128, 128}
	case 12:
		return color{64, 64, 64}
	default:
		return color{0, 0, 0}
	}
}

// keyToZChar maps a pressed key to the Z-machine extended character
// codes used for function/cursor keys (standard section 3.8).
func keyToZChar(key string, runes []rune) uint8 {
	switch key {
	case "up":
		return 129
	case "down":
		return 130
	case "left":
		return 131
	case "right":
		return 132
	case "f1":
		return 133
	case "f2":
		return 134
	case "f3":
		return 135
	case "f4":
		return 136
	case "f5":
		return 137
	case "f6":
		return 138
	case "f7":
		return 139
	case "f8":
		return 140
	case "f9":
		return 141
	case "f10":
		return 142
	case "esc":
		return 27
	case "enter":
		return 13
	case "backspace":
		return 8
	default:
		if len(runes) > 0 {
			return uint8(runes[0])
		}
		return 0
	}
}
