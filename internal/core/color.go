package core

// Color is a foreground color for a screen cell.
// The platform layer maps each value to a terminal style.
type Color uint8

// Tetromino and UI colors. ColorDefault renders with the terminal's own
// foreground.
const (
	ColorDefault Color = iota
	ColorCyan
	ColorYellow
	ColorMagenta
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
	ColorGray
	ColorDim
	ColorWhite
	ColorBrightYellow
	ColorBrightRed
	ColorBrightGreen
)

// String returns the color name, mostly for test output.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorCyan:
		return "cyan"
	case ColorYellow:
		return "yellow"
	case ColorMagenta:
		return "magenta"
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorOrange:
		return "orange"
	case ColorGray:
		return "gray"
	case ColorDim:
		return "dim"
	case ColorWhite:
		return "white"
	case ColorBrightYellow:
		return "bright-yellow"
	case ColorBrightRed:
		return "bright-red"
	case ColorBrightGreen:
		return "bright-green"
	default:
		return "unknown"
	}
}
