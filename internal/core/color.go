package core

// Color is the foreground color of a screen cell.
type Color uint8

// Text colors, mapped onto the 16 ANSI colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// Terrain colors, mapped onto the 256-color palette.
const (
	ColorGrass Color = iota + 32
	ColorLand
	ColorWater
	ColorTimber // palisades, bridges, wood counters
	ColorStone
	ColorStartBlock
	ColorDamaged
	ColorBoundary // tiles inside the fort boundary, underground view
)
