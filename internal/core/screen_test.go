package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	expected := strings.Repeat(" ", 12)
	for y := 0; y < s.Height(); y++ {
		if row := s.Row(y); row != expected {
			t.Errorf("Row(%d) = %q, expected blank", y, row)
		}
	}
}

func TestScreenCells(t *testing.T) {
	s := NewScreen(10, 3)
	s.SetWithColor(1, 1, '≈', ColorWater)
	s.DrawTextWithColor(3, 0, "TW", ColorBrightWhite)
	s.Set(-1, 0, 'x')
	s.Set(10, 0, 'x')
	s.Set(0, 3, 'x')

	tests := []struct {
		name     string
		x, y     int
		expected Cell
	}{
		{"colored rune", 1, 1, Cell{Rune: '≈', Color: ColorWater}},
		{"text start", 3, 0, Cell{Rune: 'T', Color: ColorBrightWhite}},
		{"text end", 4, 0, Cell{Rune: 'W', Color: ColorBrightWhite}},
		{"untouched", 0, 0, blank},
		{"left of screen", -1, 0, blank},
		{"right of screen", 10, 0, blank},
		{"below screen", 0, 3, blank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.GetCell(tt.x, tt.y); got != tt.expected {
				t.Errorf("GetCell(%d, %d) = %+v, expected %+v", tt.x, tt.y, got, tt.expected)
			}
		})
	}

	s.Set(1, 1, '.')
	if got := s.GetCell(1, 1); got.Color != ColorDefault {
		t.Errorf("Set() kept color %v, expected default", got.Color)
	}

	s.Clear()
	if got := s.String(); strings.TrimSpace(got) != "" {
		t.Errorf("String() after Clear = %q, expected blanks", got)
	}
}

func TestScreenDrawing(t *testing.T) {
	tests := []struct {
		name     string
		draw     func(s *Screen)
		expected string
	}{
		{
			name:     "rect",
			draw:     func(s *Screen) { s.DrawRect(NewRect(1, 1, 3, 2), '▓') },
			expected: "      \n ▓▓▓  \n ▓▓▓  \n      ",
		},
		{
			name:     "box",
			draw:     func(s *Screen) { s.DrawBox(NewRect(0, 0, 5, 4), ColorGray) },
			expected: "┌───┐ \n│   │ \n│   │ \n└───┘ ",
		},
		{
			name:     "hline clipped",
			draw:     func(s *Screen) { s.DrawHLine(3, 2, 10, '#') },
			expected: "      \n      \n   ###\n      ",
		},
		{
			name:     "centered",
			draw:     func(s *Screen) { s.DrawTextCentered(1, "≈≈") },
			expected: "      \n  ≈≈  \n      \n      ",
		},
		{
			name:     "text clipped",
			draw:     func(s *Screen) { s.DrawText(4, 3, "Keep") },
			expected: "      \n      \n      \n    Ke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(6, 4)
			tt.draw(s)
			if got := s.String(); got != tt.expected {
				t.Errorf("String() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestScreenBoxColor(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorStone)

	for _, p := range [][2]int{{0, 0}, {2, 0}, {0, 2}, {4, 3}} {
		if c := s.GetCell(p[0], p[1]).Color; c != ColorStone {
			t.Errorf("GetCell(%d, %d).Color = %v, expected %v", p[0], p[1], c, ColorStone)
		}
	}
	if c := s.GetCell(2, 2).Color; c != ColorDefault {
		t.Errorf("box interior color = %v, expected default", c)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 6)
	s.DrawText(0, 0, "Aldmoor")
	s.DrawText(0, 5, "south")

	s.Resize(4, 3)
	if s.Width() != 4 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 4x3", s.Width(), s.Height())
	}
	if row := s.Row(0); row != "Aldm" {
		t.Errorf("Row(0) = %q, expected %q", row, "Aldm")
	}

	s.Resize(8, 6)
	if row := s.Row(0); row != "Aldm    " {
		t.Errorf("Row(0) = %q after growing, expected %q", row, "Aldm    ")
	}
	if row := s.Row(5); row != "        " {
		t.Errorf("Row(5) = %q, expected the dropped row to stay blank", row)
	}
	if row := s.Row(-1); row != "        " {
		t.Errorf("Row(-1) = %q, expected blanks", row)
	}
}
