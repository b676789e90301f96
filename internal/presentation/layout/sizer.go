package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Sizer handles display-width math for table rendering. Identifier
// strings may carry wide runes, so padding goes through runewidth
// rather than len().
type Sizer struct {
}

// displayWidth calculates the actual display width of a string
func (s Sizer) displayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a specific display width
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := s.displayWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// ColumnWidth returns the widest display width among the given cells,
// at least min.
func (s Sizer) ColumnWidth(cells []string, min int) int {
	width := min
	for _, cell := range cells {
		if w := s.displayWidth(cell); w > width {
			width = w
		}
	}
	return width
}

// GetMaxWidth probes the terminal width with a conservative fallback.
func (s Sizer) GetMaxWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < 40 {
		termWidth = 80
	}
	maxWidth := termWidth - 2
	if maxWidth > 120 {
		maxWidth = 120
	}
	return maxWidth
}
