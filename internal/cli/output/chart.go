package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Bar is one labelled value in a BarChart.
type Bar struct {
	Label string
	Value int
}

// BarChart draws horizontal bars scaled so the largest value spans width
// cells. Non-zero values always get at least one cell.
func BarChart(w io.Writer, bars []Bar, width int) {
	if len(bars) == 0 {
		fmt.Fprintln(w, "  (no data)")
		return
	}

	labelWidth, maxValue := 0, 0
	for _, b := range bars {
		labelWidth = max(labelWidth, utf8.RuneCountInString(b.Label))
		maxValue = max(maxValue, b.Value)
	}

	for _, b := range bars {
		cells := 0
		if maxValue > 0 {
			cells = b.Value * width / maxValue
		}
		if b.Value > 0 && cells == 0 {
			cells = 1
		}

		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(b.Label))
		fmt.Fprintf(w, "  %s%s │%s %d\n", b.Label, pad, strings.Repeat("█", cells), b.Value)
	}
}
