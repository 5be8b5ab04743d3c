package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6B7280")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	winnerStyle = cellStyle.Foreground(accent).Bold(true)
)

// newTable returns a bordered table with the shared header and cell styles.
// highlight, when non-nil, picks data cells drawn in the winner style.
func newTable(highlight func(row, col int) bool, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlight != nil && highlight(row, col):
				return winnerStyle
			default:
				return cellStyle
			}
		})
}

func printTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func printNote(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func dollars(amount float64) string {
	return "$" + humanize.CommafWithDigits(amount, 2)
}
