// Package ui renders fixed-width text tables for terminal output.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Column is one column of a table. Width is fixed; cell values longer
// than Width are truncated with an ellipsis.
type Column struct {
	Header string
	Width  int
}

// Table collects rows and renders them under a header line.
type Table struct {
	columns []Column
	rows    [][]string
}

func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Width is the rendered line width: all column widths plus the single
// space between neighboring columns.
func (t *Table) Width() int {
	w := 0
	for _, col := range t.columns {
		w += col.Width
	}
	if len(t.columns) > 1 {
		w += len(t.columns) - 1
	}
	return w
}

// Render produces the header, a dashed rule and one line per row.
// Trailing padding is trimmed so lines never end in spaces.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var builder strings.Builder

	headerParts := make([]string, len(t.columns))
	for i, col := range t.columns {
		headerParts[i] = pad(col.Header, col.Width)
	}
	builder.WriteString(headerStyle.Render(strings.TrimRight(strings.Join(headerParts, " "), " ")))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", t.Width()))
	builder.WriteString("\n")

	for _, row := range t.rows {
		parts := make([]string, len(t.columns))
		for i, col := range t.columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts[i] = pad(Truncate(cell, col.Width), col.Width)
		}
		builder.WriteString(strings.TrimRight(strings.Join(parts, " "), " "))
		builder.WriteString("\n")
	}

	return builder.String()
}

// Truncate shortens s to at most width runes, replacing the cut tail
// with a single ellipsis rune.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
