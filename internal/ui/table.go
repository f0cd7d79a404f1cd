// Package ui renders command output for terminals.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table is a simple table for displaying tabular data
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	styles  []*color.Color
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	noColor := false
	if opts != nil {
		noColor = opts.NoColor
	}

	return &Table{
		writer:  w,
		headers: headers,
		noColor: noColor,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.AddStyledRow(nil, cells...)
}

// AddStyledRow adds a row whose last cell is printed with style; nil
// prints it plain.
func (t *Table) AddStyledRow(style *color.Color, cells ...string) {
	t.rows = append(t.rows, cells)
	t.styles = append(t.styles, style)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	bold := t.color(color.New(color.Bold, color.FgCyan))
	for i, header := range t.headers {
		bold.Fprint(t.writer, padRight(header, widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	gray := t.color(color.New(color.FgHiBlack))
	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for r, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			text := cell
			if i < len(row)-1 {
				text = padRight(cell, widths[i])
			}
			if style := t.styles[r]; style != nil && i == len(row)-1 {
				t.color(style).Fprint(t.writer, text)
			} else {
				fmt.Fprint(t.writer, text)
			}
			if i < len(row)-1 {
				fmt.Fprint(t.writer, "  ")
			}
		}
		fmt.Fprintln(t.writer)
	}
}

func (t *Table) color(c *color.Color) *color.Color {
	if t.noColor {
		c.DisableColor()
	}
	return c
}

// padRight pads a string with spaces on the right to reach the target width
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// KeyValueTable renders a simple key-value table (2 columns)
type KeyValueTable struct {
	writer  io.Writer
	rows    [][2]string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	maxKeyWidth := 0
	for _, row := range t.rows {
		if n := utf8.RuneCountInString(row[0]); n > maxKeyWidth {
			maxKeyWidth = n
		}
	}

	cyan := color.New(color.FgCyan)
	if t.noColor {
		cyan.DisableColor()
	}
	for _, row := range t.rows {
		cyan.Fprint(t.writer, padRight(row[0]+":", maxKeyWidth+1))
		fmt.Fprintf(t.writer, " %s\n", row[1])
	}
}

// StateColor returns the color a pattern state is shown in: the first
// state of the priority list green, the last yellow and the others cyan.
// Unknown states are plain.
func StateColor(state string, states []string) *color.Color {
	for i, s := range states {
		if !strings.EqualFold(s, state) {
			continue
		}
		switch {
		case len(states) > 1 && i == len(states)-1:
			return color.New(color.FgYellow)
		case i == 0:
			return color.New(color.FgGreen)
		default:
			return color.New(color.FgCyan)
		}
	}
	return nil
}
