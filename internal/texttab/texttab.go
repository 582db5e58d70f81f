// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out text tables, either as aligned columns or
// with grid borders.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily
// chain them to build up many cells at once.
type Table struct {
	cells []textCell
	cols  int

	shrink []bool

	headerRows int

	curRow, curCol int
}

type textCell struct {
	row, col, span int
	value          string
	leftMargin     string
	alignment      align
}

type CellOption func(c *textCell)

func LeftMargin(x string) CellOption {
	return func(c *textCell) {
		c.leftMargin = x
	}
}

var (
	Left   CellOption = func(c *textCell) { c.alignment = alignLeft }
	Center            = func(c *textCell) { c.alignment = alignCenter }
	Right             = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// lpad pads s on the left to place it within width w.
func (a align) lpad(s string, w int) string {
	switch a {
	default:
		return s
	case alignCenter:
		l := (w - utf8.RuneCountInString(s)) / 2
		return fmt.Sprintf("%*s%s", l, "", s)
	case alignRight:
		return fmt.Sprintf("%*s", w, s)
	}
}

// pad pads s on both sides to exactly width w.
func (a align) pad(s string, w int) string {
	s = a.lpad(s, w)
	if n := w - utf8.RuneCountInString(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// Col skips to column "col" in table t. Columns are numbered starting
// at 0.
func (t *Table) Col(col int) *Table {
	if col < t.curCol {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", t.curCol, col))
	}
	t.curCol = col
	return t
}

// CurCol returns the current column index.
func (t *Table) CurCol() int {
	return t.curCol
}

// Cell adds a single-column cell at the current row and column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	return t.Span(1, value, opts...)
}

// Span adds a multi-column cell at the current row and column.
func (t *Table) Span(cols int, value string, opts ...CellOption) *Table {
	lMargin := " "
	if t.curCol == 0 || len(value) == 0 {
		// The left-most column and empty cells get no left margin.
		lMargin = ""
	}
	t.cells = append(t.cells, textCell{t.curRow, t.curCol, cols, value, lMargin, alignLeft})
	for _, o := range opts {
		o(&t.cells[len(t.cells)-1])
	}

	t.curCol += cols
	if t.curCol > t.cols {
		t.cols = t.curCol
	}

	return t
}

// SetShrink marks a column as a "shrink" column, which will have
// minimum width.
func (t *Table) SetShrink(col int, shrink bool) {
	for len(t.shrink) < col+1 {
		t.shrink = append(t.shrink, false)
	}
	t.shrink[col] = shrink
}

// SetHeaderRows marks the first n rows as headers. FormatGrid
// separates header rows from the body with a double rule.
func (t *Table) SetHeaderRows(n int) {
	t.headerRows = n
}

// Rows returns the number of rows in t.
func (t *Table) Rows() int {
	if len(t.cells) == 0 {
		return 0
	}
	return t.curRow + 1
}

func (t *Table) isShrink(col int) bool {
	if col < len(t.shrink) {
		return t.shrink[col]
	}
	return false
}

// widths computes the width of each column. lmargin gives the margin
// included in each column's width and sep the width of the separator
// between adjacent columns, which a spanning cell may use.
func (t *Table) widths(lmargin []int, sep int) []int {
	ws := make([]int, t.cols)
	// Consider cells in increasing span width.
	sort.SliceStable(t.cells, func(i, j int) bool {
		return t.cells[i].span < t.cells[j].span
	})
	var spanCols []int
	for _, cell := range t.cells {
		w := utf8.RuneCountInString(cell.value) + lmargin[cell.col]

		if cell.span == 1 {
			ws[cell.col] = max(ws[cell.col], w)
			continue
		}

		// A spanning cell also gets the separators between
		// the columns it covers.
		w -= sep * (cell.span - 1)
		tw := 0
		for col := cell.col; col < cell.col+cell.span; col++ {
			tw += ws[col]
		}
		if tw >= w {
			continue
		}

		// Grow the spanned columns toward a common average,
		// widest first, so columns that already exceed the
		// average keep their width and the rest share the
		// remaining space. Shrink columns never grow.
		spanCols = spanCols[:0]
		for col := cell.col; col < cell.col+cell.span; col++ {
			if t.isShrink(col) {
				w -= ws[col]
			} else {
				spanCols = append(spanCols, col)
			}
		}
		sort.Slice(spanCols, func(i, j int) bool {
			return ws[spanCols[i]] > ws[spanCols[j]]
		})
		span := len(spanCols)
		for _, col := range spanCols {
			// Round up w/span.
			avg := (w + span - 1) / span
			ws[col] = max(ws[col], avg)
			w -= ws[col]
			span--
		}
	}
	return ws
}

// sortCells puts the cells in top-to-bottom left-to-right order.
func (t *Table) sortCells() {
	sort.Slice(t.cells, func(i, j int) bool {
		if t.cells[i].row != t.cells[j].row {
			return t.cells[i].row < t.cells[j].row
		}
		return t.cells[i].col < t.cells[j].col
	})
}

// Format lays out table t as aligned columns and writes it to w.
func (t *Table) Format(w io.Writer) error {
	// Collect max length margin for each column.
	lmargin := make([]int, t.cols)
	for _, cell := range t.cells {
		lmargin[cell.col] = max(utf8.RuneCountInString(cell.leftMargin), lmargin[cell.col])
	}
	ws := t.widths(lmargin, 0)

	// offs[i] is where column i's left margin begins; the final
	// entry is the width of the table.
	offs := make([]int, t.cols+1)
	off := 0
	for i, w := range ws {
		offs[i] = off
		off += w
	}
	offs[len(ws)] = off

	t.sortCells()
	row, off := 0, 0
	for _, cell := range t.cells {
		if strings.TrimSpace(cell.value) == "" && strings.TrimSpace(cell.leftMargin) == "" {
			// Skip empty cells so rows carry no trailing
			// spaces.
			continue
		}

		for cell.row > row {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
			row++
			off = 0
		}

		spaces := offs[cell.col] - off
		if _, err := fmt.Fprintf(w, "%*s%*s", spaces, "", lmargin[cell.col], cell.leftMargin); err != nil {
			return err
		}
		off += spaces + lmargin[cell.col]

		// Total cell width, excluding the margin just printed.
		tw := offs[cell.col+cell.span] - offs[cell.col] - lmargin[cell.col]

		s := cell.alignment.lpad(cell.value, tw)
		if _, err := fmt.Fprintf(w, "%s", s); err != nil {
			return err
		}
		off += utf8.RuneCountInString(s)
	}
	if len(t.cells) > 0 {
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// FormatGrid lays out table t with borders around every cell and
// writes it to w:
//
//	+------+-----+
//	| name | n   |
//	+======+=====+
//	| a    | 1   |
//	+------+-----+
//
// Left margins are ignored. A table with no cells produces no output.
func (t *Table) FormatGrid(w io.Writer) error {
	if len(t.cells) == 0 {
		return nil
	}
	const sep = len(" | ")
	ws := t.widths(make([]int, t.cols), sep)
	t.sortCells()

	rule := func(c byte) string {
		var b strings.Builder
		b.WriteByte('+')
		for _, w := range ws {
			b.WriteString(strings.Repeat(string(c), w+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
		return b.String()
	}
	thin, thick := rule('-'), rule('=')

	var buf strings.Builder
	buf.WriteString(thin)
	i := 0
	nrows := t.Rows()
	for row := 0; row < nrows; row++ {
		buf.WriteByte('|')
		for col := 0; col < t.cols; {
			span, value, a := 1, "", alignLeft
			if i < len(t.cells) && t.cells[i].row == row && t.cells[i].col == col {
				cell := t.cells[i]
				span, value, a = cell.span, cell.value, cell.alignment
				i++
			}
			cw := sep * (span - 1)
			for c := col; c < col+span && c < t.cols; c++ {
				cw += ws[c]
			}
			buf.WriteByte(' ')
			buf.WriteString(a.pad(value, cw))
			buf.WriteString(" |")
			col += span
		}
		buf.WriteByte('\n')
		if row+1 == t.headerRows && row+1 < nrows {
			buf.WriteString(thick)
		} else {
			buf.WriteString(thin)
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
