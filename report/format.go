// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/google/safehtml/template"

	"github.com/natsunoshion/CA-Final/internal/texttab"
	"github.com/natsunoshion/CA-Final/simfmt"
	"github.com/natsunoshion/CA-Final/simstat"
)

// FormatMean formats a row mean for display with six significant
// digits, or "N/A".
func FormatMean(v simstat.Value) string {
	if !v.OK {
		return simfmt.Unavailable
	}
	return strconv.FormatFloat(v.Mean, 'g', 6, 64)
}

// cells returns the display cells of row.
func (row *Row) cells() []string {
	cells := make([]string, 0, NumGroupDims+1)
	cells = append(cells, row.Group[:]...)
	return append(cells, FormatMean(row.Mean))
}

// FormatText writes t to w as a grid-bordered text table.
func FormatText(w io.Writer, t *Table) error {
	var tab texttab.Table
	tab.Row()
	for _, h := range t.Headers {
		tab.Cell(h)
	}
	tab.SetHeaderRows(1)
	for _, row := range t.Rows {
		tab.Row()
		cells := row.cells()
		for _, c := range cells[:NumGroupDims] {
			tab.Cell(c)
		}
		tab.Cell(cells[NumGroupDims], texttab.Right)
	}
	return tab.FormatGrid(w)
}

// FormatCSV writes t to w as CSV, with the headers as the first
// record.
func FormatCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Write(t.Headers[:])
	for _, row := range t.Rows {
		cw.Write(row.cells())
	}
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = template.Must(template.New("report").Parse(`<table class='simstat'>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows -}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end -}}
</tbody>
</table>
`))

type htmlTable struct {
	Headers []string
	Rows    [][]string
}

// FormatHTML writes t to w as an HTML table. All cell text is escaped.
func FormatHTML(w io.Writer, t *Table) error {
	data := htmlTable{Headers: t.Headers[:]}
	for _, row := range t.Rows {
		data.Rows = append(data.Rows, row.cells())
	}
	return htmlTemplate.Execute(w, data)
}
