// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart draws report tables as bar charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/natsunoshion/CA-Final/report"
)

// Options controls the size and look of a chart.
type Options struct {
	// Width and Height are the size of the chart. If zero, the
	// chart is sized to fit the number of bars.
	Width, Height vg.Length

	// Title is drawn above the chart. If empty, the metric header
	// of the table is used.
	Title string
}

// ErrNoData is returned when a table has no available values to draw.
var ErrNoData = errors.New("chart: no available values")

const barWidth = 12 // points

// Bar writes a bar chart of t to w in the given format, which may be
// "png", "svg", "pdf", "eps", "jpg" or "tiff". Rows with unavailable
// values are omitted.
func Bar(w io.Writer, t *report.Table, format string, opts Options) error {
	var (
		values plotter.Values
		names  []string
	)
	for _, row := range t.Rows {
		if !row.Mean.OK {
			continue
		}
		values = append(values, row.Mean.Mean)
		names = append(names, strings.Join(row.Group[:], "/"))
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pl := plot.New()
	pl.Title.Text = opts.Title
	if pl.Title.Text == "" {
		pl.Title.Text = t.Headers[report.NumGroupDims]
	}
	pl.Y.Label.Text = t.Metric.String()
	pl.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}
	pl.Add(bars)
	pl.NominalX(names...)

	// Slant the group labels so long configuration names don't
	// collide.
	pl.X.Tick.Label.Rotation = 0.8
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XRight

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = vg.Points(float64(barWidth*3*len(values))) + 4*vg.Centimeter
	}
	if height == 0 {
		height = 12 * vg.Centimeter
	}
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Format returns the chart format implied by the extension of path.
func Format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff":
		return ext, nil
	}
	return "", fmt.Errorf("chart: unsupported file extension %q", filepath.Ext(path))
}
