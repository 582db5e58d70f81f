// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natsunoshion/CA-Final/report"
	"github.com/natsunoshion/CA-Final/simfmt"
	"github.com/natsunoshion/CA-Final/simstat"
)

func table(means ...simstat.Value) *report.Table {
	t := &report.Table{Metric: simfmt.IPC, Headers: report.DefaultConfig().Headers}
	for i, m := range means {
		t.Rows = append(t.Rows, &report.Row{
			Group: report.Group{"next_line", "no", string(rune('a' + i))},
			Mean:  m,
		})
	}
	return t
}

func TestBar(t *testing.T) {
	var buf bytes.Buffer
	err := Bar(&buf, table(simstat.Avail(1.5), simstat.Unavailable, simstat.Avail(0.75)), "png", Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "not a PNG")

	buf.Reset()
	err = Bar(&buf, table(simstat.Avail(1)), "svg", Options{Title: "IPC by policy"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestBarNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Bar(&buf, table(simstat.Unavailable), "png", Options{}), ErrNoData)
	assert.ErrorIs(t, Bar(&buf, table(), "png", Options{}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestFormat(t *testing.T) {
	for path, want := range map[string]string{
		"ipc.png":       "png",
		"out/IPC.SVG":   "svg",
		"report.v1.pdf": "pdf",
	} {
		got, err := Format(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := Format("ipc.txt")
	assert.Error(t, err)
	_, err = Format("ipc")
	assert.Error(t, err)
}
