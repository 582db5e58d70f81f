// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/natsunoshion/CA-Final/simfmt"
)

// Separator terminates each record in a summary file.
const Separator = "--------------------------------"

// A Writer writes summary records in the summary file format:
//
//	<key>:
//	IPC: <value>
//	branch_prediction_accuracy: <value>
//	L1D Hit Rate: <value>%
//	L2C Hit Rate: <value>%
//	LLC Hit Rate: <value>%
//	--------------------------------
//
// Hit rates carry the "%" suffix only when they are available.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes summary records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes one record to w.
func (w *Writer) Write(r *Record) error {
	fmt.Fprintf(&w.buf, "%s:\n", r.Key)
	for _, m := range simfmt.Metrics {
		v := r.Values[m]
		fmt.Fprintf(&w.buf, "%s: %s", m, v)
		if m.IsHitRate() && v.OK {
			w.buf.WriteByte('%')
		}
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString(Separator)
	w.buf.WriteByte('\n')

	// Writes to the buffer can't fail, so only the flush is checked.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

// WriteSummary writes every record of s to w in order.
func WriteSummary(w io.Writer, s *Summary) error {
	sw := NewWriter(w)
	for _, r := range s.Records {
		if err := sw.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// ReadSummary parses a summary file written by WriteSummary.
// fileName is used in error messages.
//
// Blank lines and lines that are not a key, a known metric or a
// separator are ignored. A record may omit metrics; omitted metrics
// are Unavailable.
func ReadSummary(r io.Reader, fileName string) (*Summary, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	s := new(Summary)
	var cur *Record
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "":
			continue
		case text == Separator:
			cur = nil
			continue
		case strings.HasSuffix(text, ":") && !strings.ContainsAny(text, " \t"):
			key, err := simfmt.ParseKey(strings.TrimSuffix(text, ":"))
			if err != nil {
				return nil, &simfmt.SyntaxError{FileName: fileName, Line: line, Msg: err.Error()}
			}
			cur = s.Add(key)
			continue
		}

		label, val, ok := strings.Cut(text, ": ")
		if !ok {
			continue
		}
		m, err := simfmt.ParseMetric(label)
		if err != nil || m.String() != label {
			// Not a metric line.
			continue
		}
		if cur == nil {
			return nil, &simfmt.SyntaxError{FileName: fileName, Line: line, Msg: fmt.Sprintf("%s outside of a configuration block", label)}
		}
		v, err := parseValue(val)
		if err != nil {
			return nil, &simfmt.SyntaxError{FileName: fileName, Line: line, Msg: fmt.Sprintf("parsing %s: %v", label, err)}
		}
		cur.Values[m] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
	}
	return s, nil
}

func parseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == simfmt.Unavailable {
		return Unavailable, nil
	}
	x, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return Unavailable, fmt.Errorf("bad value %q", s)
	}
	return Avail(x), nil
}
