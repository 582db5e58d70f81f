// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// A Record is a single record read from a simulator log. It is one of
// *Header, *Sample or *SyntaxError.
type Record interface {
	Pos() (fileName string, line int)
}

// A Header marks the start of the output for one simulator run.
type Header struct {
	Key      Key
	Workload string

	fileName string
	line     int
}

func (h *Header) Pos() (fileName string, line int) {
	return h.fileName, h.line
}

// A Sample is one measured metric value.
type Sample struct {
	Metric Metric
	Value  float64

	fileName string
	line     int
}

func (s *Sample) Pos() (fileName string, line int) {
	return s.fileName, s.line
}

// A Reader reads normalized simulator logs.
//
// Its API is modeled on bufio.Scanner. Unlike the line scanner it
// wraps, a Reader yields only records that carry meaning: configuration
// headers, metric samples and malformed metric values. Unavailable
// metric values are dropped.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	fileName string
	line     int
	rec      Record
	queue    []Record // records of the current line not yet returned
}

// NewReader constructs a reader to parse a simulator log from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(nil, maxLine)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.rec = nil
	r.queue = r.queue[:0]
}

// Scan advances the reader to the next record and reports whether a
// record was read.
// The caller should use the Record method to get the record.
// If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	r.rec = nil
	for len(r.queue) == 0 {
		if !r.s.Scan() {
			if err := r.s.Err(); err != nil {
				r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
			}
			return false
		}
		r.line++
		r.queue = r.parseLine(r.queue[:0], r.s.Text())
	}
	r.rec = r.queue[0]
	r.queue = r.queue[1:]
	return true
}

// parseLine appends the records on line to recs. A header takes
// precedence over metric values on the same line; otherwise each
// metric on the line yields its own record.
func (r *Reader) parseLine(recs []Record, line string) []Record {
	if key, workload, ok := MatchHeader(line); ok {
		return append(recs, &Header{key, workload, r.fileName, r.line})
	}
	for _, m := range MatchMetrics(line) {
		if m.Token == Unavailable {
			continue
		}
		v, err := strconv.ParseFloat(m.Token, 64)
		if err != nil {
			recs = append(recs, &SyntaxError{r.fileName, r.line, fmt.Sprintf("parsing %s value %q: not a number", m.Metric, m.Token), nil})
			continue
		}
		recs = append(recs, &Sample{m.Metric, v, r.fileName, r.line})
	}
	return recs
}

// Record returns the record most recently read by Scan. The returned
// record is owned by the caller.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
