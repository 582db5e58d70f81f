// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ErrTruncated is wrapped by the SyntaxError returned when the input
// ends in the middle of a split metric line.
var ErrTruncated = errors.New("truncated input")

// A SyntaxError represents a syntax error on a particular line of a
// simulator log or summary file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string

	// Err is the underlying error class, if any.
	Err error
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// isSplit reports whether line holds a hit-rate label whose value was
// wrapped onto the following line.
func isSplit(line string) bool {
	return strings.Contains(line, "Hit Rate") && !strings.Contains(line, "%")
}

func join(line, next string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace) + " " + next
}

func truncated(fileName string, line int) *SyntaxError {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &SyntaxError{fileName, line, "split hit rate line has no continuation: truncated input", ErrTruncated}
}

// Normalize rejoins hit-rate lines that the simulator wrapped across
// two physical lines. A line containing "Hit Rate" but no "%" is
// joined with the line after it; every other line is kept as is.
//
// Normalizing twice is a no-op only if every joined line carries a
// "%" value. A line whose hit rate is N/A has no "%", so each pass
// joins it with the line after it again. Normalize a raw log once.
func Normalize(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !isSplit(line) {
			out = append(out, line)
			continue
		}
		if i+1 == len(lines) {
			return nil, truncated("", i+1)
		}
		out = append(out, join(line, lines[i+1]))
		i++
	}
	return out, nil
}

// NormalizeStream is the streaming form of Normalize. It reads lines
// from r and writes the normalized lines to w, each terminated by a
// newline. fileName is used in error messages.
func NormalizeStream(w io.Writer, r io.Reader, fileName string) error {
	s := bufio.NewScanner(r)
	s.Buffer(nil, maxLine)
	bw := bufio.NewWriter(w)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Text()
		if isSplit(line) {
			if !s.Scan() {
				if err := s.Err(); err != nil {
					return fmt.Errorf("%s:%d: %w", fileName, lineNo, err)
				}
				return truncated(fileName, lineNo)
			}
			lineNo++
			line = join(line, s.Text())
		}
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("%s:%d: %w", fileName, lineNo, err)
	}
	return bw.Flush()
}

// maxLine bounds the length of a single log line.
const maxLine = 1 << 20
