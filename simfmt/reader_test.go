// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func printRecord(w io.Writer, r Record) {
	switch r := r.(type) {
	case *Header:
		fmt.Fprintf(w, "header %s %s\n", r.Key, r.Workload)
	case *Sample:
		fmt.Fprintf(w, "%s=%v\n", r.Metric, r.Value)
	case *SyntaxError:
		fmt.Fprintf(w, "SyntaxError: %s\n", r)
	default:
		panic(fmt.Sprintf("unknown record type %T", r))
	}
}

func parseAll(t *testing.T, data string) string {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test")
	var out strings.Builder
	for r.Scan() {
		printRecord(&out, r.Record())
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out.String()
}

func TestReader(t *testing.T) {
	for _, test := range []struct {
		name, input, want string
	}{
		{
			"headers",
			`=== ./results/perceptron-next_line-ip_stride-no-lru-1core_600.perlbench_s-210B.champsimtrace.xz.txt
perceptron-no-no-no-drrip-1core_gcc.txt`,
			`header next_line-ip_stride-no-lru 600.perlbench_s-210B.champsimtrace.xz
header no-no-no-drrip gcc
`,
		},
		{
			"metrics",
			`Core_0_IPC: 1.25
Core_0_branch_prediction_accuracy: 97.5
Core_0_L1D Hit Rate: Hit Rate: 91.5%
Core_0_L2C Hit Rate:  Hit Rate:  40%
Core_0_LLC Hit Rate: Hit Rate: 3.125%
`,
			`IPC=1.25
branch_prediction_accuracy=97.5
L1D Hit Rate=91.5
L2C Hit Rate=40
LLC Hit Rate=3.125
`,
		},
		{
			"unavailable dropped",
			`Core_0_IPC: N/A
Core_0_LLC Hit Rate: Hit Rate: N/A
Core_0_IPC: 3`,
			"IPC=3\n",
		},
		{
			// Normalize joins an unavailable hit rate with the
			// line after it.
			"joined metrics",
			`Core_0_L1D Hit Rate: Hit Rate: N/A Core_0_L2C Hit Rate: Hit Rate: 40%
Core_0_LLC Hit Rate: Hit Rate: N/A Core_0_IPC: 1.5
Core_0_L2C Hit Rate: Hit Rate: x Core_0_LLC Hit Rate: Hit Rate: 20%`,
			`L2C Hit Rate=40
IPC=1.5
LLC Hit Rate=20
`,
		},
		{
			"noise ignored",
			`Warmup complete CPU 0 instructions: 1000
Core_0_IPC 1.0
IPC: 4.0
`,
			"",
		},
		{
			"bad number",
			`Core_0_IPC: 1.2.3`,
			`SyntaxError: test:1: parsing IPC value "1.2.3": not a number
`,
		},
		{
			"header wins over metric",
			`perceptron-a-b-c-d-1core_w.txt Core_0_IPC: 9`,
			"header a-b-c-d w\n",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := parseAll(t, test.input)
			if got != test.want {
				t.Errorf("want:\n%sgot:\n%s", test.want, got)
			}
		})
	}
}

func TestReaderPos(t *testing.T) {
	r := NewReader(strings.NewReader("x\nperceptron-a-b-c-d-1core_w.txt\n\nCore_0_IPC: 1\n"), "")
	var lines []int
	for r.Scan() {
		name, line := r.Record().Pos()
		if name != "<unknown>" {
			t.Errorf("want file name <unknown>, got %q", name)
		}
		lines = append(lines, line)
	}
	if fmt.Sprint(lines) != "[2 4]" {
		t.Errorf("want lines [2 4], got %v", lines)
	}
}

func TestReaderJoinedPos(t *testing.T) {
	r := NewReader(strings.NewReader("perceptron-a-b-c-d-1core_w.txt\nCore_0_IPC: 1 Core_0_L1D Hit Rate: Hit Rate: 9%\n"), "log")
	var got []string
	for r.Scan() {
		name, line := r.Record().Pos()
		got = append(got, fmt.Sprintf("%s:%d", name, line))
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(got) != "[log:1 log:2 log:2]" {
		t.Errorf("want positions [log:1 log:2 log:2], got %v", got)
	}
}

func TestParseKey(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Key
		err  bool
	}{
		{"next_line-no-lru-drip", Key{"next_line", "no", "lru", "drip"}, false},
		{"a-b-c-d-e", Key{"a-b", "c", "d", "e"}, false},
		{"a-b-c", Key{}, true},
		{"a-b c-d-e", Key{}, true},
	} {
		got, err := ParseKey(test.in)
		if (err != nil) != test.err {
			t.Errorf("ParseKey(%q): unexpected error state %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseKey(%q) = %v, want %v", test.in, got, test.want)
		}
		if !test.err && got.String() != test.in {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), test.in)
		}
	}
}

func TestParseMetric(t *testing.T) {
	for _, m := range Metrics {
		got, err := ParseMetric(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMetric(%q) = %v, %v", m.String(), got, err)
		}
	}
	if m, err := ParseMetric("LLC"); err != nil || m != LLCHitRate {
		t.Errorf("ParseMetric(LLC) = %v, %v", m, err)
	}
	if _, err := ParseMetric("cpi"); err == nil {
		t.Errorf("ParseMetric(cpi) succeeded")
	}
}
