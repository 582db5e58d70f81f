// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	for _, test := range []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "empty",
			in:   nil,
			want: []string{},
		},
		{
			name: "untouched",
			in:   []string{"Core_0_IPC: 1.5", "Core_0_L1D Hit Rate: Hit Rate: 95.1%"},
			want: []string{"Core_0_IPC: 1.5", "Core_0_L1D Hit Rate: Hit Rate: 95.1%"},
		},
		{
			name: "split",
			in: []string{
				"Core_0_IPC: 1.5",
				"Core_0_L2C Hit Rate:   ",
				"Hit Rate: 40.25%",
				"Core_0_branch_prediction_accuracy: 97.2",
			},
			want: []string{
				"Core_0_IPC: 1.5",
				"Core_0_L2C Hit Rate: Hit Rate: 40.25%",
				"Core_0_branch_prediction_accuracy: 97.2",
			},
		},
		{
			name: "consecutive splits",
			in: []string{
				"Core_0_L1D Hit Rate:",
				"Hit Rate: 90%",
				"Core_0_LLC Hit Rate:",
				"Hit Rate: 10%",
			},
			want: []string{
				"Core_0_L1D Hit Rate: Hit Rate: 90%",
				"Core_0_LLC Hit Rate: Hit Rate: 10%",
			},
		},
		{
			// The continuation is taken verbatim, even if it
			// looks like a split line itself.
			name: "continuation not rescanned",
			in: []string{
				"Core_0_L1D Hit Rate:",
				"Hit Rate: N/A",
				"tail",
			},
			want: []string{
				"Core_0_L1D Hit Rate: Hit Rate: N/A",
				"tail",
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := Normalize(test.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("want:\n%q\ngot:\n%q", test.want, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := []string{
		"perceptron-no-no-no-lru-1core_gcc.txt",
		"Core_0_L1D Hit Rate:",
		"Hit Rate: 90.5%",
		"Core_0_L2C Hit Rate: Hit Rate: 50%",
		"Core_0_IPC: 0.75",
	}
	once, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Normalize(once)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestNormalizeUnavailableRejoined(t *testing.T) {
	in := []string{
		"Core_0_L1D Hit Rate: Hit Rate: N/A",
		"Core_0_IPC: 1",
		"Core_0_branch_prediction_accuracy: 9",
		"tail",
	}
	once, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Core_0_L1D Hit Rate: Hit Rate: N/A Core_0_IPC: 1",
		"Core_0_branch_prediction_accuracy: 9",
		"tail",
	}
	if !reflect.DeepEqual(once, want) {
		t.Fatalf("want:\n%q\ngot:\n%q", want, once)
	}

	// The joined line still has no "%" and absorbs the next line.
	twice, err := Normalize(once)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{
		"Core_0_L1D Hit Rate: Hit Rate: N/A Core_0_IPC: 1 Core_0_branch_prediction_accuracy: 9",
		"tail",
	}
	if !reflect.DeepEqual(twice, want) {
		t.Errorf("want:\n%q\ngot:\n%q", want, twice)
	}
}

func TestNormalizeTruncated(t *testing.T) {
	_, err := Normalize([]string{"Core_0_IPC: 1", "Core_0_LLC Hit Rate:"})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
	var se *SyntaxError
	if !errors.As(err, &se) || se.Line != 2 {
		t.Errorf("want error at line 2, got %v", err)
	}
}

func TestNormalizeStream(t *testing.T) {
	in := "header\nCore_0_L2C Hit Rate: \nHit Rate: 12.5%\nCore_0_IPC: 2\n"
	var out strings.Builder
	if err := NormalizeStream(&out, strings.NewReader(in), "log.txt"); err != nil {
		t.Fatal(err)
	}
	want := "header\nCore_0_L2C Hit Rate: Hit Rate: 12.5%\nCore_0_IPC: 2\n"
	if out.String() != want {
		t.Errorf("want %q, got %q", want, out.String())
	}

	out.Reset()
	err := NormalizeStream(&out, strings.NewReader("a\nb\nCore_0_L1D Hit Rate:\n"), "log.txt")
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
	if want := "log.txt:3: "; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("want error prefixed by %q, got %q", want, err)
	}
}
