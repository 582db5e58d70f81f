// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"fmt"
	"regexp"
	"strings"
)

// A Metric identifies one of the per-core statistics the simulator
// reports for a run.
type Metric int

const (
	IPC Metric = iota
	BranchAccuracy
	L1DHitRate
	L2CHitRate
	LLCHitRate

	numMetrics
)

// NumMetrics is the number of distinct Metric values.
const NumMetrics = int(numMetrics)

// Metrics lists every Metric in the order summaries are written.
var Metrics = [NumMetrics]Metric{IPC, BranchAccuracy, L1DHitRate, L2CHitRate, LLCHitRate}

var metricLabels = [NumMetrics]string{
	IPC:            "IPC",
	BranchAccuracy: "branch_prediction_accuracy",
	L1DHitRate:     "L1D Hit Rate",
	L2CHitRate:     "L2C Hit Rate",
	LLCHitRate:     "LLC Hit Rate",
}

var metricAliases = map[string]Metric{
	"ipc":    IPC,
	"branch": BranchAccuracy,
	"l1d":    L1DHitRate,
	"l2c":    L2CHitRate,
	"llc":    LLCHitRate,
}

// String returns the label used for m in summary files.
func (m Metric) String() string {
	if m < 0 || m >= numMetrics {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricLabels[m]
}

// IsHitRate reports whether m is a cache hit rate. Hit rates are
// percentages and carry a "%" suffix when written.
func (m Metric) IsHitRate() bool {
	return m == L1DHitRate || m == L2CHitRate || m == LLCHitRate
}

// ParseMetric returns the Metric named by s, which may be a summary
// label such as "L2C Hit Rate" or a short alias such as "l2c".
func ParseMetric(s string) (Metric, error) {
	for i, label := range metricLabels {
		if s == label {
			return Metric(i), nil
		}
	}
	if m, ok := metricAliases[strings.ToLower(s)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// NumDims is the number of dimensions in a configuration Key.
const NumDims = 4

// A Key identifies one point of a simulation sweep. Its dimensions are
// opaque strings taken from the result file name, minus the workload.
type Key [NumDims]string

// String returns the dash-joined form of k used in summary files.
func (k Key) String() string {
	return strings.Join(k[:], "-")
}

// ParseKey splits a dash-joined key into its dimensions. Dimensions
// may themselves contain dashes, in which case earlier dimensions take
// as much of the string as possible.
func ParseKey(s string) (Key, error) {
	m := keyGrammar.FindStringSubmatch(s)
	if m == nil {
		return Key{}, fmt.Errorf("malformed configuration key %q", s)
	}
	var k Key
	copy(k[:], m[1:])
	return k, nil
}

// NoDim is the placeholder returned for a dimension that does not
// exist.
const NoDim = ""

// Dim returns dimension i of k, counting from 0.
func (k Key) Dim(i int) string {
	if i < 0 || i >= NumDims {
		return NoDim
	}
	return k[i]
}

var (
	keyGrammar    = regexp.MustCompile(`^(\S+)-(\S+)-(\S+)-(\S+)$`)
	headerGrammar = regexp.MustCompile(`perceptron-(\S+)-(\S+)-(\S+)-(\S+)-1core_(\S+)\.txt`)

	// metricGrammar is indexed by Metric. Each captures either a
	// decimal token or the literal "N/A".
	metricGrammar = [NumMetrics]*regexp.Regexp{
		IPC:            regexp.MustCompile(`Core_0_IPC:\s*([\d.]+|N/A)`),
		BranchAccuracy: regexp.MustCompile(`Core_0_branch_prediction_accuracy:\s*([\d.]+|N/A)`),
		L1DHitRate:     regexp.MustCompile(`Core_0_L1D Hit Rate:\s*Hit Rate:\s*([\d.]+|N/A)`),
		L2CHitRate:     regexp.MustCompile(`Core_0_L2C Hit Rate:\s*Hit Rate:\s*([\d.]+|N/A)`),
		LLCHitRate:     regexp.MustCompile(`Core_0_LLC Hit Rate:\s*Hit Rate:\s*([\d.]+|N/A)`),
	}
)

// Unavailable is the token the simulator and summary files use for a
// value that could not be measured.
const Unavailable = "N/A"

// MatchHeader reports whether line names a result file, returning the
// configuration key and the workload it was run on.
func MatchHeader(line string) (key Key, workload string, ok bool) {
	m := headerGrammar.FindStringSubmatch(line)
	if m == nil {
		return Key{}, "", false
	}
	copy(key[:], m[1:1+NumDims])
	return key, m[1+NumDims], true
}

// A MetricMatch is one metric value found on a line. Token is the raw
// value text, which may be Unavailable.
type MetricMatch struct {
	Metric Metric
	Token  string
}

// MatchMetrics tests line against every metric grammar and returns one
// match per grammar that matches, in Metric order. A normalized line
// can carry several metrics when a hit rate with no "%" was joined
// with the line after it.
func MatchMetrics(line string) []MetricMatch {
	var ms []MetricMatch
	for i, re := range metricGrammar {
		if sub := re.FindStringSubmatch(line); sub != nil {
			ms = append(ms, MetricMatch{Metric(i), sub[1]})
		}
	}
	return ms
}
