// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report filters summarized simulator results and regroups
// them into a table of one metric.
//
// Grouping collapses the last key dimension and averages the already
// averaged per-configuration values. This mean of means equals the mean over the original samples
// only when every collapsed configuration had the same number of
// samples.
//
// DefaultConfig reads a key as L1D prefetcher, L2C prefetcher, LLC
// replacement policy and a collapsed fourth dimension. Sweeps named
// the way ChampSim names its builds (L1D, L2C and LLC prefetcher, then
// LLC replacement, as in next_line-ip_stride-no-lru) carry the
// replacement policy in the fourth dimension and the LLC prefetcher in
// the third. The default filters drop every configuration of such a
// sweep, and grouping by the last three dimensions instead is not
// supported. Report those sweeps with a configuration whose allow-sets
// and headers match their layout.
package report

import (
	"github.com/natsunoshion/CA-Final/simfmt"
	"github.com/natsunoshion/CA-Final/simstat"
)

// A Group is the leading dimensions of a configuration key.
type Group [NumGroupDims]string

func groupOf(key simfmt.Key) Group {
	var g Group
	copy(g[:], key[:NumGroupDims])
	return g
}

// A Row is one group of configurations in a report.
type Row struct {
	Group Group

	// Keys are the configurations collapsed into this row, in the
	// order they appear in the summary.
	Keys []simfmt.Key

	// Values are the available metric values of Keys. Unavailable
	// values are not included.
	Values []float64

	// Mean is the mean of Values, or unavailable if Values is
	// empty.
	Mean simstat.Value
}

// A Table is a report of one metric over groups of configurations.
type Table struct {
	Metric  simfmt.Metric
	Headers [NumGroupDims + 1]string
	Rows    []*Row
}

// Build filters the records of s according to cfg, groups the
// survivors and computes each group's mean. Rows are sorted by group.
//
// If no record survives the filters, the table has no rows.
func Build(s *simstat.Summary, cfg *Config) *Table {
	t := &Table{Metric: cfg.Metric, Headers: cfg.Headers}
	rows := make(map[Group]*Row)
	for _, rec := range s.Records {
		if !cfg.allowed(rec.Key) {
			continue
		}
		g := groupOf(rec.Key)
		row, ok := rows[g]
		if !ok {
			row = &Row{Group: g}
			rows[g] = row
			t.Rows = append(t.Rows, row)
		}
		row.Keys = append(row.Keys, rec.Key)
		if v := rec.Values[cfg.Metric]; v.OK {
			row.Values = append(row.Values, v.Mean)
		}
	}
	for _, row := range t.Rows {
		row.Mean = simstat.MeanOf(row.Values)
	}
	Sort(t, ByGroup)
	return t
}
