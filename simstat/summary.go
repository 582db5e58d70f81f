// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/vec"

	"github.com/natsunoshion/CA-Final/simfmt"
)

// A Value is a summarized metric value. A Value with OK false is
// unavailable: no samples of the metric were collected.
type Value struct {
	Mean float64
	OK   bool
}

// Unavailable is the Value of a metric with no samples.
var Unavailable = Value{}

// Avail returns an available Value with mean x.
func Avail(x float64) Value {
	return Value{Mean: x, OK: true}
}

// MeanOf returns the sum of xs divided by its length, or Unavailable
// if xs is empty. The sum is accumulated in order, so the result can
// differ in the last bit from an incrementally updated mean.
func MeanOf(xs []float64) Value {
	if len(xs) == 0 {
		return Unavailable
	}
	return Avail(vec.Sum(xs) / float64(len(xs)))
}

// String formats v the way summary files do: the shortest decimal
// that round-trips, always with a fractional part, or "N/A".
func (v Value) String() string {
	if !v.OK {
		return simfmt.Unavailable
	}
	s := strconv.FormatFloat(v.Mean, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}

// A Record holds the summarized metrics of one configuration.
type Record struct {
	Key    simfmt.Key
	Values [simfmt.NumMetrics]Value
}

// A Summary maps configuration keys to their summarized metrics.
type Summary struct {
	// Records lists one record per key, in the order the keys
	// were first seen.
	Records []*Record

	index map[simfmt.Key]*Record
}

// Add returns the record for key, appending a new record with every
// metric unavailable if s has none.
func (s *Summary) Add(key simfmt.Key) *Record {
	if s.index == nil {
		s.index = make(map[simfmt.Key]*Record)
	}
	if r, ok := s.index[key]; ok {
		return r
	}
	r := &Record{Key: key}
	s.index[key] = r
	s.Records = append(s.Records, r)
	return r
}

// Get returns the summarized value of metric m for key. ok is false if
// s has no record for key.
func (s *Summary) Get(key simfmt.Key, m simfmt.Metric) (v Value, ok bool) {
	r, ok := s.index[key]
	if !ok {
		return Unavailable, false
	}
	return r.Values[m], true
}

// Len returns the number of records in s.
func (s *Summary) Len() int {
	return len(s.Records)
}

// Aggregate reduces every bucket in c to the mean of each metric's
// samples. Every key in c appears in the result; metrics without
// samples are Unavailable.
func Aggregate(c *Collection) *Summary {
	s := new(Summary)
	for _, key := range c.Keys {
		b := c.Buckets[key]
		r := s.Add(key)
		for _, m := range simfmt.Metrics {
			r.Values[m] = MeanOf(b.Samples[m])
		}
	}
	return s
}
