// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simstat collects metric samples from simulator logs into
// per-configuration buckets and summarizes them.
package simstat

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/natsunoshion/CA-Final/simfmt"
)

// A Bucket holds the raw samples of every metric for one
// configuration, in the order they were read.
type Bucket struct {
	Samples [simfmt.NumMetrics][]float64
}

// Add appends v to the samples of metric m.
func (b *Bucket) Add(m simfmt.Metric, v float64) {
	b.Samples[m] = append(b.Samples[m], v)
}

// A Collection is a collection of simulator results, bucketed by
// configuration key.
type Collection struct {
	// Keys lists the configuration keys in the order they were
	// first seen.
	Keys []simfmt.Key

	// Buckets holds the accumulated samples for each key.
	Buckets map[simfmt.Key]*Bucket

	// Warnings holds non-fatal problems found while reading, such
	// as malformed metric values. These should be reported to the
	// user.
	Warnings []error
}

// bucket returns the bucket for key, creating it if needed.
func (c *Collection) bucket(key simfmt.Key) *Bucket {
	if c.Buckets == nil {
		c.Buckets = make(map[simfmt.Key]*Bucket)
	}
	if b, ok := c.Buckets[key]; ok {
		return b
	}
	b := new(Bucket)
	c.Buckets[key] = b
	c.Keys = append(c.Keys, key)
	return b
}

// AddFile adds the results in the normalized simulator log read from
// r. fileName is used in warnings and errors.
//
// Each header line starts (or resumes) the bucket for its key, and
// every metric sample up to the next header is added to that bucket.
// Samples before the first header in the file are ignored. The
// returned error is non-nil only if reading r failed.
func (c *Collection) AddFile(fileName string, r io.Reader) error {
	var cur *Bucket
	reader := simfmt.NewReader(r, fileName)
	for reader.Scan() {
		switch rec := reader.Record().(type) {
		case *simfmt.Header:
			if _, ok := c.Buckets[rec.Key]; ok {
				logrus.Debugf("%s: resuming %s (%s)", fileName, rec.Key, rec.Workload)
			}
			cur = c.bucket(rec.Key)
		case *simfmt.Sample:
			if cur == nil {
				continue
			}
			cur.Add(rec.Metric, rec.Value)
		case *simfmt.SyntaxError:
			c.Warnings = append(c.Warnings, rec)
		}
	}
	return reader.Err()
}

// AddLines adds the results in lines, which must already be
// normalized.
func (c *Collection) AddLines(fileName string, lines []string) error {
	return c.AddFile(fileName, strings.NewReader(strings.Join(lines, "\n")))
}
