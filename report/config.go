// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/natsunoshion/CA-Final/simfmt"
)

// NumGroupDims is the number of leading key dimensions a report
// groups by. The remaining dimension is collapsed.
const NumGroupDims = simfmt.NumDims - 1

// A Config selects and labels the configurations shown in a report.
type Config struct {
	// Family is the required value of the first key dimension.
	// If empty, any value is accepted.
	Family string

	// Metric is the metric reported for each group.
	Metric simfmt.Metric

	// Allow holds an allow-set for each key dimension, indexed from
	// 0. A record is kept only if each of its dimensions is in the
	// corresponding set. An empty set allows any value.
	Allow [simfmt.NumDims][]string

	// Headers are the column headers: one per group dimension,
	// then the metric column.
	Headers [NumGroupDims + 1]string
}

// DefaultConfig returns the configuration for the next-line L1D
// prefetcher sweep, reporting IPC. It expects the second dimension to
// be the L2C prefetcher and the third the LLC replacement policy. Keys
// laid out as L1D-L2C-LLC prefetcher-replacement, such as
// next_line-ip_stride-no-lru, fail the third-dimension filter; see the
// package documentation.
func DefaultConfig() *Config {
	return &Config{
		Family: "next_line",
		Metric: simfmt.IPC,
		Allow: [simfmt.NumDims][]string{
			1: {"no", "next_line", "ip_stride", "pangloss"},
			2: {"drip", "lru", "ship", "srrip", "shippp"},
		},
		Headers: [NumGroupDims + 1]string{"L2C Prefetch", "LLC Prefetch", "LLC Replacement", "Average IPC"},
	}
}

// allowed reports whether key passes the family and allow-set filters.
func (c *Config) allowed(key simfmt.Key) bool {
	if c.Family != "" && key.Dim(0) != c.Family {
		return false
	}
	for i, set := range c.Allow {
		if len(set) > 0 && !contains(set, key.Dim(i)) {
			return false
		}
	}
	return true
}

func contains(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

// configFile is the YAML form of a Config. Dimensions in Allow are
// numbered from 1.
type configFile struct {
	Family  *string          `yaml:"family"`
	Metric  string           `yaml:"metric"`
	Allow   map[int][]string `yaml:"allow"`
	Headers []string         `yaml:"headers"`
}

// LoadConfig reads a YAML report configuration from r. Settings
// missing from r keep their DefaultConfig values, except that an
// "allow" section replaces all default allow-sets. Unknown fields are
// an error.
//
// For example:
//
//	family: next_line
//	metric: IPC
//	allow:
//	  2: [no, next_line, ip_stride, pangloss]
//	  3: [drip, lru, ship, srrip, shippp]
//	headers: [L2C Prefetch, LLC Prefetch, LLC Replacement, Average IPC]
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f configFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing report config: %w", err)
	}

	c := DefaultConfig()
	if f.Family != nil {
		c.Family = *f.Family
	}
	if f.Metric != "" {
		if c.Metric, err = simfmt.ParseMetric(f.Metric); err != nil {
			return nil, fmt.Errorf("report config: %w", err)
		}
		c.Headers[NumGroupDims] = "Average " + c.Metric.String()
	}
	if f.Allow != nil {
		c.Allow = [simfmt.NumDims][]string{}
		for dim, set := range f.Allow {
			if dim < 1 || dim > simfmt.NumDims {
				return nil, fmt.Errorf("report config: allow dimension %d out of range [1, %d]", dim, simfmt.NumDims)
			}
			c.Allow[dim-1] = set
		}
	}
	if f.Headers != nil {
		if len(f.Headers) != len(c.Headers) {
			return nil, fmt.Errorf("report config: want %d headers, got %d", len(c.Headers), len(f.Headers))
		}
		copy(c.Headers[:], f.Headers)
	}
	return c, nil
}
