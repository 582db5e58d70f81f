// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"sort"
	"strings"
)

// An Order reports whether row i of t sorts before row j.
type Order func(t *Table, i, j int) bool

// ByGroup sorts rows lexicographically by their group dimensions.
func ByGroup(t *Table, i, j int) bool {
	a, b := t.Rows[i].Group, t.Rows[j].Group
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

// ByMean sorts rows by increasing mean. Unavailable means sort first.
func ByMean(t *Table, i, j int) bool {
	a, b := t.Rows[i].Mean, t.Rows[j].Mean
	if a.OK != b.OK {
		return !a.OK
	}
	return a.Mean < b.Mean
}

// Reverse returns the reverse of order.
func Reverse(order Order) Order {
	return func(t *Table, i, j int) bool { return order(t, j, i) }
}

// Sort sorts the rows of t by order. Rows that order considers equal
// keep their relative positions.
func Sort(t *Table, order Order) {
	sort.SliceStable(t.Rows, func(i, j int) bool { return order(t, i, j) })
}

var orders = map[string]Order{
	"group": ByGroup,
	"mean":  ByMean,
}

// ParseOrder returns the Order named by s: "group" or "mean", with a
// leading "-" to reverse it. "-mean" ranks the best rows first.
func ParseOrder(s string) (Order, error) {
	name := strings.TrimPrefix(s, "-")
	order, ok := orders[name]
	if !ok {
		return nil, fmt.Errorf("unknown sort order %q: want [-]group or [-]mean", s)
	}
	if name != s {
		order = Reverse(order)
	}
	return order, nil
}
