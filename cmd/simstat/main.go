// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Simstat summarizes the logs of a ChampSim prefetcher sweep.
//
// Usage:
//
//	simstat normalize [-o processed_result.txt] [allresult.txt]
//	simstat extract [-o result.txt] [processed_result.txt ...]
//	simstat report [flags] [result.txt]
//	simstat run [-o result.txt] [report flags] [allresult.txt ...]
//	simstat save [--driver d] [--dsn s] [--label l] [result.txt]
//	simstat load [--driver d] [--dsn s] [-o file] [upload-id]
//
// The simulator writes one block per run, headed by the name of the
// run's output file:
//
//	perceptron-<d1>-<d2>-<d3>-<d4>-1core_<workload>.txt
//
// followed by its IPC, branch prediction accuracy and L1D, L2C and
// LLC hit rates. The four dimensions before "-1core_" form the
// configuration key. Runs of the same configuration on different
// workloads are pooled.
//
// Normalize rejoins hit rate lines that the simulator split across
// two lines. A log that ends in the middle of a split line is an
// error.
//
// Extract reads normalized logs and writes a summary file holding the
// mean of every metric of every configuration, or N/A for a metric
// with no samples. Values that cannot be parsed are reported as
// warnings and skipped.
//
// Report reads a summary file, keeps the configurations selected by
// the report configuration, groups them by their first three
// dimensions and prints the mean of the target metric of each group.
// The default configuration keeps keys whose first dimension is
// next_line, whose second is no, next_line, ip_stride or pangloss and
// whose third is drip, lru, ship, srrip or shippp, and reports IPC.
// The --config flag reads a YAML configuration; --family and --metric
// override it.
//
// The --sort flag orders the groups by "group" (the default) or by
// "mean"; a leading "-" reverses the order. The --format flag selects
// text, csv or html output. The --chart flag additionally draws a bar
// chart to the named .png, .svg or .pdf file.
//
// Run performs normalize, extract and report in one step, keeping the
// summary file.
//
// Save stores a summary file in a SQL database and prints the upload
// ID. Load writes a stored summary back out, or lists the uploads if
// no ID is given. The --driver flag selects sqlite3 (the default) or
// mysql.
//
// File arguments may be "-" for standard input or output, or
// gs://bucket/object to use Google Cloud Storage.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		logrus.Error(err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprint(os.Stderr, uerr.cmd.UsageString())
			os.Exit(2)
		}
		os.Exit(1)
	}
}
