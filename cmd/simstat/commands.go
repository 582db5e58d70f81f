// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/natsunoshion/CA-Final/chart"
	"github.com/natsunoshion/CA-Final/internal/texttab"
	"github.com/natsunoshion/CA-Final/report"
	"github.com/natsunoshion/CA-Final/simfmt"
	"github.com/natsunoshion/CA-Final/simstat"
	"github.com/natsunoshion/CA-Final/storage/db"
	_ "github.com/natsunoshion/CA-Final/storage/db/sqlite3"
	"github.com/natsunoshion/CA-Final/storage/fs"
	_ "github.com/natsunoshion/CA-Final/storage/fs/gcs"
)

// Default file names of each pipeline stage.
const (
	rawLog        = "allresult.txt"
	normalizedLog = "processed_result.txt"
	summaryFile   = "result.txt"
)

// A usageError is a command line error. It makes simstat exit with
// status 2 after printing the usage of cmd.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{cmd, err}
		}
		return nil
	}
}

// run runs the simstat command line args, writing command output to
// stdout and log messages to stderr.
func run(stdout, stderr io.Writer, args []string) error {
	logrus.SetOutput(stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "simstat",
		Short:         "Summarize the logs of a ChampSim prefetcher sweep",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return &usageError{cmd, fmt.Errorf("invalid log level %q", logLevel)}
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &usageError{cmd, fmt.Errorf("missing command")}
			}
			return &usageError{cmd, fmt.Errorf("unknown command %q", args[0])}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log", "warn", "log `level` (trace, debug, info, warn, error)")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd, err}
	})
	root.AddCommand(
		newNormalizeCmd(),
		newExtractCmd(),
		newReportCmd(),
		newRunCmd(),
		newSaveCmd(),
		newLoadCmd(),
	)
	return root
}

func newNormalizeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "normalize [-o file] [raw-log]",
		Short: "Rejoin hit rate lines split across two lines",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := rawLog
			if len(args) > 0 {
				in = args[0]
			}
			logrus.Infof("normalizing %s into %s", in, out)
			return withInput(cmd, in, func(r io.Reader) error {
				return writeOutput(cmd, out, func(w io.Writer) error {
					return simfmt.NormalizeStream(w, r, in)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", normalizedLog, "write the normalized log to `file`")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "extract [-o file] [normalized-log ...]",
		Short: "Average every metric of every configuration",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{normalizedLog}
			}
			c := new(simstat.Collection)
			for _, in := range args {
				err := withInput(cmd, in, func(r io.Reader) error {
					return c.AddFile(in, r)
				})
				if err != nil {
					return err
				}
			}
			_, err := writeSummary(cmd, c, len(args), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", summaryFile, "write the summary to `file`")
	return cmd
}

// writeSummary aggregates c and writes the summary to out.
func writeSummary(cmd *cobra.Command, c *simstat.Collection, files int, out string) (*simstat.Summary, error) {
	for _, w := range c.Warnings {
		logrus.Warn(w)
	}
	s := simstat.Aggregate(c)
	logrus.Infof("extracted %d configurations from %d files into %s", s.Len(), files, out)
	err := writeOutput(cmd, out, func(w io.Writer) error {
		return simstat.WriteSummary(w, s)
	})
	return s, err
}

func newReportCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "report [flags] [summary]",
		Short: "Tabulate the target metric by L2C prefetcher, LLC prefetcher and LLC replacement",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.plan(cmd)
			if err != nil {
				return err
			}
			in := summaryFile
			if len(args) > 0 {
				in = args[0]
			}
			var s *simstat.Summary
			err = withInput(cmd, in, func(r io.Reader) (err error) {
				s, err = simstat.ReadSummary(r, in)
				return err
			})
			if err != nil {
				return err
			}
			return p.emit(cmd, s)
		},
	}
	flags.register(cmd)
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		out   string
		flags reportFlags
	)
	cmd := &cobra.Command{
		Use:   "run [-o summary] [flags] [raw-log ...]",
		Short: "Normalize, extract and report in one step",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.plan(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{rawLog}
			}
			// Warnings give line numbers in the normalized
			// form of each log.
			c := new(simstat.Collection)
			for _, in := range args {
				var buf bytes.Buffer
				err := withInput(cmd, in, func(r io.Reader) error {
					return simfmt.NormalizeStream(&buf, r, in)
				})
				if err != nil {
					return err
				}
				if err := c.AddFile(in, &buf); err != nil {
					return err
				}
			}
			s, err := writeSummary(cmd, c, len(args), out)
			if err != nil {
				return err
			}
			return p.emit(cmd, s)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", summaryFile, "write the summary to `file`")
	flags.register(cmd)
	return cmd
}

// reportFlags are the flags shared by report and run.
type reportFlags struct {
	config string
	family string
	metric string
	sort   string
	format string
	chart  string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "read the report configuration from YAML `file`")
	fl.StringVar(&f.family, "family", "", "keep configurations whose first dimension is `name` (default next_line)")
	fl.StringVar(&f.metric, "metric", "", "report `metric`: ipc, branch, l1d, l2c or llc (default ipc)")
	fl.StringVar(&f.sort, "sort", "group", "sort rows by `order`: [-]group or [-]mean")
	fl.StringVar(&f.format, "format", "text", "print the table as `format`: text, csv or html")
	fl.StringVar(&f.chart, "chart", "", "also draw a bar chart to `file` (.png, .svg or .pdf)")
}

// A reportPlan is a validated set of report flags.
type reportPlan struct {
	cfg         *report.Config
	order       report.Order
	format      func(io.Writer, *report.Table) error
	chart       string
	chartFormat string
}

var formats = map[string]func(io.Writer, *report.Table) error{
	"text": report.FormatText,
	"csv":  report.FormatCSV,
	"html": report.FormatHTML,
}

// plan checks the report flags. The configuration file is read here
// so a bad configuration fails before any input is processed.
func (f *reportFlags) plan(cmd *cobra.Command) (*reportPlan, error) {
	p := new(reportPlan)
	var err error
	if p.order, err = report.ParseOrder(f.sort); err != nil {
		return nil, &usageError{cmd, err}
	}
	var ok bool
	if p.format, ok = formats[f.format]; !ok {
		return nil, &usageError{cmd, fmt.Errorf("unknown format %q: want text, csv or html", f.format)}
	}
	if f.chart != "" {
		if p.chartFormat, err = chart.Format(f.chart); err != nil {
			return nil, &usageError{cmd, err}
		}
		p.chart = f.chart
	}

	p.cfg = report.DefaultConfig()
	if f.config != "" {
		err := withInput(cmd, f.config, func(r io.Reader) (err error) {
			if p.cfg, err = report.LoadConfig(r); err != nil {
				return fmt.Errorf("%s: %w", f.config, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("family") {
		p.cfg.Family = f.family
	}
	if cmd.Flags().Changed("metric") {
		m, err := simfmt.ParseMetric(f.metric)
		if err != nil {
			return nil, &usageError{cmd, err}
		}
		p.cfg.Metric = m
		p.cfg.Headers[report.NumGroupDims] = "Average " + m.String()
	}
	return p, nil
}

// emit prints the report of s and draws its chart. The chart is
// skipped, with a warning, if no row has an available value.
func (p *reportPlan) emit(cmd *cobra.Command, s *simstat.Summary) error {
	t := report.Build(s, p.cfg)
	report.Sort(t, p.order)
	if len(t.Rows) == 0 {
		logrus.Warnf("no configuration of %d matches the report filters", s.Len())
	}
	if err := p.format(cmd.OutOrStdout(), t); err != nil {
		return err
	}
	if p.chart == "" {
		return nil
	}
	logrus.Infof("drawing %s", p.chart)
	err := writeOutput(cmd, p.chart, func(w io.Writer) error {
		return chart.Bar(w, t, p.chartFormat, chart.Options{})
	})
	if errors.Is(err, chart.ErrNoData) {
		// An empty report is not an error, so neither is its chart.
		logrus.Warnf("not drawing %s: no available values", p.chart)
		return nil
	}
	return err
}

// dbFlags select the database used by save and load.
type dbFlags struct {
	driver string
	dsn    string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "driver", "sqlite3", "database `driver`: sqlite3 or mysql")
	cmd.Flags().StringVar(&f.dsn, "dsn", "simstat.db", "database data source `name`")
}

func (f *dbFlags) open() (*db.DB, error) {
	d, err := db.OpenSQL(f.driver, f.dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", f.driver, err)
	}
	return d, nil
}

func newSaveCmd() *cobra.Command {
	var (
		dbf   dbFlags
		label string
	)
	cmd := &cobra.Command{
		Use:   "save [flags] [summary]",
		Short: "Store a summary in a SQL database",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := summaryFile
			if len(args) > 0 {
				in = args[0]
			}
			if label == "" {
				label = in
			}
			var s *simstat.Summary
			err := withInput(cmd, in, func(r io.Reader) (err error) {
				s, err = simstat.ReadSummary(r, in)
				return err
			})
			if err != nil {
				return err
			}

			d, err := dbf.open()
			if err != nil {
				return err
			}
			defer d.Close()
			u, err := d.NewUpload(cmd.Context(), label)
			if err != nil {
				return err
			}
			if err := u.InsertSummary(s); err != nil {
				u.Abort()
				return err
			}
			if err := u.Commit(); err != nil {
				return err
			}
			logrus.Infof("saved %d configurations from %s", s.Len(), in)
			fmt.Fprintf(cmd.OutOrStdout(), "upload %s\n", u.ID)
			return nil
		},
	}
	dbf.register(cmd)
	cmd.Flags().StringVar(&label, "label", "", "describe the upload as `text` (default the input file name)")
	return cmd
}

func newLoadCmd() *cobra.Command {
	var (
		dbf dbFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "load [flags] [upload-id]",
		Short: "Write a stored summary, or list the stored uploads",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dbf.open()
			if err != nil {
				return err
			}
			defer d.Close()

			if len(args) == 0 {
				uploads, err := d.ListUploads(cmd.Context())
				if err != nil {
					return err
				}
				return listUploads(cmd.OutOrStdout(), uploads)
			}

			s, err := d.LoadSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return simstat.WriteSummary(w, s)
			})
		},
	}
	dbf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", fs.Stdio, "write the summary to `file`")
	return cmd
}

func listUploads(w io.Writer, uploads []db.UploadInfo) error {
	var tab texttab.Table
	tab.Row().Cell("ID").Cell("Created", texttab.LeftMargin("  ")).Cell("Records", texttab.LeftMargin("  ")).Cell("Label", texttab.LeftMargin("  "))
	for _, u := range uploads {
		tab.Row().Cell(u.ID, texttab.Right)
		tab.Cell(u.Created.Format(time.RFC3339), texttab.LeftMargin("  "))
		tab.Cell(fmt.Sprint(u.Records), texttab.LeftMargin("  "), texttab.Right)
		tab.Cell(u.Label, texttab.LeftMargin("  "))
	}
	return tab.Format(w)
}

// withInput opens path, calls read and closes path.
func withInput(cmd *cobra.Command, path string, read func(r io.Reader) error) error {
	if path == fs.Stdio {
		return read(cmd.InOrStdin())
	}
	r, err := fs.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer r.Close()
	return read(r)
}

// writeOutput creates path and calls write. path is replaced only if
// write succeeds.
func writeOutput(cmd *cobra.Command, path string, write func(w io.Writer) error) error {
	if path == fs.Stdio {
		return write(cmd.OutOrStdout())
	}
	w, err := fs.Create(cmd.Context(), path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}
