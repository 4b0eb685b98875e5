// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command quill runs the saturation prover on a clausified problem file or
// on a competition batch.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quill-prover/quill/batch"
	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/metrics"
	"github.com/quill-prover/quill/strategy"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

var (
	flagTimeout  time.Duration
	flagSchedule string
	flagStats    bool
	flagVerbose  bool
	flagMetrics  string
	flagWorkers  int
)

// strategyNames is a repeatable --strategy flag restricting the schedule to
// the named strategies.
type strategyNames []string

func (s *strategyNames) String() string { return strings.Join(*s, ",") }

func (s *strategyNames) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return fmt.Errorf("empty strategy name")
		}
		*s = append(*s, part)
	}
	return nil
}

func (s *strategyNames) Type() string { return "names" }

var _ pflag.Value = (*strategyNames)(nil)

var flagStrategies strategyNames

var log = logrus.New()

func main() {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "quill is a saturation-based first-order theorem prover",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second, "time limit (0 for none)")
	pf.StringVar(&flagSchedule, "schedule", "", "YAML strategy schedule file")
	pf.BoolVar(&flagStats, "stats", false, "print statistics after the run")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	pf.StringVar(&flagMetrics, "metrics", "", "address to serve prometheus metrics (eg :9090)")
	pf.Var(&flagStrategies, "strategy", "restrict the schedule to the named strategies (repeatable)")

	prove := &cobra.Command{
		Use:   "prove <problem>",
		Short: "saturate one clausified problem file ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runProve,
	}
	batchCmd := &cobra.Command{
		Use:   "batch <batchfile>",
		Short: "run a competition batch specification",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&flagWorkers, "workers", 1, "concurrent problem workers")
	root.AddCommand(prove, batchCmd)

	log.SetLevel(logrus.WarnLevel)
	cobra.OnInitialize(func() {
		if flagVerbose {
			log.SetLevel(logrus.DebugLevel)
		}
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		exit(1)
	}
}

func loadSchedule() (strategy.Schedule, error) {
	plan := strategy.DefaultSchedule()
	if flagSchedule != "" {
		var err error
		plan, err = strategy.LoadFile(flagSchedule)
		if err != nil {
			return plan, err
		}
	}
	if len(flagStrategies) == 0 {
		return plan, nil
	}
	want := make(map[string]bool, len(flagStrategies))
	for _, n := range flagStrategies {
		want[n] = true
	}
	var kept []strategy.Config
	for _, c := range plan.Strategies {
		if want[c.Name] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return plan, fmt.Errorf("no schedule strategy matches %s", flagStrategies.String())
	}
	plan.Strategies = kept
	return plan, nil
}

func serveMetrics(m *metrics.M) {
	if flagMetrics == "" {
		return
	}
	go func() {
		if err := http.ListenAndServe(flagMetrics, m.Handler()); err != nil {
			log.WithError(err).Warn("metrics server stopped")
		}
	}()
}

func runProve(cmd *cobra.Command, args []string) error {
	plan, err := loadSchedule()
	if err != nil {
		return err
	}
	in := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	sig := sym.NewTable()
	bank := term.NewBank(sig)
	units, err := unit.ReadList(in, bank)
	if err != nil {
		return err
	}
	sig.Freeze()

	m := metrics.New()
	serveMetrics(m)

	var deadline time.Time
	if flagTimeout > 0 {
		deadline = time.Now().Add(flagTimeout)
	}
	sched := strategy.New(bank, units, plan, log)
	res := sched.Run(deadline)
	m.Observe(&res.Stats, res.Reason.String())

	switch res.Reason {
	case inter.Refutation:
		fmt.Println("% SZS status Unsatisfiable")
		fmt.Print(res.Derivation)
	case inter.Satisfiable:
		fmt.Println("% SZS status Satisfiable")
		fmt.Print(res.Derivation)
	default:
		fmt.Printf("%% SZS status Unknown (%s)\n", res.Reason)
	}
	if flagStats {
		fmt.Print(res.Stats.String())
	}
	if res.Reason == inter.Refutation || res.Reason == inter.Satisfiable {
		exit(0)
	}
	exit(1)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	plan, err := loadSchedule()
	if err != nil {
		return err
	}
	b, err := batch.ReadFile(args[0])
	if err != nil {
		return err
	}
	d := &batch.Driver{Plan: plan, Workers: flagWorkers, Log: log}
	solved, err := d.Run(b, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%% solved %d/%d problems in category %s\n",
		solved, len(b.Problems), b.Category)
	exit(0)
	return nil
}
