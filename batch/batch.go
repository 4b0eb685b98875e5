// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package batch implements competition batch mode: parsing the batch
// specification, running the problems through the strategy scheduler, and
// emitting the problem-finished sentinel the external batch driver waits
// for.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/strategy"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

// Sentinel is the line written after a solved problem's derivation; the
// external driver promotes the solution when it sees it.
const Sentinel = "% SZS problemFinished"

// Problem is one batch record.
type Problem struct {
	In  string
	Out string
}

// Batch is a parsed batch specification.
type Batch struct {
	Category          string
	ProblemTimeLimit  time.Duration
	QuestionAnswering bool
	Problems          []Problem
}

// Read parses a batch specification:
//
//	category <string>
//	limit.time.problem.ms <int>
//	question.answers on|off
//	<problem path> <output path>
//	...
//
// Lines starting with % and blank lines are skipped.
func Read(r io.Reader) (*Batch, error) {
	b := &Batch{}
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "category":
			if len(fields) != 2 {
				return nil, errors.Errorf("line %d: bad category", ln)
			}
			b.Category = fields[1]
		case "limit.time.problem.ms":
			if len(fields) != 2 {
				return nil, errors.Errorf("line %d: bad time limit", ln)
			}
			ms, err := strconv.Atoi(fields[1])
			if err != nil || ms < 0 {
				return nil, errors.Errorf("line %d: bad time limit %q", ln, fields[1])
			}
			b.ProblemTimeLimit = time.Duration(ms) * time.Millisecond
		case "question.answers":
			if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
				return nil, errors.Errorf("line %d: bad question.answers", ln)
			}
			b.QuestionAnswering = fields[1] == "on"
		default:
			if len(fields) != 2 {
				return nil, errors.Errorf("line %d: expected problem and output path", ln)
			}
			b.Problems = append(b.Problems, Problem{In: fields[0], Out: fields[1]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading batch file")
	}
	if len(b.Problems) == 0 {
		return nil, errors.New("batch file has no problems")
	}
	return b, nil
}

// ReadFile parses a batch specification file.
func ReadFile(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening batch %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Driver runs a batch.  Workers saturate problems concurrently; all of
// their output funnels through a single writer, mirroring the write-only
// pipe of the competition driver.
type Driver struct {
	Plan    strategy.Schedule
	Workers int
	Log     logrus.FieldLogger
}

// Run solves each problem of the batch, writing the derivation and the
// sentinel to the problem's output file and echoing the sentinel to sink.
// It returns the number of solved problems.
func (d *Driver) Run(b *Batch, sink io.Writer) (int, error) {
	log := d.Log
	if log == nil {
		lg := logrus.New()
		lg.SetLevel(logrus.WarnLevel)
		log = lg
	}
	workers := d.Workers
	if workers < 1 {
		workers = 1
	}

	lines := make(chan string)
	writerDone := make(chan error, 1)
	go func() {
		w := bufio.NewWriter(sink)
		var werr error
		for l := range lines {
			if werr != nil {
				// keep draining so workers never block on a dead writer
				continue
			}
			if _, err := fmt.Fprintln(w, l); err != nil {
				werr = err
				continue
			}
			werr = w.Flush()
		}
		if werr == nil {
			werr = w.Flush()
		}
		writerDone <- werr
	}()

	var g errgroup.Group
	g.SetLimit(workers)
	solved := make(chan struct{}, len(b.Problems))
	for _, p := range b.Problems {
		p := p
		g.Go(func() error {
			ok, err := d.solve(b, p, log)
			if err != nil {
				log.WithError(err).WithField("problem", p.In).Warn("problem failed")
				return nil
			}
			if ok {
				lines <- fmt.Sprintf("%s %s", Sentinel, p.Out)
				solved <- struct{}{}
			}
			return nil
		})
	}
	err := g.Wait()
	close(lines)
	close(solved)
	if werr := <-writerDone; werr != nil && err == nil {
		err = errors.Wrap(werr, "batch writer")
	}
	return len(solved), err
}

// solve runs one problem under the per-problem time limit.
func (d *Driver) solve(b *Batch, p Problem, log logrus.FieldLogger) (bool, error) {
	in, err := os.Open(p.In)
	if err != nil {
		return false, errors.Wrapf(err, "opening problem %s", p.In)
	}
	defer in.Close()

	sig := sym.NewTable()
	bank := term.NewBank(sig)
	units, err := unit.ReadList(in, bank)
	if err != nil {
		return false, errors.Wrapf(err, "reading problem %s", p.In)
	}
	sig.Freeze()

	var deadline time.Time
	if b.ProblemTimeLimit > 0 {
		deadline = time.Now().Add(b.ProblemTimeLimit)
	}
	sched := strategy.New(bank, units, d.Plan, log.WithField("problem", p.In))
	res := sched.Run(deadline)
	if res.Reason != inter.Refutation {
		return false, nil
	}

	out, err := os.Create(p.Out)
	if err != nil {
		return false, errors.Wrapf(err, "creating output %s", p.Out)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "% SZS status Unsatisfiable")
	fmt.Fprint(w, res.Derivation)
	fmt.Fprintf(w, "%s %s\n", Sentinel, p.Out)
	if err := w.Flush(); err != nil {
		return false, errors.Wrapf(err, "flushing output %s", p.Out)
	}
	return true, nil
}
