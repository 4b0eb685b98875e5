// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sat implements the saturation engine: the given-clause loop over
// the unprocessed, passive, and active clause stores, driven by generating
// and simplifying inferences over term indices.
package sat

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/index"
	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

// S is one saturation instance.  Instances sharing a process cooperate by
// suspending only at step boundaries; the term bank and signature are
// shared, everything else is per instance.
type S struct {
	B    *term.Bank
	Ord  *term.KBO
	Opts Options
	Ctl  *Ctl
	Mgr  *index.Manager
	Log  logrus.FieldLogger

	St Stats

	unprocessed []*clause.C
	passive     *passive
	active      []*clause.C
	nActive     int

	gens []GeneratingInference
	fwds []ForwardSimplification
	bwds []BackwardSimplification

	num        uint32
	empty      *clause.C
	incomplete bool
	memOut     bool
	attached   bool
}

// NewS creates a saturation instance over bank b with ordering ord.
func NewS(b *term.Bank, ord *term.KBO, opts Options, log logrus.FieldLogger) *S {
	if log == nil {
		lg := logrus.New()
		lg.SetLevel(logrus.WarnLevel)
		log = lg
	}
	s := &S{
		B: b, Ord: ord, Opts: opts,
		Ctl:     NewCtl(),
		passive: newPassive(opts.AgeRatio, opts.WeightRatio),
		Log:     log,
	}
	s.Mgr = index.NewManager(b, ord, s.eachActive)
	s.configure()
	return s
}

// configure builds the inference engines from the options.
func (s *S) configure() {
	o := &s.Opts
	if o.BinaryResolution {
		s.gens = append(s.gens, &binaryResolution{s: s})
	}
	if o.Factoring {
		s.gens = append(s.gens, &factoring{s: s})
	}
	if o.Superposition {
		s.gens = append(s.gens, &superposition{s: s})
	}
	if o.Evaluation {
		s.fwds = append(s.fwds, &evaluation{s: s})
	}
	if o.FwDemodulation != DemodOff {
		s.fwds = append(s.fwds, &fwDemodulation{s: s})
	}
	if o.InnerRewriting {
		s.fwds = append(s.fwds, &innerRewriting{s: s})
	}
	if o.CodeTreeSubsumption {
		if o.FwSubsumption || o.FwSubsumptionRes {
			s.fwds = append(s.fwds, &ctSubsAndRes{s: s, withRes: o.FwSubsumptionRes})
		}
	} else {
		if o.FwSubsumption {
			s.fwds = append(s.fwds, &slSubsumption{s: s})
		}
		if o.FwSubsumptionRes {
			s.fwds = append(s.fwds, &slSubsumptionRes{s: s})
		}
	}
	if o.BwDemodulation {
		s.bwds = append(s.bwds, &bwDemodulation{s: s})
	}
	if o.BwSubsumption {
		s.bwds = append(s.bwds, &bwSubsumption{s: s})
	}
}

func (s *S) attach() {
	if s.attached {
		return
	}
	for _, g := range s.gens {
		g.Attach(s)
	}
	for _, f := range s.fwds {
		f.Attach(s)
	}
	for _, b := range s.bwds {
		b.Attach(s)
	}
	s.attached = true
}

func (s *S) detach() {
	if !s.attached {
		return
	}
	for _, g := range s.gens {
		g.Detach()
	}
	for _, f := range s.fwds {
		f.Detach()
	}
	for _, b := range s.bwds {
		b.Detach()
	}
	s.attached = false
}

// eachActive enumerates the live active clauses.
func (s *S) eachActive(f func(*clause.C)) {
	for _, c := range s.active {
		if c.Store == clause.Active {
			f(c)
		}
	}
}

// AddInput accepts the clausified input units.
func (s *S) AddInput(units []unit.U) {
	for _, u := range units {
		c := u.Clause(s.B)
		s.normalize(c)
		s.St.Input++
		s.register(c)
	}
}

// register numbers a clause and places it in unprocessed.
func (s *S) register(c *clause.C) {
	s.num++
	c.Num = s.num
	c.Store = clause.Unprocessed
	s.unprocessed = append(s.unprocessed, c)
}

// push normalizes and enqueues a generated conclusion.  A nil conclusion
// was blocked by the color discipline.
func (s *S) push(c *clause.C) {
	if c == nil {
		s.St.ColorBlocked++
		return
	}
	s.normalize(c)
	if c.IsTautology(s.B) {
		s.St.TautologiesDeleted++
		return
	}
	if s.Opts.WeightLimit > 0 && int(c.Wt) > s.Opts.WeightLimit {
		s.St.WeightDiscarded++
		s.incomplete = true
		return
	}
	s.St.Generated++
	s.register(c)
	if s.Opts.ClauseLimit > 0 && s.live() > s.Opts.ClauseLimit {
		s.memOut = true
	}
}

// normalize trims duplicate literals and removes trivial inequalities
// t != t, recomputing the cached weight.
func (s *S) normalize(c *clause.C) {
	c.Trim()
	j := 0
	for _, l := range c.Lits {
		if s.B.IsEq(l) && !s.B.LitPos(l) {
			args := s.B.LitArgs(l)
			if args[0] == args[1] {
				s.St.TrivialDeleted++
				continue
			}
		}
		c.Lits[j] = l
		j++
	}
	c.Lits = c.Lits[:j]
	c.Wt = 0
	for _, l := range c.Lits {
		c.Wt += uint32(s.B.LitSize(l))
	}
}

func (s *S) live() int {
	return len(s.unprocessed) + s.passive.size + s.nActive
}

// Run saturates until a termination reason is reached.
func (s *S) Run() inter.Reason {
	start := time.Now()
	r := s.run()
	s.St.Dur += time.Since(start)
	s.FinishStats()
	s.Log.WithFields(logrus.Fields{
		"reason":    r.String(),
		"activated": s.St.Activated,
		"generated": s.St.Generated,
	}).Info("saturation finished")
	return r
}

func (s *S) run() inter.Reason {
	s.attach()
	defer s.detach()
	for {
		if !s.Ctl.Tick() {
			return s.haltReason()
		}
		if r, halt := s.Step(); halt {
			return r
		}
	}
}

// Step performs one given-clause step: drain unprocessed through forward
// simplification, pop the best passive clause, backward-simplify with it,
// activate it, and run the generating inferences.  halt is true when a
// termination reason was reached.
func (s *S) Step() (inter.Reason, bool) {
	s.attach()
	if r, halt := s.drain(); halt {
		return r, true
	}
	if s.passive.empty() {
		if s.Opts.Complete() && !s.incomplete {
			return inter.Satisfiable, true
		}
		return inter.Unknown, true
	}
	g := s.passive.pop()
	if g == nil {
		return inter.Unknown, false
	}

	// the active set may have grown rewrite rules since g entered passive;
	// simplify once more before activation
	g = s.forwardSimplify(g)
	if g == nil {
		return inter.Unknown, false
	}
	if g.Empty() {
		s.empty = g
		return inter.Refutation, true
	}

	for _, bw := range s.bwds {
		for _, res := range bw.Perform(g) {
			s.removeActive(res.Removed)
			if res.Replacement != nil {
				s.push(res.Replacement)
			}
		}
	}

	s.activate(g)

	for _, gi := range s.gens {
		if !s.Ctl.Tick() {
			return s.haltReason(), true
		}
		for _, c := range gi.Generate(g) {
			s.push(c)
		}
	}
	if s.memOut {
		return inter.MemoryLimit, true
	}
	return inter.Unknown, false
}

// drain empties the unprocessed queue through forward simplification into
// passive.
func (s *S) drain() (inter.Reason, bool) {
	for len(s.unprocessed) > 0 {
		if !s.Ctl.Tick() {
			return s.haltReason(), true
		}
		c := s.unprocessed[0]
		s.unprocessed = s.unprocessed[1:]
		if c.Store != clause.Unprocessed {
			continue
		}
		c.Store = clause.None

		c = s.forwardSimplify(c)
		if c == nil {
			continue
		}
		if c.Empty() {
			s.empty = c
			return inter.Refutation, true
		}
		if c.IsTautology(s.B) {
			s.St.TautologiesDeleted++
			continue
		}
		s.passive.push(c)
		if s.memOut {
			return inter.MemoryLimit, true
		}
	}
	return inter.Unknown, false
}

// forwardSimplify runs the forward simplification engines to fixpoint.  It
// returns nil when the clause was deleted as redundant.
func (s *S) forwardSimplify(c *clause.C) *clause.C {
	for {
		again := false
		for _, fw := range s.fwds {
			act, repl := fw.Perform(c)
			switch act {
			case FwDelete:
				return nil
			case FwReplace:
				s.num++
				repl.Num = s.num
				c = repl
				if c.Empty() {
					return c
				}
				again = true
			}
			if again {
				break
			}
		}
		if !again {
			return c
		}
	}
}

// activate selects literals, moves g into the active store, and notifies
// the indices.
func (s *S) activate(g *clause.C) {
	s.selectLits(g)
	g.Store = clause.Active
	s.active = append(s.active, g)
	s.nActive++
	s.Mgr.Add(g)
	s.St.Activated++
}

// removeActive retracts d from the active store and every index.
func (s *S) removeActive(d *clause.C) {
	if d == nil || d.Store != clause.Active {
		return
	}
	s.Mgr.Remove(d)
	d.Store = clause.None
	s.nActive--
}

// FinishStats records the final store sizes; callers driving Step directly
// use it before reading St.
func (s *S) FinishStats() {
	s.St.FinalActive = s.nActive
	s.St.FinalPassive = s.passive.size
}

func (s *S) haltReason() inter.Reason {
	if s.Ctl.Expired() {
		return inter.TimeLimit
	}
	return inter.Unknown
}

// Stop implements inter.Stoppable.
func (s *S) Stop() { s.Ctl.Stop() }

// SetDeadline implements inter.Stoppable.
func (s *S) SetDeadline(t time.Time) { s.Ctl.SetDeadline(t) }

// Empty returns the empty clause after a refutation, or nil.
func (s *S) Empty() *clause.C { return s.empty }

// Derivation renders the refutation DAG rooted at the empty clause, or the
// final active set when no refutation was found.
func (s *S) Derivation() string {
	var sb strings.Builder
	if s.empty != nil {
		s.empty.Ancestors(func(c *clause.C) {
			fmt.Fprintln(&sb, c.String(s.B))
		})
		return sb.String()
	}
	s.eachActive(func(c *clause.C) {
		fmt.Fprintln(&sb, c.String(s.B))
	})
	return sb.String()
}

// DerivationLen returns the number of inference steps in the refutation,
// not counting input units.
func (s *S) DerivationLen() int {
	if s.empty == nil {
		return 0
	}
	n := 0
	s.empty.Ancestors(func(c *clause.C) {
		if c.Inf.Rule != clause.Input {
			n++
		}
	})
	return n
}
