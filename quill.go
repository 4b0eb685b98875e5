// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package quill is a saturation-based first-order theorem prover.  The
// package wraps the saturation engine behind a small facade: build terms
// over the prover's bank, add clausified input units, and run either a
// single default strategy or a multi-strategy schedule.
package quill

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/internal/sat"
	"github.com/quill-prover/quill/strategy"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

// Prover is a concrete prover over one problem.
type Prover struct {
	sig   *sym.Table
	bank  *term.Bank
	units []unit.U
	log   logrus.FieldLogger
}

// New creates a new prover with a fresh signature and term bank.
func New() *Prover {
	sig := sym.NewTable()
	lg := logrus.New()
	lg.SetLevel(logrus.WarnLevel)
	return &Prover{
		sig:  sig,
		bank: term.NewBank(sig),
		log:  lg,
	}
}

// Bank returns the prover's term bank, used to construct input literals.
func (p *Prover) Bank() *term.Bank { return p.bank }

// Sig returns the prover's signature.
func (p *Prover) Sig() *sym.Table { return p.sig }

// SetLogger installs a logger; the default logs warnings only.
func (p *Prover) SetLogger(log logrus.FieldLogger) { p.log = log }

// AddInput appends clausified input units.
func (p *Prover) AddInput(units []unit.U) {
	p.units = append(p.units, units...)
}

// Prove runs the default single strategy until a termination reason.  A
// zero timeout means no limit.
func (p *Prover) Prove(timeout time.Duration) strategy.Result {
	plan := strategy.Schedule{
		Slots:      1,
		SliceSteps: 64,
		Strategies: []strategy.Config{{Name: "default"}},
	}
	return p.ProveWith(plan, timeout)
}

// ProveWith runs a multi-strategy schedule under a shared time budget.
func (p *Prover) ProveWith(plan strategy.Schedule, timeout time.Duration) strategy.Result {
	if !p.sig.Frozen() {
		p.sig.Freeze()
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	sched := strategy.New(p.bank, p.units, plan, p.log)
	return sched.Run(deadline)
}

// NewS exposes a raw saturation instance with the default configuration,
// for callers that drive a single run directly through inter.Prover.
func (p *Prover) NewS() inter.Prover {
	if !p.sig.Frozen() {
		p.sig.Freeze()
	}
	s := sat.NewS(p.bank, term.NewKBO(p.bank), sat.DefaultOptions(), p.log)
	s.AddInput(p.units)
	return s
}
