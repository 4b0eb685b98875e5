// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package quill

import (
	"strings"
	"testing"
	"time"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/gen"
	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/strategy"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

func TestProveChain(t *testing.T) {
	p := New()
	p.AddInput(gen.Chain(p.Bank(), 4))
	res := p.Prove(30 * time.Second)
	if res.Reason != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", res.Reason)
	}
	if !strings.Contains(res.Derivation, "$false") {
		t.Errorf("derivation misses the empty clause:\n%s", res.Derivation)
	}
}

func TestProveCollapse(t *testing.T) {
	p := New()
	p.AddInput(gen.Collapse(p.Bank(), 3))
	res := p.Prove(30 * time.Second)
	if res.Reason != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", res.Reason)
	}
	if res.Stats.FwDemodulations == 0 {
		t.Errorf("no demodulations on a rewriting problem")
	}
}

func TestProveSplitWithSchedule(t *testing.T) {
	p := New()
	p.AddInput(gen.Split(p.Bank()))
	res := p.ProveWith(strategy.DefaultSchedule(), 30*time.Second)
	if res.Reason != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", res.Reason)
	}
	if res.Stats.Resolutions < 2 {
		t.Errorf("resolutions %d, want at least 2", res.Stats.Resolutions)
	}
}

func TestProveSatisfiable(t *testing.T) {
	p := New()
	b := p.Bank()
	pr := p.Sig().Pred("p", 1)
	p.AddInput([]unit.U{{Name: "only", Lits: []term.Lit{b.Lit(pr, true, b.Var(0))}}})
	res := p.Prove(30 * time.Second)
	if res.Reason != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", res.Reason)
	}
	if !strings.Contains(res.Derivation, "p(X0)") {
		t.Errorf("final active set misses the input clause:\n%s", res.Derivation)
	}
}

func TestColoredSaturation(t *testing.T) {
	p := New()
	b := p.Bank()
	a := b.Const(p.Sig().Fun("a", 0))
	bb := b.Const(p.Sig().Fun("b", 0))
	cc := b.Const(p.Sig().Fun("c", 0))
	p.AddInput([]unit.U{
		{Name: "ab", Lits: []term.Lit{b.Eq(true, a, bb, sym.SortIota)}, Color: clause.Left},
		{Name: "bc", Lits: []term.Lit{b.Eq(true, bb, cc, sym.SortIota)}, Color: clause.Right},
	})
	res := p.Prove(30 * time.Second)
	if res.Reason != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", res.Reason)
	}
	if res.Stats.FwDemodulations != 0 || res.Stats.BwDemodulations != 0 {
		t.Errorf("colors were combined across a derivation")
	}
}

func TestRawInstance(t *testing.T) {
	p := New()
	p.AddInput(gen.Split(p.Bank()))
	s := p.NewS()
	if r := s.Run(); r != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", r)
	}
	if !strings.Contains(s.Derivation(), "resolution") {
		t.Errorf("derivation misses the resolution steps:\n%s", s.Derivation())
	}
}
