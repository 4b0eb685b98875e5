// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"testing"
	"time"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

func newTest(opts Options) (*sym.Table, *term.Bank, func([]unit.U) *S) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	return sig, b, func(us []unit.U) *S {
		sig.Freeze()
		s := NewS(b, term.NewKBO(b), opts, nil)
		s.AddInput(us)
		return s
	}
}

func TestRefuteUnitClash(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	a := b.Const(sig.Fun("a", 0))

	s := mk([]unit.U{
		{Name: "pos", Lits: []term.Lit{b.Lit(p, true, a)}},
		{Name: "neg", Lits: []term.Lit{b.Lit(p, false, a)}},
	})
	if r := s.Run(); r != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", r)
	}
	if s.St.Resolutions != 1 {
		t.Errorf("resolutions %d, want 1", s.St.Resolutions)
	}
	if n := s.DerivationLen(); n != 1 {
		t.Errorf("derivation length %d, want 1", n)
	}
}

func TestRefuteByDemodulation(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	f := sig.Fun("f", 1)
	p := sig.Pred("P", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)
	ffa := b.App(f, b.App(f, a))

	s := mk([]unit.U{
		{Name: "collapse", Lits: []term.Lit{b.Eq(true, b.App(f, x), x, sym.SortIota)}},
		{Name: "base", Lits: []term.Lit{b.Lit(p, true, a)}},
		{Name: "goal", Lits: []term.Lit{b.Lit(p, false, ffa)}},
	})
	if r := s.Run(); r != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", r)
	}
	if s.St.FwDemodulations != 2 {
		t.Errorf("forward demodulations %d, want 2", s.St.FwDemodulations)
	}
	if s.St.Resolutions != 1 {
		t.Errorf("resolutions %d, want 1", s.St.Resolutions)
	}
}

func TestRefuteTwoResolutions(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "split", Lits: []term.Lit{b.Lit(p, true, x), b.Lit(q, true, x)}},
		{Name: "np", Lits: []term.Lit{b.Lit(p, false, a)}},
		{Name: "nq", Lits: []term.Lit{b.Lit(q, false, a)}},
	})
	if r := s.Run(); r != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", r)
	}
	if s.St.Resolutions != 2 {
		t.Errorf("resolutions %d, want 2", s.St.Resolutions)
	}
}

func TestSaturate(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	x := b.Var(0)

	s := mk([]unit.U{{Name: "only", Lits: []term.Lit{b.Lit(p, true, x)}}})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.FinalActive != 1 {
		t.Errorf("final active %d, want 1", s.St.FinalActive)
	}
}

func TestEmptyClauseInput(t *testing.T) {
	_, _, mk := newTest(DefaultOptions())
	s := mk([]unit.U{{Name: "false"}})
	if r := s.Run(); r != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", r)
	}
	if s.St.Generated != 0 {
		t.Errorf("generated %d clauses for an empty input clause", s.St.Generated)
	}
	if n := s.DerivationLen(); n != 0 {
		t.Errorf("derivation length %d, want 0", n)
	}
}

func TestTautologyDeleted(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "taut", Lits: []term.Lit{b.Lit(p, true, x), b.Lit(p, false, x)}},
		{Name: "keep", Lits: []term.Lit{b.Lit(p, true, x)}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.TautologiesDeleted != 1 {
		t.Errorf("tautologies deleted %d, want 1", s.St.TautologiesDeleted)
	}
	if s.St.FinalActive != 1 {
		t.Errorf("the tautology reached the active set")
	}
}

func TestTrivialEqualityDeleted(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "xx", Lits: []term.Lit{b.Eq(true, x, x, sym.SortIota)}},
		{Name: "keep", Lits: []term.Lit{b.Lit(p, true, x)}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.FinalActive != 1 {
		t.Errorf("x = x survived to the active set")
	}
}

func TestColorBlocksCrossDerivation(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	a := b.Const(sig.Fun("a", 0))
	bb := b.Const(sig.Fun("b", 0))
	cc := b.Const(sig.Fun("c", 0))

	s := mk([]unit.U{
		{Name: "ab", Lits: []term.Lit{b.Eq(true, a, bb, sym.SortIota)}, Color: clause.Left},
		{Name: "bc", Lits: []term.Lit{b.Eq(true, bb, cc, sym.SortIota)}, Color: clause.Right},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.FwDemodulations != 0 || s.St.BwDemodulations != 0 {
		t.Errorf("cross-color demodulation happened")
	}
	if s.St.FinalActive != 2 {
		t.Errorf("final active %d, want both colored units", s.St.FinalActive)
	}
}

func TestColorValidDerivationFound(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "l", Lits: []term.Lit{b.Lit(p, true, a)}, Color: clause.Left},
		{Name: "t", Lits: []term.Lit{b.Lit(p, false, x)}, Color: clause.Transparent},
	})
	if r := s.Run(); r != inter.Refutation {
		t.Fatalf("reason %s, want REFUTATION", r)
	}
	if s.Empty().Color != clause.Left {
		t.Errorf("refutation color %s, want left", s.Empty().Color)
	}
}

func TestBackwardDemodulation(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	f := sig.Fun("f", 1)
	p := sig.Pred("P", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "heavy", Lits: []term.Lit{b.Lit(p, true, b.App(f, a))}},
		{Name: "collapse", Lits: []term.Lit{b.Eq(true, b.App(f, x), x, sym.SortIota)}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.BwDemodulations != 1 {
		t.Errorf("backward demodulations %d, want 1", s.St.BwDemodulations)
	}
}

func TestForwardSubsumption(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	r := sig.Pred("r", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "gen", Lits: []term.Lit{b.Lit(p, true, x), b.Lit(q, true, x)}},
		{Name: "inst", Lits: []term.Lit{b.Lit(p, true, a), b.Lit(q, true, a), b.Lit(r, true, a)}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.FwSubsumed != 1 {
		t.Errorf("forward subsumed %d, want 1", s.St.FwSubsumed)
	}
	if s.St.FinalActive != 1 {
		t.Errorf("final active %d, want 1", s.St.FinalActive)
	}
}

func TestCodeTreeSubsumption(t *testing.T) {
	opts := DefaultOptions()
	opts.CodeTreeSubsumption = true
	sig, b, mk := newTest(opts)
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	r := sig.Pred("r", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "gen", Lits: []term.Lit{b.Lit(p, true, x), b.Lit(q, true, x)}},
		{Name: "inst", Lits: []term.Lit{b.Lit(p, true, a), b.Lit(q, true, a), b.Lit(r, true, a)}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.FwSubsumed != 1 {
		t.Errorf("forward subsumed %d, want 1", s.St.FwSubsumed)
	}
}

func TestSubsumptionResolution(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := mk([]unit.U{
		{Name: "res", Lits: []term.Lit{b.Lit(p, false, x), b.Lit(q, true, x)}},
		{Name: "target", Lits: []term.Lit{b.Lit(p, true, a), b.Lit(q, true, a)}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.FwSubsumptionRes != 1 {
		t.Errorf("subsumption resolutions %d, want 1", s.St.FwSubsumptionRes)
	}
}

func TestInnerRewriting(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	f := sig.Fun("f", 1)
	p := sig.Pred("P", 1)
	a := b.Const(sig.Fun("a", 0))
	fa := b.App(f, a)

	s := mk([]unit.U{
		{Name: "c", Lits: []term.Lit{
			b.Eq(false, fa, a, sym.SortIota),
			b.Lit(p, true, fa),
		}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.InnerRewrites != 1 {
		t.Errorf("inner rewrites %d, want 1", s.St.InnerRewrites)
	}
}

func TestWeightLimitIncomplete(t *testing.T) {
	opts := DefaultOptions()
	opts.WeightLimit = 1
	sig, b, mk := newTest(opts)
	p := sig.Pred("p", 1)
	x := b.Var(0)

	s := mk([]unit.U{{Name: "only", Lits: []term.Lit{b.Lit(p, true, x)}}})
	if r := s.Run(); r != inter.Unknown {
		t.Errorf("reason %s, want UNKNOWN for an incomplete configuration", r)
	}
}

func TestDeadline(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	p := sig.Pred("p", 1)
	x := b.Var(0)

	s := mk([]unit.U{{Name: "only", Lits: []term.Lit{b.Lit(p, true, x)}}})
	s.SetDeadline(time.Now().Add(-time.Second))
	if r := s.Run(); r != inter.TimeLimit {
		t.Errorf("reason %s, want TIME_LIMIT", r)
	}
}

func TestEvaluation(t *testing.T) {
	opts := DefaultOptions()
	sig, b, mk := newTest(opts)
	plus := sig.Fun("$sum", 2)
	sig.SetInterp(plus, sym.IntPlus)
	p := sig.Pred("P", 1)
	one := b.Const(sig.Numeral(1))
	two := b.Const(sig.Numeral(2))

	s := mk([]unit.U{
		{Name: "c", Lits: []term.Lit{b.Lit(p, true, b.App(plus, one, two))}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.Evaluations != 1 {
		t.Errorf("evaluations %d, want 1", s.St.Evaluations)
	}
}

func TestEvaluationRefutesFalseComparison(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	less := sig.Pred("$less", 2)
	sig.SetPredInterp(less, sym.IntLess)
	one := b.Const(sig.Numeral(1))
	two := b.Const(sig.Numeral(2))

	s := mk([]unit.U{
		{Name: "c", Lits: []term.Lit{b.Lit(less, false, one, two)}},
	})
	if r := s.Run(); r != inter.Refutation {
		t.Errorf("reason %s, want REFUTATION since ~(1 < 2) is false", r)
	}
}

func TestArithmeticOverflowRecovered(t *testing.T) {
	sig, b, mk := newTest(DefaultOptions())
	plus := sig.Fun("$sum", 2)
	sig.SetInterp(plus, sym.IntPlus)
	p := sig.Pred("P", 1)
	big := b.Const(sig.Numeral(1<<62 + (1<<62 - 1)))
	one := b.Const(sig.Numeral(1))

	s := mk([]unit.U{
		{Name: "c", Lits: []term.Lit{b.Lit(p, true, b.App(plus, big, one))}},
	})
	if r := s.Run(); r != inter.Satisfiable {
		t.Fatalf("reason %s, want SATISFIABLE", r)
	}
	if s.St.ArithmeticOverflow == 0 {
		t.Errorf("overflow not counted")
	}
	if s.St.FinalActive != 1 {
		t.Errorf("clause lost on overflow")
	}
}

func TestClauseLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.ClauseLimit = 4
	sig, b, mk := newTest(opts)
	p0 := sig.Pred("p0", 1)
	p1 := sig.Pred("p1", 1)
	p2 := sig.Pred("p2", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	// the resolution chain overflows a four-clause budget before refuting
	s := mk([]unit.U{
		{Name: "start", Lits: []term.Lit{b.Lit(p0, true, a)}},
		{Name: "s0", Lits: []term.Lit{b.Lit(p0, false, x), b.Lit(p1, true, x)}},
		{Name: "s1", Lits: []term.Lit{b.Lit(p1, false, x), b.Lit(p2, true, x)}},
		{Name: "goal", Lits: []term.Lit{b.Lit(p2, false, a)}},
	})
	if r := s.Run(); r != inter.MemoryLimit {
		t.Errorf("reason %s, want MEMORY_LIMIT", r)
	}
}
