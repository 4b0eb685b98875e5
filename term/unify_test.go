// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

import (
	"testing"

	"github.com/quill-prover/quill/sym"
)

func TestIdentitySubst(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	fx := b.App(f, b.Var(0))

	s := NewSubst(b)
	if s.Apply(fx, QueryBank) != fx {
		t.Errorf("identity application changed the handle")
	}
}

func TestMGU(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 2)
	g := sig.Fun("g", 1)
	a := b.Const(sig.Fun("a", 0))
	x, y := b.Var(0), b.Var(1)

	// f(X, g(Y)) =? f(a, g(a)) across banks
	s := MGU(b, b.App(f, x, b.App(g, y)), QueryBank, b.App(f, a, b.App(g, a)), ResultBank)
	if s == nil {
		t.Fatalf("unification failed")
	}
	if got := s.Apply(x, QueryBank); got != a {
		t.Errorf("X bound to %s", b.String(got))
	}
	if got := s.Apply(y, QueryBank); got != a {
		t.Errorf("Y bound to %s", b.String(got))
	}
}

func TestMGUClash(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	a := b.Const(sig.Fun("a", 0))
	c := b.Const(sig.Fun("c", 0))
	if MGU(b, a, QueryBank, c, ResultBank) != nil {
		t.Errorf("distinct constants unified")
	}
}

func TestOccursCheck(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	x := b.Var(0)
	if MGU(b, x, QueryBank, b.App(f, x), QueryBank) != nil {
		t.Errorf("occurs check missed X = f(X)")
	}
	// across banks the two X are different variables
	if MGU(b, x, QueryBank, b.App(f, x), ResultBank) == nil {
		t.Errorf("cross-bank unification of X with f(X') failed")
	}
}

func TestMatch(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := Match(b, b.App(f, x), b.App(f, a))
	if s == nil {
		t.Fatalf("match failed")
	}
	if got := s.ApplyMatched(x); got != a {
		t.Errorf("X matched to %s", b.String(got))
	}
	// subjects do not instantiate
	if Match(b, b.App(f, a), b.App(f, x)) != nil {
		t.Errorf("matched a constant pattern onto a variable subject")
	}
}

func TestMatchIdempotent(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	g := sig.Fun("g", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := Match(b, b.App(f, x), b.App(f, b.App(g, a)))
	if s == nil {
		t.Fatalf("match failed")
	}
	once := s.Apply(b.App(g, x), ResultBank)
	twice := s.Apply(once, ResultBank)
	if once != twice {
		t.Errorf("idempotent substitution changed on reapplication: %s vs %s",
			b.String(once), b.String(twice))
	}
}

func TestRenumber(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	p := sig.Pred("p", 2)
	x, y := b.Var(7), b.Var(12)

	out := Renumber(b, []Lit{b.Lit(p, true, y, x)})
	args := b.LitArgs(out[0])
	if args[0] != MkVar(0) || args[1] != MkVar(1) {
		t.Errorf("renumbering not first-occurrence order: %s", b.LitString(out[0]))
	}
}

func TestMGULits(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	p := sig.Pred("p", 1)
	a := b.Const(sig.Fun("a", 0))
	x := b.Var(0)

	s := MGULits(b, b.Lit(p, true, x), QueryBank, b.Lit(p, false, a), ResultBank)
	if s == nil {
		t.Fatalf("atoms did not unify")
	}
	if got := s.ApplyLit(b.Lit(p, true, x), QueryBank); got != b.Lit(p, true, a) {
		t.Errorf("instantiated literal is %s", b.LitString(got))
	}
}
