// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

import (
	"testing"

	"github.com/quill-prover/quill/sym"
)

func TestKBOGroundTotal(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	g := sig.Fun("g", 2)
	a := b.Const(sig.Fun("a", 0))
	c := b.Const(sig.Fun("c", 0))
	k := NewKBO(b)

	ground := []Ref{
		a, c, b.App(f, a), b.App(f, c),
		b.App(g, a, c), b.App(f, b.App(f, a)), b.App(g, b.App(f, a), c),
	}
	for _, s := range ground {
		for _, u := range ground {
			o := k.Compare(s, u)
			if o == OrdIncomparable {
				t.Errorf("ground terms incomparable: %s vs %s", b.String(s), b.String(u))
			}
			if (o == OrdEqual) != (s == u) {
				t.Errorf("equality mismatch: %s vs %s gave %s", b.String(s), b.String(u), o)
			}
			if o.Reverse() != k.Compare(u, s) {
				t.Errorf("asymmetry: %s vs %s", b.String(s), b.String(u))
			}
		}
	}
}

func TestKBOWeightDominates(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	a := b.Const(sig.Fun("a", 0))
	k := NewKBO(b)

	if k.Compare(b.App(f, a), a) != OrdGreater {
		t.Errorf("f(a) not greater than a")
	}
	x := b.Var(0)
	if k.Compare(b.App(f, x), x) != OrdGreater {
		t.Errorf("f(X) not greater than X")
	}
	y := b.Var(1)
	if k.Compare(x, y) != OrdIncomparable {
		t.Errorf("distinct variables comparable")
	}
	if k.Compare(b.App(f, x), y) != OrdIncomparable {
		t.Errorf("f(X) compared against unrelated Y")
	}
}

func TestKBOStability(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	g := sig.Fun("g", 1)
	a := b.Const(sig.Fun("a", 0))
	k := NewKBO(b)

	x := b.Var(0)
	s, u := b.App(f, x), x
	if k.Compare(s, u) != OrdGreater {
		t.Fatalf("f(X) > X expected")
	}
	// ground through X -> g(a) and recheck
	sub := Match(b, x, b.App(g, a))
	if sub == nil {
		t.Fatalf("binding failed")
	}
	sg, ug := sub.ApplyMatched(s), sub.ApplyMatched(u)
	if k.Compare(sg, ug) != OrdGreater {
		t.Errorf("ordering unstable under substitution: %s vs %s", b.String(sg), b.String(ug))
	}
}

func TestArgOrderCache(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	f := sig.Fun("f", 1)
	x := b.Var(0)
	k := NewKBO(b)

	l := b.Eq(true, b.App(f, x), x, sym.SortIota)
	if b.ArgOrderTag(l) != ArgUnknown {
		t.Errorf("fresh literal has a cached order")
	}
	if k.ArgOrder(l) != OrdGreater {
		t.Errorf("f(X) = X not oriented left to right")
	}
	if b.ArgOrderTag(l) != ArgGreater {
		t.Errorf("order not cached")
	}
	lhs, rhs, ok := k.GreaterSide(l)
	if !ok || lhs != b.App(f, x) || rhs != x {
		t.Errorf("wrong greater side")
	}
}

func TestCompareLits(t *testing.T) {
	sig := sym.NewTable()
	b := NewBank(sig)
	p := sig.Pred("p", 1)
	a := b.Const(sig.Fun("a", 0))
	k := NewKBO(b)

	pa := b.Lit(p, true, a)
	npa := b.Lit(p, false, a)
	if k.CompareLits(npa, pa) != OrdGreater {
		t.Errorf("negative literal not greater than its positive form")
	}
	if k.CompareLits(pa, pa) != OrdEqual {
		t.Errorf("literal not equal to itself")
	}
}
