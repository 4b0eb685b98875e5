// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package clause

import (
	"testing"

	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
)

func TestCombine(t *testing.T) {
	cases := []struct {
		a, b, want Color
	}{
		{Transparent, Transparent, Transparent},
		{Transparent, Left, Left},
		{Right, Transparent, Right},
		{Left, Left, Left},
		{Right, Right, Right},
		{Left, Right, ColorInvalid},
		{Right, Left, ColorInvalid},
	}
	for _, c := range cases {
		if got := Combine(c.a, c.b); got != c.want {
			t.Errorf("combine(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func newBank() (*sym.Table, *term.Bank) {
	sig := sym.NewTable()
	return sig, term.NewBank(sig)
}

func TestDerivedColor(t *testing.T) {
	sig, b := newBank()
	p := sig.Pred("p", 0)
	l := b.Lit(p, true)

	left := New(b, []term.Lit{l}, Axiom, Left, Inference{Rule: Input})
	right := New(b, []term.Lit{l}, Axiom, Right, Inference{Rule: Input})
	clear := New(b, []term.Lit{l}, Axiom, Transparent, Inference{Rule: Input})

	if c := Derived(b, nil, Resolution, left, right); c != nil {
		t.Errorf("left/right combination not blocked")
	}
	c := Derived(b, nil, Resolution, left, clear)
	if c == nil || c.Color != Left {
		t.Errorf("left/transparent combination broken")
	}
}

func TestAgeAndInput(t *testing.T) {
	sig, b := newBank()
	p := sig.Pred("p", 0)
	l := b.Lit(p, true)

	ax := New(b, []term.Lit{l}, Axiom, Transparent, Inference{Rule: Input})
	nc := New(b, []term.Lit{l}, NegatedConjecture, Transparent, Inference{Rule: Input})
	nc.Age = 3

	c := Derived(b, []term.Lit{l}, Resolution, ax, nc)
	if c.Age != 4 {
		t.Errorf("age %d, want 4", c.Age)
	}
	if c.Input != NegatedConjecture {
		t.Errorf("input type not the max of the parents")
	}
}

func TestTautologyAndTrim(t *testing.T) {
	sig, b := newBank()
	p := sig.Pred("p", 1)
	x := b.Var(0)
	pos := b.Lit(p, true, x)
	neg := b.Lit(p, false, x)

	c := New(b, []term.Lit{pos, neg}, Axiom, Transparent, Inference{Rule: Input})
	if !c.IsTautology(b) {
		t.Errorf("p(X) | ~p(X) not a tautology")
	}
	d := New(b, []term.Lit{pos, pos, neg}, Axiom, Transparent, Inference{Rule: Input})
	d.Trim()
	if d.Len() != 2 {
		t.Errorf("trim kept %d literals", d.Len())
	}
}

func TestAncestors(t *testing.T) {
	sig, b := newBank()
	p := sig.Pred("p", 0)
	l := b.Lit(p, true)

	a := New(b, []term.Lit{l}, Axiom, Transparent, Inference{Rule: Input})
	c := Derived(b, []term.Lit{l}, Resolution, a, a)
	e := Derived(b, nil, Resolution, c, a)

	var order []*C
	e.Ancestors(func(d *C) { order = append(order, d) })
	if len(order) != 3 {
		t.Fatalf("walked %d clauses, want 3", len(order))
	}
	if order[0] != a || order[2] != e {
		t.Errorf("not topological: parents must precede children")
	}
}
