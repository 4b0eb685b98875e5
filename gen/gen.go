// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen generates first-order problems programmatically, for tests
// and benchmarks.
package gen

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

// make the rng seedable
var rng = rand.New(rand.NewSource(33))
var mu sync.Mutex

// Seed reseeds the package generator.
func Seed(s int64) {
	mu.Lock()
	defer mu.Unlock()
	rng = rand.New(rand.NewSource(s))
}

// Chain generates
//
//	p0(a),  ~p0(X)|p1(X),  ...,  ~p{n-1}(X)|pn(X),  ~pn(a)
//
// which refutes in n+1 resolutions.
func Chain(b *term.Bank, n int) []unit.U {
	a := b.Const(b.Sig.Fun("a", 0))
	x := b.Var(0)
	p := make([]sym.Pred, n+1)
	for i := range p {
		p[i] = b.Sig.Pred(fmt.Sprintf("p%d", i), 1)
	}
	var us []unit.U
	us = append(us, unit.U{Name: "start", Lits: []term.Lit{b.Lit(p[0], true, a)}})
	for i := 0; i < n; i++ {
		us = append(us, unit.U{
			Name: fmt.Sprintf("step%d", i),
			Lits: []term.Lit{b.Lit(p[i], false, x), b.Lit(p[i+1], true, x)},
		})
	}
	us = append(us, unit.U{
		Name:  "goal",
		Lits:  []term.Lit{b.Lit(p[n], false, a)},
		Input: clause.NegatedConjecture,
	})
	return us
}

// Collapse generates
//
//	f(X) = X,  P(a),  ~P(f^n(a))
//
// which refutes through n forward demodulations and one resolution.
func Collapse(b *term.Bank, n int) []unit.U {
	f := b.Sig.Fun("f", 1)
	a := b.Const(b.Sig.Fun("a", 0))
	p := b.Sig.Pred("P", 1)
	x := b.Var(0)
	fx := b.App(f, x)
	fa := a
	for i := 0; i < n; i++ {
		fa = b.App(f, fa)
	}
	return []unit.U{
		{Name: "collapse", Lits: []term.Lit{b.Eq(true, fx, x, sym.SortIota)}},
		{Name: "base", Lits: []term.Lit{b.Lit(p, true, a)}},
		{Name: "goal", Lits: []term.Lit{b.Lit(p, false, fa)},
			Input: clause.NegatedConjecture},
	}
}

// Split generates
//
//	p(X)|q(X),  ~p(a),  ~q(a)
//
// which refutes in two resolutions.
func Split(b *term.Bank) []unit.U {
	a := b.Const(b.Sig.Fun("a", 0))
	x := b.Var(0)
	p := b.Sig.Pred("p", 1)
	q := b.Sig.Pred("q", 1)
	return []unit.U{
		{Name: "split", Lits: []term.Lit{b.Lit(p, true, x), b.Lit(q, true, x)}},
		{Name: "np", Lits: []term.Lit{b.Lit(p, false, a)}},
		{Name: "nq", Lits: []term.Lit{b.Lit(q, false, a)}},
	}
}

// RandCnf generates m random clauses of width w over np unary predicates,
// nc constants, and one variable per clause.
func RandCnf(b *term.Bank, np, nc, m, w int) []unit.U {
	mu.Lock() // for package rng
	defer mu.Unlock()
	preds := make([]sym.Pred, np)
	for i := range preds {
		preds[i] = b.Sig.Pred(fmt.Sprintf("r%d", i), 1)
	}
	consts := make([]term.Ref, nc)
	for i := range consts {
		consts[i] = b.Const(b.Sig.Fun(fmt.Sprintf("c%d", i), 0))
	}
	var us []unit.U
	for i := 0; i < m; i++ {
		lits := make([]term.Lit, 0, w)
		for j := 0; j < w; j++ {
			var arg term.Ref
			if rng.Intn(3) == 0 {
				arg = b.Var(0)
			} else {
				arg = consts[rng.Intn(nc)]
			}
			lits = append(lits, b.Lit(preds[rng.Intn(np)], rng.Intn(2) == 0, arg))
		}
		us = append(us, unit.U{Name: fmt.Sprintf("r%d", i), Lits: lits})
	}
	return us
}
