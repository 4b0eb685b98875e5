// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/index"
	"github.com/quill-prover/quill/term"
)

// superposition rewrites with selected positive equalities into subterms of
// selected literals, in both directions: the given clause as the equality
// premise against indexed subterms, and the given clause as the rewritten
// premise against indexed equality sides.
type superposition struct {
	s    *S
	lhs  *index.LHSIndex
	subs *index.SubtermIndex
}

func (sp *superposition) Name() string { return "superposition" }

func (sp *superposition) Attach(s *S) {
	sp.lhs = s.Mgr.Request(index.SupLHS).(*index.LHSIndex)
	sp.subs = s.Mgr.Request(index.SupSubterms).(*index.SubtermIndex)
}

func (sp *superposition) Detach() {
	sp.s.Mgr.Release(index.SupLHS)
	sp.s.Mgr.Release(index.SupSubterms)
	sp.lhs, sp.subs = nil, nil
}

func (sp *superposition) Generate(g *clause.C) []*clause.C {
	var out []*clause.C
	out = sp.fromGiven(g, out)
	out = sp.intoGiven(g, out)
	return out
}

// eqSides yields the usable orientations of a positive equality literal.
func (sp *superposition) eqSides(l term.Lit, f func(lhs, rhs term.Ref)) {
	b := sp.s.B
	if !b.IsEq(l) || !b.LitPos(l) {
		return
	}
	args := b.LitArgs(l)
	switch sp.s.Ord.ArgOrder(l) {
	case term.OrdGreater:
		f(args[0], args[1])
	case term.OrdLess:
		f(args[1], args[0])
	case term.OrdIncomparable:
		if !args[0].IsVar() {
			f(args[0], args[1])
		}
		if !args[1].IsVar() {
			f(args[1], args[0])
		}
	}
}

// fromGiven uses a selected equality of g to rewrite indexed subterms of
// active clauses.  g is on the query side of the unifier.
func (sp *superposition) fromGiven(g *clause.C, out []*clause.C) []*clause.C {
	s := sp.s
	sel := g.Selected()
	for li := range sel {
		l := sel[li]
		sp.eqSides(l, func(lhs, rhs term.Ref) {
			it := sp.subs.Tree().Unifications(lhs)
			for {
				e, sig, ok := it.Next()
				if !ok {
					return
				}
				d := e.Cls
				if d.Store != clause.Active || d == g {
					continue
				}
				lhsS := sig.Apply(lhs, term.QueryBank)
				rhsS := sig.Apply(rhs, term.QueryBank)
				if s.Ord.Compare(lhsS, rhsS) != term.OrdGreater {
					continue
				}
				c := sp.conclude(g, li, d, e.L, lhsS, rhsS, sig,
					term.QueryBank, term.ResultBank)
				if c != nil {
					s.St.Superpositions++
					out = append(out, c)
				}
			}
		})
	}
	return out
}

// intoGiven rewrites a subterm of a selected literal of g with an indexed
// active equality.  g is on the query side of the unifier.
func (sp *superposition) intoGiven(g *clause.C, out []*clause.C) []*clause.C {
	s := sp.s
	b := s.B
	sel := g.Selected()
	for li := range sel {
		m := sel[li]
		seen := make(map[term.Ref]bool)
		nv := term.NewNonVarIter(b, m)
		for u := nv.Next(); u != term.RefNull; u = nv.Next() {
			if seen[u] {
				nv.Right()
				continue
			}
			seen[u] = true
			it := sp.lhs.Tree().Unifications(u)
			for {
				e, sig, ok := it.Next()
				if !ok {
					break
				}
				d := e.Cls
				if d.Store != clause.Active || d == g {
					continue
				}
				lhsS := sig.Apply(e.T, term.ResultBank)
				rhs := sp.otherSide(e.L, e.T)
				rhsS := sig.Apply(rhs, term.ResultBank)
				if s.Ord.Compare(lhsS, rhsS) != term.OrdGreater {
					continue
				}
				// roles swap: the equality premise is the active clause
				c := sp.conclude(d, sp.litIndex(d, e.L), g, m, lhsS, rhsS, sig,
					term.ResultBank, term.QueryBank)
				if c != nil {
					s.St.Superpositions++
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func (sp *superposition) otherSide(l term.Lit, side term.Ref) term.Ref {
	args := sp.s.B.LitArgs(l)
	if args[0] == side {
		return args[1]
	}
	return args[0]
}

func (sp *superposition) litIndex(c *clause.C, l term.Lit) int {
	for i, cl := range c.Lits {
		if cl == l {
			return i
		}
	}
	return -1
}

// conclude builds the superposition conclusion: the rewritten premise rw
// with lhsS replaced by rhsS inside literal rwLit, joined with the equality
// premise eq minus its equality literal (at index eqLi), everything
// instantiated.
func (sp *superposition) conclude(eq *clause.C, eqLi int, rw *clause.C, rwLit term.Lit,
	lhsS, rhsS term.Ref, sig *term.Subst, eqBank, rwBank term.BankID) *clause.C {

	s := sp.s
	b := s.B
	if eqLi < 0 {
		return nil
	}
	lits := make([]term.Lit, 0, eq.Len()+rw.Len()-1)
	rewritten := false
	for _, l := range rw.Lits {
		nl := sig.ApplyLit(l, rwBank)
		if !rewritten && l == rwLit {
			nl = b.LitReplace(nl, lhsS, rhsS)
			rewritten = true
		}
		lits = append(lits, nl)
	}
	for i, l := range eq.Lits {
		if i == eqLi {
			continue
		}
		lits = append(lits, sig.ApplyLit(l, eqBank))
	}
	return clause.Derived(b, term.Renumber(b, lits), clause.Superposition, rw, eq)
}
