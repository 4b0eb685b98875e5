// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/index"
	"github.com/quill-prover/quill/term"
)

// fwDemodulation rewrites the new clause with active unit equalities.  A
// rewrite l -> r applies at a subterm u when l matches u with lσ = u and
// u > rσ, or unconditionally when the equation was oriented before
// instantiation.
type fwDemodulation struct {
	s   *S
	idx *index.LHSIndex
}

func (fd *fwDemodulation) Name() string { return "forward demodulation" }

func (fd *fwDemodulation) Attach(s *S) {
	fd.idx = s.Mgr.Request(index.DemodLHS).(*index.LHSIndex)
}

func (fd *fwDemodulation) Detach() {
	fd.s.Mgr.Release(index.DemodLHS)
	fd.idx = nil
}

func (fd *fwDemodulation) Perform(c *clause.C) (FwAction, *clause.C) {
	s := fd.s
	b := s.B
	preorderedOnly := s.Opts.FwDemodulation == DemodPreordered

	attempted := make(map[term.Ref]bool)
	for li, lit := range c.Lits {
		nv := term.NewNonVarIter(b, lit)
		for trm := nv.Next(); trm != term.RefNull; trm = nv.Next() {
			if attempted[trm] {
				// if trm was tried, so were its subterms
				nv.Right()
				continue
			}
			attempted[trm] = true

			toplevelCheck := false
			if b.IsEq(lit) {
				tlArgs := b.LitArgs(lit)
				toplevelCheck = trm == tlArgs[0] || trm == tlArgs[1]
			}

			it := fd.idx.Tree().Generalizations(trm)
			for {
				e, sig, ok := it.Next()
				if !ok {
					break
				}
				d := e.Cls
				if d.Store != clause.Active || d == c {
					continue
				}
				rhs := fd.otherSide(e.L, e.T)
				if !boundAll(sig, b, rhs) {
					continue
				}
				rhsS := sig.ApplyMatched(rhs)

				ord := s.Ord.ArgOrder(e.L)
				preordered := ord == term.OrdLess || ord == term.OrdGreater
				if !preordered &&
					(preorderedOnly || s.Ord.Compare(trm, rhsS) != term.OrdGreater) {
					continue
				}

				if toplevelCheck {
					other := fd.otherSide(lit, trm)
					tord := s.Ord.Compare(rhsS, other)
					if tord != term.OrdLess && tord != term.OrdEqual {
						// the rewrite would leave a maximal instance of the
						// demodulator in place of this literal and lose
						// completeness
						eqS := b.Eq(true, trm, rhsS, b.EqSort(e.L))
						isMax := true
						for lj, olit := range c.Lits {
							if lj == li {
								continue
							}
							if s.Ord.CompareLits(eqS, olit) == term.OrdLess {
								isMax = false
								break
							}
						}
						if isMax {
							continue
						}
					}
				}

				if clause.Combine(c.Color, d.Color) == clause.ColorInvalid {
					continue
				}

				resLit := b.LitReplace(lit, trm, rhsS)
				if b.IsEqTautology(resLit) {
					s.St.FwDemodulationsToTaut++
					return FwDelete, nil
				}
				lits := make([]term.Lit, 0, c.Len())
				lits = append(lits, resLit)
				for lj, olit := range c.Lits {
					if lj != li {
						lits = append(lits, olit)
					}
				}
				res := clause.New(b, lits, c.Input, clause.Combine(c.Color, d.Color),
					clause.Inference{Rule: clause.ForwardDemodulation, Parents: []*clause.C{c, d}})
				res.Age = c.Age
				s.St.FwDemodulations++
				return FwReplace, res
			}
		}
	}
	return FwKeep, nil
}

func (fd *fwDemodulation) otherSide(l term.Lit, side term.Ref) term.Ref {
	args := fd.s.B.LitArgs(l)
	if args[0] == side {
		return args[1]
	}
	return args[0]
}

// boundAll reports whether every variable of rhs is bound by the matching
// substitution.  A demodulator used through its unoriented side can carry
// variables the match never saw; rewriting with those would capture the
// rewritten clause's variables.
func boundAll(sig *term.Subst, b *term.Bank, rhs term.Ref) bool {
	for _, v := range b.VarSet(rhs, nil) {
		if _, ok := sig.Lookup(v, term.ResultBank); !ok {
			return false
		}
	}
	return true
}

// bwDemodulation rewrites active clauses with the given clause when it is a
// unit equality.
type bwDemodulation struct {
	s   *S
	idx *index.SubtermIndex
}

func (bd *bwDemodulation) Name() string { return "backward demodulation" }

func (bd *bwDemodulation) Attach(s *S) {
	bd.idx = s.Mgr.Request(index.AllSubterms).(*index.SubtermIndex)
}

func (bd *bwDemodulation) Detach() {
	bd.s.Mgr.Release(index.AllSubterms)
	bd.idx = nil
}

func (bd *bwDemodulation) Perform(g *clause.C) []BwResult {
	s := bd.s
	b := s.B
	if g.Len() != 1 || !b.IsEq(g.Lits[0]) || !b.LitPos(g.Lits[0]) {
		return nil
	}
	eq := g.Lits[0]
	args := b.LitArgs(eq)

	var out []BwResult
	removed := make(map[*clause.C]bool)

	try := func(lhs, rhs term.Ref, checkOrder bool) {
		if lhs.IsVar() {
			return
		}
		it := bd.idx.Tree().Instances(lhs)
		for {
			e, sig, ok := it.Next()
			if !ok {
				return
			}
			d := e.Cls
			if d == g || d.Store != clause.Active || removed[d] {
				continue
			}
			if !boundAll(sig, b, rhs) {
				continue
			}
			rhsS := sig.ApplyMatched(rhs)
			if checkOrder && s.Ord.Compare(e.T, rhsS) != term.OrdGreater {
				continue
			}
			if clause.Combine(d.Color, g.Color) == clause.ColorInvalid {
				continue
			}
			nl := b.LitReplace(e.L, e.T, rhsS)
			lits := make([]term.Lit, 0, d.Len())
			for _, l := range d.Lits {
				if l == e.L {
					lits = append(lits, nl)
				} else {
					lits = append(lits, l)
				}
			}
			res := clause.New(b, lits, d.Input, clause.Combine(d.Color, g.Color),
				clause.Inference{Rule: clause.BackwardDemodulation, Parents: []*clause.C{d, g}})
			res.Age = d.Age
			removed[d] = true
			s.St.BwDemodulations++
			out = append(out, BwResult{Removed: d, Replacement: res})
		}
	}

	switch s.Ord.ArgOrder(eq) {
	case term.OrdGreater:
		try(args[0], args[1], false)
	case term.OrdLess:
		try(args[1], args[0], false)
	case term.OrdIncomparable:
		try(args[0], args[1], true)
		try(args[1], args[0], true)
	}
	return out
}

// innerRewriting uses the greater side of a negative equality literal to
// rewrite the other literals of the same clause.  A rewrite producing an
// equational tautology deletes the clause.
type innerRewriting struct {
	s *S
}

func (ir *innerRewriting) Name() string { return "inner rewriting" }

func (ir *innerRewriting) Attach(*S) {}

func (ir *innerRewriting) Detach() {}

func (ir *innerRewriting) Perform(c *clause.C) (FwAction, *clause.C) {
	s := ir.s
	b := s.B
	n := c.Len()
	for i := 0; i < n; i++ {
		rw := c.Lits[i]
		if !b.IsEq(rw) || b.LitPos(rw) {
			continue
		}
		lhs, rhs, ok := s.Ord.GreaterSide(rw)
		if !ok {
			continue
		}
		changed := false
		lits := make([]term.Lit, n)
		for j := 0; j < n; j++ {
			if j == i {
				lits[j] = rw
				continue
			}
			nl := b.LitReplace(c.Lits[j], lhs, rhs)
			if nl != c.Lits[j] {
				changed = true
				if b.IsEqTautology(nl) {
					s.St.InnerRewritesToTaut++
					return FwDelete, nil
				}
			}
			lits[j] = nl
		}
		if !changed {
			continue
		}
		res := clause.New(b, lits, c.Input, c.Color,
			clause.Inference{Rule: clause.InnerRewriting, Parents: []*clause.C{c}})
		res.Age = c.Age
		s.St.InnerRewrites++
		return FwReplace, res
	}
	return FwKeep, nil
}
