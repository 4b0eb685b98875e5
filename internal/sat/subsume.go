// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/index"
	"github.com/quill-prover/quill/term"
)

// mlMatch decides whether the pattern literals can be assigned to distinct
// query literals under one consistent matching substitution.  alts[i] lists
// the query literals that pattern literal i may map to.
func mlMatch(b *term.Bank, pat []term.Lit, alts [][]term.Lit) bool {
	sig := term.NewSubst(b)
	used := make(map[term.Lit]bool)
	var rec func(i int) bool
	rec = func(i int) bool {
		if i == len(pat) {
			return true
		}
		for _, q := range alts[i] {
			if used[q] {
				continue
			}
			snap := sig.Snapshot()
			if sig.MatchLitInto(pat[i], q) {
				used[q] = true
				if rec(i + 1) {
					return true
				}
				used[q] = false
			}
			sig.Restore(snap)
		}
		return false
	}
	return rec(0)
}

// slSubsumption deletes the new clause when an active clause subsumes it:
// candidates are collected by per-literal generalization queries, then
// checked by multi-literal matching.
type slSubsumption struct {
	s   *S
	idx *index.LitIndex
}

func (fs *slSubsumption) Name() string { return "forward subsumption" }

func (fs *slSubsumption) Attach(s *S) {
	fs.idx = s.Mgr.Request(index.SimplifyingLits).(*index.LitIndex)
}

func (fs *slSubsumption) Detach() {
	fs.s.Mgr.Release(index.SimplifyingLits)
	fs.idx = nil
}

func (fs *slSubsumption) Perform(c *clause.C) (FwAction, *clause.C) {
	s := fs.s
	b := s.B
	if c.Len() == 0 {
		return FwKeep, nil
	}
	type cm struct {
		pairs map[term.Lit][]term.Lit // candidate literal -> query literals
		count int
	}
	var gens map[*clause.C]*cm
	for _, l := range c.Lits {
		it := fs.idx.Tree().Generalizations(l)
		for {
			e, _, ok := it.Next()
			if !ok {
				break
			}
			d := e.Cls
			if d.Store != clause.Active || d == c {
				continue
			}
			if clause.Combine(c.Color, d.Color) == clause.ColorInvalid {
				continue
			}
			if d.Len() == 1 {
				// a unit generalization subsumes outright
				s.St.FwSubsumed++
				return FwDelete, nil
			}
			if d.Len() > c.Len() {
				continue
			}
			if gens == nil {
				gens = make(map[*clause.C]*cm)
			}
			m, ok := gens[d]
			if !ok {
				m = &cm{pairs: make(map[term.Lit][]term.Lit)}
				gens[d] = m
			}
			m.pairs[e.L] = append(m.pairs[e.L], l)
			m.count++
		}
	}
	for d, m := range gens {
		if d.Len() > m.count {
			continue
		}
		alts := make([][]term.Lit, d.Len())
		failed := false
		for i, dl := range d.Lits {
			alts[i] = m.pairs[dl]
			if len(alts[i]) == 0 {
				failed = true
				break
			}
		}
		if failed {
			continue
		}
		if mlMatch(b, d.Lits, alts) {
			s.St.FwSubsumed++
			return FwDelete, nil
		}
	}
	return FwKeep, nil
}

// slSubsumptionRes performs forward subsumption resolution: one literal of
// the new clause resolves against the opposite polarity in the candidate,
// whose remaining literals subsume the rest.
type slSubsumptionRes struct {
	s   *S
	idx *index.LitIndex
}

func (fr *slSubsumptionRes) Name() string { return "forward subsumption resolution" }

func (fr *slSubsumptionRes) Attach(s *S) {
	fr.idx = s.Mgr.Request(index.SimplifyingLits).(*index.LitIndex)
}

func (fr *slSubsumptionRes) Detach() {
	fr.s.Mgr.Release(index.SimplifyingLits)
	fr.idx = nil
}

func (fr *slSubsumptionRes) Perform(c *clause.C) (FwAction, *clause.C) {
	s := fr.s
	b := s.B
	if c.Len() == 0 {
		return FwKeep, nil
	}
	for ri, l := range c.Lits {
		nl := b.Neg(l)
		it := fr.idx.Tree().Generalizations(nl)
		for {
			e, _, ok := it.Next()
			if !ok {
				break
			}
			d := e.Cls
			if d.Store != clause.Active || d == c {
				continue
			}
			if d.Len() > c.Len() {
				continue
			}
			if clause.Combine(c.Color, d.Color) == clause.ColorInvalid {
				continue
			}
			if !fr.resolves(d, e.L, c, ri) {
				continue
			}
			lits := make([]term.Lit, 0, c.Len()-1)
			for i, cl := range c.Lits {
				if i != ri {
					lits = append(lits, cl)
				}
			}
			res := clause.New(b, lits, c.Input, clause.Combine(c.Color, d.Color),
				clause.Inference{Rule: clause.SubsumptionResolution, Parents: []*clause.C{c, d}})
			res.Age = c.Age
			s.St.FwSubsumptionRes++
			return FwReplace, res
		}
	}
	return FwKeep, nil
}

// resolves checks that candidate d, with literal m matching the complement
// of c's literal ri, has its remaining literals subsume the rest of c under
// one substitution.
func (fr *slSubsumptionRes) resolves(d *clause.C, m term.Lit, c *clause.C, ri int) bool {
	b := fr.s.B
	sig := term.NewSubst(b)
	if !sig.MatchLitInto(m, b.Neg(c.Lits[ri])) {
		return false
	}
	rest := make([]term.Lit, 0, d.Len()-1)
	skipped := false
	for _, dl := range d.Lits {
		if !skipped && dl == m {
			skipped = true
			continue
		}
		rest = append(rest, dl)
	}
	if len(rest) == 0 {
		return true
	}
	// remaining candidate literals must map into c under the same sigma
	used := make(map[int]bool)
	var rec func(i int) bool
	rec = func(i int) bool {
		if i == len(rest) {
			return true
		}
		for qi, q := range c.Lits {
			if qi == ri || used[qi] {
				continue
			}
			snap := sig.Snapshot()
			if sig.MatchLitInto(rest[i], q) {
				used[qi] = true
				if rec(i + 1) {
					return true
				}
				used[qi] = false
			}
			sig.Restore(snap)
		}
		return false
	}
	return rec(0)
}

// ctSubsAndRes is the code-tree variant: one pass over the compiled clause
// index yields both subsumption and subsumption resolution candidates.
type ctSubsAndRes struct {
	s       *S
	withRes bool
	idx     *index.SubsumptionIndex
}

func (ct *ctSubsAndRes) Name() string { return "code tree subsumption" }

func (ct *ctSubsAndRes) Attach(s *S) {
	ct.idx = s.Mgr.Request(index.FwSubsumptionCode).(*index.SubsumptionIndex)
}

func (ct *ctSubsAndRes) Detach() {
	ct.s.Mgr.Release(index.FwSubsumptionCode)
	ct.idx = nil
}

func (ct *ctSubsAndRes) Perform(c *clause.C) (FwAction, *clause.C) {
	s := ct.s
	b := s.B
	if c.Len() == 0 {
		return FwKeep, nil
	}
	scope := clause.RequestAux()
	defer scope.Release()

	for _, res := range ct.idx.Code.Retrieve(c.Lits, ct.withRes) {
		d := res.Cls
		if scope.Mark(d) {
			// already yielded as a potential subsumer
			continue
		}
		if d.Store != clause.Active || d == c {
			continue
		}
		if clause.Combine(c.Color, d.Color) == clause.ColorInvalid {
			continue
		}
		if res.Resolved {
			lits := make([]term.Lit, 0, c.Len()-1)
			for i, cl := range c.Lits {
				if i != res.ResolvedIndex {
					lits = append(lits, cl)
				}
			}
			repl := clause.New(b, lits, c.Input, clause.Combine(c.Color, d.Color),
				clause.Inference{Rule: clause.SubsumptionResolution, Parents: []*clause.C{c, d}})
			repl.Age = c.Age
			s.St.FwSubsumptionRes++
			return FwReplace, repl
		}
		s.St.FwSubsumed++
		return FwDelete, nil
	}
	return FwKeep, nil
}

// bwSubsumption removes active clauses subsumed by the given clause.
type bwSubsumption struct {
	s   *S
	idx *index.LitIndex
}

func (bs *bwSubsumption) Name() string { return "backward subsumption" }

func (bs *bwSubsumption) Attach(s *S) {
	bs.idx = s.Mgr.Request(index.SimplifyingLits).(*index.LitIndex)
}

func (bs *bwSubsumption) Detach() {
	bs.s.Mgr.Release(index.SimplifyingLits)
	bs.idx = nil
}

func (bs *bwSubsumption) Perform(g *clause.C) []BwResult {
	s := bs.s
	b := s.B
	if g.Len() == 0 {
		return nil
	}
	var out []BwResult
	removed := make(map[*clause.C]bool)
	// instances of the first literal narrow the candidate set
	it := bs.idx.Tree().Instances(g.Lits[0])
	for {
		e, _, ok := it.Next()
		if !ok {
			break
		}
		d := e.Cls
		if d == g || d.Store != clause.Active || removed[d] {
			continue
		}
		if d.Len() < g.Len() {
			continue
		}
		if clause.Combine(g.Color, d.Color) == clause.ColorInvalid {
			continue
		}
		alts := make([][]term.Lit, g.Len())
		failed := false
		for i, gl := range g.Lits {
			for _, dl := range d.Lits {
				if term.MatchLits(b, gl, dl) != nil {
					alts[i] = append(alts[i], dl)
				}
			}
			if len(alts[i]) == 0 {
				failed = true
				break
			}
		}
		if failed {
			continue
		}
		if mlMatch(b, g.Lits, alts) {
			removed[d] = true
			s.St.BwSubsumed++
			out = append(out, BwResult{Removed: d})
		}
	}
	return out
}
