// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/index"
	"github.com/quill-prover/quill/term"
)

// binaryResolution resolves the selected literals of the given clause
// against complementary selected literals of active clauses.
type binaryResolution struct {
	s   *S
	idx *index.LitIndex
}

func (r *binaryResolution) Name() string { return "binary resolution" }

func (r *binaryResolution) Attach(s *S) {
	r.idx = s.Mgr.Request(index.ResolutionLits).(*index.LitIndex)
}

func (r *binaryResolution) Detach() {
	r.s.Mgr.Release(index.ResolutionLits)
	r.idx = nil
}

func (r *binaryResolution) Generate(g *clause.C) []*clause.C {
	s := r.s
	var out []*clause.C
	sel := g.Selected()
	for li := range sel {
		l := sel[li]
		it := r.idx.Tree().ComplementaryUnifications(l)
		for {
			e, sig, ok := it.Next()
			if !ok {
				break
			}
			d := e.Cls
			if d.Store != clause.Active {
				continue
			}
			if res := r.resolvent(g, li, l, d, e.L, sig); res != nil {
				s.St.Resolutions++
				out = append(out, res)
			}
		}
	}
	return out
}

// resolvent builds the conclusion of resolving g's selected literal l
// (index li) against d's literal m under unifier sig, or nil when the
// ordering constraint or the color discipline blocks it.
func (r *binaryResolution) resolvent(g *clause.C, li int, l term.Lit, d *clause.C, m term.Lit, sig *term.Subst) *clause.C {
	lS := sig.ApplyLit(l, term.QueryBank)
	mS := sig.ApplyLit(m, term.ResultBank)

	lits := make([]term.Lit, 0, g.Len()+d.Len()-2)
	for i, gl := range g.Lits {
		if i == r.selIndex(g, li) {
			continue
		}
		nl := sig.ApplyLit(gl, term.QueryBank)
		// the literal-selection constraint: no conclusion literal may
		// exceed the instantiated resolved-upon literal of its premise
		if r.s.Ord.CompareLits(nl, lS) == term.OrdGreater {
			return nil
		}
		lits = append(lits, nl)
	}
	skipped := false
	for _, dl := range d.Lits {
		if !skipped && dl == m {
			skipped = true
			continue
		}
		nl := sig.ApplyLit(dl, term.ResultBank)
		if r.s.Ord.CompareLits(nl, mS) == term.OrdGreater {
			return nil
		}
		lits = append(lits, nl)
	}
	return clause.Derived(r.s.B, term.Renumber(r.s.B, lits), clause.Resolution, g, d)
}

// selIndex maps an index into Selected() back to the literal buffer; the
// selected literals are the buffer's prefix.
func (r *binaryResolution) selIndex(g *clause.C, li int) int { return li }

// factoring unifies a selected literal with another literal of the same
// polarity in the given clause and keeps one copy.
type factoring struct {
	s *S
}

func (f *factoring) Name() string { return "factoring" }

func (f *factoring) Attach(*S) {}

func (f *factoring) Detach() {}

func (f *factoring) Generate(g *clause.C) []*clause.C {
	s := f.s
	b := s.B
	if g.Len() < 2 {
		return nil
	}
	var out []*clause.C
	sel := g.Selected()
	for li := range sel {
		l := sel[li]
		for j, m := range g.Lits {
			if j == li || b.LitPos(l) != b.LitPos(m) {
				continue
			}
			// both literals live in the same clause instance: one bank
			sig := term.MGULits(b, l, term.QueryBank, m, term.QueryBank)
			if sig == nil {
				continue
			}
			lits := make([]term.Lit, 0, g.Len()-1)
			for k, gl := range g.Lits {
				if k == j {
					continue
				}
				lits = append(lits, sig.ApplyLit(gl, term.QueryBank))
			}
			c := clause.Derived(b, term.Renumber(b, lits), clause.Factoring, g)
			if c != nil {
				s.St.Factorings++
				out = append(out, c)
			}
		}
	}
	return out
}
