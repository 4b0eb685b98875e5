// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package index

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/term"
)

// Kind names one logical index role.
type Kind uint8

const (
	// DemodLHS indexes the orientable sides of active unit equalities.
	DemodLHS Kind = iota
	// SupLHS indexes the orientable sides of selected positive equalities.
	SupLHS
	// SupSubterms indexes the non-variable subterms of selected literals.
	SupSubterms
	// AllSubterms indexes the non-variable subterms of every literal of
	// active clauses, the target of backward demodulation.
	AllSubterms
	// ResolutionLits indexes the selected literals of active clauses.
	ResolutionLits
	// SimplifyingLits indexes all literals of active clauses.
	SimplifyingLits
	// FwSubsumptionCode is the compiled clause subsumption index.
	FwSubsumptionCode
	numKinds
)

// Index is an active-set observer: it mirrors clause additions and
// removals.
type Index interface {
	Add(c *clause.C)
	Remove(c *clause.C)
}

// Manager owns the indices and reference-counts clients against each kind.
// The first client of a kind builds the index from the current active set;
// the last client to release it discards it.
type Manager struct {
	b   *term.Bank
	kbo *term.KBO

	// active enumerates the current active set for lazy construction
	active func(func(*clause.C))

	refs [numKinds]int
	idx  [numKinds]Index
}

// NewManager creates a Manager.  active must enumerate the active clause
// set at call time.
func NewManager(b *term.Bank, kbo *term.KBO, active func(func(*clause.C))) *Manager {
	return &Manager{b: b, kbo: kbo, active: active}
}

// Request registers a client of kind k, building the index on first use.
func (m *Manager) Request(k Kind) Index {
	if m.refs[k] == 0 {
		m.idx[k] = m.build(k)
		m.active(func(c *clause.C) { m.idx[k].Add(c) })
	}
	m.refs[k]++
	return m.idx[k]
}

// Release deregisters a client of kind k, discarding the index with the
// last client.
func (m *Manager) Release(k Kind) {
	if m.refs[k] == 0 {
		panic("index: release of unrequested index")
	}
	m.refs[k]--
	if m.refs[k] == 0 {
		m.idx[k] = nil
	}
}

// Add mirrors an active-set insertion into every live index.
func (m *Manager) Add(c *clause.C) {
	for k := Kind(0); k < numKinds; k++ {
		if m.refs[k] > 0 {
			m.idx[k].Add(c)
		}
	}
}

// Remove mirrors an active-set removal into every live index.
func (m *Manager) Remove(c *clause.C) {
	for k := Kind(0); k < numKinds; k++ {
		if m.refs[k] > 0 {
			m.idx[k].Remove(c)
		}
	}
}

func (m *Manager) build(k Kind) Index {
	switch k {
	case DemodLHS:
		return &LHSIndex{tree: NewTree(m.b), b: m.b, kbo: m.kbo, unitOnly: true}
	case SupLHS:
		return &LHSIndex{tree: NewTree(m.b), b: m.b, kbo: m.kbo, selectedOnly: true}
	case SupSubterms:
		return &SubtermIndex{tree: NewTree(m.b), b: m.b, selectedOnly: true}
	case AllSubterms:
		return &SubtermIndex{tree: NewTree(m.b), b: m.b}
	case ResolutionLits:
		return &LitIndex{tree: NewLitTree(m.b), b: m.b, selectedOnly: true}
	case SimplifyingLits:
		return &LitIndex{tree: NewLitTree(m.b), b: m.b}
	case FwSubsumptionCode:
		return &SubsumptionIndex{Code: NewCodeTree(m.b)}
	}
	panic("index: unknown kind")
}

// LHSIndex indexes the orientable sides of positive equality literals,
// used as rewrite rules by demodulation and superposition.
type LHSIndex struct {
	tree *Tree
	b    *term.Bank
	kbo  *term.KBO

	// unitOnly restricts to unit clauses (demodulators)
	unitOnly bool
	// selectedOnly restricts to selected literals
	selectedOnly bool
}

// Tree exposes the underlying term tree for queries.
func (x *LHSIndex) Tree() *Tree { return x.tree }

func (x *LHSIndex) sides(c *clause.C, f func(l term.Lit, lhs term.Ref)) {
	if x.unitOnly && c.Len() != 1 {
		return
	}
	lits := c.Lits
	if x.selectedOnly {
		lits = c.Selected()
	}
	for _, l := range lits {
		if !x.b.IsEq(l) || !x.b.LitPos(l) {
			continue
		}
		args := x.b.LitArgs(l)
		switch x.kbo.ArgOrder(l) {
		case term.OrdGreater:
			f(l, args[0])
		case term.OrdLess:
			f(l, args[1])
		case term.OrdIncomparable:
			// either side may become maximal after instantiation
			if !args[0].IsVar() {
				f(l, args[0])
			}
			if !args[1].IsVar() {
				f(l, args[1])
			}
		}
	}
}

// Add indexes the rewrite sides of c.
func (x *LHSIndex) Add(c *clause.C) {
	x.sides(c, func(l term.Lit, lhs term.Ref) {
		x.tree.Insert(Entry{T: lhs, L: l, Cls: c})
	})
}

// Remove drops the rewrite sides of c.
func (x *LHSIndex) Remove(c *clause.C) {
	x.sides(c, func(l term.Lit, lhs term.Ref) {
		x.tree.Remove(lhs, c)
	})
}

// SubtermIndex indexes every non-variable subterm of active clause
// literals: the into-side of superposition (selected literals only) and the
// target of backward demodulation (all literals).
type SubtermIndex struct {
	tree         *Tree
	b            *term.Bank
	selectedOnly bool
}

// Tree exposes the underlying term tree for queries.
func (x *SubtermIndex) Tree() *Tree { return x.tree }

func (x *SubtermIndex) each(c *clause.C, f func(l term.Lit, t term.Ref)) {
	lits := c.Lits
	if x.selectedOnly {
		lits = c.Selected()
	}
	for _, l := range lits {
		seen := make(map[term.Ref]bool)
		it := term.NewNonVarIter(x.b, l)
		for t := it.Next(); t != term.RefNull; t = it.Next() {
			if seen[t] {
				it.Right()
				continue
			}
			seen[t] = true
			f(l, t)
		}
	}
}

// Add indexes the non-variable subterms of c's literals (only the selected
// ones when selectedOnly is set).
func (x *SubtermIndex) Add(c *clause.C) {
	x.each(c, func(l term.Lit, t term.Ref) {
		x.tree.Insert(Entry{T: t, L: l, Cls: c})
	})
}

// Remove drops the subterm entries of c.
func (x *SubtermIndex) Remove(c *clause.C) {
	x.each(c, func(l term.Lit, t term.Ref) {
		x.tree.Remove(t, c)
	})
}

// LitIndex indexes literals of active clauses.
type LitIndex struct {
	tree         *LitTree
	b            *term.Bank
	selectedOnly bool
}

// Tree exposes the underlying literal tree for queries.
func (x *LitIndex) Tree() *LitTree { return x.tree }

func (x *LitIndex) lits(c *clause.C) []term.Lit {
	if x.selectedOnly {
		return c.Selected()
	}
	return c.Lits
}

// Add indexes the literals of c.
func (x *LitIndex) Add(c *clause.C) {
	for _, l := range x.lits(c) {
		x.tree.Insert(Entry{L: l, Cls: c})
	}
}

// Remove drops the literals of c.
func (x *LitIndex) Remove(c *clause.C) {
	for _, l := range x.lits(c) {
		x.tree.Remove(l, c)
	}
}

// SubsumptionIndex wraps the clause code tree as an active-set observer.
type SubsumptionIndex struct {
	Code *CodeTree
}

// Add compiles and indexes c.
func (x *SubsumptionIndex) Add(c *clause.C) { x.Code.Insert(c) }

// Remove drops c.
func (x *SubsumptionIndex) Remove(c *clause.C) { x.Code.Remove(c) }
