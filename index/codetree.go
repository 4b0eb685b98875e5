// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package index

import (
	"sort"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/term"
)

// The clause code tree compiles every indexed clause into a sequence of
// matching instructions per literal: check-symbol, bind-variable,
// compare-variable.  A query clause is flattened once and run against the
// compiled programs, harvesting subsuming and subsumption-resolving
// candidates in a single pass.

type opKind uint8

const (
	opSym opKind = iota // the query symbol here must be exactly this code
	opBind              // bind slot to the query subterm and pass over it
	opCheck             // the query subterm here must equal the slot binding
)

type instr struct {
	kind opKind
	code uint32 // opSym
	slot int    // opBind, opCheck
}

// compiled form of one clause literal
type codeLit struct {
	pred  uint32 // predicate/polarity root code
	neg   uint32 // root code of the complementary polarity
	instr []instr
}

type prog struct {
	cls  *clause.C
	lits []codeLit
	vars int
}

// CodeTree indexes clauses for forward subsumption and subsumption
// resolution.
type CodeTree struct {
	b     *term.Bank
	progs map[*clause.C]*prog
}

// NewCodeTree creates an empty clause subsumption index.
func NewCodeTree(b *term.Bank) *CodeTree {
	return &CodeTree{b: b, progs: make(map[*clause.C]*prog)}
}

// Len returns the number of indexed clauses.
func (x *CodeTree) Len() int { return len(x.progs) }

// Insert compiles and indexes c.  Literals compile in decreasing size so
// the most discriminating ones run first.  Variable slots are shared across
// the program: a compare-variable instruction refers to a slot bound earlier
// in the same literal or by an earlier literal of the same program.
func (x *CodeTree) Insert(c *clause.C) {
	p := &prog{cls: c}
	ordered := make([]term.Lit, len(c.Lits))
	copy(ordered, c.Lits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return x.b.LitSize(ordered[i]) > x.b.LitSize(ordered[j])
	})
	slots := make(map[term.Ref]int)
	for _, l := range ordered {
		p.lits = append(p.lits, x.compileLit(l, slots))
	}
	p.vars = len(slots)
	x.progs[c] = p
}

// Remove drops c from the index.
func (x *CodeTree) Remove(c *clause.C) { delete(x.progs, c) }

func (x *CodeTree) compileLit(l term.Lit, slots map[term.Ref]int) codeLit {
	b := x.b
	cl := codeLit{
		pred: predCode(b.LitPred(l), b.LitPos(l)),
		neg:  predCode(b.LitPred(l), !b.LitPos(l)),
	}
	var comp func(t term.Ref)
	comp = func(t term.Ref) {
		if t.IsVar() {
			if s, ok := slots[t]; ok {
				cl.instr = append(cl.instr, instr{kind: opCheck, slot: s})
				return
			}
			s := len(slots)
			slots[t] = s
			cl.instr = append(cl.instr, instr{kind: opBind, slot: s})
			return
		}
		cl.instr = append(cl.instr, instr{kind: opSym, code: funCode(b.Fun(t))})
		for _, a := range b.Args(t) {
			comp(a)
		}
	}
	for _, a := range b.LitArgs(l) {
		comp(a)
	}
	return cl
}

// SRes is one harvested candidate.  Resolved is true for a
// subsumption-resolution candidate, in which case ResolvedIndex is the index
// of the query literal that resolves away.
type SRes struct {
	Cls           *clause.C
	Resolved      bool
	ResolvedIndex int
}

// flattened query literal
type queryLit struct {
	root uint32
	q    []qsym
}

// run state for one program
type runState struct {
	bind []term.Ref
	used []bool
}

// Retrieve runs the query clause against the code tree and returns the
// subsuming candidates, and, when withSRes is set, the
// subsumption-resolving candidates.  The caller deduplicates clauses with
// the aux mark.
func (x *CodeTree) Retrieve(lits []term.Lit, withSRes bool) []SRes {
	if len(lits) == 0 {
		return nil
	}
	qls := make([]queryLit, len(lits))
	tw := Tree{b: x.b}
	for i, l := range lits {
		var q []qsym
		for _, a := range x.b.LitArgs(l) {
			q = tw.flattenQuery(a, q)
		}
		qls[i] = queryLit{root: predCode(x.b.LitPred(l), x.b.LitPos(l)), q: q}
	}

	var out []SRes
	for _, p := range x.progs {
		if len(p.lits) > len(lits) {
			continue
		}
		st := &runState{bind: make([]term.Ref, p.vars), used: make([]bool, len(lits))}
		if x.matchFrom(p, 0, st, qls, -1) {
			out = append(out, SRes{Cls: p.cls})
			continue
		}
		if !withSRes {
			continue
		}
		// allow exactly one complementary match: the resolved query literal
		for ri := range lits {
			st = &runState{bind: make([]term.Ref, p.vars), used: make([]bool, len(lits))}
			if x.matchFrom(p, 0, st, qls, ri) {
				out = append(out, SRes{Cls: p.cls, Resolved: true, ResolvedIndex: ri})
				break
			}
		}
	}
	return out
}

// matchFrom assigns program literal pi onwards to distinct query literals.
// When resolved is non-negative, program literals may additionally match the
// complement of query literal resolved; at least one must, which is checked
// by the polarity roots.
func (x *CodeTree) matchFrom(p *prog, pi int, st *runState, qls []queryLit, resolved int) bool {
	if pi == len(p.lits) {
		if resolved < 0 {
			return true
		}
		// the resolved literal must actually have been consumed
		return st.used[resolved]
	}
	pl := &p.lits[pi]
	for qi := range qls {
		if st.used[qi] {
			continue
		}
		if qls[qi].root != pl.pred && !(resolved == qi && pl.neg == qls[qi].root) {
			continue
		}
		trail, ok := x.runLit(pl, qls[qi].q, st)
		if !ok {
			continue
		}
		st.used[qi] = true
		if x.matchFrom(p, pi+1, st, qls, resolved) {
			return true
		}
		st.used[qi] = false
		for _, s := range trail {
			st.bind[s] = term.RefNull
		}
	}
	return false
}

// runLit executes a compiled literal against a flattened query literal.  It
// returns the slots bound during the run.  On failure all bindings made by
// the run are already undone.
func (x *CodeTree) runLit(pl *codeLit, q []qsym, st *runState) ([]int, bool) {
	pos := 0
	var trail []int
	fail := func() ([]int, bool) {
		for _, s := range trail {
			st.bind[s] = term.RefNull
		}
		return nil, false
	}
	for _, in := range pl.instr {
		if pos >= len(q) {
			return fail()
		}
		switch in.kind {
		case opSym:
			if q[pos].code != in.code {
				return fail()
			}
			pos++
		case opBind:
			if st.bind[in.slot] != term.RefNull {
				// slot bound by an earlier literal of the same program
				if st.bind[in.slot] != q[pos].t {
					return fail()
				}
				pos = q[pos].end
				continue
			}
			st.bind[in.slot] = q[pos].t
			trail = append(trail, in.slot)
			pos = q[pos].end
		case opCheck:
			if st.bind[in.slot] == term.RefNull || st.bind[in.slot] != q[pos].t {
				return fail()
			}
			pos = q[pos].end
		}
	}
	if pos != len(q) {
		return fail()
	}
	return trail, true
}
