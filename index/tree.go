// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package index implements the term-indexing substructures of the prover:
// discrimination trees answering generalization, instance, and unification
// queries, compiled code trees for clause subsumption, and the ref-counted
// index manager that ties indices to the active clause set.
package index

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
)

// Entry is one indexed occurrence: a term (or literal) together with the
// literal and clause it occurs in.
type Entry struct {
	T   term.Ref
	L   term.Lit
	Cls *clause.C
}

// symbol codes of the flattened preorder string
const codeVar uint32 = 1

func funCode(f sym.Fun) uint32 { return 2 + uint32(f)<<1 }

func predCode(p sym.Pred, pos bool) uint32 {
	c := 2 + uint32(p)<<2
	if pos {
		c |= 1
	}
	return c
}

type node struct {
	kids    map[uint32]*node
	arity   map[uint32]int // arity of the code leading to each kid
	entries []Entry
}

func newNode() *node {
	return &node{kids: make(map[uint32]*node), arity: make(map[uint32]int)}
}

func (n *node) kid(code uint32, arity int) *node {
	k, ok := n.kids[code]
	if !ok {
		k = newNode()
		n.kids[code] = k
		n.arity[code] = arity
	}
	return k
}

// Tree is a discrimination tree keyed by term shape.  Variables are
// collapsed to a single code; candidates harvested at leaves are verified
// by real matching or unification, which also produces the answer
// substitution.
type Tree struct {
	b    *term.Bank
	root *node
	size int
}

// NewTree creates an empty term index over b.
func NewTree(b *term.Bank) *Tree {
	return &Tree{b: b, root: newNode()}
}

// Len returns the number of indexed entries.
func (x *Tree) Len() int { return x.size }

func (x *Tree) flatten(t term.Ref, dst []uint32) []uint32 {
	if t.IsVar() {
		return append(dst, codeVar)
	}
	dst = append(dst, funCode(x.b.Fun(t)))
	for _, a := range x.b.Args(t) {
		dst = x.flatten(a, dst)
	}
	return dst
}

func (x *Tree) codeArity(code uint32) int {
	if code == codeVar {
		return 0
	}
	return x.b.Sig.FunArity(sym.Fun((code - 2) >> 1))
}

// Insert indexes entry e under its term e.T.
func (x *Tree) Insert(e Entry) {
	codes := x.flatten(e.T, nil)
	n := x.root
	for _, c := range codes {
		n = n.kid(c, x.codeArity(c))
	}
	n.entries = append(n.entries, e)
	x.size++
}

// Remove drops every entry of clause c indexed under term t.
func (x *Tree) Remove(t term.Ref, c *clause.C) {
	codes := x.flatten(t, nil)
	n := x.root
	for _, code := range codes {
		k, ok := n.kids[code]
		if !ok {
			return
		}
		n = k
	}
	j := 0
	for _, e := range n.entries {
		if e.Cls == c && e.T == t {
			x.size--
			continue
		}
		n.entries[j] = e
		j++
	}
	n.entries = n.entries[:j]
}

// query modes
type mode uint8

const (
	modeGen mode = iota
	modeInst
	modeUnify
)

// qsym is one symbol of the flattened query.
type qsym struct {
	code uint32
	t    term.Ref // subterm rooted here
	end  int      // index just past this subterm in the flat string
}

func (x *Tree) flattenQuery(t term.Ref, dst []qsym) []qsym {
	at := len(dst)
	if t.IsVar() {
		dst = append(dst, qsym{code: codeVar, t: t})
		dst[at].end = len(dst)
		return dst
	}
	dst = append(dst, qsym{code: funCode(x.b.Fun(t)), t: t})
	for _, a := range x.b.Args(t) {
		dst = x.flattenQuery(a, dst)
	}
	dst[at].end = len(dst)
	return dst
}

// frame is one suspended position of a tree query.  A positive skip means
// the machine is consuming indexed symbols to pass over one indexed
// subterm before resuming at query position qi.
type frame struct {
	n    *node
	qi   int
	skip int
	ei   int // next entry to emit when the query string is exhausted
}

// Iter is a lazy tree query.  Each Next call advances an explicit state
// machine; dropping the iterator cancels the query.  An Iter must not
// outlive its index or the clauses it yields.
type Iter struct {
	x     *Tree
	q     []qsym
	mode  mode
	stack []frame
}

// Generalizations queries for indexed terms s with a substitution sigma such
// that s sigma equals the subject.
func (x *Tree) Generalizations(subject term.Ref) *Iter {
	return x.query(subject, modeGen)
}

// Instances queries for indexed terms s such that the query instantiates to
// s.
func (x *Tree) Instances(pattern term.Ref) *Iter {
	return x.query(pattern, modeInst)
}

// Unifications queries for indexed terms unifiable with t.
func (x *Tree) Unifications(t term.Ref) *Iter {
	return x.query(t, modeUnify)
}

func (x *Tree) query(t term.Ref, m mode) *Iter {
	it := &Iter{x: x, q: x.flattenQuery(t, nil), mode: m}
	it.stack = append(it.stack, frame{n: x.root})
	return it
}

// Next yields the next candidate entry together with the verified
// substitution, or ok false when the query is exhausted.  For
// generalization and instance queries the substitution binds the pattern
// side's variables (ResultBank for generalizations, ResultBank holding the
// query's variables for instances); for unification queries it is a proper
// MGU across banks.
func (it *Iter) Next() (Entry, *term.Subst, bool) {
	for len(it.stack) > 0 {
		f := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		if f.skip > 0 {
			for code, kid := range f.n.kids {
				it.stack = append(it.stack, frame{
					n: kid, qi: f.qi, skip: f.skip - 1 + f.n.arity[code],
				})
			}
			continue
		}
		if f.qi == len(it.q) {
			if f.ei < len(f.n.entries) {
				e := f.n.entries[f.ei]
				it.stack = append(it.stack, frame{n: f.n, qi: f.qi, ei: f.ei + 1})
				if s, ok := it.verify(e); ok {
					return e, s, true
				}
			}
			continue
		}

		q := it.q[f.qi]
		if q.code == codeVar {
			switch it.mode {
			case modeGen:
				// a subject variable is matched only by an indexed variable
				if kid, ok := f.n.kids[codeVar]; ok {
					it.stack = append(it.stack, frame{n: kid, qi: f.qi + 1})
				}
			default:
				// pattern variable: pass over one whole indexed subterm
				it.stack = append(it.stack, frame{n: f.n, qi: f.qi + 1, skip: 1})
			}
			continue
		}
		if kid, ok := f.n.kids[q.code]; ok {
			it.stack = append(it.stack, frame{n: kid, qi: f.qi + 1})
		}
		if it.mode == modeGen || it.mode == modeUnify {
			if kid, ok := f.n.kids[codeVar]; ok {
				// an indexed variable passes over the query subterm
				it.stack = append(it.stack, frame{n: kid, qi: q.end})
			}
		}
	}
	return Entry{}, nil, false
}

func (it *Iter) verify(e Entry) (*term.Subst, bool) {
	b := it.x.b
	subject := it.q[0].t
	switch it.mode {
	case modeGen:
		s := term.Match(b, e.T, subject)
		return s, s != nil
	case modeInst:
		s := term.Match(b, subject, e.T)
		return s, s != nil
	default:
		s := term.MGU(b, subject, term.QueryBank, e.T, term.ResultBank)
		return s, s != nil
	}
}
