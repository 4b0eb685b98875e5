// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package index

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/term"
)

// LitTree is a discrimination tree over whole literals.  The root code
// carries the predicate and polarity, so complementary retrieval queries
// simply flatten the negated query literal.
type LitTree struct {
	b    *term.Bank
	root *node
	size int
}

// NewLitTree creates an empty literal index over b.
func NewLitTree(b *term.Bank) *LitTree {
	return &LitTree{b: b, root: newNode()}
}

// Len returns the number of indexed entries.
func (x *LitTree) Len() int { return x.size }

func (x *LitTree) flatten(l term.Lit) []uint32 {
	b := x.b
	dst := []uint32{predCode(b.LitPred(l), b.LitPos(l))}
	tw := Tree{b: b}
	for _, a := range b.LitArgs(l) {
		dst = tw.flatten(a, dst)
	}
	return dst
}

// Insert indexes literal e.L of clause e.Cls.
func (x *LitTree) Insert(e Entry) {
	codes := x.flatten(e.L)
	tw := Tree{b: x.b}
	n := x.root
	for i, c := range codes {
		ar := 0
		if i > 0 {
			ar = tw.codeArity(c)
		}
		n = n.kid(c, ar)
	}
	n.entries = append(n.entries, e)
	x.size++
}

// Remove drops the entries of clause c indexed under literal l.
func (x *LitTree) Remove(l term.Lit, c *clause.C) {
	codes := x.flatten(l)
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
		if e.Cls == c && e.L == l {
			x.size--
			continue
		}
		n.entries[j] = e
		j++
	}
	n.entries = n.entries[:j]
}

// LitIter is a lazy literal query; see Iter.
type LitIter struct {
	x     *LitTree
	l     term.Lit
	q     []qsym
	mode  mode
	stack []frame
}

// Generalizations queries for indexed literals whose instance is the query
// literal.  Polarity must agree with l.
func (x *LitTree) Generalizations(l term.Lit) *LitIter {
	return x.query(l, modeGen)
}

// Instances queries for indexed literals that are instances of l.
func (x *LitTree) Instances(l term.Lit) *LitIter {
	return x.query(l, modeInst)
}

// Unifications queries for indexed literals whose atoms unify with l at the
// same polarity.
func (x *LitTree) Unifications(l term.Lit) *LitIter {
	return x.query(l, modeUnify)
}

// ComplementaryUnifications queries for indexed literals unifiable with the
// complement of l.
func (x *LitTree) ComplementaryUnifications(l term.Lit) *LitIter {
	return x.query(x.b.Neg(l), modeUnify)
}

func (x *LitTree) query(key term.Lit, m mode) *LitIter {
	b := x.b
	q := []qsym{{code: predCode(b.LitPred(key), b.LitPos(key))}}
	tw := Tree{b: b}
	for _, a := range b.LitArgs(key) {
		q = tw.flattenQuery(a, q)
	}
	q[0].end = len(q)
	it := &LitIter{x: x, l: key, q: q, mode: m}
	it.stack = append(it.stack, frame{n: x.root})
	return it
}

// Next yields the next entry with its verified substitution.  For
// generalizations the substitution binds the indexed literal's variables;
// for instances it binds the query's variables; for unifications it is an
// MGU with the query in QueryBank and the indexed literal in ResultBank.
func (it *LitIter) Next() (Entry, *term.Subst, bool) {
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
		if f.qi == 0 {
			// root: the predicate/polarity code must match exactly
			if kid, ok := f.n.kids[q.code]; ok {
				it.stack = append(it.stack, frame{n: kid, qi: 1})
			}
			continue
		}
		if q.code == codeVar {
			switch it.mode {
			case modeGen:
				if kid, ok := f.n.kids[codeVar]; ok {
					it.stack = append(it.stack, frame{n: kid, qi: f.qi + 1})
				}
			default:
				it.stack = append(it.stack, frame{n: f.n, qi: f.qi + 1, skip: 1})
			}
			continue
		}
		if kid, ok := f.n.kids[q.code]; ok {
			it.stack = append(it.stack, frame{n: kid, qi: f.qi + 1})
		}
		if it.mode == modeGen || it.mode == modeUnify {
			if kid, ok := f.n.kids[codeVar]; ok {
				it.stack = append(it.stack, frame{n: kid, qi: q.end})
			}
		}
	}
	return Entry{}, nil, false
}

func (it *LitIter) verify(e Entry) (*term.Subst, bool) {
	b := it.x.b
	switch it.mode {
	case modeGen:
		s := term.MatchLits(b, e.L, it.l)
		return s, s != nil
	case modeInst:
		s := term.MatchLits(b, it.l, e.L)
		return s, s != nil
	default:
		s := term.MGULits(b, it.l, term.QueryBank, e.L, term.ResultBank)
		return s, s != nil
	}
}
