// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

// NonVarIter enumerates the non-variable subterms of a literal in preorder.
// Right skips the subterms of the term last returned by Next, which callers
// use once a term has been tried: if a term was attempted, so were its
// subterms.
type NonVarIter struct {
	b     *Bank
	stack []Ref
	last  Ref
}

// NewNonVarIter creates an iterator over the non-variable subterms of l.
func NewNonVarIter(b *Bank, l Lit) *NonVarIter {
	it := &NonVarIter{b: b}
	args := b.LitArgs(l)
	for i := len(args) - 1; i >= 0; i-- {
		if !args[i].IsVar() {
			it.stack = append(it.stack, args[i])
		}
	}
	return it
}

// Next returns the next non-variable subterm, or RefNull when exhausted.
func (it *NonVarIter) Next() Ref {
	if it.last != RefNull {
		args := it.b.Args(it.last)
		for i := len(args) - 1; i >= 0; i-- {
			if !args[i].IsVar() {
				it.stack = append(it.stack, args[i])
			}
		}
		it.last = RefNull
	}
	n := len(it.stack)
	if n == 0 {
		return RefNull
	}
	t := it.stack[n-1]
	it.stack = it.stack[:n-1]
	it.last = t
	return t
}

// Right drops the subterms of the term last returned by Next.
func (it *NonVarIter) Right() { it.last = RefNull }
