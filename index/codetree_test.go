// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package index

import (
	"testing"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
)

func TestCodeTreeSubsumption(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	ct := NewCodeTree(b)
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	r := sig.Pred("r", 1)
	a := b.Const(sig.Fun("a", 0))
	v := b.Var(0)

	// p(X) | q(X)
	d := clause.New(b, []term.Lit{b.Lit(p, true, v), b.Lit(q, true, v)},
		clause.Axiom, clause.Transparent, clause.Inference{})
	ct.Insert(d)

	// subsumed: p(a) | q(a) | r(a)
	query := []term.Lit{b.Lit(p, true, a), b.Lit(q, true, a), b.Lit(r, true, a)}
	res := ct.Retrieve(query, false)
	if len(res) != 1 || res[0].Cls != d || res[0].Resolved {
		t.Fatalf("expected a plain subsumption candidate, got %+v", res)
	}

	// not subsumed: the shared variable must map consistently
	c2 := b.Const(sig.Fun("c", 0))
	query = []term.Lit{b.Lit(p, true, a), b.Lit(q, true, c2)}
	if res := ct.Retrieve(query, false); len(res) != 0 {
		t.Errorf("inconsistent binding accepted: %+v", res)
	}
}

func TestCodeTreeSubsumptionResolution(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	ct := NewCodeTree(b)
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	a := b.Const(sig.Fun("a", 0))
	v := b.Var(0)

	// q(X) | ~p(X)
	d := clause.New(b, []term.Lit{b.Lit(q, true, v), b.Lit(p, false, v)},
		clause.Axiom, clause.Transparent, clause.Inference{})
	ct.Insert(d)

	// p(a) | q(a): ~p(X) resolves against p(a), q(X) subsumes q(a)
	query := []term.Lit{b.Lit(p, true, a), b.Lit(q, true, a)}
	res := ct.Retrieve(query, true)
	if len(res) != 1 {
		t.Fatalf("got %d candidates", len(res))
	}
	if !res[0].Resolved || res[0].ResolvedIndex != 0 {
		t.Errorf("expected resolution against query literal 0, got %+v", res[0])
	}

	// without subsumption resolution enabled nothing matches
	if res := ct.Retrieve(query, false); len(res) != 0 {
		t.Errorf("plain retrieval yielded %+v", res)
	}
}

func TestCodeTreeLengthFilter(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	ct := NewCodeTree(b)
	p := sig.Pred("p", 1)
	q := sig.Pred("q", 1)
	a := b.Const(sig.Fun("a", 0))
	v := b.Var(0)

	d := clause.New(b, []term.Lit{b.Lit(p, true, v), b.Lit(q, true, v)},
		clause.Axiom, clause.Transparent, clause.Inference{})
	ct.Insert(d)

	// a longer clause cannot subsume a shorter one
	if res := ct.Retrieve([]term.Lit{b.Lit(p, true, a)}, false); len(res) != 0 {
		t.Errorf("longer candidate subsumed a unit: %+v", res)
	}

	ct.Remove(d)
	if ct.Len() != 0 {
		t.Errorf("remove left %d programs", ct.Len())
	}
}
