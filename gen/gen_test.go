// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"testing"

	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
)

func TestChainShape(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	us := Chain(b, 5)
	if len(us) != 7 {
		t.Errorf("chain of 5 has %d units, want 7", len(us))
	}
	for _, u := range us[1 : len(us)-1] {
		if len(u.Lits) != 2 {
			t.Errorf("step unit %s has %d literals", u.Name, len(u.Lits))
		}
	}
}

func TestCollapseShape(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	us := Collapse(b, 2)
	if len(us) != 3 {
		t.Fatalf("%d units, want 3", len(us))
	}
	if !b.IsEq(us[0].Lits[0]) {
		t.Errorf("first unit is not the collapsing equality")
	}
	goal := us[2].Lits[0]
	if b.LitSize(goal) != 4 {
		t.Errorf("goal size %d, want f(f(a)) under P", b.LitSize(goal))
	}
}

func TestRandCnfDeterministic(t *testing.T) {
	sig1 := sym.NewTable()
	b1 := term.NewBank(sig1)
	Seed(7)
	us1 := RandCnf(b1, 3, 2, 10, 3)

	sig2 := sym.NewTable()
	b2 := term.NewBank(sig2)
	Seed(7)
	us2 := RandCnf(b2, 3, 2, 10, 3)

	if len(us1) != 10 || len(us2) != 10 {
		t.Fatalf("wrong clause counts %d %d", len(us1), len(us2))
	}
	for i := range us1 {
		if len(us1[i].Lits) != len(us2[i].Lits) {
			t.Fatalf("seeded runs diverge at clause %d", i)
		}
		for j := range us1[i].Lits {
			if b1.LitString(us1[i].Lits[j]) != b2.LitString(us2[i].Lits[j]) {
				t.Errorf("seeded runs diverge at clause %d literal %d", i, j)
			}
		}
	}
}
