// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

// BankID distinguishes the two variable banks used during unification, so
// that a clause can be unified or matched against itself without an explicit
// renaming pass.
type BankID uint8

const (
	// QueryBank holds the variables of the query side.
	QueryBank BankID = 0
	// ResultBank holds the variables of the indexed (result) side.
	ResultBank BankID = 1
)

// BRef is a term handle together with the bank its variables live in.
type BRef struct {
	T    Ref
	Bank BankID
}

func bkey(v Ref, bank BankID) uint64 {
	return uint64(v.VarIndex())<<1 | uint64(bank)
}

// Subst is a mapping from (variable, bank) pairs to terms in either bank.
// The zero value is not usable; construct with NewSubst.
type Subst struct {
	bank *Bank
	m    map[uint64]BRef
	// rename controls what happens to unbound variables on application:
	// substitutions produced by unification rename them apart by bank,
	// substitutions produced by matching leave them unchanged.
	rename bool
}

// NewSubst creates an empty matching substitution over b.  Applying it to
// any term returns the same handle.
func NewSubst(b *Bank) *Subst {
	return &Subst{bank: b, m: make(map[uint64]BRef)}
}

// Len returns the number of bound variables.
func (s *Subst) Len() int { return len(s.m) }

// Lookup returns the binding of variable v in bank, if any.
func (s *Subst) Lookup(v Ref, bank BankID) (BRef, bool) {
	r, ok := s.m[bkey(v, bank)]
	return r, ok
}

func (s *Subst) bind(v Ref, bank BankID, t Ref, tbank BankID) {
	s.m[bkey(v, bank)] = BRef{T: t, Bank: tbank}
}

// deref follows variable bindings until a non-variable term or an unbound
// variable is reached.
func (s *Subst) deref(t Ref, bank BankID) (Ref, BankID) {
	for t.IsVar() {
		r, ok := s.m[bkey(t, bank)]
		if !ok {
			return t, bank
		}
		t, bank = r.T, r.Bank
	}
	return t, bank
}

// outVar is the output renaming of an unbound variable.  Variables from the
// two banks map to disjoint output variables; conclusions are normalized by
// Renumber afterwards.
func outVar(v Ref, bank BankID) Ref {
	return MkVar(v.VarIndex()<<1 | uint32(bank))
}

// Apply applies the substitution to t, whose variables live in bank, and
// returns the rebuilt shared term.  An unbound variable is returned
// unchanged for matching substitutions and renamed apart by bank for
// unifying substitutions.
func (s *Subst) Apply(t Ref, bank BankID) Ref {
	t, bank = s.deref(t, bank)
	if t.IsVar() {
		if s.rename {
			return outVar(t, bank)
		}
		return t
	}
	b := s.bank
	args := b.Args(t)
	if len(args) == 0 {
		return t
	}
	nargs := make([]Ref, len(args))
	changed := false
	for i, a := range args {
		na := s.Apply(a, bank)
		nargs[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed && !s.rename {
		return t
	}
	return b.App(b.Fun(t), nargs...)
}

// ApplyLit applies the substitution to literal l with variables in bank.
func (s *Subst) ApplyLit(l Lit, bank BankID) Lit {
	b := s.bank
	args := b.LitArgs(l)
	nargs := make([]Ref, len(args))
	changed := false
	for i, a := range args {
		na := s.Apply(a, bank)
		nargs[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed && !s.rename {
		return l
	}
	return b.lit(b.LitPred(l), b.LitPos(l), b.EqSort(l), nargs)
}

// Renumber maps the variables of the given literals onto 0..n-1 in order of
// first occurrence and returns the renumbered literals.  Generated
// conclusions are renumbered so that the bank-renaming encoding used by
// Apply never escapes an inference.
func Renumber(b *Bank, lits []Lit) []Lit {
	seen := make(map[Ref]Ref)
	var next uint32
	var ren func(t Ref) Ref
	ren = func(t Ref) Ref {
		if t.IsVar() {
			if r, ok := seen[t]; ok {
				return r
			}
			r := MkVar(next)
			next++
			seen[t] = r
			return r
		}
		args := b.Args(t)
		if len(args) == 0 {
			return t
		}
		nargs := make([]Ref, len(args))
		for i, a := range args {
			nargs[i] = ren(a)
		}
		return b.App(b.Fun(t), nargs...)
	}
	out := make([]Lit, len(lits))
	for i, l := range lits {
		args := b.LitArgs(l)
		nargs := make([]Ref, len(args))
		for j, a := range args {
			nargs[j] = ren(a)
		}
		out[i] = b.lit(b.LitPred(l), b.LitPos(l), b.EqSort(l), nargs)
	}
	return out
}
