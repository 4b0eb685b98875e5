// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

// MGU computes the most general unifier of s (variables in sbank) and t
// (variables in tbank) using Robinson unification with the occurs check.
// It returns nil if the terms do not unify.
func MGU(b *Bank, s Ref, sbank BankID, t Ref, tbank BankID) *Subst {
	u := &Subst{bank: b, m: make(map[uint64]BRef), rename: true}
	if !u.unify(s, sbank, t, tbank) {
		return nil
	}
	return u
}

// MGULits unifies the atoms of two literals.  Polarity is not considered;
// the predicates must agree.
func MGULits(b *Bank, l Lit, lbank BankID, m Lit, mbank BankID) *Subst {
	if b.LitPred(l) != b.LitPred(m) {
		return nil
	}
	if b.IsEq(l) && b.EqSort(l) != b.EqSort(m) {
		return nil
	}
	u := &Subst{bank: b, m: make(map[uint64]BRef), rename: true}
	la, ma := b.LitArgs(l), b.LitArgs(m)
	for i := range la {
		if !u.unify(la[i], lbank, ma[i], mbank) {
			return nil
		}
	}
	return u
}

// AreUnifiable reports whether s and t unify across banks.
func AreUnifiable(b *Bank, s Ref, sbank BankID, t Ref, tbank BankID) bool {
	return MGU(b, s, sbank, t, tbank) != nil
}

func (u *Subst) unify(s Ref, sbank BankID, t Ref, tbank BankID) bool {
	s, sbank = u.deref(s, sbank)
	t, tbank = u.deref(t, tbank)
	if s == t && sbank == tbank {
		return true
	}
	if s.IsVar() {
		if u.occurs(s, sbank, t, tbank) {
			return false
		}
		u.bind(s, sbank, t, tbank)
		return true
	}
	if t.IsVar() {
		if u.occurs(t, tbank, s, sbank) {
			return false
		}
		u.bind(t, tbank, s, sbank)
		return true
	}
	b := u.bank
	if b.Fun(s) != b.Fun(t) {
		return false
	}
	sa, ta := b.Args(s), b.Args(t)
	for i := range sa {
		if !u.unify(sa[i], sbank, ta[i], tbank) {
			return false
		}
	}
	return true
}

// occurs reports whether variable v of vbank occurs in t of tbank under the
// current bindings.
func (u *Subst) occurs(v Ref, vbank BankID, t Ref, tbank BankID) bool {
	t, tbank = u.deref(t, tbank)
	if t.IsVar() {
		return t == v && tbank == vbank
	}
	for _, a := range u.bank.Args(t) {
		if u.occurs(v, vbank, a, tbank) {
			return true
		}
	}
	return false
}

// Match computes a substitution binding only the variables of pattern such
// that pattern, instantiated, equals subject.  Subject variables are treated
// as constants.  It returns nil if no such substitution exists.
//
// The pattern's variables live in ResultBank and the subject is taken
// verbatim, so applying the result to a term whose variables all occur in
// the pattern yields a proper instance.
func Match(b *Bank, pattern, subject Ref) *Subst {
	s := NewSubst(b)
	if !s.match(pattern, subject) {
		return nil
	}
	return s
}

// MatchLits matches the atom of pattern literal l onto subject literal m.
// Polarity is ignored; sorts of equalities must agree.
func MatchLits(b *Bank, l, m Lit) *Subst {
	s := NewSubst(b)
	if !s.MatchLitInto(l, m) {
		return nil
	}
	return s
}

// MatchLitInto extends the substitution so that pattern literal l matches
// subject literal m, or reports failure leaving s in an undefined state.
func (s *Subst) MatchLitInto(l, m Lit) bool {
	b := s.bank
	if b.LitPred(l) != b.LitPred(m) {
		return false
	}
	if b.IsEq(l) && b.EqSort(l) != b.EqSort(m) {
		return false
	}
	la, ma := b.LitArgs(l), b.LitArgs(m)
	for i := range la {
		if !s.match(la[i], ma[i]) {
			return false
		}
	}
	return true
}

// MatchInto extends the substitution so that pattern matches subject.
func (s *Subst) MatchInto(pattern, subject Ref) bool {
	return s.match(pattern, subject)
}

func (s *Subst) match(pattern, subject Ref) bool {
	if pattern.IsVar() {
		if r, ok := s.m[bkey(pattern, ResultBank)]; ok {
			return r.T == subject
		}
		s.bind(pattern, ResultBank, subject, QueryBank)
		return true
	}
	if subject.IsVar() {
		return false
	}
	b := s.bank
	if b.Fun(pattern) != b.Fun(subject) {
		return false
	}
	pa, sa := b.Args(pattern), b.Args(subject)
	for i := range pa {
		if !s.match(pa[i], sa[i]) {
			return false
		}
	}
	return true
}

// ApplyMatched applies a matching substitution to a term whose variables
// live on the pattern side.  Unbound pattern variables are returned
// unchanged.
func (s *Subst) ApplyMatched(t Ref) Ref { return s.Apply(t, ResultBank) }

// Snapshot returns a copy of the current bindings, used by backtracking
// multi-literal matching to restore state.
func (s *Subst) Snapshot() map[uint64]BRef {
	cp := make(map[uint64]BRef, len(s.m))
	for k, v := range s.m {
		cp[k] = v
	}
	return cp
}

// Restore resets the bindings to a snapshot.
func (s *Subst) Restore(snap map[uint64]BRef) {
	s.m = snap
}
