// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

import "github.com/quill-prover/quill/sym"

// Ord is the result of an ordering comparison.
type Ord int8

const (
	OrdIncomparable Ord = iota
	OrdLess
	OrdGreater
	OrdEqual
)

func (o Ord) String() string {
	switch o {
	case OrdLess:
		return "LESS"
	case OrdGreater:
		return "GREATER"
	case OrdEqual:
		return "EQUAL"
	}
	return "INCOMPARABLE"
}

// Reverse returns the mirror comparison.
func (o Ord) Reverse() Ord {
	switch o {
	case OrdLess:
		return OrdGreater
	case OrdGreater:
		return OrdLess
	}
	return o
}

// KBO is a Knuth-Bendix simplification ordering instance: total on ground
// terms, stable under substitution, well founded.  Each saturation instance
// installs one KBO; distinct strategies may install distinct parameters.
//
// There are no zero-weight unary functions and constants weigh at least the
// variable weight, so the lexicographic case needs no special unary handling.
type KBO struct {
	bank *Bank

	varWt   int
	funWt   []int
	funPrec []int

	predPrec  []int
	predLevel []int

	// custom is set once any parameter deviates from the defaults; the
	// argument-order cache on shared literals then no longer applies,
	// since other orderings over the same bank rely on it
	custom bool
}

// NewKBO creates a KBO over b with all symbol weights 1 and precedence by
// creation order.  The signature must be frozen.
func NewKBO(b *Bank) *KBO {
	sig := b.Sig
	k := &KBO{
		bank:      b,
		varWt:     1,
		funWt:     make([]int, sig.NumFuns()),
		funPrec:   make([]int, sig.NumFuns()),
		predPrec:  make([]int, sig.NumPreds()),
		predLevel: make([]int, sig.NumPreds()),
	}
	for i := range k.funWt {
		k.funWt[i] = 1
		k.funPrec[i] = i
	}
	for i := range k.predPrec {
		k.predPrec[i] = i
	}
	return k
}

// SetFunWeight overrides the weight of f.  Weights must stay positive for
// all function symbols; the constructor's defaults already satisfy the
// admissibility conditions.
func (k *KBO) SetFunWeight(f sym.Fun, w int) {
	if w < 1 {
		panic("kbo: non-positive function weight")
	}
	k.funWt[f] = w
	k.custom = true
}

// SetFunPrec overrides the precedence of f.
func (k *KBO) SetFunPrec(f sym.Fun, p int) {
	k.funPrec[f] = p
	k.custom = true
}

// SetPredPrec overrides the precedence of p.
func (k *KBO) SetPredPrec(p sym.Pred, prec int) {
	k.predPrec[p] = prec
	k.custom = true
}

// SetPredLevel overrides the level of p.  Levels dominate precedences when
// comparing literals with distinct predicates.
func (k *KBO) SetPredLevel(p sym.Pred, lvl int) {
	k.predLevel[p] = lvl
	k.custom = true
}

// wtOf is the weight of f; symbols interned after the ordering was created
// (fresh numerals) get the default weight.
func (k *KBO) wtOf(f sym.Fun) int {
	if int(f) < len(k.funWt) {
		return k.funWt[f]
	}
	return 1
}

// precOf is the precedence of f; symbols interned after the ordering was
// created fall back to creation order.
func (k *KBO) precOf(f sym.Fun) int {
	if int(f) < len(k.funPrec) {
		return k.funPrec[f]
	}
	return int(f)
}

// Weight returns the KBO weight of t.
func (k *KBO) Weight(t Ref) int {
	if t.IsVar() {
		return k.varWt
	}
	w := k.wtOf(k.bank.Fun(t))
	for _, a := range k.bank.Args(t) {
		w += k.Weight(a)
	}
	return w
}

// varBalance accumulates variable occurrence counts of t into bal with the
// given sign.
func (k *KBO) varBalance(t Ref, sign int, bal map[Ref]int) {
	if t.IsVar() {
		bal[t] += sign
		return
	}
	for _, a := range k.bank.Args(t) {
		k.varBalance(a, sign, bal)
	}
}

func balanceSides(bal map[Ref]int) (pos, neg bool) {
	for _, c := range bal {
		if c > 0 {
			pos = true
		}
		if c < 0 {
			neg = true
		}
	}
	return
}

// Compare orders s against t.  On ground terms the result is never
// OrdIncomparable.
func (k *KBO) Compare(s, t Ref) Ord {
	if s == t {
		return OrdEqual
	}
	if s.IsVar() {
		if k.bank.Contains(t, s) {
			return OrdLess
		}
		return OrdIncomparable
	}
	if t.IsVar() {
		if k.bank.Contains(s, t) {
			return OrdGreater
		}
		return OrdIncomparable
	}
	bal := make(map[Ref]int)
	k.varBalance(s, 1, bal)
	k.varBalance(t, -1, bal)
	pos, neg := balanceSides(bal)
	ws, wt := k.Weight(s), k.Weight(t)
	if ws > wt {
		if !neg {
			return OrdGreater
		}
		return OrdIncomparable
	}
	if ws < wt {
		if !pos {
			return OrdLess
		}
		return OrdIncomparable
	}
	fs, ft := k.bank.Fun(s), k.bank.Fun(t)
	if fs != ft {
		if k.precOf(fs) > k.precOf(ft) {
			if !neg {
				return OrdGreater
			}
			return OrdIncomparable
		}
		if !pos {
			return OrdLess
		}
		return OrdIncomparable
	}
	// same root, equal weight: first differing argument decides, subject to
	// the variable balance condition
	sa, ta := k.bank.Args(s), k.bank.Args(t)
	for i := range sa {
		if sa[i] == ta[i] {
			continue
		}
		switch k.Compare(sa[i], ta[i]) {
		case OrdGreater:
			if !neg {
				return OrdGreater
			}
			return OrdIncomparable
		case OrdLess:
			if !pos {
				return OrdLess
			}
			return OrdIncomparable
		default:
			return OrdIncomparable
		}
	}
	return OrdEqual
}

// ArgOrder compares the two sides of an equality literal, caching the result
// on the literal node.
func (k *KBO) ArgOrder(l Lit) Ord {
	b := k.bank
	if k.custom {
		args := b.LitArgs(l)
		return k.Compare(args[0], args[1])
	}
	switch b.ArgOrderTag(l) {
	case ArgLess:
		return OrdLess
	case ArgGreater:
		return OrdGreater
	case ArgIncomparable:
		return OrdIncomparable
	}
	args := b.LitArgs(l)
	o := k.Compare(args[0], args[1])
	switch o {
	case OrdLess:
		b.SetArgOrderTag(l, ArgLess)
	case OrdGreater:
		b.SetArgOrderTag(l, ArgGreater)
	case OrdIncomparable:
		b.SetArgOrderTag(l, ArgIncomparable)
	}
	return o
}

// GreaterSide returns the maximal side of an equality literal and the other
// side.  ok is false when the sides are incomparable or equal.
func (k *KBO) GreaterSide(l Lit) (lhs, rhs Ref, ok bool) {
	args := k.bank.LitArgs(l)
	switch k.ArgOrder(l) {
	case OrdGreater:
		return args[0], args[1], true
	case OrdLess:
		return args[1], args[0], true
	}
	return RefNull, RefNull, false
}

// CompareLits orders two literals.  Literals with distinct predicates are
// ordered by predicate level, then precedence; literals over the same
// predicate compare by a weight-then-lexicographic extension of the term
// ordering, with the negative polarity greater on equal atoms.
func (k *KBO) CompareLits(l, m Lit) Ord {
	if l == m {
		return OrdEqual
	}
	b := k.bank
	pl, pm := b.LitPred(l), b.LitPred(m)
	if pl != pm {
		if k.predLevel[pl] != k.predLevel[pm] {
			if k.predLevel[pl] > k.predLevel[pm] {
				return OrdGreater
			}
			return OrdLess
		}
		if k.predPrec[pl] > k.predPrec[pm] {
			return OrdGreater
		}
		return OrdLess
	}
	bal := make(map[Ref]int)
	la, ma := b.LitArgs(l), b.LitArgs(m)
	wl, wm := 0, 0
	for _, a := range la {
		k.varBalance(a, 1, bal)
		wl += k.Weight(a)
	}
	for _, a := range ma {
		k.varBalance(a, -1, bal)
		wm += k.Weight(a)
	}
	pos, neg := balanceSides(bal)
	if wl > wm {
		if !neg {
			return OrdGreater
		}
		return OrdIncomparable
	}
	if wl < wm {
		if !pos {
			return OrdLess
		}
		return OrdIncomparable
	}
	for i := range la {
		if la[i] == ma[i] {
			continue
		}
		switch k.Compare(la[i], ma[i]) {
		case OrdGreater:
			if !neg {
				return OrdGreater
			}
			return OrdIncomparable
		case OrdLess:
			if !pos {
				return OrdLess
			}
			return OrdIncomparable
		default:
			return OrdIncomparable
		}
	}
	// same atom, different polarity: the negative literal is greater
	if b.LitPos(l) {
		return OrdLess
	}
	return OrdGreater
}
