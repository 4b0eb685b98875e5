// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sym implements the signature of a problem: the tables of function
// and predicate symbols, their sorts, and the registry of interpreted
// symbols.  Tables are append-only during preprocessing and frozen before
// saturation starts.
package sym

import "fmt"

// Fun indexes a function symbol in a Table.
type Fun uint32

// Pred indexes a predicate symbol in a Table.
type Pred uint32

// Sort indexes a sort in a Table.
type Sort uint32

// PredEq is the distinguished equality predicate present in every Table.
const PredEq Pred = 0

// Builtin sorts present in every Table.
const (
	SortIota Sort = iota // default individual sort
	SortInt
	SortBool
	SortBitVec
	SortArray
)

// Interp identifies an interpreted symbol.  The operator set is the superset
// table including the bit-vector symbols.
type Interp uint32

const (
	InterpNone Interp = iota

	// integer arithmetic
	IntPlus
	IntMinus
	IntUnaryMinus
	IntMultiply
	IntDivide
	IntModulo
	IntGreater
	IntGreaterEq
	IntLess
	IntLessEq
	IntSucc

	// arrays
	ArraySelect
	ArrayStore

	// bit vectors
	BVAnd
	BVOr
	BVXor
	BVNot
	BVNeg
	BVAdd
	BVSub
	BVMul
	BVShl
	BVLshr
	BVUlt
	BVUle
	BVConcat
	BVExtract
)

type funSym struct {
	name    string
	arity   int
	rng     Sort
	interp  Interp
	numeral bool
	value   int64
}

type predSym struct {
	name   string
	arity  int
	interp Interp
}

// Table is the signature of one problem.  A Table is shared by the term bank
// and every saturation instance working on the problem.
type Table struct {
	funs   []funSym
	preds  []predSym
	sorts  []string
	byFun  map[string]Fun
	byPred map[string]Pred
	frozen bool
}

// NewTable creates a Table containing only the builtin sorts and the
// equality predicate.
func NewTable() *Table {
	t := &Table{
		byFun:  make(map[string]Fun),
		byPred: make(map[string]Pred),
		sorts:  []string{"$i", "$int", "$o", "$bv", "$array"},
	}
	t.preds = append(t.preds, predSym{name: "=", arity: 2})
	t.byPred["=/2"] = PredEq
	return t
}

// Fun returns the index of the function symbol name/arity, creating it if
// needed.  Fun panics if the table is frozen and the symbol is new.
func (t *Table) Fun(name string, arity int) Fun {
	key := fmt.Sprintf("%s/%d", name, arity)
	if f, ok := t.byFun[key]; ok {
		return f
	}
	if t.frozen {
		panic("sym: new function symbol after freeze: " + key)
	}
	f := Fun(len(t.funs))
	t.funs = append(t.funs, funSym{name: name, arity: arity, rng: SortIota})
	t.byFun[key] = f
	return f
}

// Pred returns the index of the predicate symbol name/arity, creating it if
// needed.  Pred panics if the table is frozen and the symbol is new.
func (t *Table) Pred(name string, arity int) Pred {
	key := fmt.Sprintf("%s/%d", name, arity)
	if p, ok := t.byPred[key]; ok {
		return p
	}
	if t.frozen {
		panic("sym: new predicate symbol after freeze: " + key)
	}
	p := Pred(len(t.preds))
	t.preds = append(t.preds, predSym{name: name, arity: arity})
	t.byPred[key] = p
	return p
}

// Numeral interns an integer constant as a function symbol of arity 0.
// Numerals may be interned even after Freeze: constant folding during
// saturation produces fresh ones.
func (t *Table) Numeral(v int64) Fun {
	key := fmt.Sprintf("%d/0", v)
	if f, ok := t.byFun[key]; ok {
		return f
	}
	f := Fun(len(t.funs))
	t.funs = append(t.funs, funSym{
		name: fmt.Sprintf("%d", v), arity: 0, rng: SortInt,
		numeral: true, value: v,
	})
	t.byFun[key] = f
	return f
}

// SetInterp marks a function symbol as interpreted.
func (t *Table) SetInterp(f Fun, ip Interp) { t.funs[f].interp = ip }

// SetPredInterp marks a predicate symbol as interpreted.
func (t *Table) SetPredInterp(p Pred, ip Interp) { t.preds[p].interp = ip }

// SetRange sets the range sort of a function symbol.
func (t *Table) SetRange(f Fun, s Sort) { t.funs[f].rng = s }

// Freeze forbids further symbol creation.  Saturation requires a frozen
// table.
func (t *Table) Freeze() { t.frozen = true }

// Frozen reports whether the table is frozen.
func (t *Table) Frozen() bool { return t.frozen }

// FunName returns the name of f.
func (t *Table) FunName(f Fun) string { return t.funs[f].name }

// FunArity returns the arity of f.
func (t *Table) FunArity(f Fun) int { return t.funs[f].arity }

// FunInterp returns the interpretation of f, or InterpNone.
func (t *Table) FunInterp(f Fun) Interp { return t.funs[f].interp }

// FunRange returns the range sort of f.
func (t *Table) FunRange(f Fun) Sort { return t.funs[f].rng }

// IsNumeral reports whether f is an integer numeral, and its value.
func (t *Table) IsNumeral(f Fun) (int64, bool) {
	s := &t.funs[f]
	return s.value, s.numeral
}

// PredName returns the name of p.
func (t *Table) PredName(p Pred) string { return t.preds[p].name }

// PredArity returns the arity of p.
func (t *Table) PredArity(p Pred) int { return t.preds[p].arity }

// PredInterp returns the interpretation of p, or InterpNone.
func (t *Table) PredInterp(p Pred) Interp { return t.preds[p].interp }

// NumFuns returns the number of function symbols.
func (t *Table) NumFuns() int { return len(t.funs) }

// NumPreds returns the number of predicate symbols.
func (t *Table) NumPreds() int { return len(t.preds) }

// SortName returns the name of s.
func (t *Table) SortName(s Sort) string { return t.sorts[int(s)] }
