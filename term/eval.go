// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package term

import (
	"math"

	"github.com/pkg/errors"

	"github.com/quill-prover/quill/sym"
)

// ErrOverflow reports that evaluating an interpreted constant expression
// overflowed the machine representation.  Inferences recover from it locally
// and abandon the conclusion.
var ErrOverflow = errors.New("term: arithmetic overflow")

// errNotGround is internal: the expression has an uninterpreted or
// non-ground part and is left alone.
var errNotGround = errors.New("term: not an interpreted ground expression")

// Eval evaluates a ground interpreted integer term to a numeral.  It
// returns the input unchanged (and false) when the term is not a ground
// integer expression, and ErrOverflow when constant folding overflows.
func (b *Bank) Eval(t Ref) (Ref, bool, error) {
	v, err := b.evalInt(t)
	if err == errNotGround {
		return t, false, nil
	}
	if err != nil {
		return t, false, err
	}
	n := b.Const(b.Sig.Numeral(v))
	if n == t {
		return t, false, nil
	}
	return n, true, nil
}

func (b *Bank) evalInt(t Ref) (int64, error) {
	if t.IsVar() {
		return 0, errNotGround
	}
	f := b.Fun(t)
	if v, ok := b.Sig.IsNumeral(f); ok {
		return v, nil
	}
	ip := b.Sig.FunInterp(f)
	args := b.Args(t)
	switch ip {
	case sym.IntUnaryMinus:
		a, err := b.evalInt(args[0])
		if err != nil {
			return 0, err
		}
		if a == math.MinInt64 {
			return 0, ErrOverflow
		}
		return -a, nil
	case sym.IntSucc:
		a, err := b.evalInt(args[0])
		if err != nil {
			return 0, err
		}
		if a == math.MaxInt64 {
			return 0, ErrOverflow
		}
		return a + 1, nil
	case sym.IntPlus, sym.IntMinus, sym.IntMultiply, sym.IntDivide, sym.IntModulo:
		a, err := b.evalInt(args[0])
		if err != nil {
			return 0, err
		}
		c, err := b.evalInt(args[1])
		if err != nil {
			return 0, err
		}
		return evalBin(ip, a, c)
	}
	return 0, errNotGround
}

func evalBin(ip sym.Interp, a, c int64) (int64, error) {
	switch ip {
	case sym.IntPlus:
		r := a + c
		if (r > a) != (c > 0) {
			return 0, ErrOverflow
		}
		return r, nil
	case sym.IntMinus:
		r := a - c
		if (r < a) != (c > 0) {
			return 0, ErrOverflow
		}
		return r, nil
	case sym.IntMultiply:
		if a == 0 || c == 0 {
			return 0, nil
		}
		r := a * c
		if r/c != a || (a == math.MinInt64 && c == -1) {
			return 0, ErrOverflow
		}
		return r, nil
	case sym.IntDivide:
		if c == 0 || (a == math.MinInt64 && c == -1) {
			return 0, ErrOverflow
		}
		return a / c, nil
	case sym.IntModulo:
		if c == 0 {
			return 0, ErrOverflow
		}
		return a % c, nil
	}
	return 0, errNotGround
}

// EvalPred evaluates a ground interpreted integer comparison literal.
// known reports whether the literal could be decided; val is its truth
// value taking polarity into account.
func (b *Bank) EvalPred(l Lit) (val, known bool, err error) {
	p := b.LitPred(l)
	ip := b.Sig.PredInterp(p)
	if ip == sym.InterpNone {
		return false, false, nil
	}
	args := b.LitArgs(l)
	a, e := b.evalInt(args[0])
	if e == errNotGround {
		return false, false, nil
	}
	if e != nil {
		return false, false, e
	}
	c, e := b.evalInt(args[1])
	if e == errNotGround {
		return false, false, nil
	}
	if e != nil {
		return false, false, e
	}
	var v bool
	switch ip {
	case sym.IntGreater:
		v = a > c
	case sym.IntGreaterEq:
		v = a >= c
	case sym.IntLess:
		v = a < c
	case sym.IntLessEq:
		v = a <= c
	default:
		return false, false, nil
	}
	if !b.LitPos(l) {
		v = !v
	}
	return v, true, nil
}
