// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/pkg/errors"

	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/term"
)

// evaluation folds ground interpreted arithmetic inside the clause: numeral
// subexpressions collapse and decidable interpreted comparisons drop or
// close literals.  Overflow abandons the attempt and keeps the clause; the
// overflow counter records it.
type evaluation struct {
	s *S
}

func (ev *evaluation) Name() string { return "evaluation" }

func (ev *evaluation) Attach(*S) {}

func (ev *evaluation) Detach() {}

func (ev *evaluation) Perform(c *clause.C) (FwAction, *clause.C) {
	s := ev.s
	b := s.B
	changed := false
	var lits []term.Lit
	for _, l := range c.Lits {
		val, known, err := b.EvalPred(l)
		if err != nil {
			if errors.Is(err, term.ErrOverflow) {
				s.St.ArithmeticOverflow++
				return FwKeep, nil
			}
			return FwKeep, nil
		}
		if known {
			if val {
				// a true literal makes the clause valid
				s.St.TautologiesDeleted++
				return FwDelete, nil
			}
			// a false literal drops out of the disjunction
			changed = true
			continue
		}
		nl, lchanged, err := ev.foldLit(l)
		if err != nil {
			if errors.Is(err, term.ErrOverflow) {
				s.St.ArithmeticOverflow++
				return FwKeep, nil
			}
			return FwKeep, nil
		}
		changed = changed || lchanged
		lits = append(lits, nl)
	}
	if !changed {
		return FwKeep, nil
	}
	res := clause.New(b, lits, c.Input, c.Color,
		clause.Inference{Rule: clause.Evaluation, Parents: []*clause.C{c}})
	res.Age = c.Age
	s.St.Evaluations++
	return FwReplace, res
}

// foldLit constant-folds the arguments of a literal.
func (ev *evaluation) foldLit(l term.Lit) (term.Lit, bool, error) {
	b := ev.s.B
	args := b.LitArgs(l)
	nargs := make([]term.Ref, len(args))
	changed := false
	for i, a := range args {
		na, ch, err := ev.fold(a)
		if err != nil {
			return l, false, err
		}
		nargs[i] = na
		changed = changed || ch
	}
	if !changed {
		return l, false, nil
	}
	var nl term.Lit
	if b.IsEq(l) {
		nl = b.Eq(b.LitPos(l), nargs[0], nargs[1], b.EqSort(l))
	} else {
		nl = b.Lit(b.LitPred(l), b.LitPos(l), nargs...)
	}
	return nl, true, nil
}

// fold evaluates maximal ground interpreted subterms bottom-up.
func (ev *evaluation) fold(t term.Ref) (term.Ref, bool, error) {
	b := ev.s.B
	if nt, ch, err := b.Eval(t); err != nil || ch {
		return nt, ch, err
	}
	if t.IsVar() {
		return t, false, nil
	}
	args := b.Args(t)
	if len(args) == 0 {
		return t, false, nil
	}
	nargs := make([]term.Ref, len(args))
	changed := false
	for i, a := range args {
		na, ch, err := ev.fold(a)
		if err != nil {
			return t, false, err
		}
		nargs[i] = na
		changed = changed || ch
	}
	if !changed {
		return t, false, nil
	}
	return b.App(b.Fun(t), nargs...), true, nil
}
