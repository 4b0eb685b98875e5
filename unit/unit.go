// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package unit defines the input units handed to the saturation core by the
// clausifier, which is an external collaborator.  The core consumes
// already-clausified unit lists; this package also provides a minimal
// line-oriented reader for such lists, deliberately not a TPTP or SMT-LIB
// front end.
package unit

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/term"
)

// U is one input unit: an identified clause with its input type and color.
type U struct {
	Name  string
	Lits  []term.Lit
	Input clause.InputType
	Color clause.Color
}

// Clause converts the unit into a clause over b.
func (u U) Clause(b *term.Bank) *clause.C {
	lits := make([]term.Lit, len(u.Lits))
	copy(lits, u.Lits)
	c := clause.New(b, lits, u.Input, u.Color, clause.Inference{Rule: clause.Input})
	return c
}
