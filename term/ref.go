// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package term implements the perfect-sharing term store together with
// literals, substitutions, unification, matching, and the Knuth-Bendix
// simplification ordering.
//
// Terms are referenced by small integer handles (Ref).  A Ref either tags a
// variable inline or points at a shared application node in a Bank.  Two
// structurally equal terms always have the same Ref, so Ref equality is
// syntactic equality.
package term

// Ref is a term handle.  The zero Ref is RefNull.
//
// The low bit tags the kind: odd Refs are variables carried inline, even
// Refs point into the bank's node table.
type Ref uint32

// RefNull is the null term handle.
const RefNull Ref = 0

// MkVar returns the Ref of variable i.
func MkVar(i uint32) Ref { return Ref(i<<1 | 1) }

// IsVar reports whether t is a variable.
func (t Ref) IsVar() bool { return t&1 == 1 }

// VarIndex returns the index of a variable Ref.
func (t Ref) VarIndex() uint32 { return uint32(t) >> 1 }

func (t Ref) node() uint32 { return uint32(t) >> 1 }

func mkNode(i uint32) Ref { return Ref(i << 1) }

// Lit is a literal handle.  Positive and negative forms of the same atom are
// distinct shared records in the bank.  The zero Lit is LitNull.
type Lit uint32

// LitNull is the null literal handle.
const LitNull Lit = 0
