// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package clause implements clauses: ordered literal buffers interpreted as
// multisets, together with derivation records, colors, and store classes.
package clause

import (
	"fmt"
	"strings"

	"github.com/quill-prover/quill/term"
)

// InputType classifies where a clause ultimately comes from.  Conclusions
// take the maximum of their parents' input types.
type InputType uint8

const (
	Axiom InputType = iota
	Conjecture
	NegatedConjecture
)

// Color tags clauses for symbol-disjoint derivations.  Combining Left with
// Right yields ColorInvalid and blocks the inference.
type Color uint8

const (
	Transparent Color = iota
	Left
	Right
	ColorInvalid
)

// Combine is the join in the color semilattice.
func Combine(a, b Color) Color {
	if a == Transparent {
		return b
	}
	if b == Transparent || a == b {
		return a
	}
	return ColorInvalid
}

func (c Color) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	case Transparent:
		return "transparent"
	}
	return "invalid"
}

// Store is the clause store class.
type Store uint8

const (
	None Store = iota
	Unprocessed
	Passive
	Active
	Reactivated
)

// Rule tags the inference that produced a clause.
type Rule uint8

const (
	Input Rule = iota
	Preprocess
	Resolution
	Factoring
	Superposition
	ForwardDemodulation
	BackwardDemodulation
	InnerRewriting
	SubsumptionResolution
	Evaluation
)

func (r Rule) String() string {
	switch r {
	case Input:
		return "input"
	case Preprocess:
		return "preprocessing"
	case Resolution:
		return "resolution"
	case Factoring:
		return "factoring"
	case Superposition:
		return "superposition"
	case ForwardDemodulation:
		return "forward demodulation"
	case BackwardDemodulation:
		return "backward demodulation"
	case InnerRewriting:
		return "inner rewriting"
	case SubsumptionResolution:
		return "subsumption resolution"
	case Evaluation:
		return "evaluation"
	}
	return "unknown"
}

// Inference records how a clause was derived.  Parent pointers keep the
// derivation DAG alive for proof reconstruction: a clause holds its parents,
// so every ancestor of a live clause is live.
type Inference struct {
	Rule    Rule
	Parents []*C
}

// C is a clause: a buffer of literals read as a disjunction, plus
// saturation bookkeeping.
type C struct {
	Lits []term.Lit

	Age   uint32
	Wt    uint32
	Num   uint32
	Input InputType
	Color Color
	Store Store
	Inf   Inference

	// Sel is the number of selected literals; Lits[:Sel] are selected.
	// Zero before activation.
	Sel int

	aux uint32
}

// New creates a clause over bank b with the given literals and derivation.
// The weight is the sum of literal sizes; the age of a derived clause is
// 1 + the maximum parent age.
func New(b *term.Bank, lits []term.Lit, inp InputType, col Color, inf Inference) *C {
	c := &C{Lits: lits, Input: inp, Color: col, Inf: inf}
	for _, l := range lits {
		c.Wt += uint32(b.LitSize(l))
	}
	for _, p := range inf.Parents {
		if p.Age >= c.Age {
			c.Age = p.Age + 1
		}
		if p.Input > c.Input {
			c.Input = p.Input
		}
	}
	return c
}

// Derived builds the conclusion of an inference from its parents, combining
// colors and input types.  It returns nil when the parents' colors combine
// to ColorInvalid.
func Derived(b *term.Bank, lits []term.Lit, rule Rule, parents ...*C) *C {
	col := Transparent
	for _, p := range parents {
		col = Combine(col, p.Color)
	}
	if col == ColorInvalid {
		return nil
	}
	return New(b, lits, Axiom, col, Inference{Rule: rule, Parents: parents})
}

// Empty reports whether c is the empty clause.
func (c *C) Empty() bool { return len(c.Lits) == 0 }

// Len returns the number of literals.
func (c *C) Len() int { return len(c.Lits) }

// Selected returns the selected literals.  Before activation all literals
// count as selected.
func (c *C) Selected() []term.Lit {
	if c.Sel == 0 {
		return c.Lits
	}
	return c.Lits[:c.Sel]
}

// IsTautology reports whether c contains an equational tautology or a
// complementary literal pair.
func (c *C) IsTautology(b *term.Bank) bool {
	for i, l := range c.Lits {
		if b.IsEqTautology(l) {
			return true
		}
		for _, m := range c.Lits[i+1:] {
			if b.Neg(l) == m {
				return true
			}
		}
	}
	return false
}

// Trim removes duplicate literals in place, shortening c.Lits.  Duplicates
// are sound to drop since a clause is a disjunction.
func (c *C) Trim() {
	seen := make(map[term.Lit]bool, len(c.Lits))
	j := 0
	for _, l := range c.Lits {
		if seen[l] {
			continue
		}
		seen[l] = true
		c.Lits[j] = l
		j++
	}
	c.Lits = c.Lits[:j]
}

// String renders the clause with its number, age and derivation rule.
func (c *C) String(b *term.Bank) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. ", c.Num)
	if len(c.Lits) == 0 {
		sb.WriteString("$false")
	}
	for i, l := range c.Lits {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(b.LitString(l))
	}
	fmt.Fprintf(&sb, " [%s", c.Inf.Rule)
	for i, p := range c.Inf.Parents {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", p.Num)
	}
	sb.WriteString("]")
	return sb.String()
}

// Ancestors walks the derivation DAG rooted at c in topological order,
// calling f once per clause, parents before children.
func (c *C) Ancestors(f func(*C)) {
	seen := make(map[*C]bool)
	var walk func(*C)
	walk = func(d *C) {
		if seen[d] {
			return
		}
		seen[d] = true
		for _, p := range d.Inf.Parents {
			walk(p)
		}
		f(d)
	}
	walk(c)
}
