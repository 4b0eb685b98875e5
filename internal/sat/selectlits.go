// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/quill-prover/quill/clause"
	"github.com/quill-prover/quill/term"
)

// selectLits marks the selected literals of c according to the configured
// selection function, reordering Lits so the selected ones come first and
// setting Sel.  Selection happens once, when the clause is activated.
func (s *S) selectLits(c *clause.C) {
	if len(c.Lits) == 0 {
		return
	}
	switch s.Opts.Selection {
	case SelectNegative:
		if i := s.heaviestNegative(c); i >= 0 {
			c.Lits[0], c.Lits[i] = c.Lits[i], c.Lits[0]
			c.Sel = 1
			return
		}
	}
	s.selectMaximal(c)
}

// heaviestNegative returns the index of the heaviest negative literal, or
// -1 when the clause is all positive.
func (s *S) heaviestNegative(c *clause.C) int {
	best, bestSz := -1, -1
	for i, l := range c.Lits {
		if s.B.LitPos(l) {
			continue
		}
		if sz := s.B.LitSize(l); sz > bestSz {
			best, bestSz = i, sz
		}
	}
	return best
}

// selectMaximal moves the maximal literals to the front.  A literal is
// maximal when no other literal of the clause is greater.
func (s *S) selectMaximal(c *clause.C) {
	n := len(c.Lits)
	maximal := func(i int) bool {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if s.Ord.CompareLits(c.Lits[j], c.Lits[i]) == term.OrdGreater {
				return false
			}
		}
		return true
	}
	isMax := make([]bool, n)
	k := 0
	for i := 0; i < n; i++ {
		if maximal(i) {
			isMax[i] = true
			k++
		}
	}
	if k == 0 || k == n {
		c.Sel = n
		return
	}
	ordered := make([]term.Lit, 0, n)
	for i, l := range c.Lits {
		if isMax[i] {
			ordered = append(ordered, l)
		}
	}
	for i, l := range c.Lits {
		if !isMax[i] {
			ordered = append(ordered, l)
		}
	}
	copy(c.Lits, ordered)
	c.Sel = k
}
