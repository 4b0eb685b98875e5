// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"container/heap"

	"github.com/quill-prover/quill/clause"
)

// passive is the passive clause container: two priority queues over the
// same clauses, one keyed by age and one by weight, popped in the
// age:weight ratio.  The interleaving keeps selection fair: no clause of
// finite weight waits forever.
type passive struct {
	byAge clauseHeap
	byWt  clauseHeap

	ageRatio, wtRatio int
	turn              int

	size int
}

func newPassive(ageRatio, wtRatio int) *passive {
	if ageRatio < 1 {
		ageRatio = 1
	}
	if wtRatio < 1 {
		wtRatio = 1
	}
	return &passive{
		byAge: clauseHeap{byAge: true},
		byWt:  clauseHeap{},
		ageRatio: ageRatio, wtRatio: wtRatio,
	}
}

func (p *passive) push(c *clause.C) {
	c.Store = clause.Passive
	heap.Push(&p.byAge, c)
	heap.Push(&p.byWt, c)
	p.size++
}

// drop lazily removes a clause that left the passive store; the heaps skip
// it on pop.
func (p *passive) drop(c *clause.C) {
	if c.Store == clause.Passive {
		c.Store = clause.None
		p.size--
	}
}

func (p *passive) empty() bool { return p.size == 0 }

// pop returns the best passive clause under the age-weight interleaving.
func (p *passive) pop() *clause.C {
	if p.size == 0 {
		return nil
	}
	useAge := p.turn%(p.ageRatio+p.wtRatio) < p.ageRatio
	p.turn++
	h := &p.byWt
	if useAge {
		h = &p.byAge
	}
	for h.Len() > 0 {
		c := heap.Pop(h).(*clause.C)
		if c.Store != clause.Passive {
			continue
		}
		c.Store = clause.None
		p.size--
		return c
	}
	// the chosen heap ran dry of live clauses; fall back to the other
	o := &p.byAge
	if useAge {
		o = &p.byWt
	}
	for o.Len() > 0 {
		c := heap.Pop(o).(*clause.C)
		if c.Store != clause.Passive {
			continue
		}
		c.Store = clause.None
		p.size--
		return c
	}
	return nil
}

type clauseHeap struct {
	byAge bool
	cs    []*clause.C
}

func (h *clauseHeap) Len() int { return len(h.cs) }

func (h *clauseHeap) Less(i, j int) bool {
	a, b := h.cs[i], h.cs[j]
	if h.byAge {
		if a.Age != b.Age {
			return a.Age < b.Age
		}
	} else {
		if a.Wt != b.Wt {
			return a.Wt < b.Wt
		}
	}
	return a.Num < b.Num
}

func (h *clauseHeap) Swap(i, j int) { h.cs[i], h.cs[j] = h.cs[j], h.cs[i] }

func (h *clauseHeap) Push(x interface{}) { h.cs = append(h.cs, x.(*clause.C)) }

func (h *clauseHeap) Pop() interface{} {
	n := len(h.cs)
	c := h.cs[n-1]
	h.cs = h.cs[:n-1]
	return c
}
