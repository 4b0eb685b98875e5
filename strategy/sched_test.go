// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-prover/quill/gen"
	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

func TestSchedFirstRefutationWins(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	units := gen.Chain(b, 3)
	sig.Freeze()

	sd := New(b, units, DefaultSchedule(), nil)
	res := sd.Run(time.Now().Add(30 * time.Second))
	require.Equal(t, inter.Refutation, res.Reason)
	assert.NotEmpty(t, res.Winner)
	assert.Contains(t, res.Derivation, "$false")
}

func TestSchedSatisfiable(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	p := sig.Pred("p", 1)
	units := []unit.U{{Name: "only", Lits: []term.Lit{b.Lit(p, true, b.Var(0))}}}
	sig.Freeze()

	plan := Schedule{
		Slots:      1,
		SliceSteps: 8,
		Strategies: []Config{{Name: "default"}},
	}
	sd := New(b, units, plan, nil)
	res := sd.Run(time.Time{})
	require.Equal(t, inter.Satisfiable, res.Reason)
	assert.Equal(t, "default", res.Winner)
}

func TestSchedPriorityAdmission(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	units := gen.Split(b)
	sig.Freeze()

	// one slot: the top-priority strategy must win the simple problem
	plan := Schedule{
		Slots:      1,
		SliceSteps: 64,
		Strategies: []Config{
			{Name: "second", Priority: 5},
			{Name: "first", Priority: 0},
		},
	}
	sd := New(b, units, plan, nil)
	res := sd.Run(time.Now().Add(30 * time.Second))
	require.Equal(t, inter.Refutation, res.Reason)
	assert.Equal(t, "first", res.Winner)
}

func TestSchedExhaustedUnknown(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	p := sig.Pred("p", 1)
	units := []unit.U{{Name: "only", Lits: []term.Lit{b.Lit(p, true, b.Var(0))}}}
	sig.Freeze()

	// every strategy is incomplete, so the schedule exhausts with UNKNOWN
	plan := Schedule{
		Slots:      2,
		SliceSteps: 8,
		Strategies: []Config{
			{Name: "w1", WeightLimit: 4},
			{Name: "w2", WeightLimit: 8, Priority: 1},
		},
	}
	sd := New(b, units, plan, nil)
	res := sd.Run(time.Time{})
	assert.Equal(t, inter.Unknown, res.Reason)
}

func TestSchedDeadline(t *testing.T) {
	sig := sym.NewTable()
	b := term.NewBank(sig)
	units := gen.Chain(b, 2)
	sig.Freeze()

	plan := Schedule{
		Slots:      1,
		SliceSteps: 8,
		Strategies: []Config{{Name: "default"}},
	}
	sd := New(b, units, plan, nil)
	res := sd.Run(time.Now().Add(-time.Second))
	assert.Equal(t, inter.TimeLimit, res.Reason)
}
