// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package inter holds the interfaces between the saturation core and its
// collaborators, and the result vocabulary shared by the engine, the
// scheduler, and the command line.
package inter

import (
	"time"

	"github.com/quill-prover/quill/unit"
)

// Reason is the termination reason of a saturation run.
type Reason uint8

const (
	// Unknown means an incomplete configuration exhausted its budget.
	Unknown Reason = iota
	// Refutation means the empty clause was derived.
	Refutation
	// Satisfiable means passive emptied under a complete configuration.
	Satisfiable
	// TimeLimit means the deadline fired.
	TimeLimit
	// MemoryLimit means the clause budget was exhausted.
	MemoryLimit
)

func (r Reason) String() string {
	switch r {
	case Refutation:
		return "REFUTATION"
	case Satisfiable:
		return "SATISFIABLE"
	case TimeLimit:
		return "TIME_LIMIT"
	case MemoryLimit:
		return "MEMORY_LIMIT"
	}
	return "UNKNOWN"
}

// Adder accepts input units from the clausifier collaborator.  AddInput
// should not be called once saturation has started.
type Adder interface {
	AddInput(units []unit.U)
}

// Runnable is a saturation process that runs to a termination reason.
type Runnable interface {
	Run() Reason
}

// Stoppable can be halted asynchronously; the run returns at its next step
// boundary without retraction.
type Stoppable interface {
	Stop()
	SetDeadline(t time.Time)
}

// Prover is the composed interface of one saturation instance.
type Prover interface {
	Adder
	Runnable
	Stoppable

	// Derivation renders the inference DAG rooted at the empty clause
	// after a refutation, or the final active set after saturation.
	Derivation() string
}
