// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import "github.com/quill-prover/quill/clause"

// GeneratingInference consumes one given clause plus active clauses
// reachable through indices and emits zero or more conclusions.  Inferences
// are pure: they never mutate their inputs.
type GeneratingInference interface {
	Name() string
	// Attach requests the indices the inference needs from the manager.
	Attach(s *S)
	// Detach releases them.
	Detach()
	Generate(g *clause.C) []*clause.C
}

// FwAction is the outcome of a forward simplification attempt.
type FwAction uint8

const (
	// FwKeep leaves the clause unchanged.
	FwKeep FwAction = iota
	// FwDelete discards the clause as redundant.
	FwDelete
	// FwReplace substitutes a strictly simpler clause.
	FwReplace
)

// ForwardSimplification simplifies a new clause against the active set.  On
// FwReplace the replacement records the premises used.
type ForwardSimplification interface {
	Name() string
	Attach(s *S)
	Detach()
	Perform(c *clause.C) (FwAction, *clause.C)
}

// BwResult is one backward simplification effect: Removed leaves the active
// set; Replacement, when non-nil, re-enters the pipeline as unprocessed.
type BwResult struct {
	Removed     *clause.C
	Replacement *clause.C
}

// BackwardSimplification simplifies active clauses by the given clause.
type BackwardSimplification interface {
	Name() string
	Attach(s *S)
	Detach()
	Perform(g *clause.C) []BwResult
}
