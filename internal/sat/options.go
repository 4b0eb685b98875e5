// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

// Demod controls forward demodulation.
type Demod uint8

const (
	DemodOff Demod = iota
	// DemodPreordered rewrites only with equations oriented before
	// instantiation.
	DemodPreordered
	DemodAll
)

// Selection picks a literal selection function.
type Selection uint8

const (
	// SelectMaximal selects all maximal literals.
	SelectMaximal Selection = iota
	// SelectNegative selects a single heaviest negative literal when one
	// exists, all maximal literals otherwise.
	SelectNegative
)

// Options is one fully parameterized saturation configuration.  Each
// strategy hosted by the scheduler owns an independent Options value.
type Options struct {
	// AgeRatio:WeightRatio interleaves the passive queue picks.
	AgeRatio    int
	WeightRatio int

	Selection Selection

	BinaryResolution bool
	Factoring        bool
	Superposition    bool
	FwDemodulation   Demod
	BwDemodulation   bool
	InnerRewriting   bool
	FwSubsumption    bool
	// CodeTreeSubsumption replaces the literal-index forward subsumption
	// with the one-pass code tree variant.
	CodeTreeSubsumption bool
	FwSubsumptionRes    bool
	BwSubsumption       bool
	Evaluation          bool

	// WeightLimit discards heavier generated clauses; 0 means no limit.
	// A non-zero limit makes the configuration incomplete.
	WeightLimit int

	// ClauseLimit bounds the number of live clauses; exceeding it halts
	// the instance with the memory-limit reason.  0 means no limit.
	ClauseLimit int
}

// DefaultOptions returns the standard complete configuration.
func DefaultOptions() Options {
	return Options{
		AgeRatio:         1,
		WeightRatio:      4,
		Selection:        SelectMaximal,
		BinaryResolution: true,
		Factoring:        true,
		Superposition:    true,
		FwDemodulation:   DemodAll,
		BwDemodulation:   true,
		InnerRewriting:   true,
		FwSubsumption:    true,
		FwSubsumptionRes: true,
		BwSubsumption:    true,
		Evaluation:       true,
	}
}

// Complete reports whether the configuration is refutationally complete, so
// that an emptied passive set means satisfiability.
func (o Options) Complete() bool {
	return o.WeightLimit == 0 &&
		o.BinaryResolution && o.Factoring && o.Superposition &&
		o.Selection == SelectMaximal
}
