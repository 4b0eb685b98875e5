// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"fmt"
	"strings"
	"time"
)

// Stats are the per-instance saturation counters.  Counters are owned by
// one instance and read after it halts; the scheduler reports the counters
// of the strategy that decided the run.
type Stats struct {
	Input     int64
	Generated int64
	Activated int64

	Resolutions    int64
	Factorings     int64
	Superpositions int64

	FwDemodulations      int64
	FwDemodulationsToTaut int64
	BwDemodulations      int64
	InnerRewrites        int64
	InnerRewritesToTaut  int64
	Evaluations          int64

	FwSubsumed     int64
	FwSubsumptionRes int64
	BwSubsumed     int64

	TautologiesDeleted int64
	TrivialDeleted     int64
	WeightDiscarded    int64
	ColorBlocked       int64
	ArithmeticOverflow int64

	FinalActive  int
	FinalPassive int

	Dur time.Duration
}

// Add accumulates other into st.
func (st *Stats) Add(other *Stats) {
	st.Input += other.Input
	st.Generated += other.Generated
	st.Activated += other.Activated
	st.Resolutions += other.Resolutions
	st.Factorings += other.Factorings
	st.Superpositions += other.Superpositions
	st.FwDemodulations += other.FwDemodulations
	st.FwDemodulationsToTaut += other.FwDemodulationsToTaut
	st.BwDemodulations += other.BwDemodulations
	st.InnerRewrites += other.InnerRewrites
	st.InnerRewritesToTaut += other.InnerRewritesToTaut
	st.Evaluations += other.Evaluations
	st.FwSubsumed += other.FwSubsumed
	st.FwSubsumptionRes += other.FwSubsumptionRes
	st.BwSubsumed += other.BwSubsumed
	st.TautologiesDeleted += other.TautologiesDeleted
	st.TrivialDeleted += other.TrivialDeleted
	st.WeightDiscarded += other.WeightDiscarded
	st.ColorBlocked += other.ColorBlocked
	st.ArithmeticOverflow += other.ArithmeticOverflow
	st.Dur += other.Dur
}

// String renders the statistics block.
func (st *Stats) String() string {
	var sb strings.Builder
	w := func(name string, v int64) {
		if v != 0 {
			fmt.Fprintf(&sb, "%% %-28s %d\n", name, v)
		}
	}
	w("input clauses", st.Input)
	w("generated clauses", st.Generated)
	w("activated clauses", st.Activated)
	w("resolutions", st.Resolutions)
	w("factorings", st.Factorings)
	w("superpositions", st.Superpositions)
	w("fw demodulations", st.FwDemodulations)
	w("fw demodulations to taut", st.FwDemodulationsToTaut)
	w("bw demodulations", st.BwDemodulations)
	w("inner rewrites", st.InnerRewrites)
	w("inner rewrites to taut", st.InnerRewritesToTaut)
	w("evaluations", st.Evaluations)
	w("fw subsumed", st.FwSubsumed)
	w("fw subsumption resolutions", st.FwSubsumptionRes)
	w("bw subsumed", st.BwSubsumed)
	w("tautologies deleted", st.TautologiesDeleted)
	w("trivial deleted", st.TrivialDeleted)
	w("weight discarded", st.WeightDiscarded)
	w("color blocked", st.ColorBlocked)
	w("arithmetic overflow", st.ArithmeticOverflow)
	w("final active", int64(st.FinalActive))
	w("final passive", int64(st.FinalPassive))
	fmt.Fprintf(&sb, "%% %-28s %s\n", "time", st.Dur)
	return sb.String()
}
