// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package strategy

import (
	"container/heap"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quill-prover/quill/inter"
	"github.com/quill-prover/quill/internal/sat"
	"github.com/quill-prover/quill/sym"
	"github.com/quill-prover/quill/term"
	"github.com/quill-prover/quill/unit"
)

// Result is the outcome of a scheduled proof attempt.
type Result struct {
	Reason     inter.Reason
	Winner     string
	Derivation string
	Stats      sat.Stats
}

// Sched runs up to Slots saturation instances cooperatively in one
// goroutine, admitting strategies from a priority queue and cycling a time
// slice over the live instances.  The first refutation wins; a complete
// strategy emptying its passive set wins with SATISFIABLE.
type Sched struct {
	bank  *term.Bank
	units []unit.U
	plan  Schedule
	log   logrus.FieldLogger

	queue cfgHeap
	slots []*slot

	// adaptive slicing: a slice that overruns sliceBudget halves its step
	// count, one finishing well under it doubles the count
	sliceBudget time.Duration
}

type slot struct {
	cfg   Config
	s     *sat.S
	steps int
}

// New creates a scheduler over a shared bank and input unit list.
func New(bank *term.Bank, units []unit.U, plan Schedule, log logrus.FieldLogger) *Sched {
	if log == nil {
		lg := logrus.New()
		lg.SetLevel(logrus.WarnLevel)
		log = lg
	}
	sd := &Sched{
		bank: bank, units: units, plan: plan, log: log,
		sliceBudget: 100 * time.Millisecond,
	}
	for i := range plan.Strategies {
		sd.queue = append(sd.queue, &plan.Strategies[i])
	}
	heap.Init(&sd.queue)
	return sd
}

// Run executes the schedule until a result or the deadline.  A zero
// deadline means no time limit.
func (sd *Sched) Run(deadline time.Time) Result {
	for {
		sd.fill(deadline)
		if len(sd.slots) == 0 {
			// both the queue and all slots are exhausted
			return Result{Reason: inter.Unknown}
		}

		// one cycle: every admitted strategy gets exactly one slice
		// before any strategy gets a second
		var keep []*slot
		var timedOut *slot
		for _, sl := range sd.slots {
			r, halt := sd.slice(sl)
			if !halt {
				keep = append(keep, sl)
				continue
			}
			switch r {
			case inter.Refutation:
				res := sd.finish(sl, r)
				sd.stopAll(keep)
				return res
			case inter.Satisfiable:
				res := sd.finish(sl, r)
				sd.stopAll(keep)
				return res
			case inter.TimeLimit:
				timedOut = sl
			default:
				sd.log.WithFields(logrus.Fields{
					"strategy": sl.cfg.Name, "reason": r.String(),
				}).Info("strategy exhausted")
			}
		}
		sd.slots = keep
		if timedOut != nil && len(sd.slots) == 0 {
			// the shared deadline fired for everyone
			return sd.finish(timedOut, inter.TimeLimit)
		}
	}
}

// fill admits strategies from the priority queue into free slots.
func (sd *Sched) fill(deadline time.Time) {
	for len(sd.slots) < sd.plan.Slots && sd.queue.Len() > 0 {
		cfg := heap.Pop(&sd.queue).(*Config)
		opts, err := cfg.Options()
		if err != nil {
			// validated at load time; defensive here
			sd.log.WithError(err).Warn("skipping strategy")
			continue
		}
		ord := term.NewKBO(sd.bank)
		if cfg.ReversePrecedence {
			for f := 0; f < sd.bank.Sig.NumFuns(); f++ {
				ord.SetFunPrec(sym.Fun(f), -f)
			}
		}
		s := sat.NewS(sd.bank, ord, opts, sd.log.WithField("strategy", cfg.Name))
		if !deadline.IsZero() {
			s.SetDeadline(deadline)
		}
		s.AddInput(sd.units)
		sd.slots = append(sd.slots, &slot{cfg: *cfg, s: s, steps: sd.plan.SliceSteps})
		sd.log.WithField("strategy", cfg.Name).Debug("strategy admitted")
	}
}

// slice runs one time slice of a slot: steps given-clause steps.  halt is
// true when the instance reached a termination reason.
func (sd *Sched) slice(sl *slot) (inter.Reason, bool) {
	start := time.Now()
	for i := 0; i < sl.steps; i++ {
		if !sl.s.Ctl.Tick() {
			if sl.s.Ctl.Expired() {
				return inter.TimeLimit, true
			}
			return inter.Unknown, true
		}
		if r, halt := sl.s.Step(); halt {
			return r, true
		}
	}
	dur := time.Since(start)
	if dur > sd.sliceBudget && sl.steps > 1 {
		sl.steps /= 2
	} else if dur < sd.sliceBudget/4 {
		sl.steps *= 2
	}
	return inter.Unknown, false
}

func (sd *Sched) finish(sl *slot, r inter.Reason) Result {
	sl.s.FinishStats()
	res := Result{
		Reason:     r,
		Winner:     sl.cfg.Name,
		Derivation: sl.s.Derivation(),
		Stats:      sl.s.St,
	}
	sd.log.WithFields(logrus.Fields{
		"strategy": sl.cfg.Name, "reason": r.String(),
	}).Info("schedule finished")
	return res
}

func (sd *Sched) stopAll(slots []*slot) {
	for _, sl := range slots {
		sl.s.Stop()
	}
	sd.slots = nil
}

// cfgHeap is a min-heap on strategy priority; ties admit in name order.
type cfgHeap []*Config

func (h cfgHeap) Len() int { return len(h) }

func (h cfgHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Name < h[j].Name
}

func (h cfgHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cfgHeap) Push(x interface{}) { *h = append(*h, x.(*Config)) }

func (h *cfgHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
