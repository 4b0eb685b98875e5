// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package metrics exposes the saturation counters as Prometheus collectors
// together with an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quill-prover/quill/internal/sat"
)

// M holds the Prometheus collectors of one prover process.
type M struct {
	reg *prometheus.Registry

	GeneratedTotal  *prometheus.CounterVec
	SimplifiedTotal *prometheus.CounterVec
	DeletedTotal    *prometheus.CounterVec
	ProblemsTotal   *prometheus.CounterVec
	ActiveClauses   prometheus.Gauge
	PassiveClauses  prometheus.Gauge
	OverflowsTotal  prometheus.Counter
}

// New creates and registers the collectors on a private registry.
func New() *M {
	m := &M{reg: prometheus.NewRegistry()}
	m.GeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_generated_clauses_total",
			Help: "Clauses generated, by inference rule.",
		},
		[]string{"rule"},
	)
	m.SimplifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_simplifications_total",
			Help: "Simplifying inferences performed, by rule.",
		},
		[]string{"rule"},
	)
	m.DeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_deleted_clauses_total",
			Help: "Clauses deleted as redundant, by cause.",
		},
		[]string{"cause"},
	)
	m.ProblemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_problems_total",
			Help: "Problems finished, by termination reason.",
		},
		[]string{"reason"},
	)
	m.ActiveClauses = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quill_active_clauses",
		Help: "Active clauses at the end of the last run.",
	})
	m.PassiveClauses = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quill_passive_clauses",
		Help: "Passive clauses at the end of the last run.",
	})
	m.OverflowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quill_arithmetic_overflows_total",
		Help: "Interpreted evaluations abandoned due to overflow.",
	})
	m.reg.MustRegister(
		m.GeneratedTotal, m.SimplifiedTotal, m.DeletedTotal,
		m.ProblemsTotal, m.ActiveClauses, m.PassiveClauses, m.OverflowsTotal,
	)
	return m
}

// Observe folds one instance's final statistics into the collectors.
func (m *M) Observe(st *sat.Stats, reason string) {
	m.GeneratedTotal.WithLabelValues("resolution").Add(float64(st.Resolutions))
	m.GeneratedTotal.WithLabelValues("factoring").Add(float64(st.Factorings))
	m.GeneratedTotal.WithLabelValues("superposition").Add(float64(st.Superpositions))
	m.SimplifiedTotal.WithLabelValues("fw_demodulation").Add(float64(st.FwDemodulations))
	m.SimplifiedTotal.WithLabelValues("bw_demodulation").Add(float64(st.BwDemodulations))
	m.SimplifiedTotal.WithLabelValues("inner_rewriting").Add(float64(st.InnerRewrites))
	m.SimplifiedTotal.WithLabelValues("evaluation").Add(float64(st.Evaluations))
	m.SimplifiedTotal.WithLabelValues("subsumption_resolution").Add(float64(st.FwSubsumptionRes))
	m.DeletedTotal.WithLabelValues("fw_subsumed").Add(float64(st.FwSubsumed))
	m.DeletedTotal.WithLabelValues("bw_subsumed").Add(float64(st.BwSubsumed))
	m.DeletedTotal.WithLabelValues("tautology").Add(float64(st.TautologiesDeleted))
	m.DeletedTotal.WithLabelValues("weight_limit").Add(float64(st.WeightDiscarded))
	m.DeletedTotal.WithLabelValues("color_blocked").Add(float64(st.ColorBlocked))
	m.OverflowsTotal.Add(float64(st.ArithmeticOverflow))
	m.ProblemsTotal.WithLabelValues(reason).Inc()
	m.ActiveClauses.Set(float64(st.FinalActive))
	m.PassiveClauses.Set(float64(st.FinalPassive))
}

// Handler returns the scrape handler for the private registry.
func (m *M) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
