// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quill-prover/quill/internal/sat"
)

func TestObserveAndScrape(t *testing.T) {
	m := New()
	st := &sat.Stats{
		Resolutions:     3,
		FwDemodulations: 2,
		FwSubsumed:      1,
		FinalActive:     5,
	}
	m.Observe(st, "REFUTATION")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)
	body := rec.Body.String()

	for _, want := range []string{
		`quill_generated_clauses_total{rule="resolution"} 3`,
		`quill_simplifications_total{rule="fw_demodulation"} 2`,
		`quill_deleted_clauses_total{cause="fw_subsumed"} 1`,
		`quill_problems_total{reason="REFUTATION"} 1`,
		`quill_active_clauses 5`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output misses %q", want)
		}
	}
}
