// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tidewatch/fleetsync/internal/metrics"
)

func TestMetricsRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/v1/vessels/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/api/v1/vessels/{id}", "200"))
	for _, path := range []string{"/api/v1/vessels/1", "/api/v1/vessels/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status = %d, want 200", path, rec.Code)
		}
	}
	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/api/v1/vessels/{id}", "200"))

	// Both requests collapse onto the route pattern label.
	if after-before != 2 {
		t.Errorf("counter increased by %v, want 2", after-before)
	}
}

func TestMetricsCapturesErrorStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/boom", "502"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/boom", "502"))

	if after-before != 1 {
		t.Errorf("502 counter increased by %v, want 1", after-before)
	}
}

func TestMetricsActiveGaugeReturnsToZero(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {})

	baseline := testutil.ToFloat64(metrics.HTTPActiveRequests)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if got := testutil.ToFloat64(metrics.HTTPActiveRequests); got != baseline {
		t.Errorf("active gauge = %v after request, want %v", got, baseline)
	}
}
