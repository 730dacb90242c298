// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.VoteAccepted("score", "CONSUMER", 3)
	c.VoteAccepted("score", "CONSUMER", 1)
	c.VoteRejected("score", "duplicate_vote")
	c.Transition("nomination", "activate")

	assert.Equal(t, 4.0, testutil.ToFloat64(c.votesSubmitted.WithLabelValues("score", "CONSUMER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.submissionsRejected.WithLabelValues("score", "duplicate_vote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lifecycleTransitions.WithLabelValues("nomination", "activate")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.VoteAccepted("score", "EXPERT", 1)
	c.VoteRejected("score", "validation")
	c.Transition("group", "finish")
	c.ObserveRequest("GET", "/health", 200, time.Millisecond)
}

func TestHandlerServesMetrics(t *testing.T) {
	c := New()
	c.Transition("group", "start")

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taste_lifecycle_transitions_total")
}
