// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus counters for the scoring services.

  - taste_votes_submitted_total{kind,role}
  - taste_submissions_rejected_total{kind,reason}
  - taste_lifecycle_transitions_total{entity,transition}
  - taste_http_request_duration_seconds{method,route,status}

Handler serves them at /metrics.
*/
package metrics
