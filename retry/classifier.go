// Package retry classifies workflow failures for the recovery handler that
// decides between a delayed retry and operator escalation. Classification is
// pure: no I/O, no side effects.
package retry

import (
	"strings"
	"time"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

type Decision string

const (
	DecisionRetryable Decision = "retryable"
	DecisionFatal     Decision = "fatal"
)

var retryableMarkers = []string{"429", "502", "503", "504"}

var fatalMarkers = []string{"401", "403"}

// Classify inspects the status signal an error carries. Rich errors are
// classified by their status code so free text in the message (a lookup key,
// a response body excerpt) cannot sway the decision; errors without a carried
// status fall back to a message scan. Rate limiting and transient upstream
// failures (429, 502, 503, 504) are retryable; authentication and
// authorization failures (401, 403) are fatal because retrying the same
// request cannot fix them. Everything else defaults to retryable.
func Classify(err error) Decision {
	if err == nil {
		return DecisionRetryable
	}
	if status := core.StatusOf(err); status != 0 {
		return classifyStatus(status)
	}
	message := err.Error()
	for _, marker := range retryableMarkers {
		if strings.Contains(message, marker) {
			return DecisionRetryable
		}
	}
	for _, marker := range fatalMarkers {
		if strings.Contains(message, marker) {
			return DecisionFatal
		}
	}
	return DecisionRetryable
}

func classifyStatus(status int) Decision {
	switch status {
	case 401, 403:
		return DecisionFatal
	default:
		return DecisionRetryable
	}
}

// Backoff computes a capped exponential delay for the given 1-based attempt.
func Backoff(attempt int, base time.Duration, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 || max < base {
		max = base
	}
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > max/2 {
			return max
		}
		delay *= 2
	}
	if delay > max {
		return max
	}
	return delay
}
