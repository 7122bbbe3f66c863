// Package health reports the state of the store backends used by metaprop.
//
// Checks return a Status; Combine folds several of them into one:
//
//	status := health.Combine(
//	    health.FileCheck(cfg.Store.Bolt.GetPath()),
//	    health.BackendCheck(ctx, backend, time.Second),
//	)
//	if status.IsUnhealthy() {
//	    log.Printf("store unavailable: %s", status.Message)
//	}
//
// When combining, any unhealthy check makes the result unhealthy, then any degraded
// check makes it degraded.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zero-day-ai/metaprop/store"
)

// Health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Status is the health state of a component.
type Status struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy reports whether the status is healthy.
func (s Status) IsHealthy() bool { return s.Status == StatusHealthy }

// IsDegraded reports whether the status is degraded.
func (s Status) IsDegraded() bool { return s.Status == StatusDegraded }

// IsUnhealthy reports whether the status is unhealthy.
func (s Status) IsUnhealthy() bool { return s.Status == StatusUnhealthy }

// Healthy creates a healthy status.
func Healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded status with optional details.
func Degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

// Unhealthy creates an unhealthy status with optional details.
func Unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}

// BackendCheck pings backend. A ping slower than slow reports degraded; a zero slow
// disables that check. Backends that cannot ping are reported healthy.
func BackendCheck(ctx context.Context, backend store.Backend, slow time.Duration) Status {
	if backend == nil {
		return Unhealthy("no backend configured", nil)
	}
	name := backend.Name()
	p, ok := backend.(store.Pinger)
	if !ok {
		return Healthy(fmt.Sprintf("backend '%s' does not support ping", name))
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	start := time.Now()
	err := p.Ping(ctx)
	elapsed := time.Since(start)
	details := map[string]any{
		"backend":    name,
		"latency_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		details["error"] = err.Error()
		return Unhealthy(fmt.Sprintf("backend '%s' is unreachable", name), details)
	}
	if slow > 0 && elapsed > slow {
		return Degraded(fmt.Sprintf("backend '%s' answered in %s", name, elapsed), details)
	}
	return Healthy(fmt.Sprintf("backend '%s' is reachable", name))
}

// FileCheck verifies that the file at path exists.
func FileCheck(path string) Status {
	if path == "" {
		return Unhealthy("path cannot be empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unhealthy(fmt.Sprintf("path '%s' does not exist", path), map[string]any{"path": path})
		}
		return Unhealthy(fmt.Sprintf("failed to stat path '%s'", path), map[string]any{
			"path":  path,
			"error": err.Error(),
		})
	}
	if info.IsDir() {
		return Unhealthy(fmt.Sprintf("path '%s' is a directory", path), map[string]any{"path": path})
	}
	return Healthy(fmt.Sprintf("file '%s' exists", path))
}

// Combine aggregates checks into a single status.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthy, degraded []string
	healthy := 0
	for _, check := range checks {
		msg := check.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthy = append(unhealthy, msg)
		case StatusDegraded:
			degraded = append(degraded, msg)
		case StatusHealthy:
			healthy++
		}
	}

	if len(unhealthy) > 0 {
		return Unhealthy(fmt.Sprintf("%d check(s) failed", len(unhealthy)), map[string]any{
			"total":         len(checks),
			"unhealthy":     len(unhealthy),
			"degraded":      len(degraded),
			"healthy":       healthy,
			"failed_checks": unhealthy,
		})
	}
	if len(degraded) > 0 {
		return Degraded(fmt.Sprintf("%d check(s) degraded", len(degraded)), map[string]any{
			"total":           len(checks),
			"degraded":        len(degraded),
			"healthy":         healthy,
			"degraded_checks": degraded,
		})
	}
	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
