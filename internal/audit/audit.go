// Package audit defines the durable change-history model: one record per
// successful administrative mutation, with full before/after snapshots.
package audit

import (
	"context"
	"time"
)

// Actions recognized in audit records.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Record is a single persisted change event. Before is nil for creations,
// After is nil for deletions; updates carry both.
type Record struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	ActorName  string         `json:"actor_name"`
	Timestamp  time.Time      `json:"timestamp"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Before     map[string]any `json:"before,omitempty"`
	After      map[string]any `json:"after,omitempty"`
}

// Filter narrows a List call. Zero values mean "no constraint";
// a zero Limit falls back to the store default.
type Filter struct {
	EntityType string
	Action     string
	From       time.Time
	To         time.Time
	Limit      int
}

// Store persists and queries audit records. Records are append-only:
// there is no update or delete surface.
type Store interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context, f Filter) ([]Record, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ClampLimit normalizes a requested page size to store bounds.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// Matches reports whether rec satisfies every constraint in f.
func (f Filter) Matches(rec Record) bool {
	if f.EntityType != "" && rec.EntityType != f.EntityType {
		return false
	}
	if f.Action != "" && rec.Action != f.Action {
		return false
	}
	if !f.From.IsZero() && rec.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && rec.Timestamp.After(f.To) {
		return false
	}
	return true
}
