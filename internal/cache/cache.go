// Package cache holds computed assessments keyed by signal and
// company-context version, so repeated dashboard reads skip the engine and
// the database. The context version in the key makes stale entries
// unreachable the moment a profile changes; Invalidate exists for the
// recalculate path, which must drop every version of a signal at once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

// ErrMiss is returned by Get when no live entry exists for the key.
var ErrMiss = errors.New("cache: miss")

// Key identifies one cached assessment.
type Key struct {
	SignalID       string
	ContextVersion int64
}

func (k Key) String() string {
	return fmt.Sprintf("assessment:%s:v%d", k.SignalID, k.ContextVersion)
}

// Store is the assessment cache. Implementations must be safe for concurrent
// use. Get returns ErrMiss when the key is absent or expired; any other error
// is a backend failure the caller should treat as a miss and log.
type Store interface {
	Get(ctx context.Context, key Key) (engine.Assessment, error)
	Set(ctx context.Context, key Key, a engine.Assessment, ttl time.Duration) error

	// Invalidate drops every cached entry for the signal regardless of
	// context version.
	Invalidate(ctx context.Context, signalID string) error
}
