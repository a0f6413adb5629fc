package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/engine"
)

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrStaleAssessment is returned by SaveAssessment when the stored row was
// produced against a newer company-context version than the one being written.
// The caller should drop the result — a fresher evaluation has already landed
// or is about to.
var ErrStaleAssessment = errors.New("store: assessment is stale, a newer context version exists")

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// SaveAssessmentParams is everything the worker hands to the store once the
// engine has produced an assessment.
type SaveAssessmentParams struct {
	SignalID uuid.UUID

	// ContextVersion is the company-profile version the assessment was
	// computed against (0 when no profile existed). Writes with a version
	// lower than the stored row are rejected with ErrStaleAssessment.
	ContextVersion int64

	Assessment engine.Assessment
}

// ─── METHODS ─────────────────────────────────────────────────────────────────

// SaveAssessment persists one engine result as the signal's current
// assessment. It serializes the full assessment payload to JSON and upserts
// on signal_id; the version guard in the query makes concurrent writers
// last-version-wins rather than last-write-wins.
func (s *Store) SaveAssessment(ctx context.Context, arg SaveAssessmentParams) (db.RiskAssessment, error) {
	payload, err := json.Marshal(arg.Assessment)
	if err != nil {
		return db.RiskAssessment{}, fmt.Errorf("SaveAssessment: marshal payload: %w", err)
	}

	row, err := s.q.UpsertAssessment(ctx, db.UpsertAssessmentParams{
		ID:             uuid.New(),
		SignalID:       arg.SignalID,
		ContextVersion: arg.ContextVersion,
		Status:         string(arg.Assessment.Status),
		Payload:        pqtype.NullRawMessage{RawMessage: payload, Valid: true},
	})
	if errors.Is(err, sql.ErrNoRows) {
		// The conditional upsert matched a row with a newer context version
		// and therefore updated nothing.
		return db.RiskAssessment{}, ErrStaleAssessment
	}
	if err != nil {
		return db.RiskAssessment{}, fmt.Errorf("SaveAssessment: upsert: %w", err)
	}
	return row, nil
}

// DecodeAssessment unpacks a stored payload back into the engine's output
// type. Rows written before the payload column existed decode to a bare
// error-status assessment rather than failing the read path.
func DecodeAssessment(row db.RiskAssessment) (engine.Assessment, error) {
	if !row.Payload.Valid {
		return engine.Assessment{
			Status:  engine.StatusError,
			Message: "stored assessment has no payload",
		}, nil
	}
	var a engine.Assessment
	if err := json.Unmarshal(row.Payload.RawMessage, &a); err != nil {
		return engine.Assessment{}, fmt.Errorf("store: decode assessment %s: %w", row.ID, err)
	}
	return a, nil
}
