package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-backend/internal/db"
)

// ─── RESPONSE SHAPES ─────────────────────────────────────────────────────────

// signalResponse flattens db.Signal into the dashboard's feed shape.
type signalResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Source      string   `json:"source,omitempty"`
	Company     string   `json:"company"`
	ProductLine string   `json:"product_line,omitempty"`
	OccurredAt  string   `json:"occurred_at"`
}

func toSignalResponse(r db.Signal) signalResponse {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return signalResponse{
		ID:          r.ID.String(),
		Title:       r.Title,
		Summary:     r.Summary.String,
		Category:    r.Category,
		Tags:        tags,
		Source:      r.Source.String,
		Company:     r.Company,
		ProductLine: r.ProductLine.String,
		OccurredAt:  r.OccurredAt.UTC().Format(time.RFC3339),
	}
}

// ─── GET /api/signals ────────────────────────────────────────────────────────

// handleListSignals serves the signal feed, newest first. Optional query
// params: category (Risk|Expansion|Operational), limit (default 50, max 200),
// offset.
func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	switch category {
	case "", "Risk", "Expansion", "Operational":
	default:
		respondErr(w, http.StatusBadRequest, "category must be Risk, Expansion, or Operational")
		return
	}

	limit := int32(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			respondErr(w, http.StatusBadRequest, "limit must be an integer in [1, 200]")
			return
		}
		limit = int32(n)
	}

	offset := int32(0)
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondErr(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = int32(n)
	}

	rows, err := s.q.ListSignals(r.Context(), db.ListSignalsParams{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list signals: %w", err))
		return
	}

	signals := make([]signalResponse, len(rows))
	for i, row := range rows {
		signals[i] = toSignalResponse(row)
	}
	respond(w, http.StatusOK, map[string]any{"signals": signals})
}

// ─── GET /api/signals/:signalID ──────────────────────────────────────────────

func (s *Server) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.signalIDParam(w, r)
	if !ok {
		return
	}

	row, err := s.q.GetSignalByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "signal not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get signal: %w", err))
		return
	}

	respond(w, http.StatusOK, toSignalResponse(row))
}

// signalIDParam parses the signalID URL param, writing a 400 on failure.
func (s *Server) signalIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "signalID")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "signal id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
