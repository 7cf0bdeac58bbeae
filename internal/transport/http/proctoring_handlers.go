package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/proctoring"
	"github.com/hireloop/interview-server/internal/store"
)

// ProctoringHandlers provides HTTP handlers for the proctoring pipeline.
type ProctoringHandlers struct {
	service *proctoring.Service
	log     *zerolog.Logger
}

// NewProctoringHandlers creates a new proctoring handlers instance.
func NewProctoringHandlers(service *proctoring.Service, logger *zerolog.Logger) *ProctoringHandlers {
	return &ProctoringHandlers{service: service, log: logger}
}

// RecordEventRequest represents the event ingestion request body.
type RecordEventRequest struct {
	SessionID   string  `json:"sessionId" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Severity    string  `json:"severity" binding:"required"`
	Detail      string  `json:"detail"`
	SnapshotRef *string `json:"snapshotRef,omitempty"`
}

// EventResponse represents a proctoring event in API responses.
type EventResponse struct {
	ID          string  `json:"id"`
	SessionID   string  `json:"sessionId"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Detail      string  `json:"detail,omitempty"`
	SnapshotRef *string `json:"snapshotRef,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func eventResponse(e *store.ProctoringEvent) EventResponse {
	return EventResponse{
		ID:          e.ID,
		SessionID:   e.SessionID,
		Type:        string(e.Type),
		Severity:    string(e.Severity),
		Detail:      e.Detail,
		SnapshotRef: e.SnapshotRef,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

// RecordEvent handles integrity event ingestion.
// POST /api/proctoring/event
func (h *ProctoringHandlers) RecordEvent(c *gin.Context) {
	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid record event request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := h.service.RecordEvent(c.Request.Context(), req.SessionID, proctoring.Input{
		Type:        store.EventType(req.Type),
		Severity:    store.Severity(req.Severity),
		Detail:      req.Detail,
		SnapshotRef: req.SnapshotRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, proctoring.ErrInvalidEvent):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown event type or severity"})
		case errors.Is(err, proctoring.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		default:
			h.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to record event")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, eventResponse(event))
}

// ListEvents returns a session's event log in insertion order.
// GET /api/proctoring/:sessionID
func (h *ProctoringHandlers) ListEvents(c *gin.Context) {
	sessionID := c.Param("sessionID")

	events, err := h.service.Events(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, proctoring.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
			return
		}
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to list events")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]EventResponse, 0, len(events))
	for i := range events {
		response = append(response, eventResponse(&events[i]))
	}
	c.JSON(http.StatusOK, response)
}

// ScoreResponse represents the integrity score response body.
type ScoreResponse struct {
	Score       int            `json:"score"`
	TotalEvents int            `json:"totalEvents"`
	Breakdown   map[string]int `json:"breakdown"`
}

// GetScore recomputes and returns a session's integrity score.
// GET /api/proctoring/:sessionID/score
func (h *ProctoringHandlers) GetScore(c *gin.Context) {
	sessionID := c.Param("sessionID")

	report, err := h.service.Score(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, proctoring.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
			return
		}
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to compute score")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	breakdown := make(map[string]int, len(report.Breakdown))
	for sev, n := range report.Breakdown {
		breakdown[string(sev)] = n
	}
	c.JSON(http.StatusOK, ScoreResponse{
		Score:       report.Score,
		TotalEvents: report.TotalEvents,
		Breakdown:   breakdown,
	})
}

// VerifyIdentityRequest represents the identity verification request body.
type VerifyIdentityRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Image     string `json:"image" binding:"required"`
}

// VerifyIdentityResponse represents the verifier's verdict.
type VerifyIdentityResponse struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
	Liveness bool    `json:"liveness"`
}

// VerifyIdentity delegates a captured frame to the external verifier.
// POST /api/proctoring/verify-identity
func (h *ProctoringHandlers) VerifyIdentity(c *gin.Context) {
	var req VerifyIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid verify identity request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.service.VerifyIdentity(c.Request.Context(), req.SessionID, req.UserID, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, proctoring.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		case errors.Is(err, proctoring.ErrVerifierUnavailable), errors.Is(err, proctoring.ErrVerifierDisabled):
			// "verification could not run" is distinct from "failed".
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "verification service unavailable"})
		default:
			h.log.Error().Err(err).Str("session_id", req.SessionID).Msg("identity verification failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, VerifyIdentityResponse{
		Verified: result.Verified,
		Score:    result.Score,
		Liveness: result.Liveness,
	})
}

// SessionSummaryResponse is one row of the dashboard aggregate.
type SessionSummaryResponse struct {
	SessionID      string          `json:"sessionId"`
	Title          string          `json:"title"`
	Score          int             `json:"score"`
	TotalEvents    int             `json:"totalEvents"`
	Breakdown      map[string]int  `json:"breakdown"`
	ElapsedSeconds int64           `json:"elapsedSeconds"`
	RecentEvents   []EventResponse `json:"recentEvents"`
}

// DashboardSessions returns summaries of all in-progress sessions.
// GET /api/proctoring/dashboard/sessions
func (h *ProctoringHandlers) DashboardSessions(c *gin.Context) {
	summaries, err := h.service.ActiveSessions(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list active sessions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]SessionSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		breakdown := make(map[string]int, len(s.Breakdown))
		for sev, n := range s.Breakdown {
			breakdown[string(sev)] = n
		}
		recent := make([]EventResponse, 0, len(s.RecentEvents))
		for i := range s.RecentEvents {
			recent = append(recent, eventResponse(&s.RecentEvents[i]))
		}
		response = append(response, SessionSummaryResponse{
			SessionID:      s.SessionID,
			Title:          s.Title,
			Score:          s.Score,
			TotalEvents:    s.TotalEvents,
			Breakdown:      breakdown,
			ElapsedSeconds: int64(s.Elapsed.Seconds()),
			RecentEvents:   recent,
		})
	}
	c.JSON(http.StatusOK, response)
}
