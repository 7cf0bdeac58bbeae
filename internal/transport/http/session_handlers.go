package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/session"
	"github.com/hireloop/interview-server/internal/store"
)

// SessionHandlers provides HTTP handlers for session management.
type SessionHandlers struct {
	service *session.Service
	log     *zerolog.Logger
}

// NewSessionHandlers creates a new session handlers instance.
func NewSessionHandlers(service *session.Service, logger *zerolog.Logger) *SessionHandlers {
	return &SessionHandlers{service: service, log: logger}
}

// CreateSessionRequest represents the create session request body.
type CreateSessionRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=128"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// SessionResponse represents a session in API responses.
type SessionResponse struct {
	ID          string     `json:"id"`
	AccessCode  string     `json:"accessCode"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

func sessionResponse(s *store.Session) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		AccessCode:  s.AccessCode,
		Title:       s.Title,
		Status:      string(s.Status),
		ScheduledAt: s.ScheduledAt,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

// CreateSession schedules a new live interview session.
// POST /api/sessions
func (h *SessionHandlers) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create session request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sess, err := h.service.Create(c.Request.Context(), session.Input{
		Title:       req.Title,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// GetSession returns a session by id.
// GET /api/sessions/:id
func (h *SessionHandlers) GetSession(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
			return
		}
		h.log.Error().Err(err).Msg("failed to load session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// EndSession moves a session to its terminal state.
// POST /api/sessions/:id/end
func (h *SessionHandlers) EndSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Complete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		case errors.Is(err, session.ErrSessionCompleted):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "session already completed"})
		default:
			h.log.Error().Err(err).Str("session_id", id).Msg("failed to end session")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	sess, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", id).Msg("failed to reload session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}
