// Package proctoring ingests integrity events per session and reduces
// them into a live integrity score.
package proctoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/store"
	"github.com/hireloop/interview-server/internal/verifier"
)

// Common errors for proctoring operations.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidEvent        = errors.New("invalid proctoring event")
	ErrVerifierUnavailable = errors.New("verifier unavailable")
	ErrVerifierDisabled    = errors.New("verifier not configured")
)

// Alert is a dashboard notification about a recorded integrity event.
type Alert struct {
	SessionID string
	EventID   string
	Type      store.EventType
	Severity  store.Severity
	Detail    string
	Score     int
	At        time.Time
}

// AlertSink receives alerts for dashboard fan-out. Implemented by the hub.
type AlertSink interface {
	PublishAlert(a Alert)
}

// Service provides proctoring event ingestion and score computation.
type Service struct {
	store    store.Store
	verifier verifier.Verifier
	alerts   AlertSink
	log      *zerolog.Logger
}

// New creates a proctoring service. verifier may be nil when identity
// verification is disabled; alerts may be nil in tests.
func New(st store.Store, v verifier.Verifier, alerts AlertSink, logger *zerolog.Logger) *Service {
	return &Service{store: st, verifier: v, alerts: alerts, log: logger}
}

// Input describes an incoming integrity event.
type Input struct {
	Type        store.EventType
	Severity    store.Severity
	Detail      string
	SnapshotRef *string
}

// RecordEvent appends an event to the session's log and bumps the
// session's activity marker. Events for completed sessions are still
// accepted: clients flush slightly late.
func (s *Service) RecordEvent(ctx context.Context, sessionID string, in Input) (*store.ProctoringEvent, error) {
	if !store.ValidEventType(in.Type) || !store.ValidSeverity(in.Severity) {
		return nil, ErrInvalidEvent
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	event := &store.ProctoringEvent{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Type:        in.Type,
		Severity:    in.Severity,
		Detail:      in.Detail,
		SnapshotRef: in.SnapshotRef,
		CreatedAt:   time.Now(),
	}
	if err := s.store.AppendProctoringEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	if err := s.store.TouchSession(ctx, sessionID, event.CreatedAt); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to touch session")
	}

	s.log.Debug().
		Str("session_id", sessionID).
		Str("type", string(event.Type)).
		Str("severity", string(event.Severity)).
		Msg("proctoring event recorded")

	// Only high and critical events interrupt the dashboard; the rest
	// stay queryable in the log.
	if s.alerts != nil && alertWorthy(event.Severity) {
		report, err := s.Score(ctx, sessionID)
		if err != nil {
			// A transient score failure must not surface as score 0.
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to score session, alert skipped")
		} else {
			s.alerts.PublishAlert(Alert{
				SessionID: sessionID,
				EventID:   event.ID,
				Type:      event.Type,
				Severity:  event.Severity,
				Detail:    event.Detail,
				Score:     report.Score,
				At:        event.CreatedAt,
			})
		}
	}

	return event, nil
}

// alertWorthy reports whether a severity crosses the dashboard
// notification threshold.
func alertWorthy(sev store.Severity) bool {
	return sev == store.SeverityHigh || sev == store.SeverityCritical
}

// Score recomputes the session's integrity score from its log.
func (s *Service) Score(ctx context.Context, sessionID string) (ScoreReport, error) {
	events, err := s.Events(ctx, sessionID)
	if err != nil {
		return ScoreReport{}, err
	}
	return scoreEvents(events), nil
}

// Events returns the session's log in insertion order.
func (s *Service) Events(ctx context.Context, sessionID string) ([]store.ProctoringEvent, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	events, err := s.store.ListProctoringEvents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// VerifyIdentity delegates to the external verifier. A "not verified"
// verdict also appends a synthetic identity_mismatch event, unifying
// identity failures with the general integrity stream. A verifier
// transport failure appends nothing.
func (s *Service) VerifyIdentity(ctx context.Context, sessionID, userID, image string) (verifier.Result, error) {
	if s.verifier == nil {
		return verifier.Result{}, ErrVerifierDisabled
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return verifier.Result{}, ErrSessionNotFound
		}
		return verifier.Result{}, fmt.Errorf("load session: %w", err)
	}

	result, err := s.verifier.Verify(ctx, sessionID, userID, image)
	if err != nil {
		if errors.Is(err, verifier.ErrUnavailable) {
			return verifier.Result{}, ErrVerifierUnavailable
		}
		return verifier.Result{}, fmt.Errorf("verify identity: %w", err)
	}

	if !result.Verified {
		detail := fmt.Sprintf("identity verification failed for user %s", userID)
		if _, recErr := s.RecordEvent(ctx, sessionID, Input{
			Type:     store.EventIdentityMismatch,
			Severity: store.SeverityCritical,
			Detail:   detail,
		}); recErr != nil {
			s.log.Error().Err(recErr).Str("session_id", sessionID).Msg("failed to record identity mismatch")
		}
	}

	return result, nil
}

// SessionSummary is one row of the monitoring dashboard's aggregate view.
type SessionSummary struct {
	SessionID    string                  `json:"session_id"`
	Title        string                  `json:"title"`
	Score        int                     `json:"score"`
	TotalEvents  int                     `json:"total_events"`
	Breakdown    map[store.Severity]int  `json:"breakdown"`
	Elapsed      time.Duration           `json:"elapsed"`
	RecentEvents []store.ProctoringEvent `json:"recent_events"`
}

// recentEventCount bounds the per-session tail in dashboard summaries.
const recentEventCount = 5

// ActiveSessions recomputes score, severity buckets, elapsed time and the
// recent event tail for every in-progress session. Read-time fan-out, not
// a materialized view; room counts are expected in the tens.
func (s *Service) ActiveSessions(ctx context.Context) ([]SessionSummary, error) {
	sessions, err := s.store.ListSessionsByStatus(ctx, store.SessionStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		events, err := s.store.ListProctoringEvents(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("list events for %s: %w", sess.ID, err)
		}
		recent, err := s.store.ListRecentProctoringEvents(ctx, sess.ID, recentEventCount)
		if err != nil {
			return nil, fmt.Errorf("list recent events for %s: %w", sess.ID, err)
		}

		report := scoreEvents(events)
		var elapsed time.Duration
		if sess.StartedAt != nil {
			elapsed = time.Since(*sess.StartedAt)
		}
		summaries = append(summaries, SessionSummary{
			SessionID:    sess.ID,
			Title:        sess.Title,
			Score:        report.Score,
			TotalEvents:  report.TotalEvents,
			Breakdown:    report.Breakdown,
			Elapsed:      elapsed,
			RecentEvents: recent,
		})
	}
	return summaries, nil
}
