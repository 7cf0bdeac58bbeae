// Package session owns the live-interview lifecycle:
// scheduled -> waiting -> in_progress -> completed.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/store"
	"github.com/hireloop/interview-server/internal/utils"
)

// Common errors for session operations.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
)

// Service provides session lifecycle business logic.
type Service struct {
	store store.Store
	log   *zerolog.Logger
}

// New creates a session service.
func New(st store.Store, logger *zerolog.Logger) *Service {
	return &Service{store: st, log: logger}
}

// Input describes a session to schedule.
type Input struct {
	Title       string
	ScheduledAt *time.Time
}

// Create schedules a new session with a fresh access code.
func (s *Service) Create(ctx context.Context, in Input) (*store.Session, error) {
	sess := &store.Session{
		ID:          uuid.New().String(),
		AccessCode:  utils.NewShortCode(),
		Title:       in.Title,
		Status:      store.SessionStatusScheduled,
		ScheduledAt: in.ScheduledAt,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info().Str("session_id", sess.ID).Msg("session scheduled")
	return sess, nil
}

// Get returns a session by id.
func (s *Service) Get(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// GetByAccessCode resolves the capability token handed to participants.
func (s *Service) GetByAccessCode(ctx context.Context, code string) (*store.Session, error) {
	sess, err := s.store.GetSessionByAccessCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// interviewerClass reports whether the role counts toward the
// interviewer side of the waiting -> in_progress transition. Proctors
// can run an interview alone; "interviewer" is accepted as a wire
// alias of recruiter.
func interviewerClass(role string) bool {
	return role == "recruiter" || role == "interviewer" || role == "proctor"
}

// MarkJoined records a participant joining the session's room and advances
// the status machine. scheduled -> waiting fires on the first join of any
// role; waiting -> in_progress fires exactly once, when both an
// interviewer-class participant and a candidate have been present.
func (s *Service) MarkJoined(ctx context.Context, id, role string) error {
	sess, err := s.store.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Rooms can outlive their session record (ad-hoc room ids);
		// nothing to track in that case.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.Status == store.SessionStatusCompleted {
		return ErrSessionCompleted
	}

	if sess.Status == store.SessionStatusScheduled {
		sess.Status = store.SessionStatusWaiting
	}
	if interviewerClass(role) {
		sess.SeenInterviewer = true
	}
	if role == "candidate" {
		sess.SeenCandidate = true
	}
	if sess.Status == store.SessionStatusWaiting && sess.SeenInterviewer && sess.SeenCandidate {
		now := time.Now()
		sess.Status = store.SessionStatusInProgress
		sess.StartedAt = &now
		s.log.Info().Str("session_id", sess.ID).Msg("session in progress")
	}

	return s.store.UpdateSession(ctx, sess)
}

// MarkLeft records a participant leaving. Departures do not rewind the
// status machine; an interview that started stays in progress.
func (s *Service) MarkLeft(ctx context.Context, id, role string) error {
	_, err := s.store.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// Complete moves the session to its terminal state. Further lifecycle
// mutation is rejected.
func (s *Service) Complete(ctx context.Context, id string) error {
	sess, err := s.store.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.Status == store.SessionStatusCompleted {
		return ErrSessionCompleted
	}

	now := time.Now()
	sess.Status = store.SessionStatusCompleted
	sess.EndedAt = &now
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	s.log.Info().Str("session_id", sess.ID).Msg("session completed")
	return nil
}
