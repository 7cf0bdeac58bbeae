package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session or event does not exist.
var ErrNotFound = errors.New("not found")

// SessionStatus defines the lifecycle of a live interview session.
type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusWaiting    SessionStatus = "waiting"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// Session represents a scheduled live interview.
type Session struct {
	ID         string // UUID
	AccessCode string // 6-char capability token; possession grants entry
	Title      string
	Status     SessionStatus
	// Role presence flags drive the waiting -> in_progress transition.
	SeenInterviewer bool
	SeenCandidate   bool
	EventCount      int
	ScheduledAt     *time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
	LastActivityAt  *time.Time
	CreatedAt       time.Time
}

// EventType is the closed enumeration of proctoring event kinds.
type EventType string

const (
	EventTabSwitch        EventType = "tab_switch"
	EventFullscreenExit   EventType = "fullscreen_exit"
	EventFaceNotDetected  EventType = "face_not_detected"
	EventMultipleFaces    EventType = "multiple_faces"
	EventFaceMismatch     EventType = "face_mismatch"
	EventCopyPaste        EventType = "copy_paste"
	EventPhoneDetected    EventType = "phone_detected"
	EventIdentityMismatch EventType = "identity_mismatch"
)

// Severity grades a proctoring event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidEventType reports whether t is a known proctoring event type.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTabSwitch, EventFullscreenExit, EventFaceNotDetected,
		EventMultipleFaces, EventFaceMismatch, EventCopyPaste,
		EventPhoneDetected, EventIdentityMismatch:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a known severity grade.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ProctoringEvent is one row of the append-only integrity log.
// Rows are never mutated after insertion.
type ProctoringEvent struct {
	ID          string // UUID
	SessionID   string
	Type        EventType
	Severity    Severity
	Detail      string
	SnapshotRef *string
	CreatedAt   time.Time
}

// SessionStore persists live interview sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	GetSessionByAccessCode(ctx context.Context, code string) (*Session, error)
	// UpdateSession writes back status, role flags and timestamps.
	UpdateSession(ctx context.Context, s *Session) error
	ListSessionsByStatus(ctx context.Context, status SessionStatus) ([]Session, error)
	// TouchSession bumps the session's last-activity marker and event counter.
	TouchSession(ctx context.Context, id string, at time.Time) error
}

// ProctoringStore persists the append-only proctoring event log.
type ProctoringStore interface {
	AppendProctoringEvent(ctx context.Context, e *ProctoringEvent) error
	// ListProctoringEvents returns the session's log in insertion order.
	ListProctoringEvents(ctx context.Context, sessionID string) ([]ProctoringEvent, error)
	// ListRecentProctoringEvents returns up to limit newest events, newest first.
	ListRecentProctoringEvents(ctx context.Context, sessionID string, limit int) ([]ProctoringEvent, error)
}

// Store is the full persistence surface of the coordinator.
type Store interface {
	SessionStore
	ProctoringStore
	Close() error
}
