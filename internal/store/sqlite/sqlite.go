package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hireloop/interview-server/internal/store"
)

// Schema holds the coordinator's tables. Applied idempotently on open.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	access_code      TEXT NOT NULL UNIQUE,
	title            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'scheduled',
	seen_interviewer BOOLEAN NOT NULL DEFAULT 0,
	seen_candidate   BOOLEAN NOT NULL DEFAULT 0,
	event_count      INTEGER NOT NULL DEFAULT 0,
	scheduled_at     DATETIME,
	started_at       DATETIME,
	ended_at         DATETIME,
	last_activity_at DATETIME,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS proctoring_events (
	id           TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	type         TEXT NOT NULL,
	severity     TEXT NOT NULL,
	detail       TEXT NOT NULL DEFAULT '',
	snapshot_ref TEXT,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (session_id) REFERENCES sessions(id)
);

CREATE INDEX IF NOT EXISTS idx_proctoring_session ON proctoring_events(session_id);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== SessionStore implementation ====

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *store.Session) error {
	query := `
		INSERT INTO sessions (id, access_code, title, status, scheduled_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	if sess.Status == "" {
		sess.Status = store.SessionStatusScheduled
	}
	_, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.AccessCode, sess.Title, string(sess.Status), sess.ScheduledAt, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	return s.getSession(ctx, "id = ?", id)
}

func (s *SQLiteStore) GetSessionByAccessCode(ctx context.Context, code string) (*store.Session, error) {
	return s.getSession(ctx, "access_code = ?", code)
}

func (s *SQLiteStore) getSession(ctx context.Context, where string, arg any) (*store.Session, error) {
	query := `
		SELECT id, access_code, title, status, seen_interviewer, seen_candidate,
		       event_count, scheduled_at, started_at, ended_at, last_activity_at, created_at
		FROM sessions WHERE ` + where

	var sess store.Session
	var status string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&sess.ID, &sess.AccessCode, &sess.Title, &status,
		&sess.SeenInterviewer, &sess.SeenCandidate, &sess.EventCount,
		&sess.ScheduledAt, &sess.StartedAt, &sess.EndedAt, &sess.LastActivityAt, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	sess.Status = store.SessionStatus(status)
	return &sess, nil
}

func (s *SQLiteStore) UpdateSession(ctx context.Context, sess *store.Session) error {
	query := `
		UPDATE sessions
		SET status = ?, seen_interviewer = ?, seen_candidate = ?,
		    started_at = ?, ended_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		string(sess.Status), sess.SeenInterviewer, sess.SeenCandidate,
		sess.StartedAt, sess.EndedAt, sess.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session rows: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListSessionsByStatus(ctx context.Context, status store.SessionStatus) ([]store.Session, error) {
	query := `
		SELECT id, access_code, title, status, seen_interviewer, seen_candidate,
		       event_count, scheduled_at, started_at, ended_at, last_activity_at, created_at
		FROM sessions WHERE status = ? ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]store.Session, 0)
	for rows.Next() {
		var sess store.Session
		var st string
		if err := rows.Scan(
			&sess.ID, &sess.AccessCode, &sess.Title, &st,
			&sess.SeenInterviewer, &sess.SeenCandidate, &sess.EventCount,
			&sess.ScheduledAt, &sess.StartedAt, &sess.EndedAt, &sess.LastActivityAt, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Status = store.SessionStatus(st)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) TouchSession(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE sessions SET last_activity_at = ?, event_count = event_count + 1 WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch session rows: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ==== ProctoringStore implementation ====

func (s *SQLiteStore) AppendProctoringEvent(ctx context.Context, e *store.ProctoringEvent) error {
	query := `
		INSERT INTO proctoring_events (id, session_id, type, severity, detail, snapshot_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.SessionID, string(e.Type), string(e.Severity), e.Detail, e.SnapshotRef, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert proctoring event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListProctoringEvents(ctx context.Context, sessionID string) ([]store.ProctoringEvent, error) {
	return s.listEvents(ctx, sessionID, "ASC", 0)
}

func (s *SQLiteStore) ListRecentProctoringEvents(ctx context.Context, sessionID string, limit int) ([]store.ProctoringEvent, error) {
	return s.listEvents(ctx, sessionID, "DESC", limit)
}

func (s *SQLiteStore) listEvents(ctx context.Context, sessionID, order string, limit int) ([]store.ProctoringEvent, error) {
	// rowid gives stable insertion order even when created_at ties.
	query := `
		SELECT id, session_id, type, severity, detail, snapshot_ref, created_at
		FROM proctoring_events WHERE session_id = ? ORDER BY rowid ` + order
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list proctoring events: %w", err)
	}
	defer rows.Close()

	events := make([]store.ProctoringEvent, 0)
	for rows.Next() {
		var e store.ProctoringEvent
		var typ, sev string
		if err := rows.Scan(&e.ID, &e.SessionID, &typ, &sev, &e.Detail, &e.SnapshotRef, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan proctoring event: %w", err)
		}
		e.Type = store.EventType(typ)
		e.Severity = store.Severity(sev)
		events = append(events, e)
	}
	return events, rows.Err()
}
