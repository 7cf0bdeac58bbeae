package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hireloop/interview-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSessionRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	scheduled := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	sess := &store.Session{
		ID:          "sess-1",
		AccessCode:  "AB12CD",
		Title:       "backend screen",
		ScheduledAt: &scheduled,
	}
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != store.SessionStatusScheduled {
		t.Fatalf("expected default scheduled status, got %s", got.Status)
	}
	if got.Title != "backend screen" || got.AccessCode != "AB12CD" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.ScheduledAt == nil || !got.ScheduledAt.Equal(scheduled) {
		t.Fatalf("scheduled_at mismatch: %v vs %v", got.ScheduledAt, scheduled)
	}

	byCode, err := st.GetSessionByAccessCode(ctx, "AB12CD")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if byCode.ID != "sess-1" {
		t.Fatalf("unexpected session id: %s", byCode.ID)
	}

	if _, err := st.GetSession(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetSessionByAccessCode(ctx, "ZZZZZZ"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSession(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	sess := &store.Session{ID: "sess-1", AccessCode: "AB12CD"}
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	sess.Status = store.SessionStatusInProgress
	sess.SeenInterviewer = true
	sess.SeenCandidate = true
	sess.StartedAt = &now
	if err := st.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != store.SessionStatusInProgress || !got.SeenInterviewer || !got.SeenCandidate {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(now) {
		t.Fatalf("started_at mismatch: %v vs %v", got.StartedAt, now)
	}

	if err := st.UpdateSession(ctx, &store.Session{ID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSessionsByStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i, status := range []store.SessionStatus{
		store.SessionStatusInProgress,
		store.SessionStatusCompleted,
		store.SessionStatusInProgress,
	} {
		sess := &store.Session{
			ID:         fmt.Sprintf("sess-%d", i),
			AccessCode: fmt.Sprintf("CODE%02d", i),
			Status:     status,
		}
		if err := st.CreateSession(ctx, sess); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	active, err := st.ListSessionsByStatus(ctx, store.SessionStatusInProgress)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 in-progress sessions, got %d", len(active))
	}

	none, err := st.ListSessionsByStatus(ctx, store.SessionStatusWaiting)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no waiting sessions, got %d", len(none))
	}
}

func TestTouchSession(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateSession(ctx, &store.Session{ID: "sess-1", AccessCode: "AB12CD"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := st.TouchSession(ctx, "sess-1", at); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := st.TouchSession(ctx, "sess-1", at.Add(time.Second)); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EventCount != 2 {
		t.Fatalf("expected event_count 2, got %d", got.EventCount)
	}
	if got.LastActivityAt == nil || !got.LastActivityAt.Equal(at.Add(time.Second)) {
		t.Fatalf("last_activity_at mismatch: %v", got.LastActivityAt)
	}

	if err := st.TouchSession(ctx, "missing", at); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProctoringEventOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateSession(ctx, &store.Session{ID: "sess-1", AccessCode: "AB12CD"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Identical timestamps: ordering must still follow insertion.
	at := time.Now().UTC().Truncate(time.Second)
	ref := "snapshots/frame-3.jpg"
	for i := 0; i < 7; i++ {
		e := &store.ProctoringEvent{
			ID:        fmt.Sprintf("ev-%d", i),
			SessionID: "sess-1",
			Type:      store.EventTabSwitch,
			Severity:  store.SeverityLow,
			Detail:    fmt.Sprintf("occurrence %d", i),
			CreatedAt: at,
		}
		if i == 3 {
			e.SnapshotRef = &ref
		}
		if err := st.AppendProctoringEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := st.ListProctoringEvents(ctx, "sess-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(events))
	}
	for i, e := range events {
		if e.ID != fmt.Sprintf("ev-%d", i) {
			t.Fatalf("event %d out of order: %s", i, e.ID)
		}
	}
	if events[3].SnapshotRef == nil || *events[3].SnapshotRef != ref {
		t.Fatalf("snapshot ref lost: %+v", events[3])
	}
	if events[0].SnapshotRef != nil {
		t.Fatalf("unexpected snapshot ref: %+v", events[0])
	}

	recent, err := st.ListRecentProctoringEvents(ctx, "sess-1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent events, got %d", len(recent))
	}
	if recent[0].ID != "ev-6" || recent[2].ID != "ev-4" {
		t.Fatalf("recent events out of order: %s .. %s", recent[0].ID, recent[2].ID)
	}

	// Logs are per session.
	other, err := st.ListProctoringEvents(ctx, "sess-2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty log, got %d", len(other))
	}
}
