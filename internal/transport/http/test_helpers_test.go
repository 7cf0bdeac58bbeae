package http

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/config"
	"github.com/hireloop/interview-server/internal/core"
	"github.com/hireloop/interview-server/internal/proctoring"
	"github.com/hireloop/interview-server/internal/session"
	"github.com/hireloop/interview-server/internal/store"
	"github.com/hireloop/interview-server/internal/store/sqlite"
)

// newTestServer wires a full server around an in-memory store and a
// running hub, mirroring the production assembly in internal/app.
func newTestServer(t *testing.T) (*httptest.Server, *session.Service, store.Store) {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(sqlite.Schema)
		return err
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	sessions := session.New(st, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := core.NewHub(sessions, 0, &logger)
	go hub.Run(ctx)

	proctor := proctoring.New(st, nil, nil, &logger)

	cfg := config.Default()
	srv := NewServer(hub, sessions, proctor, &cfg, &logger)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, sessions, st
}
