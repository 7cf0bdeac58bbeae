package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/config"
	"github.com/hireloop/interview-server/internal/core"
	"github.com/hireloop/interview-server/internal/proctoring"
	"github.com/hireloop/interview-server/internal/session"
	"github.com/hireloop/interview-server/internal/store"
	"github.com/hireloop/interview-server/internal/store/sqlite"
	transporthttp "github.com/hireloop/interview-server/internal/transport/http"
	"github.com/hireloop/interview-server/internal/verifier"
)

// alertBridge forwards proctoring alerts into the hub's dashboard fan-out.
type alertBridge struct {
	hub *core.Hub
}

func (b alertBridge) PublishAlert(a proctoring.Alert) {
	b.hub.NotifyProctoring(core.ProctoringAlert{
		SessionID: a.SessionID,
		EventID:   a.EventID,
		Type:      string(a.Type),
		Severity:  string(a.Severity),
		Detail:    a.Detail,
		Score:     a.Score,
		At:        a.At,
	})
}

// App wires together core, services and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	sessions := session.New(st, logger)
	hub := core.NewHub(sessions, cfg.RoomCloseGrace, logger)

	var faceVerifier verifier.Verifier
	if cfg.VerifierURL != "" {
		faceVerifier = verifier.NewHTTP(cfg.VerifierURL, cfg.VerifierTimeout)
		logger.Info().Str("verifier_url", cfg.VerifierURL).Msg("identity verifier enabled")
	}

	proctor := proctoring.New(st, faceVerifier, alertBridge{hub: hub}, logger)
	server := transporthttp.NewServer(hub, sessions, proctor, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
