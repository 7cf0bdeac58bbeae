package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hireloop/interview-server/internal/app"
	"github.com/hireloop/interview-server/internal/config"
	"github.com/hireloop/interview-server/internal/log"
)

func main() {
	var (
		configPath string
		overrides  config.Config
	)

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&overrides.DatabasePath, "db", "", "path to sqlite database")
	flag.DurationVar(&overrides.RoomCloseGrace, "room-close-grace", 0, "grace period before ended rooms are torn down")
	flag.Parse()

	bootLogger := log.New(log.DefaultLevel)
	cfg, cfgPath, err := config.Load(bootLogger, configPath)
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}
	cfg.UpdateFrom(overrides)

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", cfgPath).Str("addr", cfg.Addr).Msg("starting interview server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}

	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
