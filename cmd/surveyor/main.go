// Package main provides the surveyor server entry point.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thebtf/surveyor/internal/config"
	dbgorm "github.com/thebtf/surveyor/internal/db/gorm"
	"github.com/thebtf/surveyor/internal/watcher"
	"github.com/thebtf/surveyor/internal/worker"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides settings)")
	dbPath := flag.String("db", "", "SQLite database path (default: ~/.surveyor/surveyor.db)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if err := config.EnsureAll(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure data directory")
	}

	cfg := config.Get()
	if *port > 0 {
		cfg.HTTPPort = *port
	}

	path := config.DBPath()
	if *dbPath != "" {
		path = *dbPath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down")
		cancel()
	}()

	store, err := dbgorm.NewStore(dbgorm.Config{
		Path:     path,
		MaxConns: cfg.MaxConns,
		LogLevel: gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer store.Close()

	// Exit on settings change; the supervisor restarts with the new config.
	settingsPath := config.SettingsPath()
	settingsWatcher, err := watcher.New(settingsPath, func() {
		log.Warn().Str("path", settingsPath).Msg("Settings changed, exiting for restart")
		time.Sleep(100 * time.Millisecond) // Give logs time to flush
		os.Exit(0)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create settings watcher")
	} else if err := settingsWatcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start settings watcher")
	}

	svc := worker.NewService(Version, cfg, store)
	defer svc.Close()

	log.Info().Str("version", Version).Str("db", path).Msg("Starting surveyor")
	if err := svc.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
