// Command server runs the AI chat backend: a Gin HTTP API with a WebSocket
// broadcast channel, backed by SQLite through GORM.
//
// Configuration comes from the environment (optionally a .env file); see
// internal/config for the full list of variables.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/g8d3/ai-chat-dev/internal/config"
	httpapi "github.com/g8d3/ai-chat-dev/internal/http"
	"github.com/g8d3/ai-chat-dev/internal/hub"
	"github.com/g8d3/ai-chat-dev/internal/observability"
	"github.com/g8d3/ai-chat-dev/internal/repo"
	"github.com/g8d3/ai-chat-dev/internal/security"
	"github.com/g8d3/ai-chat-dev/internal/sysutil"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logger setup before anything that can log.
	zerolog.TimeFieldFormat = time.RFC3339Nano
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	gin.SetMode(cfg.GinMode)

	// Tracing (no-op unless OTEL_ENABLED).
	shutdownOTel, err := observability.SetupOTel(context.Background(), cfg.OTEL, "dev")
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	var keys *security.Encryptor
	if cfg.CredentialsKey != "" {
		keys, err = security.NewEncryptorFromBase64(cfg.CredentialsKey)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid CREDENTIALS_KEY")
		}
	} else {
		log.Warn().Msg("CREDENTIALS_KEY unset; provider API keys stored in plaintext")
	}

	broadcast := hub.New()

	r := gin.New()
	httpapi.RegisterRoutes(r, db, broadcast, keys, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := shutdownOTel(ctx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown failed")
	}

	log.Info().Msg("server stopped")
}
