package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/api"
	"github.com/supportdesk/knowledge-helper/internal/infrastructure/analytics"
	"github.com/supportdesk/knowledge-helper/internal/infrastructure/credentials"
	"github.com/supportdesk/knowledge-helper/internal/infrastructure/docstore"
	"github.com/supportdesk/knowledge-helper/internal/infrastructure/llm"
	"github.com/supportdesk/knowledge-helper/internal/infrastructure/session"
	"github.com/supportdesk/knowledge-helper/internal/pkg/config"
	"github.com/supportdesk/knowledge-helper/pkg/logger"
)

func main() {
	// .env is a development convenience; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set, queries will fail until configured")
	}

	credStore, err := credentials.NewFileStore(cfg.UsersFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.UsersFile).Msg("failed to load user registry")
	}

	// All state below is process-local by design: sessions and analytics die
	// with the process, documents are re-read from disk on every request.
	sessionStore := session.NewStore(cfg.SessionTTL)
	documentStore := docstore.NewStore(cfg.DocumentsDir, log)
	recorder := analytics.NewRecorder()
	gateway := llm.NewGateway(llm.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})

	e := api.NewRouter(cfg, log, credStore, sessionStore, documentStore, gateway, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, e, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
