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
	"github.com/rs/zerolog"

	"github.com/maelik/dungeonmaster/internal/config"
	"github.com/maelik/dungeonmaster/internal/handler"
	"github.com/maelik/dungeonmaster/internal/provider/assistant"
	gameService "github.com/maelik/dungeonmaster/internal/service/game"
	"github.com/maelik/dungeonmaster/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load .env file; system environment wins when both are present.
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	provider, err := assistant.New(cfg.Assistant(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize assistant client")
	}

	sessions := session.NewMemoryStore()
	transcript := session.NewTranscriptLog()
	gameSvc := gameService.NewService(provider, sessions, transcript, log)

	router := handler.NewRouter(gameSvc, log)

	addr, err := cfg.Addr()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid listen address")
	}
	startServer(ctx, addr, router, log)
}

func startServer(ctx context.Context, addr string, router http.Handler, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("dungeon master server listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
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
