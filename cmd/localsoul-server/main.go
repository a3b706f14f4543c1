// Command localsoul-server runs the HTTP API for the city assistant.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/config"
	"github.com/localsoul/localsoul/internal/gemini"
	"github.com/localsoul/localsoul/internal/httpapi"
	"github.com/localsoul/localsoul/internal/store"
	"github.com/localsoul/localsoul/internal/voice"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []gemini.Option{gemini.WithLogger(log)}
	if cfg.HasLatLong {
		opts = append(opts, gemini.WithLocator(gemini.FixedLocation{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
		}))
	}
	client, err := gemini.New(ctx, cfg.GeminiAPIKey, opts...)
	if err != nil {
		return err
	}

	api := httpapi.New(httpapi.Config{
		Store:     st,
		Assistant: client,
		LiveDialer: func(p catalog.Persona, m catalog.Mode) voice.DialFunc {
			return client.LiveDialer(gemini.LiveConfig{Persona: p, Mode: m})
		},
		Logger: log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory store")
		return store.NewMemory(), nil
	}
	log.Info("using postgres store")
	return store.OpenPostgres(ctx, cfg.DatabaseURL)
}
