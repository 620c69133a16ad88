// Package health exposes a minimal liveness listener for hosted deployments.
// It has no interaction with the bot core.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kursbot/core/logger"
)

// Start runs the liveness HTTP server and shuts it down gracefully when ctx
// is cancelled.
func Start(ctx context.Context, port int) error {
	router := chi.NewRouter()
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
	router.Get("/", ok)
	router.Get("/healthz", ok)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	logger.App.Info("health listener up",
		slog.String("event", "health.listen"),
		slog.Int("port", port),
	)

	server := &http.Server{Handler: router}
	errCh := make(chan error, 1)
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case serveErr := <-errCh:
		return serveErr
	}
}
