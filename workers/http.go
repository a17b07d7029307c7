package workers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gobrgbridge/workers/handlers"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
)

func NewRouter(api *handlers.API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Options("/*", CORSHeaders)

	r.Get("/state", api.State)
	r.Get("/health", handlers.HealthCheck)

	r.Get("/chains", api.GetChains)

	r.Post("/transfers", api.SubmitTransfer)
	r.Get("/transfers", api.GetTransfers)
	r.Delete("/transfers", api.ClearTransfers)
	r.Get("/transfers/{txHash}", api.GetTransfer)

	return r
}

// Worker_HTTP serves handler until ctx is done, then shuts the server down.
func Worker_HTTP(ctx context.Context, logger *logrus.Logger, port int, handler http.Handler) error {
	log := logger.WithField("pkg", "workers.http")
	log.Printf("Starting HTTP service")

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Print("HTTP service started")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error listening to %s: %w", server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Print("HTTP service stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP service shutdown error: %w", err)
	}
	log.Print("HTTP service shutdown normal")
	return nil
}

func CORSHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Origin, X-Requested-With")
}
