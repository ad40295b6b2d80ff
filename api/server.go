package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"deal-scanner/utils"
)

func addRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/search", h.SearchDeals)
	mux.HandleFunc("GET /api/alerts", h.Alerts)
	mux.HandleFunc("POST /api/track", h.Track)
	mux.HandleFunc("GET /api/tracked", h.Tracked)
	mux.HandleFunc("GET /health", h.Health)
}

// NewServer returns the HTTP handler for the deal scanner API.
func NewServer(h *Handler, logger *utils.Logger) http.Handler {
	mux := http.NewServeMux()
	addRoutes(mux, h)

	var handler http.Handler = mux
	handler = withCORS(handler)
	handler = withLogging(handler, logger)
	return handler
}

// ListenAndServe serves handler on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *utils.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[api] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("[api] Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, logger *utils.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("[api] %s %s %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
