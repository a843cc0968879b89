package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mmrzaf/csvanon/internal/logging"
	"github.com/mmrzaf/csvanon/internal/web"
)

func NewRouter(h *Handler, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(logger))

	r.Get("/", web.IndexHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/specs", h.ListSpecs)
		r.Get("/profiles", h.ListProfiles)
		r.Get("/profiles/{id}", h.GetProfile)
		r.Post("/anonymize", h.Anonymize)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)
	})
	return r
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"duration_ms": time.Since(started).Milliseconds(),
				"remote":      r.RemoteAddr,
				"request_id":  middleware.GetReqID(r.Context()),
			}
			if sw.status >= 500 {
				logger.Errorw("request.completed", fields)
				return
			}
			if sw.status >= 400 {
				logger.Warnw("request.completed", fields)
				return
			}
			logger.Infow("request.completed", fields)
		})
	}
}
