package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"launchdash/internal/container"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewOpsRouter serves liveness and pprof on the profiling port, kept off
// the public dashboard listener
func NewOpsRouter(app *container.Container) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"records": app.Table.Len(),
			"file":    app.Config.Data.File,
		})
	})
	r.Mount("/debug", middleware.Profiler())

	return r
}

// StartOps serves the ops router on addr until ctx is done
func StartOps(ctx context.Context, app *container.Container, addr string) error {
	return serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           NewOpsRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}, app.Logger.With("Ops"))
}
