// Package ops serves the operational endpoints: liveness, readiness and
// pprof. It listens on its own port so it is never exposed with the API.
package ops

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger checks a dependency the service cannot work without
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Check is a named readiness probe
type Check struct {
	Name   string
	Pinger Pinger
}

// NewRouter builds the ops router. Checks run on every /readyz call.
func NewRouter(checks ...Check) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readyHandler(checks))
	r.Mount("/debug", middleware.Profiler())

	return r
}

func readyHandler(checks []Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.Pinger.PingContext(ctx); err != nil {
				log.Printf("[Ops] readiness check %s failed: %v", check.Name, err)
				results[check.Name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[check.Name] = "ok"
		}

		writeJSON(w, status, map[string]interface{}{
			"ready":  status == http.StatusOK,
			"checks": results,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Ops] failed to write response: %v", err)
	}
}
