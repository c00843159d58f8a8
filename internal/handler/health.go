package handler

import (
	"net/http"

	"github.com/deganai/yield-pool-watcher/internal/registry"
	"github.com/deganai/yield-pool-watcher/internal/store"
)

// Health handles GET /health. Liveness only; no dependency checks.
func Health(freeMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ids := registry.SupportedIDs()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":              "healthy",
			"supported_protocols": len(ids),
			"protocols":           ids,
			"free_mode":           freeMode,
		})
	}
}

// Ready handles GET /readyz. With no database configured the service
// is ready as soon as it serves; otherwise readiness follows the pool.
func Ready(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if s != nil {
			if err := s.Ping(r.Context()); err != nil {
				http.Error(w, `{"status":"not ready"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}
