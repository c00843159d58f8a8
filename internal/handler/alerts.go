package handler

import (
	"net/http"
	"strconv"

	"github.com/deganai/yield-pool-watcher/internal/store"
)

// Alerts handles GET /api/alerts: the persisted audit log, newest
// first. Optional ?pool= filters to one pool; ?limit= caps the page.
func Alerts(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s == nil {
			writeError(w, http.StatusServiceUnavailable, "alert history not configured")
			return
		}

		pool := r.URL.Query().Get("pool")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		alerts, err := s.ListAlerts(r.Context(), pool, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load alerts")
			return
		}
		if alerts == nil {
			alerts = []store.StoredAlert{}
		}
		total, err := s.CountAlerts(r.Context(), pool)
		if err != nil {
			total = int64(len(alerts))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"alerts": alerts,
			"total":  total,
		})
	}
}
