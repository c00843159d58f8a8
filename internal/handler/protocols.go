package handler

import (
	"net/http"

	"github.com/deganai/yield-pool-watcher/internal/registry"
)

// Protocols handles GET /protocols: the static table of supported
// protocols and their chains.
func Protocols() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		all := registry.All()
		writeJSON(w, http.StatusOK, map[string]any{
			"protocols": all,
			"total":     len(all),
		})
	}
}
