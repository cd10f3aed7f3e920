package routes

import (
	"net/http"
	"time"

	pkgdeps "movies-etl/pkg/deps"
	pkghttpx "movies-etl/pkg/httpx"
)

// Health returns a handler that responds with service status.
func Health(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(d.StartedAt).Seconds())
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"service":        d.Name,
			"uptime_seconds": uptime,
		})
	}
}
