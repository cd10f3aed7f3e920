package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"movies-etl/internal/jobs"

	pkgdeps "movies-etl/pkg/deps"
	pkghttpx "movies-etl/pkg/httpx"
)

// Languages handles GET /languages.
func Languages(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cached, ok := d.Cache.Get(ctx, jobs.LanguagesCacheKey); ok {
			pkghttpx.WriteRaw(w, http.StatusOK, []byte(cached))
			return
		}
		items, err := d.Repo.ListLanguages(ctx)
		if err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to list languages", err))
			return
		}
		b, _ := json.Marshal(map[string]any{"items": items, "count": len(items)})
		_ = d.Cache.Set(ctx, jobs.LanguagesCacheKey, string(b), 10*time.Minute)
		pkghttpx.WriteRaw(w, http.StatusOK, b)
	}
}
