package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"movies-etl/internal/jobs"

	pkgdeps "movies-etl/pkg/deps"
	pkghttpx "movies-etl/pkg/httpx"
)

// Movies handles GET /movies?date=YYYY-MM-DD&limit=&cursor=
func Movies(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		date, he := parseDate(r.URL.Query().Get("date"), false)
		if he != nil {
			pkghttpx.WriteError(w, r, he)
			return
		}
		limit, he := parseLimit(r)
		if he != nil {
			pkghttpx.WriteError(w, r, he)
			return
		}
		cursor := r.URL.Query().Get("cursor")
		var curPop *float64
		var curID *int64
		if cursor != "" {
			if d.Signer == nil {
				pkghttpx.WriteError(w, r, pkghttpx.Internal("cursor signer not configured", nil))
				return
			}
			p, id, err := d.Signer.DecodeMoviesCursor(cursor)
			if err != nil {
				pkghttpx.WriteError(w, r, pkghttpx.BadRequest("invalid cursor", err))
				return
			}
			curPop = &p
			curID = &id
		}
		gen, _ := d.Cache.Get(ctx, jobs.MoviesGenerationKey(date))
		cacheKey := "http:movies:" + date + ":gen:" + gen + ":cursor:" + cursor + ":limit:" + strconv.Itoa(int(limit))
		if cached, ok := d.Cache.Get(ctx, cacheKey); ok {
			pkghttpx.WriteRaw(w, http.StatusOK, []byte(cached))
			return
		}
		items, err := d.Repo.ListMoviesByDatePage(ctx, date, curPop, curID, limit)
		if err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to list movies", err))
			return
		}
		total, err := d.Repo.CountMoviesByDate(ctx, date)
		if err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to count movies", err))
			return
		}
		resp := map[string]any{
			"items": items,
			"count": len(items),
			"total": total,
		}
		if len(items) == int(limit) && d.Signer != nil {
			last := items[len(items)-1]
			resp["next_cursor"] = d.Signer.EncodeMoviesCursor(last.Popularity, last.ID)
		}
		b, _ := json.Marshal(resp)
		_ = d.Cache.Set(ctx, cacheKey, string(b), 2*time.Minute)
		pkghttpx.WriteRaw(w, http.StatusOK, b)
	}
}
