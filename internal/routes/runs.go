package routes

import (
	"context"
	"errors"
	"net/http"

	"movies-etl/internal/jobs"

	pkgdeps "movies-etl/pkg/deps"
	pkghttpx "movies-etl/pkg/httpx"
)

// TriggerRun handles POST /runs?date=YYYY-MM-DD. The sync runs in the background.
func TriggerRun(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, he := parseDate(r.URL.Query().Get("date"), true)
		if he != nil {
			pkghttpx.WriteError(w, r, he)
			return
		}
		runCtx := d.RunCtx
		if runCtx == nil {
			runCtx = context.WithoutCancel(r.Context())
		}
		resolved, err := d.Runs.Start(runCtx, date)
		if errors.Is(err, jobs.ErrRunInProgress) {
			pkghttpx.WriteError(w, r, pkghttpx.Conflict("a sync for this date is already running", err))
			return
		}
		if err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to start sync", err))
			return
		}
		pkghttpx.WriteJSON(w, http.StatusAccepted, map[string]any{
			"status":   "started",
			"run_date": resolved,
		})
	}
}

// RunReport handles GET /runs/{date}.
func RunReport(d pkgdeps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, he := parseDate(r.PathValue("date"), false)
		if he != nil {
			pkghttpx.WriteError(w, r, he)
			return
		}
		rep, ok, err := d.Runs.LastReport(r.Context(), date)
		if err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to read run report", err))
			return
		}
		if !ok {
			pkghttpx.WriteError(w, r, pkghttpx.NotFound("no run recorded for this date", nil))
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, rep)
	}
}
