package routes

import (
	"net/http"
	"strconv"
	"time"

	pkghttpx "movies-etl/pkg/httpx"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 20
	maxLimit     = 100
)

// parseDate validates a YYYY-MM-DD query or path value. Empty is allowed when optional.
func parseDate(v string, optional bool) (string, *pkghttpx.HTTPError) {
	if v == "" {
		if optional {
			return "", nil
		}
		return "", pkghttpx.BadRequest("date is required", nil)
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return "", pkghttpx.BadRequest("invalid date, want YYYY-MM-DD", err)
	}
	return v, nil
}

func parseLimit(r *http.Request) (int32, *pkghttpx.HTTPError) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultLimit, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 || n > maxLimit {
		return 0, pkghttpx.BadRequest("invalid limit", err)
	}
	return int32(n), nil
}
