package httpx

import (
	"encoding/json"
	"net/http"

	pkgrequestctx "movies-etl/pkg/requestctx"
)

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRaw writes an already encoded JSON body, e.g. a cached response.
func WriteRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes the error envelope. Client errors log at warn, server errors at error.
func WriteError(w http.ResponseWriter, r *http.Request, he *HTTPError) {
	cid := pkgrequestctx.CorrelationID(r.Context())
	if cid != "" {
		w.Header().Set("X-Correlation-Id", cid)
	}
	body := map[string]any{
		"code":           he.Code,
		"message":        he.Message,
		"correlation_id": cid,
	}
	if he.Details != nil {
		body["details"] = he.Details
	}
	status := he.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	l := pkgrequestctx.Logger(r.Context())
	ev := l.Warn()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	}
	ev.Str("code", he.Code).Err(he.Err).Msg(he.Message)
	WriteJSON(w, status, map[string]any{"error": body})
}
