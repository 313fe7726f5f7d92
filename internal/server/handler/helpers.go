package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spindeck/roulettebot/internal/domain"
)

// writeJSON marshals v as JSON and writes it with the given status code. A
// marshal failure falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps a typed core error onto an HTTP response carrying the
// stable error code alongside the message.
func writeDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if errors.Is(err, domain.ErrLockHeld) {
		writeError(w, http.StatusConflict, "session is busy, retry shortly")
		return
	}

	code := domain.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeIllegalTransition:
		status = http.StatusConflict
	case domain.CodeInsufficientBalance, domain.CodeStopCondition, domain.CodeSequenceExhausted:
		// Expected terminal signals; the request itself was well-formed.
		status = http.StatusUnprocessableEntity
	}

	body := map[string]string{"error": err.Error()}
	if code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}

// parseListOpts extracts pagination and time-range parameters from the query
// string. Defaults: limit=50 (max 500), offset=0.
func parseListOpts(r *http.Request) domain.ListOpts {
	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	opts := domain.ListOpts{
		Limit:  limit,
		Offset: offset,
	}

	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			opts.Since = &t
		}
	}
	if v := q.Get("until"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			opts.Until = &t
		}
	}

	return opts
}

// pathParam extracts a named path parameter using Go 1.22+ routing.
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}
