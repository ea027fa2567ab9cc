package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"blog-backend/internal/types"
)

// statusByKind is the only place error kinds become HTTP statuses.
var statusByKind = map[types.Kind]int{
	types.KindValidation:      http.StatusBadRequest,
	types.KindUnauthenticated: http.StatusUnauthorized,
	types.KindForbidden:       http.StatusForbidden,
	types.KindNotFound:        http.StatusNotFound,
	types.KindConflict:        http.StatusConflict,
	types.KindPersistence:     http.StatusInternalServerError,
	types.KindInternal:        http.StatusInternalServerError,
}

func toStatusError(err error) types.StatusError {
	status, ok := statusByKind[types.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	return types.NewStatusError(err, status)
}

// writeError reports err with its client-safe message; server-side failures are
// logged with their cause and never echoed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se := toStatusError(err)
	if se.HTTPStatus() >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"kind", types.KindOf(err).String(),
			"error", err.Error(),
		)
	}
	writeJSON(w, se.HTTPStatus(), map[string]string{"error": se.Message()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return types.Wrap(types.KindValidation, err, "Invalid request body")
	}
	return nil
}
