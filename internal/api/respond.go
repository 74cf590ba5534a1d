package api

import (
	"encoding/json"
	"net/http"

	"github.com/aliskandarani/raai/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service error taxonomy to HTTP. Anything outside
// the taxonomy is a storage or programming failure: logged in full, returned
// as a generic 500.
func (rt *Router) writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorInvalid:
			writeError(w, http.StatusBadRequest, se.Message)
		case services.ErrorUnauthorized:
			writeError(w, http.StatusUnauthorized, se.Message)
		case services.ErrorForbidden:
			writeError(w, http.StatusForbidden, se.Message)
		case services.ErrorNotFound:
			writeError(w, http.StatusNotFound, se.Message)
		case services.ErrorConflict:
			writeError(w, http.StatusConflict, se.Message)
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	rt.log.Errorw("internal error", "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
