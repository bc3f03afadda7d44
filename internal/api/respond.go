package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docsmith/docchat/internal/extraction"
	"github.com/docsmith/docchat/internal/services"
	"github.com/docsmith/docchat/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unclassified is a 500 with the error text.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, store.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var svcErr *extraction.ServiceError
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case extraction.KindInvalidParameters:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case extraction.KindNotFound:
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}

	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
