package utils

import (
	"encoding/json"
	"net/http"

	"eletralog/errs"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondError classifies a core error and writes it with the matching
// status code.
func RespondError(w http.ResponseWriter, err error) {
	RespondWithError(w, errs.HTTPStatus(err), err.Error())
}

type M map[string]interface{}
