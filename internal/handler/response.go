package handler

import (
	"encoding/json"
	"net/http"

	"bistro/internal/apperrors"
)

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindAlreadyExists, apperrors.KindUnitMismatch, apperrors.KindInsufficientStock:
		return http.StatusConflict
	case apperrors.KindEmptyRecipe:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONResponse writes a JSON response with the given status code and data.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// writeErrorResponse writes an error response with the given status code and message.
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeAppError maps a service error onto its HTTP status and writes it.
func writeAppError(w http.ResponseWriter, err error) {
	writeErrorResponse(w, statusForError(err), err.Error())
}

// parseRequestBody parses a JSON request body into the target struct.
func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
