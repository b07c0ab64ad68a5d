// internal/api/respond.go
package api

import (
	"net/http"

	"financial-health-workers/internal/common/errors"

	json "github.com/goccy/go-json"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error *errors.StandardError `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	writeJSON(w, statusFor(stdErr), errorBody{Error: stdErr})
}

func statusFor(e *errors.StandardError) int {
	switch e.Code {
	case errors.ErrCodeInvalidHealthInput:
		return http.StatusBadRequest
	case errors.ErrCodeReportNotFound, "RESOURCE_NOT_FOUND":
		return http.StatusNotFound
	case errors.ErrCodeHealthScoreFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	}
	if e.Retryable {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.NewInvalidHealthInputError("request body is not valid JSON: " + err.Error())
	}
	return nil
}
