package api

import (
	"encoding/json"
	"net/http"

	"sor/pkg/errors"
	"sor/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Errorf("Failed to encode response: %v", err)
		}
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidInput),
		errors.Is(err, errors.ErrStageOutOfRange),
		errors.Is(err, errors.ErrStageNotApproved),
		errors.Is(err, errors.ErrStageNotComplete),
		errors.Is(err, errors.ErrNoAgents):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrRunInProgress),
		errors.Is(err, errors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, errors.ErrExternal):
		return http.StatusBadGateway
	case errors.Is(err, errors.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errors.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into dest.
func decodeBody(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "invalid request body")
	}
	return nil
}
