package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/platform-carbon-estimator/internal/adapter"
	"github.com/rshade/platform-carbon-estimator/internal/carbon"
)

// Error codes returned in APIError.Code.
const (
	codeInvalidInput = "INVALID_INPUT"
	codeInvalidJSON  = "INVALID_JSON"
	codeTooLarge     = "REQUEST_TOO_LARGE"
	codeInternal     = "INTERNAL_ERROR"
)

// APIError is the body of every error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr APIError) {
	respondJSON(w, r, status, errorResponse{Error: apiErr})
}

// respondFailure maps err to a status code and error body. Caller and input
// errors are 400; everything else is logged and reported as 500.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	var inputErr *carbon.InputError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, r, http.StatusBadRequest, APIError{
			Code:    codeValidation,
			Message: validationErr.Error(),
			Details: map[string]any{"fields": validationErr.Fields},
		})
	case errors.As(err, &inputErr):
		respondError(w, r, http.StatusBadRequest, APIError{
			Code:    codeInvalidInput,
			Message: inputErr.Error(),
			Details: map[string]any{"field": inputErr.Field},
		})
	case errors.As(err, &maxBytesErr):
		respondError(w, r, http.StatusRequestEntityTooLarge, APIError{
			Code:    codeTooLarge,
			Message: err.Error(),
		})
	case errors.Is(err, errInvalidJSON):
		respondError(w, r, http.StatusBadRequest, APIError{Code: codeInvalidJSON, Message: err.Error()})
	case errors.Is(err, carbon.ErrInvalidInput),
		errors.Is(err, carbon.ErrInvalidGrowthRate),
		errors.Is(err, carbon.ErrInvalidPeriods),
		errors.Is(err, adapter.ErrMissingInstances),
		errors.Is(err, adapter.ErrMissingConnections):
		respondError(w, r, http.StatusBadRequest, APIError{Code: codeInvalidInput, Message: err.Error()})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		respondError(w, r, http.StatusInternalServerError, APIError{
			Code:    codeInternal,
			Message: "internal server error",
		})
	}
}
