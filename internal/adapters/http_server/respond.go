package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"azurea_hotel/internal/domain"
)

// All responses carry a data/error envelope.
type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Detail string   `json:"detail"`
	Valid  []string `json:"valid_values,omitempty"`
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: v}); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP codes. Anything
// outside the taxonomy is a 500 with a generic detail; the real error goes
// to the log, not the client.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalid):
		status, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, detail = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, detail = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrDependency):
		status, detail = http.StatusBadGateway, err.Error()
	default:
		log.Error().Err(err).Msg("unhandled error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	e := &apiError{Detail: detail, Valid: domain.ValidValues(err)}
	if err := json.NewEncoder(w).Encode(envelope{Error: e}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(envelope{Error: &apiError{Detail: detail}})
}

// decode reads a JSON body into dst, rejecting unknown garbage politely.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalidf("invalid JSON body")
	}
	return nil
}
