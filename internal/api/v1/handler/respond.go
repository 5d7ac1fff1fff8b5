package handler

import (
	"encoding/json"
	"net/http"

	"urge/internal/api/v1/dto"
	"urge/internal/service"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEnvelope renders a domain error as data inside a 200 response, and
// anything else as a generic 500. Raw persistence errors never reach the
// client.
func writeEnvelope(w http.ResponseWriter, logger zerolog.Logger, err error) {
	if service.IsDomainError(err) {
		writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: false, Error: err.Error()})
		return
	}
	logger.Error().Err(err).Msg("Operation failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
