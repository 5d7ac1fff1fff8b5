package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"urge/internal/api/v1/dto"
	"urge/internal/middleware"
	"urge/internal/model"
	"urge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type JournalHandler struct {
	journalService service.JournalService
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewJournalHandler(journalService service.JournalService, v *validator.Validate, logger zerolog.Logger) *JournalHandler {
	return &JournalHandler{journalService: journalService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 journal routes
func (h *JournalHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /journal", authMw(http.HandlerFunc(h.create)))
	mux.Handle("GET /journal/today", authMw(http.HandlerFunc(h.listToday)))
	mux.Handle("GET /journal/recent", authMw(http.HandlerFunc(h.listRecent)))
	mux.Handle("DELETE /journal/{id}", authMw(http.HandlerFunc(h.delete)))
}

func (h *JournalHandler) create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.JournalCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ActionResultDTO{Success: false, Error: "invalid JSON payload"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ActionResultDTO{Success: false, Error: service.ErrJournalEmpty.Error()})
		return
	}

	if _, err := h.journalService.Create(r.Context(), session.UserID, req.Content); err != nil {
		if service.IsDomainError(err) {
			// Validation and rate-limit failures render inline on the form.
			writeJSON(w, http.StatusBadRequest, dto.ActionResultDTO{Success: false, Error: err.Error()})
			return
		}
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true})
}

func (h *JournalHandler) listToday(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	journals, err := h.journalService.ListToday(r.Context(), session.UserID)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalDTOs(journals))
}

func (h *JournalHandler) listRecent(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	journals, err := h.journalService.ListRecent(r.Context(), session.UserID, limit)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalDTOs(journals))
}

func (h *JournalHandler) delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	err := h.journalService.Delete(r.Context(), session.UserID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrJournalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true})
}

func toJournalDTOs(journals []model.Journal) []dto.JournalResponseDTO {
	out := make([]dto.JournalResponseDTO, 0, len(journals))
	for _, j := range journals {
		out = append(out, dto.JournalResponseDTO{
			ID:        j.ID,
			Content:   j.Content,
			CreatedAt: j.CreatedAt,
		})
	}
	return out
}
