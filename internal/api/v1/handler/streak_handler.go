package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"urge/internal/api/v1/dto"
	"urge/internal/middleware"
	"urge/internal/model"
	"urge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type StreakHandler struct {
	streakService service.StreakService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewStreakHandler(streakService service.StreakService, v *validator.Validate, logger zerolog.Logger) *StreakHandler {
	return &StreakHandler{streakService: streakService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 streak routes
func (h *StreakHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /streak/start", authMw(http.HandlerFunc(h.start)))
	mux.Handle("GET /streak", authMw(http.HandlerFunc(h.summary)))
	mux.Handle("POST /urge/gave-in", authMw(http.HandlerFunc(h.gaveIn)))
	mux.Handle("GET /relapses", authMw(http.HandlerFunc(h.listRelapses)))
}

func (h *StreakHandler) start(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.streakService.Start(r.Context(), session.UserID); err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true})
}

func (h *StreakHandler) gaveIn(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// The body is optional: a bare "I gave in" carries no context.
	var req dto.GaveInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.streakService.GaveIn(r.Context(), session.UserID, req.Trigger, req.Feeling); err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true})
}

func (h *StreakHandler) summary(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.streakService.Summary(r.Context(), session.UserID)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}

	resp := dto.StreakSummaryResponseDTO{
		DisplaySeconds:    summary.DisplaySeconds,
		CurrentStreakDays: summary.CurrentStreakDays,
		LongestStreakDays: summary.LongestStreakDays,
		StartedAt:         summary.StartedAt,
		RelapseCount:      summary.RelapseCount,
		RecentRelapses:    toRelapseDTOs(summary.RecentRelapses),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *StreakHandler) listRelapses(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	relapses, err := h.streakService.ListRelapses(r.Context(), session.UserID, limit)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toRelapseDTOs(relapses))
}

func toRelapseDTOs(relapses []model.Relapse) []dto.RelapseResponseDTO {
	out := make([]dto.RelapseResponseDTO, 0, len(relapses))
	for _, rel := range relapses {
		out = append(out, dto.RelapseResponseDTO{
			ID:          rel.ID,
			StreakDays:  rel.StreakDays,
			StreakStart: rel.StreakStart,
			Trigger:     rel.Trigger,
			Feeling:     rel.Feeling,
			CreatedAt:   rel.CreatedAt,
		})
	}
	return out
}
