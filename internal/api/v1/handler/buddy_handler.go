package handler

import (
	"encoding/json"
	"net/http"

	"urge/internal/api/v1/dto"
	"urge/internal/middleware"
	"urge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type BuddyHandler struct {
	buddyService service.BuddyService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewBuddyHandler(buddyService service.BuddyService, v *validator.Validate, logger zerolog.Logger) *BuddyHandler {
	return &BuddyHandler{buddyService: buddyService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 buddy routes
func (h *BuddyHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /buddy/invite", authMw(http.HandlerFunc(h.invite)))
	mux.Handle("POST /buddy/{id}/accept", authMw(http.HandlerFunc(h.accept)))
	mux.Handle("POST /buddy/{id}/decline", authMw(http.HandlerFunc(h.decline)))
	mux.Handle("DELETE /buddy/{id}", authMw(http.HandlerFunc(h.remove)))
	mux.Handle("GET /buddy/progress", authMw(http.HandlerFunc(h.progress)))
	mux.Handle("GET /buddy/requests", authMw(http.HandlerFunc(h.pendingRequests)))
	mux.Handle("GET /buddy/invites", authMw(http.HandlerFunc(h.sentInvites)))
}

func (h *BuddyHandler) invite(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.BuddyInviteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: false, Error: service.ErrInvalidEmail.Error()})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: false, Error: service.ErrInvalidEmail.Error()})
		return
	}

	msg, err := h.buddyService.Invite(r.Context(), session.UserID, req.Email)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true, Message: msg})
}

func (h *BuddyHandler) accept(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.buddyService.Accept(r.Context(), session.UserID, session.Email, r.PathValue("id")); err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true, Message: "Buddy request accepted!"})
}

func (h *BuddyHandler) decline(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.buddyService.Decline(r.Context(), session.Email, r.PathValue("id")); err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true, Message: "Buddy request declined"})
}

func (h *BuddyHandler) remove(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.buddyService.Remove(r.Context(), session.UserID, r.PathValue("id")); err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true, Message: "Buddy removed"})
}

func (h *BuddyHandler) progress(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	progress, err := h.buddyService.Progress(r.Context(), session.UserID)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}

	out := make([]dto.BuddyProgressResponseDTO, 0, len(progress))
	for _, p := range progress {
		out = append(out, dto.BuddyProgressResponseDTO{
			BuddyID:    p.BuddyID,
			Username:   p.Username,
			StreakDays: p.StreakDays,
			StartedAt:  p.StartedAt,
			DayHistory: p.DayHistory,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BuddyHandler) pendingRequests(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	requests, err := h.buddyService.PendingRequests(r.Context(), session.Email)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}

	out := make([]dto.PendingBuddyRequestDTO, 0, len(requests))
	for _, req := range requests {
		out = append(out, dto.PendingBuddyRequestDTO{
			ID:              req.ID,
			InviterUsername: req.InviterUsername,
			InviterEmail:    req.InviterEmail,
			CreatedAt:       req.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BuddyHandler) sentInvites(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	invites, err := h.buddyService.SentInvites(r.Context(), session.UserID)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}

	out := make([]dto.SentBuddyInviteDTO, 0, len(invites))
	for _, inv := range invites {
		out = append(out, dto.SentBuddyInviteDTO{
			ID:           inv.ID,
			InviteeEmail: inv.InviteeEmail,
			Status:       string(inv.Status),
			CreatedAt:    inv.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
