package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"urge/internal/api/v1/dto"
	"urge/internal/middleware"
	"urge/internal/model"
	"urge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /users/me", authMw(http.HandlerFunc(h.createUser)))
	mux.Handle("GET /users/me", authMw(http.HandlerFunc(h.getUser)))
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.UserCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Identity comes from the verified token, never the body.
	created, err := h.userService.Create(r.Context(), &model.User{
		ID:       session.UserID,
		Username: req.Username,
		Email:    session.Email,
	})
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}

	info, err := h.userService.SubscriptionInfo(r.Context(), created.ID)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(created, info))
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeEnvelope(w, h.logger, err)
		return
	}

	info, err := h.userService.SubscriptionInfo(r.Context(), user.ID)
	if err != nil {
		writeEnvelope(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user, info))
}

func toUserDTO(u *model.User, info *service.SubscriptionInfo) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Subscription: dto.SubscriptionInfoDTO{
			IsPaidUser:         info.IsPaidUser,
			SubscriptionStatus: string(info.SubscriptionStatus),
			TrialDaysRemaining: info.TrialDaysRemaining,
		},
		CreatedAt: u.CreatedAt,
	}
}
