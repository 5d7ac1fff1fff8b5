package service

import (
	"context"
	"strings"
	"time"

	"urge/internal/model"
	"urge/internal/repository"
	"urge/internal/timeutil"

	"github.com/rs/zerolog"
)

// SubscriptionInfo is the paid-plan state surfaced alongside the profile.
// The payment processor drives the underlying fields through its own
// webhook channel; this service only projects them.
type SubscriptionInfo struct {
	IsPaidUser         bool                     `json:"is_paid_user"`
	SubscriptionStatus model.SubscriptionStatus `json:"subscription_status"`
	TrialDaysRemaining *int                     `json:"trial_days_remaining,omitempty"`
}

// UserService manages user profiles.
type UserService interface {
	// Create registers a profile for an authenticated identity and links any
	// pending buddy invites that were addressed to the new user's email.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	SubscriptionInfo(ctx context.Context, id string) (*SubscriptionInfo, error)
}

type userService struct {
	userRepo  repository.UserRepository
	buddyRepo repository.BuddyRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, buddyRepo repository.BuddyRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		buddyRepo: buddyRepo,
		logger:    logger.With().Str("service", "UserService").Logger(),
		now:       time.Now,
	}
}

func (s *userService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	u.Email = strings.ToLower(u.Email)
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = model.SubscriptionNone
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	// Invites sent to this email before the account existed have a null
	// invitee_id; registration is the point where they get linked.
	if err := s.buddyRepo.LinkInvitee(ctx, u.Email, u.ID); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Msg("User registered")
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) SubscriptionInfo(ctx context.Context, id string) (*SubscriptionInfo, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &SubscriptionInfo{
		IsPaidUser:         u.IsPaidUser,
		SubscriptionStatus: u.SubscriptionStatus,
	}
	if u.TrialEndsAt != nil {
		remaining := timeutil.CeilDaysUntil(s.now(), *u.TrialEndsAt)
		info.TrialDaysRemaining = &remaining
	}
	return info, nil
}
