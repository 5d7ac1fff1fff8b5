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

const (
	maxBuddies         = 2
	progressWindowDays = 14
)

// BuddyService manages the accountability pairing lifecycle: email invites,
// accept/decline by the invitee, removal by either side, and the read-side
// progress projection over accepted pairs.
type BuddyService interface {
	// Invite creates a PENDING edge to the given email and returns a
	// human-readable confirmation, which differs depending on whether the
	// invitee is already registered.
	Invite(ctx context.Context, inviterID, email string) (string, error)
	Accept(ctx context.Context, inviteeID, inviteeEmail, buddyID string) error
	Decline(ctx context.Context, inviteeEmail, buddyID string) error
	Remove(ctx context.Context, userID, buddyID string) error
	ActiveCount(ctx context.Context, userID string) (int, error)
	Progress(ctx context.Context, userID string) ([]model.BuddyProgress, error)
	PendingRequests(ctx context.Context, inviteeEmail string) ([]model.PendingBuddyRequest, error)
	SentInvites(ctx context.Context, inviterID string) ([]model.Buddy, error)
}

type buddyService struct {
	buddyRepo   repository.BuddyRepository
	userRepo    repository.UserRepository
	streakRepo  repository.StreakRepository
	relapseRepo repository.RelapseRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBuddyService creates a new BuddyService.
func NewBuddyService(
	buddyRepo repository.BuddyRepository,
	userRepo repository.UserRepository,
	streakRepo repository.StreakRepository,
	relapseRepo repository.RelapseRepository,
	logger zerolog.Logger,
) BuddyService {
	return &buddyService{
		buddyRepo:   buddyRepo,
		userRepo:    userRepo,
		streakRepo:  streakRepo,
		relapseRepo: relapseRepo,
		logger:      logger.With().Str("service", "BuddyService").Logger(),
		now:         time.Now,
	}
}

func (s *buddyService) Invite(ctx context.Context, inviterID, email string) (string, error) {
	inviteeEmail := strings.ToLower(strings.TrimSpace(email))

	inviter, err := s.userRepo.GetUserByID(ctx, inviterID)
	if err != nil {
		return "", err
	}
	if inviter == nil {
		return "", ErrUserNotFound
	}
	if strings.ToLower(inviter.Email) == inviteeEmail {
		return "", ErrSelfInvite
	}

	count, err := s.buddyRepo.CountActive(ctx, inviterID)
	if err != nil {
		return "", err
	}
	if count >= maxBuddies {
		return "", ErrBuddyLimit
	}

	existing, err := s.buddyRepo.FindNonTerminal(ctx, inviterID, inviteeEmail)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.Status == model.BuddyPending {
			return "", ErrInvitePending
		}
		return "", ErrAlreadyBuddy
	}

	// Link the invitee now when the email is already registered, otherwise
	// leave invitee_id empty; registration links it later (see UserService).
	var inviteeID *string
	invitee, err := s.userRepo.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		return "", err
	}
	if invitee != nil {
		inviteeID = &invitee.ID
	}

	b := &model.Buddy{
		InviterID:    inviterID,
		InviteeID:    inviteeID,
		InviteeEmail: inviteeEmail,
		Status:       model.BuddyPending,
	}
	if err := s.buddyRepo.CreateBuddy(ctx, b); err != nil {
		return "", err
	}
	s.logger.Info().Str("inviter_id", inviterID).Str("invitee_email", inviteeEmail).Msg("Buddy invite sent")

	if invitee != nil {
		return "Buddy invite sent! They can accept it in their settings.", nil
	}
	return "Invite sent! They'll see it when they sign up with this email.", nil
}

func (s *buddyService) Accept(ctx context.Context, inviteeID, inviteeEmail, buddyID string) error {
	buddy, err := s.buddyRepo.FindPendingForInvitee(ctx, buddyID, inviteeEmail)
	if err != nil {
		return err
	}
	if buddy == nil {
		return ErrBuddyNotFound
	}
	return s.buddyRepo.UpdateStatus(ctx, buddyID, model.BuddyAccepted, &inviteeID)
}

func (s *buddyService) Decline(ctx context.Context, inviteeEmail, buddyID string) error {
	buddy, err := s.buddyRepo.FindPendingForInvitee(ctx, buddyID, inviteeEmail)
	if err != nil {
		return err
	}
	if buddy == nil {
		return ErrBuddyNotFound
	}
	return s.buddyRepo.UpdateStatus(ctx, buddyID, model.BuddyDeclined, nil)
}

func (s *buddyService) Remove(ctx context.Context, userID, buddyID string) error {
	buddy, err := s.buddyRepo.FindForParty(ctx, buddyID, userID)
	if err != nil {
		return err
	}
	if buddy == nil {
		return ErrBuddyNotFound
	}
	// Hard delete regardless of status: cancels a pending invite or severs
	// an accepted relationship.
	return s.buddyRepo.DeleteBuddy(ctx, buddyID)
}

func (s *buddyService) ActiveCount(ctx context.Context, userID string) (int, error) {
	return s.buddyRepo.CountActive(ctx, userID)
}

func (s *buddyService) Progress(ctx context.Context, userID string) ([]model.BuddyProgress, error) {
	buddies, err := s.buddyRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	windowStart, _ := timeutil.DayBoundsAgo(now, progressWindowDays-1)

	progress := []model.BuddyProgress{}
	for _, buddy := range buddies {
		peerID := buddy.InviterID
		if buddy.InviterID == userID {
			if buddy.InviteeID == nil {
				continue
			}
			peerID = *buddy.InviteeID
		}

		peer, err := s.userRepo.GetUserByID(ctx, peerID)
		if err != nil {
			return nil, err
		}
		if peer == nil {
			continue
		}

		p := model.BuddyProgress{
			BuddyID:  buddy.ID,
			Username: peer.Username,
		}

		streak, err := s.streakRepo.GetStreak(ctx, peerID)
		if err != nil {
			return nil, err
		}
		if streak != nil {
			p.StreakDays = streak.CurrentStreakDays
			p.StartedAt = streak.StartedAt
		}

		relapses, err := s.relapseRepo.ListSince(ctx, peerID, windowStart)
		if err != nil {
			return nil, err
		}
		p.DayHistory = dayHistory(relapses, now)

		progress = append(progress, p)
	}
	return progress, nil
}

// dayHistory builds the 14-element clean/relapsed sequence, oldest day
// first: false for any day containing a relapse.
func dayHistory(relapses []model.Relapse, now time.Time) []bool {
	history := make([]bool, 0, progressWindowDays)
	for i := progressWindowDays - 1; i >= 0; i-- {
		dayStart, dayEnd := timeutil.DayBoundsAgo(now, i)
		clean := true
		for _, rel := range relapses {
			if !rel.CreatedAt.Before(dayStart) && !rel.CreatedAt.After(dayEnd) {
				clean = false
				break
			}
		}
		history = append(history, clean)
	}
	return history
}

func (s *buddyService) PendingRequests(ctx context.Context, inviteeEmail string) ([]model.PendingBuddyRequest, error) {
	buddies, err := s.buddyRepo.ListPendingByInviteeEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}

	requests := []model.PendingBuddyRequest{}
	for _, buddy := range buddies {
		inviter, err := s.userRepo.GetUserByID(ctx, buddy.InviterID)
		if err != nil {
			return nil, err
		}
		if inviter == nil {
			continue
		}
		requests = append(requests, model.PendingBuddyRequest{
			ID:              buddy.ID,
			InviterUsername: inviter.Username,
			InviterEmail:    inviter.Email,
			CreatedAt:       buddy.CreatedAt,
		})
	}
	return requests, nil
}

func (s *buddyService) SentInvites(ctx context.Context, inviterID string) ([]model.Buddy, error) {
	return s.buddyRepo.ListPendingByInviter(ctx, inviterID)
}
