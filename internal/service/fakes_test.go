package service

// In-memory repository fakes. They mirror the SQL semantics closely enough
// for the services to be exercised without a database.

import (
	"context"
	"sort"
	"strings"
	"time"

	"urge/internal/model"

	"github.com/google/uuid"
)

func modelStreak(userID string, current, longest int, startedAt, lastResetAt *time.Time) *model.Streak {
	return &model.Streak{
		UserID:            userID,
		CurrentStreakDays: current,
		LongestStreakDays: longest,
		StartedAt:         startedAt,
		LastResetAt:       lastResetAt,
	}
}

type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type memRelapseRepo struct {
	relapses map[string][]model.Relapse
}

func newMemRelapseRepo() *memRelapseRepo {
	return &memRelapseRepo{relapses: map[string][]model.Relapse{}}
}

func (r *memRelapseRepo) insert(rel model.Relapse) {
	r.relapses[rel.UserID] = append(r.relapses[rel.UserID], rel)
}

func (r *memRelapseRepo) ListRecent(_ context.Context, userID string, limit int) ([]model.Relapse, error) {
	out := append([]model.Relapse{}, r.relapses[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRelapseRepo) ListSince(_ context.Context, userID string, since time.Time) ([]model.Relapse, error) {
	out := []model.Relapse{}
	for _, rel := range r.relapses[userID] {
		if !rel.CreatedAt.Before(since) {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRelapseRepo) Count(_ context.Context, userID string) (int, error) {
	return len(r.relapses[userID]), nil
}

type memStreakRepo struct {
	streaks  map[string]*model.Streak
	relapses *memRelapseRepo
}

func newMemStreakRepo(relapses *memRelapseRepo) *memStreakRepo {
	return &memStreakRepo{streaks: map[string]*model.Streak{}, relapses: relapses}
}

func (r *memStreakRepo) GetStreak(_ context.Context, userID string) (*model.Streak, error) {
	if s, ok := r.streaks[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memStreakRepo) UpsertStart(_ context.Context, userID string, now time.Time) error {
	s, ok := r.streaks[userID]
	if !ok {
		s = &model.Streak{UserID: userID, CreatedAt: now}
		r.streaks[userID] = s
	}
	started := now
	reset := now
	s.CurrentStreakDays = 0
	s.StartedAt = &started
	s.LastResetAt = &reset
	s.UpdatedAt = now
	return nil
}

func (r *memStreakRepo) UpdateCurrentDays(_ context.Context, userID string, days int) error {
	if s, ok := r.streaks[userID]; ok {
		s.CurrentStreakDays = days
	}
	return nil
}

func (r *memStreakRepo) RelapseAndReset(_ context.Context, rel *model.Relapse, longestDays int, now time.Time) error {
	if rel.ID == "" {
		rel.ID = uuid.NewString()
	}
	rel.CreatedAt = now
	r.relapses.insert(*rel)

	s, ok := r.streaks[rel.UserID]
	if !ok {
		s = &model.Streak{UserID: rel.UserID, CreatedAt: now}
		r.streaks[rel.UserID] = s
	}
	reset := now
	s.CurrentStreakDays = 0
	s.LongestStreakDays = longestDays
	s.StartedAt = nil
	s.LastResetAt = &reset
	s.UpdatedAt = now
	return nil
}

type memJournalRepo struct {
	journals map[string][]model.Journal
	now      func() time.Time
}

func newMemJournalRepo(now func() time.Time) *memJournalRepo {
	return &memJournalRepo{journals: map[string][]model.Journal{}, now: now}
}

func (r *memJournalRepo) CreateJournal(_ context.Context, j *model.Journal) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	j.CreatedAt = r.now()
	r.journals[j.UserID] = append(r.journals[j.UserID], *j)
	return nil
}

func (r *memJournalRepo) CountBetween(_ context.Context, userID string, start, end time.Time) (int, error) {
	count := 0
	for _, j := range r.journals[userID] {
		if !j.CreatedAt.Before(start) && !j.CreatedAt.After(end) {
			count++
		}
	}
	return count, nil
}

func (r *memJournalRepo) ListBetween(_ context.Context, userID string, start, end time.Time) ([]model.Journal, error) {
	out := []model.Journal{}
	for _, j := range r.journals[userID] {
		if !j.CreatedAt.Before(start) && !j.CreatedAt.After(end) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memJournalRepo) ListRecent(_ context.Context, userID string, limit int) ([]model.Journal, error) {
	out := append([]model.Journal{}, r.journals[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJournalRepo) DeleteOwned(_ context.Context, userID, journalID string) (bool, error) {
	entries := r.journals[userID]
	for i, j := range entries {
		if j.ID == journalID {
			r.journals[userID] = append(entries[:i], entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memBuddyRepo struct {
	buddies map[string]*model.Buddy
}

func newMemBuddyRepo() *memBuddyRepo {
	return &memBuddyRepo{buddies: map[string]*model.Buddy{}}
}

func (r *memBuddyRepo) CreateBuddy(_ context.Context, b *model.Buddy) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.InviteeEmail = strings.ToLower(b.InviteeEmail)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.buddies[b.ID] = &cp
	return nil
}

func (r *memBuddyRepo) FindPendingForInvitee(_ context.Context, buddyID, inviteeEmail string) (*model.Buddy, error) {
	b, ok := r.buddies[buddyID]
	if !ok || b.Status != model.BuddyPending || b.InviteeEmail != strings.ToLower(inviteeEmail) {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBuddyRepo) FindNonTerminal(_ context.Context, inviterID, inviteeEmail string) (*model.Buddy, error) {
	inviteeEmail = strings.ToLower(inviteeEmail)
	for _, b := range r.buddies {
		if b.InviterID == inviterID && b.InviteeEmail == inviteeEmail &&
			(b.Status == model.BuddyPending || b.Status == model.BuddyAccepted) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBuddyRepo) FindForParty(_ context.Context, buddyID, userID string) (*model.Buddy, error) {
	b, ok := r.buddies[buddyID]
	if !ok {
		return nil, nil
	}
	if b.InviterID != userID && (b.InviteeID == nil || *b.InviteeID != userID) {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBuddyRepo) CountActive(_ context.Context, inviterID string) (int, error) {
	count := 0
	for _, b := range r.buddies {
		if b.InviterID == inviterID && (b.Status == model.BuddyPending || b.Status == model.BuddyAccepted) {
			count++
		}
	}
	return count, nil
}

func (r *memBuddyRepo) UpdateStatus(_ context.Context, buddyID string, status model.BuddyStatus, inviteeID *string) error {
	if b, ok := r.buddies[buddyID]; ok {
		b.Status = status
		if inviteeID != nil {
			id := *inviteeID
			b.InviteeID = &id
		}
		b.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memBuddyRepo) DeleteBuddy(_ context.Context, buddyID string) error {
	delete(r.buddies, buddyID)
	return nil
}

func (r *memBuddyRepo) ListAccepted(_ context.Context, userID string) ([]model.Buddy, error) {
	out := []model.Buddy{}
	for _, b := range r.buddies {
		if b.Status != model.BuddyAccepted {
			continue
		}
		if b.InviterID == userID || (b.InviteeID != nil && *b.InviteeID == userID) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memBuddyRepo) ListPendingByInviteeEmail(_ context.Context, inviteeEmail string) ([]model.Buddy, error) {
	inviteeEmail = strings.ToLower(inviteeEmail)
	out := []model.Buddy{}
	for _, b := range r.buddies {
		if b.Status == model.BuddyPending && b.InviteeEmail == inviteeEmail {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memBuddyRepo) ListPendingByInviter(_ context.Context, inviterID string) ([]model.Buddy, error) {
	out := []model.Buddy{}
	for _, b := range r.buddies {
		if b.Status == model.BuddyPending && b.InviterID == inviterID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memBuddyRepo) LinkInvitee(_ context.Context, inviteeEmail, inviteeID string) error {
	inviteeEmail = strings.ToLower(inviteeEmail)
	for _, b := range r.buddies {
		if b.Status == model.BuddyPending && b.InviteeEmail == inviteeEmail && b.InviteeID == nil {
			id := inviteeID
			b.InviteeID = &id
		}
	}
	return nil
}
