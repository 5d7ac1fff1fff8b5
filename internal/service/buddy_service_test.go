package service

import (
	"context"
	"testing"
	"time"

	"urge/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buddyFixture struct {
	svc      *buddyService
	buddies  *memBuddyRepo
	users    *memUserRepo
	streaks  *memStreakRepo
	relapses *memRelapseRepo
	now      time.Time
}

func newBuddyFixture(t *testing.T) *buddyFixture {
	t.Helper()
	f := &buddyFixture{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	f.buddies = newMemBuddyRepo()
	f.users = newMemUserRepo()
	f.relapses = newMemRelapseRepo()
	f.streaks = newMemStreakRepo(f.relapses)
	f.svc = NewBuddyService(f.buddies, f.users, f.streaks, f.relapses, zerolog.Nop()).(*buddyService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *buddyFixture) addUser(t *testing.T, id, username, email string) {
	t.Helper()
	require.NoError(t, f.users.CreateUser(context.Background(), &model.User{
		ID: id, Username: username, Email: email,
	}))
}

func TestInviteRegisteredUserLinksImmediately(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")

	msg, err := f.svc.Invite(context.Background(), "alice", "Bob@Example.com")
	require.NoError(t, err)
	assert.Contains(t, msg, "accept it in their settings")

	invites, err := f.svc.SentInvites(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "bob@example.com", invites[0].InviteeEmail)
	require.NotNil(t, invites[0].InviteeID)
	assert.Equal(t, "bob", *invites[0].InviteeID)
}

func TestInviteUnregisteredEmailLinksLater(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")

	msg, err := f.svc.Invite(context.Background(), "alice", "newcomer@example.com")
	require.NoError(t, err)
	assert.Contains(t, msg, "sign up with this email")

	invites, err := f.svc.SentInvites(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Nil(t, invites[0].InviteeID)
}

func TestInviteSelfRejectedRegardlessOfCase(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "ALICE@Example.COM")
	assert.ErrorIs(t, err, ErrSelfInvite)
}

func TestInviteCapacityLimit(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "one@example.com")
	require.NoError(t, err)
	_, err = f.svc.Invite(context.Background(), "alice", "two@example.com")
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), "alice", "three@example.com")
	assert.ErrorIs(t, err, ErrBuddyLimit)
}

func TestDeclinedInviteFreesCapacity(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "bob@example.com")
	require.NoError(t, err)
	_, err = f.svc.Invite(context.Background(), "alice", "two@example.com")
	require.NoError(t, err)

	requests, err := f.svc.PendingRequests(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NoError(t, f.svc.Decline(context.Background(), "bob@example.com", requests[0].ID))

	// DECLINED is terminal and no longer counts against the cap.
	_, err = f.svc.Invite(context.Background(), "alice", "three@example.com")
	assert.NoError(t, err)
}

func TestDuplicateInviteMessages(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "bob@example.com")
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), "alice", "bob@example.com")
	assert.ErrorIs(t, err, ErrInvitePending)

	requests, err := f.svc.PendingRequests(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NoError(t, f.svc.Accept(context.Background(), "bob", "bob@example.com", requests[0].ID))

	_, err = f.svc.Invite(context.Background(), "alice", "bob@example.com")
	assert.ErrorIs(t, err, ErrAlreadyBuddy)
}

func TestAcceptFillsInviteeID(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "carol@example.com")
	require.NoError(t, err)
	f.addUser(t, "carol", "carol", "carol@example.com")

	requests, err := f.svc.PendingRequests(context.Background(), "carol@example.com")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "alice", requests[0].InviterUsername)

	require.NoError(t, f.svc.Accept(context.Background(), "carol", "carol@example.com", requests[0].ID))

	b := f.buddies.buddies[requests[0].ID]
	assert.Equal(t, model.BuddyAccepted, b.Status)
	require.NotNil(t, b.InviteeID)
	assert.Equal(t, "carol", *b.InviteeID)
}

func TestAcceptRequiresMatchingPendingEdge(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "bob@example.com")
	require.NoError(t, err)
	requests, err := f.svc.PendingRequests(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Len(t, requests, 1)

	// Wrong invitee email cannot accept someone else's invite.
	err = f.svc.Accept(context.Background(), "eve", "eve@example.com", requests[0].ID)
	assert.ErrorIs(t, err, ErrBuddyNotFound)

	require.NoError(t, f.svc.Accept(context.Background(), "bob", "bob@example.com", requests[0].ID))

	// Accepting twice fails: the edge is no longer PENDING.
	err = f.svc.Accept(context.Background(), "bob", "bob@example.com", requests[0].ID)
	assert.ErrorIs(t, err, ErrBuddyNotFound)
}

func TestRemoveByEitherParty(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "bob@example.com")
	require.NoError(t, err)
	requests, err := f.svc.PendingRequests(context.Background(), "bob@example.com")
	require.NoError(t, err)
	buddyID := requests[0].ID
	require.NoError(t, f.svc.Accept(context.Background(), "bob", "bob@example.com", buddyID))

	err = f.svc.Remove(context.Background(), "eve", buddyID)
	assert.ErrorIs(t, err, ErrBuddyNotFound)

	require.NoError(t, f.svc.Remove(context.Background(), "bob", buddyID))
	assert.NotContains(t, f.buddies.buddies, buddyID)

	count, err := f.svc.ActiveCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRemoveCancelsPendingInvite(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")

	_, err := f.svc.Invite(context.Background(), "alice", "pending@example.com")
	require.NoError(t, err)
	invites, err := f.svc.SentInvites(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, invites, 1)

	require.NoError(t, f.svc.Remove(context.Background(), "alice", invites[0].ID))
	assert.Empty(t, f.buddies.buddies)
}

func acceptedPair(t *testing.T, f *buddyFixture, inviterID, inviteeID, inviteeEmail string) string {
	t.Helper()
	_, err := f.svc.Invite(context.Background(), inviterID, inviteeEmail)
	require.NoError(t, err)
	requests, err := f.svc.PendingRequests(context.Background(), inviteeEmail)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NoError(t, f.svc.Accept(context.Background(), inviteeID, inviteeEmail, requests[0].ID))
	return requests[0].ID
}

func TestProgressMarksRelapseDay(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")
	buddyID := acceptedPair(t, f, "alice", "bob", "bob@example.com")

	started := f.now.Add(-6 * 24 * time.Hour)
	f.streaks.streaks["bob"] = modelStreak("bob", 6, 6, &started, &started)

	// Bob relapsed yesterday at 13:00.
	yesterday := time.Date(2025, time.March, 9, 13, 0, 0, 0, time.UTC)
	f.relapses.insert(model.Relapse{ID: "r-1", UserID: "bob", StreakDays: 2, CreatedAt: yesterday})

	progress, err := f.svc.Progress(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, progress, 1)

	p := progress[0]
	assert.Equal(t, buddyID, p.BuddyID)
	assert.Equal(t, "bob", p.Username)
	assert.Equal(t, 6, p.StreakDays)
	require.Len(t, p.DayHistory, 14)
	for i, clean := range p.DayHistory {
		if i == 12 {
			assert.False(t, clean, "yesterday (index 12) must be marked relapsed")
		} else {
			assert.True(t, clean, "day index %d should be clean", i)
		}
	}
}

func TestProgressAllCleanWithoutRelapses(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")
	acceptedPair(t, f, "alice", "bob", "bob@example.com")

	progress, err := f.svc.Progress(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, progress, 1)

	// No streak row yet: zero days, nil start, fully clean history.
	assert.Equal(t, 0, progress[0].StreakDays)
	assert.Nil(t, progress[0].StartedAt)
	require.Len(t, progress[0].DayHistory, 14)
	for _, clean := range progress[0].DayHistory {
		assert.True(t, clean)
	}
}

func TestProgressIsVisibleFromBothSides(t *testing.T) {
	f := newBuddyFixture(t)
	f.addUser(t, "alice", "alice", "alice@example.com")
	f.addUser(t, "bob", "bob", "bob@example.com")
	acceptedPair(t, f, "alice", "bob", "bob@example.com")

	fromAlice, err := f.svc.Progress(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, fromAlice, 1)
	assert.Equal(t, "bob", fromAlice[0].Username)

	fromBob, err := f.svc.Progress(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, fromBob, 1)
	assert.Equal(t, "alice", fromBob[0].Username)
}
