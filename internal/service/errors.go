package service

import "errors"

// Domain errors returned to callers as expected outcomes of normal use.
// Handlers render these inline; anything else is treated as a persistence
// failure and surfaces as a generic error.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserNotFound     = errors.New("user not found")

	ErrJournalEmpty      = errors.New("journal content cannot be empty")
	ErrJournalTooLong    = errors.New("journal content cannot exceed 500 characters")
	ErrJournalDailyLimit = errors.New("you can only write 3 journal entries per day")
	ErrJournalNotFound   = errors.New("journal not found")

	ErrInvalidEmail  = errors.New("please enter a valid email address")
	ErrSelfInvite    = errors.New("you can't add yourself as a buddy")
	ErrBuddyLimit    = errors.New("you can only have up to 2 buddies")
	ErrInvitePending = errors.New("you already sent an invite to this email")
	ErrAlreadyBuddy  = errors.New("this person is already your buddy")
	ErrBuddyNotFound = errors.New("buddy request not found")
)

// IsDomainError reports whether err is one of the expected domain errors
// whose message is safe to show to the end user.
func IsDomainError(err error) bool {
	for _, domainErr := range []error{
		ErrNotAuthenticated,
		ErrUserNotFound,
		ErrJournalEmpty,
		ErrJournalTooLong,
		ErrJournalDailyLimit,
		ErrJournalNotFound,
		ErrInvalidEmail,
		ErrSelfInvite,
		ErrBuddyLimit,
		ErrInvitePending,
		ErrAlreadyBuddy,
		ErrBuddyNotFound,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
