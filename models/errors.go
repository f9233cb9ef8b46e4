package models

import "errors"

// Domain errors. Controllers map these to HTTP status codes with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrVoteNotFound       = errors.New("vote not found")
	ErrActionItemNotFound = errors.New("action item not found")

	ErrNotFacilitator = errors.New("only the session facilitator can perform this action")
	ErrNotAuthor      = errors.New("only the card author can perform this action")
	ErrNotVoteOwner   = errors.New("cannot remove another user's vote")
	ErrForbidden      = errors.New("only the facilitator or item owner can perform this action")

	ErrPhaseViolation       = errors.New("operation not allowed in current session phase")
	ErrAlreadyVoted         = errors.New("already voted on this item")
	ErrVoteLimitReached     = errors.New("vote limit for this session reached")
	ErrSessionLimitReached  = errors.New("session limit for this billing period reached")
	ErrParticipantLimit     = errors.New("participant limit for this session reached")
	ErrPlanRestriction      = errors.New("feature not available on current plan")
	ErrInvalidTarget        = errors.New("target does not exist or belongs to another session")
	ErrInvalidTemplate      = errors.New("invalid template configuration")
	ErrInvalidPhase         = errors.New("invalid phase value")
	ErrInvalidStatus        = errors.New("invalid action item status")
	ErrTimerNotConfigured   = errors.New("timer duration not set for this session")
)
