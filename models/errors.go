package models

import "errors"

// Validation errors: nothing was mutated, the caller can retry with
// corrected input.
var (
	ErrInsufficientCards     = errors.New("at least 3 car cards are required")
	ErrInvalidAssignment     = errors.New("invalid slot assignment")
	ErrSelfChallenge         = errors.New("cannot challenge yourself")
	ErrWeeklyLimitExceeded   = errors.New("weekly challenge limit reached")
	ErrDuplicateOpenChallenge = errors.New("an open challenge already exists for this category")
	ErrNotTunable             = errors.New("only car cards can be tuned")
	ErrUnknownMod             = errors.New("unknown mod kind")
	ErrInvalidCategory        = errors.New("unknown race category")
)

// Economic errors: no partial debit ever occurs.
var (
	ErrInsufficientXP  = errors.New("not enough available XP")
	ErrMaxStageReached = errors.New("mod is already at maximum stage")
)

// Lifecycle errors: the client acted on stale state and must re-fetch.
var (
	ErrAlreadyResolved          = errors.New("challenge already resolved")
	ErrCannotAcceptOwnChallenge = errors.New("cannot accept your own challenge")
	ErrCarLocked                = errors.New("car is referenced by an active challenge")
	ErrChallengeExpired         = errors.New("challenge has expired")
	ErrNotFound                 = errors.New("not found")
)
