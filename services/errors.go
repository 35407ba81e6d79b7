package services

import "errors"

// Shared errors used across services and mapped to HTTP codes in handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed          = errors.New("validation failed")
	ErrPasswordTooShort          = errors.New("password is too short")
	ErrNoPlayerProfile           = errors.New("no player profile associated with this account")
	ErrNotEligible               = errors.New("player is not eligible for this tournament")
	ErrAlreadyRegistered         = errors.New("already registered for this tournament")
	ErrNotRegistered             = errors.New("not registered for this tournament")
	ErrTournamentFull            = errors.New("tournament is full")
	ErrTournamentFinished        = errors.New("tournament has already finished")
	ErrTournamentCancelled       = errors.New("tournament has been cancelled")
	ErrCannotCancelFinished      = errors.New("cannot cancel registration for a finished tournament")
	ErrRegistrationMismatch      = errors.New("registration does not belong to this tournament")
	ErrPlayerHasRegistrations    = errors.New("player has tournament registrations and cannot be deleted")
	ErrTournamentHasRegistration = errors.New("tournament has registrations and cannot be deleted")

	// Conflicts
	ErrEmailConflict      = errors.New("email address is already in use")
	ErrPlayerEmailInUse   = errors.New("a player profile with this email already exists")
	ErrRegistrationStale  = errors.New("registration state changed, please retry")
	ErrTournamentTitleReq = errors.New("tournament title is required")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found (more context than the generic ErrNotFound)
	ErrUserNotFound         = errors.New("user not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	// Tournament field validation
	ErrTournamentInvalidDateRange = errors.New("tournament end date must not be before start date")
	ErrTournamentInvalidCapacity  = errors.New("tournament max players must be positive")
	ErrTournamentInvalidStatus    = errors.New("invalid tournament status provided")
	ErrTournamentInvalidTransit   = errors.New("invalid tournament status transition")
	ErrTournamentInvalidType      = errors.New("invalid tournament type provided")
	ErrTournamentInvalidGender    = errors.New("invalid tournament gender restriction provided")
)
