package services

import (
	"errors"
	"fmt"
	"strings"
)

// Shared service errors, mapped to HTTP statuses in the handlers package.
var (
	// Resource not found (generic plus per-entity variants for context)
	ErrNotFound            = errors.New("requested resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrLeagueNotFound      = errors.New("league not found")
	ErrMatchdayNotFound    = errors.New("matchday not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrContestNotFound     = errors.New("contest not found")
	ErrDeclarationNotFound = errors.New("winner declaration not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrLeagueNameRequired  = errors.New("league name is required")
	ErrInvalidPickValue    = errors.New("pick value must be 1, X or 2")
	ErrInvalidMatchResult  = errors.New("match result must be 1, X or 2")
	ErrInvalidContestType  = errors.New("unknown contest type")
	ErrInvalidDeadline     = errors.New("deadline must not be after kickoff")
	ErrLeagueHasNoMembers  = errors.New("league has no members")
	ErrWinnerNotTiedMember = errors.New("selected winner is not among the tied users")
	ErrWinnerNotMember     = errors.New("selected winner is not a league member")

	// Lock / lifecycle gating
	ErrPickDeadlinePassed       = errors.New("pick deadline has passed")
	ErrContestLocked            = errors.New("contest is locked for submissions")
	ErrContestNotLocked         = errors.New("contest must be locked before confirming results")
	ErrContestAlreadyConfirmed  = errors.New("contest results already confirmed")
	ErrContestSettingsImmutable = errors.New("contest settings can only be changed while open")
	ErrWinnerAlreadyDeclared    = errors.New("league winner already declared")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserNicknameConflict = errors.New("nickname is already in use")
	ErrLeagueNameConflict   = errors.New("league name is already in use")
	ErrAlreadyMember        = errors.New("user is already a member of this league")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
)

// ValidationFieldsError wraps ErrValidationFailed with the offending fields so
// the handler can report them back.
type ValidationFieldsError struct {
	Fields []string
}

func (e *ValidationFieldsError) Error() string {
	return fmt.Sprintf("validation failed: missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationFieldsError) Unwrap() error { return ErrValidationFailed }

// TiedUser is one entry of the group sharing the top score when a winner
// cannot be declared automatically.
type TiedUser struct {
	UserID   int    `json:"user_id"`
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
}

// TieRequiresManualSelectionError is a recoverable condition, not a hard
// failure: the caller is expected to present the tied users to the league
// admin and retry with an explicit winner.
type TieRequiresManualSelectionError struct {
	TiedUsers []TiedUser
}

func (e *TieRequiresManualSelectionError) Error() string {
	return fmt.Sprintf("%d users are tied for first place, manual selection required", len(e.TiedUsers))
}
