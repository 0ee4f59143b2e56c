package models

import "time"

// Pick is a user's 1/X/2 prediction for a single match. One row per
// (match, user); resubmitting before the deadline updates the row in place.
type Pick struct {
	MatchID      int         `json:"match_id" db:"match_id"`
	UserID       int         `json:"user_id" db:"user_id"`
	Value        MatchResult `json:"value" db:"value"`
	SubmittedAt  time.Time   `json:"submitted_at" db:"submitted_at"`
	LastModified time.Time   `json:"last_modified" db:"last_modified"`

	User *User `json:"user,omitempty" db:"-"`
}
