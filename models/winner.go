package models

import "time"

// DeclarationMethod records how a league winner was determined.
type DeclarationMethod string

const (
	DeclarationClearLeader DeclarationMethod = "clear_leader"
	DeclarationTiebreak    DeclarationMethod = "tiebreak"
	DeclarationManual      DeclarationMethod = "manual"
)

// WinnerDeclaration is the end-of-season record for a league. At most one
// exists per league and it is immutable once created.
type WinnerDeclaration struct {
	ID           int               `json:"id" db:"id"`
	LeagueID     int               `json:"league_id" db:"league_id"`
	WinnerUserID int               `json:"winner_user_id" db:"winner_user_id"`
	DeclaredAt   time.Time         `json:"declared_at" db:"declared_at"`
	Method       DeclarationMethod `json:"method" db:"method"`
	Description  string            `json:"description" db:"description"`

	Winner *User `json:"winner,omitempty" db:"-"`
}
