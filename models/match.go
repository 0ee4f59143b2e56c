package models

import "time"

// MatchResult is a 1/X/2 outcome.
type MatchResult string

const (
	ResultHome MatchResult = "1"
	ResultDraw MatchResult = "X"
	ResultAway MatchResult = "2"
)

// Valid reports whether r is one of the three allowed outcomes.
func (r MatchResult) Valid() bool {
	switch r {
	case ResultHome, ResultDraw, ResultAway:
		return true
	}
	return false
}

// Match is a single fixture. Deadline is the pick cutoff and is kept separate
// from kickoff so the admin can close picks early. Result stays nil until the
// admin enters it, and may be corrected any number of times afterwards.
type Match struct {
	ID         int          `json:"id" db:"id"`
	MatchdayID int          `json:"matchday_id" db:"matchday_id"`
	HomeTeam   string       `json:"home_team" db:"home_team"`
	AwayTeam   string       `json:"away_team" db:"away_team"`
	Kickoff    time.Time    `json:"kickoff" db:"kickoff"`
	Deadline   time.Time    `json:"deadline" db:"deadline"`
	Result     *MatchResult `json:"result,omitempty" db:"result"`
}
