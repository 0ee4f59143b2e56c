package models

// Matchday groups the matches of one round within a league.
type Matchday struct {
	ID          int    `json:"id" db:"id"`
	LeagueID    int    `json:"league_id" db:"league_id"`
	Name        string `json:"name" db:"name"`
	IsCompleted bool   `json:"is_completed" db:"is_completed"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
