package models

// StandingEntry is one row of a league leaderboard. TotalPoints is always
// the sum of the component columns; nothing is persisted, the whole table is
// recomputed from scratch on every read.
type StandingEntry struct {
	UserID           int    `json:"user_id"`
	Nickname         string `json:"nickname"`
	MatchPoints      int    `json:"match_points"`
	CorrectPicks     int    `json:"correct_picks"`
	ManualPoints     int    `json:"manual_points"`
	PreseasonPoints  int    `json:"preseason_points"`
	SupercoppaPoints int    `json:"supercoppa_points"`
	CoppaPoints      int    `json:"coppa_points"`
	TotalPoints      int    `json:"total_points"`
}

// ManualAdjustment is an admin-entered correction added directly to a
// member's total.
type ManualAdjustment struct {
	LeagueID int `json:"league_id" db:"league_id"`
	UserID   int `json:"user_id" db:"user_id"`
	Points   int `json:"points" db:"points"`
}
