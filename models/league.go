package models

import "time"

// League is a private prediction pool. The creator becomes the league admin
// and stays admin for the league's lifetime.
type League struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	JoinCode  string    `json:"join_code" db:"join_code"`
	AdminID   int       `json:"admin_id" db:"admin_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	CrestKey  *string   `json:"-" db:"crest_key"`
	CrestURL  *string   `json:"crest_url,omitempty" db:"-"`

	// Optional linked data, populated by the service layer.
	Members []LeagueMember `json:"members,omitempty" db:"-"`
}

type LeagueMember struct {
	LeagueID int       `json:"league_id" db:"league_id"`
	UserID   int       `json:"user_id" db:"user_id"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`

	User *User `json:"user,omitempty" db:"-"`
}
