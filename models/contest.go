package models

import (
	"fmt"
	"time"
)

// ContestType identifies one of the league-scoped side-contests.
type ContestType string

const (
	ContestPreseason   ContestType = "preseason"
	ContestSupercoppa  ContestType = "supercoppa"
	ContestCoppaItalia ContestType = "coppa_italia"
)

// Valid reports whether t names a known contest.
func (t ContestType) Valid() bool {
	switch t {
	case ContestPreseason, ContestSupercoppa, ContestCoppaItalia:
		return true
	}
	return false
}

// ContestState is the lifecycle phase of a contest instance.
type ContestState string

const (
	ContestStateOpen             ContestState = "open"
	ContestStateLocked           ContestState = "locked"
	ContestStateResultsConfirmed ContestState = "results_confirmed"
)

// ContestOutcome is the tagged union of per-contest prediction/result shapes.
// The same shapes are used both for user predictions and for the official
// outcome entered by the admin at confirmation time.
type ContestOutcome interface {
	ContestType() ContestType
	// MissingFields returns the names of required fields that are empty.
	MissingFields() []string
}

// PreseasonOutcome holds the three season-long calls: champion, last place
// and top scorer. Each field is scored independently.
type PreseasonOutcome struct {
	Winner    string `json:"winner"`
	Bottom    string `json:"bottom"`
	TopScorer string `json:"top_scorer"`
}

func (PreseasonOutcome) ContestType() ContestType { return ContestPreseason }

func (o PreseasonOutcome) MissingFields() []string {
	var missing []string
	if o.Winner == "" {
		missing = append(missing, "winner")
	}
	if o.Bottom == "" {
		missing = append(missing, "bottom")
	}
	if o.TopScorer == "" {
		missing = append(missing, "top_scorer")
	}
	return missing
}

// SupercoppaOutcome holds both finalists plus the winner. Each field is
// scored independently, so naming one finalist still earns points.
type SupercoppaOutcome struct {
	Finalist1 string `json:"finalist1"`
	Finalist2 string `json:"finalist2"`
	Winner    string `json:"winner"`
}

func (SupercoppaOutcome) ContestType() ContestType { return ContestSupercoppa }

func (o SupercoppaOutcome) MissingFields() []string {
	var missing []string
	if o.Finalist1 == "" {
		missing = append(missing, "finalist1")
	}
	if o.Finalist2 == "" {
		missing = append(missing, "finalist2")
	}
	if o.Winner == "" {
		missing = append(missing, "winner")
	}
	return missing
}

// CoppaItaliaOutcome is winner-only.
type CoppaItaliaOutcome struct {
	Winner string `json:"winner"`
}

func (CoppaItaliaOutcome) ContestType() ContestType { return ContestCoppaItalia }

func (o CoppaItaliaOutcome) MissingFields() []string {
	if o.Winner == "" {
		return []string{"winner"}
	}
	return nil
}

// OutcomeColumns flattens an outcome into the five nullable storage columns
// shared by all contest types. Fields that do not apply stay nil.
func OutcomeColumns(o ContestOutcome) (winner, bottom, topScorer, finalist1, finalist2 *string) {
	strPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	switch v := o.(type) {
	case PreseasonOutcome:
		return strPtr(v.Winner), strPtr(v.Bottom), strPtr(v.TopScorer), nil, nil
	case SupercoppaOutcome:
		return strPtr(v.Winner), nil, nil, strPtr(v.Finalist1), strPtr(v.Finalist2)
	case CoppaItaliaOutcome:
		return strPtr(v.Winner), nil, nil, nil, nil
	}
	return nil, nil, nil, nil, nil
}

// OutcomeFromColumns rebuilds the typed outcome for t from the flat storage
// columns. Nil columns become empty fields.
func OutcomeFromColumns(t ContestType, winner, bottom, topScorer, finalist1, finalist2 *string) (ContestOutcome, error) {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	switch t {
	case ContestPreseason:
		return PreseasonOutcome{Winner: deref(winner), Bottom: deref(bottom), TopScorer: deref(topScorer)}, nil
	case ContestSupercoppa:
		return SupercoppaOutcome{Finalist1: deref(finalist1), Finalist2: deref(finalist2), Winner: deref(winner)}, nil
	case ContestCoppaItalia:
		return CoppaItaliaOutcome{Winner: deref(winner)}, nil
	}
	return nil, fmt.Errorf("unknown contest type %q", t)
}

// ContestSettings is the per-(league, contest type) instance record.
type ContestSettings struct {
	ID                 int            `json:"id" db:"id"`
	LeagueID           int            `json:"league_id" db:"league_id"`
	Type               ContestType    `json:"type" db:"contest_type"`
	LockAt             time.Time      `json:"lock_at" db:"lock_at"`
	Locked             bool           `json:"locked" db:"locked"`
	Official           ContestOutcome `json:"official,omitempty" db:"-"`
	ResultsConfirmedAt *time.Time     `json:"results_confirmed_at,omitempty" db:"results_confirmed_at"`
}

// State returns the lifecycle phase at the given instant. The lock deadline
// is compared against now on every call so callers re-evaluate it at the
// moment of the mutating operation.
func (s *ContestSettings) State(now time.Time) ContestState {
	switch {
	case s.ResultsConfirmedAt != nil:
		return ContestStateResultsConfirmed
	case s.Locked || !now.Before(s.LockAt):
		return ContestStateLocked
	default:
		return ContestStateOpen
	}
}

// ContestBet is one user's prediction for a contest instance. Points stays 0
// until the contest results are confirmed.
type ContestBet struct {
	ID           int            `json:"id" db:"id"`
	LeagueID     int            `json:"league_id" db:"league_id"`
	Type         ContestType    `json:"type" db:"contest_type"`
	UserID       int            `json:"user_id" db:"user_id"`
	Prediction   ContestOutcome `json:"prediction" db:"-"`
	Points       int            `json:"points" db:"points"`
	SubmittedAt  time.Time      `json:"submitted_at" db:"submitted_at"`
	LastModified time.Time      `json:"last_modified" db:"last_modified"`

	User *User `json:"user,omitempty" db:"-"`
}
