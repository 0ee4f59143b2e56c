package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContestSettingsState(t *testing.T) {
	now := time.Now()
	confirmed := now.Add(-time.Minute)

	tests := []struct {
		name     string
		settings ContestSettings
		want     ContestState
	}{
		{"open before lock time", ContestSettings{LockAt: now.Add(time.Hour)}, ContestStateOpen},
		{"locked once lock time passes", ContestSettings{LockAt: now.Add(-time.Second)}, ContestStateLocked},
		{"locked exactly at lock time", ContestSettings{LockAt: now}, ContestStateLocked},
		{"forced lock beats future lock time", ContestSettings{LockAt: now.Add(time.Hour), Locked: true}, ContestStateLocked},
		{"confirmed wins over everything", ContestSettings{LockAt: now.Add(time.Hour), ResultsConfirmedAt: &confirmed}, ContestStateResultsConfirmed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.State(now))
		})
	}
}

func TestOutcomeMissingFields(t *testing.T) {
	assert.Empty(t, PreseasonOutcome{Winner: "a", Bottom: "b", TopScorer: "c"}.MissingFields())
	assert.ElementsMatch(t, []string{"bottom", "top_scorer"}, PreseasonOutcome{Winner: "a"}.MissingFields())

	assert.Empty(t, SupercoppaOutcome{Finalist1: "a", Finalist2: "b", Winner: "a"}.MissingFields())
	assert.ElementsMatch(t, []string{"finalist1", "finalist2", "winner"}, SupercoppaOutcome{}.MissingFields())

	assert.Empty(t, CoppaItaliaOutcome{Winner: "a"}.MissingFields())
	assert.Equal(t, []string{"winner"}, CoppaItaliaOutcome{}.MissingFields())
}

func TestOutcomeColumnsRoundTrip(t *testing.T) {
	outcomes := []ContestOutcome{
		PreseasonOutcome{Winner: "Inter", Bottom: "Salernitana", TopScorer: "Lautaro"},
		SupercoppaOutcome{Finalist1: "Inter", Finalist2: "Napoli", Winner: "Napoli"},
		CoppaItaliaOutcome{Winner: "Fiorentina"},
	}
	for _, outcome := range outcomes {
		winner, bottom, topScorer, finalist1, finalist2 := OutcomeColumns(outcome)
		rebuilt, err := OutcomeFromColumns(outcome.ContestType(), winner, bottom, topScorer, finalist1, finalist2)
		require.NoError(t, err)
		assert.Equal(t, outcome, rebuilt)
	}
}

func TestOutcomeFromColumnsUnknownType(t *testing.T) {
	_, err := OutcomeFromColumns("europa_league", nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestMatchResultValid(t *testing.T) {
	assert.True(t, ResultHome.Valid())
	assert.True(t, ResultDraw.Valid())
	assert.True(t, ResultAway.Valid())
	assert.False(t, MatchResult("x").Valid())
	assert.False(t, MatchResult("").Valid())
}

func TestContestTypeValid(t *testing.T) {
	assert.True(t, ContestPreseason.Valid())
	assert.True(t, ContestSupercoppa.Valid())
	assert.True(t, ContestCoppaItalia.Valid())
	assert.False(t, ContestType("serie_b").Valid())
}
