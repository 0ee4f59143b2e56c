package services

import (
	"context"
	"testing"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaderboardFixture struct {
	svc          LeaderboardService
	leagueRepo   *fakeLeagueRepo
	matchdayRepo *fakeMatchdayRepo
	matchRepo    *fakeMatchRepo
	pickRepo     *fakePickRepo
	contestRepo  *fakeContestRepo
	manualRepo   *fakeManualPointsRepo
	league       *models.League
}

func newLeaderboardFixture(t *testing.T, memberIDs ...int) *leaderboardFixture {
	t.Helper()
	f := &leaderboardFixture{
		leagueRepo:   newFakeLeagueRepo(),
		matchdayRepo: newFakeMatchdayRepo(),
		matchRepo:    newFakeMatchRepo(),
		pickRepo:     newFakePickRepo(),
		contestRepo:  newFakeContestRepo(),
		manualRepo:   newFakeManualPointsRepo(),
	}
	f.league = f.leagueRepo.addLeague(1, memberIDs...)
	f.svc = NewLeaderboardService(f.leagueRepo, f.matchdayRepo, f.matchRepo, f.pickRepo, f.contestRepo, f.manualRepo)
	return f
}

// addResultedMatch creates a completed matchday holding one resulted match
// and returns the match ID.
func (f *leaderboardFixture) addResultedMatch(t *testing.T, result models.MatchResult) int {
	t.Helper()
	ctx := context.Background()

	matchday := &models.Matchday{LeagueID: f.league.ID, Name: "round", IsCompleted: true}
	require.NoError(t, f.matchdayRepo.Create(ctx, matchday))
	f.matchRepo.leagueByMatchday[matchday.ID] = f.league.ID

	match := &models.Match{
		MatchdayID: matchday.ID,
		HomeTeam:   "Home",
		AwayTeam:   "Away",
		Kickoff:    time.Now().Add(-2 * time.Hour),
		Deadline:   time.Now().Add(-2 * time.Hour),
		Result:     &result,
	}
	require.NoError(t, f.matchRepo.Create(ctx, match))
	f.pickRepo.leagueByMatch[match.ID] = f.league.ID
	return match.ID
}

func (f *leaderboardFixture) addPick(t *testing.T, matchID, userID int, value models.MatchResult) {
	t.Helper()
	require.NoError(t, f.pickRepo.Upsert(context.Background(), &models.Pick{
		MatchID: matchID,
		UserID:  userID,
		Value:   value,
	}))
}

func TestLeaderboardAggregatesAllSources(t *testing.T) {
	f := newLeaderboardFixture(t, 2)
	ctx := context.Background()

	// User 1 gets one correct pick, user 2 a wrong one.
	matchID := f.addResultedMatch(t, models.ResultHome)
	f.addPick(t, matchID, 1, models.ResultHome)
	f.addPick(t, matchID, 2, models.ResultAway)

	// Manual adjustment for user 2.
	require.NoError(t, f.manualRepo.Set(ctx, f.league.ID, 2, 4))

	// A confirmed contest awards user 1 ten points.
	lockAt := time.Now().Add(-time.Hour)
	settings := &models.ContestSettings{LeagueID: f.league.ID, Type: models.ContestCoppaItalia, LockAt: lockAt}
	require.NoError(t, f.contestRepo.CreateSettings(ctx, settings))
	require.NoError(t, f.contestRepo.UpsertBet(ctx, &models.ContestBet{
		LeagueID:   f.league.ID,
		Type:       models.ContestCoppaItalia,
		UserID:     1,
		Prediction: models.CoppaItaliaOutcome{Winner: "Inter"},
	}))
	settings.Official = models.CoppaItaliaOutcome{Winner: "Inter"}
	require.NoError(t, f.contestRepo.ConfirmResults(ctx, settings, map[int]int{1: 10}))

	entries, err := f.svc.GetLeagueLeaderboard(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// User 1 leads: 1 match point + 10 contest points.
	assert.Equal(t, 1, entries[0].UserID)
	assert.Equal(t, 1, entries[0].MatchPoints)
	assert.Equal(t, 1, entries[0].CorrectPicks)
	assert.Equal(t, 10, entries[0].CoppaPoints)
	assert.Equal(t, 11, entries[0].TotalPoints)

	assert.Equal(t, 2, entries[1].UserID)
	assert.Equal(t, 4, entries[1].ManualPoints)
	assert.Equal(t, 4, entries[1].TotalPoints)
}

func TestLeaderboardIgnoresUnconfirmedContests(t *testing.T) {
	f := newLeaderboardFixture(t, 2)
	ctx := context.Background()

	settings := &models.ContestSettings{LeagueID: f.league.ID, Type: models.ContestPreseason, LockAt: time.Now().Add(-time.Hour)}
	require.NoError(t, f.contestRepo.CreateSettings(ctx, settings))
	require.NoError(t, f.contestRepo.UpsertBet(ctx, &models.ContestBet{
		LeagueID:   f.league.ID,
		Type:       models.ContestPreseason,
		UserID:     1,
		Prediction: models.PreseasonOutcome{Winner: "Inter", Bottom: "Salernitana", TopScorer: "Lautaro"},
	}))

	entries, err := f.svc.GetLeagueLeaderboard(ctx, f.league.ID)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Zero(t, entry.PreseasonPoints)
		assert.Zero(t, entry.TotalPoints)
	}
}

func TestLeaderboardStableOrderOnTies(t *testing.T) {
	f := newLeaderboardFixture(t, 2, 3)
	ctx := context.Background()

	require.NoError(t, f.manualRepo.Set(ctx, f.league.ID, 2, 7))
	require.NoError(t, f.manualRepo.Set(ctx, f.league.ID, 3, 7))

	entries, err := f.svc.GetLeagueLeaderboard(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Equal totals keep join order; the sort never invents a tiebreak.
	assert.Equal(t, 2, entries[0].UserID)
	assert.Equal(t, 3, entries[1].UserID)
	assert.Equal(t, 1, entries[2].UserID)
}

func TestLeaderboardEmptyLeague(t *testing.T) {
	leagueRepo := newFakeLeagueRepo()
	league := &models.League{Name: "empty", JoinCode: "EMPTY123", AdminID: 1}
	require.NoError(t, leagueRepo.Create(context.Background(), league))

	svc := NewLeaderboardService(leagueRepo, newFakeMatchdayRepo(), newFakeMatchRepo(),
		newFakePickRepo(), newFakeContestRepo(), newFakeManualPointsRepo())

	entries, err := svc.GetLeagueLeaderboard(context.Background(), league.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardResultCorrectionFlowsThrough(t *testing.T) {
	f := newLeaderboardFixture(t, 2)
	ctx := context.Background()

	matchID := f.addResultedMatch(t, models.ResultHome)
	f.addPick(t, matchID, 2, models.ResultDraw)

	entries, err := f.svc.GetLeagueLeaderboard(ctx, f.league.ID)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Zero(t, entry.MatchPoints)
	}

	// Correct the result; the next read reflects it with no extra bookkeeping.
	match, err := f.matchRepo.GetByID(ctx, matchID)
	require.NoError(t, err)
	corrected := models.ResultDraw
	match.Result = &corrected
	require.NoError(t, f.matchRepo.Update(ctx, match))

	entries, err = f.svc.GetLeagueLeaderboard(ctx, f.league.ID)
	require.NoError(t, err)
	byUser := make(map[int]models.StandingEntry, len(entries))
	for _, entry := range entries {
		byUser[entry.UserID] = entry
	}
	assert.Equal(t, 1, byUser[2].MatchPoints)
	assert.Equal(t, 1, byUser[2].TotalPoints)
}
