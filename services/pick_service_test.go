package services

import (
	"context"
	"testing"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pickFixture struct {
	svc          PickService
	leagueRepo   *fakeLeagueRepo
	matchdayRepo *fakeMatchdayRepo
	matchRepo    *fakeMatchRepo
	pickRepo     *fakePickRepo
	league       *models.League
}

func newPickFixture(t *testing.T, memberIDs ...int) *pickFixture {
	t.Helper()
	f := &pickFixture{
		leagueRepo:   newFakeLeagueRepo(),
		matchdayRepo: newFakeMatchdayRepo(),
		matchRepo:    newFakeMatchRepo(),
		pickRepo:     newFakePickRepo(),
	}
	f.league = f.leagueRepo.addLeague(1, memberIDs...)
	f.svc = NewPickService(f.pickRepo, f.matchRepo, f.matchdayRepo, f.leagueRepo)
	return f
}

func (f *pickFixture) addMatch(t *testing.T, deadline time.Time) int {
	t.Helper()
	ctx := context.Background()

	matchday := &models.Matchday{LeagueID: f.league.ID, Name: "round 1"}
	require.NoError(t, f.matchdayRepo.Create(ctx, matchday))

	match := &models.Match{
		MatchdayID: matchday.ID,
		HomeTeam:   "Roma",
		AwayTeam:   "Lazio",
		Kickoff:    deadline,
		Deadline:   deadline,
	}
	require.NoError(t, f.matchRepo.Create(ctx, match))
	f.pickRepo.leagueByMatch[match.ID] = f.league.ID
	return match.ID
}

func TestSubmitPick(t *testing.T) {
	f := newPickFixture(t, 2)
	matchID := f.addMatch(t, time.Now().Add(time.Hour))
	member := Caller{UserID: 2}

	pick, err := f.svc.SubmitPick(context.Background(), member, matchID, models.ResultHome)
	require.NoError(t, err)
	assert.Equal(t, models.ResultHome, pick.Value)
	firstSubmitted := pick.SubmittedAt

	// Resubmitting before the deadline replaces the value in place.
	pick, err = f.svc.SubmitPick(context.Background(), member, matchID, models.ResultDraw)
	require.NoError(t, err)
	assert.Equal(t, models.ResultDraw, pick.Value)
	assert.Equal(t, firstSubmitted, pick.SubmittedAt)

	stored, err := f.pickRepo.GetByMatchAndUser(context.Background(), matchID, member.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.ResultDraw, stored.Value)
}

func TestSubmitPickAfterDeadlineRejected(t *testing.T) {
	f := newPickFixture(t, 2)
	matchID := f.addMatch(t, time.Now().Add(-time.Minute))

	_, err := f.svc.SubmitPick(context.Background(), Caller{UserID: 2}, matchID, models.ResultHome)
	assert.ErrorIs(t, err, ErrPickDeadlinePassed)

	_, err = f.pickRepo.GetByMatchAndUser(context.Background(), matchID, 2)
	assert.Error(t, err, "rejected pick must not be stored")
}

func TestSubmitPickValidation(t *testing.T) {
	f := newPickFixture(t, 2)
	matchID := f.addMatch(t, time.Now().Add(time.Hour))

	t.Run("invalid value", func(t *testing.T) {
		_, err := f.svc.SubmitPick(context.Background(), Caller{UserID: 2}, matchID, "3")
		assert.ErrorIs(t, err, ErrInvalidPickValue)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := f.svc.SubmitPick(context.Background(), Caller{UserID: 2}, 999, models.ResultHome)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("non-member", func(t *testing.T) {
		_, err := f.svc.SubmitPick(context.Background(), Caller{UserID: 99}, matchID, models.ResultHome)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})
}

func TestListMatchPicksGatedBeforeDeadline(t *testing.T) {
	f := newPickFixture(t, 2, 3)
	matchID := f.addMatch(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	_, err := f.svc.SubmitPick(ctx, Caller{UserID: 2}, matchID, models.ResultHome)
	require.NoError(t, err)
	_, err = f.svc.SubmitPick(ctx, Caller{UserID: 3}, matchID, models.ResultAway)
	require.NoError(t, err)

	// Before the deadline a member only sees their own pick.
	picks, err := f.svc.ListMatchPicks(ctx, Caller{UserID: 2}, matchID)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, 2, picks[0].UserID)

	// No pick yet: empty list, not an error.
	picks, err = f.svc.ListMatchPicks(ctx, Caller{UserID: 1}, matchID)
	require.NoError(t, err)
	assert.Empty(t, picks)

	// A global admin sees everything even before the deadline.
	picks, err = f.svc.ListMatchPicks(ctx, Caller{UserID: 1, IsAdmin: true}, matchID)
	require.NoError(t, err)
	assert.Len(t, picks, 2)
}

func TestListMatchPicksOpenAfterDeadline(t *testing.T) {
	f := newPickFixture(t, 2, 3)
	futureMatch := f.addMatch(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	_, err := f.svc.SubmitPick(ctx, Caller{UserID: 2}, futureMatch, models.ResultHome)
	require.NoError(t, err)
	_, err = f.svc.SubmitPick(ctx, Caller{UserID: 3}, futureMatch, models.ResultAway)
	require.NoError(t, err)

	// Move the deadline into the past to simulate it elapsing.
	match, err := f.matchRepo.GetByID(ctx, futureMatch)
	require.NoError(t, err)
	match.Deadline = time.Now().Add(-time.Minute)
	require.NoError(t, f.matchRepo.Update(ctx, match))

	picks, err := f.svc.ListMatchPicks(ctx, Caller{UserID: 2}, futureMatch)
	require.NoError(t, err)
	assert.Len(t, picks, 2)
}

func TestListUserPicks(t *testing.T) {
	f := newPickFixture(t, 2)
	first := f.addMatch(t, time.Now().Add(time.Hour))
	second := f.addMatch(t, time.Now().Add(2*time.Hour))
	ctx := context.Background()

	_, err := f.svc.SubmitPick(ctx, Caller{UserID: 2}, first, models.ResultHome)
	require.NoError(t, err)
	_, err = f.svc.SubmitPick(ctx, Caller{UserID: 2}, second, models.ResultDraw)
	require.NoError(t, err)
	_, err = f.svc.SubmitPick(ctx, Caller{UserID: 1}, first, models.ResultAway)
	require.NoError(t, err)

	picks, err := f.svc.ListUserPicks(ctx, Caller{UserID: 2}, f.league.ID)
	require.NoError(t, err)
	assert.Len(t, picks, 2)
	for _, pick := range picks {
		assert.Equal(t, 2, pick.UserID)
	}
}
