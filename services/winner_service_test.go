package services

import (
	"context"
	"testing"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// winnerFixture wires a winner service over a real leaderboard computed from
// the fakes. Manual points are the simplest lever to shape the standings.
type winnerFixture struct {
	svc        WinnerService
	winnerRepo *fakeWinnerRepo
	manualRepo *fakeManualPointsRepo
	league     *models.League
}

func newWinnerFixture(t *testing.T, memberIDs ...int) *winnerFixture {
	t.Helper()
	leagueRepo := newFakeLeagueRepo()
	league := leagueRepo.addLeague(1, memberIDs...)
	manualRepo := newFakeManualPointsRepo()
	winnerRepo := newFakeWinnerRepo()

	leaderboard := NewLeaderboardService(
		leagueRepo,
		newFakeMatchdayRepo(),
		newFakeMatchRepo(),
		newFakePickRepo(),
		newFakeContestRepo(),
		manualRepo,
	)
	return &winnerFixture{
		svc:        NewWinnerService(winnerRepo, leagueRepo, leaderboard),
		winnerRepo: winnerRepo,
		manualRepo: manualRepo,
		league:     league,
	}
}

func (f *winnerFixture) setPoints(t *testing.T, userID, points int) {
	t.Helper()
	require.NoError(t, f.manualRepo.Set(context.Background(), f.league.ID, userID, points))
}

func TestDeclareWinnerClearLeader(t *testing.T) {
	f := newWinnerFixture(t, 2, 3)
	f.setPoints(t, 1, 10)
	f.setPoints(t, 2, 30)
	f.setPoints(t, 3, 20)

	declaration, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, declaration.WinnerUserID)
	assert.Equal(t, models.DeclarationClearLeader, declaration.Method)
	assert.Contains(t, declaration.Description, "user-2")
	assert.Contains(t, declaration.Description, "30 points")
}

func TestDeclareWinnerTieRequiresManualSelection(t *testing.T) {
	f := newWinnerFixture(t, 2, 3)
	f.setPoints(t, 1, 5)
	f.setPoints(t, 2, 30)
	f.setPoints(t, 3, 30)

	_, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, nil)

	var tieErr *TieRequiresManualSelectionError
	require.ErrorAs(t, err, &tieErr)
	require.Len(t, tieErr.TiedUsers, 2)
	tiedIDs := []int{tieErr.TiedUsers[0].UserID, tieErr.TiedUsers[1].UserID}
	assert.ElementsMatch(t, []int{2, 3}, tiedIDs)

	// Nothing persisted on the tie path: the admin is expected to retry.
	_, err = f.winnerRepo.GetByLeague(context.Background(), f.league.ID)
	assert.Error(t, err)

	// Retry with an explicit winner from the tied set.
	winnerID := 3
	declaration, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, &winnerID)
	require.NoError(t, err)
	assert.Equal(t, 3, declaration.WinnerUserID)
	assert.Equal(t, models.DeclarationManual, declaration.Method)
}

func TestDeclareWinnerManualOutsideTiedSetRejected(t *testing.T) {
	f := newWinnerFixture(t, 2, 3)
	f.setPoints(t, 1, 5)
	f.setPoints(t, 2, 30)
	f.setPoints(t, 3, 30)

	winnerID := 1 // a member, but not part of the tie
	_, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, &winnerID)
	assert.ErrorIs(t, err, ErrWinnerNotTiedMember)
}

func TestDeclareWinnerManualNonMemberRejected(t *testing.T) {
	f := newWinnerFixture(t, 2)

	winnerID := 99
	_, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, &winnerID)
	assert.ErrorIs(t, err, ErrWinnerNotMember)
}

func TestDeclareWinnerSingleMember(t *testing.T) {
	f := newWinnerFixture(t)

	declaration, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, declaration.WinnerUserID)
	assert.Equal(t, models.DeclarationClearLeader, declaration.Method)
}

func TestDeclareWinnerOnlyOnce(t *testing.T) {
	f := newWinnerFixture(t, 2)
	f.setPoints(t, 1, 10)

	_, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, nil)
	assert.ErrorIs(t, err, ErrWinnerAlreadyDeclared)
}

func TestDeclareWinnerRequiresLeagueAdmin(t *testing.T) {
	f := newWinnerFixture(t, 2)

	_, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 2}, f.league.ID, nil)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestGetDeclaration(t *testing.T) {
	f := newWinnerFixture(t, 2)
	f.setPoints(t, 2, 10)

	t.Run("before declaration", func(t *testing.T) {
		_, err := f.svc.GetDeclaration(context.Background(), Caller{UserID: 2}, f.league.ID)
		assert.ErrorIs(t, err, ErrDeclarationNotFound)
	})

	_, err := f.svc.DeclareWinner(context.Background(), Caller{UserID: 1}, f.league.ID, nil)
	require.NoError(t, err)

	declaration, err := f.svc.GetDeclaration(context.Background(), Caller{UserID: 2}, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, declaration.WinnerUserID)

	t.Run("non-member cannot read", func(t *testing.T) {
		_, err := f.svc.GetDeclaration(context.Background(), Caller{UserID: 99}, f.league.ID)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})
}
