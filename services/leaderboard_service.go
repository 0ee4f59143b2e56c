package services

import (
	"context"
	"errors"
	"sort"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

type LeaderboardService interface {
	GetLeagueLeaderboard(ctx context.Context, leagueID int) ([]models.StandingEntry, error)
}

type leaderboardService struct {
	leagueRepo   repositories.LeagueRepository
	matchdayRepo repositories.MatchdayRepository
	matchRepo    repositories.MatchRepository
	pickRepo     repositories.PickRepository
	contestRepo  repositories.ContestRepository
	manualRepo   repositories.ManualPointsRepository
}

func NewLeaderboardService(
	leagueRepo repositories.LeagueRepository,
	matchdayRepo repositories.MatchdayRepository,
	matchRepo repositories.MatchRepository,
	pickRepo repositories.PickRepository,
	contestRepo repositories.ContestRepository,
	manualRepo repositories.ManualPointsRepository,
) LeaderboardService {
	return &leaderboardService{
		leagueRepo:   leagueRepo,
		matchdayRepo: matchdayRepo,
		matchRepo:    matchRepo,
		pickRepo:     pickRepo,
		contestRepo:  contestRepo,
		manualRepo:   manualRepo,
	}
}

// GetLeagueLeaderboard recomputes the standings from scratch on every call.
// Nothing is cached or persisted, so the result only depends on the stored
// matchdays, picks, confirmed contests and manual adjustments.
func (s *leaderboardService) GetLeagueLeaderboard(ctx context.Context, leagueID int) ([]models.StandingEntry, error) {
	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []models.StandingEntry{}, nil
	}

	var (
		matchdays    []models.Matchday
		matches      []models.Match
		picks        []models.Pick
		manualPoints map[int]int
	)
	contestPoints := make(map[models.ContestType]map[int]int, 3)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matchdays, err = s.matchdayRepo.ListByLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		picks, err = s.pickRepo.ListByLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		manualPoints, err = s.manualRepo.GetByLeague(gctx, leagueID)
		return err
	})
	for _, contestType := range []models.ContestType{models.ContestPreseason, models.ContestSupercoppa, models.ContestCoppaItalia} {
		contestType := contestType
		points := make(map[int]int)
		contestPoints[contestType] = points
		g.Go(func() error {
			return s.collectContestPoints(gctx, leagueID, contestType, points)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchesByMatchday := make(map[int][]models.Match, len(matchdays))
	for _, match := range matches {
		matchesByMatchday[match.MatchdayID] = append(matchesByMatchday[match.MatchdayID], match)
	}
	picksByUser := make(map[int][]models.Pick)
	for _, pick := range picks {
		picksByUser[pick.UserID] = append(picksByUser[pick.UserID], pick)
	}
	scores := ComputeMatchPoints(matchdays, matchesByMatchday, picksByUser)

	entries := make([]models.StandingEntry, 0, len(members))
	for _, member := range members {
		entry := models.StandingEntry{
			UserID:           member.UserID,
			MatchPoints:      scores[member.UserID].Points,
			CorrectPicks:     scores[member.UserID].CorrectPicks,
			ManualPoints:     manualPoints[member.UserID],
			PreseasonPoints:  contestPoints[models.ContestPreseason][member.UserID],
			SupercoppaPoints: contestPoints[models.ContestSupercoppa][member.UserID],
			CoppaPoints:      contestPoints[models.ContestCoppaItalia][member.UserID],
		}
		if member.User != nil {
			entry.Nickname = member.User.Nickname
		}
		entry.TotalPoints = entry.MatchPoints + entry.ManualPoints +
			entry.PreseasonPoints + entry.SupercoppaPoints + entry.CoppaPoints
		entries = append(entries, entry)
	}

	// Descending by total. Stable: equal totals keep member join order; ties
	// are only ever resolved by the winner declaration, not by this sort.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	return entries, nil
}

// collectContestPoints fills points with the confirmed awards for one
// contest. A contest that was never created, or whose results are not yet
// confirmed, contributes nothing.
func (s *leaderboardService) collectContestPoints(ctx context.Context, leagueID int, contestType models.ContestType, points map[int]int) error {
	settings, err := s.contestRepo.GetSettings(ctx, leagueID, contestType)
	if err != nil {
		if errors.Is(err, repositories.ErrContestNotFound) {
			return nil
		}
		return err
	}
	if settings.ResultsConfirmedAt == nil {
		return nil
	}

	bets, err := s.contestRepo.ListBets(ctx, leagueID, contestType)
	if err != nil {
		return err
	}
	for _, bet := range bets {
		points[bet.UserID] = bet.Points
	}
	return nil
}
