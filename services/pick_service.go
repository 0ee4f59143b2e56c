package services

import (
	"context"
	"errors"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
)

type PickService interface {
	// SubmitPick upserts the caller's pick for a match. The deadline is
	// compared against the clock right before the write, so a request that
	// arrives in time but executes late is still rejected.
	SubmitPick(ctx context.Context, caller Caller, matchID int, value models.MatchResult) (*models.Pick, error)
	// ListMatchPicks returns every pick on a match. Before the deadline
	// non-admins only get their own pick back.
	ListMatchPicks(ctx context.Context, caller Caller, matchID int) ([]models.Pick, error)
	ListUserPicks(ctx context.Context, caller Caller, leagueID int) ([]models.Pick, error)
}

type pickService struct {
	pickRepo     repositories.PickRepository
	matchRepo    repositories.MatchRepository
	matchdayRepo repositories.MatchdayRepository
	leagueRepo   repositories.LeagueRepository
}

func NewPickService(
	pickRepo repositories.PickRepository,
	matchRepo repositories.MatchRepository,
	matchdayRepo repositories.MatchdayRepository,
	leagueRepo repositories.LeagueRepository,
) PickService {
	return &pickService{
		pickRepo:     pickRepo,
		matchRepo:    matchRepo,
		matchdayRepo: matchdayRepo,
		leagueRepo:   leagueRepo,
	}
}

func (s *pickService) SubmitPick(ctx context.Context, caller Caller, matchID int, value models.MatchResult) (*models.Pick, error) {
	if !value.Valid() {
		return nil, ErrInvalidPickValue
	}

	match, matchday, err := s.loadMatchWithMatchday(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireLeagueMember(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}

	if !time.Now().Before(match.Deadline) {
		return nil, ErrPickDeadlinePassed
	}

	pick := &models.Pick{
		MatchID: matchID,
		UserID:  caller.UserID,
		Value:   value,
	}
	if err := s.pickRepo.Upsert(ctx, pick); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return pick, nil
}

func (s *pickService) ListMatchPicks(ctx context.Context, caller Caller, matchID int) ([]models.Pick, error) {
	match, matchday, err := s.loadMatchWithMatchday(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireLeagueMember(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}

	if time.Now().Before(match.Deadline) && !caller.IsAdmin {
		pick, err := s.pickRepo.GetByMatchAndUser(ctx, matchID, caller.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrPickNotFound) {
				return []models.Pick{}, nil
			}
			return nil, err
		}
		return []models.Pick{*pick}, nil
	}

	return s.pickRepo.ListByMatch(ctx, matchID)
}

func (s *pickService) ListUserPicks(ctx context.Context, caller Caller, leagueID int) ([]models.Pick, error) {
	if err := requireLeagueMember(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}
	return s.pickRepo.ListByUserAndLeague(ctx, caller.UserID, leagueID)
}

func (s *pickService) loadMatchWithMatchday(ctx context.Context, matchID int) (*models.Match, *models.Matchday, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}
	matchday, err := s.matchdayRepo.GetByID(ctx, match.MatchdayID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchdayNotFound) {
			return nil, nil, ErrMatchdayNotFound
		}
		return nil, nil, err
	}
	return match, matchday, nil
}
