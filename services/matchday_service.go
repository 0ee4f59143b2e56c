package services

import (
	"context"
	"errors"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
)

type CreateMatchdayInput struct {
	LeagueID int    `json:"league_id"`
	Name     string `json:"name"`
}

type MatchdayService interface {
	CreateMatchday(ctx context.Context, caller Caller, input CreateMatchdayInput) (*models.Matchday, error)
	GetMatchday(ctx context.Context, caller Caller, matchdayID int) (*models.Matchday, error)
	ListMatchdays(ctx context.Context, caller Caller, leagueID int) ([]models.Matchday, error)
	SetCompleted(ctx context.Context, caller Caller, matchdayID int, completed bool) (*models.Matchday, error)
	DeleteMatchday(ctx context.Context, caller Caller, matchdayID int) error
}

type matchdayService struct {
	matchdayRepo repositories.MatchdayRepository
	matchRepo    repositories.MatchRepository
	leagueRepo   repositories.LeagueRepository
}

func NewMatchdayService(matchdayRepo repositories.MatchdayRepository, matchRepo repositories.MatchRepository, leagueRepo repositories.LeagueRepository) MatchdayService {
	return &matchdayService{
		matchdayRepo: matchdayRepo,
		matchRepo:    matchRepo,
		leagueRepo:   leagueRepo,
	}
}

func (s *matchdayService) CreateMatchday(ctx context.Context, caller Caller, input CreateMatchdayInput) (*models.Matchday, error) {
	if input.Name == "" {
		return nil, &ValidationFieldsError{Fields: []string{"name"}}
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, input.LeagueID, caller); err != nil {
		return nil, err
	}

	matchday := &models.Matchday{
		LeagueID: input.LeagueID,
		Name:     input.Name,
	}
	if err := s.matchdayRepo.Create(ctx, matchday); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return matchday, nil
}

func (s *matchdayService) GetMatchday(ctx context.Context, caller Caller, matchdayID int) (*models.Matchday, error) {
	matchday, err := s.getMatchday(ctx, matchdayID)
	if err != nil {
		return nil, err
	}
	if err := requireLeagueMember(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByMatchday(ctx, matchdayID)
	if err != nil {
		return nil, err
	}
	matchday.Matches = matches
	return matchday, nil
}

func (s *matchdayService) ListMatchdays(ctx context.Context, caller Caller, leagueID int) ([]models.Matchday, error) {
	if err := requireLeagueMember(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}
	return s.matchdayRepo.ListByLeague(ctx, leagueID)
}

func (s *matchdayService) SetCompleted(ctx context.Context, caller Caller, matchdayID int, completed bool) (*models.Matchday, error) {
	matchday, err := s.getMatchday(ctx, matchdayID)
	if err != nil {
		return nil, err
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}

	matchday.IsCompleted = completed
	if err := s.matchdayRepo.Update(ctx, matchday); err != nil {
		return nil, err
	}
	return matchday, nil
}

func (s *matchdayService) DeleteMatchday(ctx context.Context, caller Caller, matchdayID int) error {
	matchday, err := s.getMatchday(ctx, matchdayID)
	if err != nil {
		return err
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return err
	}
	return s.matchdayRepo.Delete(ctx, matchdayID)
}

func (s *matchdayService) getMatchday(ctx context.Context, matchdayID int) (*models.Matchday, error) {
	matchday, err := s.matchdayRepo.GetByID(ctx, matchdayID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchdayNotFound) {
			return nil, ErrMatchdayNotFound
		}
		return nil, err
	}
	return matchday, nil
}
