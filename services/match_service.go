package services

import (
	"context"
	"errors"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
)

type CreateMatchInput struct {
	MatchdayID int       `json:"matchday_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Kickoff    time.Time `json:"kickoff"`
	Deadline   time.Time `json:"deadline"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, caller Caller, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, caller Caller, matchID int) (*models.Match, error)
	// SetResult enters or corrects the official 1/X/2 outcome. Corrections
	// are allowed any number of times; standings are derived, never stored,
	// so a corrected result simply flows through on the next read.
	SetResult(ctx context.Context, caller Caller, matchID int, result models.MatchResult) (*models.Match, error)
	DeleteMatch(ctx context.Context, caller Caller, matchID int) error
}

type matchService struct {
	matchRepo    repositories.MatchRepository
	matchdayRepo repositories.MatchdayRepository
	leagueRepo   repositories.LeagueRepository
}

func NewMatchService(matchRepo repositories.MatchRepository, matchdayRepo repositories.MatchdayRepository, leagueRepo repositories.LeagueRepository) MatchService {
	return &matchService{
		matchRepo:    matchRepo,
		matchdayRepo: matchdayRepo,
		leagueRepo:   leagueRepo,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, caller Caller, input CreateMatchInput) (*models.Match, error) {
	var missing []string
	if input.HomeTeam == "" {
		missing = append(missing, "home_team")
	}
	if input.AwayTeam == "" {
		missing = append(missing, "away_team")
	}
	if input.Kickoff.IsZero() {
		missing = append(missing, "kickoff")
	}
	if len(missing) > 0 {
		return nil, &ValidationFieldsError{Fields: missing}
	}

	// Default the pick cutoff to kickoff; an explicit earlier deadline wins.
	if input.Deadline.IsZero() {
		input.Deadline = input.Kickoff
	}
	if input.Deadline.After(input.Kickoff) {
		return nil, ErrInvalidDeadline
	}

	matchday, err := s.matchdayRepo.GetByID(ctx, input.MatchdayID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchdayNotFound) {
			return nil, ErrMatchdayNotFound
		}
		return nil, err
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}

	match := &models.Match{
		MatchdayID: input.MatchdayID,
		HomeTeam:   input.HomeTeam,
		AwayTeam:   input.AwayTeam,
		Kickoff:    input.Kickoff,
		Deadline:   input.Deadline,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, caller Caller, matchID int) (*models.Match, error) {
	match, matchday, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireLeagueMember(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) SetResult(ctx context.Context, caller Caller, matchID int, result models.MatchResult) (*models.Match, error) {
	if !result.Valid() {
		return nil, ErrInvalidMatchResult
	}

	match, matchday, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return nil, err
	}

	match.Result = &result
	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, caller Caller, matchID int) error {
	_, matchday, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, matchday.LeagueID, caller); err != nil {
		return err
	}
	return s.matchRepo.Delete(ctx, matchID)
}

func (s *matchService) loadMatch(ctx context.Context, matchID int) (*models.Match, *models.Matchday, error) {
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
