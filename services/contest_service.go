package services

import (
	"context"
	"errors"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
)

// Point values awarded per matching field at settlement.
const (
	PreseasonWinnerPoints    = 5
	PreseasonBottomPoints    = 5
	PreseasonTopScorerPoints = 5
	SupercoppaFinalistPoints = 3
	SupercoppaWinnerPoints   = 6
	CoppaItaliaWinnerPoints  = 10
)

// ContestView is what a league member sees for one contest. Bets holds only
// the caller's own bet while the contest is open; everybody's bets once it
// locks.
type ContestView struct {
	Settings *models.ContestSettings `json:"settings"`
	State    models.ContestState     `json:"state"`
	Bets     []models.ContestBet     `json:"bets"`
}

type ContestService interface {
	CreateContest(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, lockAt time.Time) (*models.ContestSettings, error)
	GetContest(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType) (*ContestView, error)
	SubmitBet(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, prediction models.ContestOutcome) (*models.ContestBet, error)
	UpdateLockTime(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, lockAt time.Time) (*models.ContestSettings, error)
	ForceLock(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType) (*models.ContestSettings, error)
	ConfirmResults(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, official models.ContestOutcome) (*models.ContestSettings, error)
}

type contestService struct {
	contestRepo repositories.ContestRepository
	leagueRepo  repositories.LeagueRepository
}

func NewContestService(contestRepo repositories.ContestRepository, leagueRepo repositories.LeagueRepository) ContestService {
	return &contestService{
		contestRepo: contestRepo,
		leagueRepo:  leagueRepo,
	}
}

func (s *contestService) CreateContest(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, lockAt time.Time) (*models.ContestSettings, error) {
	if !contestType.Valid() {
		return nil, ErrInvalidContestType
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	settings := &models.ContestSettings{
		LeagueID: leagueID,
		Type:     contestType,
		LockAt:   lockAt,
	}
	if err := s.contestRepo.CreateSettings(ctx, settings); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return settings, nil
}

func (s *contestService) GetContest(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType) (*ContestView, error) {
	if !contestType.Valid() {
		return nil, ErrInvalidContestType
	}
	if err := requireLeagueMember(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	settings, err := s.getSettings(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}

	state := settings.State(time.Now())
	view := &ContestView{Settings: settings, State: state}

	// Bets stay hidden from other members until the contest locks, so nobody
	// can copy a prediction before the deadline.
	if state == models.ContestStateOpen && !caller.IsAdmin {
		bet, err := s.contestRepo.GetBet(ctx, leagueID, contestType, caller.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrContestBetNotFound) {
				view.Bets = []models.ContestBet{}
				return view, nil
			}
			return nil, err
		}
		view.Bets = []models.ContestBet{*bet}
		return view, nil
	}

	bets, err := s.contestRepo.ListBets(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}
	view.Bets = bets
	return view, nil
}

func (s *contestService) SubmitBet(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, prediction models.ContestOutcome) (*models.ContestBet, error) {
	if !contestType.Valid() {
		return nil, ErrInvalidContestType
	}
	if prediction == nil || prediction.ContestType() != contestType {
		return nil, ErrInvalidContestType
	}
	if missing := prediction.MissingFields(); len(missing) > 0 {
		return nil, &ValidationFieldsError{Fields: missing}
	}
	if err := requireLeagueMember(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	settings, err := s.getSettings(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}

	// The deadline is re-checked here, at the moment of the mutation, so a
	// request that straddles lockAt cannot sneak a late bet in.
	if settings.State(time.Now()) != models.ContestStateOpen {
		return nil, ErrContestLocked
	}

	bet := &models.ContestBet{
		LeagueID:   leagueID,
		Type:       contestType,
		UserID:     caller.UserID,
		Prediction: prediction,
	}
	if err := s.contestRepo.UpsertBet(ctx, bet); err != nil {
		return nil, err
	}
	return bet, nil
}

func (s *contestService) UpdateLockTime(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, lockAt time.Time) (*models.ContestSettings, error) {
	if !contestType.Valid() {
		return nil, ErrInvalidContestType
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	settings, err := s.getSettings(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}
	if settings.State(time.Now()) != models.ContestStateOpen {
		return nil, ErrContestSettingsImmutable
	}

	settings.LockAt = lockAt
	if err := s.contestRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *contestService) ForceLock(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType) (*models.ContestSettings, error) {
	if !contestType.Valid() {
		return nil, ErrInvalidContestType
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	settings, err := s.getSettings(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}
	if settings.State(time.Now()) == models.ContestStateResultsConfirmed {
		return nil, ErrContestAlreadyConfirmed
	}

	now := time.Now()
	settings.Locked = true
	if settings.LockAt.After(now) {
		settings.LockAt = now
	}
	if err := s.contestRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *contestService) ConfirmResults(ctx context.Context, caller Caller, leagueID int, contestType models.ContestType, official models.ContestOutcome) (*models.ContestSettings, error) {
	if !contestType.Valid() {
		return nil, ErrInvalidContestType
	}
	if official == nil || official.ContestType() != contestType {
		return nil, ErrInvalidContestType
	}
	// Settlement is strict: any missing official field aborts the whole
	// operation before anything is persisted.
	if missing := official.MissingFields(); len(missing) > 0 {
		return nil, &ValidationFieldsError{Fields: missing}
	}
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	settings, err := s.getSettings(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}

	switch settings.State(time.Now()) {
	case models.ContestStateResultsConfirmed:
		return nil, ErrContestAlreadyConfirmed
	case models.ContestStateOpen:
		return nil, ErrContestNotLocked
	}

	bets, err := s.contestRepo.ListBets(ctx, leagueID, contestType)
	if err != nil {
		return nil, err
	}

	pointsByUser := make(map[int]int, len(bets))
	for _, bet := range bets {
		pointsByUser[bet.UserID] = SettleBet(official, bet.Prediction)
	}

	settings.Official = official
	if err := s.contestRepo.ConfirmResults(ctx, settings, pointsByUser); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *contestService) getSettings(ctx context.Context, leagueID int, contestType models.ContestType) (*models.ContestSettings, error) {
	settings, err := s.contestRepo.GetSettings(ctx, leagueID, contestType)
	if err != nil {
		if errors.Is(err, repositories.ErrContestNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return settings, nil
}

// SettleBet computes the points a prediction earns against the official
// outcome: exact string match per field, partial credit per matching field.
// A prediction of the wrong type earns nothing.
func SettleBet(official, prediction models.ContestOutcome) int {
	if official == nil || prediction == nil {
		return 0
	}

	switch off := official.(type) {
	case models.PreseasonOutcome:
		pred, ok := prediction.(models.PreseasonOutcome)
		if !ok {
			return 0
		}
		points := 0
		if pred.Winner == off.Winner {
			points += PreseasonWinnerPoints
		}
		if pred.Bottom == off.Bottom {
			points += PreseasonBottomPoints
		}
		if pred.TopScorer == off.TopScorer {
			points += PreseasonTopScorerPoints
		}
		return points

	case models.SupercoppaOutcome:
		pred, ok := prediction.(models.SupercoppaOutcome)
		if !ok {
			return 0
		}
		points := 0
		if pred.Finalist1 == off.Finalist1 {
			points += SupercoppaFinalistPoints
		}
		if pred.Finalist2 == off.Finalist2 {
			points += SupercoppaFinalistPoints
		}
		if pred.Winner == off.Winner {
			points += SupercoppaWinnerPoints
		}
		return points

	case models.CoppaItaliaOutcome:
		pred, ok := prediction.(models.CoppaItaliaOutcome)
		if !ok {
			return 0
		}
		if pred.Winner == off.Winner {
			return CoppaItaliaWinnerPoints
		}
		return 0
	}
	return 0
}
