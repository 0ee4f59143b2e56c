package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
	"github.com/ddfilmmaker/AppSchedina-sub000/storage"
)

type LeagueService interface {
	CreateLeague(ctx context.Context, caller Caller, name string) (*models.League, error)
	JoinLeague(ctx context.Context, caller Caller, joinCode string) (*models.League, error)
	GetLeague(ctx context.Context, caller Caller, leagueID int) (*models.League, error)
	ListMyLeagues(ctx context.Context, caller Caller) ([]models.League, error)
	UploadCrest(ctx context.Context, caller Caller, leagueID int, contentType string, reader io.Reader) (*models.League, error)
	SetManualPoints(ctx context.Context, caller Caller, leagueID, userID, points int) error
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	manualRepo repositories.ManualPointsRepository
	uploader   storage.FileUploader
}

func NewLeagueService(leagueRepo repositories.LeagueRepository, manualRepo repositories.ManualPointsRepository, uploader storage.FileUploader) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		manualRepo: manualRepo,
		uploader:   uploader,
	}
}

// CreateLeague creates the league with a fresh join code and enrolls the
// creator as both admin and first member.
func (s *leagueService) CreateLeague(ctx context.Context, caller Caller, name string) (*models.League, error) {
	if name == "" {
		return nil, ErrLeagueNameRequired
	}

	league := &models.League{
		Name:     name,
		JoinCode: generateJoinCode(),
		AdminID:  caller.UserID,
	}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueNameConflict):
			return nil, ErrLeagueNameConflict
		case errors.Is(err, repositories.ErrJoinCodeConflict):
			// Join code collision: retry once with a new code.
			league.JoinCode = generateJoinCode()
			if err := s.leagueRepo.Create(ctx, league); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	if err := s.leagueRepo.AddMember(ctx, league.ID, caller.UserID); err != nil {
		return nil, fmt.Errorf("failed to enroll league creator: %w", err)
	}
	return league, nil
}

func (s *leagueService) JoinLeague(ctx context.Context, caller Caller, joinCode string) (*models.League, error) {
	if joinCode == "" {
		return nil, &ValidationFieldsError{Fields: []string{"join_code"}}
	}

	league, err := s.leagueRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}

	if err := s.leagueRepo.AddMember(ctx, league.ID, caller.UserID); err != nil {
		if errors.Is(err, repositories.ErrMemberConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	populateLeagueCrestURL(league, s.uploader)
	return league, nil
}

func (s *leagueService) GetLeague(ctx context.Context, caller Caller, leagueID int) (*models.League, error) {
	if err := requireLeagueMember(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	league.Members = members
	populateLeagueCrestURL(league, s.uploader)
	return league, nil
}

func (s *leagueService) ListMyLeagues(ctx context.Context, caller Caller) ([]models.League, error) {
	leagues, err := s.leagueRepo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	for i := range leagues {
		populateLeagueCrestURL(&leagues[i], s.uploader)
	}
	return leagues, nil
}

func (s *leagueService) UploadCrest(ctx context.Context, caller Caller, leagueID int, contentType string, reader io.Reader) (*models.League, error) {
	league, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file uploads are not configured")
	}

	key := fmt.Sprintf("leagues/%d/crest-%s", leagueID, generateRandomToken(12))
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload league crest: %w", err)
	}

	oldKey := league.CrestKey
	if err := s.leagueRepo.UpdateCrestKey(ctx, leagueID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != "" {
		// Old crest is garbage now; a failed delete is not worth failing the
		// request over.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	league.CrestKey = &result.Key
	populateLeagueCrestURL(league, s.uploader)
	return league, nil
}

func (s *leagueService) SetManualPoints(ctx context.Context, caller Caller, leagueID, userID, points int) error {
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return err
	}
	ok, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return s.manualRepo.Set(ctx, leagueID, userID, points)
}
