package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
)

type WinnerService interface {
	// DeclareWinner resolves the league winner from the current leaderboard.
	// A nil requestedWinnerID asks for automatic resolution; when the top of
	// the table is tied it returns *TieRequiresManualSelectionError so the
	// admin can pick among the tied users and call again.
	DeclareWinner(ctx context.Context, caller Caller, leagueID int, requestedWinnerID *int) (*models.WinnerDeclaration, error)
	GetDeclaration(ctx context.Context, caller Caller, leagueID int) (*models.WinnerDeclaration, error)
}

type winnerService struct {
	winnerRepo  repositories.WinnerRepository
	leagueRepo  repositories.LeagueRepository
	leaderboard LeaderboardService
}

func NewWinnerService(winnerRepo repositories.WinnerRepository, leagueRepo repositories.LeagueRepository, leaderboard LeaderboardService) WinnerService {
	return &winnerService{
		winnerRepo:  winnerRepo,
		leagueRepo:  leagueRepo,
		leaderboard: leaderboard,
	}
}

func (s *winnerService) DeclareWinner(ctx context.Context, caller Caller, leagueID int, requestedWinnerID *int) (*models.WinnerDeclaration, error) {
	if _, err := requireLeagueAdmin(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}

	if _, err := s.winnerRepo.GetByLeague(ctx, leagueID); err == nil {
		return nil, ErrWinnerAlreadyDeclared
	} else if !errors.Is(err, repositories.ErrDeclarationNotFound) {
		return nil, err
	}

	entries, err := s.leaderboard.GetLeagueLeaderboard(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrLeagueHasNoMembers
	}

	top := entries[0]
	tied := topTiedUsers(entries)

	var declaration *models.WinnerDeclaration
	switch {
	case requestedWinnerID != nil:
		declaration, err = s.manualDeclaration(entries, tied, *requestedWinnerID)
		if err != nil {
			return nil, err
		}

	case len(tied) > 1:
		return nil, &TieRequiresManualSelectionError{TiedUsers: tied}

	default:
		description := fmt.Sprintf("%s finished first with %d points", top.Nickname, top.TotalPoints)
		if len(entries) > 1 {
			margin := top.TotalPoints - entries[1].TotalPoints
			description = fmt.Sprintf("%s finished first with %d points, %d ahead of the runner-up", top.Nickname, top.TotalPoints, margin)
		}
		declaration = &models.WinnerDeclaration{
			WinnerUserID: top.UserID,
			Method:       models.DeclarationClearLeader,
			Description:  description,
		}
	}

	declaration.LeagueID = leagueID
	if err := s.winnerRepo.Create(ctx, declaration); err != nil {
		if errors.Is(err, repositories.ErrDeclarationConflict) {
			return nil, ErrWinnerAlreadyDeclared
		}
		return nil, err
	}
	return declaration, nil
}

func (s *winnerService) GetDeclaration(ctx context.Context, caller Caller, leagueID int) (*models.WinnerDeclaration, error) {
	if err := requireLeagueMember(ctx, s.leagueRepo, leagueID, caller); err != nil {
		return nil, err
	}
	declaration, err := s.winnerRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrDeclarationNotFound) {
			return nil, ErrDeclarationNotFound
		}
		return nil, err
	}
	return declaration, nil
}

// manualDeclaration validates an explicit winner choice. The user must be a
// member (appear on the leaderboard) and, when the top is tied, one of the
// tied users.
func (s *winnerService) manualDeclaration(entries []models.StandingEntry, tied []TiedUser, winnerID int) (*models.WinnerDeclaration, error) {
	var chosen *models.StandingEntry
	for i := range entries {
		if entries[i].UserID == winnerID {
			chosen = &entries[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrWinnerNotMember
	}

	if len(tied) > 1 {
		found := false
		for _, t := range tied {
			if t.UserID == winnerID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrWinnerNotTiedMember
		}
		return &models.WinnerDeclaration{
			WinnerUserID: winnerID,
			Method:       models.DeclarationManual,
			Description:  fmt.Sprintf("manual selection of %s among %d users tied at %d points", chosen.Nickname, len(tied), chosen.TotalPoints),
		}, nil
	}

	return &models.WinnerDeclaration{
		WinnerUserID: winnerID,
		Method:       models.DeclarationManual,
		Description:  fmt.Sprintf("manual selection of %s with %d points", chosen.Nickname, chosen.TotalPoints),
	}, nil
}

// topTiedUsers returns every entry sharing the leading total. Ties further
// down the table are left alone.
func topTiedUsers(entries []models.StandingEntry) []TiedUser {
	if len(entries) == 0 {
		return nil
	}
	topPoints := entries[0].TotalPoints
	var tied []TiedUser
	for _, entry := range entries {
		if entry.TotalPoints != topPoints {
			break
		}
		tied = append(tied, TiedUser{UserID: entry.UserID, Nickname: entry.Nickname, Points: entry.TotalPoints})
	}
	return tied
}
