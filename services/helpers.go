package services

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
	"github.com/ddfilmmaker/AppSchedina-sub000/storage"
)

// Caller identifies the authenticated user behind a service call, as decoded
// from the JWT claims by the HTTP layer.
type Caller struct {
	UserID  int
	IsAdmin bool
}

func generateRandomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	randomBytes := make([]byte, length)
	_, err := rand.Read(randomBytes)
	if err != nil {
		for i := range b {
			b[i] = charset[int(time.Now().UnixNano())%len(charset)]
		}
		return string(b)
	}
	for i, rb := range randomBytes {
		b[i] = charset[int(rb)%len(charset)]
	}
	return string(b)
}

// generateJoinCode returns a short uppercase code users type to join a league.
func generateJoinCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 8)
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		for i := range b {
			b[i] = charset[int(time.Now().UnixNano()+int64(i))%len(charset)]
		}
		return string(b)
	}
	for i, rb := range randomBytes {
		b[i] = charset[int(rb)%len(charset)]
	}
	return string(b)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// requireLeagueAdmin loads the league and checks that the caller owns it or
// is a global admin.
func requireLeagueAdmin(ctx context.Context, leagueRepo repositories.LeagueRepository, leagueID int, caller Caller) (*models.League, error) {
	league, err := leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	if league.AdminID != caller.UserID && !caller.IsAdmin {
		return nil, ErrForbiddenOperation
	}
	return league, nil
}

// requireLeagueMember checks membership for read-side operations.
func requireLeagueMember(ctx context.Context, leagueRepo repositories.LeagueRepository, leagueID int, caller Caller) error {
	if caller.IsAdmin {
		return nil
	}
	ok, err := leagueRepo.IsMember(ctx, leagueID, caller.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbiddenOperation
	}
	return nil
}

func populateUserAvatarURL(user *models.User, uploader storage.FileUploader) {
	if user != nil && user.AvatarKey != nil && *user.AvatarKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.AvatarKey)
		if url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateLeagueCrestURL(league *models.League, uploader storage.FileUploader) {
	if league != nil && league.CrestKey != nil && *league.CrestKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*league.CrestKey)
		if url != "" {
			league.CrestURL = &url
		}
	}
}
