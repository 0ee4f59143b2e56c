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

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UploadAvatar(ctx context.Context, caller Caller, contentType string, reader io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	populateUserAvatarURL(user, s.uploader)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, caller Caller, contentType string, reader io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file uploads are not configured")
	}

	key := fmt.Sprintf("users/%d/avatar-%s", caller.UserID, generateRandomToken(12))
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	if err := s.userRepo.UpdateAvatarKey(ctx, caller.UserID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	user.PasswordHash = ""
	user.AvatarKey = &result.Key
	populateUserAvatarURL(user, s.uploader)
	return user, nil
}
