package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailConflict    = errors.New("user email conflict")
	ErrUserNicknameConflict = errors.New("user nickname conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetPasswordResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error
	GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateAvatarKey(ctx context.Context, userID int, key *string) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (nickname, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Nickname,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_email_key":
				return ErrUserEmailConflict
			case "users_nickname_key":
				return ErrUserNicknameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, nickname, email, password_hash, is_admin, avatar_key,
		       password_reset_token, password_reset_expires_at, created_at
		FROM users
		WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, nickname, email, password_hash, is_admin, avatar_key,
		       password_reset_token, password_reset_expires_at, created_at
		FROM users
		WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			nickname = $1,
			email = $2,
			password_hash = $3,
			is_admin = $4,
			password_reset_token = $5,
			password_reset_expires_at = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.Nickname,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.PasswordResetToken,
		user.PasswordResetExpiresAt,
		user.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_email_key":
				return ErrUserEmailConflict
			case "users_nickname_key":
				return ErrUserNicknameConflict
			}
		}
		return err
	}

	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetPasswordResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	query := `
		UPDATE users SET password_reset_token = $1, password_reset_expires_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, token, expiresAt, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT id, nickname, email, password_hash, is_admin, avatar_key,
		       password_reset_token, password_reset_expires_at, created_at
		FROM users
		WHERE password_reset_token = $1`
	return r.scanUser(ctx, query, token)
}

func (r *postgresUserRepository) UpdateAvatarKey(ctx context.Context, userID int, key *string) error {
	query := `UPDATE users SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, nullString(key), userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	var avatarKey, resetToken sql.NullString
	var resetExpires sql.NullTime

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&avatarKey,
		&resetToken,
		&resetExpires,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.AvatarKey = nullStringPtr(avatarKey)
	user.PasswordResetToken = nullStringPtr(resetToken)
	if resetExpires.Valid {
		t := resetExpires.Time
		user.PasswordResetExpiresAt = &t
	}
	return user, nil
}
