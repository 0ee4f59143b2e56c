package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrLeagueNameConflict = errors.New("league name conflict")
	ErrJoinCodeConflict   = errors.New("league join code conflict")
	ErrMemberConflict     = errors.New("user is already a member of this league")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	GetByJoinCode(ctx context.Context, code string) (*models.League, error)
	ListByUser(ctx context.Context, userID int) ([]models.League, error)
	UpdateCrestKey(ctx context.Context, leagueID int, key *string) error

	AddMember(ctx context.Context, leagueID, userID int) error
	ListMembers(ctx context.Context, leagueID int) ([]models.LeagueMember, error)
	IsMember(ctx context.Context, leagueID, userID int) (bool, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name, join_code, admin_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		league.Name,
		league.JoinCode,
		league.AdminID,
	).Scan(&league.ID, &league.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "leagues_name_key":
				return ErrLeagueNameConflict
			case "leagues_join_code_key":
				return ErrJoinCodeConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `
		SELECT id, name, join_code, admin_id, crest_key, created_at
		FROM leagues
		WHERE id = $1`
	return r.scanLeague(ctx, query, id)
}

func (r *postgresLeagueRepository) GetByJoinCode(ctx context.Context, code string) (*models.League, error) {
	query := `
		SELECT id, name, join_code, admin_id, crest_key, created_at
		FROM leagues
		WHERE join_code = $1`
	return r.scanLeague(ctx, query, code)
}

func (r *postgresLeagueRepository) ListByUser(ctx context.Context, userID int) ([]models.League, error) {
	query := `
		SELECT l.id, l.name, l.join_code, l.admin_id, l.crest_key, l.created_at
		FROM leagues l
		JOIN league_members lm ON lm.league_id = l.id
		WHERE lm.user_id = $1
		ORDER BY l.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leagues := make([]models.League, 0)
	for rows.Next() {
		var league models.League
		var crestKey sql.NullString
		if err := rows.Scan(&league.ID, &league.Name, &league.JoinCode, &league.AdminID, &crestKey, &league.CreatedAt); err != nil {
			return nil, err
		}
		league.CrestKey = nullStringPtr(crestKey)
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

func (r *postgresLeagueRepository) UpdateCrestKey(ctx context.Context, leagueID int, key *string) error {
	query := `UPDATE leagues SET crest_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, nullString(key), leagueID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) AddMember(ctx context.Context, leagueID, userID int) error {
	query := `
		INSERT INTO league_members (league_id, user_id)
		VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, leagueID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrMemberConflict
			case "23503":
				return ErrLeagueNotFound
			}
		}
		return err
	}
	return nil
}

// ListMembers returns every member together with the user row, ordered by
// join time so leaderboard ties keep a stable order.
func (r *postgresLeagueRepository) ListMembers(ctx context.Context, leagueID int) ([]models.LeagueMember, error) {
	query := `
		SELECT lm.league_id, lm.user_id, lm.joined_at,
		       u.id, u.nickname, u.email, u.is_admin, u.created_at
		FROM league_members lm
		JOIN users u ON u.id = lm.user_id
		WHERE lm.league_id = $1
		ORDER BY lm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.LeagueMember, 0)
	for rows.Next() {
		var m models.LeagueMember
		var u models.User
		if err := rows.Scan(&m.LeagueID, &m.UserID, &m.JoinedAt,
			&u.ID, &u.Nickname, &u.Email, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, err
		}
		m.User = &u
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresLeagueRepository) IsMember(ctx context.Context, leagueID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM league_members WHERE league_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, leagueID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresLeagueRepository) scanLeague(ctx context.Context, query string, args ...interface{}) (*models.League, error) {
	league := &models.League{}
	var crestKey sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&league.ID,
		&league.Name,
		&league.JoinCode,
		&league.AdminID,
		&crestKey,
		&league.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league: %w", err)
	}
	league.CrestKey = nullStringPtr(crestKey)
	return league, nil
}
