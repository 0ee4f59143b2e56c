package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/lib/pq"
)

var ErrPickNotFound = errors.New("pick not found")

type PickRepository interface {
	// Upsert inserts the pick or, if a row for (match, user) already exists,
	// overwrites its value and bumps last_modified. The conflict resolution
	// happens in the database so concurrent submissions cannot lose updates.
	Upsert(ctx context.Context, pick *models.Pick) error
	GetByMatchAndUser(ctx context.Context, matchID, userID int) (*models.Pick, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Pick, error)
	ListByLeague(ctx context.Context, leagueID int) ([]models.Pick, error)
	ListByUserAndLeague(ctx context.Context, userID, leagueID int) ([]models.Pick, error)
}

type postgresPickRepository struct {
	db *sql.DB
}

func NewPostgresPickRepository(db *sql.DB) PickRepository {
	return &postgresPickRepository{db: db}
}

func (r *postgresPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	query := `
		INSERT INTO picks (match_id, user_id, value, submitted_at, last_modified)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (match_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, last_modified = now()
		RETURNING submitted_at, last_modified`

	err := r.db.QueryRowContext(ctx, query,
		pick.MatchID,
		pick.UserID,
		string(pick.Value),
	).Scan(&pick.SubmittedAt, &pick.LastModified)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

func (r *postgresPickRepository) GetByMatchAndUser(ctx context.Context, matchID, userID int) (*models.Pick, error) {
	query := `
		SELECT match_id, user_id, value, submitted_at, last_modified
		FROM picks
		WHERE match_id = $1 AND user_id = $2`

	pick := &models.Pick{}
	var value string
	err := r.db.QueryRowContext(ctx, query, matchID, userID).Scan(
		&pick.MatchID,
		&pick.UserID,
		&value,
		&pick.SubmittedAt,
		&pick.LastModified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPickNotFound
		}
		return nil, fmt.Errorf("failed to scan pick: %w", err)
	}
	pick.Value = models.MatchResult(value)
	return pick, nil
}

func (r *postgresPickRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Pick, error) {
	query := `
		SELECT p.match_id, p.user_id, p.value, p.submitted_at, p.last_modified,
		       u.id, u.nickname
		FROM picks p
		JOIN users u ON u.id = p.user_id
		WHERE p.match_id = $1
		ORDER BY u.nickname ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	picks := make([]models.Pick, 0)
	for rows.Next() {
		var pick models.Pick
		var value string
		var user models.User
		if err := rows.Scan(&pick.MatchID, &pick.UserID, &value, &pick.SubmittedAt, &pick.LastModified,
			&user.ID, &user.Nickname); err != nil {
			return nil, err
		}
		pick.Value = models.MatchResult(value)
		pick.User = &user
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}

func (r *postgresPickRepository) ListByLeague(ctx context.Context, leagueID int) ([]models.Pick, error) {
	query := `
		SELECT p.match_id, p.user_id, p.value, p.submitted_at, p.last_modified
		FROM picks p
		JOIN matches m ON m.id = p.match_id
		JOIN matchdays md ON md.id = m.matchday_id
		WHERE md.league_id = $1`
	return r.listPicks(ctx, query, leagueID)
}

func (r *postgresPickRepository) ListByUserAndLeague(ctx context.Context, userID, leagueID int) ([]models.Pick, error) {
	query := `
		SELECT p.match_id, p.user_id, p.value, p.submitted_at, p.last_modified
		FROM picks p
		JOIN matches m ON m.id = p.match_id
		JOIN matchdays md ON md.id = m.matchday_id
		WHERE p.user_id = $1 AND md.league_id = $2`
	return r.listPicks(ctx, query, userID, leagueID)
}

func (r *postgresPickRepository) listPicks(ctx context.Context, query string, args ...interface{}) ([]models.Pick, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	picks := make([]models.Pick, 0)
	for rows.Next() {
		var pick models.Pick
		var value string
		if err := rows.Scan(&pick.MatchID, &pick.UserID, &value, &pick.SubmittedAt, &pick.LastModified); err != nil {
			return nil, err
		}
		pick.Value = models.MatchResult(value)
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}
