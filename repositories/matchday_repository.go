package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/lib/pq"
)

var ErrMatchdayNotFound = errors.New("matchday not found")

type MatchdayRepository interface {
	Create(ctx context.Context, matchday *models.Matchday) error
	GetByID(ctx context.Context, id int) (*models.Matchday, error)
	Update(ctx context.Context, matchday *models.Matchday) error
	Delete(ctx context.Context, id int) error
	ListByLeague(ctx context.Context, leagueID int) ([]models.Matchday, error)
}

type postgresMatchdayRepository struct {
	db *sql.DB
}

func NewPostgresMatchdayRepository(db *sql.DB) MatchdayRepository {
	return &postgresMatchdayRepository{db: db}
}

func (r *postgresMatchdayRepository) Create(ctx context.Context, matchday *models.Matchday) error {
	query := `
		INSERT INTO matchdays (league_id, name, is_completed)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		matchday.LeagueID,
		matchday.Name,
		matchday.IsCompleted,
	).Scan(&matchday.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrLeagueNotFound
		}
		return err
	}
	return nil
}

func (r *postgresMatchdayRepository) GetByID(ctx context.Context, id int) (*models.Matchday, error) {
	query := `
		SELECT id, league_id, name, is_completed
		FROM matchdays
		WHERE id = $1`

	matchday := &models.Matchday{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&matchday.ID,
		&matchday.LeagueID,
		&matchday.Name,
		&matchday.IsCompleted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchdayNotFound
		}
		return nil, fmt.Errorf("failed to scan matchday: %w", err)
	}
	return matchday, nil
}

func (r *postgresMatchdayRepository) Update(ctx context.Context, matchday *models.Matchday) error {
	query := `
		UPDATE matchdays SET name = $1, is_completed = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, matchday.Name, matchday.IsCompleted, matchday.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchdayNotFound)
}

func (r *postgresMatchdayRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matchdays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchdayNotFound)
}

func (r *postgresMatchdayRepository) ListByLeague(ctx context.Context, leagueID int) ([]models.Matchday, error) {
	query := `
		SELECT id, league_id, name, is_completed
		FROM matchdays
		WHERE league_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matchdays := make([]models.Matchday, 0)
	for rows.Next() {
		var md models.Matchday
		if err := rows.Scan(&md.ID, &md.LeagueID, &md.Name, &md.IsCompleted); err != nil {
			return nil, err
		}
		matchdays = append(matchdays, md)
	}
	return matchdays, rows.Err()
}
