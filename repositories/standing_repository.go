package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// ManualPointsRepository stores admin-entered per-member adjustments that are
// added directly to leaderboard totals.
type ManualPointsRepository interface {
	Set(ctx context.Context, leagueID, userID, points int) error
	GetByLeague(ctx context.Context, leagueID int) (map[int]int, error)
}

type postgresManualPointsRepository struct {
	db *sql.DB
}

func NewPostgresManualPointsRepository(db *sql.DB) ManualPointsRepository {
	return &postgresManualPointsRepository{db: db}
}

func (r *postgresManualPointsRepository) Set(ctx context.Context, leagueID, userID, points int) error {
	query := `
		INSERT INTO manual_points (league_id, user_id, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (league_id, user_id)
		DO UPDATE SET points = EXCLUDED.points`

	_, err := r.db.ExecContext(ctx, query, leagueID, userID, points)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrLeagueNotFound
		}
		return err
	}
	return nil
}

func (r *postgresManualPointsRepository) GetByLeague(ctx context.Context, leagueID int) (map[int]int, error) {
	query := `SELECT user_id, points FROM manual_points WHERE league_id = $1`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make(map[int]int)
	for rows.Next() {
		var userID, pts int
		if err := rows.Scan(&userID, &pts); err != nil {
			return nil, err
		}
		points[userID] = pts
	}
	return points, rows.Err()
}
