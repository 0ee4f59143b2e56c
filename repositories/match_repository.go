package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id int) error
	ListByMatchday(ctx context.Context, matchdayID int) ([]models.Match, error)
	ListByLeague(ctx context.Context, leagueID int) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (matchday_id, home_team, away_team, kickoff, deadline, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		match.MatchdayID,
		match.HomeTeam,
		match.AwayTeam,
		match.Kickoff,
		match.Deadline,
		resultToNull(match.Result),
	).Scan(&match.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchdayNotFound
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, matchday_id, home_team, away_team, kickoff, deadline, result
		FROM matches
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	match, err := scanMatch(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return match, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			home_team = $1,
			away_team = $2,
			kickoff = $3,
			deadline = $4,
			result = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		match.HomeTeam,
		match.AwayTeam,
		match.Kickoff,
		match.Deadline,
		resultToNull(match.Result),
		match.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByMatchday(ctx context.Context, matchdayID int) ([]models.Match, error) {
	query := `
		SELECT id, matchday_id, home_team, away_team, kickoff, deadline, result
		FROM matches
		WHERE matchday_id = $1
		ORDER BY kickoff ASC, id ASC`
	return r.listMatches(ctx, query, matchdayID)
}

// ListByLeague returns every match of every matchday in the league; the
// leaderboard scores all of them in one pass.
func (r *postgresMatchRepository) ListByLeague(ctx context.Context, leagueID int) ([]models.Match, error) {
	query := `
		SELECT m.id, m.matchday_id, m.home_team, m.away_team, m.kickoff, m.deadline, m.result
		FROM matches m
		JOIN matchdays md ON md.id = m.matchday_id
		WHERE md.league_id = $1
		ORDER BY m.matchday_id ASC, m.kickoff ASC, m.id ASC`
	return r.listMatches(ctx, query, leagueID)
}

func (r *postgresMatchRepository) listMatches(ctx context.Context, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

func scanMatch(scan func(...interface{}) error) (*models.Match, error) {
	var match models.Match
	var result sql.NullString
	err := scan(
		&match.ID,
		&match.MatchdayID,
		&match.HomeTeam,
		&match.AwayTeam,
		&match.Kickoff,
		&match.Deadline,
		&result,
	)
	if err != nil {
		return nil, err
	}
	if result.Valid {
		r := models.MatchResult(result.String)
		match.Result = &r
	}
	return &match, nil
}

func resultToNull(r *models.MatchResult) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}
