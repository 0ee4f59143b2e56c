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
	ErrContestNotFound    = errors.New("contest settings not found")
	ErrContestBetNotFound = errors.New("contest bet not found")
)

type ContestRepository interface {
	CreateSettings(ctx context.Context, settings *models.ContestSettings) error
	GetSettings(ctx context.Context, leagueID int, contestType models.ContestType) (*models.ContestSettings, error)
	UpdateSettings(ctx context.Context, settings *models.ContestSettings) error

	UpsertBet(ctx context.Context, bet *models.ContestBet) error
	GetBet(ctx context.Context, leagueID int, contestType models.ContestType, userID int) (*models.ContestBet, error)
	ListBets(ctx context.Context, leagueID int, contestType models.ContestType) ([]models.ContestBet, error)

	// ConfirmResults stores the official outcome, stamps the confirmation
	// time and writes the awarded points on every bet row in a single
	// transaction, so a failure leaves the contest unconfirmed.
	ConfirmResults(ctx context.Context, settings *models.ContestSettings, pointsByUserID map[int]int) error
}

type postgresContestRepository struct {
	db *sql.DB
}

func NewPostgresContestRepository(db *sql.DB) ContestRepository {
	return &postgresContestRepository{db: db}
}

func (r *postgresContestRepository) CreateSettings(ctx context.Context, settings *models.ContestSettings) error {
	query := `
		INSERT INTO contest_settings (league_id, contest_type, lock_at, locked)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		settings.LeagueID,
		string(settings.Type),
		settings.LockAt,
		settings.Locked,
	).Scan(&settings.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrLeagueNotFound
		}
		return err
	}
	return nil
}

func (r *postgresContestRepository) GetSettings(ctx context.Context, leagueID int, contestType models.ContestType) (*models.ContestSettings, error) {
	query := `
		SELECT id, league_id, contest_type, lock_at, locked,
		       official_winner, official_bottom, official_top_scorer,
		       official_finalist1, official_finalist2, results_confirmed_at
		FROM contest_settings
		WHERE league_id = $1 AND contest_type = $2`

	settings := &models.ContestSettings{}
	var typ string
	var winner, bottom, topScorer, finalist1, finalist2 sql.NullString
	var confirmedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, leagueID, string(contestType)).Scan(
		&settings.ID,
		&settings.LeagueID,
		&typ,
		&settings.LockAt,
		&settings.Locked,
		&winner,
		&bottom,
		&topScorer,
		&finalist1,
		&finalist2,
		&confirmedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to scan contest settings: %w", err)
	}

	settings.Type = models.ContestType(typ)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		settings.ResultsConfirmedAt = &t
		official, err := models.OutcomeFromColumns(settings.Type,
			nullStringPtr(winner), nullStringPtr(bottom), nullStringPtr(topScorer),
			nullStringPtr(finalist1), nullStringPtr(finalist2))
		if err != nil {
			return nil, err
		}
		settings.Official = official
	}
	return settings, nil
}

func (r *postgresContestRepository) UpdateSettings(ctx context.Context, settings *models.ContestSettings) error {
	query := `
		UPDATE contest_settings SET lock_at = $1, locked = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, settings.LockAt, settings.Locked, settings.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrContestNotFound)
}

func (r *postgresContestRepository) UpsertBet(ctx context.Context, bet *models.ContestBet) error {
	winner, bottom, topScorer, finalist1, finalist2 := models.OutcomeColumns(bet.Prediction)

	query := `
		INSERT INTO contest_bets
			(league_id, contest_type, user_id, winner, bottom, top_scorer, finalist1, finalist2, submitted_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (league_id, contest_type, user_id)
		DO UPDATE SET
			winner = EXCLUDED.winner,
			bottom = EXCLUDED.bottom,
			top_scorer = EXCLUDED.top_scorer,
			finalist1 = EXCLUDED.finalist1,
			finalist2 = EXCLUDED.finalist2,
			last_modified = now()
		RETURNING id, submitted_at, last_modified`

	err := r.db.QueryRowContext(ctx, query,
		bet.LeagueID,
		string(bet.Type),
		bet.UserID,
		nullString(winner),
		nullString(bottom),
		nullString(topScorer),
		nullString(finalist1),
		nullString(finalist2),
	).Scan(&bet.ID, &bet.SubmittedAt, &bet.LastModified)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrLeagueNotFound
		}
		return err
	}
	return nil
}

func (r *postgresContestRepository) GetBet(ctx context.Context, leagueID int, contestType models.ContestType, userID int) (*models.ContestBet, error) {
	query := betSelect + ` WHERE b.league_id = $1 AND b.contest_type = $2 AND b.user_id = $3`

	row := r.db.QueryRowContext(ctx, query, leagueID, string(contestType), userID)
	bet, err := scanBet(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContestBetNotFound
		}
		return nil, fmt.Errorf("failed to scan contest bet: %w", err)
	}
	return bet, nil
}

func (r *postgresContestRepository) ListBets(ctx context.Context, leagueID int, contestType models.ContestType) ([]models.ContestBet, error) {
	query := betSelect + ` WHERE b.league_id = $1 AND b.contest_type = $2 ORDER BY u.nickname ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID, string(contestType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bets := make([]models.ContestBet, 0)
	for rows.Next() {
		bet, err := scanBet(rows.Scan)
		if err != nil {
			return nil, err
		}
		bets = append(bets, *bet)
	}
	return bets, rows.Err()
}

func (r *postgresContestRepository) ConfirmResults(ctx context.Context, settings *models.ContestSettings, pointsByUserID map[int]int) error {
	winner, bottom, topScorer, finalist1, finalist2 := models.OutcomeColumns(settings.Official)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	confirmedAt := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		UPDATE contest_settings SET
			locked = TRUE,
			official_winner = $1,
			official_bottom = $2,
			official_top_scorer = $3,
			official_finalist1 = $4,
			official_finalist2 = $5,
			results_confirmed_at = $6
		WHERE id = $7 AND results_confirmed_at IS NULL`,
		nullString(winner),
		nullString(bottom),
		nullString(topScorer),
		nullString(finalist1),
		nullString(finalist2),
		confirmedAt,
		settings.ID,
	)
	if err != nil {
		return err
	}
	// results_confirmed_at IS NULL in the WHERE clause makes a concurrent
	// double confirmation lose the race instead of re-awarding points.
	if err := checkAffectedRows(result, ErrContestNotFound); err != nil {
		return err
	}

	for userID, points := range pointsByUserID {
		_, err := tx.ExecContext(ctx, `
			UPDATE contest_bets SET points = $1
			WHERE league_id = $2 AND contest_type = $3 AND user_id = $4`,
			points, settings.LeagueID, string(settings.Type), userID)
		if err != nil {
			return fmt.Errorf("failed to store points for user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit confirmation: %w", err)
	}
	settings.ResultsConfirmedAt = &confirmedAt
	settings.Locked = true
	return nil
}

const betSelect = `
	SELECT b.id, b.league_id, b.contest_type, b.user_id,
	       b.winner, b.bottom, b.top_scorer, b.finalist1, b.finalist2,
	       b.points, b.submitted_at, b.last_modified,
	       u.id, u.nickname
	FROM contest_bets b
	JOIN users u ON u.id = b.user_id`

func scanBet(scan func(...interface{}) error) (*models.ContestBet, error) {
	var bet models.ContestBet
	var typ string
	var winner, bottom, topScorer, finalist1, finalist2 sql.NullString
	var user models.User

	err := scan(
		&bet.ID,
		&bet.LeagueID,
		&typ,
		&bet.UserID,
		&winner,
		&bottom,
		&topScorer,
		&finalist1,
		&finalist2,
		&bet.Points,
		&bet.SubmittedAt,
		&bet.LastModified,
		&user.ID,
		&user.Nickname,
	)
	if err != nil {
		return nil, err
	}

	bet.Type = models.ContestType(typ)
	prediction, err := models.OutcomeFromColumns(bet.Type,
		nullStringPtr(winner), nullStringPtr(bottom), nullStringPtr(topScorer),
		nullStringPtr(finalist1), nullStringPtr(finalist2))
	if err != nil {
		return nil, err
	}
	bet.Prediction = prediction
	bet.User = &user
	return &bet, nil
}
