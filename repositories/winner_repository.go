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
	ErrDeclarationNotFound = errors.New("winner declaration not found")
	ErrDeclarationConflict = errors.New("league winner already declared")
)

type WinnerRepository interface {
	Create(ctx context.Context, declaration *models.WinnerDeclaration) error
	GetByLeague(ctx context.Context, leagueID int) (*models.WinnerDeclaration, error)
}

type postgresWinnerRepository struct {
	db *sql.DB
}

func NewPostgresWinnerRepository(db *sql.DB) WinnerRepository {
	return &postgresWinnerRepository{db: db}
}

func (r *postgresWinnerRepository) Create(ctx context.Context, declaration *models.WinnerDeclaration) error {
	query := `
		INSERT INTO winner_declarations (league_id, winner_user_id, method, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, declared_at`

	err := r.db.QueryRowContext(ctx, query,
		declaration.LeagueID,
		declaration.WinnerUserID,
		string(declaration.Method),
		declaration.Description,
	).Scan(&declaration.ID, &declaration.DeclaredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				// league_id is unique: one declaration per league, ever.
				return ErrDeclarationConflict
			case "23503":
				return ErrLeagueNotFound
			}
		}
		return err
	}
	return nil
}

func (r *postgresWinnerRepository) GetByLeague(ctx context.Context, leagueID int) (*models.WinnerDeclaration, error) {
	query := `
		SELECT d.id, d.league_id, d.winner_user_id, d.declared_at, d.method, d.description,
		       u.id, u.nickname
		FROM winner_declarations d
		JOIN users u ON u.id = d.winner_user_id
		WHERE d.league_id = $1`

	declaration := &models.WinnerDeclaration{}
	var method string
	var winner models.User

	err := r.db.QueryRowContext(ctx, query, leagueID).Scan(
		&declaration.ID,
		&declaration.LeagueID,
		&declaration.WinnerUserID,
		&declaration.DeclaredAt,
		&method,
		&declaration.Description,
		&winner.ID,
		&winner.Nickname,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeclarationNotFound
		}
		return nil, fmt.Errorf("failed to scan winner declaration: %w", err)
	}

	declaration.Method = models.DeclarationMethod(method)
	declaration.Winner = &winner
	return declaration, nil
}
