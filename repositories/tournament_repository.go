package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

const TournamentSlugConstraint = "tournaments_slug_key"

var (
	ErrTournamentNotFound    = errors.New("tournament not found")
	ErrTournamentInvalidDate = errors.New("tournament end date is before start date")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
	SlugExists(ctx context.Context, exec SQLExecutor, slug string, excludeID int) (bool, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, slug, region, tier, start_date, end_date, status, prize_pool,
	description, rules_link, logo_key, created_at, updated_at`

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var prizePool sql.NullInt64
	var logoKey sql.NullString
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Region, &t.Tier, &t.StartDate, &t.EndDate, &t.Status, &prizePool,
		&t.Description, &t.RulesLink, &logoKey, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.PrizePool = intFromNull(prizePool)
	if logoKey.Valid {
		t.LogoKey = &logoKey.String
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, slug, region, tier, start_date, end_date, status, prize_pool,
			description, rules_link, logo_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.Slug, t.Region, t.Tier, t.StartDate, t.EndDate, t.Status, nullInt(t.PrizePool),
		t.Description, t.RulesLink, t.LogoKey,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrTournamentNotFound)
	}
	return t, nil
}

// Update writes every user-editable column plus the recomputed status.
// The logo key has its own method.
func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			slug = $2,
			region = $3,
			tier = $4,
			start_date = $5,
			end_date = $6,
			status = $7,
			prize_pool = $8,
			description = $9,
			rules_link = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.Slug, t.Region, t.Tier, t.StartDate, t.EndDate, t.Status, nullInt(t.PrizePool),
		t.Description, t.RulesLink, t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return notFound(r.handleTournamentError(err), ErrTournamentNotFound)
	}
	return nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	query := `UPDATE tournaments SET logo_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SlugExists(ctx context.Context, exec SQLExecutor, slug string, excludeID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tournaments WHERE slug = $1 AND id <> $2)`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tournament slug: %w", err)
	}
	return exists, nil
}

func (r *postgresTournamentRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_date DESC, id DESC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	return mapPQError(err, map[string]error{
		"tournaments_dates_ordered": ErrTournamentInvalidDate,
	})
}
