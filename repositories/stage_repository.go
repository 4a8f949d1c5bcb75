package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

const StageSlugConstraint = "stages_slug_key"

var (
	ErrStageNotFound   = errors.New("stage not found")
	ErrStageOrderTaken = errors.New("stage order is already used in this tournament")
	ErrStageDuplicate  = errors.New("stage type and variant already exist in this tournament")
)

type StageRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error)
	Update(ctx context.Context, exec SQLExecutor, stage *models.Stage) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	SlugExists(ctx context.Context, exec SQLExecutor, slug string, excludeID int) (bool, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Stage, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Stage, error)
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const stageColumns = `
	id, tournament_id, stage_type, slug, variant, stage_order, start_date, end_date,
	tier, status, created_at, updated_at`

func scanStage(row rowScanner) (*models.Stage, error) {
	s := &models.Stage{}
	err := row.Scan(
		&s.ID, &s.TournamentID, &s.StageType, &s.Slug, &s.Variant, &s.Order, &s.StartDate, &s.EndDate,
		&s.Tier, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresStageRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Stage) error {
	query := `
		INSERT INTO stages (
			tournament_id, stage_type, slug, variant, stage_order, start_date, end_date, tier, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.TournamentID, s.StageType, s.Slug, s.Variant, s.Order, s.StartDate, s.EndDate, s.Tier, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	return r.handleStageError(err)
}

func (r *postgresStageRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = $1`
	s, err := scanStage(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrStageNotFound)
	}
	return s, nil
}

func (r *postgresStageRepository) Update(ctx context.Context, exec SQLExecutor, s *models.Stage) error {
	query := `
		UPDATE stages SET
			stage_type = $1,
			slug = $2,
			variant = $3,
			stage_order = $4,
			start_date = $5,
			end_date = $6,
			tier = $7,
			status = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.StageType, s.Slug, s.Variant, s.Order, s.StartDate, s.EndDate, s.Tier, s.Status, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return notFound(r.handleStageError(err), ErrStageNotFound)
	}
	return nil
}

func (r *postgresStageRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE stages SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleStageError(err)
	}
	return checkAffectedRows(result, ErrStageNotFound)
}

func (r *postgresStageRepository) SlugExists(ctx context.Context, exec SQLExecutor, slug string, excludeID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM stages WHERE slug = $1 AND id <> $2)`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check stage slug: %w", err)
	}
	return exists, nil
}

func (r *postgresStageRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE tournament_id = $1 ORDER BY stage_order`
	return r.list(ctx, exec, query, tournamentID)
}

func (r *postgresStageRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages ORDER BY tournament_id, stage_order`
	return r.list(ctx, exec, query)
}

func (r *postgresStageRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Stage, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	stages := make([]*models.Stage, 0)
	for rows.Next() {
		s, scanErr := scanStage(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", scanErr)
		}
		stages = append(stages, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *postgresStageRepository) handleStageError(err error) error {
	return mapPQError(err, map[string]error{
		"stages_tournament_order_key":        ErrStageOrderTaken,
		"stages_tournament_type_variant_key": ErrStageDuplicate,
		"stages_tournament_id_fkey":          ErrTournamentNotFound,
	})
}
