package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNoTaken      = errors.New("game number already exists in this series")
	ErrGameSidesInvalid = errors.New("blue and red side must be different teams")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerID *int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `
	id, series_id, game_no, blue_side_id, red_side_id, winner_id, result_type,
	duration_seconds, vod_link, created_at, updated_at, created_by, updated_by`

func scanGame(row rowScanner) (*models.Game, error) {
	g := &models.Game{}
	var winnerID, duration, createdBy, updatedBy sql.NullInt64
	err := row.Scan(
		&g.ID, &g.SeriesID, &g.GameNo, &g.BlueSideID, &g.RedSideID, &winnerID, &g.ResultType,
		&duration, &g.VodLink, &g.CreatedAt, &g.UpdatedAt, &createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	g.WinnerID = intFromNull(winnerID)
	g.CreatedBy, g.UpdatedBy = intFromNull(createdBy), intFromNull(updatedBy)
	g.Duration = durationFromSeconds(duration)
	return g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	query := `
		INSERT INTO games (
			series_id, game_no, blue_side_id, red_side_id, winner_id, result_type, duration_seconds, vod_link,
			created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		g.SeriesID, g.GameNo, g.BlueSideID, g.RedSideID, nullInt(g.WinnerID), g.ResultType,
		durationSeconds(g.Duration), g.VodLink, nullInt(g.CreatedBy), nullInt(g.UpdatedBy),
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	g, err := scanGame(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrGameNotFound)
	}
	return g, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	query := `
		UPDATE games SET
			game_no = $1,
			blue_side_id = $2,
			red_side_id = $3,
			winner_id = $4,
			result_type = $5,
			duration_seconds = $6,
			vod_link = $7,
			created_by = COALESCE(created_by, $8),
			updated_by = COALESCE($9, updated_by),
			updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		g.GameNo, g.BlueSideID, g.RedSideID, nullInt(g.WinnerID), g.ResultType,
		durationSeconds(g.Duration), g.VodLink, nullInt(g.CreatedBy), nullInt(g.UpdatedBy), g.ID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		return notFound(r.handleGameError(err), ErrGameNotFound)
	}
	return nil
}

func (r *postgresGameRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerID *int) error {
	query := `UPDATE games SET winner_id = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, nullInt(winnerID), id)
	if err != nil {
		return fmt.Errorf("failed to update game %d winner: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// Delete removes the game. Its stats and draft actions go with it.
func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE series_id = $1 ORDER BY game_no`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for series %d: %w", seriesID, err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game: %w", scanErr)
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	return mapPQError(err, map[string]error{
		"games_series_game_no_key": ErrGameNoTaken,
		"games_distinct_sides":     ErrGameSidesInvalid,
		"games_series_id_fkey":     ErrSeriesNotFound,
	})
}
