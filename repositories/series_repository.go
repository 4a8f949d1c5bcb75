package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrSeriesNotFound      = errors.New("series not found")
	ErrSeriesInvalidRef    = errors.New("series references a missing tournament, stage or team")
	ErrSeriesSameTeams     = errors.New("series teams must be different")
	ErrSeriesInvalidBestOf = errors.New("series best_of must be 1, 3, 5 or 7")
)

type SeriesRepository interface {
	Create(ctx context.Context, exec SQLExecutor, series *models.Series) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error)
	// GetByIDForUpdate locks the series row until the surrounding
	// transaction ends. Every write that feeds the series' derived state
	// takes this lock first.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error)
	UpdateScoreWinner(ctx context.Context, exec SQLExecutor, id int, score string, winnerID *int) error
	ListUpcoming(ctx context.Context, exec SQLExecutor, from time.Time, limit int) ([]*models.Series, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int, limit int) ([]*models.Series, error)
	ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Series, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Series, error)
}

type postgresSeriesRepository struct {
	db *sql.DB
}

func NewPostgresSeriesRepository(db *sql.DB) SeriesRepository {
	return &postgresSeriesRepository{db: db}
}

func (r *postgresSeriesRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const seriesColumns = `
	id, tournament_id, stage_id, team1_id, team2_id, winner_id, best_of,
	scheduled_date, score, created_at, updated_at, created_by, updated_by`

func scanSeries(row rowScanner) (*models.Series, error) {
	s := &models.Series{}
	var winnerID, createdBy, updatedBy sql.NullInt64
	err := row.Scan(
		&s.ID, &s.TournamentID, &s.StageID, &s.Team1ID, &s.Team2ID, &winnerID, &s.BestOf,
		&s.ScheduledDate, &s.Score, &s.CreatedAt, &s.UpdatedAt, &createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	s.WinnerID = intFromNull(winnerID)
	s.CreatedBy, s.UpdatedBy = intFromNull(createdBy), intFromNull(updatedBy)
	return s, nil
}

func (r *postgresSeriesRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Series) error {
	query := `
		INSERT INTO series (
			tournament_id, stage_id, team1_id, team2_id, winner_id, best_of, scheduled_date, score,
			created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.TournamentID, s.StageID, s.Team1ID, s.Team2ID, nullInt(s.WinnerID), s.BestOf, s.ScheduledDate, s.Score,
		nullInt(s.CreatedBy), nullInt(s.UpdatedBy),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	return r.handleSeriesError(err)
}

func (r *postgresSeriesRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE id = $1`
	s, err := scanSeries(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrSeriesNotFound)
	}
	return s, nil
}

func (r *postgresSeriesRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE id = $1 FOR UPDATE`
	s, err := scanSeries(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrSeriesNotFound)
	}
	return s, nil
}

func (r *postgresSeriesRepository) UpdateScoreWinner(ctx context.Context, exec SQLExecutor, id int, score string, winnerID *int) error {
	query := `UPDATE series SET score = $1, winner_id = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, score, nullInt(winnerID), id)
	if err != nil {
		return fmt.Errorf("failed to update series %d score: %w", id, r.handleSeriesError(err))
	}
	return checkAffectedRows(result, ErrSeriesNotFound)
}

// ListUpcoming returns series scheduled at or after from, soonest first.
func (r *postgresSeriesRepository) ListUpcoming(ctx context.Context, exec SQLExecutor, from time.Time, limit int) ([]*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE scheduled_date >= $1 ORDER BY scheduled_date, id LIMIT $2`
	return r.list(ctx, exec, query, from, limit)
}

// ListByTeam returns the team's most recent series first.
func (r *postgresSeriesRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int, limit int) ([]*models.Series, error) {
	query := `
		SELECT ` + seriesColumns + `
		FROM series
		WHERE team1_id = $1 OR team2_id = $1
		ORDER BY scheduled_date DESC, id DESC
		LIMIT $2`
	return r.list(ctx, exec, query, teamID, limit)
}

func (r *postgresSeriesRepository) ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE stage_id = $1 ORDER BY scheduled_date, id`
	return r.list(ctx, exec, query, stageID)
}

// ListByTournament returns every series of the tournament, newest first.
func (r *postgresSeriesRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE tournament_id = $1 ORDER BY scheduled_date DESC, id DESC`
	return r.list(ctx, exec, query, tournamentID)
}

func (r *postgresSeriesRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Series, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	defer rows.Close()

	list := make([]*models.Series, 0)
	for rows.Next() {
		s, scanErr := scanSeries(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan series: %w", scanErr)
		}
		list = append(list, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *postgresSeriesRepository) handleSeriesError(err error) error {
	return mapPQError(err, map[string]error{
		"series_distinct_teams":     ErrSeriesSameTeams,
		"series_best_of_check":      ErrSeriesInvalidBestOf,
		"series_tournament_id_fkey": ErrSeriesInvalidRef,
		"series_stage_id_fkey":      ErrSeriesInvalidRef,
		"series_team1_id_fkey":      ErrSeriesInvalidRef,
		"series_team2_id_fkey":      ErrSeriesInvalidRef,
	})
}
