package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, slug, short_name, region, is_active, created_at, logo_key`

func scanTeam(row rowScanner) (*models.Team, error) {
	t := &models.Team{}
	var logoKey sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.ShortName, &t.Region, &t.IsActive, &t.CreatedAt, &logoKey); err != nil {
		return nil, err
	}
	if logoKey.Valid {
		t.LogoKey = &logoKey.String
	}
	return t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrTeamNotFound)
	}
	return t, nil
}

// ListByIDs loads the given teams keyed by id. Missing ids are simply absent.
func (r *postgresTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.Team, error) {
	teams := make(map[int]*models.Team, len(ids))
	if len(ids) == 0 {
		return teams, nil
	}

	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}

	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1)`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan team: %w", scanErr)
		}
		teams[t.ID] = t
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
