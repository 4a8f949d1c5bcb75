package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrStaffNotFound  = errors.New("staff member not found")
	ErrHeroNotFound   = errors.New("hero not found")
)

// PersonRepository covers the people referenced by memberships and stats.
type PersonRepository interface {
	// Lock takes a row lock on the person so concurrent membership writes
	// for the same person serialize.
	Lock(ctx context.Context, exec SQLExecutor, kind models.PersonKind, id int) error
	GetPlayer(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
}

type HeroRepository interface {
	Exists(ctx context.Context, exec SQLExecutor, id int) (bool, error)
}

type postgresPersonRepository struct {
	db *sql.DB
}

func NewPostgresPersonRepository(db *sql.DB) PersonRepository {
	return &postgresPersonRepository{db: db}
}

func (r *postgresPersonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPersonRepository) Lock(ctx context.Context, exec SQLExecutor, kind models.PersonKind, id int) error {
	query := `SELECT id FROM players WHERE id = $1 FOR UPDATE`
	missing := ErrPlayerNotFound
	if kind == models.PersonStaff {
		query = `SELECT id FROM staff WHERE id = $1 FOR UPDATE`
		missing = ErrStaffNotFound
	}

	var locked int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(&locked); err != nil {
		return notFound(err, missing)
	}
	return nil
}

func (r *postgresPersonRepository) GetPlayer(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `
		SELECT id, ign, name, slug, role, nationality, is_active, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.IGN, &p.Name, &p.Slug, &p.Role, &p.Nationality, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrPlayerNotFound)
	}
	return p, nil
}

type postgresHeroRepository struct {
	db *sql.DB
}

func NewPostgresHeroRepository(db *sql.DB) HeroRepository {
	return &postgresHeroRepository{db: db}
}

func (r *postgresHeroRepository) Exists(ctx context.Context, exec SQLExecutor, id int) (bool, error) {
	var executor SQLExecutor = r.db
	if exec != nil {
		executor = exec
	}
	var exists bool
	err := executor.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM heroes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check hero %d: %w", id, err)
	}
	return exists, nil
}
