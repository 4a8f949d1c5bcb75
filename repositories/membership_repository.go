package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrMembershipDuplicate = errors.New("membership with this team and start date already exists")
	ErrMembershipInvalid   = errors.New("membership references a missing person or team")
)

// MembershipRepository stores player and staff contracts. The kind on each
// call selects the ledger.
type MembershipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, m *models.Membership) error
	Update(ctx context.Context, exec SQLExecutor, m *models.Membership) error
	GetByID(ctx context.Context, exec SQLExecutor, kind models.PersonKind, id int) (*models.Membership, error)
	ListByPerson(ctx context.Context, exec SQLExecutor, kind models.PersonKind, personID int) ([]models.Membership, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, kind models.PersonKind, teamID int) ([]models.Membership, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

type membershipTable struct {
	name      string
	personCol string
	uniqueKey string
}

func tableFor(kind models.PersonKind) (membershipTable, error) {
	switch kind {
	case models.PersonPlayer:
		return membershipTable{name: "player_memberships", personCol: "player_id", uniqueKey: "player_memberships_player_team_start_key"}, nil
	case models.PersonStaff:
		return membershipTable{name: "staff_memberships", personCol: "staff_id", uniqueKey: "staff_memberships_staff_team_start_key"}, nil
	}
	return membershipTable{}, fmt.Errorf("unknown membership kind %q", kind)
}

func (t membershipTable) columns() string {
	return `id, ` + t.personCol + `, team_id, role_at_team, start_date, end_date, is_starter, created_at, updated_at`
}

func scanMembership(row rowScanner, kind models.PersonKind) (models.Membership, error) {
	m := models.Membership{Kind: kind}
	var endDate sql.NullTime
	err := row.Scan(&m.ID, &m.PersonID, &m.TeamID, &m.RoleAtTeam, &m.StartDate, &endDate, &m.IsStarter, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	m.EndDate = timeFromNull(endDate)
	return m, nil
}

func (r *postgresMembershipRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Membership) error {
	t, err := tableFor(m.Kind)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO ` + t.name + ` (` + t.personCol + `, team_id, role_at_team, start_date, end_date, is_starter)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		m.PersonID, m.TeamID, m.RoleAtTeam, m.StartDate, nullTime(m.EndDate), m.IsStarter,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	return r.handleMembershipError(err, t)
}

func (r *postgresMembershipRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Membership) error {
	t, err := tableFor(m.Kind)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + t.name + ` SET
			team_id = $1,
			role_at_team = $2,
			start_date = $3,
			end_date = $4,
			is_starter = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		m.TeamID, m.RoleAtTeam, m.StartDate, nullTime(m.EndDate), m.IsStarter, m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		return notFound(r.handleMembershipError(err, t), ErrMembershipNotFound)
	}
	return nil
}

func (r *postgresMembershipRepository) GetByID(ctx context.Context, exec SQLExecutor, kind models.PersonKind, id int) (*models.Membership, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.name + ` WHERE id = $1`
	m, err := scanMembership(r.getExecutor(exec).QueryRowContext(ctx, query, id), kind)
	if err != nil {
		return nil, notFound(err, ErrMembershipNotFound)
	}
	return &m, nil
}

func (r *postgresMembershipRepository) ListByPerson(ctx context.Context, exec SQLExecutor, kind models.PersonKind, personID int) ([]models.Membership, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.name + ` WHERE ` + t.personCol + ` = $1 ORDER BY start_date`
	return r.list(ctx, exec, kind, query, personID)
}

func (r *postgresMembershipRepository) ListByTeam(ctx context.Context, exec SQLExecutor, kind models.PersonKind, teamID int) ([]models.Membership, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.name + ` WHERE team_id = $1 ORDER BY start_date, id`
	return r.list(ctx, exec, kind, query, teamID)
}

func (r *postgresMembershipRepository) list(ctx context.Context, exec SQLExecutor, kind models.PersonKind, query string, args ...interface{}) ([]models.Membership, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s memberships: %w", kind, err)
	}
	defer rows.Close()

	memberships := make([]models.Membership, 0)
	for rows.Next() {
		m, scanErr := scanMembership(rows, kind)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", scanErr)
		}
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *postgresMembershipRepository) handleMembershipError(err error, t membershipTable) error {
	return mapPQError(err, map[string]error{
		t.uniqueKey:                          ErrMembershipDuplicate,
		t.name + "_" + t.personCol + "_fkey": ErrMembershipInvalid,
		t.name + "_team_id_fkey":             ErrMembershipInvalid,
	})
}
