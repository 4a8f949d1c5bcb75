package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrTeamAlreadyRegistered = errors.New("team is already registered for this tournament")
	ErrRegistrationInvalid   = errors.New("registration references a missing tournament or team")
)

type TournamentTeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.TournamentTeam) error
	IsRegistered(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (bool, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentTeam, error)
}

type postgresTournamentTeamRepository struct {
	db *sql.DB
}

func NewPostgresTournamentTeamRepository(db *sql.DB) TournamentTeamRepository {
	return &postgresTournamentTeamRepository{db: db}
}

func (r *postgresTournamentTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentTeamRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.TournamentTeam) error {
	query := `
		INSERT INTO tournament_teams (tournament_id, team_id, seed, kind, group_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		entry.TournamentID, entry.TeamID, nullInt(entry.Seed), entry.Kind, entry.Group, entry.Notes,
	).Scan(&entry.ID)

	return mapPQError(err, map[string]error{
		"tournament_teams_tournament_team_key": ErrTeamAlreadyRegistered,
		"tournament_teams_tournament_id_fkey":  ErrRegistrationInvalid,
		"tournament_teams_team_id_fkey":        ErrRegistrationInvalid,
	})
}

func (r *postgresTournamentTeamRepository) IsRegistered(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tournament_teams WHERE tournament_id = $1 AND team_id = $2)`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, teamID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

func (r *postgresTournamentTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentTeam, error) {
	query := `
		SELECT id, tournament_id, team_id, seed, kind, group_name, notes
		FROM tournament_teams
		WHERE tournament_id = $1
		ORDER BY seed NULLS LAST, id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament teams: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.TournamentTeam, 0)
	for rows.Next() {
		e := &models.TournamentTeam{}
		var seed sql.NullInt64
		if scanErr := rows.Scan(&e.ID, &e.TournamentID, &e.TeamID, &seed, &e.Kind, &e.Group, &e.Notes); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament team: %w", scanErr)
		}
		e.Seed = intFromNull(seed)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
