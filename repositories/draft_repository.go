package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrDraftActionNotFound = errors.New("draft action not found")
	ErrDraftOrderTaken     = errors.New("draft order already used in this game")
)

type DraftActionRepository interface {
	GetByGameAndOrder(ctx context.Context, exec SQLExecutor, gameID, order int) (*models.DraftAction, error)
	Create(ctx context.Context, exec SQLExecutor, action *models.DraftAction) error
	Update(ctx context.Context, exec SQLExecutor, action *models.DraftAction) error
	ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.DraftAction, error)
	// SyncTeamsForGame rewrites team_id of every draft action in the game
	// from its side, after the game's side assignment changed.
	SyncTeamsForGame(ctx context.Context, exec SQLExecutor, game *models.Game) (int64, error)
}

type postgresDraftActionRepository struct {
	db *sql.DB
}

func NewPostgresDraftActionRepository(db *sql.DB) DraftActionRepository {
	return &postgresDraftActionRepository{db: db}
}

func (r *postgresDraftActionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const draftColumns = `
	d.id, d.game_id, d.action, d.side, d.action_order, d.hero_id, d.player_id, d.team_id,
	d.created_at, d.updated_at, d.created_by, d.updated_by`

func scanDraftAction(row rowScanner) (*models.DraftAction, error) {
	d := &models.DraftAction{}
	var playerID, createdBy, updatedBy sql.NullInt64
	err := row.Scan(
		&d.ID, &d.GameID, &d.Action, &d.Side, &d.Order, &d.HeroID, &playerID, &d.TeamID,
		&d.CreatedAt, &d.UpdatedAt, &createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	d.PlayerID = intFromNull(playerID)
	d.CreatedBy, d.UpdatedBy = intFromNull(createdBy), intFromNull(updatedBy)
	return d, nil
}

func (r *postgresDraftActionRepository) GetByGameAndOrder(ctx context.Context, exec SQLExecutor, gameID, order int) (*models.DraftAction, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_actions d WHERE d.game_id = $1 AND d.action_order = $2`
	d, err := scanDraftAction(r.getExecutor(exec).QueryRowContext(ctx, query, gameID, order))
	if err != nil {
		return nil, notFound(err, ErrDraftActionNotFound)
	}
	return d, nil
}

func (r *postgresDraftActionRepository) Create(ctx context.Context, exec SQLExecutor, d *models.DraftAction) error {
	query := `
		INSERT INTO draft_actions (
			game_id, action, side, action_order, hero_id, player_id, team_id, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		d.GameID, d.Action, d.Side, d.Order, d.HeroID, nullInt(d.PlayerID), d.TeamID,
		nullInt(d.CreatedBy), nullInt(d.UpdatedBy),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	return r.handleDraftError(err)
}

func (r *postgresDraftActionRepository) Update(ctx context.Context, exec SQLExecutor, d *models.DraftAction) error {
	query := `
		UPDATE draft_actions SET
			action = $1,
			side = $2,
			hero_id = $3,
			player_id = $4,
			team_id = $5,
			created_by = COALESCE(created_by, $6),
			updated_by = COALESCE($7, updated_by),
			updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		d.Action, d.Side, d.HeroID, nullInt(d.PlayerID), d.TeamID,
		nullInt(d.CreatedBy), nullInt(d.UpdatedBy), d.ID,
	).Scan(&d.UpdatedAt)
	if err != nil {
		return notFound(r.handleDraftError(err), ErrDraftActionNotFound)
	}
	return nil
}

func (r *postgresDraftActionRepository) ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.DraftAction, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM draft_actions d
		JOIN games g ON g.id = d.game_id
		WHERE g.series_id = $1
		ORDER BY g.game_no, d.action_order`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft actions: %w", err)
	}
	defer rows.Close()

	actions := make([]*models.DraftAction, 0)
	for rows.Next() {
		d, scanErr := scanDraftAction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan draft action: %w", scanErr)
		}
		actions = append(actions, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *postgresDraftActionRepository) SyncTeamsForGame(ctx context.Context, exec SQLExecutor, game *models.Game) (int64, error) {
	query := `
		UPDATE draft_actions SET
			team_id = CASE side WHEN $2 THEN $3 ELSE $4 END,
			updated_at = NOW()
		WHERE game_id = $1
		  AND team_id <> CASE side WHEN $2 THEN $3 ELSE $4 END`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, game.ID, models.SideBlue, game.BlueSideID, game.RedSideID)
	if err != nil {
		return 0, fmt.Errorf("failed to sync draft teams for game %d: %w", game.ID, err)
	}
	return result.RowsAffected()
}

func (r *postgresDraftActionRepository) handleDraftError(err error) error {
	return mapPQError(err, map[string]error{
		"draft_actions_game_order_key": ErrDraftOrderTaken,
		"draft_actions_game_id_fkey":   ErrGameNotFound,
		"draft_actions_hero_id_fkey":   ErrHeroNotFound,
		"draft_actions_player_id_fkey": ErrPlayerNotFound,
	})
}
