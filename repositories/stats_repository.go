package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-tracker/models"
)

var (
	ErrTeamStatNotFound   = errors.New("team game stat not found")
	ErrTeamStatDuplicate  = errors.New("team already has a stat line for this game")
	ErrPlayerStatNotFound = errors.New("player game stat not found")
	ErrPlayerStatExists   = errors.New("player already has a stat line for this game")
	ErrStatInvalidRef     = errors.New("stat references a missing game, team, player or hero")
)

type TeamGameStatRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stat *models.TeamGameStat) error
	Update(ctx context.Context, exec SQLExecutor, stat *models.TeamGameStat) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TeamGameStat, error)
	GetByGameAndTeam(ctx context.Context, exec SQLExecutor, gameID, teamID int) (*models.TeamGameStat, error)
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.TeamGameStat, error)
	ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.TeamGameStat, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type PlayerGameStatRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stat *models.PlayerGameStat) error
	Update(ctx context.Context, exec SQLExecutor, stat *models.PlayerGameStat) error
	GetByGameAndPlayer(ctx context.Context, exec SQLExecutor, gameID, playerID int) (*models.PlayerGameStat, error)
	ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.PlayerGameStat, error)
}

type postgresTeamGameStatRepository struct {
	db *sql.DB
}

func NewPostgresTeamGameStatRepository(db *sql.DB) TeamGameStatRepository {
	return &postgresTeamGameStatRepository{db: db}
}

func (r *postgresTeamGameStatRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamStatColumns = `
	s.id, s.game_id, s.team_id, s.side, s.tower_destroyed, s.lord_kills, s.turtle_kills,
	s.orange_buff, s.purple_buff, s.game_result, s.gold, s.t_score, s.created_at, s.updated_at,
	s.created_by, s.updated_by`

func scanTeamStat(row rowScanner) (*models.TeamGameStat, error) {
	s := &models.TeamGameStat{}
	var createdBy, updatedBy sql.NullInt64
	err := row.Scan(
		&s.ID, &s.GameID, &s.TeamID, &s.Side, &s.TowerDestroyed, &s.LordKills, &s.TurtleKills,
		&s.OrangeBuff, &s.PurpleBuff, &s.GameResult, &s.Gold, &s.TScore, &s.CreatedAt, &s.UpdatedAt,
		&createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	s.CreatedBy, s.UpdatedBy = intFromNull(createdBy), intFromNull(updatedBy)
	return s, nil
}

func (r *postgresTeamGameStatRepository) Create(ctx context.Context, exec SQLExecutor, s *models.TeamGameStat) error {
	query := `
		INSERT INTO team_game_stats (
			game_id, team_id, side, tower_destroyed, lord_kills, turtle_kills,
			orange_buff, purple_buff, game_result, gold, t_score, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.GameID, s.TeamID, s.Side, s.TowerDestroyed, s.LordKills, s.TurtleKills,
		s.OrangeBuff, s.PurpleBuff, s.GameResult, s.Gold, s.TScore, nullInt(s.CreatedBy), nullInt(s.UpdatedBy),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	return r.handleTeamStatError(err)
}

func (r *postgresTeamGameStatRepository) Update(ctx context.Context, exec SQLExecutor, s *models.TeamGameStat) error {
	query := `
		UPDATE team_game_stats SET
			side = $1,
			tower_destroyed = $2,
			lord_kills = $3,
			turtle_kills = $4,
			orange_buff = $5,
			purple_buff = $6,
			game_result = $7,
			gold = $8,
			t_score = $9,
			created_by = COALESCE(created_by, $10),
			updated_by = COALESCE($11, updated_by),
			updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.Side, s.TowerDestroyed, s.LordKills, s.TurtleKills, s.OrangeBuff, s.PurpleBuff,
		s.GameResult, s.Gold, s.TScore, nullInt(s.CreatedBy), nullInt(s.UpdatedBy), s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return notFound(r.handleTeamStatError(err), ErrTeamStatNotFound)
	}
	return nil
}

func (r *postgresTeamGameStatRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TeamGameStat, error) {
	query := `SELECT ` + teamStatColumns + ` FROM team_game_stats s WHERE s.id = $1`
	s, err := scanTeamStat(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, ErrTeamStatNotFound)
	}
	return s, nil
}

func (r *postgresTeamGameStatRepository) GetByGameAndTeam(ctx context.Context, exec SQLExecutor, gameID, teamID int) (*models.TeamGameStat, error) {
	query := `SELECT ` + teamStatColumns + ` FROM team_game_stats s WHERE s.game_id = $1 AND s.team_id = $2`
	s, err := scanTeamStat(r.getExecutor(exec).QueryRowContext(ctx, query, gameID, teamID))
	if err != nil {
		return nil, notFound(err, ErrTeamStatNotFound)
	}
	return s, nil
}

func (r *postgresTeamGameStatRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.TeamGameStat, error) {
	query := `SELECT ` + teamStatColumns + ` FROM team_game_stats s WHERE s.game_id = $1 ORDER BY s.side, s.id`
	return r.list(ctx, exec, query, gameID)
}

func (r *postgresTeamGameStatRepository) ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.TeamGameStat, error) {
	query := `
		SELECT ` + teamStatColumns + `
		FROM team_game_stats s
		JOIN games g ON g.id = s.game_id
		WHERE g.series_id = $1
		ORDER BY g.game_no, s.side`
	return r.list(ctx, exec, query, seriesID)
}

func (r *postgresTeamGameStatRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM team_game_stats WHERE id = $1`, id)
	if err != nil {
		return r.handleTeamStatError(err)
	}
	return checkAffectedRows(result, ErrTeamStatNotFound)
}

func (r *postgresTeamGameStatRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.TeamGameStat, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team game stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*models.TeamGameStat, 0)
	for rows.Next() {
		s, scanErr := scanTeamStat(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan team game stat: %w", scanErr)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *postgresTeamGameStatRepository) handleTeamStatError(err error) error {
	return mapPQError(err, map[string]error{
		"team_game_stats_game_team_key": ErrTeamStatDuplicate,
		"team_game_stats_game_id_fkey":  ErrGameNotFound,
		"team_game_stats_team_id_fkey":  ErrStatInvalidRef,
	})
}

type postgresPlayerGameStatRepository struct {
	db *sql.DB
}

func NewPostgresPlayerGameStatRepository(db *sql.DB) PlayerGameStatRepository {
	return &postgresPlayerGameStatRepository{db: db}
}

func (r *postgresPlayerGameStatRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerStatColumns = `
	p.id, p.game_id, p.team_stat_id, p.player_id, p.team_id, p.role, p.is_mvp, p.hero_id,
	p.kills, p.deaths, p.assists, p.gold, p.dmg_dealt, p.dmg_taken, p.created_at, p.updated_at,
	p.created_by, p.updated_by`

func scanPlayerStat(row rowScanner) (*models.PlayerGameStat, error) {
	p := &models.PlayerGameStat{}
	var createdBy, updatedBy sql.NullInt64
	err := row.Scan(
		&p.ID, &p.GameID, &p.TeamStatID, &p.PlayerID, &p.TeamID, &p.Role, &p.IsMVP, &p.HeroID,
		&p.Kills, &p.Deaths, &p.Assists, &p.Gold, &p.DmgDealt, &p.DmgTaken, &p.CreatedAt, &p.UpdatedAt,
		&createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedBy, p.UpdatedBy = intFromNull(createdBy), intFromNull(updatedBy)
	return p, nil
}

func (r *postgresPlayerGameStatRepository) Create(ctx context.Context, exec SQLExecutor, p *models.PlayerGameStat) error {
	query := `
		INSERT INTO player_game_stats (
			game_id, team_stat_id, player_id, team_id, role, is_mvp, hero_id,
			kills, deaths, assists, gold, dmg_dealt, dmg_taken, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.GameID, p.TeamStatID, p.PlayerID, p.TeamID, p.Role, p.IsMVP, p.HeroID,
		p.Kills, p.Deaths, p.Assists, p.Gold, p.DmgDealt, p.DmgTaken, nullInt(p.CreatedBy), nullInt(p.UpdatedBy),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	return r.handlePlayerStatError(err)
}

func (r *postgresPlayerGameStatRepository) Update(ctx context.Context, exec SQLExecutor, p *models.PlayerGameStat) error {
	query := `
		UPDATE player_game_stats SET
			team_stat_id = $1,
			team_id = $2,
			role = $3,
			is_mvp = $4,
			hero_id = $5,
			kills = $6,
			deaths = $7,
			assists = $8,
			gold = $9,
			dmg_dealt = $10,
			dmg_taken = $11,
			created_by = COALESCE(created_by, $12),
			updated_by = COALESCE($13, updated_by),
			updated_at = NOW()
		WHERE id = $14
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.TeamStatID, p.TeamID, p.Role, p.IsMVP, p.HeroID,
		p.Kills, p.Deaths, p.Assists, p.Gold, p.DmgDealt, p.DmgTaken,
		nullInt(p.CreatedBy), nullInt(p.UpdatedBy), p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return notFound(r.handlePlayerStatError(err), ErrPlayerStatNotFound)
	}
	return nil
}

func (r *postgresPlayerGameStatRepository) GetByGameAndPlayer(ctx context.Context, exec SQLExecutor, gameID, playerID int) (*models.PlayerGameStat, error) {
	query := `SELECT ` + playerStatColumns + ` FROM player_game_stats p WHERE p.game_id = $1 AND p.player_id = $2`
	p, err := scanPlayerStat(r.getExecutor(exec).QueryRowContext(ctx, query, gameID, playerID))
	if err != nil {
		return nil, notFound(err, ErrPlayerStatNotFound)
	}
	return p, nil
}

func (r *postgresPlayerGameStatRepository) ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.PlayerGameStat, error) {
	query := `
		SELECT ` + playerStatColumns + `
		FROM player_game_stats p
		JOIN games g ON g.id = p.game_id
		WHERE g.series_id = $1
		ORDER BY g.game_no, p.team_id, p.id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player game stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*models.PlayerGameStat, 0)
	for rows.Next() {
		p, scanErr := scanPlayerStat(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player game stat: %w", scanErr)
		}
		stats = append(stats, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *postgresPlayerGameStatRepository) handlePlayerStatError(err error) error {
	return mapPQError(err, map[string]error{
		"player_game_stats_game_player_key":   ErrPlayerStatExists,
		"player_game_stats_game_id_fkey":      ErrGameNotFound,
		"player_game_stats_team_stat_id_fkey": ErrTeamStatNotFound,
		"player_game_stats_player_id_fkey":    ErrPlayerNotFound,
		"player_game_stats_hero_id_fkey":      ErrHeroNotFound,
		"player_game_stats_team_id_fkey":      ErrStatInvalidRef,
	})
}
