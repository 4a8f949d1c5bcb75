package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/validation"
)

type TeamGameStatInput struct {
	GameID         int               `json:"game_id"`
	TeamID         int               `json:"team_id"`
	Side           models.Side       `json:"side"`
	GameResult     models.GameResult `json:"game_result"`
	TowerDestroyed int               `json:"tower_destroyed"`
	LordKills      int               `json:"lord_kills"`
	TurtleKills    int               `json:"turtle_kills"`
	OrangeBuff     int               `json:"orange_buff"`
	PurpleBuff     int               `json:"purple_buff"`
	Gold           int               `json:"gold"`
	TScore         int               `json:"t_score"`
	ActorID        int               `json:"-"`
}

type PlayerGameStatInput struct {
	GameID     int               `json:"game_id"`
	TeamStatID int               `json:"team_stat_id"`
	PlayerID   int               `json:"player_id"`
	Role       models.PlayerRole `json:"role"`
	IsMVP      bool              `json:"is_mvp"`
	HeroID     int               `json:"hero_id"`
	Kills      int               `json:"k"`
	Deaths     int               `json:"d"`
	Assists    int               `json:"a"`
	Gold       int               `json:"gold"`
	DmgDealt   int               `json:"dmg_dealt"`
	DmgTaken   int               `json:"dmg_taken"`
	ActorID    int               `json:"-"`
}

type DraftActionInput struct {
	GameID   int                    `json:"game_id"`
	Action   models.DraftActionType `json:"action"`
	Side     models.Side            `json:"side"`
	Order    int                    `json:"order"`
	HeroID   int                    `json:"hero_id"`
	PlayerID *int                   `json:"player_id"`
	ActorID  int                    `json:"-"`
}

// StatsService writes per-game statistics. Team stat writes feed the
// derived game winner and series score; player stats and draft actions
// only need validation.
type StatsService interface {
	UpsertTeamGameStat(ctx context.Context, in TeamGameStatInput) (*models.TeamGameStat, error)
	DeleteTeamGameStat(ctx context.Context, id int) error
	UpsertPlayerGameStat(ctx context.Context, in PlayerGameStatInput) (*models.PlayerGameStat, error)
	UpsertDraftAction(ctx context.Context, in DraftActionInput) (*models.DraftAction, error)
}

type statsService struct {
	tx             Transactor
	seriesRepo     repositories.SeriesRepository
	gameRepo       repositories.GameRepository
	teamStatRepo   repositories.TeamGameStatRepository
	playerStatRepo repositories.PlayerGameStatRepository
	draftRepo      repositories.DraftActionRepository
	membershipRepo repositories.MembershipRepository
	heroRepo       repositories.HeroRepository
	recomputer     *Recomputer
	logger         *slog.Logger
}

func NewStatsService(
	tx Transactor,
	seriesRepo repositories.SeriesRepository,
	gameRepo repositories.GameRepository,
	teamStatRepo repositories.TeamGameStatRepository,
	playerStatRepo repositories.PlayerGameStatRepository,
	draftRepo repositories.DraftActionRepository,
	membershipRepo repositories.MembershipRepository,
	heroRepo repositories.HeroRepository,
	recomputer *Recomputer,
	logger *slog.Logger,
) StatsService {
	return &statsService{
		tx:             tx,
		seriesRepo:     seriesRepo,
		gameRepo:       gameRepo,
		teamStatRepo:   teamStatRepo,
		playerStatRepo: playerStatRepo,
		draftRepo:      draftRepo,
		membershipRepo: membershipRepo,
		heroRepo:       heroRepo,
		recomputer:     recomputer,
		logger:         logger,
	}
}

func (s *statsService) UpsertTeamGameStat(ctx context.Context, in TeamGameStatInput) (*models.TeamGameStat, error) {
	stat := &models.TeamGameStat{
		GameID:         in.GameID,
		TeamID:         in.TeamID,
		Side:           in.Side,
		GameResult:     in.GameResult,
		TowerDestroyed: in.TowerDestroyed,
		LordKills:      in.LordKills,
		TurtleKills:    in.TurtleKills,
		OrangeBuff:     in.OrangeBuff,
		PurpleBuff:     in.PurpleBuff,
		Gold:           in.Gold,
		TScore:         in.TScore,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		series, game, err := s.lockGame(ctx, exec, in.GameID)
		if err != nil {
			return err
		}

		existing, err := s.teamStatRepo.GetByGameAndTeam(ctx, exec, game.ID, stat.TeamID)
		switch {
		case errors.Is(err, repositories.ErrTeamStatNotFound):
		case err != nil:
			return handleRepositoryError(err, "load team stat")
		default:
			stat.ID = existing.ID
			stat.UserStamp = existing.UserStamp
		}
		stat.Stamp(in.ActorID)

		softFillTeamStat(stat, game)
		siblings, err := s.teamStatRepo.ListByGame(ctx, exec, game.ID)
		if err != nil {
			return handleRepositoryError(err, "load team stats")
		}
		if err := validateTeamStat(stat, game, siblings); err != nil {
			return err
		}

		if stat.ID == 0 {
			err = s.teamStatRepo.Create(ctx, exec, stat)
		} else {
			err = s.teamStatRepo.Update(ctx, exec, stat)
		}
		if err != nil {
			return handleRepositoryError(err, "save team stat")
		}
		return s.recomputer.AfterTeamStatWrite(ctx, exec, series.ID, game.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team game stat saved",
		slog.Int("stat_id", stat.ID),
		slog.Int("game_id", stat.GameID),
		slog.Int("team_id", stat.TeamID),
		slog.String("game_result", string(stat.GameResult)),
	)
	return stat, nil
}

// DeleteTeamGameStat removes a stat line. The game winner is re-derived
// afterwards, which may clear it.
func (s *statsService) DeleteTeamGameStat(ctx context.Context, id int) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		stat, err := s.teamStatRepo.GetByID(ctx, exec, id)
		if err != nil {
			return handleRepositoryError(err, "load team stat")
		}
		series, game, err := s.lockGame(ctx, exec, stat.GameID)
		if err != nil {
			return err
		}
		if err := s.teamStatRepo.Delete(ctx, exec, id); err != nil {
			return handleRepositoryError(err, "delete team stat")
		}
		s.logger.InfoContext(ctx, "team game stat deleted", slog.Int("stat_id", id), slog.Int("game_id", game.ID))
		return s.recomputer.AfterTeamStatWrite(ctx, exec, series.ID, game.ID)
	})
}

func (s *statsService) UpsertPlayerGameStat(ctx context.Context, in PlayerGameStatInput) (*models.PlayerGameStat, error) {
	stat := &models.PlayerGameStat{
		GameID:     in.GameID,
		TeamStatID: in.TeamStatID,
		PlayerID:   in.PlayerID,
		Role:       in.Role,
		IsMVP:      in.IsMVP,
		HeroID:     in.HeroID,
		Kills:      in.Kills,
		Deaths:     in.Deaths,
		Assists:    in.Assists,
		Gold:       in.Gold,
		DmgDealt:   in.DmgDealt,
		DmgTaken:   in.DmgTaken,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		series, game, err := s.lockGame(ctx, exec, in.GameID)
		if err != nil {
			return err
		}

		teamStat, err := s.teamStatRepo.GetByID(ctx, exec, in.TeamStatID)
		if errors.Is(err, repositories.ErrTeamStatNotFound) {
			return validation.New(validation.ErrStructural, "team_stat", "TeamGameStat does not exist.")
		}
		if err != nil {
			return handleRepositoryError(err, "load team stat")
		}
		stat.TeamID = teamStat.TeamID

		if err := s.checkHero(ctx, exec, stat.HeroID); err != nil {
			return err
		}

		var memberships []models.Membership
		if stat.PlayerID != 0 {
			memberships, err = s.membershipRepo.ListByPerson(ctx, exec, models.PersonPlayer, stat.PlayerID)
			if err != nil {
				return handleRepositoryError(err, "load player memberships")
			}
		}
		if err := validatePlayerStat(stat, teamStat, game, series.ScheduledDate, memberships); err != nil {
			return err
		}

		existing, err := s.playerStatRepo.GetByGameAndPlayer(ctx, exec, game.ID, stat.PlayerID)
		switch {
		case errors.Is(err, repositories.ErrPlayerStatNotFound):
			stat.Stamp(in.ActorID)
			err = s.playerStatRepo.Create(ctx, exec, stat)
		case err != nil:
			return handleRepositoryError(err, "load player stat")
		default:
			stat.ID = existing.ID
			stat.UserStamp = existing.UserStamp
			stat.Stamp(in.ActorID)
			err = s.playerStatRepo.Update(ctx, exec, stat)
		}
		return handleRepositoryError(err, "save player stat")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "player game stat saved",
		slog.Int("stat_id", stat.ID),
		slog.Int("game_id", stat.GameID),
		slog.Int("player_id", stat.PlayerID),
	)
	return stat, nil
}

// UpsertDraftAction saves the ban or pick at (game, order). Its team is
// taken from the game's side assignment.
func (s *statsService) UpsertDraftAction(ctx context.Context, in DraftActionInput) (*models.DraftAction, error) {
	action := &models.DraftAction{
		GameID:   in.GameID,
		Action:   in.Action,
		Side:     in.Side,
		Order:    in.Order,
		HeroID:   in.HeroID,
		PlayerID: in.PlayerID,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		series, game, err := s.lockGame(ctx, exec, in.GameID)
		if err != nil {
			return err
		}
		action.TeamID = game.TeamOn(action.Side)

		if err := s.checkHero(ctx, exec, action.HeroID); err != nil {
			return err
		}

		var memberships []models.Membership
		if action.PlayerID != nil {
			memberships, err = s.membershipRepo.ListByPerson(ctx, exec, models.PersonPlayer, *action.PlayerID)
			if err != nil {
				return handleRepositoryError(err, "load player memberships")
			}
		}
		if err := validateDraftAction(action, game, series.ScheduledDate, memberships); err != nil {
			return err
		}

		existing, err := s.draftRepo.GetByGameAndOrder(ctx, exec, game.ID, action.Order)
		switch {
		case errors.Is(err, repositories.ErrDraftActionNotFound):
			action.Stamp(in.ActorID)
			err = s.draftRepo.Create(ctx, exec, action)
		case err != nil:
			return handleRepositoryError(err, "load draft action")
		default:
			action.ID = existing.ID
			action.UserStamp = existing.UserStamp
			action.Stamp(in.ActorID)
			err = s.draftRepo.Update(ctx, exec, action)
		}
		return handleRepositoryError(err, "save draft action")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "draft action saved",
		slog.Int("game_id", action.GameID),
		slog.Int("order", action.Order),
		slog.String("action", string(action.Action)),
	)
	return action, nil
}

// lockGame locks the game's series and returns both, with the game read
// after the lock was taken.
func (s *statsService) lockGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) (*models.Series, *models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, exec, gameID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "load game")
	}
	series, err := s.seriesRepo.GetByIDForUpdate(ctx, exec, game.SeriesID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "lock series")
	}
	game, err = s.gameRepo.GetByID(ctx, exec, gameID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "reload game")
	}
	return series, game, nil
}

func (s *statsService) checkHero(ctx context.Context, exec repositories.SQLExecutor, heroID int) error {
	if heroID == 0 {
		return nil
	}
	ok, err := s.heroRepo.Exists(ctx, exec, heroID)
	if err != nil {
		return handleRepositoryError(err, "check hero")
	}
	if !ok {
		return validation.New(validation.ErrStructural, "hero", "Hero does not exist.")
	}
	return nil
}
