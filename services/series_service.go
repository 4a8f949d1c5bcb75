package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/validation"
)

type CreateSeriesInput struct {
	TournamentID  int       `json:"tournament_id"`
	StageID       int       `json:"stage_id"`
	Team1ID       int       `json:"team1_id"`
	Team2ID       int       `json:"team2_id"`
	BestOf        int       `json:"best_of"`
	ScheduledDate time.Time `json:"scheduled_date"`
	ActorID       int       `json:"-"`
}

// GameInput carries everything a caller may set on a game. Winner is only
// honoured for NORMAL games without decisive stat claims.
type GameInput struct {
	SeriesID   int                   `json:"series_id"`
	GameNo     int                   `json:"game_no"`
	BlueSideID int                   `json:"blue_side_id"`
	RedSideID  int                   `json:"red_side_id"`
	WinnerID   *int                  `json:"winner_id"`
	ResultType models.GameResultType `json:"result_type"`
	Duration   *time.Duration        `json:"-"`
	VodLink    string                `json:"vod_link"`
	ActorID    int                   `json:"-"`
}

type RecordGameResultInput struct {
	GameID     int                   `json:"-"`
	BlueSideID int                   `json:"blue_side_id"`
	RedSideID  int                   `json:"red_side_id"`
	WinnerID   *int                  `json:"winner_id"`
	ResultType models.GameResultType `json:"result_type"`
	Duration   *time.Duration        `json:"-"`
	VodLink    string                `json:"vod_link"`
	ActorID    int                   `json:"-"`
}

type SeriesService interface {
	CreateSeries(ctx context.Context, in CreateSeriesInput) (*models.Series, error)
	CreateGame(ctx context.Context, in GameInput) (*models.Game, error)
	RecordGameResult(ctx context.Context, in RecordGameResultInput) (*models.Game, error)
	DeleteGame(ctx context.Context, gameID int) error
	RecomputeSeries(ctx context.Context, seriesID int) (*models.Series, error)
}

type seriesService struct {
	tx                 Transactor
	seriesRepo         repositories.SeriesRepository
	stageRepo          repositories.StageRepository
	tournamentTeamRepo repositories.TournamentTeamRepository
	gameRepo           repositories.GameRepository
	teamStatRepo       repositories.TeamGameStatRepository
	draftRepo          repositories.DraftActionRepository
	recomputer         *Recomputer
	logger             *slog.Logger
}

func NewSeriesService(
	tx Transactor,
	seriesRepo repositories.SeriesRepository,
	stageRepo repositories.StageRepository,
	tournamentTeamRepo repositories.TournamentTeamRepository,
	gameRepo repositories.GameRepository,
	teamStatRepo repositories.TeamGameStatRepository,
	draftRepo repositories.DraftActionRepository,
	recomputer *Recomputer,
	logger *slog.Logger,
) SeriesService {
	return &seriesService{
		tx:                 tx,
		seriesRepo:         seriesRepo,
		stageRepo:          stageRepo,
		tournamentTeamRepo: tournamentTeamRepo,
		gameRepo:           gameRepo,
		teamStatRepo:       teamStatRepo,
		draftRepo:          draftRepo,
		recomputer:         recomputer,
		logger:             logger,
	}
}

func (s *seriesService) CreateSeries(ctx context.Context, in CreateSeriesInput) (*models.Series, error) {
	series := &models.Series{
		TournamentID:  in.TournamentID,
		StageID:       in.StageID,
		Team1ID:       in.Team1ID,
		Team2ID:       in.Team2ID,
		BestOf:        in.BestOf,
		ScheduledDate: in.ScheduledDate,
		Score:         "0-0",
	}
	if series.BestOf == 0 {
		series.BestOf = models.DefaultBestOf
	}
	series.Stamp(in.ActorID)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var stage *models.Stage
		if series.StageID != 0 {
			st, err := s.stageRepo.GetByID(ctx, exec, series.StageID)
			if err != nil {
				return handleRepositoryError(err, "load stage")
			}
			stage = st
		}

		registered := [2]bool{}
		for i, teamID := range []int{series.Team1ID, series.Team2ID} {
			if teamID == 0 || series.TournamentID == 0 {
				continue
			}
			ok, err := s.tournamentTeamRepo.IsRegistered(ctx, exec, series.TournamentID, teamID)
			if err != nil {
				return handleRepositoryError(err, "check registration")
			}
			registered[i] = ok
		}

		if err := validateSeries(series, stage, registered[0], registered[1]); err != nil {
			return err
		}
		if err := s.seriesRepo.Create(ctx, exec, series); err != nil {
			return handleRepositoryError(err, "create series")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "series created",
		slog.Int("series_id", series.ID),
		slog.Int("tournament_id", series.TournamentID),
		slog.Int("best_of", series.BestOf),
	)
	return series, nil
}

// CreateGame adds a game to a series and provisions both team stat lines
// in the same transaction.
func (s *seriesService) CreateGame(ctx context.Context, in GameInput) (*models.Game, error) {
	game := &models.Game{
		SeriesID:   in.SeriesID,
		GameNo:     in.GameNo,
		BlueSideID: in.BlueSideID,
		RedSideID:  in.RedSideID,
		WinnerID:   in.WinnerID,
		ResultType: in.ResultType,
		Duration:   in.Duration,
		VodLink:    in.VodLink,
	}
	if game.ResultType == "" {
		game.ResultType = models.ResultNormal
	}
	game.Stamp(in.ActorID)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		series, err := s.seriesRepo.GetByIDForUpdate(ctx, exec, game.SeriesID)
		if err != nil {
			return handleRepositoryError(err, "lock series")
		}
		if err := validateGame(game, series); err != nil {
			return err
		}

		winner, err := resolveRecordedWinner(game, series, nil)
		if err != nil {
			return err
		}
		game.WinnerID = winner

		if err := s.gameRepo.Create(ctx, exec, game); err != nil {
			if errors.Is(err, repositories.ErrGameNoTaken) {
				return validation.New(validation.ErrStructural, "game_no", "Game number already exists in this series.")
			}
			return handleRepositoryError(err, "create game")
		}
		if err := s.syncTeamStats(ctx, exec, game, nil, in.ActorID); err != nil {
			return err
		}
		return s.recomputer.AfterGameWrite(ctx, exec, series.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "game created",
		slog.Int("game_id", game.ID),
		slog.Int("series_id", game.SeriesID),
		slog.Int("game_no", game.GameNo),
	)
	return game, nil
}

func (s *seriesService) RecordGameResult(ctx context.Context, in RecordGameResultInput) (*models.Game, error) {
	var game *models.Game

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		series, err := s.lockSeriesOfGame(ctx, exec, in.GameID)
		if err != nil {
			return err
		}
		game, err = s.gameRepo.GetByID(ctx, exec, in.GameID)
		if err != nil {
			return handleRepositoryError(err, "load game")
		}

		game.BlueSideID = in.BlueSideID
		game.RedSideID = in.RedSideID
		game.WinnerID = in.WinnerID
		game.ResultType = in.ResultType
		game.Duration = in.Duration
		game.VodLink = in.VodLink
		if game.ResultType == "" {
			game.ResultType = models.ResultNormal
		}

		if err := validateGame(game, series); err != nil {
			return err
		}

		stats, err := s.teamStatRepo.ListByGame(ctx, exec, game.ID)
		if err != nil {
			return handleRepositoryError(err, "load team stats")
		}
		winner, err := resolveRecordedWinner(game, series, derefTeamStats(stats))
		if err != nil {
			return err
		}
		game.WinnerID = winner
		game.Stamp(in.ActorID)

		if err := s.gameRepo.Update(ctx, exec, game); err != nil {
			return handleRepositoryError(err, "update game")
		}
		if err := s.syncTeamStats(ctx, exec, game, stats, in.ActorID); err != nil {
			return err
		}
		if _, err := s.draftRepo.SyncTeamsForGame(ctx, exec, game); err != nil {
			return handleRepositoryError(err, "sync draft teams")
		}
		return s.recomputer.AfterGameWrite(ctx, exec, series.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "game result recorded",
		slog.Int("game_id", game.ID),
		slog.String("result_type", string(game.ResultType)),
		slog.Any("winner_id", game.WinnerID),
	)
	return game, nil
}

func (s *seriesService) DeleteGame(ctx context.Context, gameID int) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		series, err := s.lockSeriesOfGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if err := s.gameRepo.Delete(ctx, exec, gameID); err != nil {
			return handleRepositoryError(err, "delete game")
		}
		s.logger.InfoContext(ctx, "game deleted", slog.Int("game_id", gameID), slog.Int("series_id", series.ID))
		return s.recomputer.AfterGameWrite(ctx, exec, series.ID)
	})
}

// RecomputeSeries re-derives every game winner of the series and then the
// series itself. It repairs state written outside the services.
func (s *seriesService) RecomputeSeries(ctx context.Context, seriesID int) (*models.Series, error) {
	var series *models.Series
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.seriesRepo.GetByIDForUpdate(ctx, exec, seriesID); err != nil {
			return handleRepositoryError(err, "lock series")
		}
		games, err := s.gameRepo.ListBySeries(ctx, exec, seriesID)
		if err != nil {
			return handleRepositoryError(err, "load games")
		}
		for _, g := range games {
			if _, err := s.recomputer.RecomputeGame(ctx, exec, g.ID); err != nil {
				return err
			}
		}
		if _, err := s.recomputer.RecomputeSeries(ctx, exec, seriesID); err != nil {
			return err
		}
		series, err = s.seriesRepo.GetByID(ctx, exec, seriesID)
		return handleRepositoryError(err, "reload series")
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// lockSeriesOfGame takes the series lock for a game. The game's series
// never changes, so reading it before the lock is safe.
func (s *seriesService) lockSeriesOfGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) (*models.Series, error) {
	game, err := s.gameRepo.GetByID(ctx, exec, gameID)
	if err != nil {
		return nil, handleRepositoryError(err, "load game")
	}
	series, err := s.seriesRepo.GetByIDForUpdate(ctx, exec, game.SeriesID)
	if err != nil {
		return nil, handleRepositoryError(err, "lock series")
	}
	return series, nil
}

// syncTeamStats makes sure both teams of the game have a stat line whose
// side matches the game, and soft-fills empty results from the winner.
// Lines it creates or changes are stamped with actorID.
func (s *seriesService) syncTeamStats(ctx context.Context, exec repositories.SQLExecutor, game *models.Game, existing []*models.TeamGameStat, actorID int) error {
	byTeam := make(map[int]*models.TeamGameStat, len(existing))
	for _, st := range existing {
		byTeam[st.TeamID] = st
	}

	for _, teamID := range []int{game.BlueSideID, game.RedSideID} {
		stat, ok := byTeam[teamID]
		if !ok {
			stat = &models.TeamGameStat{GameID: game.ID, TeamID: teamID}
			softFillTeamStat(stat, game)
			stat.Stamp(actorID)
			if err := s.teamStatRepo.Create(ctx, exec, stat); err != nil {
				return handleRepositoryError(err, "provision team stat")
			}
			continue
		}

		side, result := stat.Side, stat.GameResult
		stat.Side = game.SideOf(teamID)
		softFillTeamStat(stat, game)
		if stat.Side == side && stat.GameResult == result {
			continue
		}
		stat.Stamp(actorID)
		if err := s.teamStatRepo.Update(ctx, exec, stat); err != nil {
			return handleRepositoryError(err, "sync team stat")
		}
	}
	return nil
}
