package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/esports-tracker/metrics"
	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/scoring"
	"github.com/Dosada05/esports-tracker/validation"
)

// Recomputer keeps Game.winner and Series.score/winner in line with the
// rows they are derived from. Callers run it inside the write's own
// transaction after locking the series, so the whole chain commits or
// rolls back together. Stored values are only rewritten when they change.
type Recomputer struct {
	seriesRepo   repositories.SeriesRepository
	gameRepo     repositories.GameRepository
	teamStatRepo repositories.TeamGameStatRepository
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewRecomputer(
	seriesRepo repositories.SeriesRepository,
	gameRepo repositories.GameRepository,
	teamStatRepo repositories.TeamGameStatRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Recomputer {
	return &Recomputer{
		seriesRepo:   seriesRepo,
		gameRepo:     gameRepo,
		teamStatRepo: teamStatRepo,
		metrics:      m,
		logger:       logger,
	}
}

// RecomputeGame re-derives the winner of one game and reports whether the
// stored winner changed.
func (r *Recomputer) RecomputeGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) (bool, error) {
	r.metrics.Recomputes.WithLabelValues("game").Inc()

	game, err := r.gameRepo.GetByID(ctx, exec, gameID)
	if err != nil {
		return false, handleRepositoryError(err, "load game for recompute")
	}
	series, err := r.seriesRepo.GetByID(ctx, exec, game.SeriesID)
	if err != nil {
		return false, handleRepositoryError(err, "load series for recompute")
	}

	var stats []models.TeamGameStat
	if game.ResultType == models.ResultNormal {
		rows, err := r.teamStatRepo.ListByGame(ctx, exec, game.ID)
		if err != nil {
			return false, handleRepositoryError(err, "load team stats for recompute")
		}
		stats = derefTeamStats(rows)
	}

	winner := scoring.ResolveGameWinner(game, series, stats)
	if winner != nil && game.SideOf(*winner) == "" {
		return false, r.consistencyError(ctx, "winner",
			fmt.Sprintf("computed winner %d of game %d is neither the blue nor the red side", *winner, game.ID))
	}

	if scoring.SameWinner(game.WinnerID, winner) {
		return false, nil
	}

	if err := r.gameRepo.UpdateWinner(ctx, exec, game.ID, winner); err != nil {
		return false, handleRepositoryError(err, "write game winner")
	}
	r.metrics.DerivedWrites.WithLabelValues("game").Inc()
	r.logger.DebugContext(ctx, "game winner recomputed",
		slog.Int("game_id", game.ID),
		slog.Int("series_id", game.SeriesID),
		slog.Any("winner_id", winner),
	)
	return true, nil
}

// RecomputeSeries re-derives score and winner of a series from its games
// and reports whether either changed.
func (r *Recomputer) RecomputeSeries(ctx context.Context, exec repositories.SQLExecutor, seriesID int) (bool, error) {
	r.metrics.Recomputes.WithLabelValues("series").Inc()

	series, err := r.seriesRepo.GetByID(ctx, exec, seriesID)
	if err != nil {
		return false, handleRepositoryError(err, "load series for recompute")
	}
	games, err := r.gameRepo.ListBySeries(ctx, exec, seriesID)
	if err != nil {
		return false, handleRepositoryError(err, "load games for recompute")
	}

	outcome := scoring.ComputeSeriesScoreAndWinner(series, derefGames(games))
	if outcome.WinnerID != nil && !series.HasTeam(*outcome.WinnerID) {
		return false, r.consistencyError(ctx, "winner",
			fmt.Sprintf("computed winner %d is not a team of series %d", *outcome.WinnerID, series.ID))
	}

	score := outcome.Score()
	if series.Score == score && scoring.SameWinner(series.WinnerID, outcome.WinnerID) {
		return false, nil
	}

	if err := r.seriesRepo.UpdateScoreWinner(ctx, exec, series.ID, score, outcome.WinnerID); err != nil {
		return false, handleRepositoryError(err, "write series score")
	}
	r.metrics.DerivedWrites.WithLabelValues("series").Inc()
	r.logger.DebugContext(ctx, "series score recomputed",
		slog.Int("series_id", series.ID),
		slog.String("old_score", series.Score),
		slog.String("score", score),
		slog.Any("winner_id", outcome.WinnerID),
	)
	return true, nil
}

// AfterTeamStatWrite runs the stat -> game -> series chain. The series is
// only recomputed when the game winner actually moved.
func (r *Recomputer) AfterTeamStatWrite(ctx context.Context, exec repositories.SQLExecutor, seriesID, gameID int) error {
	changed, err := r.RecomputeGame(ctx, exec, gameID)
	if err != nil || !changed {
		return err
	}
	_, err = r.RecomputeSeries(ctx, exec, seriesID)
	return err
}

// AfterGameWrite recomputes the series a game belongs to, after the game
// was created, updated or deleted.
func (r *Recomputer) AfterGameWrite(ctx context.Context, exec repositories.SQLExecutor, seriesID int) error {
	_, err := r.RecomputeSeries(ctx, exec, seriesID)
	return err
}

func (r *Recomputer) consistencyError(ctx context.Context, field, msg string) error {
	r.metrics.ConsistencyErrors.Inc()
	r.logger.ErrorContext(ctx, "derived state inconsistency", slog.String("field", field), slog.String("detail", msg))
	return validation.New(validation.ErrConsistency, field, msg)
}

func derefGames(in []*models.Game) []models.Game {
	out := make([]models.Game, 0, len(in))
	for _, g := range in {
		if g != nil {
			out = append(out, *g)
		}
	}
	return out
}

func derefTeamStats(in []*models.TeamGameStat) []models.TeamGameStat {
	out := make([]models.TeamGameStat, 0, len(in))
	for _, s := range in {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}
