package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/storage"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultUpcomingLimit   = 20
	DefaultTeamRecentLimit = 10

	// upcomingGrace keeps series that started recently in the upcoming list.
	upcomingGrace = 2 * time.Hour
)

type PlayerStatView struct {
	*models.PlayerGameStat
	KDA float64 `json:"kda"`
	GPM float64 `json:"gpm"`
	DPM float64 `json:"dpm"`
}

type GameDetail struct {
	*models.Game
	TeamStats   []*models.TeamGameStat `json:"team_stats"`
	PlayerStats []PlayerStatView       `json:"player_stats"`
	Draft       []*models.DraftAction  `json:"draft"`
}

type SeriesDetail struct {
	*models.Series
	Games []GameDetail `json:"games"`
}

type StageView struct {
	*models.Stage
	Series []*models.Series `json:"series"`
}

type TournamentStructure struct {
	Tournament *models.Tournament       `json:"tournament"`
	Teams      []*models.TournamentTeam `json:"teams"`
	Stages     []StageView              `json:"stages"`
}

// QueryService serves read models. It never writes derived state.
type QueryService interface {
	GetSeriesDetail(ctx context.Context, seriesID int) (*SeriesDetail, error)
	GetTournamentStructure(ctx context.Context, tournamentID int) (*TournamentStructure, error)
	GetUpcomingSeries(ctx context.Context, limit int) ([]*models.Series, error)
	GetTeamRecentSeries(ctx context.Context, teamID int, limit int) ([]*models.Series, error)
	GetStageSchedule(ctx context.Context, stageID int) ([]*models.Series, error)
}

type queryService struct {
	tournamentRepo     repositories.TournamentRepository
	tournamentTeamRepo repositories.TournamentTeamRepository
	stageRepo          repositories.StageRepository
	seriesRepo         repositories.SeriesRepository
	gameRepo           repositories.GameRepository
	teamStatRepo       repositories.TeamGameStatRepository
	playerStatRepo     repositories.PlayerGameStatRepository
	draftRepo          repositories.DraftActionRepository
	teamRepo           repositories.TeamRepository
	uploader           storage.FileUploader
	logger             *slog.Logger
}

func NewQueryService(
	tournamentRepo repositories.TournamentRepository,
	tournamentTeamRepo repositories.TournamentTeamRepository,
	stageRepo repositories.StageRepository,
	seriesRepo repositories.SeriesRepository,
	gameRepo repositories.GameRepository,
	teamStatRepo repositories.TeamGameStatRepository,
	playerStatRepo repositories.PlayerGameStatRepository,
	draftRepo repositories.DraftActionRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) QueryService {
	return &queryService{
		tournamentRepo:     tournamentRepo,
		tournamentTeamRepo: tournamentTeamRepo,
		stageRepo:          stageRepo,
		seriesRepo:         seriesRepo,
		gameRepo:           gameRepo,
		teamStatRepo:       teamStatRepo,
		playerStatRepo:     playerStatRepo,
		draftRepo:          draftRepo,
		teamRepo:           teamRepo,
		uploader:           uploader,
		logger:             logger,
	}
}

func (s *queryService) GetSeriesDetail(ctx context.Context, seriesID int) (*SeriesDetail, error) {
	series, err := s.seriesRepo.GetByID(ctx, nil, seriesID)
	if err != nil {
		return nil, handleRepositoryError(err, "get series")
	}

	var (
		games       []*models.Game
		teamStats   []*models.TeamGameStat
		playerStats []*models.PlayerGameStat
		draft       []*models.DraftAction
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListBySeries(gCtx, nil, seriesID)
		return wrapLoad(err, "games", seriesID)
	})
	g.Go(func() error {
		var err error
		teamStats, err = s.teamStatRepo.ListBySeries(gCtx, nil, seriesID)
		return wrapLoad(err, "team stats", seriesID)
	})
	g.Go(func() error {
		var err error
		playerStats, err = s.playerStatRepo.ListBySeries(gCtx, nil, seriesID)
		return wrapLoad(err, "player stats", seriesID)
	})
	g.Go(func() error {
		var err error
		draft, err = s.draftRepo.ListBySeries(gCtx, nil, seriesID)
		return wrapLoad(err, "draft actions", seriesID)
	})
	g.Go(func() error {
		return s.attachTeams(gCtx, []*models.Series{series})
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to load series detail", slog.Int("series_id", seriesID), slog.Any("error", err))
		return nil, err
	}

	detail := &SeriesDetail{Series: series, Games: make([]GameDetail, 0, len(games))}
	index := make(map[int]int, len(games))
	for _, game := range games {
		index[game.ID] = len(detail.Games)
		detail.Games = append(detail.Games, GameDetail{
			Game:        game,
			TeamStats:   []*models.TeamGameStat{},
			PlayerStats: []PlayerStatView{},
			Draft:       []*models.DraftAction{},
		})
	}
	for _, st := range teamStats {
		if i, ok := index[st.GameID]; ok {
			detail.Games[i].TeamStats = append(detail.Games[i].TeamStats, st)
		}
	}
	for _, ps := range playerStats {
		i, ok := index[ps.GameID]
		if !ok {
			continue
		}
		duration := detail.Games[i].Duration
		detail.Games[i].PlayerStats = append(detail.Games[i].PlayerStats, PlayerStatView{
			PlayerGameStat: ps,
			KDA:            ps.KDA(),
			GPM:            ps.GPM(duration),
			DPM:            ps.DPM(duration),
		})
	}
	for _, d := range draft {
		if i, ok := index[d.GameID]; ok {
			detail.Games[i].Draft = append(detail.Games[i].Draft, d)
		}
	}
	return detail, nil
}

func (s *queryService) GetTournamentStructure(ctx context.Context, tournamentID int) (*TournamentStructure, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}
	populateTournamentLogoURL(tournament, s.uploader)

	var (
		teams  []*models.TournamentTeam
		stages []*models.Stage
		series []*models.Series
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.tournamentTeamRepo.ListByTournament(gCtx, nil, tournamentID)
		return wrapLoad(err, "registered teams", tournamentID)
	})
	g.Go(func() error {
		var err error
		stages, err = s.stageRepo.ListByTournament(gCtx, nil, tournamentID)
		return wrapLoad(err, "stages", tournamentID)
	})
	g.Go(func() error {
		var err error
		series, err = s.seriesRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return wrapLoad(err, "series", tournamentID)
		}
		return s.attachTeams(gCtx, series)
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to load tournament structure", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return nil, err
	}

	if err := s.attachRegisteredTeams(ctx, teams); err != nil {
		return nil, err
	}

	// Stage schedules read ascending; the tournament list is newest first.
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].ScheduledDate.Before(series[j].ScheduledDate)
	})
	byStage := make(map[int][]*models.Series, len(stages))
	for _, sr := range series {
		byStage[sr.StageID] = append(byStage[sr.StageID], sr)
	}

	out := &TournamentStructure{
		Tournament: tournament,
		Teams:      teams,
		Stages:     make([]StageView, 0, len(stages)),
	}
	for _, st := range stages {
		list := byStage[st.ID]
		if list == nil {
			list = []*models.Series{}
		}
		out.Stages = append(out.Stages, StageView{Stage: st, Series: list})
	}
	return out, nil
}

// GetUpcomingSeries lists series scheduled from two hours ago onwards,
// soonest first.
func (s *queryService) GetUpcomingSeries(ctx context.Context, limit int) ([]*models.Series, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	series, err := s.seriesRepo.ListUpcoming(ctx, nil, timeNow().Add(-upcomingGrace), limit)
	if err != nil {
		return nil, handleRepositoryError(err, "list upcoming series")
	}
	if err := s.attachTeams(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *queryService) GetTeamRecentSeries(ctx context.Context, teamID int, limit int) ([]*models.Series, error) {
	if limit <= 0 {
		limit = DefaultTeamRecentLimit
	}
	if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
		return nil, handleRepositoryError(err, "get team")
	}
	series, err := s.seriesRepo.ListByTeam(ctx, nil, teamID, limit)
	if err != nil {
		return nil, handleRepositoryError(err, "list team series")
	}
	if err := s.attachTeams(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *queryService) GetStageSchedule(ctx context.Context, stageID int) ([]*models.Series, error) {
	if _, err := s.stageRepo.GetByID(ctx, nil, stageID); err != nil {
		return nil, handleRepositoryError(err, "get stage")
	}
	series, err := s.seriesRepo.ListByStage(ctx, nil, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "list stage series")
	}
	if err := s.attachTeams(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

// attachTeams fills Team1, Team2 and Winner of every series with one
// batched team lookup.
func (s *queryService) attachTeams(ctx context.Context, series []*models.Series) error {
	if len(series) == 0 {
		return nil
	}
	seen := make(map[int]bool)
	ids := make([]int, 0, len(series)*2)
	for _, sr := range series {
		for _, id := range []int{sr.Team1ID, sr.Team2ID} {
			if id != 0 && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	teams, err := s.teamRepo.ListByIDs(ctx, nil, ids)
	if err != nil {
		return handleRepositoryError(err, "load series teams")
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	for _, sr := range series {
		sr.Team1 = teams[sr.Team1ID]
		sr.Team2 = teams[sr.Team2ID]
		if sr.WinnerID != nil {
			sr.Winner = teams[*sr.WinnerID]
		}
	}
	return nil
}

func (s *queryService) attachRegisteredTeams(ctx context.Context, entries []*models.TournamentTeam) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TeamID)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, nil, ids)
	if err != nil {
		return handleRepositoryError(err, "load registered teams")
	}
	for _, e := range entries {
		if t, ok := teams[e.TeamID]; ok {
			populateTeamLogoURL(t, s.uploader)
			e.Team = t
		}
	}
	return nil
}

func wrapLoad(err error, what string, id int) error {
	if err == nil {
		return nil
	}
	return handleRepositoryError(err, fmt.Sprintf("load %s for %d", what, id))
}
