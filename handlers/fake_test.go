package handlers

import (
	"context"
	"io"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/services"
)

type FakeSeriesService struct {
	CreateSeriesFunc     func(ctx context.Context, in services.CreateSeriesInput) (*models.Series, error)
	CreateGameFunc       func(ctx context.Context, in services.GameInput) (*models.Game, error)
	RecordGameResultFunc func(ctx context.Context, in services.RecordGameResultInput) (*models.Game, error)
	DeleteGameFunc       func(ctx context.Context, gameID int) error
	RecomputeSeriesFunc  func(ctx context.Context, seriesID int) (*models.Series, error)
}

func (f *FakeSeriesService) CreateSeries(ctx context.Context, in services.CreateSeriesInput) (*models.Series, error) {
	if f.CreateSeriesFunc != nil {
		return f.CreateSeriesFunc(ctx, in)
	}
	return &models.Series{}, nil
}

func (f *FakeSeriesService) CreateGame(ctx context.Context, in services.GameInput) (*models.Game, error) {
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, in)
	}
	return &models.Game{}, nil
}

func (f *FakeSeriesService) RecordGameResult(ctx context.Context, in services.RecordGameResultInput) (*models.Game, error) {
	if f.RecordGameResultFunc != nil {
		return f.RecordGameResultFunc(ctx, in)
	}
	return &models.Game{}, nil
}

func (f *FakeSeriesService) DeleteGame(ctx context.Context, gameID int) error {
	if f.DeleteGameFunc != nil {
		return f.DeleteGameFunc(ctx, gameID)
	}
	return nil
}

func (f *FakeSeriesService) RecomputeSeries(ctx context.Context, seriesID int) (*models.Series, error) {
	if f.RecomputeSeriesFunc != nil {
		return f.RecomputeSeriesFunc(ctx, seriesID)
	}
	return &models.Series{ID: seriesID}, nil
}

type FakeStatsService struct {
	UpsertTeamGameStatFunc   func(ctx context.Context, in services.TeamGameStatInput) (*models.TeamGameStat, error)
	DeleteTeamGameStatFunc   func(ctx context.Context, id int) error
	UpsertPlayerGameStatFunc func(ctx context.Context, in services.PlayerGameStatInput) (*models.PlayerGameStat, error)
	UpsertDraftActionFunc    func(ctx context.Context, in services.DraftActionInput) (*models.DraftAction, error)
}

func (f *FakeStatsService) UpsertTeamGameStat(ctx context.Context, in services.TeamGameStatInput) (*models.TeamGameStat, error) {
	if f.UpsertTeamGameStatFunc != nil {
		return f.UpsertTeamGameStatFunc(ctx, in)
	}
	return &models.TeamGameStat{}, nil
}

func (f *FakeStatsService) DeleteTeamGameStat(ctx context.Context, id int) error {
	if f.DeleteTeamGameStatFunc != nil {
		return f.DeleteTeamGameStatFunc(ctx, id)
	}
	return nil
}

func (f *FakeStatsService) UpsertPlayerGameStat(ctx context.Context, in services.PlayerGameStatInput) (*models.PlayerGameStat, error) {
	if f.UpsertPlayerGameStatFunc != nil {
		return f.UpsertPlayerGameStatFunc(ctx, in)
	}
	return &models.PlayerGameStat{}, nil
}

func (f *FakeStatsService) UpsertDraftAction(ctx context.Context, in services.DraftActionInput) (*models.DraftAction, error) {
	if f.UpsertDraftActionFunc != nil {
		return f.UpsertDraftActionFunc(ctx, in)
	}
	return &models.DraftAction{}, nil
}

type FakeMembershipService struct {
	CreateFunc        func(ctx context.Context, kind models.PersonKind, in services.MembershipInput) (*models.Membership, error)
	UpdateFunc        func(ctx context.Context, kind models.PersonKind, id int, in services.MembershipInput) (*models.Membership, error)
	EndFunc           func(ctx context.Context, kind models.PersonKind, id int, endDate time.Time) (*models.Membership, error)
	MembersOnDateFunc func(ctx context.Context, kind models.PersonKind, teamID int, day time.Time) ([]models.Membership, error)
	PersonHistoryFunc func(ctx context.Context, kind models.PersonKind, personID int) ([]models.Membership, error)
}

func (f *FakeMembershipService) CreateMembership(ctx context.Context, kind models.PersonKind, in services.MembershipInput) (*models.Membership, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, kind, in)
	}
	return &models.Membership{Kind: kind}, nil
}

func (f *FakeMembershipService) UpdateMembership(ctx context.Context, kind models.PersonKind, id int, in services.MembershipInput) (*models.Membership, error) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, kind, id, in)
	}
	return &models.Membership{ID: id, Kind: kind}, nil
}

func (f *FakeMembershipService) EndMembership(ctx context.Context, kind models.PersonKind, id int, endDate time.Time) (*models.Membership, error) {
	if f.EndFunc != nil {
		return f.EndFunc(ctx, kind, id, endDate)
	}
	return &models.Membership{ID: id, Kind: kind, EndDate: &endDate}, nil
}

func (f *FakeMembershipService) MembersOnDate(ctx context.Context, kind models.PersonKind, teamID int, day time.Time) ([]models.Membership, error) {
	if f.MembersOnDateFunc != nil {
		return f.MembersOnDateFunc(ctx, kind, teamID, day)
	}
	return nil, nil
}

func (f *FakeMembershipService) PersonHistory(ctx context.Context, kind models.PersonKind, personID int) ([]models.Membership, error) {
	if f.PersonHistoryFunc != nil {
		return f.PersonHistoryFunc(ctx, kind, personID)
	}
	return nil, nil
}

type FakeTournamentService struct {
	CreateTournamentFunc func(ctx context.Context, in services.TournamentInput) (*models.Tournament, error)
	UpdateTournamentFunc func(ctx context.Context, id int, in services.TournamentInput) (*models.Tournament, error)
	GetTournamentFunc    func(ctx context.Context, id int) (*models.Tournament, error)
	RegisterTeamFunc     func(ctx context.Context, in services.RegisterTeamInput) (*models.TournamentTeam, error)
	CreateStageFunc      func(ctx context.Context, in services.StageInput) (*models.Stage, error)
	UpdateStageFunc      func(ctx context.Context, id int, in services.StageInput) (*models.Stage, error)
	RefreshStatusesFunc  func(ctx context.Context) (int, error)
	UpdateLogoFunc       func(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
}

func (f *FakeTournamentService) CreateTournament(ctx context.Context, in services.TournamentInput) (*models.Tournament, error) {
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, in)
	}
	return &models.Tournament{Name: in.Name}, nil
}

func (f *FakeTournamentService) UpdateTournament(ctx context.Context, id int, in services.TournamentInput) (*models.Tournament, error) {
	if f.UpdateTournamentFunc != nil {
		return f.UpdateTournamentFunc(ctx, id, in)
	}
	return &models.Tournament{ID: id, Name: in.Name}, nil
}

func (f *FakeTournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, id)
	}
	return &models.Tournament{ID: id}, nil
}

func (f *FakeTournamentService) RegisterTeam(ctx context.Context, in services.RegisterTeamInput) (*models.TournamentTeam, error) {
	if f.RegisterTeamFunc != nil {
		return f.RegisterTeamFunc(ctx, in)
	}
	return &models.TournamentTeam{TournamentID: in.TournamentID, TeamID: in.TeamID}, nil
}

func (f *FakeTournamentService) CreateStage(ctx context.Context, in services.StageInput) (*models.Stage, error) {
	if f.CreateStageFunc != nil {
		return f.CreateStageFunc(ctx, in)
	}
	return &models.Stage{TournamentID: in.TournamentID}, nil
}

func (f *FakeTournamentService) UpdateStage(ctx context.Context, id int, in services.StageInput) (*models.Stage, error) {
	if f.UpdateStageFunc != nil {
		return f.UpdateStageFunc(ctx, id, in)
	}
	return &models.Stage{ID: id}, nil
}

func (f *FakeTournamentService) RefreshStatuses(ctx context.Context) (int, error) {
	if f.RefreshStatusesFunc != nil {
		return f.RefreshStatusesFunc(ctx)
	}
	return 0, nil
}

func (f *FakeTournamentService) UpdateLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	if f.UpdateLogoFunc != nil {
		return f.UpdateLogoFunc(ctx, id, contentType, file)
	}
	return &models.Tournament{ID: id}, nil
}

type FakeQueryService struct {
	GetSeriesDetailFunc        func(ctx context.Context, seriesID int) (*services.SeriesDetail, error)
	GetTournamentStructureFunc func(ctx context.Context, tournamentID int) (*services.TournamentStructure, error)
	GetUpcomingSeriesFunc      func(ctx context.Context, limit int) ([]*models.Series, error)
	GetTeamRecentSeriesFunc    func(ctx context.Context, teamID int, limit int) ([]*models.Series, error)
	GetStageScheduleFunc       func(ctx context.Context, stageID int) ([]*models.Series, error)
}

func (f *FakeQueryService) GetSeriesDetail(ctx context.Context, seriesID int) (*services.SeriesDetail, error) {
	if f.GetSeriesDetailFunc != nil {
		return f.GetSeriesDetailFunc(ctx, seriesID)
	}
	return &services.SeriesDetail{Series: &models.Series{ID: seriesID}}, nil
}

func (f *FakeQueryService) GetTournamentStructure(ctx context.Context, tournamentID int) (*services.TournamentStructure, error) {
	if f.GetTournamentStructureFunc != nil {
		return f.GetTournamentStructureFunc(ctx, tournamentID)
	}
	return &services.TournamentStructure{Tournament: &models.Tournament{ID: tournamentID}}, nil
}

func (f *FakeQueryService) GetUpcomingSeries(ctx context.Context, limit int) ([]*models.Series, error) {
	if f.GetUpcomingSeriesFunc != nil {
		return f.GetUpcomingSeriesFunc(ctx, limit)
	}
	return nil, nil
}

func (f *FakeQueryService) GetTeamRecentSeries(ctx context.Context, teamID int, limit int) ([]*models.Series, error) {
	if f.GetTeamRecentSeriesFunc != nil {
		return f.GetTeamRecentSeriesFunc(ctx, teamID, limit)
	}
	return nil, nil
}

func (f *FakeQueryService) GetStageSchedule(ctx context.Context, stageID int) ([]*models.Series, error) {
	if f.GetStageScheduleFunc != nil {
		return f.GetStageScheduleFunc(ctx, stageID)
	}
	return nil, nil
}
