package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sort"
	"time"

	"github.com/Dosada05/esports-tracker/metrics"
	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/storage"
)

// ------------------------
// In-memory store
// ------------------------

// memStore backs every fake repository. The fake transactor snapshots it
// before a transaction and restores the snapshot on rollback.
type memStore struct {
	nextID int

	tournaments     map[int]models.Tournament
	tournamentTeams map[int]models.TournamentTeam
	stages          map[int]models.Stage
	teams           map[int]models.Team
	players         map[int]models.Player
	staff           map[int]bool
	heroes          map[int]bool
	series          map[int]models.Series
	games           map[int]models.Game
	teamStats       map[int]models.TeamGameStat
	playerStats     map[int]models.PlayerGameStat
	drafts          map[int]models.DraftAction
	playerMembers   map[int]models.Membership
	staffMembers    map[int]models.Membership

	// writes records derived-state writes, e.g. "game.winner:7".
	writes []string
	locks  []string
}

func newMemStore() *memStore {
	return &memStore{
		tournaments:     map[int]models.Tournament{},
		tournamentTeams: map[int]models.TournamentTeam{},
		stages:          map[int]models.Stage{},
		teams:           map[int]models.Team{},
		players:         map[int]models.Player{},
		staff:           map[int]bool{},
		heroes:          map[int]bool{},
		series:          map[int]models.Series{},
		games:           map[int]models.Game{},
		teamStats:       map[int]models.TeamGameStat{},
		playerStats:     map[int]models.PlayerGameStat{},
		drafts:          map[int]models.DraftAction{},
		playerMembers:   map[int]models.Membership{},
		staffMembers:    map[int]models.Membership{},
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) snapshot() memStore {
	c := *s
	c.tournaments = maps.Clone(s.tournaments)
	c.tournamentTeams = maps.Clone(s.tournamentTeams)
	c.stages = maps.Clone(s.stages)
	c.teams = maps.Clone(s.teams)
	c.players = maps.Clone(s.players)
	c.staff = maps.Clone(s.staff)
	c.heroes = maps.Clone(s.heroes)
	c.series = maps.Clone(s.series)
	c.games = maps.Clone(s.games)
	c.teamStats = maps.Clone(s.teamStats)
	c.playerStats = maps.Clone(s.playerStats)
	c.drafts = maps.Clone(s.drafts)
	c.playerMembers = maps.Clone(s.playerMembers)
	c.staffMembers = maps.Clone(s.staffMembers)
	c.writes = append([]string(nil), s.writes...)
	c.locks = append([]string(nil), s.locks...)
	return c
}

func (s *memStore) members(kind models.PersonKind) map[int]models.Membership {
	if kind == models.PersonStaff {
		return s.staffMembers
	}
	return s.playerMembers
}

// ------------------------
// Fake Transactor
// ------------------------

type FakeTransactor struct {
	store     *memStore
	Commits   int
	Rollbacks int
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := f.store.snapshot()
	if err := fn(nil); err != nil {
		*f.store = snap
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}

// ------------------------
// Fake Tournament Repository
// ------------------------

type FakeTournamentRepo struct {
	store *memStore

	// CreateFunc runs before the insert; a non-nil error aborts it. Tests
	// use it to simulate losing the slug race to another transaction.
	CreateFunc func(t *models.Tournament) error
}

func (f *FakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	if f.CreateFunc != nil {
		if err := f.CreateFunc(t); err != nil {
			return err
		}
	}
	for _, existing := range f.store.tournaments {
		if existing.Slug == t.Slug {
			return &repositories.ConstraintError{Kind: repositories.ErrUniqueViolation, Constraint: repositories.TournamentSlugConstraint}
		}
	}
	t.ID = f.store.id()
	f.store.tournaments[t.ID] = *t
	return nil
}

func (f *FakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := f.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (f *FakeTournamentRepo) Update(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	if _, ok := f.store.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	f.store.tournaments[t.ID] = *t
	return nil
}

func (f *FakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := f.store.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	f.store.tournaments[id] = t
	return nil
}

func (f *FakeTournamentRepo) UpdateLogoKey(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error {
	t, ok := f.store.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.LogoKey = logoKey
	f.store.tournaments[id] = t
	return nil
}

func (f *FakeTournamentRepo) SlugExists(ctx context.Context, exec repositories.SQLExecutor, slug string, excludeID int) (bool, error) {
	for id, t := range f.store.tournaments {
		if t.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeTournamentRepo) ListAll(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(f.store.tournaments))
	for _, t := range f.store.tournaments {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ------------------------
// Fake Tournament Team Repository
// ------------------------

type FakeTournamentTeamRepo struct {
	store *memStore
}

func (f *FakeTournamentTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.TournamentTeam) error {
	if _, ok := f.store.teams[e.TeamID]; !ok {
		return repositories.ErrRegistrationInvalid
	}
	for _, existing := range f.store.tournamentTeams {
		if existing.TournamentID == e.TournamentID && existing.TeamID == e.TeamID {
			return repositories.ErrTeamAlreadyRegistered
		}
	}
	e.ID = f.store.id()
	stored := *e
	stored.Team = nil
	f.store.tournamentTeams[e.ID] = stored
	return nil
}

func (f *FakeTournamentTeamRepo) IsRegistered(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) (bool, error) {
	for _, e := range f.store.tournamentTeams {
		if e.TournamentID == tournamentID && e.TeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeTournamentTeamRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.TournamentTeam, error) {
	var out []*models.TournamentTeam
	for _, e := range f.store.tournamentTeams {
		if e.TournamentID == tournamentID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ------------------------
// Fake Stage Repository
// ------------------------

type FakeStageRepo struct {
	store *memStore
}

func (f *FakeStageRepo) check(st *models.Stage) error {
	for id, existing := range f.store.stages {
		if id == st.ID {
			continue
		}
		if existing.Slug == st.Slug {
			return &repositories.ConstraintError{Kind: repositories.ErrUniqueViolation, Constraint: repositories.StageSlugConstraint}
		}
		if existing.TournamentID == st.TournamentID && existing.Order == st.Order {
			return repositories.ErrStageOrderTaken
		}
	}
	return nil
}

func (f *FakeStageRepo) Create(ctx context.Context, exec repositories.SQLExecutor, st *models.Stage) error {
	if err := f.check(st); err != nil {
		return err
	}
	st.ID = f.store.id()
	f.store.stages[st.ID] = *st
	return nil
}

func (f *FakeStageRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Stage, error) {
	st, ok := f.store.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	return &st, nil
}

func (f *FakeStageRepo) Update(ctx context.Context, exec repositories.SQLExecutor, st *models.Stage) error {
	if _, ok := f.store.stages[st.ID]; !ok {
		return repositories.ErrStageNotFound
	}
	if err := f.check(st); err != nil {
		return err
	}
	f.store.stages[st.ID] = *st
	return nil
}

func (f *FakeStageRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	st, ok := f.store.stages[id]
	if !ok {
		return repositories.ErrStageNotFound
	}
	st.Status = status
	f.store.stages[id] = st
	return nil
}

func (f *FakeStageRepo) SlugExists(ctx context.Context, exec repositories.SQLExecutor, slug string, excludeID int) (bool, error) {
	for id, st := range f.store.stages {
		if st.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeStageRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Stage, error) {
	var out []*models.Stage
	for _, st := range f.store.stages {
		if st.TournamentID == tournamentID {
			st := st
			out = append(out, &st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *FakeStageRepo) ListAll(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Stage, error) {
	out := make([]*models.Stage, 0, len(f.store.stages))
	for _, st := range f.store.stages {
		st := st
		out = append(out, &st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ------------------------
// Fake Team / Person / Hero Repositories
// ------------------------

type FakeTeamRepo struct {
	store *memStore
}

func (f *FakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	t, ok := f.store.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &t, nil
}

func (f *FakeTeamRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) (map[int]*models.Team, error) {
	out := make(map[int]*models.Team, len(ids))
	for _, id := range ids {
		if t, ok := f.store.teams[id]; ok {
			t := t
			out[id] = &t
		}
	}
	return out, nil
}

type FakePersonRepo struct {
	store *memStore
}

func (f *FakePersonRepo) Lock(ctx context.Context, exec repositories.SQLExecutor, kind models.PersonKind, id int) error {
	if kind == models.PersonStaff {
		if !f.store.staff[id] {
			return repositories.ErrStaffNotFound
		}
	} else if _, ok := f.store.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	f.store.locks = append(f.store.locks, fmt.Sprintf("%s:%d", kind, id))
	return nil
}

func (f *FakePersonRepo) GetPlayer(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	p, ok := f.store.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

type FakeHeroRepo struct {
	store *memStore
}

func (f *FakeHeroRepo) Exists(ctx context.Context, exec repositories.SQLExecutor, id int) (bool, error) {
	return f.store.heroes[id], nil
}

// ------------------------
// Fake Series Repository
// ------------------------

type FakeSeriesRepo struct {
	store *memStore
}

func (f *FakeSeriesRepo) Create(ctx context.Context, exec repositories.SQLExecutor, s *models.Series) error {
	s.ID = f.store.id()
	f.store.series[s.ID] = *s
	return nil
}

func (f *FakeSeriesRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Series, error) {
	s, ok := f.store.series[id]
	if !ok {
		return nil, repositories.ErrSeriesNotFound
	}
	return &s, nil
}

func (f *FakeSeriesRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Series, error) {
	s, err := f.GetByID(ctx, exec, id)
	if err == nil {
		f.store.locks = append(f.store.locks, fmt.Sprintf("series:%d", id))
	}
	return s, err
}

func (f *FakeSeriesRepo) UpdateScoreWinner(ctx context.Context, exec repositories.SQLExecutor, id int, score string, winnerID *int) error {
	s, ok := f.store.series[id]
	if !ok {
		return repositories.ErrSeriesNotFound
	}
	s.Score = score
	s.WinnerID = winnerID
	f.store.series[id] = s
	f.store.writes = append(f.store.writes, fmt.Sprintf("series.score:%d", id))
	return nil
}

func (f *FakeSeriesRepo) list(keep func(models.Series) bool) []*models.Series {
	var out []*models.Series
	for _, s := range f.store.series {
		if keep(s) {
			s := s
			out = append(out, &s)
		}
	}
	return out
}

func (f *FakeSeriesRepo) ListUpcoming(ctx context.Context, exec repositories.SQLExecutor, from time.Time, limit int) ([]*models.Series, error) {
	out := f.list(func(s models.Series) bool { return !s.ScheduledDate.Before(from) })
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeSeriesRepo) ListByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int, limit int) ([]*models.Series, error) {
	out := f.list(func(s models.Series) bool { return s.Team1ID == teamID || s.Team2ID == teamID })
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.After(out[j].ScheduledDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeSeriesRepo) ListByStage(ctx context.Context, exec repositories.SQLExecutor, stageID int) ([]*models.Series, error) {
	out := f.list(func(s models.Series) bool { return s.StageID == stageID })
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (f *FakeSeriesRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Series, error) {
	out := f.list(func(s models.Series) bool { return s.TournamentID == tournamentID })
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.After(out[j].ScheduledDate) })
	return out, nil
}

// ------------------------
// Fake Game Repository
// ------------------------

type FakeGameRepo struct {
	store *memStore
}

func (f *FakeGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, g *models.Game) error {
	for _, existing := range f.store.games {
		if existing.SeriesID == g.SeriesID && existing.GameNo == g.GameNo {
			return repositories.ErrGameNoTaken
		}
	}
	g.ID = f.store.id()
	f.store.games[g.ID] = *g
	return nil
}

func (f *FakeGameRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	g, ok := f.store.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	return &g, nil
}

func (f *FakeGameRepo) Update(ctx context.Context, exec repositories.SQLExecutor, g *models.Game) error {
	if _, ok := f.store.games[g.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	f.store.games[g.ID] = *g
	return nil
}

func (f *FakeGameRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerID *int) error {
	g, ok := f.store.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.WinnerID = winnerID
	f.store.games[id] = g
	f.store.writes = append(f.store.writes, fmt.Sprintf("game.winner:%d", id))
	return nil
}

func (f *FakeGameRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.store.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(f.store.games, id)
	maps.DeleteFunc(f.store.teamStats, func(_ int, s models.TeamGameStat) bool { return s.GameID == id })
	maps.DeleteFunc(f.store.playerStats, func(_ int, s models.PlayerGameStat) bool { return s.GameID == id })
	maps.DeleteFunc(f.store.drafts, func(_ int, d models.DraftAction) bool { return d.GameID == id })
	return nil
}

func (f *FakeGameRepo) ListBySeries(ctx context.Context, exec repositories.SQLExecutor, seriesID int) ([]*models.Game, error) {
	var out []*models.Game
	for _, g := range f.store.games {
		if g.SeriesID == seriesID {
			g := g
			out = append(out, &g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameNo < out[j].GameNo })
	return out, nil
}

// ------------------------
// Fake Stat Repositories
// ------------------------

type FakeTeamStatRepo struct {
	store *memStore
}

func (f *FakeTeamStatRepo) Create(ctx context.Context, exec repositories.SQLExecutor, s *models.TeamGameStat) error {
	for _, existing := range f.store.teamStats {
		if existing.GameID == s.GameID && existing.TeamID == s.TeamID {
			return repositories.ErrTeamStatDuplicate
		}
	}
	s.ID = f.store.id()
	f.store.teamStats[s.ID] = *s
	return nil
}

func (f *FakeTeamStatRepo) Update(ctx context.Context, exec repositories.SQLExecutor, s *models.TeamGameStat) error {
	if _, ok := f.store.teamStats[s.ID]; !ok {
		return repositories.ErrTeamStatNotFound
	}
	f.store.teamStats[s.ID] = *s
	return nil
}

func (f *FakeTeamStatRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TeamGameStat, error) {
	s, ok := f.store.teamStats[id]
	if !ok {
		return nil, repositories.ErrTeamStatNotFound
	}
	return &s, nil
}

func (f *FakeTeamStatRepo) GetByGameAndTeam(ctx context.Context, exec repositories.SQLExecutor, gameID, teamID int) (*models.TeamGameStat, error) {
	for _, s := range f.store.teamStats {
		if s.GameID == gameID && s.TeamID == teamID {
			return &s, nil
		}
	}
	return nil, repositories.ErrTeamStatNotFound
}

func (f *FakeTeamStatRepo) ListByGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) ([]*models.TeamGameStat, error) {
	var out []*models.TeamGameStat
	for _, s := range f.store.teamStats {
		if s.GameID == gameID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeTeamStatRepo) ListBySeries(ctx context.Context, exec repositories.SQLExecutor, seriesID int) ([]*models.TeamGameStat, error) {
	var out []*models.TeamGameStat
	for _, s := range f.store.teamStats {
		if g, ok := f.store.games[s.GameID]; ok && g.SeriesID == seriesID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeTeamStatRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.store.teamStats[id]; !ok {
		return repositories.ErrTeamStatNotFound
	}
	delete(f.store.teamStats, id)
	maps.DeleteFunc(f.store.playerStats, func(_ int, s models.PlayerGameStat) bool { return s.TeamStatID == id })
	return nil
}

type FakePlayerStatRepo struct {
	store *memStore
}

func (f *FakePlayerStatRepo) Create(ctx context.Context, exec repositories.SQLExecutor, s *models.PlayerGameStat) error {
	for _, existing := range f.store.playerStats {
		if existing.GameID == s.GameID && existing.PlayerID == s.PlayerID {
			return repositories.ErrPlayerStatExists
		}
	}
	s.ID = f.store.id()
	f.store.playerStats[s.ID] = *s
	return nil
}

func (f *FakePlayerStatRepo) Update(ctx context.Context, exec repositories.SQLExecutor, s *models.PlayerGameStat) error {
	if _, ok := f.store.playerStats[s.ID]; !ok {
		return repositories.ErrPlayerStatNotFound
	}
	f.store.playerStats[s.ID] = *s
	return nil
}

func (f *FakePlayerStatRepo) GetByGameAndPlayer(ctx context.Context, exec repositories.SQLExecutor, gameID, playerID int) (*models.PlayerGameStat, error) {
	for _, s := range f.store.playerStats {
		if s.GameID == gameID && s.PlayerID == playerID {
			return &s, nil
		}
	}
	return nil, repositories.ErrPlayerStatNotFound
}

func (f *FakePlayerStatRepo) ListBySeries(ctx context.Context, exec repositories.SQLExecutor, seriesID int) ([]*models.PlayerGameStat, error) {
	var out []*models.PlayerGameStat
	for _, s := range f.store.playerStats {
		if g, ok := f.store.games[s.GameID]; ok && g.SeriesID == seriesID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ------------------------
// Fake Draft Repository
// ------------------------

type FakeDraftRepo struct {
	store *memStore
}

func (f *FakeDraftRepo) GetByGameAndOrder(ctx context.Context, exec repositories.SQLExecutor, gameID, order int) (*models.DraftAction, error) {
	for _, d := range f.store.drafts {
		if d.GameID == gameID && d.Order == order {
			return &d, nil
		}
	}
	return nil, repositories.ErrDraftActionNotFound
}

func (f *FakeDraftRepo) Create(ctx context.Context, exec repositories.SQLExecutor, d *models.DraftAction) error {
	if _, err := f.GetByGameAndOrder(ctx, exec, d.GameID, d.Order); err == nil {
		return repositories.ErrDraftOrderTaken
	}
	d.ID = f.store.id()
	f.store.drafts[d.ID] = *d
	return nil
}

func (f *FakeDraftRepo) Update(ctx context.Context, exec repositories.SQLExecutor, d *models.DraftAction) error {
	if _, ok := f.store.drafts[d.ID]; !ok {
		return repositories.ErrDraftActionNotFound
	}
	f.store.drafts[d.ID] = *d
	return nil
}

func (f *FakeDraftRepo) ListBySeries(ctx context.Context, exec repositories.SQLExecutor, seriesID int) ([]*models.DraftAction, error) {
	var out []*models.DraftAction
	for _, d := range f.store.drafts {
		if g, ok := f.store.games[d.GameID]; ok && g.SeriesID == seriesID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (f *FakeDraftRepo) SyncTeamsForGame(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) (int64, error) {
	var n int64
	for id, d := range f.store.drafts {
		if d.GameID != game.ID {
			continue
		}
		if team := game.TeamOn(d.Side); team != d.TeamID {
			d.TeamID = team
			f.store.drafts[id] = d
			n++
		}
	}
	return n, nil
}

// ------------------------
// Fake Membership Repository
// ------------------------

type FakeMembershipRepo struct {
	store *memStore
}

func (f *FakeMembershipRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Membership) error {
	for _, existing := range f.store.members(m.Kind) {
		if existing.PersonID == m.PersonID && existing.TeamID == m.TeamID && existing.StartDate.Equal(m.StartDate) {
			return repositories.ErrMembershipDuplicate
		}
	}
	m.ID = f.store.id()
	f.store.members(m.Kind)[m.ID] = *m
	return nil
}

func (f *FakeMembershipRepo) Update(ctx context.Context, exec repositories.SQLExecutor, m *models.Membership) error {
	members := f.store.members(m.Kind)
	if _, ok := members[m.ID]; !ok {
		return repositories.ErrMembershipNotFound
	}
	members[m.ID] = *m
	return nil
}

func (f *FakeMembershipRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, kind models.PersonKind, id int) (*models.Membership, error) {
	m, ok := f.store.members(kind)[id]
	if !ok {
		return nil, repositories.ErrMembershipNotFound
	}
	return &m, nil
}

func (f *FakeMembershipRepo) filter(kind models.PersonKind, keep func(models.Membership) bool) []models.Membership {
	var out []models.Membership
	for _, m := range f.store.members(kind) {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (f *FakeMembershipRepo) ListByPerson(ctx context.Context, exec repositories.SQLExecutor, kind models.PersonKind, personID int) ([]models.Membership, error) {
	return f.filter(kind, func(m models.Membership) bool { return m.PersonID == personID }), nil
}

func (f *FakeMembershipRepo) ListByTeam(ctx context.Context, exec repositories.SQLExecutor, kind models.PersonKind, teamID int) ([]models.Membership, error) {
	return f.filter(kind, func(m models.Membership) bool { return m.TeamID == teamID }), nil
}

// ------------------------
// Fake Uploader
// ------------------------

type FakeUploader struct {
	Objects map[string]string

	UploadFunc func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
}

func (f *FakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, key, contentType, reader)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.Objects[key] = string(body)
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *FakeUploader) Delete(ctx context.Context, key string) error {
	delete(f.Objects, key)
	return nil
}

func (f *FakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

// ------------------------
// Harness
// ------------------------

type harness struct {
	store    *memStore
	tx       *FakeTransactor
	metrics  *metrics.Metrics
	uploader *FakeUploader

	tournamentRepo *FakeTournamentRepo

	series      SeriesService
	stats       StatsService
	memberships MembershipService
	tournaments TournamentService
	queries     QueryService
}

func newHarness() *harness {
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewNoop()
	tx := &FakeTransactor{store: store}
	uploader := &FakeUploader{Objects: map[string]string{}}

	tournamentRepo := &FakeTournamentRepo{store: store}
	tournamentTeamRepo := &FakeTournamentTeamRepo{store: store}
	stageRepo := &FakeStageRepo{store: store}
	teamRepo := &FakeTeamRepo{store: store}
	personRepo := &FakePersonRepo{store: store}
	heroRepo := &FakeHeroRepo{store: store}
	seriesRepo := &FakeSeriesRepo{store: store}
	gameRepo := &FakeGameRepo{store: store}
	teamStatRepo := &FakeTeamStatRepo{store: store}
	playerStatRepo := &FakePlayerStatRepo{store: store}
	draftRepo := &FakeDraftRepo{store: store}
	membershipRepo := &FakeMembershipRepo{store: store}

	recomputer := NewRecomputer(seriesRepo, gameRepo, teamStatRepo, m, logger)

	return &harness{
		store:          store,
		tx:             tx,
		metrics:        m,
		uploader:       uploader,
		tournamentRepo: tournamentRepo,
		series:         NewSeriesService(tx, seriesRepo, stageRepo, tournamentTeamRepo, gameRepo, teamStatRepo, draftRepo, recomputer, logger),
		stats:          NewStatsService(tx, seriesRepo, gameRepo, teamStatRepo, playerStatRepo, draftRepo, membershipRepo, heroRepo, recomputer, logger),
		memberships:    NewMembershipService(tx, personRepo, teamRepo, membershipRepo, logger),
		tournaments:    NewTournamentService(tx, tournamentRepo, tournamentTeamRepo, stageRepo, teamRepo, uploader, m, logger),
		queries:        NewQueryService(tournamentRepo, tournamentTeamRepo, stageRepo, seriesRepo, gameRepo, teamStatRepo, playerStatRepo, draftRepo, teamRepo, uploader, logger),
	}
}

func (h *harness) addTeam(name string) int {
	id := h.store.id()
	h.store.teams[id] = models.Team{ID: id, Name: name, ShortName: name, IsActive: true}
	return id
}

func (h *harness) addPlayer(ign string) int {
	id := h.store.id()
	h.store.players[id] = models.Player{ID: id, IGN: ign, IsActive: true}
	return id
}

func (h *harness) addHero() int {
	id := h.store.id()
	h.store.heroes[id] = true
	return id
}

func (h *harness) resetWrites() {
	h.store.writes = nil
}

// fixture is a tournament with one stage and a series between two
// registered teams.
type fixture struct {
	tournamentID int
	stageID      int
	teamA        int
	teamB        int
	seriesID     int
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (h *harness) seedSeries(bestOf int) fixture {
	f := fixture{teamA: h.addTeam("AAA"), teamB: h.addTeam("BBB")}

	f.tournamentID = h.store.id()
	h.store.tournaments[f.tournamentID] = models.Tournament{
		ID: f.tournamentID, Name: "MPL PH", Slug: "mpl-ph",
		StartDate: date(2024, 3, 1), EndDate: date(2024, 6, 30),
	}
	f.stageID = h.store.id()
	h.store.stages[f.stageID] = models.Stage{
		ID: f.stageID, TournamentID: f.tournamentID, StageType: models.StageGroup, Order: 1,
		StartDate: date(2024, 3, 1), EndDate: date(2024, 4, 30),
	}
	for _, team := range []int{f.teamA, f.teamB} {
		id := h.store.id()
		h.store.tournamentTeams[id] = models.TournamentTeam{ID: id, TournamentID: f.tournamentID, TeamID: team}
	}

	f.seriesID = h.store.id()
	h.store.series[f.seriesID] = models.Series{
		ID: f.seriesID, TournamentID: f.tournamentID, StageID: f.stageID,
		Team1ID: f.teamA, Team2ID: f.teamB, BestOf: bestOf, Score: "0-0",
		ScheduledDate: time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
	}
	return f
}

// addGame inserts a NORMAL game directly, bypassing the services.
func (h *harness) addGame(seriesID, gameNo, blue, red int, winner *int) int {
	id := h.store.id()
	h.store.games[id] = models.Game{
		ID: id, SeriesID: seriesID, GameNo: gameNo,
		BlueSideID: blue, RedSideID: red, WinnerID: winner, ResultType: models.ResultNormal,
	}
	return id
}

func (h *harness) addTeamStat(gameID, teamID int, side models.Side, result models.GameResult) int {
	id := h.store.id()
	h.store.teamStats[id] = models.TeamGameStat{ID: id, GameID: gameID, TeamID: teamID, Side: side, GameResult: result}
	return id
}

func (h *harness) seriesState(id int) models.Series {
	return h.store.series[id]
}

func (h *harness) gameState(id int) models.Game {
	return h.store.games[id]
}
