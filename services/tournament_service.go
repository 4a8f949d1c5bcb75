package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Dosada05/esports-tracker/metrics"
	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/slugs"
	"github.com/Dosada05/esports-tracker/storage"
	"github.com/Dosada05/esports-tracker/validation"
)

type TournamentInput struct {
	Name        string                `json:"name"`
	Slug        string                `json:"slug"`
	Region      models.Region         `json:"region"`
	Tier        models.TournamentTier `json:"tier"`
	StartDate   time.Time             `json:"start_date"`
	EndDate     time.Time             `json:"end_date"`
	PrizePool   *int                  `json:"prize_pool"`
	Description string                `json:"description"`
	RulesLink   string                `json:"rules_link"`
}

type RegisterTeamInput struct {
	TournamentID int                       `json:"tournament_id"`
	TeamID       int                       `json:"team_id"`
	Seed         *int                      `json:"seed"`
	Kind         models.TournamentTeamKind `json:"kind"`
	Group        string                    `json:"group"`
	Notes        string                    `json:"notes"`
}

type StageInput struct {
	TournamentID int              `json:"tournament_id"`
	StageType    models.StageType `json:"stage_type"`
	Slug         string           `json:"slug"`
	Variant      string           `json:"variant"`
	Order        int              `json:"order"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	Tier         models.StageTier `json:"tier"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, in TournamentInput) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, in TournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	RegisterTeam(ctx context.Context, in RegisterTeamInput) (*models.TournamentTeam, error)
	CreateStage(ctx context.Context, in StageInput) (*models.Stage, error)
	UpdateStage(ctx context.Context, id int, in StageInput) (*models.Stage, error)
	RefreshStatuses(ctx context.Context) (int, error)
	UpdateLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tx                 Transactor
	tournamentRepo     repositories.TournamentRepository
	tournamentTeamRepo repositories.TournamentTeamRepository
	stageRepo          repositories.StageRepository
	teamRepo           repositories.TeamRepository
	uploader           storage.FileUploader
	metrics            *metrics.Metrics
	logger             *slog.Logger
}

// NewTournamentService builds the service. uploader may be nil, in which
// case UpdateLogo fails with ErrLogoStoreDisabled.
func NewTournamentService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	tournamentTeamRepo repositories.TournamentTeamRepository,
	stageRepo repositories.StageRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	m *metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:                 tx,
		tournamentRepo:     tournamentRepo,
		tournamentTeamRepo: tournamentTeamRepo,
		stageRepo:          stageRepo,
		teamRepo:           teamRepo,
		uploader:           uploader,
		metrics:            m,
		logger:             logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, in TournamentInput) (*models.Tournament, error) {
	t := &models.Tournament{}
	applyTournamentInput(t, in)
	if err := validateTournament(t); err != nil {
		return nil, err
	}
	t.Status = models.ComputeStatus(t.StartDate, t.EndDate, today())

	base := slugs.BuildBase(slugs.DefaultMaxLen, in.Slug)
	if base == "" {
		base = slugs.BuildBase(slugs.DefaultMaxLen, t.Name)
	}

	err := s.withSlugRetry(ctx, repositories.TournamentSlugConstraint, func(exec repositories.SQLExecutor) error {
		slug, err := slugs.EnsureUnique(ctx, base, s.tournamentSlugLookup(exec), 0, slugs.DefaultMaxLen)
		if err != nil {
			return err
		}
		t.Slug = slug
		return s.tournamentRepo.Create(ctx, exec, t)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create tournament")
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", t.ID),
		slog.String("slug", t.Slug),
		slog.String("status", string(t.Status)),
	)
	return t, nil
}

// UpdateTournament keeps the stored slug unless the caller sends a new one,
// and rejects date changes that would leave existing stages outside.
func (s *tournamentService) UpdateTournament(ctx context.Context, id int, in TournamentInput) (*models.Tournament, error) {
	var t *models.Tournament

	err := s.withSlugRetry(ctx, repositories.TournamentSlugConstraint, func(exec repositories.SQLExecutor) error {
		var err error
		t, err = s.tournamentRepo.GetByID(ctx, exec, id)
		if err != nil {
			return err
		}
		applyTournamentInput(t, in)
		if err := validateTournament(t); err != nil {
			return err
		}

		stages, err := s.stageRepo.ListByTournament(ctx, exec, id)
		if err != nil {
			return err
		}
		for _, st := range stages {
			if validation.ValidateNestedRange(st.StartDate, st.EndDate, t.StartDate, t.EndDate, "tournament") != nil {
				return validation.New(validation.ErrRange, "start_date", "Existing stages fall outside the new date range.")
			}
		}

		if base := slugs.BuildBase(slugs.DefaultMaxLen, in.Slug); base != "" && base != t.Slug {
			t.Slug, err = slugs.EnsureUnique(ctx, base, s.tournamentSlugLookup(exec), t.ID, slugs.DefaultMaxLen)
			if err != nil {
				return err
			}
		}

		t.Status = models.ComputeStatus(t.StartDate, t.EndDate, today())
		return s.tournamentRepo.Update(ctx, exec, t)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update tournament")
	}

	populateTournamentLogoURL(t, s.uploader)
	s.logger.InfoContext(ctx, "tournament updated", slog.Int("tournament_id", t.ID))
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}
	populateTournamentLogoURL(t, s.uploader)
	return t, nil
}

func (s *tournamentService) RegisterTeam(ctx context.Context, in RegisterTeamInput) (*models.TournamentTeam, error) {
	entry := &models.TournamentTeam{
		TournamentID: in.TournamentID,
		TeamID:       in.TeamID,
		Seed:         in.Seed,
		Kind:         in.Kind,
		Group:        in.Group,
		Notes:        in.Notes,
	}

	var errs validation.Errors
	if entry.Kind != "" && !entry.Kind.Valid() {
		errs.Add(validation.ErrStructural, "kind", "Kind must be INVITED, QUALIFIED, WILDCARD or FRANCHISE.")
	}
	if entry.Seed != nil && *entry.Seed < 1 {
		errs.Add(validation.ErrStructural, "seed", "Seed must be at least 1.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetByID(ctx, exec, entry.TournamentID); err != nil {
			return err
		}
		team, err := s.teamRepo.GetByID(ctx, exec, entry.TeamID)
		if err != nil {
			return err
		}
		if err := s.tournamentTeamRepo.Create(ctx, exec, entry); err != nil {
			return err
		}
		populateTeamLogoURL(team, s.uploader)
		entry.Team = team
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "register team")
	}

	s.logger.InfoContext(ctx, "team registered",
		slog.Int("tournament_id", entry.TournamentID),
		slog.Int("team_id", entry.TeamID),
	)
	return entry, nil
}

func (s *tournamentService) CreateStage(ctx context.Context, in StageInput) (*models.Stage, error) {
	stage := &models.Stage{}
	applyStageInput(stage, in)

	err := s.withSlugRetry(ctx, repositories.StageSlugConstraint, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetByID(ctx, exec, stage.TournamentID)
		if err != nil {
			return err
		}
		if err := validateStage(stage, tournament); err != nil {
			return err
		}
		stage.Status = models.ComputeStatus(stage.StartDate, stage.EndDate, today())

		stage.Slug, err = s.allocateStageSlug(ctx, exec, in.Slug, stage, tournament)
		if err != nil {
			return err
		}
		return s.stageRepo.Create(ctx, exec, stage)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create stage")
	}

	s.logger.InfoContext(ctx, "stage created",
		slog.Int("stage_id", stage.ID),
		slog.Int("tournament_id", stage.TournamentID),
		slog.String("slug", stage.Slug),
	)
	return stage, nil
}

// UpdateStage regenerates the slug only when the caller sends one or the
// fields it is built from changed.
func (s *tournamentService) UpdateStage(ctx context.Context, id int, in StageInput) (*models.Stage, error) {
	var stage *models.Stage

	err := s.withSlugRetry(ctx, repositories.StageSlugConstraint, func(exec repositories.SQLExecutor) error {
		var err error
		stage, err = s.stageRepo.GetByID(ctx, exec, id)
		if err != nil {
			return err
		}
		if in.TournamentID != 0 && in.TournamentID != stage.TournamentID {
			return validation.New(validation.ErrStructural, "tournament", "A stage cannot be moved to another tournament.")
		}
		in.TournamentID = stage.TournamentID

		before := *stage
		applyStageInput(stage, in)

		tournament, err := s.tournamentRepo.GetByID(ctx, exec, stage.TournamentID)
		if err != nil {
			return err
		}
		if err := validateStage(stage, tournament); err != nil {
			return err
		}
		stage.Status = models.ComputeStatus(stage.StartDate, stage.EndDate, today())

		if in.Slug != "" || before.StageType != stage.StageType || before.Variant != stage.Variant || before.Order != stage.Order {
			stage.Slug, err = s.allocateStageSlug(ctx, exec, in.Slug, stage, tournament)
			if err != nil {
				return err
			}
		} else {
			stage.Slug = before.Slug
		}
		return s.stageRepo.Update(ctx, exec, stage)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update stage")
	}

	s.logger.InfoContext(ctx, "stage updated", slog.Int("stage_id", stage.ID), slog.String("slug", stage.Slug))
	return stage, nil
}

// RefreshStatuses rewrites the status of every tournament and stage whose
// date range moved it to another phase, and returns how many changed.
func (s *tournamentService) RefreshStatuses(ctx context.Context) (int, error) {
	now := today()
	changed := 0

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournaments, err := s.tournamentRepo.ListAll(ctx, exec)
		if err != nil {
			return handleRepositoryError(err, "list tournaments")
		}
		for _, t := range tournaments {
			status := models.ComputeStatus(t.StartDate, t.EndDate, now)
			if status == t.Status {
				continue
			}
			if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, status); err != nil {
				return handleRepositoryError(err, "update tournament status")
			}
			s.metrics.StatusChanges.WithLabelValues("tournament").Inc()
			changed++
		}

		stages, err := s.stageRepo.ListAll(ctx, exec)
		if err != nil {
			return handleRepositoryError(err, "list stages")
		}
		for _, st := range stages {
			status := models.ComputeStatus(st.StartDate, st.EndDate, now)
			if status == st.Status {
				continue
			}
			if err := s.stageRepo.UpdateStatus(ctx, exec, st.ID, status); err != nil {
				return handleRepositoryError(err, "update stage status")
			}
			s.metrics.StatusChanges.WithLabelValues("stage").Inc()
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		s.logger.InfoContext(ctx, "statuses refreshed", slog.Int("changed", changed))
	}
	return changed, nil
}

// UpdateLogo stores the file under tournament/logos/{slug}{ext} and
// removes the previous logo object when its key differs.
func (s *tournamentService) UpdateLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrLogoStoreDisabled
	}
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}

	key := storage.TournamentLogoKey(t.Slug, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("upload tournament logo: %w", err)
	}

	oldKey := t.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, nil, id, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned logo", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, handleRepositoryError(err, "save logo key")
	}
	if oldKey != nil && *oldKey != key && storage.IsTournamentLogoKey(*oldKey) {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to remove previous logo", slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	t.LogoKey = &key
	populateTournamentLogoURL(t, s.uploader)
	s.logger.InfoContext(ctx, "tournament logo updated", slog.Int("tournament_id", id), slog.String("key", key))
	return t, nil
}

// withSlugRetry runs fn in a fresh transaction until it stops failing on
// the named slug constraint, at most slugs.MaxAttempts times.
func (s *tournamentService) withSlugRetry(ctx context.Context, constraint string, fn func(exec repositories.SQLExecutor) error) error {
	for attempt := 1; ; attempt++ {
		err := s.tx.WithinTx(ctx, fn)
		if !repositories.IsConstraint(err, constraint) {
			return err
		}
		if attempt >= slugs.MaxAttempts {
			s.logger.WarnContext(ctx, "slug allocation exhausted", slog.String("constraint", constraint), slog.Int("attempts", attempt))
			return fmt.Errorf("%w: %w", ErrSlugUnavailable, err)
		}
		s.metrics.SlugRetries.Inc()
		s.logger.DebugContext(ctx, "slug taken concurrently, retrying", slog.String("constraint", constraint), slog.Int("attempt", attempt))
	}
}

func (s *tournamentService) tournamentSlugLookup(exec repositories.SQLExecutor) slugs.Lookup {
	return func(ctx context.Context, candidate string, excludeID int) (bool, error) {
		return s.tournamentRepo.SlugExists(ctx, exec, candidate, excludeID)
	}
}

func (s *tournamentService) allocateStageSlug(ctx context.Context, exec repositories.SQLExecutor, requested string, stage *models.Stage, tournament *models.Tournament) (string, error) {
	base := slugs.BuildBase(slugs.StageMaxLen, requested)
	if base == "" {
		prefix := tournament.Slug
		if prefix == "" {
			prefix = tournament.Name
		}
		base = slugs.StageBase(prefix, string(stage.StageType), stage.Variant, stage.Order)
	}
	lookup := func(ctx context.Context, candidate string, excludeID int) (bool, error) {
		return s.stageRepo.SlugExists(ctx, exec, candidate, excludeID)
	}
	return slugs.EnsureUnique(ctx, base, lookup, stage.ID, slugs.StageMaxLen)
}

func applyTournamentInput(t *models.Tournament, in TournamentInput) {
	t.Name = in.Name
	t.Region = in.Region
	t.Tier = in.Tier
	t.StartDate = calendarDay(in.StartDate)
	t.EndDate = calendarDay(in.EndDate)
	t.PrizePool = in.PrizePool
	t.Description = in.Description
	t.RulesLink = in.RulesLink
}

func applyStageInput(st *models.Stage, in StageInput) {
	st.TournamentID = in.TournamentID
	st.StageType = in.StageType
	st.Variant = in.Variant
	st.Order = in.Order
	st.StartDate = calendarDay(in.StartDate)
	st.EndDate = calendarDay(in.EndDate)
	st.Tier = in.Tier
}

func validateTournament(t *models.Tournament) error {
	var errs validation.Errors
	if t.Name == "" {
		errs.Add(validation.ErrStructural, "name", "Name is required.")
	}
	if !t.Region.Valid() {
		errs.Add(validation.ErrStructural, "region", "Region is not supported.")
	}
	if !t.Tier.Valid() {
		errs.Add(validation.ErrStructural, "tier", "Tier must be SS, S, A, B, C or D.")
	}
	if t.StartDate.IsZero() {
		errs.Add(validation.ErrStructural, "start_date", "Start date is required.")
	}
	if t.EndDate.IsZero() {
		errs.Add(validation.ErrStructural, "end_date", "End date is required.")
	}
	if t.PrizePool != nil && *t.PrizePool < 0 {
		errs.Add(validation.ErrStructural, "prize_pool", "Prize pool cannot be negative.")
	}
	if !errs.Empty() {
		return errs.Err()
	}
	return validation.ValidateRange(t.StartDate, t.EndDate, "start_date", "end_date")
}

func validateStage(st *models.Stage, tournament *models.Tournament) error {
	var errs validation.Errors
	if !st.StageType.Valid() {
		errs.Add(validation.ErrStructural, "stage_type", "Stage type is not supported.")
	}
	if !st.Tier.Valid() {
		errs.Add(validation.ErrStructural, "tier", "Tier must be T1 to T6.")
	}
	if st.Order < 1 {
		errs.Add(validation.ErrStructural, "order", "Order must be at least 1.")
	}
	if st.StartDate.IsZero() {
		errs.Add(validation.ErrStructural, "start_date", "Start date is required.")
	}
	if st.EndDate.IsZero() {
		errs.Add(validation.ErrStructural, "end_date", "End date is required.")
	}
	if !errs.Empty() {
		return errs.Err()
	}
	if err := validation.ValidateRange(st.StartDate, st.EndDate, "start_date", "end_date"); err != nil {
		return err
	}
	return validation.ValidateNestedRange(st.StartDate, st.EndDate, tournament.StartDate, tournament.EndDate, "tournament")
}
