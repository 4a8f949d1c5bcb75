package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/roster"
	"github.com/Dosada05/esports-tracker/validation"
)

type MembershipInput struct {
	PersonID   int        `json:"person_id"`
	TeamID     int        `json:"team_id"`
	RoleAtTeam string     `json:"role_at_team"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	IsStarter  bool       `json:"is_starter"`
}

// MembershipService maintains the player and staff contract ledgers. All
// writes for one person are serialized on the person's row lock.
type MembershipService interface {
	CreateMembership(ctx context.Context, kind models.PersonKind, in MembershipInput) (*models.Membership, error)
	UpdateMembership(ctx context.Context, kind models.PersonKind, id int, in MembershipInput) (*models.Membership, error)
	EndMembership(ctx context.Context, kind models.PersonKind, id int, endDate time.Time) (*models.Membership, error)
	MembersOnDate(ctx context.Context, kind models.PersonKind, teamID int, day time.Time) ([]models.Membership, error)
	PersonHistory(ctx context.Context, kind models.PersonKind, personID int) ([]models.Membership, error)
}

type membershipService struct {
	tx             Transactor
	personRepo     repositories.PersonRepository
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	logger         *slog.Logger
}

func NewMembershipService(
	tx Transactor,
	personRepo repositories.PersonRepository,
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	logger *slog.Logger,
) MembershipService {
	return &membershipService{
		tx:             tx,
		personRepo:     personRepo,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

func (s *membershipService) CreateMembership(ctx context.Context, kind models.PersonKind, in MembershipInput) (*models.Membership, error) {
	m := &models.Membership{
		Kind:       kind,
		PersonID:   in.PersonID,
		TeamID:     in.TeamID,
		RoleAtTeam: in.RoleAtTeam,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		IsStarter:  in.IsStarter,
	}
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "membership created",
		slog.String("kind", string(kind)),
		slog.Int("membership_id", m.ID),
		slog.Int("person_id", m.PersonID),
		slog.Int("team_id", m.TeamID),
	)
	return m, nil
}

func (s *membershipService) UpdateMembership(ctx context.Context, kind models.PersonKind, id int, in MembershipInput) (*models.Membership, error) {
	m := &models.Membership{
		ID:         id,
		Kind:       kind,
		PersonID:   in.PersonID,
		TeamID:     in.TeamID,
		RoleAtTeam: in.RoleAtTeam,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		IsStarter:  in.IsStarter,
	}
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "membership updated", slog.String("kind", string(kind)), slog.Int("membership_id", id))
	return m, nil
}

// EndMembership closes an open or later-ending contract at endDate.
func (s *membershipService) EndMembership(ctx context.Context, kind models.PersonKind, id int, endDate time.Time) (*models.Membership, error) {
	var current *models.Membership
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		current, err = s.membershipRepo.GetByID(ctx, exec, kind, id)
		return handleRepositoryError(err, "load membership")
	})
	if err != nil {
		return nil, err
	}

	in := MembershipInput{
		PersonID:   current.PersonID,
		TeamID:     current.TeamID,
		RoleAtTeam: current.RoleAtTeam,
		StartDate:  current.StartDate,
		EndDate:    &endDate,
		IsStarter:  current.IsStarter,
	}
	return s.UpdateMembership(ctx, kind, id, in)
}

func (s *membershipService) MembersOnDate(ctx context.Context, kind models.PersonKind, teamID int, day time.Time) ([]models.Membership, error) {
	var members []models.Membership
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		all, err := s.membershipRepo.ListByTeam(ctx, exec, kind, teamID)
		if err != nil {
			return handleRepositoryError(err, "list team memberships")
		}
		members = roster.MembersOnDate(teamID, day, all)
		return nil
	})
	return members, err
}

func (s *membershipService) PersonHistory(ctx context.Context, kind models.PersonKind, personID int) ([]models.Membership, error) {
	var history []models.Membership
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		history, err = s.membershipRepo.ListByPerson(ctx, exec, kind, personID)
		return handleRepositoryError(err, "list person memberships")
	})
	return history, err
}

// save validates and persists m under the person's lock. A zero ID
// creates, anything else updates.
func (s *membershipService) save(ctx context.Context, m *models.Membership) error {
	m.StartDate = calendarDay(m.StartDate)
	if m.EndDate != nil {
		end := calendarDay(*m.EndDate)
		m.EndDate = &end
	}
	if err := validateMembershipFields(m); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.personRepo.Lock(ctx, exec, m.Kind, m.PersonID); err != nil {
			return handleRepositoryError(err, "lock person")
		}
		if _, err := s.teamRepo.GetByID(ctx, exec, m.TeamID); err != nil {
			return handleRepositoryError(err, "load team")
		}
		if m.ID != 0 {
			current, err := s.membershipRepo.GetByID(ctx, exec, m.Kind, m.ID)
			if err != nil {
				return handleRepositoryError(err, "load membership")
			}
			if current.PersonID != m.PersonID {
				return validation.New(validation.ErrStructural, "person", "A membership cannot be moved to another person.")
			}
		}

		existing, err := s.membershipRepo.ListByPerson(ctx, exec, m.Kind, m.PersonID)
		if err != nil {
			return handleRepositoryError(err, "list memberships")
		}
		if err := roster.AssertNoOverlap(m.Kind, m.PersonID, m.StartDate, m.EndDate, existing, m.ID); err != nil {
			return err
		}

		if m.ID == 0 {
			err = s.membershipRepo.Create(ctx, exec, m)
		} else {
			err = s.membershipRepo.Update(ctx, exec, m)
		}
		return handleRepositoryError(err, "save membership")
	})
}

func validateMembershipFields(m *models.Membership) error {
	var errs validation.Errors

	if !m.Kind.Valid() {
		errs.Add(validation.ErrStructural, "kind", "Membership kind must be player or staff.")
	}
	if m.PersonID == 0 {
		errs.Add(validation.ErrStructural, "person", "Person is required.")
	}
	if m.TeamID == 0 {
		errs.Add(validation.ErrStructural, "team", "Team is required.")
	}
	if m.StartDate.IsZero() {
		errs.Add(validation.ErrStructural, "start_date", "Start date is required.")
	}
	if m.RoleAtTeam != "" {
		switch m.Kind {
		case models.PersonPlayer:
			if !models.PlayerRole(m.RoleAtTeam).Valid() {
				errs.Add(validation.ErrStructural, "role_at_team", "Role must be GOLD, MID, JUNGLE, EXP or ROAM.")
			}
		case models.PersonStaff:
			if !models.StaffRole(m.RoleAtTeam).Valid() {
				errs.Add(validation.ErrStructural, "role_at_team", "Role must be HEAD_COACH, ASST_COACH, ANALYST or MANAGER.")
			}
		}
	}
	if !errs.Empty() {
		return errs.Err()
	}

	var end time.Time
	if m.EndDate != nil {
		end = *m.EndDate
	}
	return validation.ValidateRange(m.StartDate, end, "start_date", "end_date")
}
