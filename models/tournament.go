package models

import "time"

// TournamentStatus is derived from today's date and the date range. It is
// never set directly.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "UPCOMING"
	StatusOngoing   TournamentStatus = "ONGOING"
	StatusCompleted TournamentStatus = "COMPLETED"
)

// ComputeStatus returns UPCOMING before start, ONGOING within [start, end]
// and COMPLETED after end. All three are compared as calendar days, so the
// whole end date is still ONGOING. Missing dates count as UPCOMING.
func ComputeStatus(start, end, today time.Time) TournamentStatus {
	if start.IsZero() || end.IsZero() {
		return StatusUpcoming
	}
	start, end, today = calendarDay(start), calendarDay(end), calendarDay(today)
	switch {
	case today.Before(start):
		return StatusUpcoming
	case !today.After(end):
		return StatusOngoing
	default:
		return StatusCompleted
	}
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Slug        string           `json:"slug" db:"slug"`
	Region      Region           `json:"region" db:"region"`
	Tier        TournamentTier   `json:"tier" db:"tier"`
	StartDate   time.Time        `json:"start_date" db:"start_date"`
	EndDate     time.Time        `json:"end_date" db:"end_date"`
	Status      TournamentStatus `json:"status" db:"status"`
	PrizePool   *int             `json:"prize_pool,omitempty" db:"prize_pool"`
	Description string           `json:"description" db:"description"`
	RulesLink   string           `json:"rules_link" db:"rules_link"`
	LogoKey     *string          `json:"-" db:"logo_key"`
	LogoURL     *string          `json:"logo_url,omitempty" db:"-"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// TournamentTeam registers a team in a tournament.
type TournamentTeam struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	TeamID       int                `json:"team_id" db:"team_id"`
	Seed         *int               `json:"seed,omitempty" db:"seed"`
	Kind         TournamentTeamKind `json:"kind,omitempty" db:"kind"`
	Group        string             `json:"group,omitempty" db:"group_name"`
	Notes        string             `json:"notes,omitempty" db:"notes"`

	Team *Team `json:"team,omitempty" db:"-"`
}

type Stage struct {
	ID           int              `json:"id" db:"id"`
	TournamentID int              `json:"tournament_id" db:"tournament_id"`
	StageType    StageType        `json:"stage_type" db:"stage_type"`
	Slug         string           `json:"slug" db:"slug"`
	Variant      string           `json:"variant,omitempty" db:"variant"`
	Order        int              `json:"order" db:"stage_order"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	EndDate      time.Time        `json:"end_date" db:"end_date"`
	Tier         StageTier        `json:"tier" db:"tier"`
	Status       TournamentStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}
