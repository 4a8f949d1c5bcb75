package models

import "time"

// PersonKind selects which membership ledger a person belongs to.
type PersonKind string

const (
	PersonPlayer PersonKind = "player"
	PersonStaff  PersonKind = "staff"
)

func (k PersonKind) Valid() bool {
	return k == PersonPlayer || k == PersonStaff
}

// Membership is a time-bounded affiliation of a player or staff member with
// a team. A nil EndDate means the contract is still open.
type Membership struct {
	ID         int        `json:"id" db:"id"`
	Kind       PersonKind `json:"kind" db:"-"`
	PersonID   int        `json:"person_id" db:"person_id"`
	TeamID     int        `json:"team_id" db:"team_id"`
	RoleAtTeam string     `json:"role_at_team" db:"role_at_team"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsStarter  bool       `json:"is_starter" db:"is_starter"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
