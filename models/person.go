package models

import "time"

// Player is referenced by stats, picks and memberships; it is never owned by them.
type Player struct {
	ID          int        `json:"id" db:"id"`
	IGN         string     `json:"ign" db:"ign"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Role        PlayerRole `json:"role" db:"role"`
	Nationality string     `json:"nationality,omitempty" db:"nationality"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Staff struct {
	ID          int       `json:"id" db:"id"`
	Handle      string    `json:"handle" db:"handle"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	PrimaryRole StaffRole `json:"primary_role" db:"primary_role"`
	Nationality string    `json:"nationality,omitempty" db:"nationality"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Hero struct {
	ID             int        `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Slug           string     `json:"slug" db:"slug"`
	PrimaryClass   HeroClass  `json:"primary_class" db:"primary_class"`
	SecondaryClass *HeroClass `json:"secondary_class,omitempty" db:"secondary_class"`
}
