package models

import (
	"math"
	"time"
)

type TeamGameStat struct {
	ID             int        `json:"id" db:"id"`
	GameID         int        `json:"game_id" db:"game_id"`
	TeamID         int        `json:"team_id" db:"team_id"`
	Side           Side       `json:"side" db:"side"`
	TowerDestroyed int        `json:"tower_destroyed" db:"tower_destroyed"`
	LordKills      int        `json:"lord_kills" db:"lord_kills"`
	TurtleKills    int        `json:"turtle_kills" db:"turtle_kills"`
	OrangeBuff     int        `json:"orange_buff" db:"orange_buff"`
	PurpleBuff     int        `json:"purple_buff" db:"purple_buff"`
	GameResult     GameResult `json:"game_result" db:"game_result"`
	Gold           int        `json:"gold" db:"gold"`
	TScore         int        `json:"t_score" db:"t_score"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	UserStamp
}

type PlayerGameStat struct {
	ID         int        `json:"id" db:"id"`
	GameID     int        `json:"game_id" db:"game_id"`
	TeamStatID int        `json:"team_stat_id" db:"team_stat_id"`
	PlayerID   int        `json:"player_id" db:"player_id"`
	TeamID     int        `json:"team_id" db:"team_id"`
	Role       PlayerRole `json:"role" db:"role"`
	IsMVP      bool       `json:"is_mvp" db:"is_mvp"`
	HeroID     int        `json:"hero_id" db:"hero_id"`
	Kills      int        `json:"k" db:"kills"`
	Deaths     int        `json:"d" db:"deaths"`
	Assists    int        `json:"a" db:"assists"`
	Gold       int        `json:"gold" db:"gold"`
	DmgDealt   int        `json:"dmg_dealt" db:"dmg_dealt"`
	DmgTaken   int        `json:"dmg_taken" db:"dmg_taken"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	UserStamp
}

// KDA is (kills + assists) / max(deaths, 1), rounded to two decimals.
func (p *PlayerGameStat) KDA() float64 {
	deaths := p.Deaths
	if deaths <= 0 {
		deaths = 1
	}
	return round2(float64(p.Kills+p.Assists) / float64(deaths))
}

// GPM is gold per minute. An unknown or zero duration counts as one minute.
func (p *PlayerGameStat) GPM(duration *time.Duration) float64 {
	return round2(float64(p.Gold) / minutes(duration))
}

// DPM is damage dealt per minute.
func (p *PlayerGameStat) DPM(duration *time.Duration) float64 {
	return round2(float64(p.DmgDealt) / minutes(duration))
}

func minutes(d *time.Duration) float64 {
	if d == nil || *d <= 0 {
		return 1
	}
	return d.Minutes()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DraftAction is a single ban or pick in a game's hero selection.
// TeamID always follows from Side and the game's side assignment.
type DraftAction struct {
	ID        int             `json:"id" db:"id"`
	GameID    int             `json:"game_id" db:"game_id"`
	Action    DraftActionType `json:"action" db:"action"`
	Side      Side            `json:"side" db:"side"`
	Order     int             `json:"order" db:"action_order"`
	HeroID    int             `json:"hero_id" db:"hero_id"`
	PlayerID  *int            `json:"player_id,omitempty" db:"player_id"`
	TeamID    int             `json:"team_id" db:"team_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	UserStamp
}
