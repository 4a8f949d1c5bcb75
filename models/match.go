package models

import "time"

// Series is a best-of-N matchup between two teams within a stage.
// Score and WinnerID are derived from the games and are never user input.
type Series struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	StageID       int       `json:"stage_id" db:"stage_id"`
	Team1ID       int       `json:"team1_id" db:"team1_id"`
	Team2ID       int       `json:"team2_id" db:"team2_id"`
	WinnerID      *int      `json:"winner_id,omitempty" db:"winner_id"`
	BestOf        int       `json:"best_of" db:"best_of"`
	ScheduledDate time.Time `json:"scheduled_date" db:"scheduled_date"`
	Score         string    `json:"score" db:"score"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	UserStamp

	Team1  *Team `json:"team1,omitempty" db:"-"`
	Team2  *Team `json:"team2,omitempty" db:"-"`
	Winner *Team `json:"winner,omitempty" db:"-"`
}

// HasTeam reports whether teamID is one of the two series teams.
func (s *Series) HasTeam(teamID int) bool {
	return teamID != 0 && (teamID == s.Team1ID || teamID == s.Team2ID)
}

type Game struct {
	ID         int            `json:"id" db:"id"`
	SeriesID   int            `json:"series_id" db:"series_id"`
	GameNo     int            `json:"game_no" db:"game_no"`
	BlueSideID int            `json:"blue_side_id" db:"blue_side_id"`
	RedSideID  int            `json:"red_side_id" db:"red_side_id"`
	WinnerID   *int           `json:"winner_id,omitempty" db:"winner_id"`
	ResultType GameResultType `json:"result_type" db:"result_type"`
	Duration   *time.Duration `json:"duration,omitempty" db:"duration_seconds"`
	VodLink    string         `json:"vod_link,omitempty" db:"vod_link"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
	UserStamp
}

// SideOf returns the side teamID plays on, or "" if the team is not in the game.
func (g *Game) SideOf(teamID int) Side {
	switch {
	case teamID != 0 && teamID == g.BlueSideID:
		return SideBlue
	case teamID != 0 && teamID == g.RedSideID:
		return SideRed
	}
	return ""
}

// TeamOn returns the team assigned to side, or 0 for an unknown side.
func (g *Game) TeamOn(side Side) int {
	switch side {
	case SideBlue:
		return g.BlueSideID
	case SideRed:
		return g.RedSideID
	}
	return 0
}

// Opponent returns the other team of the game.
func (g *Game) Opponent(teamID int) int {
	switch teamID {
	case g.BlueSideID:
		return g.RedSideID
	case g.RedSideID:
		return g.BlueSideID
	}
	return 0
}
