package services

import (
	"fmt"
	"net/url"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/scoring"
	"github.com/Dosada05/esports-tracker/validation"
)

// validateSeries checks a new series against its stage and the tournament
// roster. Structural failures are reported before registration failures.
func validateSeries(s *models.Series, stage *models.Stage, team1Registered, team2Registered bool) error {
	var errs validation.Errors

	if s.TournamentID == 0 {
		errs.Add(validation.ErrStructural, "tournament", "Tournament must be set for the series.")
	}
	if s.StageID == 0 || stage == nil {
		errs.Add(validation.ErrStructural, "stage", "Stage must be set for the series.")
	} else {
		errs.Merge(validation.ValidateSameTournament(stage.TournamentID, s.TournamentID))
	}
	if s.Team1ID == 0 {
		errs.Add(validation.ErrStructural, "team1", "Team 1 must be set for the series.")
	}
	if s.Team2ID == 0 {
		errs.Add(validation.ErrStructural, "team2", "Team 2 must be set for the series.")
	}
	if s.Team1ID != 0 && s.Team1ID == s.Team2ID {
		errs.Add(validation.ErrStructural, "team2", "Team 2 must be different from Team 1.")
	}
	if !models.ValidBestOf(s.BestOf) {
		errs.Add(validation.ErrStructural, "best_of", "Best of must be 1, 3, 5 or 7.")
	}
	if s.ScheduledDate.IsZero() {
		errs.Add(validation.ErrStructural, "scheduled_date", "Scheduled date is required.")
	}

	if s.Team1ID != 0 && !team1Registered {
		errs.Add(validation.ErrNotRegistered, "team1", "Team 1 is not registered in this tournament.")
	}
	if s.Team2ID != 0 && !team2Registered {
		errs.Add(validation.ErrNotRegistered, "team2", "Team 2 is not registered in this tournament.")
	}
	return errs.Err()
}

// validateGame checks side assignment, winner, number and result type of
// a game against its series.
func validateGame(g *models.Game, s *models.Series) error {
	var errs validation.Errors

	if !s.HasTeam(g.BlueSideID) {
		errs.Add(validation.ErrStructural, "blue_side", "Blue side team must be one of the teams in the series.")
	}
	if !s.HasTeam(g.RedSideID) {
		errs.Add(validation.ErrStructural, "red_side", "Red side team must be one of the teams in the series.")
	}
	if g.BlueSideID != 0 && g.BlueSideID == g.RedSideID {
		errs.Add(validation.ErrStructural, "red_side", "Red Side team must be different from Blue Side team.")
	}
	if g.WinnerID != nil && g.SideOf(*g.WinnerID) == "" {
		errs.Add(validation.ErrStructural, "winner", "Winner must be either the blue side or red side team.")
	}
	if g.GameNo < 1 || g.GameNo > s.BestOf {
		errs.Add(validation.ErrStructural, "game_no", fmt.Sprintf("Game number must be between 1 and %d for this series.", s.BestOf))
	}
	if !g.ResultType.Valid() {
		errs.Add(validation.ErrStructural, "result_type", "Result type must be NORMAL, FORFEIT_TEAM1, FORFEIT_TEAM2 or DRAW.")
	}
	if g.Duration != nil && *g.Duration < 0 {
		errs.Add(validation.ErrStructural, "duration", "Duration cannot be negative.")
	}
	if g.VodLink != "" {
		if u, err := url.ParseRequestURI(g.VodLink); err != nil || u.Host == "" {
			errs.Add(validation.ErrStructural, "vod_link", "VOD link must be a valid URL.")
		}
	}
	return errs.Err()
}

// resolveRecordedWinner decides the winner stored by an explicit game
// result. Forfeits and draws dictate the winner. For NORMAL games decisive
// stat claims win, and an explicit winner that contradicts them is
// rejected; without claims the explicit winner stands.
func resolveRecordedWinner(g *models.Game, s *models.Series, stats []models.TeamGameStat) (*int, error) {
	if forced, ok := scoring.ForcedWinner(g.ResultType, s); ok {
		return forced, nil
	}

	derived := scoring.DeriveGameWinner(g, stats)
	if derived == nil {
		return g.WinnerID, nil
	}
	if g.WinnerID != nil && *g.WinnerID != *derived {
		return nil, validation.New(validation.ErrStructural, "winner", "Winner contradicts the results entered in the team stats.")
	}
	return derived, nil
}
