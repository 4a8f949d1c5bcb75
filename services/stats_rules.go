package services

import (
	"fmt"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/roster"
	"github.com/Dosada05/esports-tracker/validation"
)

// softFillTeamStat fills side and game_result from the game when they
// were left unset. Values the caller provided are never overwritten.
func softFillTeamStat(stat *models.TeamGameStat, game *models.Game) {
	if stat.Side == "" {
		stat.Side = game.SideOf(stat.TeamID)
	}
	if stat.GameResult == models.GameResultNone && game.WinnerID != nil && game.SideOf(stat.TeamID) != "" {
		if *game.WinnerID == stat.TeamID {
			stat.GameResult = models.GameResultVictory
		} else {
			stat.GameResult = models.GameResultDefeat
		}
	}
}

// validateTeamStat checks a team stat line against its game and the other
// stat lines of that game.
func validateTeamStat(stat *models.TeamGameStat, game *models.Game, siblings []*models.TeamGameStat) error {
	var errs validation.Errors

	expected := game.SideOf(stat.TeamID)
	if expected == "" {
		errs.Add(validation.ErrStructural, "team", "Team must be one of the teams in the game.")
	} else if stat.Side != expected {
		errs.Add(validation.ErrStructural, "side", fmt.Sprintf("Side must be '%s' for the selected team.", expected))
	}
	if !stat.GameResult.Valid() {
		errs.Add(validation.ErrStructural, "game_result", "Game result must be VICTORY, DEFEAT or empty.")
	} else if stat.GameResult != models.GameResultNone {
		for _, other := range siblings {
			if other.ID == stat.ID || other.TeamID == stat.TeamID {
				continue
			}
			if other.GameResult == stat.GameResult {
				errs.Add(validation.ErrStructural, "game_result", "Another team already has this game result for the same game.")
				break
			}
		}
	}

	addNegativeCounters(&errs, map[string]int{
		"tower_destroyed": stat.TowerDestroyed,
		"lord_kills":      stat.LordKills,
		"turtle_kills":    stat.TurtleKills,
		"orange_buff":     stat.OrangeBuff,
		"purple_buff":     stat.PurpleBuff,
		"gold":            stat.Gold,
		"t_score":         stat.TScore,
	})
	return errs.Err()
}

// validatePlayerStat checks a player stat line against its team stat line,
// the game and the player's memberships on the series' scheduled day.
func validatePlayerStat(stat *models.PlayerGameStat, teamStat *models.TeamGameStat, game *models.Game, matchDay time.Time, memberships []models.Membership) error {
	var errs validation.Errors

	if teamStat == nil || teamStat.GameID != stat.GameID {
		errs.Add(validation.ErrStructural, "team_stat", "TeamGameStat must belong to the same game as PlayerGameStat.")
		return errs.Err()
	}
	if stat.TeamID != teamStat.TeamID {
		errs.Add(validation.ErrStructural, "team", "Team must match the team in TeamGameStat.")
	}
	if game.SideOf(stat.TeamID) == "" {
		errs.Add(validation.ErrStructural, "team", "Team must be one of the teams in the game.")
	}
	if !stat.Role.Valid() {
		errs.Add(validation.ErrStructural, "role", "Role must be GOLD, MID, JUNGLE, EXP or ROAM.")
	}
	if stat.HeroID == 0 {
		errs.Add(validation.ErrStructural, "hero", "Hero is required.")
	}
	addNegativeCounters(&errs, map[string]int{
		"k":         stat.Kills,
		"d":         stat.Deaths,
		"a":         stat.Assists,
		"gold":      stat.Gold,
		"dmg_dealt": stat.DmgDealt,
		"dmg_taken": stat.DmgTaken,
	})

	if stat.PlayerID == 0 {
		errs.Add(validation.ErrStructural, "player", "Player is required.")
	} else if !roster.IsMemberOnDate(stat.PlayerID, stat.TeamID, matchDay, memberships) {
		errs.Add(validation.ErrNotRegistered, "player", "Player must be a member of the team on the game day.")
	}
	return errs.Err()
}

// validateDraftAction checks a ban or pick. The action's team must already
// be derived from its side.
func validateDraftAction(action *models.DraftAction, game *models.Game, matchDay time.Time, memberships []models.Membership) error {
	var errs validation.Errors

	if !action.Action.Valid() {
		errs.Add(validation.ErrStructural, "action", "Action must be BAN or PICK.")
	}
	if !action.Side.Valid() {
		errs.Add(validation.ErrStructural, "side", "Side must be BLUE or RED.")
	}
	if action.Order < 1 {
		errs.Add(validation.ErrStructural, "order", "Order must be at least 1.")
	}
	if action.TeamID == 0 || game.SideOf(action.TeamID) == "" {
		errs.Add(validation.ErrStructural, "team", "Team for the draft action must be one of the teams in the series.")
	}

	switch action.Action {
	case models.DraftBan:
		if action.PlayerID != nil {
			errs.Add(validation.ErrStructural, "player", "Player must be null for BAN actions.")
		}
		if action.HeroID == 0 {
			errs.Add(validation.ErrStructural, "hero", "Hero must be set for BAN actions.")
		}
	case models.DraftPick:
		if action.HeroID == 0 {
			errs.Add(validation.ErrStructural, "hero", "Hero must be set for PICK actions.")
		}
		if action.PlayerID == nil {
			errs.Add(validation.ErrStructural, "player", "Player must be set for PICK actions.")
		} else if action.TeamID != 0 && !roster.IsMemberOnDate(*action.PlayerID, action.TeamID, matchDay, memberships) {
			errs.Add(validation.ErrNotRegistered, "player", "Player must be a member of the side's team on the game day.")
		}
	}
	return errs.Err()
}

func addNegativeCounters(errs *validation.Errors, counters map[string]int) {
	for field, v := range counters {
		if v < 0 {
			errs.Add(validation.ErrStructural, field, "Value cannot be negative.")
		}
	}
}
