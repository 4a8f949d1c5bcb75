// Package scoring holds the pure derivations behind a game's winner and a
// series' score. Nothing here touches storage; callers compare the result
// with what is stored and write only on change.
package scoring

import (
	"fmt"
	"sort"

	"github.com/Dosada05/esports-tracker/models"
)

// WinsNeeded is the clinch threshold: Bo1 -> 1, Bo3 -> 2, Bo5 -> 3, Bo7 -> 4.
func WinsNeeded(bestOf int) int {
	if bestOf <= 0 {
		bestOf = models.DefaultBestOf
	}
	return bestOf/2 + 1
}

// ForcedWinner returns the winner dictated by resultType and whether the
// result type forces it at all. NORMAL games are never forced.
func ForcedWinner(resultType models.GameResultType, series *models.Series) (*int, bool) {
	switch resultType {
	case models.ResultForfeitTeam1:
		return intPtr(series.Team1ID), true
	case models.ResultForfeitTeam2:
		return intPtr(series.Team2ID), true
	case models.ResultDraw:
		return nil, true
	}
	return nil, false
}

// DeriveGameWinner decides the winner of a NORMAL game from its team stats.
// Exactly one VICTORY names the winner; otherwise exactly one DEFEAT names
// the loser and the opposite side wins. Anything else is undetermined.
func DeriveGameWinner(game *models.Game, stats []models.TeamGameStat) *int {
	var victories, defeats []models.TeamGameStat
	for _, st := range stats {
		if st.GameID != 0 && st.GameID != game.ID {
			continue
		}
		switch st.GameResult {
		case models.GameResultVictory:
			victories = append(victories, st)
		case models.GameResultDefeat:
			defeats = append(defeats, st)
		}
	}

	if len(victories) == 1 {
		if game.SideOf(victories[0].TeamID) == "" {
			return nil
		}
		return intPtr(victories[0].TeamID)
	}
	if len(defeats) == 1 {
		if other := game.Opponent(defeats[0].TeamID); other != 0 {
			return intPtr(other)
		}
	}
	return nil
}

// ResolveGameWinner applies the result type override first and falls back
// to stat derivation for NORMAL games.
func ResolveGameWinner(game *models.Game, series *models.Series, stats []models.TeamGameStat) *int {
	if forced, ok := ForcedWinner(game.ResultType, series); ok {
		return forced
	}
	return DeriveGameWinner(game, stats)
}

// Outcome is the derived state of a series.
type Outcome struct {
	Team1Wins int
	Team2Wins int
	WinnerID  *int
}

func (o Outcome) Score() string {
	return fmt.Sprintf("%d-%d", o.Team1Wins, o.Team2Wins)
}

// ComputeSeriesScoreAndWinner tallies game winners in game_no order and
// stops as soon as either team reaches the clinch threshold, so games
// recorded after a clinch never change the result.
func ComputeSeriesScoreAndWinner(series *models.Series, games []models.Game) Outcome {
	if series.Team1ID == 0 || series.Team2ID == 0 {
		return Outcome{}
	}

	ordered := make([]models.Game, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].GameNo < ordered[j].GameNo })

	needed := WinsNeeded(series.BestOf)
	var out Outcome
	for _, g := range ordered {
		if g.WinnerID != nil {
			switch *g.WinnerID {
			case series.Team1ID:
				out.Team1Wins++
			case series.Team2ID:
				out.Team2Wins++
			}
		}
		if out.Team1Wins >= needed || out.Team2Wins >= needed {
			break
		}
	}

	switch {
	case out.Team1Wins >= needed:
		out.WinnerID = intPtr(series.Team1ID)
	case out.Team2Wins >= needed:
		out.WinnerID = intPtr(series.Team2ID)
	}
	return out
}

// SameWinner compares two optional team ids.
func SameWinner(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtr(v int) *int {
	return &v
}
