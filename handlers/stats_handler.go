package handlers

import (
	"net/http"

	"github.com/Dosada05/esports-tracker/services"
)

// StatsHandler serves per-game statistics and draft writes. The game id
// always comes from the path.
type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(ss services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: ss}
}

// UpsertTeamStat handles PUT /games/{gameID}/team-stats
func (h *StatsHandler) UpsertTeamStat(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input services.TeamGameStatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameID = gameID
	input.ActorID = userID

	stat, err := h.statsService.UpsertTeamGameStat(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team_stat": stat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeamStat handles DELETE /team-stats/{statID}
func (h *StatsHandler) DeleteTeamStat(w http.ResponseWriter, r *http.Request) {
	statID, err := getIDFromURL(r, "statID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.statsService.DeleteTeamGameStat(r.Context(), statID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpsertPlayerStat handles PUT /games/{gameID}/player-stats
func (h *StatsHandler) UpsertPlayerStat(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input services.PlayerGameStatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameID = gameID
	input.ActorID = userID

	stat, err := h.statsService.UpsertPlayerGameStat(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player_stat": stat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpsertDraftAction handles PUT /games/{gameID}/draft
func (h *StatsHandler) UpsertDraftAction(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input services.DraftActionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameID = gameID
	input.ActorID = userID

	action, err := h.statsService.UpsertDraftAction(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft_action": action}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
