package handlers

import (
	"net/http"

	"github.com/Dosada05/esports-tracker/services"
)

type TeamHandler struct {
	queryService services.QueryService
}

func NewTeamHandler(qs services.QueryService) *TeamHandler {
	return &TeamHandler{queryService: qs}
}

// RecentSeries handles GET /teams/{teamID}/series?limit=
func (h *TeamHandler) RecentSeries(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.queryService.GetTeamRecentSeries(r.Context(), teamID, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
