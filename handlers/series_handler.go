package handlers

import (
	"net/http"

	"github.com/Dosada05/esports-tracker/services"
)

type SeriesHandler struct {
	seriesService services.SeriesService
	queryService  services.QueryService
}

func NewSeriesHandler(ss services.SeriesService, qs services.QueryService) *SeriesHandler {
	return &SeriesHandler{
		seriesService: ss,
		queryService:  qs,
	}
}

type gameRequest struct {
	services.GameInput
	DurationSeconds *int `json:"duration_seconds"`
}

type gameResultRequest struct {
	services.RecordGameResultInput
	DurationSeconds *int `json:"duration_seconds"`
}

// CreateSeries handles POST /series
func (h *SeriesHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input services.CreateSeriesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.ActorID = userID

	series, err := h.seriesService.CreateSeries(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSeries handles GET /series/{seriesID}
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.queryService.GetSeriesDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListUpcoming handles GET /series/upcoming?limit=
func (h *SeriesHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.queryService.GetUpcomingSeries(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeSeries handles POST /series/{seriesID}/recompute
func (h *SeriesHandler) RecomputeSeries(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.RecomputeSeries(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateGame handles POST /series/{seriesID}/games
func (h *SeriesHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	seriesID, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req gameRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input := req.GameInput
	input.SeriesID = seriesID
	input.Duration = secondsToDuration(req.DurationSeconds)
	input.ActorID = userID

	game, err := h.seriesService.CreateGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordGameResult handles PUT /games/{gameID}
func (h *SeriesHandler) RecordGameResult(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req gameResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input := req.RecordGameResultInput
	input.GameID = gameID
	input.Duration = secondsToDuration(req.DurationSeconds)
	input.ActorID = userID

	game, err := h.seriesService.RecordGameResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteGame handles DELETE /games/{gameID}
func (h *SeriesHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.seriesService.DeleteGame(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
