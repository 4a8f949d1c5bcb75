package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dosada05/esports-tracker/services"
)

const maxLogoSize = 5 << 20

type TournamentHandler struct {
	tournamentService services.TournamentService
	queryService      services.QueryService
}

func NewTournamentHandler(ts services.TournamentService, qs services.QueryService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		queryService:      qs,
	}
}

// CreateHandler handles POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StructureHandler handles GET /tournaments/{tournamentID}/structure
func (h *TournamentHandler) StructureHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	structure, err := h.queryService.GetTournamentStructure(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"structure": structure}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PUT /tournaments/{tournamentID}
func (h *TournamentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterTeamHandler handles POST /tournaments/{tournamentID}/teams
func (h *TournamentHandler) RegisterTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = id

	registration, err := h.tournamentService.RegisterTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": registration}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateStageHandler handles POST /tournaments/{tournamentID}/stages
func (h *TournamentHandler) CreateStageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = id

	stage, err := h.tournamentService.CreateStage(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStageHandler handles PUT /stages/{stageID}
func (h *TournamentHandler) UpdateStageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage, err := h.tournamentService.UpdateStage(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StageScheduleHandler handles GET /stages/{stageID}/schedule
func (h *TournamentHandler) StageScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.queryService.GetStageSchedule(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadLogoHandler handles PUT /tournaments/{tournamentID}/logo as a
// multipart form with a "logo" file.
func (h *TournamentHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSize)
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("logo must be a multipart form no larger than %d bytes", maxLogoSize))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get logo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for logo"))
		return
	}

	tournament, err := h.tournamentService.UpdateLogo(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RefreshStatusesHandler handles POST /admin/status-refresh, the manual
// trigger for the periodic status sweep.
func (h *TournamentHandler) RefreshStatusesHandler(w http.ResponseWriter, r *http.Request) {
	changed, err := h.tournamentService.RefreshStatuses(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "manual status refresh", slog.Int("changed", changed))
	if err := writeJSON(w, http.StatusOK, jsonResponse{"changed": changed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
