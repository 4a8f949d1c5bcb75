package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/services"
	"github.com/go-chi/chi/v5"
)

type MembershipHandler struct {
	membershipService services.MembershipService
}

func NewMembershipHandler(ms services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: ms}
}

func getKindFromURL(r *http.Request) (models.PersonKind, error) {
	kind := models.PersonKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", fmt.Errorf("invalid membership kind %q, expected player or staff", kind)
	}
	return kind, nil
}

// Create handles POST /memberships/{kind}
func (h *MembershipHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, err := getKindFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.MembershipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.membershipService.CreateMembership(r.Context(), kind, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"membership": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update handles PUT /memberships/{kind}/{membershipID}
func (h *MembershipHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, err := getKindFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "membershipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.MembershipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.membershipService.UpdateMembership(r.Context(), kind, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"membership": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// End handles POST /memberships/{kind}/{membershipID}/end
func (h *MembershipHandler) End(w http.ResponseWriter, r *http.Request) {
	kind, err := getKindFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "membershipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		EndDate time.Time `json:"end_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.EndDate.IsZero() {
		badRequestResponse(w, r, errors.New("end_date is required"))
		return
	}

	m, err := h.membershipService.EndMembership(r.Context(), kind, id, input.EndDate)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"membership": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TeamMembers handles GET /teams/{teamID}/members/{kind}?date=YYYY-MM-DD.
// Without a date the roster is read for today (UTC).
func (h *MembershipHandler) TeamMembers(w http.ResponseWriter, r *http.Request) {
	kind, err := getKindFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	day, err := queryDate(r, "date", time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	members, err := h.membershipService.MembersOnDate(r.Context(), kind, teamID, day)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"memberships": members}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PersonHistory handles GET /people/{kind}/{personID}/memberships
func (h *MembershipHandler) PersonHistory(w http.ResponseWriter, r *http.Request) {
	kind, err := getKindFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	personID, err := getIDFromURL(r, "personID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.membershipService.PersonHistory(r.Context(), kind, personID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"memberships": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
