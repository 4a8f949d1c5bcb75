// Package roster answers who was on which team on a given day and guards
// the rule that a person never holds two overlapping contracts.
package roster

import (
	"sort"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/validation"
)

// AssertNoOverlap fails with validation.ErrOverlap if [start, end] overlaps
// any membership of personID other than excludeID, on any team. The rule is
// per person, so it applies identically to players and staff.
func AssertNoOverlap(kind models.PersonKind, personID int, start time.Time, end *time.Time, existing []models.Membership, excludeID int) error {
	for _, m := range existing {
		if m.PersonID != personID || (excludeID != 0 && m.ID == excludeID) {
			continue
		}
		if validation.IntervalsOverlap(start, end, m.StartDate, m.EndDate) {
			return validation.New(validation.ErrOverlap, "start_date", overlapMessage(kind))
		}
	}
	return nil
}

func overlapMessage(kind models.PersonKind) string {
	if kind == models.PersonStaff {
		return "This staff member already has an active contract in that time range."
	}
	return "This player has overlapping team memberships."
}

// ActiveOn reports whether m covers day. An open membership covers every day
// from its start.
func ActiveOn(m models.Membership, day time.Time) bool {
	day = validation.Day(day)
	if day.Before(validation.Day(m.StartDate)) {
		return false
	}
	return m.EndDate == nil || !day.After(validation.Day(*m.EndDate))
}

// IsMemberOnDate reports whether personID was on teamID on day.
func IsMemberOnDate(personID, teamID int, day time.Time, memberships []models.Membership) bool {
	for _, m := range memberships {
		if m.PersonID == personID && m.TeamID == teamID && ActiveOn(m, day) {
			return true
		}
	}
	return false
}

// TeamsOnDate returns the teams personID was on at day, in ascending id order.
// With the overlap rule enforced this holds at most one team.
func TeamsOnDate(personID int, day time.Time, memberships []models.Membership) []int {
	var teams []int
	seen := make(map[int]bool)
	for _, m := range memberships {
		if m.PersonID == personID && ActiveOn(m, day) && !seen[m.TeamID] {
			seen[m.TeamID] = true
			teams = append(teams, m.TeamID)
		}
	}
	sort.Ints(teams)
	return teams
}

// MembersOnDate filters memberships of teamID down to those active at day.
func MembersOnDate(teamID int, day time.Time, memberships []models.Membership) []models.Membership {
	out := make([]models.Membership, 0, len(memberships))
	for _, m := range memberships {
		if m.TeamID == teamID && ActiveOn(m, day) {
			out = append(out, m)
		}
	}
	return out
}
