package validation

import (
	"fmt"
	"strings"
	"time"
)

// Day truncates t to a calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateRange fails with ErrRange tagged on fieldEnd when end is before
// start. Zero values are not checked.
func ValidateRange(start, end time.Time, fieldStart, fieldEnd string) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start) {
		return New(ErrRange, fieldEnd, fmt.Sprintf("%s must be after %s.", label(fieldEnd), strings.ReplaceAll(fieldStart, "_", " ")))
	}
	return nil
}

// ValidateNestedRange fails with ErrRange when the child range leaves the
// parent range, tagging start_date and/or end_date with the violated bound.
func ValidateNestedRange(childStart, childEnd, parentStart, parentEnd time.Time, parentLabel string) error {
	var errs Errors
	if !childStart.IsZero() && !parentStart.IsZero() && childStart.Before(parentStart) {
		errs.Add(ErrRange, "start_date", fmt.Sprintf("Start date must be on or after %s start date.", parentLabel))
	}
	if !childEnd.IsZero() && !parentEnd.IsZero() && childEnd.After(parentEnd) {
		errs.Add(ErrRange, "end_date", fmt.Sprintf("End date must be on or before %s end date.", parentLabel))
	}
	return errs.Err()
}

// IntervalsOverlap treats a nil end as open (positive infinity) and reports
// whether [aStart, aEnd] and [bStart, bEnd] share at least one day. Bounds
// are compared as calendar days.
func IntervalsOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	aStartsBeforeBEnds := bEnd == nil || !Day(aStart).After(Day(*bEnd))
	bStartsBeforeAEnds := aEnd == nil || !Day(bStart).After(Day(*aEnd))
	return aStartsBeforeBEnds && bStartsBeforeAEnds
}

// ValidateSameTournament checks that a stage and a series point to the same tournament.
func ValidateSameTournament(stageTournamentID, seriesTournamentID int) error {
	if stageTournamentID != 0 && seriesTournamentID != 0 && stageTournamentID != seriesTournamentID {
		return New(ErrStructural, "stage", "Stage tournament must match series tournament.")
	}
	return nil
}

func label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
