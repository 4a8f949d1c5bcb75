package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/esports-tracker/models"
	"github.com/Dosada05/esports-tracker/repositories"
	"github.com/Dosada05/esports-tracker/storage"
	"github.com/Dosada05/esports-tracker/validation"
)

// timeNow is the service clock; tests replace it.
var timeNow = time.Now

// today is the current calendar day in UTC.
func today() time.Time {
	return validation.Day(timeNow().UTC())
}

// calendarDay truncates a DATE column value, leaving zero values unset.
func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return validation.Day(t)
}

var notFoundErrors = []error{
	repositories.ErrTournamentNotFound,
	repositories.ErrStageNotFound,
	repositories.ErrSeriesNotFound,
	repositories.ErrGameNotFound,
	repositories.ErrTeamNotFound,
	repositories.ErrPlayerNotFound,
	repositories.ErrStaffNotFound,
	repositories.ErrHeroNotFound,
	repositories.ErrTeamStatNotFound,
	repositories.ErrPlayerStatNotFound,
	repositories.ErrDraftActionNotFound,
	repositories.ErrMembershipNotFound,
}

var conflictErrors = []error{
	repositories.ErrUniqueViolation,
	repositories.ErrTeamAlreadyRegistered,
	repositories.ErrStageOrderTaken,
	repositories.ErrStageDuplicate,
	repositories.ErrGameNoTaken,
	repositories.ErrTeamStatDuplicate,
	repositories.ErrPlayerStatExists,
	repositories.ErrDraftOrderTaken,
	repositories.ErrMembershipDuplicate,
}

// handleRepositoryError tags repository failures with ErrNotFound or
// ErrConflict so callers can classify them without knowing every
// repository sentinel. The original error stays in the chain.
func handleRepositoryError(err error, action string) error {
	if err == nil {
		return nil
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %s: %w", ErrNotFound, action, err)
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %s: %w", ErrConflict, action, err)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

func populateTournamentLogoURL(t *models.Tournament, uploader storage.FileUploader) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}

func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnsupportedLogoType, contentType)
}
