package storage

import (
	"context"
	"io"
	"strings"
)

const tournamentLogoPrefix = "tournament/logos/"

// UploadResult is the stored key and its public URL.
type UploadResult struct {
	Key      string
	Location string
}

// FileUploader stores public assets such as tournament logos. Keys are
// bucket-relative paths built by the *Key helpers below.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// TournamentLogoKey is the object key for a tournament logo, for example
// "tournament/logos/mpl-ph-s13.png". ext includes the leading dot.
func TournamentLogoKey(slug, ext string) string {
	return tournamentLogoPrefix + slug + strings.ToLower(ext)
}

// IsTournamentLogoKey reports whether key lives under the tournament logo
// prefix. Only such keys are deleted when a logo is replaced.
func IsTournamentLogoKey(key string) bool {
	return strings.HasPrefix(key, tournamentLogoPrefix) && len(key) > len(tournamentLogoPrefix)
}
