// Package slugs builds deterministic URL identifiers and makes them unique
// within an entity collection by appending -2, -3, ...
package slugs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

const (
	DefaultMaxLen = 255
	StageMaxLen   = 50

	// MaxAttempts bounds how often a caller re-allocates after losing an
	// insert race on the unique slug index.
	MaxAttempts = 5

	fallbackBase = "item"
)

// Lookup reports whether candidate is already used by an entity other than excludeID.
// It must query the live entity set inside the caller's transaction.
type Lookup func(ctx context.Context, candidate string, excludeID int) (bool, error)

// BuildBase slugifies every part, drops empty ones, joins them with "-" and
// truncates the result to maxLen.
func BuildBase(maxLen int, parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := slug.Make(strings.TrimSpace(p)); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return truncate(strings.Join(cleaned, "-"), maxLen)
}

// StageBase is tournament (slug or name), stage type, optional variant and
// "o{order}". The order keeps bases deterministic for repeated variants.
func StageBase(tournament, stageType, variant string, order int) string {
	return BuildBase(StageMaxLen, tournament, strings.ToLower(stageType), variant, "o"+strconv.Itoa(order))
}

// EnsureUnique returns base if it is unused, otherwise the first free
// base-N with N starting at 2. The base is shortened so the candidate never
// exceeds maxLen.
func EnsureUnique(ctx context.Context, base string, exists Lookup, excludeID int, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if base == "" {
		base = fallbackBase
	}
	base = truncate(base, maxLen)

	taken, err := exists(ctx, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("slug lookup for %q: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	for n := 2; ; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate := truncate(base, maxLen-len(suffix)) + suffix
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug lookup for %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
