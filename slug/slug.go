// Package slug turns display names into URL-safe identifiers that are unique
// within an entity collection.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxAttempts bounds how many candidates Generate probes before giving up.
const MaxAttempts = 10000

// Placeholder is used as the base when a name has no slug-safe characters.
const Placeholder = "item"

var (
	// ErrStorageUnavailable is returned when the existence check fails.
	ErrStorageUnavailable = errors.New("slug: existence check failed")

	// ErrExhausted is returned when every candidate up to MaxAttempts collides.
	ErrExhausted = errors.New("slug: no free candidate found")
)

var (
	separators = regexp.MustCompile(`[\s\p{Z}_]+`)
	disallowed = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// ExistsFunc reports whether candidate is already taken by an entity other
// than excludeID.
type ExistsFunc func(ctx context.Context, candidate, excludeID string) (bool, error)

// Make returns the base slug for name. It may be empty.
func Make(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = separators.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Generate returns the first of base, base-1, base-2, ... that exists does
// not report as taken. An empty base falls back to Placeholder.
func Generate(ctx context.Context, name string, exists ExistsFunc, excludeID string) (string, error) {
	base := Make(name)
	if base == "" {
		base = Placeholder
	}

	candidate := base
	for n := 1; n <= MaxAttempts; n++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}

	return "", fmt.Errorf("%w: %q after %d attempts", ErrExhausted, base, MaxAttempts)
}
