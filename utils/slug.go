package utils

import (
	"regexp"
	"strings"
)

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
)

// MaxSlugLength bounds the campaign path segment
const MaxSlugLength = 100

// NormalizeSlug maps a campaign name or a hand-typed slug to URL form.
// Input is lowercased and every run of other characters becomes a single hyphen.
// Example: "Hari Guru 2024!" -> "hari-guru-2024"
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSeparator.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}
	return s
}

// ValidSlug reports whether s is already in normalized form
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}
