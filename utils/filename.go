package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Random id lengths
const (
	// DownloadIDLength is the length of the id the server stores per download
	DownloadIDLength = 26
	// ShortIDLength is used in filenames generated without the server
	ShortIDLength = 5
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// RandomID returns n random base36 characters
func RandomID(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		sb.WriteByte(base36[idx.Int64()])
	}
	return sb.String()
}

// CleanNameForFilename lowercases name, drops everything that is not
// a-z or 0-9 and keeps at most 20 characters
func CleanNameForFilename(name string) string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
	if len(cleaned) > 20 {
		cleaned = cleaned[:20]
	}
	return cleaned
}

// DownloadFilename is the canonical name of a tracked download
// Example: hari-guru_k3j9x0q1m2n4b5v6c7z8l9p0a1.jpg
func DownloadFilename(slug, randomID string) string {
	return slug + "_" + randomID + ".jpg"
}

// PhotoFallbackFilename names a photo download when tracking failed
// Example: hari-guru_photo_a8k2m.jpg
func PhotoFallbackFilename(slug string) string {
	return slug + "_photo_" + RandomID(ShortIDLength) + ".jpg"
}

// TextFallbackFilename names a text card download when tracking failed
// Example: hari-guru_budisantoso_a8k2m.jpg
func TextFallbackFilename(slug, name string) string {
	return slug + "_" + CleanNameForFilename(name) + "_" + RandomID(ShortIDLength) + ".jpg"
}
