package utils

import (
	"regexp"
	"strings"
	"testing"
)

func TestRandomID(t *testing.T) {
	id := RandomID(DownloadIDLength)
	if len(id) != DownloadIDLength {
		t.Fatalf("len = %d, want %d", len(id), DownloadIDLength)
	}
	if !regexp.MustCompile(`^[0-9a-z]+$`).MatchString(id) {
		t.Fatalf("id %q is not base36", id)
	}
	if RandomID(DownloadIDLength) == id {
		t.Fatal("two ids collided")
	}
}

func TestCleanNameForFilename(t *testing.T) {
	cases := map[string]string{
		"Budi Santoso":                "budisantoso",
		"  Siti_Nur-Aini! ":           "sitinuraini",
		"Muhammad Abdurrahman Wahid":  "muhammadabdurrahmanw",
		"Ánh":                         "nh",
		"":                            "",
	}
	for in, want := range cases {
		if got := CleanNameForFilename(in); got != want {
			t.Errorf("CleanNameForFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFallbackFilenames(t *testing.T) {
	photo := PhotoFallbackFilename("hari-guru")
	if !regexp.MustCompile(`^hari-guru_photo_[0-9a-z]{5}\.jpg$`).MatchString(photo) {
		t.Fatalf("photo fallback = %q", photo)
	}
	text := TextFallbackFilename("hari-guru", "Budi S.")
	if !strings.HasPrefix(text, "hari-guru_budis_") || !strings.HasSuffix(text, ".jpg") {
		t.Fatalf("text fallback = %q", text)
	}
	if got := DownloadFilename("x", "abc"); got != "x_abc.jpg" {
		t.Fatalf("DownloadFilename = %q", got)
	}
}

func TestSlug(t *testing.T) {
	if got := NormalizeSlug("  Hari Guru 2024! "); got != "hari-guru-2024" {
		t.Fatalf("NormalizeSlug = %q", got)
	}
	for _, s := range []string{"hari-guru", "a1", "milad-stiba-13"} {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Hari", "a--b", "-a", "a b", strings.Repeat("a", MaxSlugLength+1)} {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true", s)
		}
	}
}
