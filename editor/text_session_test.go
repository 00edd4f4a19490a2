package editor

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"twibbon-campaign/compositor"
	"twibbon-campaign/models"
)

type fakeRenderer struct {
	requests []compositor.TextCardRequest
}

func (f *fakeRenderer) RenderTextCard(ctx context.Context, req compositor.TextCardRequest) (*compositor.Result, error) {
	f.requests = append(f.requests, req)
	return &compositor.Result{Data: []byte("jpeg"), ContentType: "image/jpeg"}, nil
}

func TestTextSessionLimitsInput(t *testing.T) {
	s := NewTextSession(TextSessionConfig{})
	got := s.SetName(strings.Repeat("ä", 30))
	if n := len([]rune(got)); n != 25 {
		t.Fatalf("name has %d runes, want 25", n)
	}
	if got := s.SetAdditionalText("Angkatan 2024"); got != "Angkatan 2024" {
		t.Fatalf("additional text = %q", got)
	}
}

func TestTextSessionRequiresName(t *testing.T) {
	s := NewTextSession(TextSessionConfig{Renderer: &fakeRenderer{}, Saver: &fakeSaver{}})
	s.SetName("   ")
	if s.CanDownload() {
		t.Fatal("download enabled without a name")
	}
	if _, err := s.Download(context.Background()); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
}

func TestTextSessionFallbackFilename(t *testing.T) {
	renderer := &fakeRenderer{}
	saver := &fakeSaver{}
	s := NewTextSession(TextSessionConfig{
		Campaign: models.Campaign{ID: 3, Slug: "milad", TemplateURL: "/templates/3", Type: models.CampaignTypeText},
		Renderer: renderer,
		Tracker:  &fakeTracker{err: errors.New("offline")},
		Saver:    saver,
	})
	s.downloadControl.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	s.SetName("Budi Santoso")
	s.SetAdditionalText("Angkatan 2024")

	filename, err := s.Download(context.Background())
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !regexp.MustCompile(`^milad_budisantoso_[0-9a-z]{5}\.jpg$`).MatchString(filename) {
		t.Fatalf("filename = %q", filename)
	}
	if renderer.requests[0].Name != "Budi Santoso" || renderer.requests[0].AdditionalText != "Angkatan 2024" {
		t.Fatalf("rendered %+v", renderer.requests[0])
	}
	if _, err := s.Download(context.Background()); !errors.Is(err, ErrDebounced) {
		t.Fatalf("err = %v, want ErrDebounced", err)
	}
}
