package editor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"twibbon-campaign/compositor"
	"twibbon-campaign/models"
	"twibbon-campaign/utils"
)

// TextRenderer renders a text campaign card
type TextRenderer interface {
	RenderTextCard(ctx context.Context, req compositor.TextCardRequest) (*compositor.Result, error)
}

// TextSessionConfig wires a text campaign session
type TextSessionConfig struct {
	Campaign models.Campaign
	Debounce time.Duration

	Renderer TextRenderer
	Tracker  Tracker
	Saver    Saver
}

// TextSession holds the name and additional text typed for a text campaign
type TextSession struct {
	mu          sync.Mutex
	cfg         TextSessionConfig
	name        string
	extra       string
	downloading bool

	downloadControl *Debouncer
}

// NewTextSession creates an empty text session
func NewTextSession(cfg TextSessionConfig) *TextSession {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounceInterval
	}
	return &TextSession{cfg: cfg, downloadControl: NewDebouncer(cfg.Debounce)}
}

// SetName stores the name, cut to the card's character limit.
// It returns the stored value so the input can be kept in sync.
func (s *TextSession) SetName(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = limitRunes(name)
	return s.name
}

// SetAdditionalText stores the second caption line
func (s *TextSession) SetAdditionalText(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = limitRunes(text)
	return s.extra
}

// Name returns the current name
func (s *TextSession) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// CanDownload reports whether a name has been entered
func (s *TextSession) CanDownload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.downloading && strings.TrimSpace(s.name) != ""
}

// Download tracks and renders the card and hands it to the saver
func (s *TextSession) Download(ctx context.Context) (string, error) {
	s.mu.Lock()
	name := strings.TrimSpace(s.name)
	extra := strings.TrimSpace(s.extra)
	if name == "" {
		s.mu.Unlock()
		return "", ErrNameRequired
	}
	if s.downloading {
		s.mu.Unlock()
		return "", ErrDownloadDisabled
	}
	if !s.downloadControl.Allow() {
		s.mu.Unlock()
		return "", ErrDebounced
	}
	s.downloading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.downloading = false
		s.mu.Unlock()
	}()

	campaign := s.cfg.Campaign
	filename := trackOrFallback(ctx, s.cfg.Tracker, models.TrackDownloadRequest{
		CampaignID:     campaign.ID,
		UserName:       name,
		AdditionalText: extra,
		CampaignSlug:   campaign.Slug,
	}, func() string { return utils.TextFallbackFilename(campaign.Slug, name) })

	res, err := s.cfg.Renderer.RenderTextCard(ctx, compositor.TextCardRequest{
		TemplateURL:    campaign.TemplateURL,
		Name:           name,
		AdditionalText: extra,
	})
	if err != nil {
		log.Printf("❌ Error rendering text card for %s: %v", campaign.Slug, err)
		return "", fmt.Errorf("failed to render text card: %w", err)
	}
	if err := s.cfg.Saver.Save(ctx, filename, res.Data); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	log.Printf("🎉 Downloaded %s", filename)
	return filename, nil
}

func limitRunes(s string) string {
	r := []rune(s)
	if len(r) > compositor.MaxTextCardRunes {
		r = r[:compositor.MaxTextCardRunes]
	}
	return string(r)
}
