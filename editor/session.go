package editor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"twibbon-campaign/compositor"
	"twibbon-campaign/models"
	"twibbon-campaign/utils"
)

// DefaultMaxUploadBytes is the largest photo accepted for editing
const DefaultMaxUploadBytes int64 = 5 << 20

// SessionState is the editor lifecycle stage
type SessionState int

const (
	StateNoPhoto SessionState = iota
	StateEditing
	StateStable
	StateDownloading
)

func (s SessionState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateStable:
		return "stable"
	case StateDownloading:
		return "downloading"
	default:
		return "no_photo"
	}
}

// UploadedFile is a photo picked by the user
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Compositor renders the final image
type Compositor interface {
	Compose(ctx context.Context, req compositor.Request) (*compositor.Result, error)
}

// Tracker registers a download and returns its canonical filename
type Tracker interface {
	TrackDownload(ctx context.Context, req models.TrackDownloadRequest) (*models.TrackDownloadResponse, error)
}

// Saver hands the finished image to the user
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) error
}

// SessionConfig wires a session to its campaign and collaborators
type SessionConfig struct {
	Campaign       models.Campaign
	MaxUploadBytes int64
	Debounce       time.Duration

	Compositor Compositor
	Tracker    Tracker
	Saver      Saver
}

// DownloadRequest carries the user's label for tracking
type DownloadRequest struct {
	UserLabel string
	Note      string
}

// Session coordinates upload, gesture editing and download for a photo campaign.
// Methods are safe to call from event callbacks and a download goroutine at once.
type Session struct {
	mu     sync.Mutex
	cfg    SessionConfig
	engine *Engine
	state  SessionState

	photo      []byte
	photoName  string
	captured   models.Transform
	viewport   models.ViewportSize
	hasCapture bool

	downloadControl *Debouncer
}

// NewSession creates a session in the NoPhoto state
func NewSession(cfg SessionConfig) *Session {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounceInterval
	}
	return &Session{
		cfg:             cfg,
		engine:          NewEngine(),
		downloadControl: NewDebouncer(cfg.Debounce),
	}
}

// State returns the current lifecycle stage
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transform returns the live transform driving the preview
func (s *Session) Transform() models.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Transform()
}

// Captured returns the last transform and viewport recorded at rest
func (s *Session) Captured() (models.Transform, models.ViewportSize, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured, s.viewport, s.hasCapture
}

// HasPhoto reports whether a photo is loaded
func (s *Session) HasPhoto() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photo != nil
}

// Subscribe observes transform changes. fn runs with the session locked
// and must not call back into the session.
func (s *Session) Subscribe(fn func(models.Transform)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := s.engine.Subscribe(fn)
	return NewSubscription(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sub.Close()
	})
}

// Upload validates file and makes it the photo being edited
func (s *Session) Upload(file UploadedFile) error {
	if err := ValidateUpload(file, s.cfg.MaxUploadBytes); err != nil {
		log.Printf("⚠️  Upload rejected (%s): %v", file.Name, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDownloading {
		return ErrDownloadDisabled
	}
	s.photo = file.Data
	s.photoName = file.Name
	s.hasCapture = false
	s.engine.End(nil)
	s.engine.Reset()
	s.state = StateEditing
	log.Printf("📥 Photo loaded: %s (%d bytes)", file.Name, len(file.Data))
	return nil
}

// ValidateUpload checks the MIME type, size and that the bytes decode as an image
func ValidateUpload(file UploadedFile, maxBytes int64) error {
	if !strings.HasPrefix(file.ContentType, "image/") {
		return &ValidationError{Reason: ReasonNotImage}
	}
	if maxBytes > 0 && int64(len(file.Data)) > maxBytes {
		return &ValidationError{Reason: ReasonTooLarge, MaxBytes: maxBytes}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return &ValidationError{Reason: ReasonUnreadable, Err: err}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return &ValidationError{Reason: ReasonUnreadable, Err: fmt.Errorf("image has no pixels")}
	}
	return nil
}

// PointerDown starts a drag or pinch
func (s *Session) PointerDown(points []Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return
	}
	s.engine.Start(points)
	if s.engine.Active() {
		s.state = StateEditing
	}
}

// PointerMove applies one move frame
func (s *Session) PointerMove(points []Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return
	}
	s.engine.Move(points)
}

// PointerUp releases contacts. Once no gesture remains the transform is
// captured with vp and the session becomes Stable.
func (s *Session) PointerUp(remaining []Point, vp models.ViewportSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return
	}
	s.engine.End(remaining)
	s.captureIfIdle(vp)
}

// SetHover records whether the pointer is over the preview
func (s *Session) SetHover(hovering bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetHover(hovering)
}

// Wheel zooms the photo and captures immediately when no gesture is active
func (s *Session) Wheel(deltaY float64, vp models.ViewportSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return
	}
	s.engine.Wheel(deltaY)
	s.captureIfIdle(vp)
}

// ResetTransform restores position and zoom
func (s *Session) ResetTransform(vp models.ViewportSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return
	}
	s.engine.End(nil)
	s.engine.Reset()
	s.captureIfIdle(vp)
}

// Measure records the preview size, e.g. after first layout or a resize
func (s *Session) Measure(vp models.ViewportSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return
	}
	s.captureIfIdle(vp)
}

// ChangePhoto discards the photo and its transform
func (s *Session) ChangePhoto() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing && s.state != StateStable {
		return
	}
	s.photo = nil
	s.photoName = ""
	s.hasCapture = false
	s.engine.End(nil)
	s.engine.Reset()
	s.state = StateNoPhoto
}

// CanDownload reports whether the download control is enabled
func (s *Session) CanDownload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canDownload()
}

// Download tracks, composes and saves the image. The session stays
// Stable afterwards whether or not it succeeded, so a failure can be retried.
func (s *Session) Download(ctx context.Context, req DownloadRequest) (string, error) {
	s.mu.Lock()
	if !s.canDownload() {
		s.mu.Unlock()
		return "", ErrDownloadDisabled
	}
	if !s.downloadControl.Allow() {
		s.mu.Unlock()
		return "", ErrDebounced
	}
	s.state = StateDownloading
	photo, t, vp := s.photo, s.captured, s.viewport
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateStable
		s.mu.Unlock()
	}()

	campaign := s.cfg.Campaign
	filename := trackOrFallback(ctx, s.cfg.Tracker, models.TrackDownloadRequest{
		CampaignID:     campaign.ID,
		UserName:       strings.TrimSpace(req.UserLabel),
		AdditionalText: strings.TrimSpace(req.Note),
		CampaignSlug:   campaign.Slug,
	}, func() string { return utils.PhotoFallbackFilename(campaign.Slug) })

	res, err := s.cfg.Compositor.Compose(ctx, compositor.Request{
		TemplateURL: campaign.TemplateURL,
		Photo:       photo,
		Transform:   t,
		Viewport:    vp,
	})
	if err != nil {
		log.Printf("❌ Error composing image for %s: %v", campaign.Slug, err)
		return "", fmt.Errorf("failed to compose image: %w", err)
	}

	if err := s.cfg.Saver.Save(ctx, filename, res.Data); err != nil {
		log.Printf("❌ Error saving %s: %v", filename, err)
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	log.Printf("🎉 Downloaded %s", filename)
	return filename, nil
}

func (s *Session) editable() bool {
	return s.state == StateEditing || s.state == StateStable
}

func (s *Session) canDownload() bool {
	return s.state == StateStable && s.hasCapture && !s.engine.Active()
}

func (s *Session) captureIfIdle(vp models.ViewportSize) {
	if s.engine.Active() {
		return
	}
	if !vp.Valid() {
		// not laid out yet; stay in Editing until a usable size arrives
		s.state = StateEditing
		return
	}
	s.captured = s.engine.Transform()
	s.viewport = vp
	s.hasCapture = true
	s.state = StateStable
}

// trackOrFallback asks the tracker for a filename. Tracking failures are
// logged and replaced by a locally generated name.
func trackOrFallback(ctx context.Context, tracker Tracker, req models.TrackDownloadRequest, fallback func() string) string {
	if tracker == nil {
		return fallback()
	}
	resp, err := tracker.TrackDownload(ctx, req)
	if err == nil && resp != nil && resp.Filename != "" {
		return resp.Filename
	}
	if err == nil {
		err = fmt.Errorf("empty filename in response")
	}
	log.Printf("⚠️  %v", &TrackingError{Err: err})
	return fallback()
}
