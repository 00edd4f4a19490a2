package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"testing"
	"time"

	"twibbon-campaign/compositor"
	"twibbon-campaign/models"
)

type fakeCompositor struct {
	requests []compositor.Request
	err      error
}

func (f *fakeCompositor) Compose(ctx context.Context, req compositor.Request) (*compositor.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &compositor.Result{Data: []byte("jpeg"), ContentType: "image/jpeg", Width: 1000, Height: 1000}, nil
}

type fakeTracker struct {
	requests []models.TrackDownloadRequest
	filename string
	err      error
}

func (f *fakeTracker) TrackDownload(ctx context.Context, req models.TrackDownloadRequest) (*models.TrackDownloadResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.TrackDownloadResponse{ID: 1, Filename: f.filename}, nil
}

type savedFile struct {
	name string
	data []byte
}

type fakeSaver struct {
	saved []savedFile
}

func (f *fakeSaver) Save(ctx context.Context, filename string, data []byte) error {
	f.saved = append(f.saved, savedFile{filename, data})
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

var campaign = models.Campaign{ID: 7, Name: "Hari Guru", Slug: "hari-guru", TemplateURL: "/templates/7", Type: models.CampaignTypePhoto, IsActive: true}

var viewport = models.ViewportSize{Width: 300, Height: 300}

func newTestSession(t *testing.T, comp *fakeCompositor, tracker *fakeTracker, saver *fakeSaver) *Session {
	t.Helper()
	cfg := SessionConfig{Campaign: campaign, Compositor: comp, Saver: saver}
	if tracker != nil {
		cfg.Tracker = tracker
	}
	s := NewSession(cfg)
	clock := time.Date(2024, 11, 25, 8, 0, 0, 0, time.UTC)
	s.downloadControl.now = func() time.Time {
		clock = clock.Add(2 * time.Second)
		return clock
	}
	return s
}

func TestBasicFlow(t *testing.T) {
	comp := &fakeCompositor{}
	tracker := &fakeTracker{filename: "hari-guru_abc.jpg"}
	saver := &fakeSaver{}
	s := newTestSession(t, comp, tracker, saver)

	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 200, 200)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if s.State() != StateEditing || s.CanDownload() {
		t.Fatalf("state = %v, download enabled = %v", s.State(), s.CanDownload())
	}

	s.PointerDown([]Point{{X: 100, Y: 100}})
	s.PointerMove([]Point{{X: 130, Y: 90}})
	if s.CanDownload() {
		t.Fatal("download enabled mid-gesture")
	}
	s.PointerUp(nil, viewport)

	if s.State() != StateStable || !s.CanDownload() {
		t.Fatalf("state = %v after release, want stable", s.State())
	}

	filename, err := s.Download(context.Background(), DownloadRequest{UserLabel: " Budi "})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filename != "hari-guru_abc.jpg" {
		t.Fatalf("filename = %q", filename)
	}

	req := comp.requests[0]
	if req.Transform != (models.Transform{X: 30, Y: -10, Scale: 1}) {
		t.Fatalf("composed with transform %+v", req.Transform)
	}
	if req.Viewport != viewport || req.TemplateURL != "/templates/7" {
		t.Fatalf("composed with viewport %+v template %q", req.Viewport, req.TemplateURL)
	}
	if tracker.requests[0].UserName != "Budi" || tracker.requests[0].CampaignID != 7 {
		t.Fatalf("tracked %+v", tracker.requests[0])
	}
	if len(saver.saved) != 1 || saver.saved[0].name != filename {
		t.Fatalf("saved %+v", saver.saved)
	}
	if s.State() != StateStable {
		t.Fatalf("state = %v after download", s.State())
	}
}

func TestUploadRejectsLargeFile(t *testing.T) {
	s := newTestSession(t, &fakeCompositor{}, nil, &fakeSaver{})
	err := s.Upload(UploadedFile{Name: "big.png", ContentType: "image/png", Data: make([]byte, 10<<20)})

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Reason != ReasonTooLarge {
		t.Fatalf("err = %v, want too-large validation error", err)
	}
	if s.State() != StateNoPhoto || s.HasPhoto() {
		t.Fatalf("state = %v after rejected upload", s.State())
	}
	if _, _, ok := s.Captured(); ok {
		t.Fatal("transform captured for rejected upload")
	}
	if msg := UserMessage(err, "id"); msg != "Ukuran file maksimal 5MB" {
		t.Fatalf("message = %q", msg)
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	s := newTestSession(t, &fakeCompositor{}, nil, &fakeSaver{})

	var ve *ValidationError
	err := s.Upload(UploadedFile{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	if !errors.As(err, &ve) || ve.Reason != ReasonNotImage {
		t.Fatalf("err = %v, want not-image error", err)
	}
	err = s.Upload(UploadedFile{Name: "fake.png", ContentType: "image/png", Data: []byte("nope")})
	if !errors.As(err, &ve) || ve.Reason != ReasonUnreadable {
		t.Fatalf("err = %v, want unreadable error", err)
	}
}

func TestTrackingFailureFallsBack(t *testing.T) {
	comp := &fakeCompositor{}
	saver := &fakeSaver{}
	s := newTestSession(t, comp, &fakeTracker{err: errors.New("offline")}, saver)
	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	s.Measure(viewport)

	filename, err := s.Download(context.Background(), DownloadRequest{})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !regexp.MustCompile(`^hari-guru_photo_[0-9a-z]{5}\.jpg$`).MatchString(filename) {
		t.Fatalf("fallback filename = %q", filename)
	}
	if len(saver.saved) != 1 {
		t.Fatal("image was not saved")
	}
}

func TestCompositorFailureIsRetryable(t *testing.T) {
	comp := &fakeCompositor{err: &compositor.ImageDecodeError{Source: compositor.SourceTemplate, Err: errors.New("bad")}}
	saver := &fakeSaver{}
	s := newTestSession(t, comp, &fakeTracker{filename: "x.jpg"}, saver)
	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	s.Measure(viewport)

	_, err := s.Download(context.Background(), DownloadRequest{})
	var de *compositor.ImageDecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want ImageDecodeError", err)
	}
	if msg := UserMessage(err, "en-US"); msg != "Failed to download the image. Please try again." {
		t.Fatalf("message = %q", msg)
	}
	if s.State() != StateStable || !s.CanDownload() {
		t.Fatalf("state = %v after failure, want stable", s.State())
	}

	comp.err = nil
	if _, err := s.Download(context.Background(), DownloadRequest{}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("saved %d files, want 1", len(saver.saved))
	}
}

func TestDownloadDebounced(t *testing.T) {
	s := NewSession(SessionConfig{Campaign: campaign, Compositor: &fakeCompositor{}, Saver: &fakeSaver{}})
	now := time.Date(2024, 11, 25, 8, 0, 0, 0, time.UTC)
	s.downloadControl.now = func() time.Time { return now }

	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	s.Measure(viewport)

	if _, err := s.Download(context.Background(), DownloadRequest{}); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if _, err := s.Download(context.Background(), DownloadRequest{}); !errors.Is(err, ErrDebounced) {
		t.Fatalf("err = %v, want ErrDebounced", err)
	}
}

func TestDownloadDisabledWithoutPhoto(t *testing.T) {
	s := newTestSession(t, &fakeCompositor{}, nil, &fakeSaver{})
	if _, err := s.Download(context.Background(), DownloadRequest{}); !errors.Is(err, ErrDownloadDisabled) {
		t.Fatalf("err = %v, want ErrDownloadDisabled", err)
	}
}

func TestInvalidViewportKeepsEditing(t *testing.T) {
	s := newTestSession(t, &fakeCompositor{}, nil, &fakeSaver{})
	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	s.Measure(models.ViewportSize{})
	if s.State() != StateEditing || s.CanDownload() {
		t.Fatalf("state = %v with empty viewport", s.State())
	}
}

func TestChangePhotoDiscardsTransform(t *testing.T) {
	s := newTestSession(t, &fakeCompositor{}, nil, &fakeSaver{})
	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	s.SetHover(true)
	s.Wheel(-1, viewport)
	if s.State() != StateStable {
		t.Fatalf("state = %v after wheel", s.State())
	}

	s.ChangePhoto()
	if s.State() != StateNoPhoto || s.HasPhoto() {
		t.Fatalf("state = %v after change photo", s.State())
	}
	if s.Transform() != models.DefaultTransform() {
		t.Fatalf("transform = %+v, want default", s.Transform())
	}
}

func TestSessionSubscription(t *testing.T) {
	s := newTestSession(t, &fakeCompositor{}, nil, &fakeSaver{})
	if err := s.Upload(UploadedFile{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	var last models.Transform
	sub := s.Subscribe(func(tr models.Transform) { last = tr })
	s.ResetTransform(viewport)
	s.PointerDown([]Point{{X: 0, Y: 0}})
	s.PointerMove([]Point{{X: 4, Y: 2}})
	sub.Close()
	s.PointerMove([]Point{{X: 8, Y: 4}})
	if last.X != 4 || last.Y != 2 {
		t.Fatalf("last = %+v, want (4,2)", last)
	}
}

func TestUserMessageLanguages(t *testing.T) {
	err := &ValidationError{Reason: ReasonNotImage}
	if got := UserMessage(err, ""); got != "File harus berupa gambar" {
		t.Fatalf("default language message = %q", got)
	}
	if got := UserMessage(err, "en"); got != "The file must be an image" {
		t.Fatalf("english message = %q", got)
	}
	if got := UserMessage(err, "fr"); got != "File harus berupa gambar" {
		t.Fatalf("unsupported language message = %q", got)
	}
	if got := UserMessage(nil, "en"); got != "" {
		t.Fatalf("nil error message = %q", got)
	}
}
