package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"twibbon-campaign/repository"
)

// Share card size used by link previews
const (
	ShareCardWidth  = 1200
	ShareCardHeight = 630

	snapshotTimeout = 45 * time.Second
)

// SnapshotServiceInterface defines the contract for campaign share images
type SnapshotServiceInterface interface {
	SharePreview(ctx context.Context, slug string) ([]byte, error)
}

// SnapshotService screenshots the share card page of a campaign with headless Chrome
type SnapshotService struct {
	campaigns  repository.CampaignRepositoryInterface
	baseURL    string // Base URL the browser loads the share page from (e.g., "http://localhost:8080")
	chromePath string

	mu    sync.Mutex
	cache map[string]cachedSnapshot
}

type cachedSnapshot struct {
	version time.Time
	data    []byte
}

// Ensure SnapshotService implements SnapshotServiceInterface
var _ SnapshotServiceInterface = (*SnapshotService)(nil)

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(campaigns repository.CampaignRepositoryInterface, baseURL, chromePath string) *SnapshotService {
	return &SnapshotService{
		campaigns:  campaigns,
		baseURL:    baseURL,
		chromePath: detectChromePath(chromePath),
		cache:      make(map[string]cachedSnapshot),
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// SharePreview returns a PNG of the campaign share card, cached until the campaign changes
func (s *SnapshotService) SharePreview(ctx context.Context, slug string) ([]byte, error) {
	campaign, err := s.campaigns.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if c, ok := s.cache[slug]; ok && c.version.Equal(campaign.UpdatedAt) {
		s.mu.Unlock()
		return c.data, nil
	}
	s.mu.Unlock()

	renderURL := fmt.Sprintf("%s/c/%s/share", s.baseURL, url.PathEscape(slug))
	data, err := s.capture(ctx, renderURL)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[slug] = cachedSnapshot{version: campaign.UpdatedAt, data: data}
	s.mu.Unlock()
	return data, nil
}

func (s *SnapshotService) capture(ctx context.Context, renderURL string) ([]byte, error) {
	log.Printf("📸 Capturing share card %s", renderURL)

	ctxTimeout, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if s.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctxTimeout, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var buf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(ShareCardWidth, ShareCardHeight),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			(function() {
				return Promise.all([
					document.fonts.ready,
					Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
						return new Promise((resolve) => {
							if (img.complete && img.naturalWidth > 0) {
								resolve();
								return;
							}
							const timeout = setTimeout(() => resolve(), 5000);
							img.onload = () => { clearTimeout(timeout); resolve(); };
							img.onerror = () => { clearTimeout(timeout); resolve(); };
						});
					}))
				]);
			})();
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: ShareCardWidth, Height: ShareCardHeight, Scale: 1}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		log.Printf("❌ Error capturing share card: %v", err)
		return nil, fmt.Errorf("failed to capture share card: %w", err)
	}

	log.Printf("✓ Share card captured (%d bytes)", len(buf))
	return buf, nil
}
