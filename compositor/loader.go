package compositor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// maxImageBytes bounds how much of a template response is read
const maxImageBytes = 20 << 20

// Loader fetches template bytes by URL
type Loader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// HTTPLoader loads templates over HTTP. In the browser build net/http
// goes through fetch in CORS mode, so the browser enforces readability.
//
// When Origin is set the request carries that Origin header and the response
// must allow it, which lets server-side checks catch assets that would
// taint a canvas.
type HTTPLoader struct {
	Client *http.Client
	Origin string
}

// NewHTTPLoader creates a loader using client, or http.DefaultClient when nil
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{Client: client}
}

// Load fetches url and returns the body
func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if l.Origin != "" {
		req.Header.Set("Origin", l.Origin)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	if l.Origin != "" {
		allow := resp.Header.Get("Access-Control-Allow-Origin")
		if allow != "*" && allow != l.Origin {
			return nil, &TaintedCanvasError{URL: url, AllowOrigin: allow}
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%s is larger than %d bytes", url, maxImageBytes)
	}
	return data, nil
}

// Decode decodes JPEG, PNG, GIF or WebP bytes, applying EXIF orientation
// so phone photos appear the way the preview showed them
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("image has empty bounds")
	}
	return img, nil
}
