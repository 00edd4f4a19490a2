package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// Template variants
	SizeFull  = "full"
	SizeThumb = "thumb"

	// TemplateSize is the side of the normalised template, equal to the output card
	TemplateSize = 1000
	// Quality settings
	qualityThumb = 60
	// Size settings (max dimension)
	maxSizeThumb = 300
)

// TemplateCache stores processed templates on disk
type TemplateCache struct {
	dir string
}

// NewTemplateCache ensures the cache directory exists, creates it if it doesn't
func NewTemplateCache(dir string) (*TemplateCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &TemplateCache{dir: dir}, nil
}

// Path returns the cache file path for a campaign template variant.
// version changes whenever the template is replaced.
func (c *TemplateCache) Path(campaignID int64, size string, version time.Time) string {
	ext := "png"
	if size == SizeThumb {
		ext = "jpg"
	}
	filename := fmt.Sprintf("twibbon_campaign_%d_%s_%d.%s", campaignID, size, version.Unix(), ext)
	return filepath.Join(c.dir, filename)
}

// Read reads a cached image; ok is false when it is not cached
func (c *TemplateCache) Read(cachePath string) ([]byte, bool) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Save saves an image to the cache
func (c *TemplateCache) Save(cachePath string, imageData []byte) error {
	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Image cached: %s", cachePath)
	return nil
}

// Purge removes every cached variant of a campaign template
func (c *TemplateCache) Purge(campaignID int64) {
	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("twibbon_campaign_%d_*", campaignID)))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			log.Printf("⚠️  Could not remove cached template %s: %v", m, err)
		}
	}
}

func decodeTemplate(imageData []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("image has empty bounds")
	}
	return img, nil
}

// NormalizeTemplate resizes a template to TemplateSize x TemplateSize and
// encodes it as PNG so transparent frame areas survive
func NormalizeTemplate(imageData []byte) ([]byte, error) {
	img, err := decodeTemplate(imageData)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() != TemplateSize || b.Dy() != TemplateSize {
		log.Printf("🔄 Resizing template: %dx%d -> %dx%d", b.Dx(), b.Dy(), TemplateSize, TemplateSize)
		img = imaging.Resize(img, TemplateSize, TemplateSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateThumbnail renders a small JPEG preview for the admin list.
// Transparent areas are flattened onto white.
func TemplateThumbnail(imageData []byte) ([]byte, error) {
	img, err := decodeTemplate(imageData)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, maxSizeThumb, maxSizeThumb, imaging.Lanczos)
	bg := imaging.New(thumb.Bounds().Dx(), thumb.Bounds().Dy(), color.White)
	flat := imaging.Overlay(bg, thumb, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(qualityThumb)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// DetectImageType returns the MIME type of an uploaded template, or an error
// when it is not an image the editor can load
func DetectImageType(imageData []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("template is not a supported image: %w", err)
	}
	switch format {
	case "png":
		return "image/png", nil
	case "jpeg":
		return "image/jpeg", nil
	case "webp":
		return "image/webp", nil
	case "gif":
		return "image/gif", nil
	default:
		return "", fmt.Errorf("unsupported template format %q", format)
	}
}
