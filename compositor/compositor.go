package compositor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/sync/errgroup"

	"twibbon-campaign/models"
)

// Output defaults for a twibbon image
const (
	DefaultOutputSize  = 1000
	DefaultJPEGQuality = 92
	DefaultBackground  = "#F9FAFB"
)

// Request describes one composition
type Request struct {
	// TemplateURL is fetched through the Loader unless Template is set
	TemplateURL string
	Template    []byte

	Photo     []byte
	Transform models.Transform

	// Viewport is the rendered size of the preview container when the
	// transform was captured
	Viewport models.ViewportSize

	OutputWidth  int
	OutputHeight int
}

// Result is an encoded composite image
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// DataURL returns the result as a data: URL
func (r *Result) DataURL() string {
	return "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Option configures a Compositor
type Option func(*Compositor)

// WithQuality sets the JPEG quality (1-100)
func WithQuality(q int) Option {
	return func(c *Compositor) {
		if q >= 1 && q <= 100 {
			c.quality = q
		}
	}
}

// WithBackground sets the colour painted where the photo does not cover
func WithBackground(hex string) Option {
	return func(c *Compositor) {
		if hex != "" {
			c.background = hex
		}
	}
}

// Compositor draws the positioned photo under the template frame
type Compositor struct {
	loader     Loader
	quality    int
	background string
}

// New creates a compositor that fetches templates through loader
func New(loader Loader, opts ...Option) *Compositor {
	c := &Compositor{
		loader:     loader,
		quality:    DefaultJPEGQuality,
		background: DefaultBackground,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose produces a JPEG of the photo under the template.
// The result depends only on the request, so repeated calls agree.
func (c *Compositor) Compose(ctx context.Context, req Request) (*Result, error) {
	if !req.Viewport.Valid() {
		return nil, ErrInvalidViewport
	}
	outW, outH := outputSize(req.OutputWidth, req.OutputHeight)

	var photo, frame image.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := Decode(req.Photo)
		if err != nil {
			return &ImageDecodeError{Source: SourcePhoto, Err: err}
		}
		photo = img
		return nil
	})
	g.Go(func() error {
		img, err := c.loadTemplate(gctx, req.TemplateURL, req.Template)
		if err != nil {
			return err
		}
		frame = img
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := photo.Bounds()
	p, err := Place(b.Dx(), b.Dy(), req.Transform, req.Viewport, outW, outH)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(outW, outH)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(c.background))

	dc.DrawImageEx(gg.ImageBufFromImage(photoLayer(photo, p, outW, outH, c.background)), gg.DrawImageOptions{
		DstWidth:      float64(outW),
		DstHeight:     float64(outH),
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})

	drawFrame(dc, frame, outW, outH)

	return encode(dc, c.quality)
}

func (c *Compositor) loadTemplate(ctx context.Context, url string, data []byte) (image.Image, error) {
	if len(data) == 0 {
		if url == "" {
			return nil, &ImageDecodeError{Source: SourceTemplate, Err: errors.New("no template provided")}
		}
		if c.loader == nil {
			return nil, &ImageDecodeError{Source: SourceTemplate, Err: errors.New("no loader configured")}
		}
		var err error
		data, err = c.loader.Load(ctx, url)
		if err != nil {
			var tainted *TaintedCanvasError
			if errors.As(err, &tainted) {
				return nil, err
			}
			return nil, &ImageDecodeError{Source: SourceTemplate, Err: err}
		}
	}
	img, err := Decode(data)
	if err != nil {
		return nil, &ImageDecodeError{Source: SourceTemplate, Err: err}
	}
	return img, nil
}

// photoLayer resamples the photo onto an outW x outH surface filled with
// the background. Parts of the placed photo outside the surface are clipped.
func photoLayer(photo image.Image, p Placement, outW, outH int, background string) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(layer, layer.Bounds(), image.NewUniform(gg.Hex(background).Color()), image.Point{}, draw.Src)

	b := photo.Bounds()
	r := p.PhotoRect()
	kx := r.Dx() / float64(b.Dx())
	ky := r.Dy() / float64(b.Dy())
	s2d := f64.Aff3{
		kx, 0, r.MinX - kx*float64(b.Min.X),
		0, ky, r.MinY - ky*float64(b.Min.Y),
	}
	draw.BiLinear.Transform(layer, s2d, photo, b, draw.Over, nil)
	return layer
}

// drawFrame stretches the template over the whole surface
func drawFrame(dc *gg.Context, frame image.Image, outW, outH int) {
	dc.DrawImageEx(gg.ImageBufFromImage(frame), gg.DrawImageOptions{
		DstWidth:      float64(outW),
		DstHeight:     float64(outH),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func encode(dc *gg.Context, quality int) (*Result, error) {
	var buf bytes.Buffer
	if err := dc.EncodeJPEG(&buf, quality); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return &Result{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       dc.Width(),
		Height:      dc.Height(),
	}, nil
}

func outputSize(w, h int) (int, int) {
	if w <= 0 {
		w = DefaultOutputSize
	}
	if h <= 0 {
		h = DefaultOutputSize
	}
	return w, h
}
