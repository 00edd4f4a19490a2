package compositor

import (
	"fmt"
	"math"

	"twibbon-campaign/models"
)

// Rect is an axis-aligned rectangle in output pixels
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Dx returns the width of r
func (r Rect) Dx() float64 { return r.MaxX - r.MinX }

// Dy returns the height of r
func (r Rect) Dy() float64 { return r.MaxY - r.MinY }

// Center returns the centre point of r
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Placement maps the preview transform into output space.
//
// The photo is drawn in a frame whose origin sits at (OriginX, OriginY) and
// which is scaled by Scale; inside that frame it has the contain-fitted size
// FitWidth x FitHeight and is centred on the origin.
type Placement struct {
	ScaleX, ScaleY   float64 // preview pixel -> output pixel
	OriginX, OriginY float64
	Scale            float64
	FitWidth         float64
	FitHeight        float64
}

// Place computes where the photo lands on an outW x outH surface.
// Offsets captured in preview pixels are scaled by output/viewport per axis.
func Place(photoW, photoH int, t models.Transform, vp models.ViewportSize, outW, outH int) (Placement, error) {
	if !vp.Valid() {
		return Placement{}, ErrInvalidViewport
	}
	if photoW <= 0 || photoH <= 0 {
		return Placement{}, fmt.Errorf("photo has empty bounds %dx%d", photoW, photoH)
	}
	if outW <= 0 || outH <= 0 {
		return Placement{}, fmt.Errorf("output size must be positive, got %dx%d", outW, outH)
	}

	sx := float64(outW) / vp.Width
	sy := float64(outH) / vp.Height
	fit := math.Min(float64(outW)/float64(photoW), float64(outH)/float64(photoH))

	return Placement{
		ScaleX:    sx,
		ScaleY:    sy,
		OriginX:   float64(outW)/2 + t.X*sx,
		OriginY:   float64(outH)/2 + t.Y*sy,
		Scale:     t.Scale,
		FitWidth:  float64(photoW) * fit,
		FitHeight: float64(photoH) * fit,
	}, nil
}

// PhotoRect is the area the photo covers in output space
func (p Placement) PhotoRect() Rect {
	w := p.FitWidth * p.Scale
	h := p.FitHeight * p.Scale
	return Rect{
		MinX: p.OriginX - w/2,
		MinY: p.OriginY - h/2,
		MaxX: p.OriginX + w/2,
		MaxY: p.OriginY + h/2,
	}
}
