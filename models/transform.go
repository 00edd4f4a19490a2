package models

// Transform is the translate+uniform-scale state of the photo layer.
// X and Y are pixel offsets of the photo centre from the preview centre.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Scale bounds shared by pinch and wheel zoom
const (
	MinScale = 0.5
	MaxScale = 2.5
)

// DefaultTransform returns the transform a freshly uploaded photo starts with
func DefaultTransform() Transform {
	return Transform{X: 0, Y: 0, Scale: 1}
}

// ClampScale limits s to [MinScale, MaxScale]
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// ViewportSize is the on-screen size of the preview container when the transform was captured
type ViewportSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive
func (v ViewportSize) Valid() bool {
	return v.Width > 0 && v.Height > 0
}
