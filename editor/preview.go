package editor

import (
	"fmt"
	"strconv"

	"twibbon-campaign/models"
)

// PreviewBackground is the colour of the preview container behind the photo.
// The compositor paints the same colour so uncovered areas match.
const PreviewBackground = "#F9FAFB"

// PreviewTransform returns the CSS transform that positions the photo layer.
// Translate comes first so offsets stay in container pixels regardless of zoom.
func PreviewTransform(t models.Transform) string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)", cssNumber(t.X), cssNumber(t.Y), cssNumber(t.Scale))
}

// PhotoLayerStyle is the full inline style of the photo <img>.
// The image fills the square container with contain fitting and is
// transformed around its centre.
func PhotoLayerStyle(t models.Transform) string {
	return "position:absolute;inset:0;width:100%;height:100%;object-fit:contain;" +
		"transform-origin:center center;will-change:transform;transform:" + PreviewTransform(t) + ";"
}

// TemplateLayerStyle is the inline style of the template <img> stacked above the photo
func TemplateLayerStyle() string {
	return "position:absolute;inset:0;width:100%;height:100%;object-fit:fill;pointer-events:none;"
}

func cssNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
