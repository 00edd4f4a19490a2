package editor

import (
	"strings"
	"testing"

	"twibbon-campaign/models"
)

func TestPreviewTransform(t *testing.T) {
	got := PreviewTransform(models.Transform{X: 30, Y: -10.5, Scale: 1.25})
	want := "translate(30px, -10.5px) scale(1.25)"
	if got != want {
		t.Fatalf("PreviewTransform = %q, want %q", got, want)
	}
}

func TestPhotoLayerStyle(t *testing.T) {
	style := PhotoLayerStyle(models.DefaultTransform())
	for _, part := range []string{"object-fit:contain", "transform-origin:center center", "transform:translate(0px, 0px) scale(1);"} {
		if !strings.Contains(style, part) {
			t.Errorf("style %q missing %q", style, part)
		}
	}
}
