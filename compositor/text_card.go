package compositor

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Text card layout as fractions of the output width
const (
	textBandHeight   = 0.1457
	nameFontSize     = 0.0263
	extraFontSize    = 0.0234
	textLineHeight   = 0.0271
	TextColor        = "#444444"
	MaxTextCardRunes = 25
)

// TextCardRequest describes a text campaign image
type TextCardRequest struct {
	TemplateURL    string
	Template       []byte
	Name           string
	AdditionalText string
	OutputWidth    int
	OutputHeight   int
}

var (
	fontsOnce   sync.Once
	boldSource  *text.FontSource
	plainSource *text.FontSource
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		boldSource, fontsErr = text.NewFontSource(gobold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to load bold font: %w", fontsErr)
			return
		}
		plainSource, fontsErr = text.NewFontSource(goregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to load regular font: %w", fontsErr)
		}
	})
	return fontsErr
}

// RenderTextCard draws the template with the name and additional text
// centred in its bottom band
func (c *Compositor) RenderTextCard(ctx context.Context, req TextCardRequest) (*Result, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	outW, outH := outputSize(req.OutputWidth, req.OutputHeight)

	frame, err := c.loadTemplate(ctx, req.TemplateURL, req.Template)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(outW, outH)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex("#FFFFFF"))
	drawFrame(dc, frame, outW, outH)
	drawCaption(dc, truncateRunes(req.Name, MaxTextCardRunes), truncateRunes(req.AdditionalText, MaxTextCardRunes), outW, outH)

	return encode(dc, c.quality)
}

func drawCaption(dc *gg.Context, name, extra string, outW, outH int) {
	w := float64(outW)
	cx := w / 2
	top := float64(outH) - w*textBandHeight
	line := w * textLineHeight

	dc.SetHexColor(TextColor)
	if name != "" {
		dc.SetFont(boldSource.Face(w * nameFontSize))
		dc.DrawStringAnchored(name, cx, top+line, 0.5, 0)
	}
	if extra != "" {
		dc.SetFont(plainSource.Face(w * extraFontSize))
		dc.DrawStringAnchored(extra, cx, top+2*line, 0.5, 0)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
