package wordcloud

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/spacesedan/reviewcloud/internal/models"
)

const (
	CANVAS_WIDTH      = 1200
	CANVAS_HEIGHT     = 600
	MIN_FONT_SIZE     = 14
	MAX_FONT_SIZE     = 120
	PREFER_HORIZONTAL = 0.7
	PLACEHOLDER_SIZE  = 48
	PLACEHOLDER_TEXT  = "데이터 없음"
	// PLACEHOLDER_ASCII is drawn when the font has no Hangul glyphs.
	PLACEHOLDER_ASCII = "No data"
)

var Background = color.RGBA{0x0e, 0x11, 0x17, 0xff}

// Image is a rendered word cloud, kept both decoded and PNG encoded.
type Image struct {
	Image       image.Image
	PNG         []byte
	Placeholder bool
}

// Renderer draws word clouds for frequency tables that were already
// truncated to the wanted word count.
type Renderer struct {
	engine LayoutEngine
	font   *Font
	seed   uint64
}

func NewRenderer(engine LayoutEngine, f *Font) *Renderer {
	return &Renderer{engine: engine, font: f, seed: 42}
}

// Render lays out freq with the theme. An empty table yields the
// placeholder image and the layout engine is not called. freq is not
// modified.
func (r *Renderer) Render(freq []models.TermCount, theme Theme) (*Image, error) {
	if len(freq) == 0 {
		return r.placeholder()
	}

	words := make([]models.TermCount, len(freq))
	copy(words, freq)

	img, err := r.engine.Generate(words, Options{
		Width:            CANVAS_WIDTH,
		Height:           CANVAS_HEIGHT,
		Background:       Background,
		Theme:            theme,
		PreferHorizontal: PREFER_HORIZONTAL,
		MinFontSize:      MIN_FONT_SIZE,
		MaxFontSize:      MAX_FONT_SIZE,
		Seed:             r.seed,
	})
	if err != nil {
		slog.Error("[WordCloud] Layout failed",
			slog.String("theme", theme.Name),
			slog.Int("words", len(words)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to lay out word cloud: %w", err)
	}
	return encode(img, false)
}

func (r *Renderer) placeholder() (*Image, error) {
	dc := gg.NewContext(CANVAS_WIDTH, CANVAS_HEIGHT)
	dc.SetColor(Background)
	dc.Clear()
	dc.SetColor(color.RGBA{0x9a, 0xa0, 0xa6, 0xff})

	text := PLACEHOLDER_ASCII
	if r.font != nil && r.font.Hangul {
		faces := newFaceCache(r.font.TTF)
		defer faces.Close()
		dc.SetFontFace(faces.get(PLACEHOLDER_SIZE))
		text = PLACEHOLDER_TEXT
	} else {
		dc.SetFontFace(basicfont.Face7x13)
	}
	dc.DrawStringAnchored(text, CANVAS_WIDTH/2, CANVAS_HEIGHT/2, 0.5, 0.5)
	return encode(dc.Image(), true)
}

func encode(img image.Image, placeholder bool) (*Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return &Image{Image: img, PNG: buf.Bytes(), Placeholder: placeholder}, nil
}
