package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"

	"github.com/spacesedan/reviewcloud/internal/models"
)

// Options describe the canvas and styling handed to a LayoutEngine.
type Options struct {
	Width            int
	Height           int
	Background       color.Color
	Theme            Theme
	PreferHorizontal float64
	MinFontSize      int
	MaxFontSize      int
	Seed             uint64
}

// LayoutEngine places weighted words on a canvas.
type LayoutEngine interface {
	Generate(words []models.TermCount, opts Options) (image.Image, error)
}

// Placement is one word positioned on the canvas. X and Y are the center.
type Placement struct {
	Word     string
	Size     int
	X, Y     float64
	Vertical bool
	Color    color.RGBA
	bounds   rect
}

type rect struct{ x0, y0, x1, y1 float64 }

func (r rect) overlaps(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

func (r rect) inside(w, h float64) bool {
	return r.x0 >= 0 && r.y0 >= 0 && r.x1 <= w && r.y1 <= h
}

const (
	SPIRAL_GROWTH    = 2.0
	SPIRAL_ARC_STEP  = 1.5
	WORD_PADDING     = 2.0
	SHRINK_RATIO     = 0.85
	RELATIVE_SCALING = 0.5
	// FILL_RATIO caps the estimated share of the canvas covered by word
	// boxes before placement starts.
	FILL_RATIO     = 0.4
	MAX_FIT_ROUNDS = 6
)

// SpiralLayout walks an Archimedean spiral out from the canvas center and
// puts each word at the first spot that collides with nothing placed so
// far. A word that fits nowhere is shrunk until it fits or drops below the
// minimum size, in which case it is skipped.
type SpiralLayout struct {
	font *Font
}

func NewSpiralLayout(f *Font) *SpiralLayout {
	return &SpiralLayout{font: f}
}

func (s *SpiralLayout) Generate(words []models.TermCount, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", opts.Width, opts.Height)
	}
	faces := newFaceCache(s.font.TTF)
	defer faces.Close()

	placements, skipped := s.place(words, opts, faces)
	if len(skipped) > 0 {
		slog.Warn("[WordCloud] Words did not fit",
			slog.Int("placed", len(placements)),
			slog.Int("skipped", len(skipped)),
			slog.String("first_skipped", skipped[0]))
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(opts.Background)
	dc.Clear()
	for _, p := range placements {
		dc.SetFontFace(faces.get(p.Size))
		dc.SetColor(p.Color)
		if p.Vertical {
			dc.Push()
			dc.RotateAbout(-math.Pi/2, p.X, p.Y)
			dc.DrawStringAnchored(p.Word, p.X, p.Y, 0.5, 0.35)
			dc.Pop()
			continue
		}
		dc.DrawStringAnchored(p.Word, p.X, p.Y, 0.5, 0.35)
	}
	return dc.Image(), nil
}

// Place computes the layout without drawing it. The second result lists
// the words that fit nowhere, in input order.
func (s *SpiralLayout) Place(words []models.TermCount, opts Options) ([]Placement, []string) {
	faces := newFaceCache(s.font.TTF)
	defer faces.Close()
	return s.place(words, opts, faces)
}

func (s *SpiralLayout) place(words []models.TermCount, opts Options, faces *faceCache) ([]Placement, []string) {
	valid := make([]models.TermCount, 0, len(words))
	for _, tc := range words {
		if tc.Count > 0 && tc.Term != "" {
			valid = append(valid, tc)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	measure := gg.NewContext(1, 1)
	w, h := float64(opts.Width), float64(opts.Height)

	sizes := plannedSizes(valid, opts.MinFontSize, opts.MaxFontSize)
	fitToArea(valid, sizes, FILL_RATIO*w*h, opts.MinFontSize, measure, faces)

	placed := make([]Placement, 0, len(valid))
	var skipped []string
	ceiling := opts.MaxFontSize
	for i, tc := range valid {
		vertical := rng.Float64() >= opts.PreferHorizontal
		p := Placement{Word: tc.Term, Vertical: vertical, Color: opts.Theme.Pick(rng)}

		fitted := false
		for size := min(sizes[i], ceiling); size >= opts.MinFontSize; size = shrink(size) {
			tw, th := measureWord(measure, faces, tc.Term, size)
			if vertical {
				tw, th = th, tw
			}
			if x, y, ok := findSpot(tw, th, w, h, placed); ok {
				p.Size, p.X, p.Y = size, x, y
				p.bounds = boundsAt(x, y, tw, th)
				placed = append(placed, p)
				ceiling = size
				fitted = true
				break
			}
		}
		if !fitted {
			skipped = append(skipped, tc.Term)
		}
	}
	return placed, skipped
}

// plannedSizes applies relative scaling: each size follows from the
// previous one by the ratio of the two counts, so sizes fall along the
// list and the tail approaches the minimum.
func plannedSizes(words []models.TermCount, minSize, maxSize int) []int {
	sizes := make([]int, len(words))
	last, lastCount := float64(maxSize), 0
	for i, tc := range words {
		if lastCount > 0 {
			ratio := float64(tc.Count) / float64(lastCount)
			last = min((RELATIVE_SCALING*ratio+1-RELATIVE_SCALING)*last, float64(maxSize))
		}
		sizes[i] = min(max(int(math.Round(last)), minSize), maxSize)
		lastCount = tc.Count
	}
	return sizes
}

// fitToArea scales sizes down until the padded word boxes cover at most
// budget pixels or every word is at the minimum size.
func fitToArea(words []models.TermCount, sizes []int, budget float64, minSize int, measure *gg.Context, faces *faceCache) {
	for range MAX_FIT_ROUNDS {
		area := 0.0
		for i, tc := range words {
			tw, th := measureWord(measure, faces, tc.Term, sizes[i])
			area += (tw + 2*WORD_PADDING) * (th + 2*WORD_PADDING)
		}
		if area <= budget {
			return
		}
		scale := math.Sqrt(budget / area)
		changed := false
		for i := range sizes {
			n := max(int(float64(sizes[i])*scale), minSize)
			if n != sizes[i] {
				sizes[i], changed = n, true
			}
		}
		if !changed {
			return
		}
	}
}

func measureWord(measure *gg.Context, faces *faceCache, word string, size int) (float64, float64) {
	measure.SetFontFace(faces.get(size))
	return measure.MeasureString(word)
}

func shrink(size int) int {
	return min(size-1, int(float64(size)*SHRINK_RATIO))
}

func boundsAt(cx, cy, tw, th float64) rect {
	return rect{
		x0: cx - tw/2 - WORD_PADDING,
		y0: cy - th/2 - WORD_PADDING,
		x1: cx + tw/2 + WORD_PADDING,
		y1: cy + th/2 + WORD_PADDING,
	}
}

// findSpot samples the spiral at a constant arc length so the outer turns
// are probed as densely as the inner ones. x is stretched by the canvas
// aspect ratio.
func findSpot(tw, th, w, h float64, placed []Placement) (float64, float64, bool) {
	if tw+2*WORD_PADDING > w || th+2*WORD_PADDING > h {
		return 0, 0, false
	}
	cx, cy := w/2, h/2
	aspect := w / h
	limit := math.Hypot(cx/aspect, cy)
	for t := 0.0; ; {
		r := SPIRAL_GROWTH * t
		if r > limit {
			return 0, 0, false
		}
		x := cx + r*math.Cos(t)*aspect
		y := cy + r*math.Sin(t)
		if b := boundsAt(x, y, tw, th); b.inside(w, h) && !collides(b, placed) {
			return x, y, true
		}
		t += SPIRAL_ARC_STEP / math.Hypot(r, SPIRAL_GROWTH)
	}
}

func collides(b rect, placed []Placement) bool {
	for _, p := range placed {
		if b.overlaps(p.bounds) {
			return true
		}
	}
	return false
}
