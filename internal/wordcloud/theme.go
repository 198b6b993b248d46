package wordcloud

import (
	"image/color"
	"math/rand/v2"

	"github.com/spacesedan/reviewcloud/internal/models"
)

// Theme is a word color scheme. Gradient themes interpolate between their
// stops; qualitative themes pick one of their colors.
type Theme struct {
	Name        string
	stops       []color.RGBA
	qualitative bool
}

var (
	ThemeWinter = Theme{
		Name:  "winter",
		stops: []color.RGBA{{0x00, 0x00, 0xff, 0xff}, {0x00, 0xff, 0x80, 0xff}},
	}
	ThemeAutumn = Theme{
		Name:  "autumn",
		stops: []color.RGBA{{0xff, 0x00, 0x00, 0xff}, {0xff, 0xff, 0x00, 0xff}},
	}
	ThemeSet2 = Theme{
		Name: "set2",
		stops: []color.RGBA{
			{0x66, 0xc2, 0xa5, 0xff}, {0xfc, 0x8d, 0x62, 0xff}, {0x8d, 0xa0, 0xcb, 0xff},
			{0xe7, 0x8a, 0xc3, 0xff}, {0xa6, 0xd8, 0x54, 0xff}, {0xff, 0xd9, 0x2f, 0xff},
			{0xe5, 0xc4, 0x94, 0xff}, {0xb3, 0xb3, 0xb3, 0xff},
		},
		qualitative: true,
	}
)

// ThemeFor maps a bucket to its theme.
func ThemeFor(b models.Bucket) Theme {
	switch b {
	case models.BucketPositive:
		return ThemeWinter
	case models.BucketNegative:
		return ThemeAutumn
	default:
		return ThemeSet2
	}
}

// At returns the color at pos in [0, 1].
func (t Theme) At(pos float64) color.RGBA {
	if len(t.stops) == 0 {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	pos = min(max(pos, 0), 1)
	if t.qualitative {
		i := int(pos * float64(len(t.stops)))
		return t.stops[min(i, len(t.stops)-1)]
	}
	if len(t.stops) == 1 {
		return t.stops[0]
	}
	seg := pos * float64(len(t.stops)-1)
	i := min(int(seg), len(t.stops)-2)
	f := seg - float64(i)
	a, b := t.stops[i], t.stops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

func (t Theme) Pick(rng *rand.Rand) color.RGBA {
	return t.At(rng.Float64())
}
