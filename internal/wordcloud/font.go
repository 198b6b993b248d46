package wordcloud

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// fontCandidates are probed in order when no font path is configured.
// Only single-face .ttf files can be parsed.
var fontCandidates = []string{
	"C:/Windows/Fonts/malgun.ttf",
	"C:/Windows/Fonts/gulim.ttf",
	"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
	"/usr/share/fonts/nanum/NanumGothic.ttf",
	"/usr/share/fonts/truetype/nanum/NanumBarunGothic.ttf",
	"/Library/Fonts/NanumGothic.ttf",
	"/System/Library/Fonts/Supplemental/AppleGothic.ttf",
}

// Font is a parsed TrueType font plus whether it can draw Hangul.
type Font struct {
	Name   string
	TTF    *truetype.Font
	Hangul bool
}

// LoadFont parses the font at path. An empty path probes the known Korean
// font locations and finally falls back to the bundled Go font, which has
// no Hangul glyphs.
func LoadFont(path string) (*Font, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", path, err)
		}
		return parseFont(path, data)
	}

	for _, candidate := range fontCandidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		f, err := parseFont(candidate, data)
		if err != nil {
			slog.Warn("[WordCloud] Skipping unreadable font",
				slog.String("path", candidate),
				slog.String("error", err.Error()))
			continue
		}
		return f, nil
	}

	slog.Warn("[WordCloud] No Korean font found, Hangul will not render")
	return parseFont("goregular", goregular.TTF)
}

func parseFont(name string, data []byte) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &Font{Name: name, TTF: ttf, Hangul: ttf.Index('가') != 0}, nil
}

// faceCache hands out one face per point size. Close releases them all.
type faceCache struct {
	ttf   *truetype.Font
	faces map[int]font.Face
}

func newFaceCache(ttf *truetype.Font) *faceCache {
	return &faceCache{ttf: ttf, faces: make(map[int]font.Face)}
}

func (c *faceCache) get(size int) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.ttf, &truetype.Options{Size: float64(size), Hinting: font.HintingFull})
	c.faces[size] = f
	return f
}

func (c *faceCache) Close() {
	for size, f := range c.faces {
		f.Close()
		delete(c.faces, size)
	}
}
