// Package codegen renders text into QR code and Code 128 bitmaps.
//
// Every strategy follows the same pipeline: the symbology encoder produces a
// one-pixel-per-module dark/light matrix, the matrix is recolored with the
// strategy palette and then scaled to the requested square size with
// nearest-neighbor sampling so that module edges stay crisp.
package codegen

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Kind selects the generation strategy.
type Kind int

const (
	KindQR Kind = iota
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindQR:
		return "qr"
	case KindBar:
		return "bar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses "qr" or "bar" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qr", "":
		return KindQR, nil
	case "bar", "barcode":
		return KindBar, nil
	default:
		return 0, fmt.Errorf("unknown code kind %q", s)
	}
}

// Level is the QR error correction level.
type Level string

const (
	LevelLow      Level = "L" // ~7% damage tolerance
	LevelMedium   Level = "M" // ~15%
	LevelQuartile Level = "Q" // ~25%
	LevelHigh     Level = "H" // ~30%
)

// ParseLevel accepts L/M/Q/H as well as the long names.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	default:
		return "", fmt.Errorf("unknown correction level %q", s)
	}
}

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{A: 255}
	Clear = color.RGBA{}
)

// Palette holds the colors dark and light modules are mapped to.
type Palette struct {
	Foreground color.Color
	Background color.Color
}

// DefaultPalette is white modules on a transparent background.
func DefaultPalette() Palette {
	return Palette{Foreground: White, Background: Clear}
}

// Generator produces a size x size bitmap encoding text.
type Generator interface {
	Kind() Kind
	Generate(text string, size int) (*image.RGBA, error)
}

// New returns the strategy for kind configured with palette. level is ignored
// by strategies without error correction.
func New(kind Kind, palette Palette, level Level) (Generator, error) {
	switch kind {
	case KindQR:
		return QR{Palette: palette, Level: level}, nil
	case KindBar:
		return Bar{Palette: palette}, nil
	default:
		return nil, fmt.Errorf("unsupported code kind %s", kind)
	}
}
