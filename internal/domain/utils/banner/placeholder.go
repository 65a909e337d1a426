// Package banner draws the images shown in place of a missing code preview.
package banner

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
)

const (
	placeholderText = "No preview"
	minSize         = 32
)

var (
	background = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	border     = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	foreground = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

	placeholders sync.Map // int -> image.Image
)

// Placeholder returns a size x size "No preview" image. Sizes below 32 are raised to 32.
// Results are cached per size and must not be modified.
func Placeholder(size int) image.Image {
	if size < minSize {
		size = minSize
	}
	if img, ok := placeholders.Load(size); ok {
		return img.(image.Image)
	}

	dc := gg.NewContext(size, size)
	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(border)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, float64(size-2), float64(size-2))
	dc.Stroke()

	dc.SetColor(foreground)
	dc.DrawStringAnchored(placeholderText, float64(size)/2, float64(size)/2, 0.5, 0.5)

	img, _ := placeholders.LoadOrStore(size, dc.Image())
	return img.(image.Image)
}
