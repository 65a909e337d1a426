package banner

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderSize(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 256, 256), Placeholder(256).Bounds())
	assert.Equal(t, image.Rect(0, 0, minSize, minSize), Placeholder(0).Bounds())
}

func TestPlaceholderIsCached(t *testing.T) {
	assert.Same(t, Placeholder(120), Placeholder(120))
}

func TestPlaceholderHasText(t *testing.T) {
	img := Placeholder(200)

	// the caption sits in the middle band, inside the border
	r0, g0, b0, _ := background.RGBA()
	found := false
	for y := 85; y < 115 && !found; y++ {
		for x := 10; x < 190 && !found; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			found = r != r0 || g != g0 || b != b0
		}
	}
	assert.True(t, found)
}
