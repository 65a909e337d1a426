package codegen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"golang.org/x/image/draw"
)

// MaxSize is the largest side length in pixels a strategy renders.
const MaxSize = 4096

// rasterize recolors a dark/light module matrix and scales it to size x size.
func rasterize(matrix [][]bool, size int, palette Palette) (*image.RGBA, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: size %d outside 1..%d", errorz.ErrEncodingFailed, size, MaxSize)
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("%w: empty symbol", errorz.ErrEncodingFailed)
	}

	fg := toRGBA(palette.Foreground)
	bg := toRGBA(palette.Background)

	src := image.NewRGBA(image.Rect(0, 0, len(matrix[0]), len(matrix)))
	for y, row := range matrix {
		for x, dark := range row {
			if dark {
				src.SetRGBA(x, y, fg)
			} else {
				src.SetRGBA(x, y, bg)
			}
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return Clear
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}
