package codegen

import (
	"fmt"
	"image"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/boombuler/barcode/code128"
)

// barQuietZone is the number of light modules padded on both sides of a Code 128 symbol.
const barQuietZone = 7

// Bar renders Code 128 barcodes.
type Bar struct {
	Palette
}

func (b Bar) Kind() Kind {
	return KindBar
}

// Generate creates a barcode bitmap of size x size pixels; bars span the full height.
func (b Bar) Generate(text string, size int) (*image.RGBA, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", errorz.ErrEncodingFailed)
	}

	code, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrEncodingFailed, err)
	}

	bounds := code.Bounds()
	row := make([]bool, bounds.Dx()+2*barQuietZone)
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		row[barQuietZone+x-bounds.Min.X] = isDark(code.At(x, bounds.Min.Y))
	}

	return rasterize([][]bool{row}, size, b.Palette)
}
