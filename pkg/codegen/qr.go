package codegen

import (
	"fmt"
	"image"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/skip2/go-qrcode"
)

// QR renders QR codes. The quiet zone produced by the encoder is kept.
type QR struct {
	Palette
	Level Level
}

func (q QR) Kind() Kind {
	return KindQR
}

// Generate creates a QR code bitmap of size x size pixels.
func (q QR) Generate(text string, size int) (*image.RGBA, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", errorz.ErrEncodingFailed)
	}

	code, err := qrcode.New(text, q.recoveryLevel())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrEncodingFailed, err)
	}

	return rasterize(code.Bitmap(), size, q.Palette)
}

func (q QR) recoveryLevel() qrcode.RecoveryLevel {
	switch q.Level {
	case LevelLow:
		return qrcode.Low
	case LevelQuartile:
		return qrcode.High
	case LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
