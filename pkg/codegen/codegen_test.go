package codegen

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generators(t *testing.T, palette Palette) []Generator {
	t.Helper()

	var gens []Generator
	for _, kind := range []Kind{KindQR, KindBar} {
		gen, err := New(kind, palette, LevelMedium)
		require.NoError(t, err)
		gens = append(gens, gen)
	}
	return gens
}

func TestGenerateExactSize(t *testing.T) {
	for _, gen := range generators(t, DefaultPalette()) {
		for _, size := range []int{10, 64, 200, 257, 1024} {
			img, err := gen.Generate("https://example.com/qrcreator", size)
			require.NoError(t, err, "%s at %d", gen.Kind(), size)
			assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds(), "%s at %d", gen.Kind(), size)
		}
	}
}

func TestGenerateEmptyText(t *testing.T) {
	for _, gen := range generators(t, DefaultPalette()) {
		img, err := gen.Generate("", 200)
		assert.Nil(t, img)
		assert.True(t, errors.Is(err, errorz.ErrEncodingFailed), "%s: %v", gen.Kind(), err)
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	for _, gen := range generators(t, DefaultPalette()) {
		_, err := gen.Generate("hello", 0)
		assert.ErrorIs(t, err, errorz.ErrEncodingFailed)
	}
}

func TestGenerateAboveMaxSize(t *testing.T) {
	for _, gen := range generators(t, DefaultPalette()) {
		for _, size := range []int{MaxSize + 1, 1 << 30} {
			img, err := gen.Generate("hello", size)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, errorz.ErrEncodingFailed, "%s at %d", gen.Kind(), size)
		}
	}
}

func TestGenerateAtMaxSize(t *testing.T) {
	img, err := QR{Palette: DefaultPalette(), Level: LevelLow}.Generate("hello", MaxSize)
	require.NoError(t, err)
	assert.Equal(t, MaxSize, img.Bounds().Dx())
	assert.Equal(t, MaxSize, img.Bounds().Dy())
}

func TestBarRejectsUnencodableText(t *testing.T) {
	_, err := Bar{Palette: DefaultPalette()}.Generate("привет", 200)
	assert.ErrorIs(t, err, errorz.ErrEncodingFailed)
}

func TestPixelsAreEitherForegroundOrBackground(t *testing.T) {
	palette := Palette{Foreground: color.RGBA{R: 200, G: 10, B: 10, A: 255}, Background: Clear}

	for _, gen := range generators(t, palette) {
		img, err := gen.Generate("crisp edges", 173)
		require.NoError(t, err)

		for y := 0; y < 173; y++ {
			for x := 0; x < 173; x++ {
				c := img.RGBAAt(x, y)
				if c != palette.Foreground && c != Clear {
					t.Fatalf("%s: unexpected interpolated color %v at (%d,%d)", gen.Kind(), c, x, y)
				}
			}
		}
	}
}

func TestStyleChangeKeepsModulePositions(t *testing.T) {
	white := Palette{Foreground: White, Background: Clear}
	black := Palette{Foreground: Black, Background: Clear}

	for _, kind := range []Kind{KindQR, KindBar} {
		wg, err := New(kind, white, LevelQuartile)
		require.NoError(t, err)
		bg, err := New(kind, black, LevelQuartile)
		require.NoError(t, err)

		wi, err := wg.Generate("same modules", 128)
		require.NoError(t, err)
		bi, err := bg.Generate("same modules", 128)
		require.NoError(t, err)

		for y := 0; y < 128; y++ {
			for x := 0; x < 128; x++ {
				w, b := wi.RGBAAt(x, y), bi.RGBAAt(x, y)
				require.Equal(t, w.A, b.A, "%s: module mismatch at (%d,%d)", kind, x, y)
				if w.A != 0 {
					require.Equal(t, White, w)
					require.Equal(t, Black, b)
				}
			}
		}
	}
}

func TestQRRoundTrip(t *testing.T) {
	gen := QR{Palette: Palette{Foreground: Black, Background: White}, Level: LevelHigh}

	img, err := gen.Generate("hello from qrcreator", 300)
	require.NoError(t, err)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	result, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello from qrcreator", result.GetText())
}

func TestBarColumnsAreUniform(t *testing.T) {
	img, err := Bar{Palette: Palette{Foreground: Black, Background: White}}.Generate("CODE-128", 240)
	require.NoError(t, err)

	for x := 0; x < 240; x++ {
		top := img.RGBAAt(x, 0)
		for y := 1; y < 240; y++ {
			require.Equal(t, top, img.RGBAAt(x, y), "column %d is not uniform", x)
		}
	}
	assert.Equal(t, White, img.RGBAAt(0, 120), "left quiet zone")
	assert.Equal(t, White, img.RGBAAt(239, 120), "right quiet zone")
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(Kind(42), DefaultPalette(), LevelMedium)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	kind, err := ParseKind("BAR")
	require.NoError(t, err)
	assert.Equal(t, KindBar, kind)

	_, err = ParseKind("aztec")
	assert.Error(t, err)

	for in, want := range map[string]Level{"l": LevelLow, "M": LevelMedium, "quartile": LevelQuartile, "H": LevelHigh} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = ParseLevel("X")
	assert.Error(t, err)
}

func TestEncodePNG(t *testing.T) {
	img, err := QR{Palette: DefaultPalette(), Level: LevelLow}.Generate("png", 64)
	require.NoError(t, err)

	data, err := EncodePNG(img)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}
