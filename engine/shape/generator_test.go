package shape

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRasterizer returns a canned bitmap (or error) instead of rendering
// text, so glyph sampling and the fallback path can be tested without
// depending on font rendering output.
type stubRasterizer struct {
	mask *image.Alpha
	err  error
}

func (s *stubRasterizer) Rasterize(text string, width, height int) (*image.Alpha, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.mask != nil {
		return s.mask, nil
	}
	return image.NewAlpha(image.Rect(0, 0, width, height)), nil
}

func TestNewGeneratorConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		option GeneratorBuilderOption
	}{
		{"zero blob radius", WithBlobRadius(0)},
		{"negative blob radius", WithBlobRadius(-1)},
		{"empty canvas", WithCanvas(0, 0)},
		{"zero canvas height", WithCanvas(100, 0)},
		{"zero font size", WithFontSize(0)},
		{"zero scan stride", WithScanStride(0)},
		{"zero glyph scale", WithGlyphScale(0)},
		{"negative depth jitter", WithDepthJitter(-0.1)},
		{"empty text", WithText("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.option)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, g)
		})
	}
}

func TestGenerateZeroOrNegativeCount(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)

	assert.Empty(t, g.Generate(ModeBlob, 0))
	assert.Empty(t, g.Generate(ModeGlyph, -5))
}

func TestBlobCountAndRadiusBound(t *testing.T) {
	const n = 500
	g, err := NewGenerator(WithRandomSource(rand.NewSource(1)))
	require.NoError(t, err)

	pts := g.Generate(ModeBlob, n)
	require.Len(t, pts, 3*n)

	for i := 0; i < n; i++ {
		x, y, z := pts[i*3], pts[i*3+1], pts[i*3+2]
		r := math32.Sqrt(x*x + y*y + z*z)
		assert.LessOrEqual(t, r, float32(DefaultBlobRadius)*1.0001,
			"point %d lies outside the blob sphere", i)
	}
}

func TestBlobSeededDeterminism(t *testing.T) {
	a, err := NewGenerator(WithRandomSource(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := NewGenerator(WithRandomSource(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, a.Generate(ModeBlob, 100), b.Generate(ModeBlob, 100))
}

func TestUnknownModeProducesBlob(t *testing.T) {
	g, err := NewGenerator(WithRandomSource(rand.NewSource(7)))
	require.NoError(t, err)

	pts := g.Generate(Mode(99), 50)
	require.Len(t, pts, 150)
	for i := 0; i < 50; i++ {
		x, y, z := pts[i*3], pts[i*3+1], pts[i*3+2]
		assert.LessOrEqual(t, math32.Sqrt(x*x+y*y+z*z), float32(DefaultBlobRadius)*1.0001)
	}
}

func TestGlyphBoundsAndMask(t *testing.T) {
	const n = 1000
	g, err := NewGenerator(WithRandomSource(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Nil(t, g.RasterMask(), "mask should not exist before glyph generation")

	pts := g.Generate(ModeGlyph, n)
	require.Len(t, pts, 3*n)
	assert.NotNil(t, g.RasterMask())

	halfW := float32(DefaultCanvasWidth) / 2 * DefaultGlyphScale
	halfH := float32(DefaultCanvasHeight) / 2 * DefaultGlyphScale
	for i := 0; i < n; i++ {
		assert.LessOrEqual(t, math32.Abs(pts[i*3]), halfW)
		assert.LessOrEqual(t, math32.Abs(pts[i*3+1]), halfH)
		assert.LessOrEqual(t, math32.Abs(pts[i*3+2]), float32(DefaultDepthJitter))
	}
}

func TestGlyphSamplesOnlyLitPixels(t *testing.T) {
	// A 10x10 canvas with one lit row of 10 pixels, just enough to clear
	// the fallback minimum. With stride 1, scale 1, and jitter 0, every
	// output point must land exactly on a lit pixel.
	const n = 300
	mask := image.NewAlpha(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		mask.SetAlpha(x, 4, color.Alpha{A: 255})
	}

	g, err := NewGenerator(
		WithRandomSource(rand.NewSource(11)),
		WithCanvas(10, 10),
		WithScanStride(1),
		WithGlyphScale(1),
		WithDepthJitter(0),
		WithRasterizer(&stubRasterizer{mask: mask}),
	)
	require.NoError(t, err)

	pts := g.Generate(ModeGlyph, n)
	require.Len(t, pts, 3*n)

	// Lit pixels sit on raster row y=4, which maps to world y = -(4-5) = 1
	// after the vertical flip; columns map to x in [-5, 4] and z is 0 with
	// jitter disabled.
	for i := 0; i < n; i++ {
		x, y, z := pts[i*3], pts[i*3+1], pts[i*3+2]
		assert.Equal(t, float32(1), y)
		assert.Equal(t, float32(0), z)
		assert.GreaterOrEqual(t, x, float32(-5))
		assert.LessOrEqual(t, x, float32(4))
		assert.Equal(t, x, float32(int(x)), "x must map to a whole pixel column")
	}
}

func TestGlyphFallbackOnSparseRaster(t *testing.T) {
	const n = 200
	g, err := NewGenerator(
		WithRandomSource(rand.NewSource(5)),
		WithRasterizer(&stubRasterizer{}), // all-transparent bitmap
	)
	require.NoError(t, err)

	pts := g.Generate(ModeGlyph, n)
	require.Len(t, pts, 3*n)

	for i := 0; i < n; i++ {
		assert.LessOrEqual(t, math32.Abs(pts[i*3]), float32(fallbackHalfWidth))
		assert.LessOrEqual(t, math32.Abs(pts[i*3+1]), float32(fallbackHalfHeight))
		assert.LessOrEqual(t, math32.Abs(pts[i*3+2]), float32(fallbackHalfDepth))
	}
}

func TestGlyphFallbackOnRasterError(t *testing.T) {
	const n = 100
	g, err := NewGenerator(
		WithRandomSource(rand.NewSource(9)),
		WithRasterizer(&stubRasterizer{err: errors.New("no font")}),
	)
	require.NoError(t, err)

	pts := g.Generate(ModeGlyph, n)
	require.Len(t, pts, 3*n, "rasterization failure must still yield a full cloud")
	for i := 0; i < n; i++ {
		assert.LessOrEqual(t, math32.Abs(pts[i*3]), float32(fallbackHalfWidth))
	}
}

func TestGeneratorText(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	assert.Equal(t, DefaultText, g.Text())

	g, err = NewGenerator(WithText("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Text())
}
