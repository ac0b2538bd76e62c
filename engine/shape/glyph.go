package shape

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Fallback ellipsoid extents: a flat, centered placeholder cloud produced
// when rasterization yields too few usable pixels. Never empty, never
// degenerate.
const (
	fallbackHalfWidth  = 1.0
	fallbackHalfHeight = 0.4
	fallbackHalfDepth  = 0.1
)

// Rasterizer renders display text into an offscreen coverage bitmap.
// Implementations must be synchronous and bounded-cost; rasterization runs
// once per mode transition, never per frame.
type Rasterizer interface {
	// Rasterize renders text centered into an alpha coverage bitmap of the
	// given dimensions.
	//
	// Parameters:
	//   - text: the display string to render
	//   - width: bitmap width in pixels
	//   - height: bitmap height in pixels
	//
	// Returns:
	//   - *image.Alpha: the coverage bitmap
	//   - error: an error if the text could not be rendered
	Rasterize(text string, width, height int) (*image.Alpha, error)
}

// faceRasterizer rasterizes text with an opentype font face.
type faceRasterizer struct {
	face font.Face
}

var _ Rasterizer = &faceRasterizer{}

// NewFaceRasterizer creates a Rasterizer from raw font file bytes at the
// given point size (72 DPI, so points equal pixels).
//
// Parameters:
//   - fontBytes: TTF/OTF font file contents
//   - points: the rendering size in points
//
// Returns:
//   - Rasterizer: the configured rasterizer
//   - error: an error if the font cannot be parsed or the face created
func NewFaceRasterizer(fontBytes []byte, points float64) (Rasterizer, error) {
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("shape: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: points,
		DPI:  72,
	})
	if err != nil {
		return nil, fmt.Errorf("shape: failed to create font face: %w", err)
	}
	return &faceRasterizer{face: face}, nil
}

func (r *faceRasterizer) Rasterize(text string, width, height int) (*image.Alpha, error) {
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: r.face,
	}

	// Center horizontally on the advance width and vertically on the
	// ascent/descent midline.
	adv := d.MeasureString(text)
	metrics := r.face.Metrics()
	d.Dot = fixed.Point26_6{
		X: (fixed.I(width) - adv) / 2,
		Y: (fixed.I(height) + metrics.Ascent - metrics.Descent) / 2,
	}
	d.DrawString(text)

	return dst, nil
}

// generateGlyph produces n points sampled from the rasterized display
// text. The bitmap is scanned at the configured stride and pixels above
// the alpha threshold are collected; each output particle then draws one
// collected pixel uniformly at random with replacement (n is independent
// of, and typically much larger than, the collected pixel count). Pixel
// coordinates map to world space with the configured scale and a vertical
// flip so +y is up, plus a small random depth for visual volume.
//
// A raster that yields fewer than minGlyphPixels usable pixels falls back
// to the ellipsoid cloud; that path never propagates an error.
//
// Caller must hold g.mu.
func (g *generator) generateGlyph(n int) []float32 {
	var pixels [][2]int

	mask, err := g.raster.Rasterize(g.text, g.canvasWidth, g.canvasHeight)
	if err != nil {
		log.Printf("[Shape] glyph rasterization failed: %v", err)
	} else {
		for y := 0; y < g.canvasHeight; y += g.scanStride {
			for x := 0; x < g.canvasWidth; x += g.scanStride {
				if mask.AlphaAt(x, y).A > g.alphaThreshold {
					pixels = append(pixels, [2]int{x, y})
				}
			}
		}
	}
	g.mask = mask

	if len(pixels) < minGlyphPixels {
		log.Printf("[Shape] glyph raster produced %d usable pixels, using fallback cloud", len(pixels))
		return g.generateFallback(n)
	}

	halfW := float32(g.canvasWidth) / 2
	halfH := float32(g.canvasHeight) / 2

	out := make([]float32, 3*n)
	for i := 0; i < n; i++ {
		p := pixels[g.rng.Intn(len(pixels))]
		out[i*3+0] = (float32(p[0]) - halfW) * g.glyphScale
		out[i*3+1] = -(float32(p[1]) - halfH) * g.glyphScale
		out[i*3+2] = (g.rng.Float32()*2 - 1) * g.depthJitter
	}
	return out
}

// generateFallback produces the flat ellipsoid placeholder cloud.
//
// Caller must hold g.mu.
func (g *generator) generateFallback(n int) []float32 {
	out := make([]float32, 3*n)
	for i := 0; i < n; i++ {
		out[i*3+0] = (g.rng.Float32()*2 - 1) * fallbackHalfWidth
		out[i*3+1] = (g.rng.Float32()*2 - 1) * fallbackHalfHeight
		out[i*3+2] = (g.rng.Float32()*2 - 1) * fallbackHalfDepth
	}
	return out
}
