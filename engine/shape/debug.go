package shape

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// EncodeRasterDebug writes the generator's most recent glyph raster bitmap
// to w as a lossless WebP image, coverage mapped to grayscale. Useful for
// inspecting rasterization quality offline when tuning the canvas, font
// size, or alpha threshold.
//
// Parameters:
//   - w: destination writer
//   - g: the generator whose raster mask should be encoded
//
// Returns:
//   - error: an error if no raster has been produced yet or encoding fails
func EncodeRasterDebug(w io.Writer, g Generator) error {
	mask := g.RasterMask()
	if mask == nil {
		return fmt.Errorf("shape: no glyph raster has been produced yet")
	}

	bounds := mask.Bounds()
	img := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			img.SetNRGBA(x, y, color.NRGBA{R: a, G: a, B: a, A: 0xff})
		}
	}

	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("shape: failed to encode raster debug image: %w", err)
	}
	return nil
}
