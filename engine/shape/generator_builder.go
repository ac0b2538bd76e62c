package shape

import "math/rand"

// GeneratorBuilderOption is a functional option for configuring a Generator during construction.
type GeneratorBuilderOption func(*generator)

// WithBlobRadius is an option builder that sets the radius of the volumetric blob sphere.
//
// Parameters:
//   - radius: the sphere radius in world units
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the radius option to a generator
func WithBlobRadius(radius float32) GeneratorBuilderOption {
	return func(g *generator) {
		g.blobRadius = radius
	}
}

// WithText is an option builder that sets the display string rasterized in glyph mode.
//
// Parameters:
//   - text: the display string
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the text option to a generator
func WithText(text string) GeneratorBuilderOption {
	return func(g *generator) {
		g.text = text
	}
}

// WithCanvas is an option builder that sets the offscreen raster bitmap dimensions.
//
// Parameters:
//   - width: bitmap width in pixels
//   - height: bitmap height in pixels
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the canvas option to a generator
func WithCanvas(width, height int) GeneratorBuilderOption {
	return func(g *generator) {
		g.canvasWidth = width
		g.canvasHeight = height
	}
}

// WithFontSize is an option builder that sets the glyph rendering size in points (72 DPI).
// Only affects the default rasterizer; a custom Rasterizer ignores it.
//
// Parameters:
//   - points: the font size in points
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the font size option to a generator
func WithFontSize(points float64) GeneratorBuilderOption {
	return func(g *generator) {
		g.fontSize = points
	}
}

// WithAlphaThreshold is an option builder that sets the minimum coverage
// value for a scanned pixel to count as part of the glyph shape.
//
// Parameters:
//   - threshold: coverage threshold out of 255
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the threshold option to a generator
func WithAlphaThreshold(threshold uint8) GeneratorBuilderOption {
	return func(g *generator) {
		g.alphaThreshold = threshold
	}
}

// WithScanStride is an option builder that sets the pixel step used when
// scanning the raster bitmap in both axes.
//
// Parameters:
//   - stride: pixel step (>= 1)
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the stride option to a generator
func WithScanStride(stride int) GeneratorBuilderOption {
	return func(g *generator) {
		g.scanStride = stride
	}
}

// WithGlyphScale is an option builder that sets the raster-pixel to
// world-unit scale of the glyph cloud.
//
// Parameters:
//   - scale: world units per raster pixel
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the scale option to a generator
func WithGlyphScale(scale float32) GeneratorBuilderOption {
	return func(g *generator) {
		g.glyphScale = scale
	}
}

// WithDepthJitter is an option builder that sets the half-range of the
// random z offset applied to glyph points.
//
// Parameters:
//   - jitter: half-range in world units (0 disables jitter)
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the jitter option to a generator
func WithDepthJitter(jitter float32) GeneratorBuilderOption {
	return func(g *generator) {
		g.depthJitter = jitter
	}
}

// WithRandomSource is an option builder that sets the random source used by
// both sampling strategies. Supplying a fixed-seed source makes generation
// fully deterministic, which tests rely on to assert exact output arrays.
//
// Parameters:
//   - src: the random source to draw from
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the random source option to a generator
func WithRandomSource(src rand.Source) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = rand.New(src)
	}
}

// WithRasterizer is an option builder that replaces the default
// opentype-backed rasterizer. Primarily used by tests to stub
// rasterization and exercise the fallback path.
//
// Parameters:
//   - r: the rasterizer to use for glyph mode
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the rasterizer option to a generator
func WithRasterizer(r Rasterizer) GeneratorBuilderOption {
	return func(g *generator) {
		g.raster = r
	}
}
