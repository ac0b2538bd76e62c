package shape

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/go-fonts/latin-modern/lmroman10bold"
)

// Mode identifies one of the two built-in point-cloud shapes.
type Mode int

const (
	// ModeBlob is the default volumetric sphere cloud.
	ModeBlob Mode = iota

	// ModeGlyph is the cloud derived from rasterized display text.
	ModeGlyph
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeBlob:
		return "blob"
	case ModeGlyph:
		return "glyph"
	default:
		return "unknown"
	}
}

// Default generation parameters. All of them are overridable via the
// With* builder options; the values match the calibration of the
// reference point cloud.
const (
	// DefaultBlobRadius is the radius of the volumetric blob sphere.
	DefaultBlobRadius = 1.8

	// DefaultText is the display string rasterized for glyph mode.
	DefaultText = "I love you"

	// DefaultCanvasWidth and DefaultCanvasHeight are the offscreen raster
	// bitmap dimensions in pixels.
	DefaultCanvasWidth  = 900
	DefaultCanvasHeight = 260

	// DefaultFontSize is the glyph rendering size in points at 72 DPI.
	DefaultFontSize = 120

	// DefaultAlphaThreshold is the minimum coverage value (out of 255) for
	// a scanned pixel to count as part of the glyph shape.
	DefaultAlphaThreshold = 40

	// DefaultScanStride is the pixel step used when scanning the raster
	// bitmap in both axes.
	DefaultScanStride = 2

	// DefaultGlyphScale maps raster pixel coordinates to world units,
	// sizing the glyph cloud comparably to the blob.
	DefaultGlyphScale = 0.01

	// DefaultDepthJitter is the half-range of the random z offset applied
	// to glyph points for visual volume.
	DefaultDepthJitter = 0.04
)

// minGlyphPixels is the minimum number of scanned pixels required before
// the glyph strategy trusts the rasterization; below this the fallback
// ellipsoid cloud is produced instead.
const minGlyphPixels = 10

// ErrInvalidConfig is returned by NewGenerator when a generation constant
// is set to a value that would make later generation calls undefined
// (zero canvas, zero stride, non-positive radius or scale).
var ErrInvalidConfig = errors.New("shape: invalid generator configuration")

// generator is the implementation of the Generator interface.
type generator struct {
	mu *sync.Mutex

	rng *rand.Rand

	blobRadius float32

	text           string
	canvasWidth    int
	canvasHeight   int
	fontSize       float64
	alphaThreshold uint8
	scanStride     int
	glyphScale     float32
	depthJitter    float32

	raster Rasterizer

	// mask holds the most recent glyph raster bitmap for debug inspection.
	mask *image.Alpha
}

// Generator produces fixed-length point-cloud target configurations for a
// requested shape mode. Both strategies always return exactly n points;
// the glyph strategy degrades to a built-in ellipsoid cloud when
// rasterization yields too few usable pixels, never an error.
//
// Point sets are returned as flat []float32 buffers, 3 scalars per point
// (x, y, z), row-major per particle, matching the layout the renderer
// uploads to the GPU.
type Generator interface {
	// Generate produces a point-cloud configuration for the given mode.
	// The blob strategy samples fresh points on every call; callers that
	// need a stable resting shape must cache the returned slice (the morph
	// animator does this for its blob base).
	//
	// Parameters:
	//   - mode: the shape mode to generate (unknown modes produce a blob)
	//   - n: the number of points to produce
	//
	// Returns:
	//   - []float32: flat buffer of exactly 3*n scalars
	Generate(mode Mode, n int) []float32

	// Text returns the display string used by the glyph strategy.
	//
	// Returns:
	//   - string: the configured display text
	Text() string

	// RasterMask returns the most recent glyph raster bitmap, or nil if
	// glyph mode has not been generated yet. Intended for debug tooling.
	//
	// Returns:
	//   - *image.Alpha: the last coverage bitmap, or nil
	RasterMask() *image.Alpha
}

var _ Generator = &generator{}

// NewGenerator creates a new Generator with the provided options.
// Defaults are applied first, then each option in order. Configuration is
// validated fail-fast: any constant that would make generation undefined
// (zero canvas dimensions, zero stride, non-positive radius, scale, or
// font size) is rejected here rather than surfacing at generation time.
//
// Parameters:
//   - options: functional options to configure the generator
//
// Returns:
//   - Generator: the configured generator
//   - error: ErrInvalidConfig (wrapped) if a constant is out of range
func NewGenerator(options ...GeneratorBuilderOption) (Generator, error) {
	g := &generator{
		mu:             &sync.Mutex{},
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		blobRadius:     DefaultBlobRadius,
		text:           DefaultText,
		canvasWidth:    DefaultCanvasWidth,
		canvasHeight:   DefaultCanvasHeight,
		fontSize:       DefaultFontSize,
		alphaThreshold: DefaultAlphaThreshold,
		scanStride:     DefaultScanStride,
		glyphScale:     DefaultGlyphScale,
		depthJitter:    DefaultDepthJitter,
	}

	for _, opt := range options {
		opt(g)
	}

	switch {
	case g.blobRadius <= 0:
		return nil, fmt.Errorf("%w: blob radius must be > 0, got %v", ErrInvalidConfig, g.blobRadius)
	case g.canvasWidth <= 0 || g.canvasHeight <= 0:
		return nil, fmt.Errorf("%w: canvas must be non-empty, got %dx%d", ErrInvalidConfig, g.canvasWidth, g.canvasHeight)
	case g.fontSize <= 0:
		return nil, fmt.Errorf("%w: font size must be > 0, got %v", ErrInvalidConfig, g.fontSize)
	case g.scanStride <= 0:
		return nil, fmt.Errorf("%w: scan stride must be > 0, got %d", ErrInvalidConfig, g.scanStride)
	case g.glyphScale <= 0:
		return nil, fmt.Errorf("%w: glyph scale must be > 0, got %v", ErrInvalidConfig, g.glyphScale)
	case g.depthJitter < 0:
		return nil, fmt.Errorf("%w: depth jitter must be >= 0, got %v", ErrInvalidConfig, g.depthJitter)
	case g.text == "":
		return nil, fmt.Errorf("%w: display text must not be empty", ErrInvalidConfig)
	}

	if g.raster == nil {
		r, err := NewFaceRasterizer(lmroman10bold.TTF, g.fontSize)
		if err != nil {
			return nil, fmt.Errorf("shape: failed to build default rasterizer: %w", err)
		}
		g.raster = r
	}

	return g, nil
}

func (g *generator) Generate(mode Mode, n int) []float32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n <= 0 {
		return []float32{}
	}

	switch mode {
	case ModeGlyph:
		return g.generateGlyph(n)
	case ModeBlob:
		fallthrough
	default:
		return g.generateBlob(n)
	}
}

func (g *generator) Text() string {
	return g.text
}

func (g *generator) RasterMask() *image.Alpha {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mask
}
