package shape

import (
	"github.com/chewxy/math32"
)

// generateBlob samples n points uniformly by volume inside a sphere of
// the configured radius. The radius of each sample is R * cbrt(u) rather
// than R * u: the cube root compensates for the r² growth of shell volume,
// so density stays uniform instead of clumping at the center. Angles use
// the standard uniform-sphere parameterization (theta uniform on [0, 2π),
// phi = acos(2u - 1)).
//
// Caller must hold g.mu.
func (g *generator) generateBlob(n int) []float32 {
	out := make([]float32, 3*n)
	for i := 0; i < n; i++ {
		r := g.blobRadius * math32.Cbrt(g.rng.Float32())
		theta := g.rng.Float32() * 2 * math32.Pi
		phi := math32.Acos(2*g.rng.Float32() - 1)

		sinPhi := math32.Sin(phi)
		out[i*3+0] = r * sinPhi * math32.Cos(theta)
		out[i*3+1] = r * sinPhi * math32.Sin(theta)
		out[i*3+2] = r * math32.Cos(phi)
	}
	return out
}
