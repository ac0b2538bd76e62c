package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i)
	}
	Identity(m)

	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			want := float32(0)
			if col == row {
				want = 1
			}
			assert.Equal(t, want, m[col*4+row])
		}
	}
}

func TestMul4Identity(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)

	m := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}

	out := make([]float32, 16)
	Mul4(out, id, m)
	assert.Equal(t, m, out)
	Mul4(out, m, id)
	assert.Equal(t, m, out)
}

func TestMul4Aliasing(t *testing.T) {
	a := []float32{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	b := make([]float32, 16)
	Identity(b)
	b[12] = 3 // translation x

	// out aliases a; the buffered multiply must still be correct.
	Mul4(a, a, b)
	assert.Equal(t, float32(6), a[12])
	assert.Equal(t, float32(2), a[0])
}

func TestOrientationMatrixZeroIsIdentity(t *testing.T) {
	m := make([]float32, 16)
	OrientationMatrix(m, 0, 0)

	id := make([]float32, 16)
	Identity(id)
	for i := range id {
		assert.InDelta(t, id[i], m[i], 1e-6)
	}
}

func TestOrientationMatrixPreservesLength(t *testing.T) {
	m := make([]float32, 16)
	OrientationMatrix(m, 0.7, -0.3)

	// Rotate the unit x vector and check it stays unit length.
	x := m[0]
	y := m[1]
	z := m[2]
	assert.InDelta(t, 1.0, x*x+y*y+z*z, 1e-5)
}

func TestPerspectiveDepthRange(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, 1.0, 16.0/9.0, 0.1, 100)

	// WebGPU convention: w comes from -z.
	assert.Equal(t, float32(-1), m[11])
	assert.Equal(t, float32(0), m[15])
}

func TestLookAtOrigin(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// A point at the origin maps to -5 on the view z axis (in front of the
	// camera looking down -z).
	z := m[2]*0 + m[6]*0 + m[10]*0 + m[14]
	assert.InDelta(t, -5.0, z, 1e-5)
}
