package field

import "math"

// MemMesh is an in-memory mesh holding node coordinates only.
type MemMesh struct {
	name     string
	spaceDim int
	coords   []float64
}

var _ Mesh = (*MemMesh)(nil)

// NewMemMesh creates a mesh of the given space dimension.
func NewMemMesh(name string, spaceDim int, coords []float64) *MemMesh {
	c := make([]float64, len(coords))
	copy(c, coords)
	return &MemMesh{name: name, spaceDim: spaceDim, coords: c}
}

func (m *MemMesh) Name() string        { return m.name }
func (m *MemMesh) SpaceDimension() int { return m.spaceDim }

// Coords returns a copy of the node coordinates.
func (m *MemMesh) Coords() []float64 {
	c := make([]float64, len(m.coords))
	copy(c, m.coords)
	return c
}

func (m *MemMesh) DeepCopy() Mesh {
	return NewMemMesh(m.name, m.spaceDim, m.coords)
}

func (m *MemMesh) IsEqual(other Mesh, prec float64) bool {
	if other == nil || m.name != other.Name() {
		return false
	}
	return m.IsEqualWithoutConsideringStr(other, prec)
}

func (m *MemMesh) IsEqualWithoutConsideringStr(other Mesh, prec float64) bool {
	o, ok := other.(*MemMesh)
	if !ok || o == nil {
		return false
	}
	if m.spaceDim != o.spaceDim {
		return false
	}
	return floatsEqual(m.coords, o.coords, prec)
}

func floatsEqual(a, b []float64, prec float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > prec {
			return false
		}
	}
	return true
}
