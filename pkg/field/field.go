package field

import (
	"fmt"
	"math"
)

// DefaultTimeTolerance is the time tolerance of a freshly created field.
const DefaultTimeTolerance = 1e-12

// DoubleField is an in-memory Field carrying float64 arrays.
type DoubleField struct {
	name      string
	spatial   SpatialKind
	kind      Kind
	mesh      Mesh
	arrays    []Array
	start     TimeStamp
	end       TimeStamp
	tolerance float64
}

var _ Field = (*DoubleField)(nil)

// NewDoubleField creates a field with no mesh and empty array slots.
// An unknown kind is accepted here and reported by CheckConsistencyLight.
func NewDoubleField(name string, spatial SpatialKind, kind Kind) *DoubleField {
	return &DoubleField{
		name:      name,
		spatial:   spatial,
		kind:      kind,
		arrays:    make([]Array, kind.NbOfArrays()),
		tolerance: DefaultTimeTolerance,
	}
}

func (f *DoubleField) Name() string                       { return f.name }
func (f *DoubleField) SpatialDiscretization() SpatialKind { return f.spatial }
func (f *DoubleField) TimeDiscretization() Kind           { return f.kind }
func (f *DoubleField) Mesh() Mesh                         { return f.mesh }
func (f *DoubleField) StartTime() TimeStamp               { return f.start }
func (f *DoubleField) EndTime() TimeStamp                 { return f.end }
func (f *DoubleField) TimeTolerance() float64             { return f.tolerance }
func (f *DoubleField) SetTimeTolerance(eps float64)       { f.tolerance = eps }

func (f *DoubleField) SetMesh(m Mesh) {
	if IsNil(m) {
		m = nil
	}
	f.mesh = m
}

// SetTime sets both start and end, as used by OneTime fields.
func (f *DoubleField) SetTime(t float64, iteration, order int) {
	f.start = TimeStamp{Time: t, Iteration: iteration, Order: order}
	f.end = f.start
}

func (f *DoubleField) SetStartTime(t float64, iteration, order int) {
	f.start = TimeStamp{Time: t, Iteration: iteration, Order: order}
}

func (f *DoubleField) SetEndTime(t float64, iteration, order int) {
	f.end = TimeStamp{Time: t, Iteration: iteration, Order: order}
}

func (f *DoubleField) Arrays() []Array {
	out := make([]Array, len(f.arrays))
	copy(out, f.arrays)
	return out
}

func (f *DoubleField) SetArrays(arrays []Array) error {
	if len(arrays) != f.kind.NbOfArrays() {
		return fmt.Errorf("field %q: %s expects %d arrays, got %d", f.name, f.kind, f.kind.NbOfArrays(), len(arrays))
	}
	f.arrays = make([]Array, len(arrays))
	for i, a := range arrays {
		if !IsNil(a) {
			f.arrays[i] = a
		}
	}
	return nil
}

// SetArray sets the first array slot.
func (f *DoubleField) SetArray(a Array) {
	if IsNil(a) {
		a = nil
	}
	f.arrays[0] = a
}

// SetEndArray sets the second array slot of a LinearTime field.
func (f *DoubleField) SetEndArray(a Array) error {
	if f.kind != LinearTime {
		return fmt.Errorf("field %q: end array is only available on %s, field is %s", f.name, LinearTime, f.kind)
	}
	if IsNil(a) {
		a = nil
	}
	f.arrays[1] = a
	return nil
}

func (f *DoubleField) CheckConsistencyLight() error {
	switch f.kind {
	case NoTime, OneTime, LinearTime, ConstOnTimeInterval:
	default:
		return fmt.Errorf("field %q: unknown time discretization %s", f.name, f.kind)
	}
	if len(f.arrays) != f.kind.NbOfArrays() {
		return fmt.Errorf("field %q: %s expects %d arrays, got %d", f.name, f.kind, f.kind.NbOfArrays(), len(f.arrays))
	}
	for i, a := range f.arrays {
		if a == nil {
			return fmt.Errorf("field %q: array #%d is not set", f.name, i)
		}
	}
	first := f.arrays[0]
	for _, a := range f.arrays[1:] {
		if a.NumberOfComponents() != first.NumberOfComponents() {
			return fmt.Errorf("field %q: arrays have mismatching number of components", f.name)
		}
		if a.NumberOfTuples() != first.NumberOfTuples() {
			return fmt.Errorf("field %q: arrays have mismatching number of tuples", f.name)
		}
	}
	return nil
}

// IsCompatibleForMergeWith reports whether both fields share a spatial
// discretization and live on meshes of the same dimension.
func (f *DoubleField) IsCompatibleForMergeWith(other Field) bool {
	if other == nil || f.spatial != other.SpatialDiscretization() {
		return false
	}
	om := other.Mesh()
	if f.mesh == nil || om == nil {
		return true
	}
	return f.mesh.SpaceDimension() == om.SpaceDimension()
}

func (f *DoubleField) Template() Template {
	return FieldTemplate{Name: f.name, Spatial: f.spatial}
}

func (f *DoubleField) TimeTinyInfo() ([]int, []float64) {
	doubles := []float64{f.tolerance}
	switch f.kind {
	case OneTime:
		return []int{f.start.Iteration, f.start.Order},
			append(doubles, f.start.Time)
	case LinearTime, ConstOnTimeInterval:
		return []int{f.start.Iteration, f.start.Order, f.end.Iteration, f.end.Order},
			append(doubles, f.start.Time, f.end.Time)
	default:
		return []int{}, doubles
	}
}

func (f *DoubleField) FinishTimeUnserialization(ints []int, doubles []float64) error {
	wantI, wantD := 0, 1
	switch f.kind {
	case OneTime:
		wantI, wantD = 2, 2
	case LinearTime, ConstOnTimeInterval:
		wantI, wantD = 4, 3
	}
	if len(ints) != wantI || len(doubles) != wantD {
		return fmt.Errorf("field %q: %s time info expects %d ints and %d doubles, got %d and %d",
			f.name, f.kind, wantI, wantD, len(ints), len(doubles))
	}
	f.tolerance = doubles[0]
	switch f.kind {
	case OneTime:
		f.SetTime(doubles[1], ints[0], ints[1])
	case LinearTime, ConstOnTimeInterval:
		f.SetStartTime(doubles[1], ints[0], ints[1])
		f.SetEndTime(doubles[2], ints[2], ints[3])
	}
	return nil
}

func (f *DoubleField) IsEqual(other Field, meshPrec, valsPrec float64) bool {
	if other == nil || f.name != other.Name() {
		return false
	}
	return f.isEqual(other, meshPrec, valsPrec, true)
}

func (f *DoubleField) IsEqualWithoutConsideringStr(other Field, meshPrec, valsPrec float64) bool {
	return f.isEqual(other, meshPrec, valsPrec, false)
}

func (f *DoubleField) isEqual(other Field, meshPrec, valsPrec float64, withStr bool) bool {
	o, ok := other.(*DoubleField)
	if !ok || o == nil {
		return false
	}
	if f.spatial != o.spatial || f.kind != o.kind {
		return false
	}
	if !stampEqual(f.start, o.start, f.tolerance) || !stampEqual(f.end, o.end, f.tolerance) {
		return false
	}
	if (f.mesh == nil) != (o.mesh == nil) {
		return false
	}
	if f.mesh != nil && f.mesh != o.mesh {
		if withStr && !f.mesh.IsEqual(o.mesh, meshPrec) {
			return false
		}
		if !withStr && !f.mesh.IsEqualWithoutConsideringStr(o.mesh, meshPrec) {
			return false
		}
	}
	if len(f.arrays) != len(o.arrays) {
		return false
	}
	for i, a := range f.arrays {
		b := o.arrays[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a == nil || a == b {
			continue
		}
		if withStr && !a.IsEqual(b, valsPrec) {
			return false
		}
		if !withStr && !a.IsEqualWithoutConsideringStr(b, valsPrec) {
			return false
		}
	}
	return true
}

func stampEqual(a, b TimeStamp, eps float64) bool {
	return a.Iteration == b.Iteration && a.Order == b.Order && math.Abs(a.Time-b.Time) <= eps
}

// FieldTemplate carries the non temporal attributes of a DoubleField.
type FieldTemplate struct {
	Name    string      `json:"name"`
	Spatial SpatialKind `json:"spatial"`
}

var _ Template = FieldTemplate{}

func (t FieldTemplate) NewField(kind Kind) (Field, error) {
	switch kind {
	case NoTime, OneTime, LinearTime, ConstOnTimeInterval:
		return NewDoubleField(t.Name, t.Spatial, kind), nil
	}
	return nil, fmt.Errorf("template %q: unknown time discretization %s", t.Name, kind)
}
