// Package field defines the collaborators the timeline core reads from:
// fields, the meshes they live on and the value arrays they carry.
//
// The timeline core only inspects temporal metadata of a field and the
// identity of its mesh and arrays. Mesh and Array implementations must be
// pointer types so that two fields sharing the same object compare equal
// with ==.
package field

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the temporal sampling convention of a field value.
// The integer codes are part of the flattened wire layout.
type Kind int

const (
	NoTime              Kind = 4
	OneTime             Kind = 5
	LinearTime          Kind = 6
	ConstOnTimeInterval Kind = 7
)

func (k Kind) String() string {
	switch k {
	case NoTime:
		return "no_time"
	case OneTime:
		return "one_time"
	case LinearTime:
		return "linear_time"
	case ConstOnTimeInterval:
		return "const_on_time_interval"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NbOfArrays is the number of array slots a field of this kind carries.
func (k Kind) NbOfArrays() int {
	if k == LinearTime {
		return 2
	}
	return 1
}

// ParseKind parses the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no_time":
		return NoTime, nil
	case "one_time":
		return OneTime, nil
	case "linear_time":
		return LinearTime, nil
	case "const_on_time_interval":
		return ConstOnTimeInterval, nil
	}
	return 0, fmt.Errorf("unknown time discretization %q", s)
}

// SpatialKind is where field values are located on the mesh.
type SpatialKind string

const (
	OnCells       SpatialKind = "on_cells"
	OnNodes       SpatialKind = "on_nodes"
	OnGaussPoints SpatialKind = "on_gauss_pt"
	OnGaussNE     SpatialKind = "on_gauss_ne"
)

// TimeStamp is a time value with its iteration/order stamp.
// Iteration and Order are carried along but never interpreted by the timeline.
type TimeStamp struct {
	Time      float64 `json:"time"`
	Iteration int     `json:"iteration"`
	Order     int     `json:"order"`
}

// Mesh is an opaque mesh handle. A nil pointer wrapped in a Mesh is treated
// as no mesh at all; see IsNil.
type Mesh interface {
	Name() string
	SpaceDimension() int
	DeepCopy() Mesh
	IsEqual(other Mesh, prec float64) bool
	IsEqualWithoutConsideringStr(other Mesh, prec float64) bool
}

// Array is an opaque value array handle. As for Mesh, a wrapped nil pointer
// means an empty slot.
type Array interface {
	Name() string
	NumberOfComponents() int
	NumberOfTuples() int
	DeepCopy() Array
	IsEqual(other Array, prec float64) bool
	IsEqualWithoutConsideringStr(other Array, prec float64) bool
}

// Template builds empty fields sharing the non temporal attributes of the
// field it was taken from.
type Template interface {
	NewField(kind Kind) (Field, error)
}

// Field is a time discretized field of values on a mesh.
type Field interface {
	Name() string
	SpatialDiscretization() SpatialKind
	Mesh() Mesh
	// SetMesh stores a typed nil as a nil Mesh.
	SetMesh(m Mesh)
	// Arrays returns one slot per time sub discretization; slots may be nil.
	Arrays() []Array
	// SetArrays stores typed nils as nil slots.
	SetArrays(arrays []Array) error
	TimeDiscretization() Kind
	StartTime() TimeStamp
	EndTime() TimeStamp
	TimeTolerance() float64
	CheckConsistencyLight() error
	IsCompatibleForMergeWith(other Field) bool
	Template() Template
	// TimeTinyInfo flattens the time discretization state.
	TimeTinyInfo() ([]int, []float64)
	FinishTimeUnserialization(ints []int, doubles []float64) error
	IsEqual(other Field, meshPrec, valsPrec float64) bool
	IsEqualWithoutConsideringStr(other Field, meshPrec, valsPrec float64) bool
}

// IsNil reports whether v is nil or an interface holding a nil pointer.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
