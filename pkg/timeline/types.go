// Package timeline indexes a sequence of time discretized fields so that a
// coupling engine can ask which stored arrays apply at a given time.
package timeline

import (
	"fmt"

	"github.com/leowmjw/go-field-timeline/pkg/field"
)

// SliceType tags a slice variant on the wire. Values match field.Kind codes.
type SliceType int

const (
	InstantType             SliceType = SliceType(field.OneTime)
	LinearTimeType          SliceType = SliceType(field.LinearTime)
	ConstOnTimeIntervalType SliceType = SliceType(field.ConstOnTimeInterval)
)

func (t SliceType) String() string {
	switch t {
	case InstantType:
		return "instant"
	case LinearTimeType:
		return "linear_time"
	case ConstOnTimeIntervalType:
		return "const_on_time_interval"
	default:
		return fmt.Sprintf("slice_type(%d)", int(t))
	}
}

// Ids locates the stored data applying at a queried time.
type Ids struct {
	MeshID int `json:"mesh_id"`
	// ArrayID is the index of the array in the deduplicated array list.
	ArrayID int `json:"array_id"`
	// ArrayIndexInField is 0 for the start array and 1 for the end array of a linear slice.
	ArrayIndexInField int `json:"array_index_in_field"`
	FieldID           int `json:"field_id"`
}

// Slice is the temporal extent of one field.
// The set of implementations is closed: *Instant, *ConstOnTimeInterval and *LinearTime.
type Slice interface {
	Type() SliceType
	MeshID() int
	ArrayID() int
	FieldID() int
	StartTime() float64
	EndTime() float64
	IsContaining(t, eps float64) bool
	IdsOnTime(t, eps float64) (Ids, error)
	HotSpotsTime() []float64
	IsEqual(other Slice, eps float64) bool
	Copy() Slice
	TinySerializationInformation() ([]int, []float64)
	String() string

	sealed()
}

// ids holds the identifiers common to every slice.
type ids struct {
	meshID  int
	arrayID int
	fieldID int
}

func (s ids) MeshID() int  { return s.meshID }
func (s ids) ArrayID() int { return s.arrayID }
func (s ids) FieldID() int { return s.fieldID }

func (s ids) equal(o ids) bool {
	return s == o
}

func (s ids) tinyInts() []int {
	return []int{s.meshID, s.arrayID, s.fieldID}
}

func (ids) sealed() {}
