package timeline

import (
	"fmt"
	"math"
)

// Instant is a field defined at a single time.
type Instant struct {
	ids
	instant float64
}

// NewInstant creates an instant slice.
func NewInstant(meshID, arrayID, fieldID int, instant float64) *Instant {
	return &Instant{ids: ids{meshID, arrayID, fieldID}, instant: instant}
}

func (s *Instant) Type() SliceType    { return InstantType }
func (s *Instant) Instant() float64   { return s.instant }
func (s *Instant) StartTime() float64 { return s.instant }
func (s *Instant) EndTime() float64   { return s.instant }

func (s *Instant) HotSpotsTime() []float64 {
	return []float64{s.instant}
}

func (s *Instant) IsContaining(t, eps float64) bool {
	return math.Abs(t-s.instant) < eps
}

func (s *Instant) IdsOnTime(t, eps float64) (Ids, error) {
	return Ids{MeshID: s.meshID, ArrayID: s.arrayID, ArrayIndexInField: 0, FieldID: s.fieldID}, nil
}

func (s *Instant) IsEqual(other Slice, eps float64) bool {
	o, ok := other.(*Instant)
	if !ok || o == nil {
		return false
	}
	return s.ids.equal(o.ids) && math.Abs(s.instant-o.instant) < eps
}

func (s *Instant) Copy() Slice {
	c := *s
	return &c
}

func (s *Instant) TinySerializationInformation() ([]int, []float64) {
	return s.tinyInts(), []float64{s.instant}
}

func (s *Instant) String() string {
	return fmt.Sprintf("Instant on time %g (mesh %d, array %d, field %d)", s.instant, s.meshID, s.arrayID, s.fieldID)
}

// ConstOnTimeInterval is a field constant over [start, end].
type ConstOnTimeInterval struct {
	ids
	start float64
	end   float64
}

// NewConstOnTimeInterval creates a constant-on-interval slice.
func NewConstOnTimeInterval(meshID, arrayID, fieldID int, start, end float64) *ConstOnTimeInterval {
	return &ConstOnTimeInterval{ids: ids{meshID, arrayID, fieldID}, start: start, end: end}
}

func (s *ConstOnTimeInterval) Type() SliceType    { return ConstOnTimeIntervalType }
func (s *ConstOnTimeInterval) StartTime() float64 { return s.start }
func (s *ConstOnTimeInterval) EndTime() float64   { return s.end }

// HotSpotsTime returns the middle of the interval: the value is the same everywhere.
func (s *ConstOnTimeInterval) HotSpotsTime() []float64 {
	return []float64{(s.start + s.end) / 2.}
}

func (s *ConstOnTimeInterval) IsContaining(t, eps float64) bool {
	return t > s.start-eps && t < s.end+eps
}

func (s *ConstOnTimeInterval) IdsOnTime(t, eps float64) (Ids, error) {
	return Ids{MeshID: s.meshID, ArrayID: s.arrayID, ArrayIndexInField: 0, FieldID: s.fieldID}, nil
}

func (s *ConstOnTimeInterval) IsEqual(other Slice, eps float64) bool {
	o, ok := other.(*ConstOnTimeInterval)
	if !ok || o == nil {
		return false
	}
	return s.ids.equal(o.ids) && math.Abs(s.start-o.start) < eps && math.Abs(s.end-o.end) < eps
}

func (s *ConstOnTimeInterval) Copy() Slice {
	c := *s
	return &c
}

func (s *ConstOnTimeInterval) TinySerializationInformation() ([]int, []float64) {
	return s.tinyInts(), []float64{s.start, s.end}
}

func (s *ConstOnTimeInterval) String() string {
	return fmt.Sprintf("Constant on time interval [%g,%g] (mesh %d, array %d, field %d)",
		s.start, s.end, s.meshID, s.arrayID, s.fieldID)
}

// LinearTime is a field varying linearly between a start array and an end array.
type LinearTime struct {
	ids
	start      float64
	end        float64
	endArrayID int
}

// NewLinearTime creates a linear slice; arrayID holds the start values.
func NewLinearTime(meshID, arrayID, endArrayID, fieldID int, start, end float64) *LinearTime {
	return &LinearTime{ids: ids{meshID, arrayID, fieldID}, start: start, end: end, endArrayID: endArrayID}
}

func (s *LinearTime) Type() SliceType    { return LinearTimeType }
func (s *LinearTime) StartTime() float64 { return s.start }
func (s *LinearTime) EndTime() float64   { return s.end }
func (s *LinearTime) EndArrayID() int    { return s.endArrayID }

func (s *LinearTime) HotSpotsTime() []float64 {
	return []float64{s.start, s.end}
}

func (s *LinearTime) IsContaining(t, eps float64) bool {
	return t > s.start-eps && t < s.end+eps
}

// IdsOnTime only resolves the two boundaries; values in between have to be
// interpolated by the caller, who should iterate over the hot spots instead.
func (s *LinearTime) IdsOnTime(t, eps float64) (Ids, error) {
	if math.Abs(t-s.start) < eps {
		return Ids{MeshID: s.meshID, ArrayID: s.arrayID, ArrayIndexInField: 0, FieldID: s.fieldID}, nil
	}
	if math.Abs(t-s.end) < eps {
		return Ids{MeshID: s.meshID, ArrayID: s.endArrayID, ArrayIndexInField: 1, FieldID: s.fieldID}, nil
	}
	return Ids{}, fmt.Errorf("%w: time %g is not in boundary of linear slice [%g,%g]; use hot spots", ErrQuery, t, s.start, s.end)
}

func (s *LinearTime) IsEqual(other Slice, eps float64) bool {
	o, ok := other.(*LinearTime)
	if !ok || o == nil {
		return false
	}
	return s.ids.equal(o.ids) && s.endArrayID == o.endArrayID &&
		math.Abs(s.start-o.start) < eps && math.Abs(s.end-o.end) < eps
}

func (s *LinearTime) Copy() Slice {
	c := *s
	return &c
}

func (s *LinearTime) TinySerializationInformation() ([]int, []float64) {
	return append(s.tinyInts(), s.endArrayID), []float64{s.start, s.end}
}

func (s *LinearTime) String() string {
	return fmt.Sprintf("Linear on time interval [%g,%g] (mesh %d, arrays %d,%d, field %d)",
		s.start, s.end, s.meshID, s.arrayID, s.endArrayID, s.fieldID)
}
