package timeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/leowmjw/go-field-timeline/pkg/field"
)

// DefaultEps is the tolerance of an empty timeline.
const DefaultEps = 1e-15

// Timeline is an ordered list of slices, strictly ascending in time within eps.
// The zero value is not usable; call New, Build or Unflatten.
type Timeline struct {
	slices []Slice
	eps    float64
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{eps: DefaultEps}
}

// Build classifies every field into a slice. meshRefs[i] and arrayRefs[i] are
// the deduplicated mesh index and array indices of fields[i].
func Build(fields []field.Field, meshRefs []int, arrayRefs [][]int) (*Timeline, error) {
	tl := New()
	if err := tl.Assign(fields, meshRefs, arrayRefs); err != nil {
		return nil, err
	}
	return tl, nil
}

// Assign replaces the content of tl. On error tl is left untouched.
func (tl *Timeline) Assign(fields []field.Field, meshRefs []int, arrayRefs [][]int) error {
	if len(meshRefs) != len(fields) || len(arrayRefs) != len(fields) {
		return fmt.Errorf("%w: %d fields but %d mesh refs and %d array refs",
			ErrConstruction, len(fields), len(meshRefs), len(arrayRefs))
	}

	slices := make([]Slice, len(fields))
	for i, f := range fields {
		s, err := Classify(f, meshRefs[i], arrayRefs[i], i)
		if err != nil {
			return err
		}
		slices[i] = s
	}

	eps := tl.eps
	if len(slices) > 1 {
		eps = fields[0].TimeTolerance()
		for i := 1; i < len(slices); i++ {
			if !IsAfterMe(slices[i-1], slices[i], eps) {
				return fmt.Errorf("%w: sequence of fields does not define a strictly ascending monotonic time sequence (field #%d vs #%d)",
					ErrConstruction, i-1, i)
			}
		}
	}

	tl.slices = slices
	tl.eps = eps
	return nil
}

// AssignFrom deep copies other into tl.
func (tl *Timeline) AssignFrom(other *Timeline) {
	slices := make([]Slice, len(other.slices))
	for i, s := range other.slices {
		slices[i] = s.Copy()
	}
	tl.slices = slices
	tl.eps = other.eps
}

// Clone returns a deep copy.
func (tl *Timeline) Clone() *Timeline {
	c := New()
	c.AssignFrom(tl)
	return c
}

func (tl *Timeline) Len() int      { return len(tl.slices) }
func (tl *Timeline) Eps() float64  { return tl.eps }
func (tl *Timeline) IsEmpty() bool { return len(tl.slices) == 0 }

// SliceAt returns the i-th slice.
func (tl *Timeline) SliceAt(i int) (Slice, error) {
	if i < 0 || i >= len(tl.slices) {
		return nil, fmt.Errorf("slice index %d out of range [0,%d)", i, len(tl.slices))
	}
	return tl.slices[i], nil
}

// QueryAt returns the ids of every slice containing t. Two results are only
// possible at the junction of two adjacent slices, in slice order.
func (tl *Timeline) QueryAt(t float64) ([]Ids, error) {
	var matches []int
	for i, s := range tl.slices {
		if s.IsContaining(t, tl.eps) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no matching slice for time %g", ErrQuery, t)
	}
	if len(matches) > 2 {
		return nil, fmt.Errorf("%w: too many slices (%d) match time %g", ErrQuery, len(matches), t)
	}

	out := make([]Ids, 0, len(matches))
	for _, i := range matches {
		res, err := tl.slices[i].IdsOnTime(t, tl.eps)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// QueryLeft resolves t approaching from the left: at a junction the earlier slice wins.
func (tl *Timeline) QueryLeft(t float64) (Ids, error) {
	res, err := tl.QueryAt(t)
	if err != nil {
		return Ids{}, err
	}
	return res[0], nil
}

// QueryRight resolves t approaching from the right: at a junction the later slice wins.
func (tl *Timeline) QueryRight(t float64) (Ids, error) {
	res, err := tl.QueryAt(t)
	if err != nil {
		return Ids{}, err
	}
	return res[len(res)-1], nil
}

// HotSpots returns the ascending boundary times of all slices. A junction
// shared by two adjacent slices appears once.
func (tl *Timeline) HotSpots() []float64 {
	out := []float64{}
	for _, s := range tl.slices {
		spots := s.HotSpotsTime()
		if len(out) > 0 && len(spots) > 0 && math.Abs(out[len(out)-1]-spots[0]) <= tl.eps {
			spots = spots[1:]
		}
		out = append(out, spots...)
	}
	return out
}

// IsEqual compares slices pairwise, in order, with the eps of tl.
func (tl *Timeline) IsEqual(other *Timeline) bool {
	if other == nil || len(tl.slices) != len(other.slices) {
		return false
	}
	for i, s := range tl.slices {
		if !s.IsEqual(other.slices[i], tl.eps) {
			return false
		}
	}
	return true
}

func (tl *Timeline) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Timeline with %d slices (eps=%g)\n", len(tl.slices), tl.eps)
	for i, s := range tl.slices {
		fmt.Fprintf(&b, "  #%d: %s\n", i, s)
	}
	return b.String()
}
