package multifield

import (
	"fmt"

	"github.com/leowmjw/go-field-timeline/pkg/field"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

// OverTime is a Collection whose fields are successive time steps of one
// quantity.
type OverTime struct {
	*Collection
}

// NewOverTime builds the collection and checks it describes a valid sequence.
func NewOverTime(fields []field.Field) (*OverTime, error) {
	c, err := NewCollection(fields)
	if err != nil {
		return nil, err
	}
	ot := &OverTime{Collection: c}
	if err := ot.CheckConsistencyLight(); err != nil {
		return nil, err
	}
	return ot, nil
}

// CheckConsistencyLight requires time dependent fields sorted in ascending
// time, within the tolerance of the first field, that can all be merged with
// the first one.
func (ot *OverTime) CheckConsistencyLight() error {
	if err := ot.Collection.CheckConsistencyLight(); err != nil {
		return err
	}
	if len(ot.fields) == 0 {
		return nil
	}
	first := ot.fields[0]
	eps := first.TimeTolerance()
	for i, f := range ot.fields {
		if f.TimeDiscretization() == field.NoTime {
			return fmt.Errorf("%w: field at position #%d (%q) has no time discretization", timeline.ErrConstruction, i, f.Name())
		}
		if i > 0 {
			prev := ot.fields[i-1]
			if f.StartTime().Time < prev.EndTime().Time-eps {
				return fmt.Errorf("%w: fields are not sorted in ascending time: #%d starts at %g before #%d ends at %g",
					timeline.ErrConstruction, i, f.StartTime().Time, i-1, prev.EndTime().Time)
			}
			if !f.IsCompatibleForMergeWith(first) {
				return fmt.Errorf("%w: field at position #%d (%q) cannot be merged with the first field",
					timeline.ErrConstruction, i, f.Name())
			}
		}
	}
	return nil
}

// TimeTolerance is the tolerance of the first field.
func (ot *OverTime) TimeTolerance() (float64, error) {
	if len(ot.fields) == 0 {
		return 0, fmt.Errorf("%w: no fields in sequence", timeline.ErrQuery)
	}
	return ot.fields[0].TimeTolerance(), nil
}

// StartTime is the start of the first field.
func (ot *OverTime) StartTime() (float64, error) {
	if len(ot.fields) == 0 {
		return 0, fmt.Errorf("%w: no fields in sequence", timeline.ErrQuery)
	}
	return ot.fields[0].StartTime().Time, nil
}

// EndTime is the end of the last field.
func (ot *OverTime) EndTime() (float64, error) {
	if len(ot.fields) == 0 {
		return 0, fmt.Errorf("%w: no fields in sequence", timeline.ErrQuery)
	}
	return ot.fields[len(ot.fields)-1].EndTime().Time, nil
}

// Timeline builds a fresh timeline from the current fields, using the
// indices of DifferentMeshes and DifferentArrays as slice ids.
func (ot *OverTime) Timeline() (*timeline.Timeline, error) {
	if err := ot.CheckConsistencyLight(); err != nil {
		return nil, err
	}
	_, meshRefs := ot.DifferentMeshes()
	_, arrayRefs := ot.DifferentArrays()
	return timeline.Build(ot.fields, meshRefs, arrayRefs)
}

// DeepCopy copies the underlying collection.
func (ot *OverTime) DeepCopy() (*OverTime, error) {
	c, err := ot.Collection.DeepCopy()
	if err != nil {
		return nil, err
	}
	return &OverTime{Collection: c}, nil
}

func (ot *OverTime) IsEqual(other *OverTime, meshPrec, valsPrec float64) bool {
	if other == nil {
		return false
	}
	return ot.Collection.IsEqual(other.Collection, meshPrec, valsPrec)
}
