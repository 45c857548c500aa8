package timeline

import (
	"fmt"
	"math"

	"github.com/leowmjw/go-field-timeline/pkg/field"
)

// Classify builds the slice matching the time discretization of f.
// arrayIDs holds one deduplicated array index per array slot of the field.
func Classify(f field.Field, meshID int, arrayIDs []int, fieldID int) (Slice, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: cannot build a slice from a nil field", ErrConstruction)
	}

	kind := f.TimeDiscretization()
	switch kind {
	case field.OneTime, field.ConstOnTimeInterval, field.LinearTime:
		if len(arrayIDs) != kind.NbOfArrays() {
			return nil, fmt.Errorf("%w: field #%d is %s and needs %d array ids, got %d",
				ErrConstruction, fieldID, kind, kind.NbOfArrays(), len(arrayIDs))
		}
	case field.NoTime:
		return nil, fmt.Errorf("%w: impossible to build a definition slice for field #%d without time", ErrConstruction, fieldID)
	default:
		return nil, fmt.Errorf("%w: unrecognized time discretization %s for field #%d", ErrConstruction, kind, fieldID)
	}

	start := f.StartTime().Time
	end := f.EndTime().Time
	if end < start {
		return nil, fmt.Errorf("%w: field #%d ends at %g strictly before its start %g", ErrConstruction, fieldID, end, start)
	}

	switch kind {
	case field.OneTime:
		if math.Abs(start-end) > f.TimeTolerance() {
			return nil, fmt.Errorf("%w: instant field #%d has start %g and end %g further apart than tolerance %g",
				ErrConstruction, fieldID, start, end, f.TimeTolerance())
		}
		return NewInstant(meshID, arrayIDs[0], fieldID, start), nil
	case field.ConstOnTimeInterval:
		return NewConstOnTimeInterval(meshID, arrayIDs[0], fieldID, start, end), nil
	default:
		return NewLinearTime(meshID, arrayIDs[0], arrayIDs[1], fieldID, start, end), nil
	}
}

// UnserializeSlice is the inverse of Slice.TinySerializationInformation.
func UnserializeSlice(tag SliceType, ints []int, doubles []float64) (Slice, error) {
	wantI, wantD := 3, 2
	switch tag {
	case InstantType:
		wantD = 1
	case ConstOnTimeIntervalType:
	case LinearTimeType:
		wantI = 4
	default:
		return nil, fmt.Errorf("%w: unknown slice type tag %d", ErrConstruction, int(tag))
	}
	if len(ints) != wantI || len(doubles) != wantD {
		return nil, fmt.Errorf("%w: %s slice expects %d ints and %d doubles, got %d and %d",
			ErrConstruction, tag, wantI, wantD, len(ints), len(doubles))
	}

	switch tag {
	case InstantType:
		return NewInstant(ints[0], ints[1], ints[2], doubles[0]), nil
	case ConstOnTimeIntervalType:
		return NewConstOnTimeInterval(ints[0], ints[1], ints[2], doubles[0], doubles[1]), nil
	default:
		return NewLinearTime(ints[0], ints[1], ints[3], ints[2], doubles[0], doubles[1]), nil
	}
}
