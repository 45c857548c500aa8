package timeline

import (
	"errors"
	"testing"

	"github.com/leowmjw/go-field-timeline/pkg/field"
)

func TestBuildSingleField(t *testing.T) {
	f := instantField(0.2)
	tl, err := Build([]field.Field{f}, []int{0}, [][]int{{0}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tl.Len() != 1 {
		t.Fatalf("expected 1 slice, got %d", tl.Len())
	}
	if tl.Eps() != DefaultEps {
		t.Errorf("a single slice keeps the default eps, got %g", tl.Eps())
	}
	ids, err := tl.QueryAt(f.StartTime().Time)
	if err != nil {
		t.Fatalf("QueryAt failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != (Ids{MeshID: 0, ArrayID: 0, ArrayIndexInField: 0, FieldID: 0}) {
		t.Errorf("unexpected ids %+v", ids)
	}
}

func TestBuildUsesFirstFieldTolerance(t *testing.T) {
	tl := buildFive(t)
	if tl.Len() != 5 {
		t.Fatalf("expected 5 slices, got %d", tl.Len())
	}
	if tl.Eps() != field.DefaultTimeTolerance {
		t.Errorf("expected eps %g, got %g", field.DefaultTimeTolerance, tl.Eps())
	}
}

func TestHotSpots(t *testing.T) {
	tl := buildFive(t)
	expected := []float64{0.2, 0.7, 1.2, 1.35, 1.7, 2.7}
	if got := tl.HotSpots(); !almostEqualSlices(got, expected, 1e-12) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestHotSpotsSuppressJunctionDuplicates(t *testing.T) {
	fields := []field.Field{
		intervalField(field.LinearTime, 0.0, 1.0),
		intervalField(field.LinearTime, 1.0, 2.0),
	}
	tl, err := Build(fields, []int{0, 0}, [][]int{{0, 1}, {1, 2}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	expected := []float64{0.0, 1.0, 2.0}
	if got := tl.HotSpots(); !almostEqualSlices(got, expected, 1e-12) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestQueryLeftRight(t *testing.T) {
	tl := buildFive(t)

	tests := []struct {
		name     string
		query    func(float64) (Ids, error)
		at       float64
		expected Ids
	}{
		{"right of 0.7", tl.QueryRight, 0.7, Ids{MeshID: 0, ArrayID: 1, ArrayIndexInField: 0, FieldID: 1}},
		{"left of 1.2", tl.QueryLeft, 1.2, Ids{MeshID: 0, ArrayID: 2, ArrayIndexInField: 1, FieldID: 1}},
		{"right of 1.2", tl.QueryRight, 1.2, Ids{MeshID: 1, ArrayID: 3, ArrayIndexInField: 0, FieldID: 2}},
		{"inside constant", tl.QueryLeft, 1.4, Ids{MeshID: 1, ArrayID: 3, ArrayIndexInField: 0, FieldID: 2}},
		{"last instant", tl.QueryRight, 2.7, Ids{MeshID: 1, ArrayID: 5, ArrayIndexInField: 0, FieldID: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query(tt.at)
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestQueryAtJunctionReturnsBothSlices(t *testing.T) {
	tl := buildFive(t)
	ids, err := tl.QueryAt(1.2)
	if err != nil {
		t.Fatalf("QueryAt failed: %v", err)
	}
	if len(ids) != 2 || ids[0].FieldID != 1 || ids[1].FieldID != 2 {
		t.Errorf("expected fields 1 and 2 in order, got %+v", ids)
	}
}

func TestQueryErrors(t *testing.T) {
	tl := buildFive(t)

	tests := []struct {
		name string
		at   float64
	}{
		{"before everything", 0.0},
		{"gap between slices", 0.5},
		{"inside linear slice", 0.9},
		{"after everything", 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tl.QueryAt(tt.at); !errors.Is(err, ErrQuery) {
				t.Errorf("expected query error, got %v", err)
			}
		})
	}
}

func TestQueryTooManyMatches(t *testing.T) {
	fields := []field.Field{instantField(1.0), instantField(1.0), instantField(1.0)}
	tl, err := Build(fields, []int{0, 0, 0}, [][]int{{0}, {1}, {2}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := tl.QueryAt(1.0); !errors.Is(err, ErrQuery) {
		t.Errorf("expected query error, got %v", err)
	}
}

func TestBuildRejectsDescendingFields(t *testing.T) {
	fields := []field.Field{instantField(1.0), instantField(0.5)}
	if _, err := Build(fields, []int{0, 0}, [][]int{{0}, {1}}); !errors.Is(err, ErrConstruction) {
		t.Errorf("expected construction error, got %v", err)
	}

	overlapping := []field.Field{
		intervalField(field.ConstOnTimeInterval, 0.0, 1.0),
		intervalField(field.ConstOnTimeInterval, 0.5, 1.5),
	}
	if _, err := Build(overlapping, []int{0, 0}, [][]int{{0}, {1}}); !errors.Is(err, ErrConstruction) {
		t.Errorf("expected construction error for overlapping intervals, got %v", err)
	}
}

func TestBuildRejectsMismatchedRefs(t *testing.T) {
	fields := []field.Field{instantField(1.0)}
	if _, err := Build(fields, []int{}, [][]int{{0}}); !errors.Is(err, ErrConstruction) {
		t.Errorf("expected construction error, got %v", err)
	}
}

func TestFailedAssignKeepsPreviousState(t *testing.T) {
	tl := buildFive(t)
	before := tl.Clone()

	bad := []field.Field{instantField(1.0), intervalField(field.LinearTime, 2.0, 3.0)}
	if err := tl.Assign(bad, []int{0, 0}, [][]int{{0}, {1}}); err == nil {
		t.Fatal("expected an error for a linear field with one array id")
	}
	if !tl.IsEqual(before) || tl.Eps() != before.Eps() {
		t.Errorf("timeline was modified by a failed assign")
	}
}

func TestEqualityAndClone(t *testing.T) {
	a := buildFive(t)
	b := buildFive(t)
	if !a.IsEqual(b) {
		t.Fatalf("identical builds should be equal")
	}

	c := a.Clone()
	if !a.IsEqual(c) {
		t.Errorf("clone should be equal")
	}
	s0, _ := a.SliceAt(0)
	c0, _ := c.SliceAt(0)
	if s0 == c0 {
		t.Errorf("clone should not share slices")
	}

	shorter, err := Build([]field.Field{instantField(0.2)}, []int{0}, [][]int{{0}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if a.IsEqual(shorter) || a.IsEqual(nil) {
		t.Errorf("timelines of different length should differ")
	}
}

func TestSliceAtOutOfRange(t *testing.T) {
	tl := New()
	if !tl.IsEmpty() {
		t.Fatal("new timeline should be empty")
	}
	if _, err := tl.SliceAt(0); err == nil {
		t.Error("expected an error on an empty timeline")
	}
}
