package timeline

import (
	"math"
	"testing"

	"github.com/leowmjw/go-field-timeline/pkg/field"
)

func instantField(t float64) *field.DoubleField {
	f := field.NewDoubleField("instant", field.OnCells, field.OneTime)
	f.SetTime(t, 0, 0)
	return f
}

func intervalField(kind field.Kind, start, end float64) *field.DoubleField {
	f := field.NewDoubleField("interval", field.OnCells, kind)
	f.SetStartTime(start, 0, 0)
	f.SetEndTime(end, 1, 0)
	return f
}

// fiveFields is the reference sequence: two instants around a linear and a
// constant slice sharing the 1.2 junction.
func fiveFields() ([]field.Field, []int, [][]int) {
	fields := []field.Field{
		instantField(0.2),
		intervalField(field.LinearTime, 0.7, 1.2),
		intervalField(field.ConstOnTimeInterval, 1.2, 1.5),
		instantField(1.7),
		instantField(2.7),
	}
	meshRefs := []int{0, 0, 1, 1, 1}
	arrayRefs := [][]int{{0}, {1, 2}, {3}, {4}, {5}}
	return fields, meshRefs, arrayRefs
}

func buildFive(t *testing.T) *Timeline {
	t.Helper()
	tl, err := Build(fiveFields())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tl
}

func almostEqualSlices(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
