package timeline

import "testing"

func TestIntervalRelations(t *testing.T) {
	const eps = 1e-12
	me := NewConstOnTimeInterval(0, 0, 0, 1.0, 2.0)

	tests := []struct {
		name        string
		other       Slice
		before      bool
		after       bool
		included    bool
		overlapping bool
	}{
		{
			name:        "entirely before",
			other:       NewConstOnTimeInterval(0, 0, 1, 0.0, 0.5),
			before:      true,
			overlapping: true,
		},
		{
			name:        "touching the start",
			other:       NewConstOnTimeInterval(0, 0, 1, 0.0, 1.0),
			before:      true,
			overlapping: true,
		},
		{
			name:        "entirely after",
			other:       NewConstOnTimeInterval(0, 0, 1, 2.5, 3.0),
			after:       true,
			overlapping: true,
		},
		{
			name:        "touching the end",
			other:       NewInstant(0, 0, 1, 2.0),
			after:       true,
			included:    true,
			overlapping: true,
		},
		{
			// A real overlap test would say true here; the relation reports
			// "before or after me" and answers false.
			name:     "strictly inside",
			other:    NewConstOnTimeInterval(0, 0, 1, 1.2, 1.8),
			included: true,
		},
		{
			name:  "straddling the start",
			other: NewConstOnTimeInterval(0, 0, 1, 0.5, 1.5),
		},
		{
			name:     "itself",
			other:    me,
			included: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBeforeMe(me, tt.other, eps); got != tt.before {
				t.Errorf("IsBeforeMe: expected %v, got %v", tt.before, got)
			}
			if got := IsAfterMe(me, tt.other, eps); got != tt.after {
				t.Errorf("IsAfterMe: expected %v, got %v", tt.after, got)
			}
			if got := IsFullyIncludedInMe(me, tt.other, eps); got != tt.included {
				t.Errorf("IsFullyIncludedInMe: expected %v, got %v", tt.included, got)
			}
			if got := IsOverlappingWithMe(me, tt.other, eps); got != tt.overlapping {
				t.Errorf("IsOverlappingWithMe: expected %v, got %v", tt.overlapping, got)
			}
		})
	}
}

func TestIsFullyIncludedInMeIsReflexive(t *testing.T) {
	for _, s := range []Slice{
		NewInstant(0, 0, 0, 3.0),
		NewConstOnTimeInterval(0, 0, 0, 1.0, 2.0),
		NewLinearTime(0, 0, 1, 0, 1.0, 2.0),
	} {
		if !IsFullyIncludedInMe(s, s, 1e-15) {
			t.Errorf("%s should be included in itself", s)
		}
	}
}
