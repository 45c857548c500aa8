package timeline

import (
	"fmt"

	"github.com/leowmjw/go-field-timeline/pkg/tiny"
)

// TinySerializationInformation flattens tl into an int buffer
//
//	n, total int payload length, tag×n, int payload length×n, double payload length×n, int payloads...
//
// and a double buffer
//
//	eps, double payloads...
func (tl *Timeline) TinySerializationInformation() ([]int, []float64) {
	n := len(tl.slices)
	tags := make([]int, n)
	intLens := make([]int, n)
	dblLens := make([]int, n)
	var core tiny.Writer

	var w tiny.Writer
	w.Double(tl.eps)
	for i, s := range tl.slices {
		ints, doubles := s.TinySerializationInformation()
		tags[i] = int(s.Type())
		intLens[i] = len(ints)
		dblLens[i] = len(doubles)
		core.Int(ints...)
		w.Double(doubles...)
	}
	coreInts, _ := core.Buffers()

	w.Int(n, len(coreInts))
	w.Int(tags...)
	w.Int(intLens...)
	w.Int(dblLens...)
	w.Int(coreInts...)
	return w.Buffers()
}

// Unflatten rebuilds a timeline from TinySerializationInformation output.
func Unflatten(ints []int, doubles []float64) (*Timeline, error) {
	tl := New()
	if err := tl.Unserialize(ints, doubles); err != nil {
		return nil, err
	}
	return tl, nil
}

// Unserialize replaces the content of tl with the flattened buffers.
// On error tl is left untouched.
func (tl *Timeline) Unserialize(ints []int, doubles []float64) error {
	slices, eps, err := unserializeSlices(tiny.NewReader(ints, doubles))
	if err != nil {
		return fmt.Errorf("%w: unserialize timeline: %w", ErrConstruction, err)
	}
	for i := 1; i < len(slices); i++ {
		if !IsAfterMe(slices[i-1], slices[i], eps) {
			return fmt.Errorf("%w: unserialized slices #%d and #%d are not in ascending time order", ErrConstruction, i-1, i)
		}
	}
	tl.slices = slices
	tl.eps = eps
	return nil
}

func unserializeSlices(r *tiny.Reader) ([]Slice, float64, error) {
	n, err := r.Count()
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Count()
	if err != nil {
		return nil, 0, err
	}
	tags, err := r.Ints(n)
	if err != nil {
		return nil, 0, err
	}
	intLens, err := r.Ints(n)
	if err != nil {
		return nil, 0, err
	}
	dblLens, err := r.Ints(n)
	if err != nil {
		return nil, 0, err
	}
	sum := 0
	for _, l := range intLens {
		sum += l
	}
	if sum != total {
		return nil, 0, fmt.Errorf("int payload lengths add up to %d, header says %d", sum, total)
	}
	eps, err := r.Double()
	if err != nil {
		return nil, 0, err
	}

	slices := make([]Slice, n)
	for i := 0; i < n; i++ {
		si, err := r.Ints(intLens[i])
		if err != nil {
			return nil, 0, err
		}
		sd, err := r.Doubles(dblLens[i])
		if err != nil {
			return nil, 0, err
		}
		s, err := UnserializeSlice(SliceType(tags[i]), si, sd)
		if err != nil {
			return nil, 0, fmt.Errorf("slice #%d: %w", i, err)
		}
		slices[i] = s
	}
	if err := r.Done(); err != nil {
		return nil, 0, err
	}
	return slices, eps, nil
}
