// Package tiny reads and writes the parallel int/float64 buffers used to
// flatten small objects ("tiny serialization").
//
// A Writer appends to both buffers; a Reader walks them with running offsets
// and fails instead of reading past the end.
package tiny

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when a buffer is shorter than its headers announce.
var ErrTruncated = errors.New("tiny buffer truncated")

// ErrTrailing is returned by Reader.Done when unread values remain.
var ErrTrailing = errors.New("tiny buffer has trailing values")

// Writer accumulates the two buffers.
type Writer struct {
	ints    []int
	doubles []float64
}

// Int appends to the integer buffer.
func (w *Writer) Int(v ...int) {
	w.ints = append(w.ints, v...)
}

// Double appends to the float64 buffer.
func (w *Writer) Double(v ...float64) {
	w.doubles = append(w.doubles, v...)
}

// Buffers returns both buffers, never nil.
func (w *Writer) Buffers() ([]int, []float64) {
	if w.ints == nil {
		w.ints = []int{}
	}
	if w.doubles == nil {
		w.doubles = []float64{}
	}
	return w.ints, w.doubles
}

// Reader walks a pair of buffers.
type Reader struct {
	ints    []int
	doubles []float64
	offI    int
	offD    int
}

func NewReader(ints []int, doubles []float64) *Reader {
	return &Reader{ints: ints, doubles: doubles}
}

// Int reads one integer.
func (r *Reader) Int() (int, error) {
	v, err := r.Ints(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Count reads one integer that must be a non negative length.
func (r *Reader) Count() (int, error) {
	n, err := r.Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative length %d at int offset %d", n, r.offI-1)
	}
	return n, nil
}

// Ints reads n integers. The returned slice is a copy.
func (r *Reader) Ints(n int) ([]int, error) {
	if n < 0 || r.offI+n > len(r.ints) {
		return nil, fmt.Errorf("%w: need %d ints at offset %d, have %d", ErrTruncated, n, r.offI, len(r.ints))
	}
	out := make([]int, n)
	copy(out, r.ints[r.offI:r.offI+n])
	r.offI += n
	return out, nil
}

// Double reads one float64.
func (r *Reader) Double() (float64, error) {
	v, err := r.Doubles(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Doubles reads n float64 values. The returned slice is a copy.
func (r *Reader) Doubles(n int) ([]float64, error) {
	if n < 0 || r.offD+n > len(r.doubles) {
		return nil, fmt.Errorf("%w: need %d doubles at offset %d, have %d", ErrTruncated, n, r.offD, len(r.doubles))
	}
	out := make([]float64, n)
	copy(out, r.doubles[r.offD:r.offD+n])
	r.offD += n
	return out, nil
}

// Done checks both buffers were fully consumed.
func (r *Reader) Done() error {
	if r.offI != len(r.ints) || r.offD != len(r.doubles) {
		return fmt.Errorf("%w: %d ints and %d doubles left", ErrTrailing, len(r.ints)-r.offI, len(r.doubles)-r.offD)
	}
	return nil
}
