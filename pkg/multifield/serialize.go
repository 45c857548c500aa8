package multifield

import (
	"fmt"

	"github.com/leowmjw/go-field-timeline/pkg/field"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
	"github.com/leowmjw/go-field-timeline/pkg/tiny"
)

// TinySerializationInformation flattens the sharing structure of c. The int
// buffer is
//
//	n, total array refs, total time ints,
//	mesh ref×n, array ref count×n, kind×n, time double length×n, time int length×n,
//	array refs..., time ints...
//
// and the double buffer holds the time doubles of every field in order.
// Meshes and arrays themselves are not flattened; the returned counts say how
// many distinct ones the caller has to ship alongside.
func (c *Collection) TinySerializationInformation() ([]int, []float64, int, int) {
	meshes, meshRefs := c.DifferentMeshes()
	arrays, arrayRefs := c.DifferentArrays()

	n := len(c.fields)
	refCounts := make([]int, n)
	kinds := make([]int, n)
	dblLens := make([]int, n)
	intLens := make([]int, n)
	var refs, times tiny.Writer

	var w tiny.Writer
	for i, f := range c.fields {
		refCounts[i] = len(arrayRefs[i])
		refs.Int(arrayRefs[i]...)
		ints, doubles := f.TimeTinyInfo()
		kinds[i] = int(f.TimeDiscretization())
		intLens[i] = len(ints)
		dblLens[i] = len(doubles)
		times.Int(ints...)
		w.Double(doubles...)
	}
	refInts, _ := refs.Buffers()
	timeInts, _ := times.Buffers()

	w.Int(n, len(refInts), len(timeInts))
	w.Int(meshRefs...)
	w.Int(refCounts...)
	w.Int(kinds...)
	w.Int(dblLens...)
	w.Int(intLens...)
	w.Int(refInts...)
	w.Int(timeInts...)
	ints, doubles := w.Buffers()
	return ints, doubles, len(meshes), len(arrays)
}

// FinishUnserialization rebuilds a collection from TinySerializationInformation
// output. templates holds one entry per field; meshes and arrays are the
// distinct objects the references point into.
func FinishUnserialization(ints []int, doubles []float64, templates []field.Template,
	meshes []field.Mesh, arrays []field.Array) (*Collection, error) {
	c, err := unserializeCollection(tiny.NewReader(ints, doubles), templates, meshes, arrays)
	if err != nil {
		return nil, fmt.Errorf("%w: unserialize collection: %w", timeline.ErrConstruction, err)
	}
	return c, nil
}

func unserializeCollection(r *tiny.Reader, templates []field.Template,
	meshes []field.Mesh, arrays []field.Array) (*Collection, error) {
	n, err := r.Count()
	if err != nil {
		return nil, err
	}
	totalRefs, err := r.Count()
	if err != nil {
		return nil, err
	}
	totalTimeInts, err := r.Count()
	if err != nil {
		return nil, err
	}
	if len(templates) != n {
		return nil, fmt.Errorf("got %d templates for %d fields", len(templates), n)
	}

	header := make([][]int, 5)
	for i := range header {
		if header[i], err = r.Ints(n); err != nil {
			return nil, err
		}
	}
	meshRefs, refCounts, kinds, dblLens, intLens := header[0], header[1], header[2], header[3], header[4]
	if sumOf(refCounts) != totalRefs {
		return nil, fmt.Errorf("array ref counts add up to %d, header says %d", sumOf(refCounts), totalRefs)
	}
	if sumOf(intLens) != totalTimeInts {
		return nil, fmt.Errorf("time int lengths add up to %d, header says %d", sumOf(intLens), totalTimeInts)
	}

	arrayRefs := make([][]int, n)
	for i := 0; i < n; i++ {
		if arrayRefs[i], err = r.Ints(refCounts[i]); err != nil {
			return nil, err
		}
	}

	fields := make([]field.Field, n)
	for i := 0; i < n; i++ {
		ti, err := r.Ints(intLens[i])
		if err != nil {
			return nil, err
		}
		td, err := r.Doubles(dblLens[i])
		if err != nil {
			return nil, err
		}
		if kinds[i] == -1 {
			return nil, fmt.Errorf("field at position #%d is nil", i)
		}
		if templates[i] == nil {
			return nil, fmt.Errorf("field #%d has no template", i)
		}
		f, err := rebuildField(templates[i], field.Kind(kinds[i]), meshRefs[i], arrayRefs[i], meshes, arrays, ti, td)
		if err != nil {
			return nil, fmt.Errorf("field #%d: %w", i, err)
		}
		if err := f.CheckConsistencyLight(); err != nil {
			return nil, fmt.Errorf("field at position #%d: %w", i, err)
		}
		fields[i] = f
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return &Collection{fields: fields}, nil
}

func sumOf(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}
	return s
}
