// Package multifield groups fields that are handled as a unit and exposes
// the meshes and arrays they share.
package multifield

import (
	"fmt"
	"strings"

	"github.com/leowmjw/go-field-timeline/pkg/field"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

// Collection is an ordered list of fields. Meshes and arrays may be shared
// between fields; sharing is tracked by identity, never by value.
type Collection struct {
	fields []field.Field
}

// NewCollection checks every field and keeps a reference to each of them.
func NewCollection(fields []field.Field) (*Collection, error) {
	for i, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("%w: field at position #%d is nil", timeline.ErrConstruction, i)
		}
		if err := f.CheckConsistencyLight(); err != nil {
			return nil, fmt.Errorf("%w: field at position #%d: %w", timeline.ErrConstruction, i, err)
		}
	}
	fs := make([]field.Field, len(fields))
	copy(fs, fields)
	return &Collection{fields: fs}, nil
}

func (c *Collection) Len() int { return len(c.fields) }

// Fields returns the fields in order. The slice is a copy, the fields are shared.
func (c *Collection) Fields() []field.Field {
	out := make([]field.Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Field returns the i-th field.
func (c *Collection) Field(i int) (field.Field, error) {
	if i < 0 || i >= len(c.fields) {
		return nil, fmt.Errorf("field index %d out of range [0,%d)", i, len(c.fields))
	}
	return c.fields[i], nil
}

// CheckConsistencyLight rechecks every field.
func (c *Collection) CheckConsistencyLight() error {
	for i, f := range c.fields {
		if f == nil {
			return fmt.Errorf("%w: field at position #%d is nil", timeline.ErrConstruction, i)
		}
		if err := f.CheckConsistencyLight(); err != nil {
			return fmt.Errorf("%w: field at position #%d: %w", timeline.ErrConstruction, i, err)
		}
	}
	return nil
}

// Meshes returns the mesh of every field, nil entries included.
func (c *Collection) Meshes() []field.Mesh {
	out := make([]field.Mesh, len(c.fields))
	for i, f := range c.fields {
		if f != nil {
			out[i] = f.Mesh()
		}
	}
	return out
}

// Arrays returns every array slot of every field, in field order.
func (c *Collection) Arrays() []field.Array {
	var out []field.Array
	for _, f := range c.fields {
		if f != nil {
			out = append(out, f.Arrays()...)
		}
	}
	return out
}

// DifferentMeshes returns the distinct meshes in first-seen order and, per
// field, the index of its mesh in that list or -1 when it has none.
func (c *Collection) DifferentMeshes() ([]field.Mesh, []int) {
	var meshes []field.Mesh
	refs := make([]int, len(c.fields))
	for i, f := range c.fields {
		var m field.Mesh
		if f != nil {
			m = f.Mesh()
		}
		refs[i] = indexOrAppend(&meshes, m)
	}
	return meshes, refs
}

// DifferentArrays is DifferentMeshes for arrays. A field may own several
// arrays so each field gets a list of indices.
func (c *Collection) DifferentArrays() ([]field.Array, [][]int) {
	var arrays []field.Array
	refs := make([][]int, len(c.fields))
	for i, f := range c.fields {
		if f == nil {
			refs[i] = []int{}
			continue
		}
		slots := f.Arrays()
		refs[i] = make([]int, len(slots))
		for j, a := range slots {
			refs[i][j] = indexOrAppend(&arrays, a)
		}
	}
	return arrays, refs
}

// indexOrAppend returns the position of v in *list, appending it first if
// needed. A nil v maps to -1.
func indexOrAppend[T comparable](list *[]T, v T) int {
	if field.IsNil(v) {
		return -1
	}
	for i, e := range *list {
		if e == v {
			return i
		}
	}
	*list = append(*list, v)
	return len(*list) - 1
}

// DeepCopy clones every distinct mesh and array once, then rebuilds each
// field from its template so that the copy shares nothing with c but keeps
// the same sharing pattern.
func (c *Collection) DeepCopy() (*Collection, error) {
	meshes, meshRefs := c.DifferentMeshes()
	arrays, arrayRefs := c.DifferentArrays()

	meshCopies := make([]field.Mesh, len(meshes))
	for i, m := range meshes {
		meshCopies[i] = m.DeepCopy()
	}
	arrayCopies := make([]field.Array, len(arrays))
	for i, a := range arrays {
		arrayCopies[i] = a.DeepCopy()
	}

	fields := make([]field.Field, len(c.fields))
	for i, f := range c.fields {
		if f == nil {
			continue
		}
		ints, doubles := f.TimeTinyInfo()
		nf, err := rebuildField(f.Template(), f.TimeDiscretization(), meshRefs[i], arrayRefs[i], meshCopies, arrayCopies, ints, doubles)
		if err != nil {
			return nil, fmt.Errorf("deep copy of field #%d: %w", i, err)
		}
		fields[i] = nf
	}
	return &Collection{fields: fields}, nil
}

func rebuildField(tpl field.Template, kind field.Kind, meshRef int, arrayRefs []int,
	meshes []field.Mesh, arrays []field.Array, ints []int, doubles []float64) (field.Field, error) {
	f, err := tpl.NewField(kind)
	if err != nil {
		return nil, err
	}
	if meshRef != -1 {
		if meshRef < 0 || meshRef >= len(meshes) {
			return nil, fmt.Errorf("mesh reference %d out of range [0,%d)", meshRef, len(meshes))
		}
		f.SetMesh(meshes[meshRef])
	}
	slots := make([]field.Array, len(arrayRefs))
	for j, ref := range arrayRefs {
		if ref == -1 {
			continue
		}
		if ref < 0 || ref >= len(arrays) {
			return nil, fmt.Errorf("array reference %d out of range [0,%d)", ref, len(arrays))
		}
		slots[j] = arrays[ref]
	}
	if err := f.SetArrays(slots); err != nil {
		return nil, err
	}
	if err := f.FinishTimeUnserialization(ints, doubles); err != nil {
		return nil, err
	}
	return f, nil
}

// IsEqual compares fields pairwise and then the sharing pattern: two
// collections of equal fields differ if their meshes or arrays are not
// shared the same way.
func (c *Collection) IsEqual(other *Collection, meshPrec, valsPrec float64) bool {
	return c.isEqual(other, meshPrec, valsPrec, true)
}

// IsEqualWithoutConsideringStr is IsEqual ignoring names.
func (c *Collection) IsEqualWithoutConsideringStr(other *Collection, meshPrec, valsPrec float64) bool {
	return c.isEqual(other, meshPrec, valsPrec, false)
}

func (c *Collection) isEqual(other *Collection, meshPrec, valsPrec float64, withStr bool) bool {
	if other == nil || len(c.fields) != len(other.fields) {
		return false
	}
	for i, f1 := range c.fields {
		f2 := other.fields[i]
		if f1 == f2 {
			continue
		}
		if f1 == nil || f2 == nil {
			return false
		}
		if withStr && !f1.IsEqual(f2, meshPrec, valsPrec) {
			return false
		}
		if !withStr && !f1.IsEqualWithoutConsideringStr(f2, meshPrec, valsPrec) {
			return false
		}
	}

	ms1, refs1 := c.DifferentMeshes()
	ms2, refs2 := other.DifferentMeshes()
	if len(ms1) != len(ms2) || !intsEqual(refs1, refs2) {
		return false
	}
	as1, arefs1 := c.DifferentArrays()
	as2, arefs2 := other.DifferentArrays()
	if len(as1) != len(as2) || len(arefs1) != len(arefs2) {
		return false
	}
	for i := range arefs1 {
		if !intsEqual(arefs1[i], arefs2[i]) {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SimpleRepr is a one line per field description.
func (c *Collection) SimpleRepr() string {
	var b strings.Builder
	meshes, meshRefs := c.DifferentMeshes()
	arrays, arrayRefs := c.DifferentArrays()
	fmt.Fprintf(&b, "Collection of %d fields on %d meshes with %d arrays\n", len(c.fields), len(meshes), len(arrays))
	for i, f := range c.fields {
		if f == nil {
			fmt.Fprintf(&b, "  #%d: <nil>\n", i)
			continue
		}
		fmt.Fprintf(&b, "  #%d: %q %s [%g,%g] mesh=%d arrays=%v\n", i, f.Name(), f.TimeDiscretization(),
			f.StartTime().Time, f.EndTime().Time, meshRefs[i], arrayRefs[i])
	}
	return b.String()
}
