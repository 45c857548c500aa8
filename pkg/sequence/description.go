// Package sequence describes a field sequence as plain data, materializes it
// into fields on shared meshes and arrays, and inspects the resulting
// timeline.
package sequence

import (
	"errors"
	"fmt"

	"github.com/leowmjw/go-field-timeline/pkg/field"
	"github.com/leowmjw/go-field-timeline/pkg/multifield"
)

// ErrInvalidDescription is returned when a description cannot be turned into fields.
var ErrInvalidDescription = errors.New("invalid sequence description")

// Description is a named sequence of fields. Meshes and arrays are declared
// once and referenced by name, so two fields naming the same array share it.
type Description struct {
	Name      string            `json:"name" yaml:"name"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Tolerance float64           `json:"tolerance,omitempty" yaml:"tolerance,omitempty"` // 0 keeps field.DefaultTimeTolerance
	Meshes    []MeshSpec        `json:"meshes,omitempty" yaml:"meshes,omitempty"`
	Arrays    []ArraySpec       `json:"arrays" yaml:"arrays"`
	Fields    []FieldSpec       `json:"fields" yaml:"fields"`
	Queries   []Query           `json:"queries,omitempty" yaml:"queries,omitempty"`
}

type MeshSpec struct {
	Name           string    `json:"name" yaml:"name"`
	SpaceDimension int       `json:"space_dimension" yaml:"space_dimension"`
	Coords         []float64 `json:"coords,omitempty" yaml:"coords,omitempty"`
}

type ArraySpec struct {
	Name       string    `json:"name" yaml:"name"`
	Components int       `json:"components" yaml:"components"`
	Values     []float64 `json:"values" yaml:"values"`
}

// FieldSpec is one time step. For one_time fields only Start is read.
type FieldSpec struct {
	Name         string   `json:"name" yaml:"name"`
	Kind         string   `json:"kind" yaml:"kind"`
	Spatial      string   `json:"spatial,omitempty" yaml:"spatial,omitempty"` // defaults to on_nodes
	Mesh         string   `json:"mesh,omitempty" yaml:"mesh,omitempty"`
	Arrays       []string `json:"arrays" yaml:"arrays"`
	Start        float64  `json:"start" yaml:"start"`
	End          float64  `json:"end,omitempty" yaml:"end,omitempty"`
	Iteration    int      `json:"iteration,omitempty" yaml:"iteration,omitempty"`
	Order        int      `json:"order,omitempty" yaml:"order,omitempty"`
	EndIteration int      `json:"end_iteration,omitempty" yaml:"end_iteration,omitempty"`
	EndOrder     int      `json:"end_order,omitempty" yaml:"end_order,omitempty"`
	Tolerance    float64  `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}

// Query side values.
const (
	SideAt    = "at"
	SideLeft  = "left"
	SideRight = "right"
)

// Query asks which ids apply at a time.
type Query struct {
	ID   string  `json:"id" yaml:"id"`
	At   float64 `json:"at" yaml:"at"`
	Side string  `json:"side,omitempty" yaml:"side,omitempty"` // at, left or right; empty means at
}

// Materialize builds the fields of d and checks they form a valid sequence.
func (d *Description) Materialize() (*multifield.OverTime, error) {
	meshes, err := d.buildMeshes()
	if err != nil {
		return nil, err
	}
	arrays, err := d.buildArrays()
	if err != nil {
		return nil, err
	}

	fields := make([]field.Field, len(d.Fields))
	for i, spec := range d.Fields {
		f, err := d.buildField(spec, meshes, arrays)
		if err != nil {
			return nil, fmt.Errorf("%w: field #%d (%q): %w", ErrInvalidDescription, i, spec.Name, err)
		}
		fields[i] = f
	}
	return multifield.NewOverTime(fields)
}

func (d *Description) buildMeshes() (map[string]*field.MemMesh, error) {
	meshes := make(map[string]*field.MemMesh, len(d.Meshes))
	for i, m := range d.Meshes {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: mesh #%d has no name", ErrInvalidDescription, i)
		}
		if _, dup := meshes[m.Name]; dup {
			return nil, fmt.Errorf("%w: mesh %q declared twice", ErrInvalidDescription, m.Name)
		}
		if m.SpaceDimension <= 0 {
			return nil, fmt.Errorf("%w: mesh %q: space dimension must be positive", ErrInvalidDescription, m.Name)
		}
		if len(m.Coords)%m.SpaceDimension != 0 {
			return nil, fmt.Errorf("%w: mesh %q: %d coordinates do not match dimension %d",
				ErrInvalidDescription, m.Name, len(m.Coords), m.SpaceDimension)
		}
		meshes[m.Name] = field.NewMemMesh(m.Name, m.SpaceDimension, m.Coords)
	}
	return meshes, nil
}

func (d *Description) buildArrays() (map[string]*field.DoubleArray, error) {
	arrays := make(map[string]*field.DoubleArray, len(d.Arrays))
	for i, a := range d.Arrays {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: array #%d has no name", ErrInvalidDescription, i)
		}
		if _, dup := arrays[a.Name]; dup {
			return nil, fmt.Errorf("%w: array %q declared twice", ErrInvalidDescription, a.Name)
		}
		comps := a.Components
		if comps == 0 {
			comps = 1
		}
		arr, err := field.NewDoubleArray(a.Name, comps, a.Values)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescription, err)
		}
		arrays[a.Name] = arr
	}
	return arrays, nil
}

func (d *Description) buildField(spec FieldSpec, meshes map[string]*field.MemMesh,
	arrays map[string]*field.DoubleArray) (field.Field, error) {
	kind, err := field.ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	spatial, err := parseSpatial(spec.Spatial)
	if err != nil {
		return nil, err
	}

	f := field.NewDoubleField(spec.Name, spatial, kind)
	if spec.Mesh != "" {
		m, ok := meshes[spec.Mesh]
		if !ok {
			return nil, fmt.Errorf("unknown mesh %q", spec.Mesh)
		}
		f.SetMesh(m)
	}

	slots := make([]field.Array, len(spec.Arrays))
	for j, name := range spec.Arrays {
		a, ok := arrays[name]
		if !ok {
			return nil, fmt.Errorf("unknown array %q", name)
		}
		slots[j] = a
	}
	if err := f.SetArrays(slots); err != nil {
		return nil, err
	}

	switch kind {
	case field.OneTime:
		f.SetTime(spec.Start, spec.Iteration, spec.Order)
	case field.LinearTime, field.ConstOnTimeInterval:
		f.SetStartTime(spec.Start, spec.Iteration, spec.Order)
		f.SetEndTime(spec.End, spec.EndIteration, spec.EndOrder)
	}

	switch {
	case spec.Tolerance > 0:
		f.SetTimeTolerance(spec.Tolerance)
	case d.Tolerance > 0:
		f.SetTimeTolerance(d.Tolerance)
	}
	return f, nil
}

func parseSpatial(s string) (field.SpatialKind, error) {
	switch k := field.SpatialKind(s); k {
	case "":
		return field.OnNodes, nil
	case field.OnCells, field.OnNodes, field.OnGaussPoints, field.OnGaussNE:
		return k, nil
	}
	return "", fmt.Errorf("unknown spatial discretization %q", s)
}
