package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-field-timeline/pkg/field"
	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

func TestParseHCLSequence(t *testing.T) {
	hclContent := `
	# Two steps of a pressure field sharing one mesh
	name = "pressure"

	mesh "m" {
		space_dimension = 2
		coords          = [0, 0, 1, 0]
	}

	array "p0" {
		values = [1, 2]
	}

	array "p1" {
		components = 2
		values     = [3, 4]
	}

	field "pressure" {
		kind   = "one_time"
		mesh   = "m"
		arrays = ["p0"]
		start  = seconds("1m30s")
	}

	field "pressure" {
		kind          = "const_on_time_interval"
		mesh          = "m"
		arrays        = ["p1"]
		start         = seconds("2m")
		end           = seconds("2m") + 0.5
		iteration     = 3
		order         = 1
		end_iteration = 4
		tolerance     = default_tolerance * 10
	}

	query "first" {
		at = 90
	}
	`

	desc, err := ParseHCLSequence(hclContent)
	require.NoError(t, err)
	require.NotNil(t, desc)

	assert.Equal(t, "pressure", desc.Name)
	assert.Zero(t, desc.Tolerance)
	assert.Nil(t, desc.Labels)

	require.Len(t, desc.Meshes, 1)
	assert.Equal(t, sequence.MeshSpec{Name: "m", SpaceDimension: 2, Coords: []float64{0, 0, 1, 0}}, desc.Meshes[0])

	require.Len(t, desc.Arrays, 2)
	assert.Equal(t, 1, desc.Arrays[0].Components)
	assert.Equal(t, 2, desc.Arrays[1].Components)

	require.Len(t, desc.Fields, 2)
	assert.Equal(t, "one_time", desc.Fields[0].Kind)
	assert.InDelta(t, 90.0, desc.Fields[0].Start, 1e-12)
	assert.InDelta(t, 120.0, desc.Fields[1].Start, 1e-12)
	assert.InDelta(t, 120.5, desc.Fields[1].End, 1e-12)
	assert.Equal(t, 3, desc.Fields[1].Iteration)
	assert.Equal(t, 1, desc.Fields[1].Order)
	assert.Equal(t, 4, desc.Fields[1].EndIteration)
	assert.InDelta(t, 10*field.DefaultTimeTolerance, desc.Fields[1].Tolerance, 1e-20)

	require.Len(t, desc.Queries, 1)
	assert.Equal(t, sequence.Query{ID: "first", At: 90}, desc.Queries[0])

	ot, err := desc.Materialize()
	require.NoError(t, err)
	assert.Equal(t, 2, ot.Len())
}

func TestParseHCLSequenceLabels(t *testing.T) {
	desc, err := ParseHCLSequence(`
	name   = "labelled"
	labels = {
		solver = "implicit"
		order  = 2
		stable = true
	}
	`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"solver": "implicit", "order": "2", "stable": "true"}, desc.Labels)

	_, err = ParseHCLSequence(`labels = ["not", "a", "map"]`)
	assert.Error(t, err)
}

func TestParseHCLSequenceErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"syntax error", `field "f" {`},
		{"unknown attribute", `colour = "blue"`},
		{"missing required kind", `
			field "f" {
				arrays = ["a"]
				start  = 0
			}`},
		{"bad duration", `
			field "f" {
				kind   = "one_time"
				arrays = ["a"]
				start  = seconds("soon")
			}`},
		{"unknown function", `
			field "f" {
				kind   = "one_time"
				arrays = ["a"]
				start  = minutes(3)
			}`},
		{"mesh without label", `
			mesh {
				space_dimension = 2
			}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHCLSequence(tc.content)
			assert.Error(t, err)
		})
	}
}

func TestIsHCL(t *testing.T) {
	assert.True(t, IsHCL([]byte(`name = "x"`)))
	assert.True(t, IsHCL([]byte("array \"a\" {\n  values = [1]\n}\n")))
	assert.False(t, IsHCL([]byte(`{"name": "x"}`)))
	assert.False(t, IsHCL([]byte(`field "f" {`)))
}
