package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

// AssertDescriptionsEqual compares two descriptions block by block so that a
// mismatch points at the offending mesh, array, field or query
func AssertDescriptionsEqual(t *testing.T, expected, actual *sequence.Description) {
	t.Helper()
	assert.Equal(t, expected.Name, actual.Name)
	assert.Equal(t, expected.Tolerance, actual.Tolerance)
	assert.Equal(t, expected.Labels, actual.Labels)

	if assert.Equal(t, len(expected.Meshes), len(actual.Meshes), "mesh count") {
		for i := range expected.Meshes {
			assert.Equal(t, expected.Meshes[i], actual.Meshes[i], "mesh #%d", i)
		}
	}
	if assert.Equal(t, len(expected.Arrays), len(actual.Arrays), "array count") {
		for i := range expected.Arrays {
			assert.Equal(t, expected.Arrays[i], actual.Arrays[i], "array #%d", i)
		}
	}
	if assert.Equal(t, len(expected.Fields), len(actual.Fields), "field count") {
		for i := range expected.Fields {
			assert.Equal(t, expected.Fields[i], actual.Fields[i], "field #%d", i)
		}
	}
	if assert.Equal(t, len(expected.Queries), len(actual.Queries), "query count") {
		for i := range expected.Queries {
			assert.Equal(t, expected.Queries[i], actual.Queries[i], "query #%d", i)
		}
	}
}
