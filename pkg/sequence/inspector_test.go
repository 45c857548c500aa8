package sequence

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

func newTestInspector(buf *bytes.Buffer) *Inspector {
	return NewInspector(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestInspectReference(t *testing.T) {
	var logs bytes.Buffer
	report, err := newTestInspector(&logs).Inspect(referenceDescription())
	require.NoError(t, err)

	assert.Equal(t, "reference", report.Name)
	assert.Equal(t, 5, report.Fields)
	assert.Equal(t, 2, report.Meshes)
	assert.Equal(t, 6, report.Arrays)
	assert.Equal(t, 0.2, report.Start)
	assert.Equal(t, 2.7, report.End)
	assert.InDeltaSlice(t, []float64{0.2, 0.7, 1.2, 1.35, 1.7, 2.7}, report.HotSpots, 1e-12)
	assert.Len(t, report.Windows, 5)

	require.Len(t, report.Queries, 4, spew.Sdump(report.Queries))
	byID := make(map[string]QueryResult, len(report.Queries))
	for _, q := range report.Queries {
		byID[q.ID] = q
	}

	assert.Equal(t, []timeline.Ids{{MeshID: 0, ArrayID: 1, ArrayIndexInField: 0, FieldID: 1}}, byID["right-of-0.7"].Ids)
	assert.Empty(t, byID["right-of-0.7"].Error)

	junction := byID["junction"]
	assert.Equal(t, SideAt, junction.Side)
	require.Len(t, junction.Ids, 2)
	assert.Equal(t, 1, junction.Ids[0].FieldID)
	assert.Equal(t, 2, junction.Ids[1].FieldID)

	assert.Empty(t, byID["inside-linear"].Ids)
	assert.Contains(t, byID["inside-linear"].Error, "hot spots")
	assert.Contains(t, byID["bad-side"].Error, "unknown query side")

	assert.Contains(t, logs.String(), "Query failed")
	assert.Contains(t, logs.String(), "Successfully inspected sequence")
}

func TestInspectReportBuffersRoundTrip(t *testing.T) {
	report, err := NewInspector(nil).Inspect(referenceDescription())
	require.NoError(t, err)

	tl, err := timeline.Unflatten(report.Timeline.Ints, report.Timeline.Doubles)
	require.NoError(t, err)
	assert.InDeltaSlice(t, report.HotSpots, tl.HotSpots(), 1e-12)
	assert.Equal(t, report.Tolerance, tl.Eps())

	assert.Equal(t, 5, report.Collection.Ints[0])
	assert.Len(t, report.Collection.Doubles, 3*2+2*3)
}

func TestInspectFailsOnInvalidDescription(t *testing.T) {
	d := referenceDescription()
	d.Fields[0].Mesh = "missing"

	var logs bytes.Buffer
	report, err := newTestInspector(&logs).Inspect(d)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrInvalidDescription))
	assert.Contains(t, logs.String(), "Failed to materialize sequence")
}

func TestInspectEmptySequence(t *testing.T) {
	report, err := NewInspector(nil).Inspect(&Description{Name: "empty"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Fields)
	assert.Empty(t, report.HotSpots)
	assert.Empty(t, report.Windows)

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"hot_spots":[]`)
	assert.Contains(t, string(out), `"windows":[]`)
}

func TestDecode(t *testing.T) {
	inspector := NewInspector(nil)
	report, err := inspector.Inspect(referenceDescription())
	require.NoError(t, err)

	summary, err := inspector.Decode(report.Timeline)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Slices)
	assert.Equal(t, report.Tolerance, summary.Eps)
	assert.InDeltaSlice(t, report.HotSpots, summary.HotSpots, 1e-12)
	assert.Equal(t, report.Windows, summary.Windows)
	assert.Contains(t, summary.Repr, "Timeline with 5 slices")
}

func TestDecodeRejectsCorruptBuffers(t *testing.T) {
	var logs bytes.Buffer
	summary, err := newTestInspector(&logs).Decode(Flattened{Ints: []int{2, 3}, Doubles: []float64{1e-12}})
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, timeline.ErrConstruction))
	assert.Contains(t, logs.String(), "Failed to decode timeline")
}

func TestReportJSON(t *testing.T) {
	report, err := NewInspector(nil).Inspect(referenceDescription())
	require.NoError(t, err)

	out, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "hot_spots")
	assert.Contains(t, decoded, "timeline")
	queries, ok := decoded["queries"].([]any)
	require.True(t, ok)
	assert.Len(t, queries, 4)
}
