package sequence

import (
	"fmt"
	"log/slog"

	"github.com/leowmjw/go-field-timeline/pkg/multifield"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

// Report is everything the inspector learned about one sequence.
type Report struct {
	Name       string            `json:"name"`
	Labels     map[string]string `json:"labels,omitempty"`
	Fields     int               `json:"fields"`
	Meshes     int               `json:"meshes"`
	Arrays     int               `json:"arrays"`
	Tolerance  float64           `json:"tolerance"`
	Start      float64           `json:"start"`
	End        float64           `json:"end"`
	HotSpots   []float64         `json:"hot_spots"`
	Windows    []timeline.Window `json:"windows"`
	Queries    []QueryResult     `json:"queries,omitempty"`
	Timeline   Flattened         `json:"timeline"`
	Collection Flattened         `json:"collection"`
}

// QueryResult holds either the ids a query resolved to or the reason it failed.
type QueryResult struct {
	ID    string         `json:"id"`
	At    float64        `json:"at"`
	Side  string         `json:"side"`
	Ids   []timeline.Ids `json:"ids,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Flattened is a pair of tiny serialization buffers.
type Flattened struct {
	Ints    []int     `json:"ints"`
	Doubles []float64 `json:"doubles"`
}

// TimelineSummary describes a timeline rebuilt from its flattened buffers.
type TimelineSummary struct {
	Slices   int               `json:"slices"`
	Eps      float64           `json:"eps"`
	HotSpots []float64         `json:"hot_spots"`
	Windows  []timeline.Window `json:"windows"`
	Repr     string            `json:"repr"`
}

// Inspector materializes descriptions and reports on their timelines.
type Inspector struct {
	logger *slog.Logger
}

// NewInspector creates an inspector. A nil logger falls back to slog.Default().
func NewInspector(logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspector{logger: logger}
}

// Inspect builds the sequence and its timeline, then runs every query of d.
// A failing query is recorded in the report; only construction errors are
// returned.
func (in *Inspector) Inspect(d *Description) (*Report, error) {
	in.logger.Info("Inspecting sequence", "name", d.Name, "fields", len(d.Fields), "queries", len(d.Queries))

	ot, err := d.Materialize()
	if err != nil {
		in.logger.Error("Failed to materialize sequence", "name", d.Name, "error", err)
		return nil, err
	}
	tl, err := ot.Timeline()
	if err != nil {
		in.logger.Error("Failed to build timeline", "name", d.Name, "error", err)
		return nil, err
	}

	report, err := newReport(d.Name, ot, tl)
	if err != nil {
		return nil, err
	}
	report.Labels = d.Labels
	in.logger.Debug("Built timeline", "name", d.Name, "slices", tl.Len(), "eps", tl.Eps(), "hotSpots", report.HotSpots)

	for _, q := range d.Queries {
		res := in.runQuery(tl, q)
		if res.Error != "" {
			in.logger.Warn("Query failed", "name", d.Name, "query", q.ID, "at", q.At, "error", res.Error)
		}
		report.Queries = append(report.Queries, res)
	}

	in.logger.Info("Successfully inspected sequence", "name", d.Name, "slices", tl.Len(), "queries", len(report.Queries))
	return report, nil
}

// Decode rebuilds a timeline from the buffers of a Report.
func (in *Inspector) Decode(buffers Flattened) (*TimelineSummary, error) {
	tl, err := timeline.Unflatten(buffers.Ints, buffers.Doubles)
	if err != nil {
		in.logger.Warn("Failed to decode timeline", "ints", len(buffers.Ints), "doubles", len(buffers.Doubles), "error", err)
		return nil, err
	}

	in.logger.Info("Successfully decoded timeline", "slices", tl.Len(), "eps", tl.Eps())
	return &TimelineSummary{
		Slices:   tl.Len(),
		Eps:      tl.Eps(),
		HotSpots: tl.HotSpots(),
		Windows:  tl.Windows(),
		Repr:     tl.String(),
	}, nil
}

func newReport(name string, ot *multifield.OverTime, tl *timeline.Timeline) (*Report, error) {
	meshes, _ := ot.DifferentMeshes()
	arrays, _ := ot.DifferentArrays()
	r := &Report{
		Name:     name,
		Fields:   ot.Len(),
		Meshes:   len(meshes),
		Arrays:   len(arrays),
		HotSpots: tl.HotSpots(),
		Windows:  tl.Windows(),
	}
	if ot.Len() > 0 {
		var err error
		if r.Tolerance, err = ot.TimeTolerance(); err != nil {
			return nil, err
		}
		if r.Start, err = ot.StartTime(); err != nil {
			return nil, err
		}
		if r.End, err = ot.EndTime(); err != nil {
			return nil, err
		}
	}
	r.Timeline.Ints, r.Timeline.Doubles = tl.TinySerializationInformation()
	r.Collection.Ints, r.Collection.Doubles, _, _ = ot.TinySerializationInformation()
	return r, nil
}

func (in *Inspector) runQuery(tl *timeline.Timeline, q Query) QueryResult {
	res := QueryResult{ID: q.ID, At: q.At, Side: q.Side}
	if res.Side == "" {
		res.Side = SideAt
	}

	var err error
	switch res.Side {
	case SideAt:
		res.Ids, err = tl.QueryAt(q.At)
	case SideLeft, SideRight:
		query := tl.QueryLeft
		if res.Side == SideRight {
			query = tl.QueryRight
		}
		var ids timeline.Ids
		if ids, err = query(q.At); err == nil {
			res.Ids = []timeline.Ids{ids}
		}
	default:
		err = fmt.Errorf("unknown query side %q", q.Side)
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
