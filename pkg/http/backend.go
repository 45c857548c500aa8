package http

import (
	"context"

	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

// Backend runs inspections and decodes for the server. Local runs them in
// process; temporal.Dispatcher hands them to a worker.
type Backend interface {
	Inspect(ctx context.Context, d *sequence.Description) (*sequence.Report, error)
	DecodeTimeline(ctx context.Context, buffers sequence.Flattened) (*sequence.TimelineSummary, error)
}

// Local is the in-process Backend
type Local struct {
	inspector *sequence.Inspector
}

func NewLocal(inspector *sequence.Inspector) *Local {
	return &Local{inspector: inspector}
}

func (l *Local) Inspect(_ context.Context, d *sequence.Description) (*sequence.Report, error) {
	return l.inspector.Inspect(d)
}

func (l *Local) DecodeTimeline(_ context.Context, buffers sequence.Flattened) (*sequence.TimelineSummary, error) {
	return l.inspector.Decode(buffers)
}
