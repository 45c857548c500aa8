package temporal

import (
	"context"
	"errors"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/leowmjw/go-field-timeline/pkg/sequence"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

// Activities runs the inspector on behalf of the workflows
type Activities struct {
	logger    *slog.Logger
	inspector *sequence.Inspector
}

// NewActivities creates the activity set
func NewActivities(logger *slog.Logger, inspector *sequence.Inspector) *Activities {
	return &Activities{
		logger:    logger,
		inspector: inspector,
	}
}

// InspectSequenceActivity inspects one description. Invalid descriptions fail
// without retry.
func (a *Activities) InspectSequenceActivity(ctx context.Context, desc sequence.Description) (*sequence.Report, error) {
	a.logger.Info("Inspecting sequence", "name", desc.Name, "fields", len(desc.Fields))

	report, err := a.inspector.Inspect(&desc)
	if err != nil {
		if errors.Is(err, sequence.ErrInvalidDescription) || errors.Is(err, timeline.ErrConstruction) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), InvalidDescriptionErrorType, err)
		}
		a.logger.Error("Failed to inspect sequence", "name", desc.Name, "error", err)
		return nil, err
	}

	a.logger.Info("Successfully inspected sequence", "name", desc.Name, "queries", len(report.Queries))
	return report, nil
}

// DecodeTimelineActivity rebuilds a timeline from flattened buffers
func (a *Activities) DecodeTimelineActivity(ctx context.Context, buffers sequence.Flattened) (*sequence.TimelineSummary, error) {
	summary, err := a.inspector.Decode(buffers)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), CorruptTimelineErrorType, err)
	}
	return summary, nil
}

// Registry is the part of a worker, or of a test environment, that Register needs
type Registry interface {
	RegisterWorkflow(w interface{})
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

// Register registers the workflows and activities under the names the
// workflows dispatch to
func Register(r Registry, a *Activities) {
	r.RegisterWorkflow(InspectWorkflow)
	r.RegisterWorkflow(DecodeWorkflow)

	r.RegisterActivityWithOptions(a.InspectSequenceActivity, activity.RegisterOptions{Name: InspectSequenceActivityName})
	r.RegisterActivityWithOptions(a.DecodeTimelineActivity, activity.RegisterOptions{Name: DecodeTimelineActivityName})
}
