package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/leowmjw/go-field-timeline/pkg/sequence"
	"github.com/leowmjw/go-field-timeline/pkg/timeline"
)

// Dispatcher runs inspections and decodes as workflows on a Temporal cluster
type Dispatcher struct {
	logger    *slog.Logger
	client    client.Client
	taskQueue string
}

// NewDispatcher creates a dispatcher starting workflows on taskQueue
func NewDispatcher(logger *slog.Logger, c client.Client, taskQueue string) *Dispatcher {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	return &Dispatcher{
		logger:    logger,
		client:    c,
		taskQueue: taskQueue,
	}
}

// Inspect runs InspectWorkflow and waits for its report
func (d *Dispatcher) Inspect(ctx context.Context, desc *sequence.Description) (*sequence.Report, error) {
	workflowID := GenerateInspectWorkflowID(desc.Name)

	run, err := d.client.ExecuteWorkflow(
		ctx,
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: d.taskQueue,
		},
		InspectWorkflow,
		*desc,
	)
	if err != nil {
		d.logger.Error("Failed to start inspect workflow", "workflowID", workflowID, "error", err)
		return nil, fmt.Errorf("failed to start inspect workflow: %w", err)
	}

	var report *sequence.Report
	if err := run.Get(ctx, &report); err != nil {
		d.logger.Warn("Inspect workflow failed", "workflowID", workflowID, "error", err)
		return nil, mapWorkflowError(err)
	}

	d.logger.Info("Inspect workflow completed", "workflowID", workflowID, "name", desc.Name)
	return report, nil
}

// DecodeTimeline runs DecodeWorkflow and waits for its summary
func (d *Dispatcher) DecodeTimeline(ctx context.Context, buffers sequence.Flattened) (*sequence.TimelineSummary, error) {
	workflowID := GenerateDecodeWorkflowID()

	run, err := d.client.ExecuteWorkflow(
		ctx,
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: d.taskQueue,
		},
		DecodeWorkflow,
		buffers,
	)
	if err != nil {
		d.logger.Error("Failed to start decode workflow", "workflowID", workflowID, "error", err)
		return nil, fmt.Errorf("failed to start decode workflow: %w", err)
	}

	var summary *sequence.TimelineSummary
	if err := run.Get(ctx, &summary); err != nil {
		d.logger.Warn("Decode workflow failed", "workflowID", workflowID, "error", err)
		return nil, mapWorkflowError(err)
	}
	return summary, nil
}

// mapWorkflowError restores the sentinel errors lost when an activity error
// is serialized
func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case InvalidDescriptionErrorType:
			return fmt.Errorf("%w: %s", sequence.ErrInvalidDescription, appErr.Error())
		case CorruptTimelineErrorType:
			return fmt.Errorf("%w: %s", timeline.ErrConstruction, appErr.Error())
		}
	}
	return err
}
