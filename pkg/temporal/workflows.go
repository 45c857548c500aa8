package temporal

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

const (
	// Workflow IDs
	InspectWorkflowIDPrefix = "inspect-"
	DecodeWorkflowIDPrefix  = "decode-"

	// Activity names
	InspectSequenceActivityName = "inspect-sequence"
	DecodeTimelineActivityName  = "decode-timeline"

	// DefaultTaskQueue is used when the server is started without -task-queue
	DefaultTaskQueue = "field-timeline-task-queue"
)

// Application error types that cross the workflow boundary. They are mapped
// back to sentinel errors by the Dispatcher.
const (
	InvalidDescriptionErrorType = "InvalidDescription"
	CorruptTimelineErrorType    = "CorruptTimeline"
)

func activityOptions(ctx workflow.Context) workflow.Context {
	ao := workflow.ActivityOptions{
		ScheduleToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
			NonRetryableErrorTypes: []string{
				InvalidDescriptionErrorType,
				CorruptTimelineErrorType,
			},
		},
	}
	return workflow.WithActivityOptions(ctx, ao)
}

// InspectWorkflow materializes a sequence description and reports on its timeline
func InspectWorkflow(ctx workflow.Context, desc sequence.Description) (*sequence.Report, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting inspect workflow", "name", desc.Name, "fields", len(desc.Fields))

	ctx = activityOptions(ctx)

	var report *sequence.Report
	err := workflow.ExecuteActivity(ctx, InspectSequenceActivityName, desc).Get(ctx, &report)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect sequence: %w", err)
	}

	logger.Info("Inspect workflow completed", "name", desc.Name, "queries", len(report.Queries))
	return report, nil
}

// DecodeWorkflow rebuilds a timeline from flattened buffers
func DecodeWorkflow(ctx workflow.Context, buffers sequence.Flattened) (*sequence.TimelineSummary, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting decode workflow", "ints", len(buffers.Ints), "doubles", len(buffers.Doubles))

	ctx = activityOptions(ctx)

	var summary *sequence.TimelineSummary
	err := workflow.ExecuteActivity(ctx, DecodeTimelineActivityName, buffers).Get(ctx, &summary)
	if err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}
	return summary, nil
}

// GenerateInspectWorkflowID creates a workflow ID for an inspection
func GenerateInspectWorkflowID(name string) string {
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%s%s-%d", InspectWorkflowIDPrefix, name, time.Now().UnixNano())
}

// GenerateDecodeWorkflowID creates a workflow ID for a decode
func GenerateDecodeWorkflowID() string {
	return fmt.Sprintf("%s%d", DecodeWorkflowIDPrefix, time.Now().UnixNano())
}
