package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuditRecord persists an audit event.
	TaskTypeAuditRecord = "audit:record"
)

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event shared.AuditEvent) error
}

// NewAuditTask constructs an Asynq task.
func NewAuditTask(event shared.AuditEvent) (*asynq.Task, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditRecord, data, asynq.MaxRetry(10)), nil
}

// NewAuditHandler processes TaskTypeAuditRecord tasks.
func NewAuditHandler(recorder AuditRecorder) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var event shared.AuditEvent
		if err := json.Unmarshal(t.Payload(), &event); err != nil {
			return fmt.Errorf("decode audit payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := event.Validate(); err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return recorder.Record(ctx, event)
	}
}
