package queue

import (
	"context"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueSendOTP(ctx context.Context, email, code, channel string) error {
	return nil
}

func (q *NoopEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
