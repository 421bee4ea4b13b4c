package ports

import "context"

// TaskEnqueuer enqueues async tasks (OTP delivery, webhooks). Callers
// treat enqueue failures as best-effort: log and move on.
type TaskEnqueuer interface {
	EnqueueSendOTP(ctx context.Context, email, code, channel string) error
	EnqueueWebhook(ctx context.Context, event string, payload interface{}) error
}
