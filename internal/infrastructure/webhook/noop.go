package webhook

import (
	"context"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
)

// NoopEmitter discards audit events when no endpoint is configured.
type NoopEmitter struct{}

func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

func (e *NoopEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	return nil
}

var _ ports.WebhookEmitter = (*NoopEmitter)(nil)
