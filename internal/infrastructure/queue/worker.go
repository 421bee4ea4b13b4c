package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
)

// otpPayload matches the JSON enqueued by TaskEnqueuer.EnqueueSendOTP.
type otpPayload struct {
	Email   string `json:"email"`
	Code    string `json:"code"`
	Channel string `json:"channel"`
}

// Worker runs Asynq task handlers (OTP delivery, audit webhooks).
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, emitter: emitter, log: log}
	mux.HandleFunc(TypeSendOTP, w.handleSendOTP)
	mux.HandleFunc(TypeWebhook, w.handleWebhook)
	return w
}

func (w *Worker) handleSendOTP(ctx context.Context, t *asynq.Task) error {
	var p otpPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("otp task payload invalid")
		return err
	}
	// Dev: log the code; production would send via SMTP/SMS gateway.
	w.log.Info().
		Str("email", p.Email).
		Str("channel", p.Channel).
		Str("code", p.Code).
		Msg("verification code (log only; configure a mail transport for real delivery)")
	return nil
}

func (w *Worker) handleWebhook(ctx context.Context, t *asynq.Task) error {
	if w.emitter == nil {
		w.log.Debug().Str("payload", string(t.Payload())).Msg("webhook task (noop)")
		return nil
	}
	var body struct {
		Event   string           `json:"event"`
		Payload ports.AuditEvent `json:"payload"`
	}
	if err := json.Unmarshal(t.Payload(), &body); err != nil {
		w.log.Error().Err(err).Msg("webhook task payload invalid")
		return err
	}
	return w.emitter.Emit(ctx, body.Payload)
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
