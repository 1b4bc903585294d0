package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stempro/academy-api/internal/mailer"
	"github.com/stempro/academy-api/pkg/jobs"
)

// MailDispatcher queues outbound mail without blocking the caller. Delivery
// is best effort: a message that cannot be sent is logged and dropped.
type MailDispatcher interface {
	Dispatch(msg mailer.Message)
}

// MailQueue dispatches messages through a background worker pool.
type MailQueue struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewMailQueue wires a sender behind a job queue.
func NewMailQueue(sender mailer.Sender, cfg jobs.QueueConfig) *MailQueue {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(mailer.Message)
		if !ok {
			logger.Warn("mail job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return sender.Send(ctx, msg)
	}
	return &MailQueue{queue: jobs.NewQueue("mail", handler, cfg), logger: logger}
}

// Start launches the queue workers.
func (m *MailQueue) Start(ctx context.Context) {
	m.queue.Start(ctx)
}

// Stop drains the workers.
func (m *MailQueue) Stop() {
	m.queue.Stop()
}

// Dispatch enqueues a message. Failures are logged, never returned.
func (m *MailQueue) Dispatch(msg mailer.Message) {
	err := m.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "send_email",
		Payload: msg,
	})
	if err != nil {
		m.logger.Warn("failed to enqueue mail", zap.String("to", msg.To), zap.Error(err))
	}
}

// nopDispatcher is used when no mail backend is configured.
type nopDispatcher struct{}

func (nopDispatcher) Dispatch(mailer.Message) {}

// NopDispatcher returns a dispatcher that discards all messages.
func NopDispatcher() MailDispatcher {
	return nopDispatcher{}
}
