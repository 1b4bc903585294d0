package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stempro/academy-api/internal/mailer"
	"github.com/stempro/academy-api/pkg/jobs"
)

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	done chan struct{}
}

func (s *captureSender) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func TestMailQueueDeliversMessages(t *testing.T) {
	sender := &captureSender{done: make(chan struct{}, 2)}
	queue := NewMailQueue(sender, jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()

	queue.Dispatch(mailer.Message{To: "a@example.com", Subject: "first"})
	queue.Dispatch(mailer.Message{To: "b@example.com", Subject: "second"})

	for i := 0; i < 2; i++ {
		select {
		case <-sender.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, "a@example.com", sender.sent[0].To)
}

func TestDispatchBeforeStartDoesNotPanic(t *testing.T) {
	sender := &captureSender{done: make(chan struct{}, 1)}
	queue := NewMailQueue(sender, jobs.QueueConfig{})

	// The enqueue failure is logged and swallowed.
	queue.Dispatch(mailer.Message{To: "a@example.com"})
}
