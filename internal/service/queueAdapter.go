package service

import (
	"context"

	"github.com/evreg/registration-service/internal/entity"
	"github.com/evreg/registration-service/pkg/rabbitmq"
)

// QueueAdapter adapts rabbitmq.Queue to the NotificationPublisher interface.
type QueueAdapter struct {
	queue rabbitmq.Queue
}

func NewQueueAdapter(q rabbitmq.Queue) *QueueAdapter {
	return &QueueAdapter{queue: q}
}

func (a *QueueAdapter) Publish(ctx context.Context, message *entity.NotificationMessage) error {
	if a.queue == nil {
		return nil // queue not configured, notifications disabled
	}
	return a.queue.Publish(ctx, message)
}
