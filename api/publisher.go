package api

import (
	"context"

	"forum/logger"
	"forum/metrics"
	"forum/models"
	"forum/usecases"
)

// FallbackPublisher publishes through primary (Kafka) and pushes straight
// to the local hub when primary is missing or fails, so connected students
// are not blocked by a broker outage.
type FallbackPublisher struct {
	primary usecases.NotificationPublisher
	hub     *Hub
}

func NewFallbackPublisher(primary usecases.NotificationPublisher, hub *Hub) *FallbackPublisher {
	return &FallbackPublisher{primary: primary, hub: hub}
}

func (p *FallbackPublisher) Publish(ctx context.Context, n models.Notification) error {
	if p.primary != nil {
		err := p.primary.Publish(ctx, n)
		if err == nil {
			return nil
		}
		metrics.IncKafkaPublishFailures()
		logger.Error("publish fail, pushing directly", err, logger.FieldKV("notification_id", n.ID.String()))
	}
	if p.hub.Send(n) > 0 {
		metrics.IncNotificationsPushed()
	}
	return nil
}
