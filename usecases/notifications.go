package usecases

import (
	"context"
	"fmt"

	"forum/core"
	"forum/logger"
	"forum/metrics"
	"forum/models"
)

type SendNotificationRequest struct {
	RecipientID string
	Title       string
	Content     string
}

type SendNotificationResponse struct {
	Notification *models.Notification
}

// NotificationSender is what subscribers depend on to notify a student.
type NotificationSender interface {
	Execute(ctx context.Context, req SendNotificationRequest) (SendNotificationResponse, error)
}

// SendNotification stores a notification and then publishes it. A publish
// failure is logged; the notification stays stored and readable.
type SendNotification struct {
	notifications NotificationsRepository
	publisher     NotificationPublisher
}

func NewSendNotification(notifications NotificationsRepository, publisher NotificationPublisher) *SendNotification {
	return &SendNotification{notifications: notifications, publisher: publisher}
}

func (uc *SendNotification) Execute(ctx context.Context, req SendNotificationRequest) (SendNotificationResponse, error) {
	n := models.NewNotification(core.ID(req.RecipientID), req.Title, req.Content, "")
	if err := uc.notifications.Create(ctx, n); err != nil {
		return SendNotificationResponse{}, fmt.Errorf("create notification: %w", err)
	}
	metrics.IncNotificationsSent()
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, *n); err != nil {
			logger.Error("notification publish failed", err,
				logger.FieldKV("notification_id", n.ID.String()),
				logger.FieldKV("recipient_id", req.RecipientID))
		}
	}
	return SendNotificationResponse{Notification: n}, nil
}

type ReadNotificationRequest struct {
	RecipientID    string
	NotificationID string
}

type ReadNotificationResponse struct {
	Notification *models.Notification
}

type ReadNotification struct {
	notifications NotificationsRepository
}

func NewReadNotification(notifications NotificationsRepository) *ReadNotification {
	return &ReadNotification{notifications: notifications}
}

func (uc *ReadNotification) Execute(ctx context.Context, req ReadNotificationRequest) (ReadNotificationResponse, error) {
	n, err := uc.notifications.FindByID(ctx, core.ID(req.NotificationID))
	if err != nil {
		return ReadNotificationResponse{}, fmt.Errorf("find notification: %w", err)
	}
	if n == nil {
		return ReadNotificationResponse{}, core.ErrResourceNotFound
	}
	if n.RecipientID != core.ID(req.RecipientID) {
		return ReadNotificationResponse{}, core.ErrNotAllowed
	}
	n.Read()
	if err := uc.notifications.Save(ctx, n); err != nil {
		return ReadNotificationResponse{}, fmt.Errorf("save notification: %w", err)
	}
	return ReadNotificationResponse{Notification: n}, nil
}

type FetchNotificationsRequest struct {
	RecipientID string
	Page        int
}

type FetchNotifications struct {
	notifications NotificationsRepository
}

func NewFetchNotifications(notifications NotificationsRepository) *FetchNotifications {
	return &FetchNotifications{notifications: notifications}
}

func (uc *FetchNotifications) Execute(ctx context.Context, req FetchNotificationsRequest) ([]*models.Notification, error) {
	ns, err := uc.notifications.FindManyByRecipientID(ctx, core.ID(req.RecipientID), req.Page)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	return ns, nil
}
