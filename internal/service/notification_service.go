package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/media-library-service/internal/events"
)

// NotificationService emits operator notifications for account events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserCreated)
	n.dispatcher.Subscribe(events.EventSignupBlocked, n.handleSignupBlocked)
}

func (n *NotificationService) handleUserCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("UserCreated", zap.String("user_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSignupBlocked(ctx context.Context, event events.Event) error {
	n.logger.Info("SignupBlocked", zap.Any("payload", event.Payload))
	return nil
}
