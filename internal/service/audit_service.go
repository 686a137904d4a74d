package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/bookstore-service/internal/events"
)

// AuditService writes structured audit entries for auth and resource events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to every audited event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventIdentityRegistered,
		events.EventAuthorCreated,
		events.EventAuthorUpdated,
		events.EventAuthorDeleted,
		events.EventBookCreated,
		events.EventBookUpdated,
		events.EventBookDeleted,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("actor_id", event.ActorID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
