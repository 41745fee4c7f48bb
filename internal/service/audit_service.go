package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/file-management/internal/events"
	"github.com/spec-kit/file-management/internal/observability"
)

// AuditService records account and token events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleAccountRegistered)
	a.dispatcher.Subscribe(events.EventTokenIssued, a.handleTokenIssued)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
}

func (a *AuditService) handleAccountRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("AccountRegistered", eventFields(event)...)
	return nil
}

func (a *AuditService) handleTokenIssued(_ context.Context, event events.Event) error {
	a.metrics.RecordTokenIssued()
	a.logger.Info("TokenIssued", eventFields(event)...)
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	reason := "unknown"
	if payload, ok := event.Payload.(events.LoginFailedPayload); ok {
		reason = payload.Reason
	}
	a.metrics.RecordLoginFailure(reason)
	a.logger.Warn("LoginFailed", append(eventFields(event), zap.String("reason", reason))...)
	return nil
}

func eventFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("user_name", event.UserName),
		zap.String("user_id", event.UserID),
		zap.Time("timestamp", event.Timestamp),
	}
}
