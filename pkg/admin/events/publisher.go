package events

import (
	"context"
	"time"

	"doc-knowledge-be/internal/pkg/logger"
	pkgEvents "doc-knowledge-be/pkg/events"
	pkgNats "doc-knowledge-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for admin lifecycle operations.
// Implementations must never fail the calling operation; publish errors
// are logged, not returned.
type Publisher interface {
	PublishUserStatusToggled(ctx context.Context, userId uuid.UUID, email string, isActive bool, actorId string)
	PublishUserCredentialRotated(ctx context.Context, userId uuid.UUID, email string, actorId string)
}

// NatsPublisher implements Publisher using NATS JetStream.
type NatsPublisher struct {
	publisher *pkgNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pkgNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishUserStatusToggled emits USER_STATUS_TOGGLED after an activation flip.
func (p *NatsPublisher) PublishUserStatusToggled(ctx context.Context, userId uuid.UUID, email string, isActive bool, actorId string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: "USER_STATUS_TOGGLED",
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"email":       email,
			"is_active":   isActive,
			"actor_id":    actorId,
			"entity_type": "user",
			"entity_id":   userId.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_STATUS_TOGGLED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishUserCredentialRotated emits USER_CREDENTIAL_ROTATED after a reset.
// The payload deliberately carries no credential material.
func (p *NatsPublisher) PublishUserCredentialRotated(ctx context.Context, userId uuid.UUID, email string, actorId string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: "USER_CREDENTIAL_ROTATED",
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"email":       email,
			"actor_id":    actorId,
			"entity_type": "user",
			"entity_id":   userId.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_CREDENTIAL_ROTATED event", map[string]interface{}{"error": err.Error()})
	}
}
