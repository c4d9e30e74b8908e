package port

import (
	"context"

	"github.com/nikolayk812/sqlcart/internal/domain"
)

type OutboxRepository interface {
	FetchPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkSent(ctx context.Context, id int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OutboxEvent) error
}
