package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sqlcart/internal/db"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/port"
)

type outboxRepository struct {
	q *db.Queries
}

func NewOutbox(pool *pgxpool.Pool) (port.OutboxRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &outboxRepository{q: db.New(pool)}, nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := r.q.ListPendingOutbox(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("q.ListPendingOutbox: %w", err)
	}

	events := make([]domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, domain.OutboxEvent{
			ID:        row.ID,
			EventID:   row.EventID,
			Topic:     row.Topic,
			Key:       row.Key,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}

	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64) error {
	if err := r.q.MarkOutboxSent(ctx, id); err != nil {
		return fmt.Errorf("q.MarkOutboxSent: %w", err)
	}

	return nil
}
