// Package outbox publishes events recorded in the outbox table, such as cart
// checkouts, to the message broker.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/sqlcart/internal/logger"
	"github.com/nikolayk812/sqlcart/internal/port"
)

type Relay struct {
	repo      port.OutboxRepository
	publisher port.EventPublisher
	log       *logger.Logger

	interval  time.Duration
	batchSize int
}

func NewRelay(repo port.OutboxRepository, publisher port.EventPublisher, log *logger.Logger, interval time.Duration, batchSize int) (*Relay, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive")
	}

	return &Relay{
		repo:      repo,
		publisher: publisher,
		log:       log.With("service", "OutboxRelay"),
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Run publishes pending events every interval until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.PublishPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.log.Warn("outbox relay pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PublishPending publishes one batch in id order and stops at the first failure,
// so a failed event is retried before any later one. Delivery is at least once.
func (r *Relay) PublishPending(ctx context.Context) (int, error) {
	events, err := r.repo.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("repo.FetchPending: %w", err)
	}

	published := 0
	for _, event := range events {
		if err := r.publisher.Publish(ctx, event); err != nil {
			return published, fmt.Errorf("publisher.Publish[%s]: %w", event.EventID, err)
		}

		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			return published, fmt.Errorf("repo.MarkSent[%d]: %w", event.ID, err)
		}

		published++
	}

	if published > 0 {
		r.log.Debug("outbox events published", "count", published)
	}

	return published, nil
}
