package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/messaging"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
)

// Config holds the configuration for the update relay
type Config struct {
	// QueueSize bounds the updates waiting to be published; overflow is dropped
	QueueSize int
	// PublishTimeout bounds a single publish attempt
	PublishTimeout time.Duration
	// RetryInitialInterval is the first backoff interval between attempts
	RetryInitialInterval time.Duration
	// RetryMaxElapsed gives up on an update after this long (0 = default)
	RetryMaxElapsed time.Duration
}

// Relay forwards in-process wallet updates to the message broker
type Relay interface {
	// Run subscribes to the update events and publishes them until ctx is done
	Run(ctx context.Context) error
	// Close closes the relay and the underlying publisher
	Close()
}

type relay struct {
	notifier  notifier.Notifier
	publisher messaging.Publisher
	kinds     []domain.AssetKind
	config    Config
	queue     chan domain.WalletUpdate
	closeOnce sync.Once
}

// NewRelay creates a relay for the update events of the given kinds
func NewRelay(cfg Config, n notifier.Notifier, publisher messaging.Publisher, kinds []domain.AssetKind) Relay {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 500 * time.Millisecond
	}
	if cfg.RetryMaxElapsed <= 0 {
		cfg.RetryMaxElapsed = 30 * time.Second
	}

	return &relay{
		notifier:  n,
		publisher: publisher,
		kinds:     kinds,
		config:    cfg,
		queue:     make(chan domain.WalletUpdate, cfg.QueueSize),
	}
}

// Run subscribes to the update events and publishes them until ctx is done
func (r *relay) Run(ctx context.Context) error {
	if len(r.kinds) == 0 {
		return fmt.Errorf("no asset kind to relay")
	}

	subscriptions := make([]notifier.SubscriptionID, 0, len(r.kinds))
	for _, kind := range r.kinds {
		subscriptions = append(subscriptions, r.notifier.Subscribe(kind.UpdateEventName(), r.enqueue))
	}
	defer func() {
		for _, id := range subscriptions {
			r.notifier.Unsubscribe(id)
		}
	}()

	logger.InfoCtx(ctx, "Starting update relay", zap.Int("kinds", len(r.kinds)), zap.Int("queue_size", r.config.QueueSize))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down update relay", zap.Int("pending", len(r.queue)))
			return ctx.Err()
		case update := <-r.queue:
			r.forward(ctx, update)
		}
	}
}

// enqueue is the notifier handler; it never blocks the publishing goroutine
func (r *relay) enqueue(event notifier.Event) {
	select {
	case r.queue <- event.Payload:
	default:
		logger.Warn("Update relay queue is full, dropping update",
			zap.String("event", event.Name),
			zap.String("wallet_id", event.Payload.WalletID.String()))
	}
}

// forward publishes one update, retrying with exponential backoff
func (r *relay) forward(ctx context.Context, update domain.WalletUpdate) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.RetryInitialInterval
	b.MaxElapsedTime = r.config.RetryMaxElapsed

	attempt := 0
	operation := func() error {
		attempt++

		publishCtx := ctx
		if r.config.PublishTimeout > 0 {
			var cancel context.CancelFunc
			publishCtx, cancel = context.WithTimeout(ctx, r.config.PublishTimeout)
			defer cancel()
		}

		if err := r.publisher.PublishWalletUpdate(publishCtx, &update); err != nil {
			logger.WarnCtx(ctx, "Failed to publish wallet update",
				zap.String("wallet_id", update.WalletID.String()),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Giving up on wallet update"),
			zap.String("kind", string(update.Kind)),
			zap.String("wallet_id", update.WalletID.String()),
			zap.Int("attempts", attempt))
	}
}

// Close closes the relay and the underlying publisher
func (r *relay) Close() {
	r.closeOnce.Do(func() {
		r.publisher.Close()
	})
}
