package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
)

// Config holds the outbound rate limit of the asset graph
type Config struct {
	// RequestsPerSecond is the sustained request rate; <= 0 disables limiting
	RequestsPerSecond float64
	// Burst defaults to ceil(RequestsPerSecond)
	Burst int
	// MaxQueueTime bounds how long a request waits for a token
	MaxQueueTime time.Duration
}

// Limiter is a token bucket shared by every client it wraps,
// so the nft and uniq caches draw from one upstream budget
type Limiter struct {
	config  Config
	limiter *rate.Limiter
}

// NewLimiter creates a limiter, or returns nil when limiting is disabled
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(int(cfg.RequestsPerSecond+0.999), 1)
	}
	if cfg.MaxQueueTime <= 0 {
		cfg.MaxQueueTime = 30 * time.Second
	}

	logger.Info("Asset graph rate limit enabled",
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.Burst),
		zap.Duration("max_queue_time", cfg.MaxQueueTime),
	)

	return &Limiter{
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Wrap returns a client whose page fetches wait for a token first.
// A nil limiter returns the client unchanged.
func (l *Limiter) Wrap(client assetgraph.Client) assetgraph.Client {
	if l == nil {
		return client
	}
	return &limitedClient{Client: client, limiter: l}
}

// acquire blocks until a token is available, the queue time elapses, or ctx is done
func (l *Limiter) acquire(ctx context.Context) error {
	queueCtx, cancel := context.WithTimeout(ctx, l.config.MaxQueueTime)
	defer cancel()

	return l.limiter.Wait(queueCtx)
}

type limitedClient struct {
	assetgraph.Client
	limiter *Limiter
}

// FetchPage waits for a token and delegates to the wrapped client
func (c *limitedClient) FetchPage(ctx context.Context, walletID domain.WalletID, limit, skip int) (*assetgraph.Page, error) {
	if err := c.limiter.acquire(ctx); err != nil {
		logger.WarnCtx(ctx, "Rate limit token unavailable",
			zap.String("kind", string(c.Kind())),
			zap.String("wallet_id", walletID.String()),
			zap.Error(err),
		)
		return nil, domain.NewFetchError(fmt.Sprintf("fetch %s page", c.Kind()), "rate limit token unavailable", err)
	}

	return c.Client.FetchPage(ctx, walletID, limit, skip)
}
