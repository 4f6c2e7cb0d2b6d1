package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/messaging"
)

// SUBJECT_WILDCARD captures every wallet update subject
const SUBJECT_WILDCARD = "wallets.>"

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// NewPublisher connects to NATS, makes sure the stream exists and returns a publisher
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if err := js.EnsureStream(ctx, cfg.StreamName, []string{SUBJECT_WILDCARD}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	logger.InfoCtx(ctx, "Connected to NATS JetStream",
		zap.String("url", nc.ConnectedUrl()),
		zap.String("stream", cfg.StreamName))

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

// PublishWalletUpdate publishes a wallet update to NATS JetStream
func (p *publisher) PublishWalletUpdate(ctx context.Context, update *domain.WalletUpdate) error {
	logger.DebugCtx(ctx, "Publishing wallet update",
		zap.String("kind", string(update.Kind)),
		zap.String("wallet_id", update.WalletID.String()),
		zap.Int("count", update.Count))

	data, err := p.json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet update: %w", err)
	}

	_, err = p.js.Publish(ctx, BuildSubject(update.Kind), data)
	if err != nil {
		return fmt.Errorf("failed to publish wallet update: %w", err)
	}

	return nil
}

// BuildSubject returns the subject of a kind's wallet updates.
// Format: wallets.{kind}.updated, e.g. wallets.nft.updated
func BuildSubject(kind domain.AssetKind) string {
	return fmt.Sprintf("wallets.%s.updated", kind)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
