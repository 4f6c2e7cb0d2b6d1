package walletcache

import (
	"context"

	"go.uber.org/zap"

	"github.com/feral-file/ff-wallet-assets/internal/aggregator"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/normalizer"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
)

// fill fetches the pages after the first one, strictly in order, until the entry
// holds TotalCount assets. It stops without retrying on the first failed or empty
// page, and as soon as the entry is dropped or replaced by a newer load cycle.
func (c *walletCache) fill(ctx context.Context, id domain.WalletID, gen uint64, limit int) {
	defer c.finishFill(id, gen)

	for {
		c.mu.Lock()
		entry, ok := c.current(id, gen)
		if !ok {
			c.mu.Unlock()
			logger.DebugCtx(ctx, "Background fill superseded",
				zap.String("kind", string(c.kind)),
				zap.String("wallet_id", id.String()),
				zap.Uint64("generation", gen))
			return
		}
		if entry.IsComplete {
			c.mu.Unlock()
			return
		}
		skip := len(entry.Assets)
		c.mu.Unlock()

		page, err := c.fetchPage(ctx, id, limit, skip)
		if err != nil {
			logger.WarnCtx(ctx, "Background fill aborted",
				zap.String("kind", string(c.kind)),
				zap.String("wallet_id", id.String()),
				zap.Int("skip", skip),
				zap.Error(err))
			return
		}
		if len(page.Assets) == 0 {
			logger.WarnCtx(ctx, "Background fill aborted on empty page",
				zap.String("kind", string(c.kind)),
				zap.String("wallet_id", id.String()),
				zap.Int("skip", skip),
				zap.Int("total_count", page.TotalCount))
			return
		}

		assets := normalizer.NormalizeAll(page.Assets)

		// append, re-aggregate and timestamp as one step for readers
		c.mu.Lock()
		entry, ok = c.current(id, gen)
		if !ok {
			c.mu.Unlock()
			return
		}
		entry.Assets = append(entry.Assets, assets...)
		entry.Collections = aggregator.Aggregate(c.kind, entry.Assets)
		entry.LastUpdated = c.clock.Now()
		entry.TotalCount = page.TotalCount
		entry.IsComplete = len(entry.Assets) >= entry.TotalCount
		c.store.Put(id, entry)
		update := c.update(id, entry)
		c.mu.Unlock()

		c.publish(update)

		if update.Complete {
			logger.InfoCtx(ctx, "Background fill completed",
				zap.String("kind", string(c.kind)),
				zap.String("wallet_id", id.String()),
				zap.Int("count", update.Count))
			c.publish(update)
			return
		}
	}
}

// fetchPage fetches one background page under the configured page timeout
func (c *walletCache) fetchPage(ctx context.Context, id domain.WalletID, limit, skip int) (*assetgraph.Page, error) {
	if c.config.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.PageTimeout)
		defer cancel()
	}

	return c.client.FetchPage(ctx, id, limit, skip)
}

// finishFill releases the active-load slot when it still belongs to gen
func (c *walletCache) finishFill(id domain.WalletID, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if running, ok := c.loading[id]; ok && running == gen {
		delete(c.loading, id)
	}
}

// update builds the event payload for an entry. Callers hold c.mu.
func (c *walletCache) update(id domain.WalletID, entry *Entry) domain.WalletUpdate {
	return domain.WalletUpdate{
		Kind:      c.kind,
		WalletID:  id,
		Complete:  entry.IsComplete,
		Count:     len(entry.Assets),
		Timestamp: entry.LastUpdated,
	}
}

func (c *walletCache) publish(update domain.WalletUpdate) {
	if c.notifier == nil {
		return
	}

	c.notifier.Publish(notifier.Event{
		Name:    c.kind.UpdateEventName(),
		Payload: update,
	})
}
