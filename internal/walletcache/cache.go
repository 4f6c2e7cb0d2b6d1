package walletcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/aggregator"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/normalizer"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
)

const defaultMaxConcurrentLoads = 32

// Config holds the configuration of a wallet asset cache
type Config struct {
	// TTL is how long an entry is served without refetching
	TTL time.Duration

	// PageSize is used when a caller passes a non-positive limit
	PageSize int

	// PageTimeout bounds every page fetch, the shared first page included (0 = no timeout)
	PageTimeout time.Duration

	// EvictAfter drops entries whose last stored page is older than this (0 = never).
	// It runs on wall time, independent of the clock used for TTL.
	EvictAfter time.Duration

	// CleanupInterval is how often evicted entries are purged
	CleanupInterval time.Duration

	// MaxConcurrentLoads bounds the background fills running at once across wallets
	MaxConcurrentLoads int
}

// Status is a snapshot of a wallet's cache entry
type Status struct {
	Cached      bool      `json:"cached"`
	Complete    bool      `json:"complete"`
	Loading     bool      `json:"loading"`
	Count       int       `json:"count"`
	TotalCount  int       `json:"total_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// Cache is the per-kind wallet asset cache.
// Every wallet id argument is canonicalized (see domain.CanonicalWalletID).
//
//go:generate mockgen -source=cache.go -destination=../mocks/wallet_cache.go -package=mocks -mock_names=Cache=MockWalletCache
type Cache interface {
	// Kind returns the asset kind this cache holds
	Kind() domain.AssetKind

	// GetAssets returns the wallet's assets, fetching the first page when the entry
	// is missing, stale or forceRefresh is set. It returns once the first page is
	// cached; the remaining pages are loaded in the background.
	GetAssets(ctx context.Context, walletID string, limit int, forceRefresh bool) ([]domain.Asset, error)

	// GetCachedAssets returns whatever is cached for the wallet without fetching
	GetCachedAssets(walletID string) []domain.Asset

	// GetCachedCollections returns the current aggregation for the wallet without fetching
	GetCachedCollections(walletID string) []domain.Collection

	// IsLoadingComplete reports whether every page of the current load cycle is cached
	IsLoadingComplete(walletID string) bool

	// Status returns a snapshot of the wallet's entry
	Status(walletID string) Status

	// FindAsset looks an asset up by id within the wallet's cached assets
	FindAsset(walletID, assetID string) (domain.Asset, bool)

	// Invalidate drops the wallet's entry; a running background fill stops at its next step
	Invalidate(walletID string)

	// InvalidateAll drops every entry
	InvalidateAll()

	// Wait blocks until no background fill is running
	Wait()

	// Close stops background fills and releases the worker pool
	Close()
}

type walletCache struct {
	kind     domain.AssetKind
	client   assetgraph.Client
	notifier notifier.Notifier
	clock    adapter.Clock
	config   Config
	store    *Store
	pool     pond.Pool
	group    singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	fills  sync.WaitGroup

	// mu guards entry mutation, generation and loading
	mu         sync.Mutex
	generation uint64
	loading    map[domain.WalletID]uint64
	closed     bool
}

// New creates a wallet asset cache for the kind served by client
func New(client assetgraph.Client, n notifier.Notifier, clock adapter.Clock, cfg Config) Cache {
	if cfg.PageSize <= 0 {
		cfg.PageSize = domain.DEFAULT_PAGE_SIZE
	}
	if cfg.TTL <= 0 {
		cfg.TTL = domain.DEFAULT_CACHE_TTL
	}
	if cfg.MaxConcurrentLoads <= 0 {
		cfg.MaxConcurrentLoads = defaultMaxConcurrentLoads
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &walletCache{
		kind:     client.Kind(),
		client:   client,
		notifier: n,
		clock:    clock,
		config:   cfg,
		store:    NewStore(cfg.EvictAfter, cfg.CleanupInterval),
		pool:     pond.NewPool(cfg.MaxConcurrentLoads),
		ctx:      ctx,
		cancel:   cancel,
		loading:  make(map[domain.WalletID]uint64),
	}
}

// Kind returns the asset kind this cache holds
func (c *walletCache) Kind() domain.AssetKind {
	return c.kind
}

// GetAssets returns the wallet's assets, fetching the first page when needed
func (c *walletCache) GetAssets(ctx context.Context, walletID string, limit int, forceRefresh bool) ([]domain.Asset, error) {
	id := domain.CanonicalWalletID(walletID)
	if id == "" {
		return nil, domain.ErrInvalidWalletID
	}
	if limit <= 0 {
		limit = c.config.PageSize
	}

	if !forceRefresh {
		if assets, ok := c.freshAssets(id); ok {
			logger.DebugCtx(ctx, "Serving wallet assets from cache",
				zap.String("kind", string(c.kind)),
				zap.String("wallet_id", id.String()),
				zap.Int("count", len(assets)))
			return assets, nil
		}
	}

	// Concurrent callers asking for the same first page share one fetch,
	// detached from the cancellation of whichever caller started it.
	key := fmt.Sprintf("%s|%d|%t", id, limit, forceRefresh)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		if !forceRefresh {
			if assets, ok := c.freshAssets(id); ok {
				return assets, nil
			}
		}

		loadCtx := context.WithoutCancel(ctx)
		if c.config.PageTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, c.config.PageTimeout)
			defer cancel()
		}
		return c.load(loadCtx, id, limit)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneAssets(res.Val.([]domain.Asset)), nil
	}
}

// freshAssets returns a copy of the cached assets when the entry is within TTL
func (c *walletCache) freshAssets(id domain.WalletID) ([]domain.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store.Get(id)
	if !ok || entry.LastUpdated.IsZero() {
		return nil, false
	}
	if c.clock.Now().Sub(entry.LastUpdated) >= c.config.TTL {
		return nil, false
	}

	return cloneAssets(entry.Assets), true
}

// load starts a new load cycle: fetches the first page, installs a fresh entry
// and hands the remaining pages to the background fill.
// The previous entry stays readable until the first page arrives.
func (c *walletCache) load(ctx context.Context, id domain.WalletID, limit int) ([]domain.Asset, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	logger.InfoCtx(ctx, "Loading wallet assets",
		zap.String("kind", string(c.kind)),
		zap.String("wallet_id", id.String()),
		zap.Int("limit", limit),
		zap.Uint64("generation", gen))

	page, err := c.client.FetchPage(ctx, id, limit, 0)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch first page of wallet assets",
			zap.String("kind", string(c.kind)),
			zap.String("wallet_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	assets := normalizer.NormalizeAll(page.Assets)
	entry := &Entry{
		Assets:      assets,
		Collections: aggregator.Aggregate(c.kind, assets),
		LastUpdated: c.clock.Now(),
		IsComplete:  page.TotalCount <= limit,
		TotalCount:  page.TotalCount,
		Generation:  gen,
	}

	c.mu.Lock()
	installed := true
	if existing, ok := c.store.Get(id); ok && existing.Generation > gen {
		// a newer load cycle already installed its first page
		installed = false
	} else {
		c.store.Put(id, entry)
		if !entry.IsComplete {
			c.startFill(id, gen, limit)
		}
	}
	result := cloneAssets(entry.Assets)
	complete := entry.IsComplete
	count := len(entry.Assets)
	c.mu.Unlock()

	logger.InfoCtx(ctx, "Loaded first page of wallet assets",
		zap.String("kind", string(c.kind)),
		zap.String("wallet_id", id.String()),
		zap.Int("count", count),
		zap.Int("total_count", page.TotalCount),
		zap.Bool("complete", complete),
		zap.Bool("installed", installed))

	return result, nil
}

// startFill submits the background fill of a load cycle. Callers hold c.mu.
func (c *walletCache) startFill(id domain.WalletID, gen uint64, limit int) {
	if c.closed {
		return
	}
	if running, ok := c.loading[id]; ok && running == gen {
		return
	}
	c.loading[id] = gen

	c.fills.Add(1)
	c.pool.Submit(func() {
		defer c.fills.Done()
		c.fill(c.ctx, id, gen, limit)
	})
}

// current returns the wallet's entry when it still belongs to the given load cycle.
// Callers hold c.mu.
func (c *walletCache) current(id domain.WalletID, gen uint64) (*Entry, bool) {
	entry, ok := c.store.Get(id)
	if !ok || entry.Generation != gen {
		return nil, false
	}
	return entry, true
}

// GetCachedAssets returns whatever is cached for the wallet without fetching
func (c *walletCache) GetCachedAssets(walletID string) []domain.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store.Get(domain.CanonicalWalletID(walletID))
	if !ok {
		return []domain.Asset{}
	}
	return cloneAssets(entry.Assets)
}

// GetCachedCollections returns the current aggregation for the wallet without fetching
func (c *walletCache) GetCachedCollections(walletID string) []domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store.Get(domain.CanonicalWalletID(walletID))
	if !ok {
		return []domain.Collection{}
	}
	return cloneCollections(entry.Collections)
}

// IsLoadingComplete reports whether every page of the current load cycle is cached
func (c *walletCache) IsLoadingComplete(walletID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store.Get(domain.CanonicalWalletID(walletID))
	return ok && entry.IsComplete
}

// Status returns a snapshot of the wallet's entry
func (c *walletCache) Status(walletID string) Status {
	id := domain.CanonicalWalletID(walletID)

	c.mu.Lock()
	defer c.mu.Unlock()

	_, loading := c.loading[id]
	entry, ok := c.store.Get(id)
	if !ok {
		return Status{Loading: loading}
	}

	return Status{
		Cached:      true,
		Complete:    entry.IsComplete,
		Loading:     loading,
		Count:       len(entry.Assets),
		TotalCount:  entry.TotalCount,
		LastUpdated: entry.LastUpdated,
	}
}

// FindAsset looks an asset up by id within the wallet's cached assets
func (c *walletCache) FindAsset(walletID, assetID string) (domain.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store.Get(domain.CanonicalWalletID(walletID))
	if !ok {
		return domain.Asset{}, false
	}

	for _, asset := range entry.Assets {
		if asset.ID == assetID {
			return asset, true
		}
	}
	return domain.Asset{}, false
}

// Invalidate drops the wallet's entry
func (c *walletCache) Invalidate(walletID string) {
	id := domain.CanonicalWalletID(walletID)

	c.mu.Lock()
	c.store.Delete(id)
	c.mu.Unlock()

	logger.Info("Invalidated wallet assets",
		zap.String("kind", string(c.kind)),
		zap.String("wallet_id", id.String()))
}

// InvalidateAll drops every entry
func (c *walletCache) InvalidateAll() {
	c.mu.Lock()
	c.store.Flush()
	c.mu.Unlock()
}

// Wait blocks until no background fill is running
func (c *walletCache) Wait() {
	c.fills.Wait()
}

// Close stops background fills and releases the worker pool
func (c *walletCache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.fills.Wait()
	c.pool.StopAndWait()
}

func cloneAssets(assets []domain.Asset) []domain.Asset {
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	return out
}

func cloneCollections(collections []domain.Collection) []domain.Collection {
	out := make([]domain.Collection, len(collections))
	for i, collection := range collections {
		out[i] = collection
		out[i].Assets = cloneAssets(collection.Assets)
	}
	return out
}
