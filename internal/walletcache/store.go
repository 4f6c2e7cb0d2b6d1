package walletcache

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
)

// Entry is the cached asset set of one wallet for one load cycle.
// Entries are mutated in place by the background fill while holding the cache lock.
type Entry struct {
	Assets      []domain.Asset
	Collections []domain.Collection
	LastUpdated time.Time
	IsComplete  bool
	TotalCount  int
	Generation  uint64
}

// Store owns the entries of one cache, keyed by canonical wallet id.
// Staleness is judged from Entry.LastUpdated by the cache; the store only
// evicts entries whose last Put is older than evictAfter on wall time.
type Store struct {
	items *cache.Cache
}

// NewStore creates a store. evictAfter <= 0 keeps entries until deleted.
func NewStore(evictAfter, cleanupInterval time.Duration) *Store {
	expiration := cache.NoExpiration
	if evictAfter > 0 {
		expiration = evictAfter
	} else {
		cleanupInterval = 0
	}

	return &Store{
		items: cache.New(expiration, cleanupInterval),
	}
}

// Get returns the entry of a wallet
func (s *Store) Get(walletID domain.WalletID) (*Entry, bool) {
	obj, found := s.items.Get(walletID.String())
	if !found {
		return nil, false
	}

	entry, ok := obj.(*Entry)
	return entry, ok
}

// Put stores the entry of a wallet, restarting its eviction window
func (s *Store) Put(walletID domain.WalletID, entry *Entry) {
	s.items.Set(walletID.String(), entry, cache.DefaultExpiration)
}

// Delete removes the entry of a wallet
func (s *Store) Delete(walletID domain.WalletID) {
	s.items.Delete(walletID.String())
}

// Flush removes every entry
func (s *Store) Flush() {
	s.items.Flush()
}

