package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-wallet-assets/internal/api/rest/dto"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
	"github.com/feral-file/ff-wallet-assets/internal/walletcache"
)

const (
	KIND_CONTEXT_KEY = "asset_kind"

	// STATUS_CLIENT_CLOSED_REQUEST is written when the caller went away before the first page arrived
	STATUS_CLIENT_CLOSED_REQUEST = 499
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// GetAssets returns the wallet's assets, loading the first page when the cache is stale
	// GET /api/v1/{nfts|uniqs}/:wallet_id?limit=<limit>&refresh=<bool>
	GetAssets(c *gin.Context)

	// GetCachedAssets returns whatever is cached without fetching
	// GET /api/v1/{nfts|uniqs}/:wallet_id/cached
	GetCachedAssets(c *gin.Context)

	// GetCollections returns the cached collections of the wallet
	// GET /api/v1/{nfts|uniqs}/:wallet_id/collections
	GetCollections(c *gin.Context)

	// GetStatus returns the cache status of the wallet
	// GET /api/v1/{nfts|uniqs}/:wallet_id/status
	GetStatus(c *gin.Context)

	// GetAssetImage returns the display image of one cached asset
	// GET /api/v1/{nfts|uniqs}/:wallet_id/assets/:asset_id/image
	GetAssetImage(c *gin.Context)

	// InvalidateWallet drops the wallet from every kind's cache
	// DELETE /api/v1/wallets/:wallet_id
	InvalidateWallet(c *gin.Context)

	// StreamWalletEvents upgrades to a websocket pushing the wallet's update events
	// GET /api/v1/wallets/:wallet_id/events
	StreamWalletEvents(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	caches   map[domain.AssetKind]walletcache.Cache
	notifier notifier.Notifier
}

// NewHandler creates a new REST API handler over the caches of each kind
func NewHandler(caches []walletcache.Cache, n notifier.Notifier) Handler {
	byKind := make(map[domain.AssetKind]walletcache.Cache, len(caches))
	for _, cache := range caches {
		byKind[cache.Kind()] = cache
	}

	return &handler{
		caches:   byKind,
		notifier: n,
	}
}

// WithKind tags the request with the asset kind of its route group
func WithKind(kind domain.AssetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(KIND_CONTEXT_KEY, kind)
		c.Next()
	}
}

// resolve returns the cache and canonical wallet id of a per-kind request.
// It responds and returns false when either is missing.
func (h *handler) resolve(c *gin.Context) (walletcache.Cache, domain.WalletID, bool) {
	kind, _ := c.Get(KIND_CONTEXT_KEY)
	assetKind, _ := kind.(domain.AssetKind)
	cache, ok := h.caches[assetKind]
	if !ok {
		respondNotFound(c, "Unknown asset kind")
		return nil, "", false
	}

	walletID := domain.CanonicalWalletID(c.Param("wallet_id"))
	if walletID == "" {
		respondBadRequest(c, "Wallet ID is required")
		return nil, "", false
	}

	return cache, walletID, true
}

// GetAssets returns the wallet's assets, loading the first page when the cache is stale
func (h *handler) GetAssets(c *gin.Context) {
	cache, walletID, ok := h.resolve(c)
	if !ok {
		return
	}

	params, err := ParseGetAssetsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	assets, err := cache.GetAssets(c.Request.Context(), walletID.String(), params.Limit, params.Refresh)
	if err != nil {
		fields := []zap.Field{zap.String("kind", string(cache.Kind())), zap.String("wallet_id", walletID.String())}
		switch {
		case errors.Is(err, domain.ErrInvalidWalletID):
			respondBadRequest(c, "Invalid wallet ID")
		case errors.Is(err, context.Canceled):
			logger.DebugCtx(c.Request.Context(), "Client closed request before the first page", fields...)
			c.AbortWithStatus(STATUS_CLIENT_CLOSED_REQUEST)
		case domain.IsFetchError(err):
			respondFetchFailed(c, err, fields...)
		default:
			respondInternalError(c, err, "Failed to load wallet assets", fields...)
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewWalletAssetsResponse(walletID, cache.Kind(), assets, cache.Status(walletID.String())))
}

// GetCachedAssets returns whatever is cached without fetching
func (h *handler) GetCachedAssets(c *gin.Context) {
	cache, walletID, ok := h.resolve(c)
	if !ok {
		return
	}

	assets := cache.GetCachedAssets(walletID.String())
	c.JSON(http.StatusOK, dto.NewWalletAssetsResponse(walletID, cache.Kind(), assets, cache.Status(walletID.String())))
}

// GetCollections returns the cached collections of the wallet
func (h *handler) GetCollections(c *gin.Context) {
	cache, walletID, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.WalletCollectionsResponse{
		WalletID:    walletID,
		Kind:        cache.Kind(),
		Collections: cache.GetCachedCollections(walletID.String()),
		Complete:    cache.IsLoadingComplete(walletID.String()),
	})
}

// GetStatus returns the cache status of the wallet
func (h *handler) GetStatus(c *gin.Context) {
	cache, walletID, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewWalletStatusResponse(walletID, cache.Kind(), cache.Status(walletID.String())))
}

// GetAssetImage returns the display image of one cached asset
func (h *handler) GetAssetImage(c *gin.Context) {
	cache, walletID, ok := h.resolve(c)
	if !ok {
		return
	}

	assetID := c.Param("asset_id")
	asset, found := cache.FindAsset(walletID.String(), assetID)
	if !found {
		respondNotFound(c, "Asset not found", assetID)
		return
	}

	image := asset.Image()
	if image == "" {
		respondNotFound(c, "Asset has no image", assetID)
		return
	}

	c.JSON(http.StatusOK, dto.AssetImageResponse{
		AssetID: asset.ID,
		Image:   image,
		Images:  asset.Images,
	})
}

// InvalidateWallet drops the wallet from every kind's cache
func (h *handler) InvalidateWallet(c *gin.Context) {
	walletID := domain.CanonicalWalletID(c.Param("wallet_id"))
	if walletID == "" {
		respondBadRequest(c, "Wallet ID is required")
		return
	}

	for _, cache := range h.caches {
		cache.Invalidate(walletID.String())
	}

	c.Status(http.StatusNoContent)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-wallet-assets",
	})
}
