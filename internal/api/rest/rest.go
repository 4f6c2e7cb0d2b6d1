package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, kinds []domain.AssetKind) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Per-kind wallet asset endpoints: /api/v1/nfts/..., /api/v1/uniqs/...
	for _, kind := range kinds {
		group := v1.Group("/"+string(kind)+"s", WithKind(kind))
		{
			group.GET("/:wallet_id", handler.GetAssets)
			group.GET("/:wallet_id/cached", handler.GetCachedAssets)
			group.GET("/:wallet_id/collections", handler.GetCollections)
			group.GET("/:wallet_id/status", handler.GetStatus)
			group.GET("/:wallet_id/assets/:asset_id/image", handler.GetAssetImage)
		}
	}

	// Wallet endpoints spanning every kind
	wallets := v1.Group("/wallets")
	{
		wallets.DELETE("/:wallet_id", handler.InvalidateWallet)
		wallets.GET("/:wallet_id/events", handler.StreamWalletEvents)
	}
}
