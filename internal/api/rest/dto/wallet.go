package dto

import (
	"time"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/walletcache"
)

// WalletAssetsResponse represents the assets of a wallet for one kind
type WalletAssetsResponse struct {
	WalletID   domain.WalletID  `json:"wallet_id"`
	Kind       domain.AssetKind `json:"kind"`
	Assets     []domain.Asset   `json:"assets"`
	Count      int              `json:"count"`
	TotalCount int              `json:"total_count"`
	Complete   bool             `json:"complete"`
}

// WalletCollectionsResponse represents the collections of a wallet for one kind
type WalletCollectionsResponse struct {
	WalletID    domain.WalletID     `json:"wallet_id"`
	Kind        domain.AssetKind    `json:"kind"`
	Collections []domain.Collection `json:"collections"`
	Complete    bool                `json:"complete"`
}

// WalletStatusResponse represents the cache status of a wallet for one kind
type WalletStatusResponse struct {
	WalletID    domain.WalletID  `json:"wallet_id"`
	Kind        domain.AssetKind `json:"kind"`
	Cached      bool             `json:"cached"`
	Complete    bool             `json:"complete"`
	Loading     bool             `json:"loading"`
	Count       int              `json:"count"`
	TotalCount  int              `json:"total_count"`
	LastUpdated *time.Time       `json:"last_updated,omitempty"`
}

// AssetImageResponse represents the display image of one asset
type AssetImageResponse struct {
	AssetID string        `json:"asset_id"`
	Image   string        `json:"image"`
	Images  domain.Images `json:"images"`
}

// WalletEventFrame is one frame of the wallet events websocket
type WalletEventFrame struct {
	Event    string           `json:"event"`
	WalletID domain.WalletID  `json:"wallet_id"`
	Kind     domain.AssetKind `json:"kind"`
	Complete bool             `json:"complete"`
	Count    int              `json:"count"`
}

// NewWalletAssetsResponse builds the assets response from the cache status
func NewWalletAssetsResponse(walletID domain.WalletID, kind domain.AssetKind, assets []domain.Asset, status walletcache.Status) WalletAssetsResponse {
	return WalletAssetsResponse{
		WalletID:   walletID,
		Kind:       kind,
		Assets:     assets,
		Count:      len(assets),
		TotalCount: status.TotalCount,
		Complete:   status.Complete,
	}
}

// NewWalletStatusResponse maps a cache status
func NewWalletStatusResponse(walletID domain.WalletID, kind domain.AssetKind, status walletcache.Status) WalletStatusResponse {
	resp := WalletStatusResponse{
		WalletID:   walletID,
		Kind:       kind,
		Cached:     status.Cached,
		Complete:   status.Complete,
		Loading:    status.Loading,
		Count:      status.Count,
		TotalCount: status.TotalCount,
	}
	if !status.LastUpdated.IsZero() {
		lastUpdated := status.LastUpdated
		resp.LastUpdated = &lastUpdated
	}
	return resp
}

// NewWalletEventFrame maps an update event
func NewWalletEventFrame(name string, update domain.WalletUpdate) WalletEventFrame {
	return WalletEventFrame{
		Event:    name,
		WalletID: update.WalletID,
		Kind:     update.Kind,
		Complete: update.Complete,
		Count:    update.Count,
	}
}
