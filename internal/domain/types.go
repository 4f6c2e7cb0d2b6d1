package domain

import (
	"fmt"
	"strings"
	"time"
)

// AssetKind represents the family of owned items a wallet is queried for
type AssetKind string

const (
	AssetKindNFT  AssetKind = "nft"
	AssetKindUNIQ AssetKind = "uniq"
)

// AssetKinds lists every supported asset kind
var AssetKinds = []AssetKind{AssetKindNFT, AssetKindUNIQ}

// Valid checks if the asset kind is supported
func (k AssetKind) Valid() bool {
	return k == AssetKindNFT || k == AssetKindUNIQ
}

// ParseAssetKind parses an asset kind from its name or its plural route form (e.g. "uniqs")
func ParseAssetKind(s string) (AssetKind, error) {
	kind := AssetKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidAssetKind, s)
	}
	return kind, nil
}

// UpdateEventName returns the name of the event published when a wallet's asset set of this kind changes
func (k AssetKind) UpdateEventName() string {
	return string(k) + "-cache-updated"
}

// OrphanCollectionName returns the display name of the bucket holding assets without any collection signal
func (k AssetKind) OrphanCollectionName() string {
	switch k {
	case AssetKindUNIQ:
		return "UNIQs divers"
	default:
		return "NFTs divers"
	}
}

// WalletID is a canonical wallet identifier, the key of every cache entry
type WalletID string

// CanonicalWalletID strips surrounding whitespace and any suffix starting at '@'
// (e.g. "alice@domain" and "alice" are the same wallet)
func CanonicalWalletID(raw string) WalletID {
	id := strings.TrimSpace(raw)
	if i := strings.IndexByte(id, '@'); i >= 0 {
		id = id[:i]
	}
	return WalletID(id)
}

// String returns the wallet id as a string
func (w WalletID) String() string {
	return string(w)
}

// Images holds the display images of an asset or a factory, in preference order
type Images struct {
	Square  string `json:"square,omitempty"`
	Product string `json:"product,omitempty"`
	Gallery string `json:"gallery,omitempty"`
	Hero    string `json:"hero,omitempty"`
}

// First returns the first present image in square, product, gallery, hero order
func (i Images) First() string {
	for _, uri := range []string{i.Square, i.Product, i.Gallery, i.Hero} {
		if uri != "" {
			return uri
		}
	}
	return ""
}

// Attribute represents a key/value trait of an asset.
// Value is either a string or a float64.
type Attribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// CollectionSourceKind tags which signal decides the collection of an asset
type CollectionSourceKind string

const (
	CollectionSourceFactory    CollectionSourceKind = "factory"
	CollectionSourceCollection CollectionSourceKind = "collection"
	CollectionSourceHint       CollectionSourceKind = "hint"
	CollectionSourceNone       CollectionSourceKind = "none"
)

// CollectionSource is the resolved collection membership signal of an asset.
// Only the fields relevant to Kind are set.
type CollectionSource struct {
	Kind        CollectionSourceKind `json:"kind"`
	ID          string               `json:"id,omitempty"`
	Name        string               `json:"name,omitempty"`
	Description string               `json:"description,omitempty"`
	Images      Images               `json:"images"`
}

// Asset represents one owned blockchain item
type Asset struct {
	ID             string           `json:"id"`
	SerialNumber   string           `json:"serial_number"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	CollectionHint string           `json:"collection_hint,omitempty"`
	Images         Images           `json:"images"`
	Source         CollectionSource `json:"source"`
	Attributes     []Attribute      `json:"attributes"`
	MintDate       string           `json:"mint_date,omitempty"`
}

// Image returns the preferred display image of the asset
func (a Asset) Image() string {
	return a.Images.First()
}

// Collection represents a logical grouping of assets
type Collection struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Assets      []Asset `json:"assets"`
	TotalItems  int     `json:"total_items"`
}

// WalletUpdate is the payload announcing that a wallet's asset set of a kind changed
type WalletUpdate struct {
	Kind      AssetKind `json:"kind"`
	WalletID  WalletID  `json:"wallet_id"`
	Complete  bool      `json:"complete"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
