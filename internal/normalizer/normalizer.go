package normalizer

import (
	"strings"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
	"github.com/feral-file/ff-wallet-assets/internal/types"
)

// Normalize maps a raw asset record into the canonical Asset.
// Missing optional blocks are replaced by empty values; it never fails.
func Normalize(raw assetgraph.RawAsset) domain.Asset {
	content := contentOf(raw.Metadata)

	asset := domain.Asset{
		ID:             raw.ID,
		SerialNumber:   string(raw.SerialNumber),
		Name:           types.SafeString(content.Name),
		Description:    types.SafeString(content.Description),
		CollectionHint: types.SafeString(content.SubName),
		Images:         imagesOf(content.Medias),
		Attributes:     attributesOf(content.Attributes),
		MintDate:       types.SafeString(raw.MintDate),
	}
	asset.Source = sourceOf(raw, asset.CollectionHint)

	return asset
}

// NormalizeAll normalizes a page of raw assets, preserving order
func NormalizeAll(raws []assetgraph.RawAsset) []domain.Asset {
	assets := make([]domain.Asset, 0, len(raws))
	for _, raw := range raws {
		assets = append(assets, Normalize(raw))
	}
	return assets
}

// sourceOf builds the collection membership tag, strongest signal first
func sourceOf(raw assetgraph.RawAsset, hint string) domain.CollectionSource {
	if raw.Factory != nil && strings.TrimSpace(raw.Factory.ID) != "" {
		content := contentOf(raw.Factory.Metadata)
		return domain.CollectionSource{
			Kind:        domain.CollectionSourceFactory,
			ID:          raw.Factory.ID,
			Name:        types.SafeString(content.Name),
			Description: types.SafeString(content.Description),
			Images:      imagesOf(content.Medias),
		}
	}

	if raw.Collection != nil && strings.TrimSpace(raw.Collection.ID) != "" {
		return domain.CollectionSource{
			Kind:        domain.CollectionSourceCollection,
			ID:          raw.Collection.ID,
			Name:        types.SafeString(raw.Collection.Name),
			Description: types.SafeString(raw.Collection.Description),
			Images:      domain.Images{Square: types.SafeString(raw.Collection.Image)},
		}
	}

	if hint != "" {
		return domain.CollectionSource{
			Kind: domain.CollectionSourceHint,
			ID:   hint,
			Name: hint,
		}
	}

	return domain.CollectionSource{Kind: domain.CollectionSourceNone}
}

func contentOf(metadata *assetgraph.RawMetadata) assetgraph.RawContent {
	if metadata == nil || metadata.Content == nil {
		return assetgraph.RawContent{}
	}
	return *metadata.Content
}

func imagesOf(medias *assetgraph.RawMedias) domain.Images {
	if medias == nil {
		return domain.Images{}
	}
	return domain.Images{
		Square:  uriOf(medias.Square),
		Product: uriOf(medias.Product),
		Gallery: uriOf(medias.Gallery),
		Hero:    uriOf(medias.Hero),
	}
}

func uriOf(media *assetgraph.RawMedia) string {
	if media == nil {
		return ""
	}
	return types.SafeString(media.URI)
}

// attributesOf keeps source order and skips entries without a key.
// Values that are neither strings nor numbers are dropped to an empty string.
func attributesOf(raws []assetgraph.RawAttribute) []domain.Attribute {
	attributes := make([]domain.Attribute, 0, len(raws))
	for _, raw := range raws {
		key := strings.TrimSpace(raw.Key)
		if key == "" {
			continue
		}

		var value any
		switch v := raw.Value.(type) {
		case string:
			value = v
		case float64:
			value = v
		case int:
			value = float64(v)
		default:
			value = ""
		}

		attributes = append(attributes, domain.Attribute{Key: key, Value: value})
	}
	return attributes
}
