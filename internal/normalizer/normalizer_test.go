package normalizer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/normalizer"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
	"github.com/feral-file/ff-wallet-assets/internal/types"
)

func decode(t *testing.T, payload string) assetgraph.RawAsset {
	t.Helper()
	var raw assetgraph.RawAsset
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestNormalize_FullRecord(t *testing.T) {
	raw := decode(t, `{
		"id": "uniq-1",
		"serialNumber": 42,
		"mintDate": "2024-03-01T10:00:00Z",
		"metadata": {"content": {
			"name": "Blue Fox",
			"description": "A fox",
			"subName": "Foxes",
			"medias": {"square": {"uri": "ipfs://square"}, "hero": {"uri": "ipfs://hero"}},
			"attributes": [
				{"key": "rarity", "value": "rare"},
				{"key": "power", "value": 7},
				{"key": "", "value": "ignored"},
				{"key": "nested", "value": {"a": 1}}
			]
		}},
		"factory": {"id": "factory-9", "metadata": {"content": {
			"name": "Fox Factory",
			"description": "Factory of foxes",
			"medias": {"product": {"uri": "ipfs://factory-product"}}
		}}}
	}`)

	asset := normalizer.Normalize(raw)

	assert.Equal(t, "uniq-1", asset.ID)
	assert.Equal(t, "42", asset.SerialNumber)
	assert.Equal(t, "Blue Fox", asset.Name)
	assert.Equal(t, "A fox", asset.Description)
	assert.Equal(t, "Foxes", asset.CollectionHint)
	assert.Equal(t, "2024-03-01T10:00:00Z", asset.MintDate)
	assert.Equal(t, domain.Images{Square: "ipfs://square", Hero: "ipfs://hero"}, asset.Images)
	assert.Equal(t, "ipfs://square", asset.Image())

	// Source order preserved, keyless entries skipped
	require.Len(t, asset.Attributes, 3)
	assert.Equal(t, domain.Attribute{Key: "rarity", Value: "rare"}, asset.Attributes[0])
	assert.Equal(t, domain.Attribute{Key: "power", Value: float64(7)}, asset.Attributes[1])
	assert.Equal(t, domain.Attribute{Key: "nested", Value: ""}, asset.Attributes[2])

	assert.Equal(t, domain.CollectionSource{
		Kind:        domain.CollectionSourceFactory,
		ID:          "factory-9",
		Name:        "Fox Factory",
		Description: "Factory of foxes",
		Images:      domain.Images{Product: "ipfs://factory-product"},
	}, asset.Source)
}

func TestNormalize_MissingOptionalBlocks(t *testing.T) {
	raw := decode(t, `{"id": "nft-1", "serialNumber": "A-7"}`)

	var asset domain.Asset
	assert.NotPanics(t, func() {
		asset = normalizer.Normalize(raw)
	})

	assert.Equal(t, "nft-1", asset.ID)
	assert.Equal(t, "A-7", asset.SerialNumber)
	assert.Empty(t, asset.Name)
	assert.Empty(t, asset.Description)
	assert.Empty(t, asset.CollectionHint)
	assert.Equal(t, domain.Images{}, asset.Images)
	assert.NotNil(t, asset.Attributes)
	assert.Empty(t, asset.Attributes)
	assert.Equal(t, domain.CollectionSourceNone, asset.Source.Kind)
}

func TestNormalize_SourceResolution(t *testing.T) {
	tests := []struct {
		name     string
		raw      assetgraph.RawAsset
		expected domain.CollectionSource
	}{
		{
			name: "factory without id falls through to collection ref",
			raw: assetgraph.RawAsset{
				ID:      "a",
				Factory: &assetgraph.RawFactory{ID: " "},
				Collection: &assetgraph.RawCollection{
					ID:    "col-1",
					Name:  types.StringPtr("Gallery"),
					Image: types.StringPtr("ipfs://col"),
				},
			},
			expected: domain.CollectionSource{
				Kind:   domain.CollectionSourceCollection,
				ID:     "col-1",
				Name:   "Gallery",
				Images: domain.Images{Square: "ipfs://col"},
			},
		},
		{
			name: "factory wins over collection ref",
			raw: assetgraph.RawAsset{
				ID:         "a",
				Factory:    &assetgraph.RawFactory{ID: "f-1"},
				Collection: &assetgraph.RawCollection{ID: "col-1"},
			},
			expected: domain.CollectionSource{
				Kind: domain.CollectionSourceFactory,
				ID:   "f-1",
			},
		},
		{
			name: "hint when no ref",
			raw: assetgraph.RawAsset{
				ID: "a",
				Metadata: &assetgraph.RawMetadata{Content: &assetgraph.RawContent{
					SubName: types.StringPtr(" Season 1 "),
				}},
			},
			expected: domain.CollectionSource{
				Kind: domain.CollectionSourceHint,
				ID:   "Season 1",
				Name: "Season 1",
			},
		},
		{
			name: "blank hint is none",
			raw: assetgraph.RawAsset{
				ID: "a",
				Metadata: &assetgraph.RawMetadata{Content: &assetgraph.RawContent{
					SubName: types.StringPtr("  "),
				}},
			},
			expected: domain.CollectionSource{Kind: domain.CollectionSourceNone},
		},
		{
			name: "collection ref without id is ignored",
			raw: assetgraph.RawAsset{
				ID:         "a",
				Collection: &assetgraph.RawCollection{Name: types.StringPtr("Ghost")},
			},
			expected: domain.CollectionSource{Kind: domain.CollectionSourceNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.Normalize(tt.raw).Source)
		})
	}
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	raws := []assetgraph.RawAsset{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assets := normalizer.NormalizeAll(raws)

	require.Len(t, assets, 3)
	assert.Equal(t, "1", assets[0].ID)
	assert.Equal(t, "2", assets[1].ID)
	assert.Equal(t, "3", assets[2].ID)

	assert.Empty(t, normalizer.NormalizeAll(nil))
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := decode(t, `{"id": "x", "metadata": {"content": {"name": "X", "attributes": [{"key": "a", "value": "1"}, {"key": "b", "value": 2}]}}}`)

	assert.Equal(t, normalizer.Normalize(raw), normalizer.Normalize(raw))
}
