package aggregator

import (
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/types"
)

// Aggregate groups assets into collections by their resolved collection source.
// Collections come out in first-seen order and carry the metadata of the asset
// that opened them. No state is kept between calls, so running it over a growing
// asset slice always yields a fully consistent result.
func Aggregate(kind domain.AssetKind, assets []domain.Asset) []domain.Collection {
	collections := make([]domain.Collection, 0)
	index := make(map[string]int)

	for _, asset := range assets {
		head := resolve(kind, asset)

		i, ok := index[head.ID]
		if !ok {
			i = len(collections)
			index[head.ID] = i
			collections = append(collections, head)
		}

		collections[i].Assets = append(collections[i].Assets, asset)
		collections[i].TotalItems = len(collections[i].Assets)
	}

	return collections
}

// resolve returns the empty collection an asset belongs to.
// The order of the cases is a contract: factory, collection ref, hint, none.
func resolve(kind domain.AssetKind, asset domain.Asset) domain.Collection {
	source := asset.Source

	switch source.Kind {
	case domain.CollectionSourceFactory:
		return domain.Collection{
			ID:          source.ID,
			Name:        types.FirstNonEmpty(source.Name, asset.CollectionHint, domain.UNKNOWN_COLLECTION_NAME),
			Description: source.Description,
			Image:       source.Images.First(),
		}
	case domain.CollectionSourceCollection:
		return domain.Collection{
			ID:          source.ID,
			Name:        source.Name,
			Description: source.Description,
			Image:       source.Images.First(),
		}
	case domain.CollectionSourceHint:
		return domain.Collection{
			ID:   source.ID,
			Name: source.ID,
		}
	default:
		return domain.Collection{
			ID:   domain.ORPHAN_COLLECTION_ID,
			Name: kind.OrphanCollectionName(),
		}
	}
}
