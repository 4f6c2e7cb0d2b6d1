package domain

import "time"

const (
	// Collection aggregation sentinels
	ORPHAN_COLLECTION_ID    = "sans-collection"
	UNKNOWN_COLLECTION_NAME = "Collection inconnue"

	// Cache defaults
	DEFAULT_PAGE_SIZE = 25
	DEFAULT_CACHE_TTL = 5 * time.Minute
)
