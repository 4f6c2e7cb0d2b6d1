package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

const MAX_PAGE_SIZE = 100

// GetAssetsQueryParams holds query parameters for GET /:wallet_id
type GetAssetsQueryParams struct {
	// Limit is the first page size; 0 uses the configured page size
	Limit   int  `form:"limit,default=0"`
	Refresh bool `form:"refresh,default=false"`
}

// Validate validates the query parameters
func (p *GetAssetsQueryParams) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if p.Limit > MAX_PAGE_SIZE {
		return fmt.Errorf("limit must not exceed %d", MAX_PAGE_SIZE)
	}
	return nil
}

// ParseGetAssetsQuery parses query parameters for GET /:wallet_id
func ParseGetAssetsQuery(c *gin.Context) (*GetAssetsQueryParams, error) {
	var params GetAssetsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	return &params, nil
}
