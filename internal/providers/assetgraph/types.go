package assetgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString decodes a JSON string or number into its textual form.
// Serial numbers come back as either depending on the asset kind.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("serial is neither string nor number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// RawMedia represents a single media reference
type RawMedia struct {
	URI *string `json:"uri"`
}

// RawMedias represents the display images of an asset or a factory
type RawMedias struct {
	Square  *RawMedia `json:"square"`
	Product *RawMedia `json:"product"`
	Gallery *RawMedia `json:"gallery"`
	Hero    *RawMedia `json:"hero"`
}

// RawAttribute represents a trait; value is a string or a number
type RawAttribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// RawContent represents the content block of asset or factory metadata
type RawContent struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	SubName     *string        `json:"subName"`
	Medias      *RawMedias     `json:"medias"`
	Attributes  []RawAttribute `json:"attributes"`
}

// RawMetadata wraps the content block
type RawMetadata struct {
	Content *RawContent `json:"content"`
}

// RawFactory represents the factory an asset was minted from
type RawFactory struct {
	ID       string       `json:"id"`
	Metadata *RawMetadata `json:"metadata"`
}

// RawCollection represents an explicit collection reference
type RawCollection struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// RawAsset represents one asset record as returned by the asset graph
type RawAsset struct {
	ID           string         `json:"id"`
	SerialNumber FlexString     `json:"serialNumber"`
	MintDate     *string        `json:"mintDate"`
	Metadata     *RawMetadata   `json:"metadata"`
	Factory      *RawFactory    `json:"factory"`
	Collection   *RawCollection `json:"collection"`
}

// Pagination echoes the window the server answered for
type Pagination struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// pageResponse is the payload under the query's root field
type pageResponse struct {
	Data       []RawAsset `json:"data"`
	Pagination Pagination `json:"pagination"`
	TotalCount int        `json:"totalCount"`
}

// graphQLError represents one entry of a GraphQL errors payload
type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse is the standard GraphQL envelope; data is keyed by root field
type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphQLError             `json:"errors"`
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query         string      `json:"query"`
	Variables     interface{} `json:"variables"`
	OperationName string      `json:"operationName"`
}

// pageVariables are the variables of the paginated wallet query
type pageVariables struct {
	WalletID   string     `json:"walletId"`
	Pagination Pagination `json:"pagination"`
}

// Page is one page of raw assets plus the server-reported total
type Page struct {
	Assets     []RawAsset
	TotalCount int
	Limit      int
	Skip       int
}
