package assetgraph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/providers/auth"
)

// assetSelection is the selection set shared by the nft and uniq queries
const assetSelection = `
    data {
      id
      serialNumber
      mintDate
      metadata {
        content {
          name
          description
          subName
          medias {
            square { uri }
            product { uri }
            gallery { uri }
            hero { uri }
          }
          attributes {
            key
            value
          }
        }
      }
      factory {
        id
        metadata {
          content {
            name
            description
            medias {
              square { uri }
              product { uri }
              gallery { uri }
              hero { uri }
            }
          }
        }
      }
      collection {
        id
        name
        description
        image
      }
    }
    pagination {
      limit
      skip
    }
    totalCount`

// queries holds the paginated wallet query of each asset kind
var queries = map[domain.AssetKind]string{
	domain.AssetKindNFT: `query WalletNFTs($walletId: String!, $pagination: PaginationInput!) {
  nfts(walletId: $walletId, pagination: $pagination) {` + assetSelection + `
  }
}`,
	domain.AssetKindUNIQ: `query WalletUniqs($walletId: String!, $pagination: PaginationInput!) {
  uniqs(walletId: $walletId, pagination: $pagination) {` + assetSelection + `
  }
}`,
}

// Client defines the interface for the asset graph client to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/assetgraph_client.go -package=mocks -mock_names=Client=MockAssetGraphClient
type Client interface {
	// Kind returns the asset kind this client queries
	Kind() domain.AssetKind

	// FetchPage fetches one page of a wallet's assets.
	// Failures are returned as *domain.FetchError and are never retried.
	FetchPage(ctx context.Context, walletID domain.WalletID, limit, skip int) (*Page, error)
}

// AssetGraphClient implements the asset graph client for one asset kind
type AssetGraphClient struct {
	httpClient    adapter.HTTPClient
	tokens        auth.TokenSource
	apiURL        string
	json          adapter.JSON
	kind          domain.AssetKind
	query         string
	operationName string
	rootField     string
}

// NewClient creates a new asset graph client for the given asset kind.
// The kind's query document is parsed once here so a malformed query fails fast.
func NewClient(httpClient adapter.HTTPClient, tokens auth.TokenSource, apiURL string, kind domain.AssetKind, json adapter.JSON) (Client, error) {
	query, ok := queries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAssetKind, kind)
	}

	operationName, rootField, err := inspectQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s query: %w", kind, err)
	}

	return &AssetGraphClient{
		httpClient:    httpClient,
		tokens:        tokens,
		apiURL:        apiURL,
		json:          json,
		kind:          kind,
		query:         query,
		operationName: operationName,
		rootField:     rootField,
	}, nil
}

// inspectQuery parses a query document and returns its operation name and root field
func inspectQuery(query string) (string, string, error) {
	doc, parseErr := parser.ParseQuery(&ast.Source{Name: "wallet-assets", Input: query})
	if parseErr != nil {
		return "", "", parseErr
	}

	if len(doc.Operations) != 1 {
		return "", "", fmt.Errorf("expected exactly one operation, got %d", len(doc.Operations))
	}
	op := doc.Operations[0]

	if len(op.SelectionSet) != 1 {
		return "", "", fmt.Errorf("expected exactly one root field, got %d", len(op.SelectionSet))
	}
	field, ok := op.SelectionSet[0].(*ast.Field)
	if !ok {
		return "", "", errors.New("root selection is not a field")
	}

	return op.Name, field.Name, nil
}

// Kind returns the asset kind this client queries
func (c *AssetGraphClient) Kind() domain.AssetKind {
	return c.kind
}

// FetchPage fetches one page of a wallet's assets
func (c *AssetGraphClient) FetchPage(ctx context.Context, walletID domain.WalletID, limit, skip int) (*Page, error) {
	if walletID == "" {
		return nil, domain.ErrInvalidWalletID
	}
	if limit <= 0 || skip < 0 {
		return nil, fmt.Errorf("%w: limit=%d skip=%d", domain.ErrInvalidPagination, limit, skip)
	}

	op := fmt.Sprintf("fetch %s page", c.kind)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, domain.NewFetchError(op, "failed to obtain access token", err)
	}

	requestBody, err := c.json.Marshal(GraphQLRequest{
		Query: c.query,
		Variables: pageVariables{
			WalletID:   walletID.String(),
			Pagination: Pagination{Limit: limit, Skip: skip},
		},
		OperationName: c.operationName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + token,
	}

	responseBody, err := c.httpClient.PostBytes(ctx, c.apiURL, headers, requestBody)
	if err != nil {
		var statusErr *adapter.StatusError
		if errors.As(err, &statusErr) {
			return nil, domain.NewFetchError(op, upstreamMessage(c.json, statusErr), err)
		}
		return nil, domain.NewFetchError(op, "failed to call asset graph", err)
	}

	var response graphQLResponse
	if err := c.json.Unmarshal(responseBody, &response); err != nil {
		return nil, domain.NewFetchError(op, "failed to unmarshal asset graph response", err)
	}

	if len(response.Errors) > 0 {
		return nil, domain.NewFetchError(op, joinMessages(response.Errors), nil)
	}

	raw, ok := response.Data[c.rootField]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, domain.NewFetchError(op, fmt.Sprintf("missing %s in response", c.rootField), nil)
	}

	var page pageResponse
	if err := c.json.Unmarshal(raw, &page); err != nil {
		return nil, domain.NewFetchError(op, fmt.Sprintf("failed to unmarshal %s", c.rootField), err)
	}

	return &Page{
		Assets:     page.Data,
		TotalCount: page.TotalCount,
		Limit:      page.Pagination.Limit,
		Skip:       page.Pagination.Skip,
	}, nil
}

// upstreamMessage extracts the GraphQL error messages of a failed response when present,
// falling back to the raw status text
func upstreamMessage(json adapter.JSON, statusErr *adapter.StatusError) string {
	var response graphQLResponse
	if err := json.Unmarshal([]byte(statusErr.Body), &response); err == nil && len(response.Errors) > 0 {
		return joinMessages(response.Errors)
	}
	return statusErr.Error()
}

func joinMessages(errs []graphQLError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Message != "" {
			messages = append(messages, e.Message)
		}
	}
	if len(messages) == 0 {
		return "asset graph returned errors"
	}
	return strings.Join(messages, "; ")
}
