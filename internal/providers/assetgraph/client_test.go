package assetgraph_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/mocks"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
)

const apiURL = "https://graph.example.com/graphql"

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testClientMocks struct {
	ctrl   *gomock.Controller
	http   *mocks.MockHTTPClient
	tokens *mocks.MockTokenSource
	client assetgraph.Client
}

func setupTest(t *testing.T, kind domain.AssetKind) *testClientMocks {
	ctrl := gomock.NewController(t)

	tm := &testClientMocks{
		ctrl:   ctrl,
		http:   mocks.NewMockHTTPClient(ctrl),
		tokens: mocks.NewMockTokenSource(ctrl),
	}

	c, err := assetgraph.NewClient(tm.http, tm.tokens, apiURL, kind, adapter.NewJSON())
	require.NoError(t, err)
	tm.client = c

	return tm
}

func tearDownTest(tm *testClientMocks) {
	tm.ctrl.Finish()
}

type sentRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
	Variables     struct {
		WalletID   string `json:"walletId"`
		Pagination struct {
			Limit int `json:"limit"`
			Skip  int `json:"skip"`
		} `json:"pagination"`
	} `json:"variables"`
}

func TestNewClient_UnknownKind(t *testing.T) {
	_, err := assetgraph.NewClient(nil, nil, apiURL, domain.AssetKind("sft"), adapter.NewJSON())
	assert.ErrorIs(t, err, domain.ErrInvalidAssetKind)
}

func TestFetchPage_Success(t *testing.T) {
	tests := []struct {
		name      string
		kind      domain.AssetKind
		operation string
		response  string
	}{
		{
			name:      "nft",
			kind:      domain.AssetKindNFT,
			operation: "WalletNFTs",
			response: `{"data":{"nfts":{
				"data":[{"id":"n-1","serialNumber":3,"metadata":{"content":{"name":"One"}}},{"id":"n-2","serialNumber":"4"}],
				"pagination":{"limit":25,"skip":50},
				"totalCount":52
			}}}`,
		},
		{
			name:      "uniq",
			kind:      domain.AssetKindUNIQ,
			operation: "WalletUniqs",
			response: `{"data":{"uniqs":{
				"data":[{"id":"n-1","serialNumber":"3"},{"id":"n-2","serialNumber":4,"factory":{"id":"f-1"}}],
				"pagination":{"limit":25,"skip":50},
				"totalCount":52
			}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t, tt.kind)
			defer tearDownTest(tm)
			c := tm.client

			assert.Equal(t, tt.kind, c.Kind())

			tm.tokens.EXPECT().Token(gomock.Any()).Return("tok-123", nil)
			tm.http.EXPECT().
				PostBytes(gomock.Any(), apiURL, map[string]string{
					"Content-Type":  "application/json",
					"Authorization": "Bearer tok-123",
				}, gomock.Any()).
				DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
					var req sentRequest
					require.NoError(t, json.Unmarshal(body, &req))
					assert.Equal(t, tt.operation, req.OperationName)
					assert.Equal(t, "wallet-1", req.Variables.WalletID)
					assert.Equal(t, 25, req.Variables.Pagination.Limit)
					assert.Equal(t, 50, req.Variables.Pagination.Skip)
					return []byte(tt.response), nil
				})

			page, err := c.FetchPage(context.Background(), "wallet-1", 25, 50)
			require.NoError(t, err)

			assert.Equal(t, 52, page.TotalCount)
			assert.Equal(t, 25, page.Limit)
			assert.Equal(t, 50, page.Skip)
			require.Len(t, page.Assets, 2)
			assert.Equal(t, "n-1", page.Assets[0].ID)
			assert.Equal(t, assetgraph.FlexString("3"), page.Assets[0].SerialNumber)
			assert.Equal(t, assetgraph.FlexString("4"), page.Assets[1].SerialNumber)
		})
	}
}

func TestFetchPage_InvalidArguments(t *testing.T) {
	tm := setupTest(t, domain.AssetKindNFT)
	defer tearDownTest(tm)
	c := tm.client

	_, err := c.FetchPage(context.Background(), "", 25, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidWalletID)

	_, err = c.FetchPage(context.Background(), "w", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)

	_, err = c.FetchPage(context.Background(), "w", 25, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

func TestFetchPage_Failures(t *testing.T) {
	tests := []struct {
		name        string
		tokenErr    error
		httpBody    string
		httpErr     error
		wantMessage string
		wantCause   error
	}{
		{
			name:        "token failure",
			tokenErr:    domain.ErrTokenUnavailable,
			wantMessage: "failed to obtain access token",
			wantCause:   domain.ErrTokenUnavailable,
		},
		{
			name:        "transport failure",
			httpErr:     context.DeadlineExceeded,
			wantMessage: "failed to call asset graph",
			wantCause:   context.DeadlineExceeded,
		},
		{
			name:        "non-2xx with graphql errors",
			httpErr:     &adapter.StatusError{StatusCode: 400, Body: `{"errors":[{"message":"wallet not found"}]}`},
			wantMessage: "wallet not found",
		},
		{
			name:        "non-2xx without body",
			httpErr:     &adapter.StatusError{StatusCode: 502, Body: "bad gateway"},
			wantMessage: "unexpected status code 502",
		},
		{
			name:        "graphql errors on 200",
			httpBody:    `{"errors":[{"message":"first"},{"message":"second"}]}`,
			wantMessage: "first; second",
		},
		{
			name:        "malformed body",
			httpBody:    `not json`,
			wantMessage: "failed to unmarshal asset graph response",
		},
		{
			name:        "null root field",
			httpBody:    `{"data":{"nfts":null}}`,
			wantMessage: "missing nfts in response",
		},
		{
			name:        "missing root field",
			httpBody:    `{"data":{"uniqs":{"data":[]}}}`,
			wantMessage: "missing nfts in response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t, domain.AssetKindNFT)
			defer tearDownTest(tm)
			c := tm.client

			if tt.tokenErr != nil {
				tm.tokens.EXPECT().Token(gomock.Any()).Return("", tt.tokenErr)
			} else {
				tm.tokens.EXPECT().Token(gomock.Any()).Return("tok", nil)
				var body []byte
				if tt.httpBody != "" {
					body = []byte(tt.httpBody)
				}
				tm.http.EXPECT().PostBytes(gomock.Any(), apiURL, gomock.Any(), gomock.Any()).Return(body, tt.httpErr)
			}

			page, err := c.FetchPage(context.Background(), "w", 25, 0)
			assert.Nil(t, page)
			require.Error(t, err)

			var fetchErr *domain.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "fetch nft page", fetchErr.Op)
			assert.Contains(t, fetchErr.Message, tt.wantMessage)
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}
