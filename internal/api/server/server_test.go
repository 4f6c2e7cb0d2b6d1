package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-wallet-assets/internal/api/middleware"
	"github.com/feral-file/ff-wallet-assets/internal/api/server"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/mocks"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
	"github.com/feral-file/ff-wallet-assets/internal/walletcache"
)

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

func newTestServer(t *testing.T, origins []string) *server.Server {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	nfts := mocks.NewMockWalletCache(ctrl)
	nfts.EXPECT().Kind().Return(domain.AssetKindNFT).AnyTimes()
	nfts.EXPECT().GetCachedAssets("w1").Return(nil).AnyTimes()
	nfts.EXPECT().Status("w1").Return(walletcache.Status{}).AnyTimes()

	return server.New(server.Config{CORSAllowedOrigins: origins}, []walletcache.Cache{nfts}, notifier.New())
}

func TestRouter_HealthCarriesRequestID(t *testing.T) {
	router := newTestServer(t, nil).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.REQUEST_ID_HEADER))
}

func TestRouter_ReusesCallerRequestID(t *testing.T) {
	router := newTestServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(middleware.REQUEST_ID_HEADER))
}

func TestRouter_RegistersOnlyConfiguredKinds(t *testing.T) {
	router := newTestServer(t, nil).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nfts/w1/cached", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uniqs/w1/cached", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		allowOrigin string
	}{
		{name: "open", origins: nil, origin: "https://app.example.com", allowOrigin: "*"},
		{name: "allowed", origins: []string{"https://app.example.com"}, origin: "https://app.example.com", allowOrigin: "https://app.example.com"},
		{name: "rejected", origins: []string{"https://app.example.com"}, origin: "https://evil.example.com", allowOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestServer(t, tt.origins).Router()

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.allowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
