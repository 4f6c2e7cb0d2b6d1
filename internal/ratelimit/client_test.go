package ratelimit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/mocks"
	"github.com/feral-file/ff-wallet-assets/internal/providers/assetgraph"
	"github.com/feral-file/ff-wallet-assets/internal/ratelimit"
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

func TestNewLimiter_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockAssetGraphClient(ctrl)

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerSecond: 0})

	assert.Nil(t, limiter)
	assert.Same(t, client, limiter.Wrap(client))
}

func TestWrap_DelegatesWithinBurst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockAssetGraphClient(ctrl)
	page := &assetgraph.Page{TotalCount: 1, Limit: 25}
	client.EXPECT().FetchPage(gomock.Any(), domain.WalletID("w1"), 25, 0).Return(page, nil).Times(3)

	limited := ratelimit.NewLimiter(ratelimit.Config{RequestsPerSecond: 1, Burst: 3}).Wrap(client)

	for range 3 {
		got, err := limited.FetchPage(context.Background(), "w1", 25, 0)
		require.NoError(t, err)
		assert.Same(t, page, got)
	}
}

func TestWrap_QueueTimeExceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockAssetGraphClient(ctrl)
	client.EXPECT().Kind().Return(domain.AssetKindNFT).AnyTimes()
	client.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&assetgraph.Page{}, nil).Times(1)

	limited := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: 0.001,
		Burst:             1,
		MaxQueueTime:      50 * time.Millisecond,
	}).Wrap(client)

	_, err := limited.FetchPage(context.Background(), "w1", 25, 0)
	require.NoError(t, err)

	// the bucket is empty and refills far beyond the queue time
	_, err = limited.FetchPage(context.Background(), "w1", 25, 25)
	require.Error(t, err)
	assert.True(t, domain.IsFetchError(err))
	assert.Contains(t, err.Error(), "fetch nft page")
}

func TestWrap_SharedAcrossKinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	nfts := mocks.NewMockAssetGraphClient(ctrl)
	nfts.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&assetgraph.Page{}, nil).Times(1)
	uniqs := mocks.NewMockAssetGraphClient(ctrl)
	uniqs.EXPECT().Kind().Return(domain.AssetKindUNIQ).AnyTimes()

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: 0.001,
		Burst:             1,
		MaxQueueTime:      50 * time.Millisecond,
	})

	_, err := limiter.Wrap(nfts).FetchPage(context.Background(), "w1", 25, 0)
	require.NoError(t, err)

	_, err = limiter.Wrap(uniqs).FetchPage(context.Background(), "w1", 25, 0)
	assert.True(t, domain.IsFetchError(err))
}

func TestWrap_KindPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockAssetGraphClient(ctrl)
	client.EXPECT().Kind().Return(domain.AssetKindUNIQ)

	limited := ratelimit.NewLimiter(ratelimit.Config{RequestsPerSecond: 5}).Wrap(client)

	assert.Equal(t, domain.AssetKindUNIQ, limited.Kind())
}
