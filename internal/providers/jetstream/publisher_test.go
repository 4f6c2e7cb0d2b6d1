package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/mocks"
	"github.com/feral-file/ff-wallet-assets/internal/providers/jetstream"
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

type testPublisherMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mocks.MockNatsJetStream
	natsConn  *mocks.MockNatsConn
	jetStream *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)

	return &testPublisherMocks{
		ctrl:      ctrl,
		natsJS:    mocks.NewMockNatsJetStream(ctrl),
		natsConn:  mocks.NewMockNatsConn(ctrl),
		jetStream: mocks.NewMockJetStream(ctrl),
	}
}

func tearDownTestPublisher(mocks *testPublisherMocks) {
	mocks.ctrl.Finish()
}

func testConfig() jetstream.Config {
	return jetstream.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "WALLET_ASSETS",
		MaxReconnects:  10,
		ReconnectWait:  time.Second,
		ConnectionName: "test-wallet-assets",
	}
}

func TestNewPublisher_Success(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tearDownTestPublisher(tm)

	cfg := testConfig()
	tm.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(tm.natsConn, tm.jetStream, nil)
	tm.jetStream.EXPECT().EnsureStream(gomock.Any(), "WALLET_ASSETS", []string{"wallets.>"}).Return(nil)
	tm.natsConn.EXPECT().ConnectedUrl().Return(cfg.URL)

	p, err := jetstream.NewPublisher(context.Background(), cfg, tm.natsJS, adapter.NewJSON())

	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewPublisher_ConnectError(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tearDownTestPublisher(tm)

	cfg := testConfig()
	tm.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(nil, nil, errors.New("connection refused"))

	p, err := jetstream.NewPublisher(context.Background(), cfg, tm.natsJS, adapter.NewJSON())

	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestNewPublisher_StreamError(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tearDownTestPublisher(tm)

	cfg := testConfig()
	tm.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(tm.natsConn, tm.jetStream, nil)
	tm.jetStream.EXPECT().EnsureStream(gomock.Any(), cfg.StreamName, gomock.Any()).Return(errors.New("insufficient resources"))
	tm.natsConn.EXPECT().Close()

	p, err := jetstream.NewPublisher(context.Background(), cfg, tm.natsJS, adapter.NewJSON())

	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPublishWalletUpdate(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.AssetKind
		subject string
		pubErr  error
	}{
		{name: "nft", kind: domain.AssetKindNFT, subject: "wallets.nft.updated"},
		{name: "uniq", kind: domain.AssetKindUNIQ, subject: "wallets.uniq.updated"},
		{name: "publish failure", kind: domain.AssetKindNFT, subject: "wallets.nft.updated", pubErr: errors.New("nats: no responders")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestPublisher(t)
			defer tearDownTestPublisher(tm)

			cfg := testConfig()
			tm.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(tm.natsConn, tm.jetStream, nil)
			tm.jetStream.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			tm.natsConn.EXPECT().ConnectedUrl().Return(cfg.URL)

			p, err := jetstream.NewPublisher(context.Background(), cfg, tm.natsJS, adapter.NewJSON())
			require.NoError(t, err)

			update := &domain.WalletUpdate{
				Kind:      tt.kind,
				WalletID:  "w1",
				Complete:  true,
				Count:     60,
				Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}

			tm.jetStream.EXPECT().
				Publish(gomock.Any(), tt.subject, gomock.Any()).
				DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
					var decoded domain.WalletUpdate
					require.NoError(t, json.Unmarshal(data, &decoded))
					assert.Equal(t, *update, decoded)
					if tt.pubErr != nil {
						return nil, tt.pubErr
					}
					return &natsjs.PubAck{Stream: cfg.StreamName, Sequence: 1}, nil
				})

			err = p.PublishWalletUpdate(context.Background(), update)
			if tt.pubErr != nil {
				assert.ErrorIs(t, err, tt.pubErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClose(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tearDownTestPublisher(tm)

	cfg := testConfig()
	tm.natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(tm.natsConn, tm.jetStream, nil)
	tm.jetStream.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.natsConn.EXPECT().ConnectedUrl().Return(cfg.URL)
	tm.natsConn.EXPECT().Close()

	p, err := jetstream.NewPublisher(context.Background(), cfg, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	p.Close()
}

func TestBuildSubject(t *testing.T) {
	assert.Equal(t, "wallets.nft.updated", jetstream.BuildSubject(domain.AssetKindNFT))
	assert.Equal(t, "wallets.uniq.updated", jetstream.BuildSubject(domain.AssetKindUNIQ))
}
