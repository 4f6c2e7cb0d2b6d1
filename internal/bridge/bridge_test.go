package bridge_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-wallet-assets/internal/bridge"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/mocks"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
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

type testRelayMocks struct {
	ctrl      *gomock.Controller
	publisher *mocks.MockPublisher
	notifier  notifier.Notifier
}

func setupTestRelay(t *testing.T) *testRelayMocks {
	ctrl := gomock.NewController(t)

	return &testRelayMocks{
		ctrl:      ctrl,
		publisher: mocks.NewMockPublisher(ctrl),
		notifier:  notifier.New(),
	}
}

func tearDownTestRelay(mocks *testRelayMocks) {
	mocks.ctrl.Finish()
}

func testConfig() bridge.Config {
	return bridge.Config{
		QueueSize:            8,
		PublishTimeout:       time.Second,
		RetryInitialInterval: time.Millisecond,
		RetryMaxElapsed:      200 * time.Millisecond,
	}
}

// runRelay starts the relay and returns a stop function that waits for Run to return
func runRelay(t *testing.T, r bridge.Relay) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	// give Run time to subscribe
	time.Sleep(20 * time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("relay did not stop")
		}
	}
}

func updateEvent(kind domain.AssetKind, walletID domain.WalletID, count int) notifier.Event {
	return notifier.Event{
		Name:    kind.UpdateEventName(),
		Payload: domain.WalletUpdate{Kind: kind, WalletID: walletID, Count: count},
	}
}

func TestRelay_ForwardsUpdatesOfEveryKind(t *testing.T) {
	tm := setupTestRelay(t)
	defer tearDownTestRelay(tm)

	published := make(chan domain.WalletUpdate, 2)
	tm.publisher.EXPECT().
		PublishWalletUpdate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, update *domain.WalletUpdate) error {
			published <- *update
			return nil
		}).
		Times(2)

	r := bridge.NewRelay(testConfig(), tm.notifier, tm.publisher, domain.AssetKinds)
	stop := runRelay(t, r)

	tm.notifier.Publish(updateEvent(domain.AssetKindNFT, "w1", 25))
	tm.notifier.Publish(updateEvent(domain.AssetKindUNIQ, "w2", 10))

	var got []domain.WalletUpdate
	for i := 0; i < 2; i++ {
		select {
		case u := <-published:
			got = append(got, u)
		case <-time.After(time.Second):
			t.Fatal("update not published")
		}
	}
	stop()

	assert.Equal(t, domain.WalletID("w1"), got[0].WalletID)
	assert.Equal(t, domain.AssetKindNFT, got[0].Kind)
	assert.Equal(t, domain.WalletID("w2"), got[1].WalletID)
	assert.Equal(t, domain.AssetKindUNIQ, got[1].Kind)
}

func TestRelay_IgnoresUnsubscribedKinds(t *testing.T) {
	tm := setupTestRelay(t)
	defer tearDownTestRelay(tm)

	r := bridge.NewRelay(testConfig(), tm.notifier, tm.publisher, []domain.AssetKind{domain.AssetKindUNIQ})
	stop := runRelay(t, r)

	tm.notifier.Publish(updateEvent(domain.AssetKindNFT, "w1", 25))
	time.Sleep(20 * time.Millisecond)
	stop()
}

func TestRelay_RetriesFailedPublish(t *testing.T) {
	tm := setupTestRelay(t)
	defer tearDownTestRelay(tm)

	done := make(chan struct{})
	gomock.InOrder(
		tm.publisher.EXPECT().PublishWalletUpdate(gomock.Any(), gomock.Any()).Return(errors.New("nats: timeout")),
		tm.publisher.EXPECT().PublishWalletUpdate(gomock.Any(), gomock.Any()).Return(errors.New("nats: timeout")),
		tm.publisher.EXPECT().PublishWalletUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, update *domain.WalletUpdate) error {
				close(done)
				return nil
			}),
	)

	r := bridge.NewRelay(testConfig(), tm.notifier, tm.publisher, domain.AssetKinds)
	stop := runRelay(t, r)

	tm.notifier.Publish(updateEvent(domain.AssetKindNFT, "w1", 25))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("update not retried")
	}
	stop()
}

func TestRelay_UnsubscribesOnStop(t *testing.T) {
	tm := setupTestRelay(t)
	defer tearDownTestRelay(tm)

	r := bridge.NewRelay(testConfig(), tm.notifier, tm.publisher, domain.AssetKinds)
	stop := runRelay(t, r)
	stop()

	// No publish expected once the relay stopped
	tm.notifier.Publish(updateEvent(domain.AssetKindNFT, "w1", 25))
	time.Sleep(20 * time.Millisecond)
}

func TestRelay_RunWithoutKinds(t *testing.T) {
	tm := setupTestRelay(t)
	defer tearDownTestRelay(tm)

	r := bridge.NewRelay(testConfig(), tm.notifier, tm.publisher, nil)
	err := r.Run(context.Background())
	require.Error(t, err)
}

func TestRelay_CloseClosesPublisherOnce(t *testing.T) {
	tm := setupTestRelay(t)
	defer tearDownTestRelay(tm)

	tm.publisher.EXPECT().Close().Times(1)

	r := bridge.NewRelay(testConfig(), tm.notifier, tm.publisher, domain.AssetKinds)
	r.Close()
	r.Close()
}
