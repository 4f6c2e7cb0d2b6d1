package messaging

import (
	"context"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
)

// Publisher defines the interface for relaying wallet updates to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishWalletUpdate publishes a wallet update to the message broker
	PublishWalletUpdate(ctx context.Context, update *domain.WalletUpdate) error
	// Close closes the connection
	Close()
}
