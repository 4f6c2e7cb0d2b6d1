package notifier

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
)

// Event is a same-process announcement that a wallet's asset set changed
type Event struct {
	Name    string
	Payload domain.WalletUpdate
}

// Handler receives every event published under the name it subscribed to.
// Handlers filter by Payload.WalletID themselves.
type Handler func(Event)

// SubscriptionID identifies a registered handler
type SubscriptionID string

// Notifier is a fire-and-forget publish/subscribe channel keyed by event name.
// Dispatch is synchronous to the handlers registered at publish time; events
// published while nobody listens are dropped.
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	// Publish delivers the event to every handler subscribed to event.Name
	Publish(event Event)
	// Subscribe registers a handler for the given event name
	Subscribe(name string, handler Handler) SubscriptionID
	// Unsubscribe removes a handler; unknown ids are ignored
	Unsubscribe(id SubscriptionID)
}

type subscription struct {
	id      SubscriptionID
	name    string
	handler Handler
}

type notifier struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription
	names         map[SubscriptionID]string
}

// New creates a new in-process notifier
func New() Notifier {
	return &notifier{
		subscriptions: make(map[string][]subscription),
		names:         make(map[SubscriptionID]string),
	}
}

// Publish delivers the event to every handler subscribed to event.Name
func (n *notifier) Publish(event Event) {
	n.mu.RLock()
	handlers := make([]subscription, len(n.subscriptions[event.Name]))
	copy(handlers, n.subscriptions[event.Name])
	n.mu.RUnlock()

	for _, sub := range handlers {
		n.dispatch(sub, event)
	}
}

// dispatch runs one handler, isolating the publisher from handler panics
func (n *notifier) dispatch(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Errorf("panic recovered in update handler: %v", r),
				zap.String("event", event.Name),
				zap.String("subscription_id", string(sub.id)),
				zap.String("wallet_id", event.Payload.WalletID.String()),
			)
		}
	}()

	sub.handler(event)
}

// Subscribe registers a handler for the given event name
func (n *notifier) Subscribe(name string, handler Handler) SubscriptionID {
	id := SubscriptionID(uuid.NewString())

	n.mu.Lock()
	defer n.mu.Unlock()

	n.subscriptions[name] = append(n.subscriptions[name], subscription{
		id:      id,
		name:    name,
		handler: handler,
	})
	n.names[id] = name

	return id
}

// Unsubscribe removes a handler; unknown ids are ignored
func (n *notifier) Unsubscribe(id SubscriptionID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	name, ok := n.names[id]
	if !ok {
		return
	}
	delete(n.names, id)

	subs := n.subscriptions[name]
	kept := make([]subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}

	if len(kept) == 0 {
		delete(n.subscriptions, name)
		return
	}
	n.subscriptions[name] = kept
}
