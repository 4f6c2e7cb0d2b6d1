package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/feral-file/ff-wallet-assets/internal/api/rest/dto"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
	"github.com/feral-file/ff-wallet-assets/internal/logger"
	"github.com/feral-file/ff-wallet-assets/internal/notifier"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second
	// Ping period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// Frames buffered per connection before new ones are dropped
	frameBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same open policy as the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamWalletEvents upgrades to a websocket pushing the wallet's update events
func (h *handler) StreamWalletEvents(c *gin.Context) {
	walletID := domain.CanonicalWalletID(c.Param("wallet_id"))
	if walletID == "" {
		respondBadRequest(c, "Wallet ID is required")
		return
	}

	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already replied with an HTTP error
		logger.WarnCtx(ctx, "Failed to upgrade to websocket", zap.String("wallet_id", walletID.String()), zap.Error(err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	frames := make(chan dto.WalletEventFrame, frameBufferSize)
	subscriptions := make([]notifier.SubscriptionID, 0, len(h.caches))
	for kind := range h.caches {
		id := h.notifier.Subscribe(kind.UpdateEventName(), func(e notifier.Event) {
			if e.Payload.WalletID != walletID {
				return
			}
			select {
			case frames <- dto.NewWalletEventFrame(e.Name, e.Payload):
			default:
				logger.Warn("Websocket client is too slow, dropping wallet event",
					zap.String("wallet_id", walletID.String()),
					zap.String("event", e.Name))
			}
		})
		subscriptions = append(subscriptions, id)
	}
	defer func() {
		for _, id := range subscriptions {
			h.notifier.Unsubscribe(id)
		}
	}()

	logger.InfoCtx(ctx, "Websocket client connected", zap.String("wallet_id", walletID.String()))

	// The read side only serves control frames and detects the disconnect
	closed := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.InfoCtx(ctx, "Websocket client disconnected", zap.String("wallet_id", walletID.String()))
			return
		case frame := <-frames:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				logger.WarnCtx(ctx, "Failed to write websocket frame", zap.String("wallet_id", walletID.String()), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
