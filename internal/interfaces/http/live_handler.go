package http

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// LiveHandler forwards the content store's change feed to browser clients
// over a websocket. Each connection owns one store subscription, closed
// when the socket goes away.
type LiveHandler struct {
	store  domain.ContentStore
	logger *zap.Logger
}

func NewLiveHandler(store domain.ContentStore, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{store: store, logger: logger}
}

// Upgrade gates the route to websocket requests.
func (h *LiveHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream is the websocket handler: subscribe with the requested category
// scope and push every change event as JSON.
func (h *LiveHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		category := domain.Category(conn.Query("category"))
		if category != "" && !category.Valid() {
			_ = conn.WriteJSON(fiber.Map{"error": "unknown category"})
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub, err := h.store.Subscribe(ctx, domain.QueryScope{Category: category})
		if err != nil {
			h.logger.Error("open live feed", zap.Error(err))
			_ = conn.WriteJSON(fiber.Map{"error": "live feed unavailable"})
			return
		}
		defer sub.Close()

		// Drain client frames so close/ping frames are processed; the feed
		// is one-way.
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-readerDone:
				return
			case event, ok := <-sub.Events():
				if !ok {
					if err := sub.Err(); err != nil {
						h.logger.Warn("live feed dropped", zap.Error(err))
					}
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			}
		}
	})
}
