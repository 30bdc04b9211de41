package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ads-marketplace/adcopy/internal/auth"
	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/events"
	"github.com/ads-marketplace/adcopy/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WSHub forwards generation progress events to the websocket connections of
// the subject that started the run.
type WSHub struct {
	cfg         *config.Config
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[string][]*wsConn
}

// messageWriter is the part of a websocket connection the hub writes to.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// wsConn serializes writes; the read loop and event delivery run on
// different goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn messageWriter
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:         cfg,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]*wsConn),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, events.StreamGeneration, func(event events.Event) {
		if event.Subject == "" {
			return
		}
		h.SendToSubject(event.Subject, event)
	})
}

func (h *WSHub) SendToSubject(subject string, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := append([]*wsConn(nil), h.connections[subject]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			h.log.Debug("ws write failed", zap.String("subject", subject), zap.Error(err))
		}
	}
}

func (h *WSHub) register(subject string, w messageWriter) *wsConn {
	wc := &wsConn{conn: w}
	h.mu.Lock()
	h.connections[subject] = append(h.connections[subject], wc)
	h.mu.Unlock()
	return wc
}

func (h *WSHub) unregister(subject string, wc *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.connections[subject]
	for i, c := range conns {
		if c == wc {
			h.connections[subject] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.connections[subject]) == 0 {
		delete(h.connections, subject)
	}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) subjectFor(conn *websocket.Conn) (string, bool) {
	if !h.cfg.AuthEnabled() {
		return middleware.AnonymousSubject, true
	}
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		return "", false
	}
	claims, err := auth.ParseJWT(h.cfg.JWTSecret, tokenStr)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	subject, ok := h.subjectFor(conn)
	if !ok {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid or missing token"}`))
		conn.Close()
		return
	}

	wc := h.register(subject, conn)
	defer func() {
		h.unregister(subject, wc)
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
