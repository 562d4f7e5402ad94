// Package transport hosts the gorilla/websocket connection pump: it
// upgrades an HTTP request, synthesizes the Connect/Disconnect commands the
// rest of the system reacts to, registers itself as the notifier's Sender
// for its connection id, and feeds decoded client frames into the router.
// Grounded on the teacher's internal/websocket/connection.go read/write
// pump shape, repurposed from a per-game broadcast connection to a single
// addressable notifier Sender.
package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"diceparty/internal/command"
	"diceparty/internal/notifier"
	"diceparty/internal/router"
)

// Config mirrors the teacher's ConnectionConfig: pump timing knobs.
type Config struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns the teacher's default pump timings.
func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 4096,
	}
}

// Upgrader configures the WebSocket upgrade. Origin checking is left to a
// reverse proxy in front of this service, same as the teacher's Upgrader.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection wraps one upgraded socket, implementing notifier.Sender.
type Connection struct {
	conn         *websocket.Conn
	connectionID string
	send         chan []byte
	mu           sync.RWMutex
	closed       bool
}

// Send implements notifier.Sender by queuing payload for the write pump.
func (c *Connection) Send(_ context.Context, payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return notifier.ErrDeliveryFailed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return notifier.ErrDeliveryFailed
	}
}

func (c *Connection) setClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Handler upgrades requests, wires the connection into the hub, command
// service and router, and drives its pumps until the socket closes.
type Handler struct {
	svc    *command.Service
	hub    *notifier.Hub
	router *router.Router
	cfg    Config
	logger *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(svc *command.Service, hub *notifier.Hub, r *router.Router, cfg Config) *Handler {
	return &Handler{svc: svc, hub: hub, router: r, cfg: cfg, logger: slog.Default().With("component", "transport")}
}

// ServeHTTP upgrades the request and runs the connection's lifecycle:
// synthesize Connect, pump messages through the router, synthesize
// Disconnect on close.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connectionID := uuid.NewString()
	conn := &Connection{conn: socket, connectionID: connectionID, send: make(chan []byte, 256)}
	h.hub.Register(connectionID, conn)

	ctx := r.Context()
	if _, err := h.svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: connectionID}); err != nil {
		h.logger.Error("create connection failed", "connectionId", connectionID, "error", err)
	}

	go h.writePump(conn)
	h.readPump(ctx, conn)
}

func (h *Handler) readPump(ctx context.Context, conn *Connection) {
	defer func() {
		conn.setClosed()
		h.hub.Unregister(conn.connectionID)
		conn.conn.Close()

		if _, err := h.svc.DestroyConnection(ctx, command.DestroyConnectionCommand{ConnectionID: conn.connectionID}); err != nil {
			h.logger.Error("destroy connection failed", "connectionId", conn.connectionID, "error", err)
		}
	}()

	conn.conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = conn.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.conn.SetPongHandler(func(string) error {
		_ = conn.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", "connectionId", conn.connectionID, "error", err)
			}
			return
		}

		var frame router.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.logger.Warn("malformed frame", "connectionId", conn.connectionID, "error", err)
			continue
		}

		if _, err := h.router.Dispatch(ctx, conn.connectionID, frame); err != nil {
			h.logger.Warn("dispatch failed", "connectionId", conn.connectionID, "action", frame.Action, "error", err)
		}
	}
}

func (h *Handler) writePump(conn *Connection) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		conn.conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.send:
			_ = conn.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if !ok {
				_ = conn.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := conn.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
