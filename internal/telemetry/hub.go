// Package telemetry broadcasts the per-tick driver snapshot to overlay
// clients over websocket, so an external renderer can draw stick state,
// rail locks and pattern centers without touching the injection path.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

// Config for the overlay endpoint. An empty Addr disables telemetry.
type Config struct {
	Addr string `help:"Overlay websocket listen address (empty disables)" env:"SENTAKKI_TELEMETRY_ADDR"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local overlay tool; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans the snapshot stream out to every connected overlay.
type Hub struct {
	logger *slog.Logger
	addr   string

	clientsMu sync.Mutex
	clients   map[*client]bool

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	// done is closed when the loop exits; register and unregister select
	// on it so client goroutines cannot block once nobody is draining.
	done chan struct{}

	lastMu sync.RWMutex
	last   []byte
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// New builds a hub listening on cfg.Addr once Run is called.
func New(cfg Config, logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		addr:       cfg.Addr,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Publish queues one snapshot for broadcast. It never blocks the driver
// tick: when the hub is backed up the frame is dropped, the next tick
// brings a fresher one anyway.
func (h *Hub) Publish(snap pad.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("snapshot marshal failed", "error", err)
		return
	}
	h.lastMu.Lock()
	h.last = data
	h.lastMu.Unlock()

	select {
	case h.broadcast <- data:
	default:
	}
}

// Run serves the websocket endpoint until the context is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/snapshot", h.handleSnapshot)

	srv := &http.Server{Addr: h.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	go h.loop(ctx)

	h.logger.Info("telemetry listening", "addr", h.addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (h *Hub) loop(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.clientsMu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.clientsMu.Unlock()
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug("overlay connected", "clients", n)

		case c := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug("overlay disconnected", "clients", n)

		case data := <-h.broadcast:
			h.clientsMu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Slow consumer; drop it rather than stall the stream.
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.clientsMu.Unlock()
		}
	}
}

// handleSnapshot serves the most recent snapshot for one-shot consumers.
func (h *Hub) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	h.lastMu.RLock()
	data := h.last
	h.lastMu.RUnlock()
	if data == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
	if !h.add(c) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// add registers a client, or reports false when the hub is shut down.
func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// drop unregisters a client. It returns immediately after shutdown
// instead of blocking on a loop that is no longer draining the channel.
func (h *Hub) drop(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// readPump discards incoming messages; the stream is one-way, but reading
// keeps pong handling and close detection alive.
func (c *client) readPump() {
	defer func() {
		c.hub.drop(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pumps snapshots from the hub to the websocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
