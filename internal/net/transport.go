package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/log"
	"SketchBoard/internal/state"
)

const (
	// SnapshotPath is where viewers connect.
	SnapshotPath = "/ws"

	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// peer is one connected viewer with its outgoing queue.
type peer struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (p *peer) close() {
	p.once.Do(func() { close(p.send) })
}

// offer queues data. Every snapshot carries the whole board, so when the
// queue is full the queued ones are stale and get discarded in its favour.
// It reports how many were discarded. Callers serialize offers.
func (p *peer) offer(data []byte) int {
	select {
	case p.send <- data:
		return 0
	default:
	}
	dropped := 0
	for drained := false; !drained; {
		select {
		case <-p.send:
			dropped++
		default:
			drained = true
		}
	}
	p.send <- data
	return dropped
}

// Hub fans board snapshots out to every connected viewer. Publish never
// blocks: a viewer that falls behind skips to the newest snapshot.
type Hub struct {
	mu       sync.RWMutex
	peers    map[*peer]struct{}
	closed   bool
	latest   []byte
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		peers: make(map[*peer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: log.WithComponent("share"),
	}
}

// Publish encodes snap and queues it for every viewer. It also becomes the
// snapshot sent to viewers that join later.
func (h *Hub) Publish(snap state.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("encode snapshot", "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for p := range h.peers {
		if n := p.offer(data); n > 0 {
			h.logger.Debug("viewer behind, skipped snapshots", "addr", p.conn.RemoteAddr().String(), "skipped", n)
		}
	}
}

// Count returns the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// ServeHTTP upgrades the request to a websocket and streams snapshots to it
// until either side closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "board closed", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		h.logger.Debug("viewer arrived after close", "addr", conn.RemoteAddr().String())
		conn.Close()
		return
	}
	h.peers[p] = struct{}{}
	if h.latest != nil {
		p.send <- h.latest
	}
	n := len(h.peers)
	h.mu.Unlock()
	h.logger.Info("viewer connected", "addr", conn.RemoteAddr().String(), "viewers", n)

	go h.writeLoop(p)
	h.readLoop(p)
}

// readLoop only watches for the viewer going away; viewers never send.
func (h *Hub) readLoop(p *peer) {
	defer h.remove(p)
	p.conn.SetReadLimit(512)
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("viewer read ended", "addr", p.conn.RemoteAddr().String(), "err", err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	addr := p.conn.RemoteAddr().String()
	for data := range p.send {
		if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			h.logger.Debug("set write deadline", "addr", addr, "err", err)
		}
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("send to viewer failed", "addr", p.conn.RemoteAddr().String(), "err", err)
			h.remove(p)
			return
		}
	}
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		h.logger.Debug("set write deadline", "addr", addr, "err", err)
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "host closed")
	if err := p.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		h.logger.Debug("close frame not sent", "addr", addr, "err", err)
	}
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	n := len(h.peers)
	h.mu.Unlock()
	p.close()
	if ok {
		h.logger.Info("viewer disconnected", "addr", p.conn.RemoteAddr().String(), "viewers", n)
	}
}

// Close disconnects every viewer and turns away new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for p := range h.peers {
		delete(h.peers, p)
		p.close()
	}
}

// Serve listens on addr and serves the hub until ctx is cancelled. ready, if
// non-nil, receives the bound address once listening.
func Serve(ctx context.Context, addr string, hub *Hub, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle(SnapshotPath, hub)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			hub.logger.Debug("share server shutdown", "err", err)
		}
	}()

	hub.logger.Info("share server listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
