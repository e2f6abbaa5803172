package net

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/log"
	"SketchBoard/internal/state"
)

// Scheme prefixes share links handed out by a host.
const Scheme = "sketchboard://"

// ShareLink builds the link viewers pass on the command line.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", Scheme, host, port)
}

// ParseLink turns a share link (or a bare host:port) into the websocket URL
// of the host's snapshot endpoint.
func ParseLink(link string) (string, error) {
	addr := strings.TrimSpace(link)
	addr = strings.TrimPrefix(addr, Scheme)
	addr = strings.TrimSuffix(addr, "/")
	if addr == "" || strings.ContainsAny(addr, "/ ") || !strings.Contains(addr, ":") {
		return "", fmt.Errorf("invalid share link %q", link)
	}
	return "ws://" + addr + SnapshotPath, nil
}

// Viewer follows a host's board over a websocket.
type Viewer struct {
	conn   *websocket.Conn
	site   string
	last   uint64
	logger *slog.Logger
}

// Dial connects to the host named by link.
func Dial(ctx context.Context, link string) (*Viewer, error) {
	url, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}
	return &Viewer{conn: conn, logger: log.WithComponent("viewer")}, nil
}

// LocalAddr is this viewer's end of the connection.
func (v *Viewer) LocalAddr() string { return v.conn.LocalAddr().String() }

// Run reads snapshots until the connection fails or ctx is cancelled, passing
// each one that is newer than the last to apply. Apply runs on the reading
// goroutine.
func (v *Viewer) Run(ctx context.Context, apply func(state.Snapshot)) error {
	stop := context.AfterFunc(ctx, func() { v.conn.Close() })
	defer stop()
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read snapshot: %w", err)
		}
		var snap state.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			v.logger.Warn("bad snapshot", "err", err)
			continue
		}
		if !v.accept(snap) {
			v.logger.Debug("stale snapshot dropped", "revision", snap.Revision, "last", v.last)
			continue
		}
		apply(snap)
	}
}

// accept reports whether snap is newer than what was last applied. A
// snapshot from a different host session always wins.
func (v *Viewer) accept(snap state.Snapshot) bool {
	if snap.Site != v.site {
		v.site, v.last = snap.Site, snap.Revision
		return true
	}
	if snap.Revision <= v.last {
		return false
	}
	v.last = snap.Revision
	return true
}

func (v *Viewer) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := v.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		v.logger.Debug("close frame not sent", "err", err)
	}
	return v.conn.Close()
}
