package net

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SketchBoard/internal/log"
	"SketchBoard/internal/state"
)

func snapshot(site string, rev uint64, shapes ...state.Shape) state.Snapshot {
	return state.Snapshot{Site: site, Revision: rev, Shapes: shapes}
}

func linkFor(ts *httptest.Server) string {
	return Scheme + strings.TrimPrefix(ts.URL, "http://")
}

func waitSnapshot(t *testing.T, ch <-chan state.Snapshot) state.Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return state.Snapshot{}
	}
}

func TestHubStreamsSnapshots(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()
	defer hub.Close()

	line := state.Shape{ID: 0, X1: 1, Y1: 2, X2: 3, Y2: 4, Type: state.ShapeLine}
	hub.Publish(snapshot("host", 1, line))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err := Dial(ctx, linkFor(ts))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer v.Close()

	got := make(chan state.Snapshot, 4)
	runErr := make(chan error, 1)
	go func() { runErr <- v.Run(ctx, func(s state.Snapshot) { got <- s }) }()

	first := waitSnapshot(t, got)
	if first.Revision != 1 || len(first.Shapes) != 1 || !first.Shapes[0].SameGeometry(line) {
		t.Fatalf("late joiner got %+v", first)
	}
	if hub.Count() != 1 {
		t.Fatalf("Count = %d, want 1", hub.Count())
	}

	rect := state.Shape{ID: 1, X1: 10, Y1: 10, X2: 50, Y2: 50, Type: state.ShapeRectangle}
	hub.Publish(snapshot("host", 2, line, rect))
	second := waitSnapshot(t, got)
	if second.Revision != 2 || len(second.Shapes) != 2 || second.Shapes[1].Type != state.ShapeRectangle {
		t.Fatalf("second snapshot = %+v", second)
	}

	cancel()
	select {
	case err := <-runErr:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestViewerDropsStaleRevisions(t *testing.T) {
	v := &Viewer{}
	steps := []struct {
		site string
		rev  uint64
		want bool
	}{
		{"a", 3, true},
		{"a", 3, false},
		{"a", 2, false},
		{"a", 4, true},
		{"b", 1, true}, // host restarted
		{"b", 1, false},
		{"a", 1, true},
	}
	for i, s := range steps {
		if got := v.accept(snapshot(s.site, s.rev)); got != s.want {
			t.Fatalf("step %d (%s,%d): accept = %v, want %v", i, s.site, s.rev, got, s.want)
		}
	}
}

func TestParseLink(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"sketchboard://192.168.1.5:8899", "ws://192.168.1.5:8899/ws", false},
		{"sketchboard://192.168.1.5:8899/", "ws://192.168.1.5:8899/ws", false},
		{"localhost:9000", "ws://localhost:9000/ws", false},
		{"sketchboard://", "", true},
		{"sketchboard://host", "", true},
		{"sketchboard://host:1/extra", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLink(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLink(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if l := ShareLink("10.0.0.2", 8899); l != "sketchboard://10.0.0.2:8899" {
		t.Errorf("ShareLink = %q", l)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", hub, func(a net.Addr) { addrCh <- a }) }()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("Serve failed early: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("server never became ready")
	}

	hub.Publish(snapshot("host", 5))
	v, err := Dial(context.Background(), ShareLink("127.0.0.1", addr.(*net.TCPAddr).Port))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer v.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestDialBadLink(t *testing.T) {
	if _, err := Dial(context.Background(), "sketchboard://"); err == nil {
		t.Fatal("expected error for empty link")
	}
}

func TestFullQueueKeepsNewestSnapshot(t *testing.T) {
	p := &peer{send: make(chan []byte, sendBuffer)}
	for i := 0; i < sendBuffer; i++ {
		if n := p.offer([]byte{byte(i)}); n != 0 {
			t.Fatalf("offer %d discarded %d with room left", i, n)
		}
	}
	if n := p.offer([]byte("latest")); n != sendBuffer {
		t.Fatalf("discarded %d, want %d", n, sendBuffer)
	}
	if len(p.send) != 1 {
		t.Fatalf("queue holds %d, want 1", len(p.send))
	}
	if got := string(<-p.send); got != "latest" {
		t.Fatalf("queued %q, want latest", got)
	}
}

func TestClosedHubTurnsAwayViewers(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if v, err := Dial(ctx, linkFor(ts)); err == nil {
		v.Close()
		t.Fatal("Dial succeeded against a closed hub")
	}
	if hub.Count() != 0 {
		t.Fatalf("Count = %d after close, want 0", hub.Count())
	}
	hub.Publish(snapshot("host", 1))
}

func TestViewerCloseLogsFailedCloseFrame(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()
	defer hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	v, err := Dial(ctx, linkFor(ts))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	var buf bytes.Buffer
	v.logger = log.New(&buf, log.Options{Level: "debug"})
	v.conn.Close()

	v.Close()
	if !strings.Contains(buf.String(), "close frame not sent") {
		t.Fatalf("expected debug record for the failed close frame, got %q", buf.String())
	}
}
