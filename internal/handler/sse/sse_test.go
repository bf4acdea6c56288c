package sse

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestWriterEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Open(3 * time.Second); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := w.WriteEvent("message", "m1", map[string]string{"content": "salut"}); err != nil {
		t.Fatalf("WriteEvent() error = %v", err)
	}
	if err := w.WriteKeepAlive(); err != nil {
		t.Fatalf("WriteKeepAlive() error = %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := "retry: 3000\n\nid: m1\nevent: message\ndata: {\"content\":\"salut\"}\n\n: keepalive\n\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

type countingWriter struct {
	n    atomic.Int32
	fail int32
}

func (c *countingWriter) WriteKeepAlive() error {
	if c.n.Add(1) >= c.fail {
		return io.ErrClosedPipe
	}
	return nil
}

func TestTickerKeepAliveStopsOnWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cw := &countingWriter{fail: 3}
	k := NewTickerKeepAlive(time.Millisecond)

	select {
	case <-k.Start(cw, logger):
	case <-time.After(2 * time.Second):
		t.Fatal("keep-alive did not stop after a failed write")
	}
	if got := cw.n.Load(); got != 3 {
		t.Errorf("writes = %d, want 3", got)
	}
	k.Stop()
	k.Stop()
}

func TestTickerKeepAliveStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	k := NewTickerKeepAlive(time.Hour)
	stopped := k.Start(&countingWriter{fail: 1}, logger)
	k.Stop()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not end the loop")
	}
}
