package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reflow-dev/reflow/pkg/stores"
)

type counterState struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

// newTestServer wires a live server around a counter store and mounts
// it on an httptest server. The returned URL points at the /live
// endpoint.
func newTestServer(t *testing.T) (stores.Store[counterState], *Server, string, func()) {
	t.Helper()

	store := stores.NewStore(counterState{Count: 1, Label: "start"})

	srv := NewServer(
		func() any {
			v, _ := stores.Get[counterState](store)
			return v
		},
		func(data json.RawMessage) error {
			var next counterState
			if err := json.Unmarshal(data, &next); err != nil {
				return err
			}
			store.Patch(next)
			return nil
		},
	)

	ts := httptest.NewServer(srv.Handler())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"

	return store, srv, wsURL, ts.Close
}

// dial connects a client and registers cleanup.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readFrame reads and decodes the next frame with a test deadline.
func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := DecodeFrame(msg)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func decodeSnapshot(t *testing.T, f Frame) counterState {
	t.Helper()
	if f.Type != FrameSnapshot {
		t.Fatalf("frame type = %q, want %q (code=%q message=%q)", f.Type, FrameSnapshot, f.Code, f.Message)
	}
	var state counterState
	if err := json.Unmarshal(f.Data, &state); err != nil {
		t.Fatalf("decode snapshot data: %v", err)
	}
	return state
}

func writeFrame(t *testing.T, conn *websocket.Conn, f Frame) {
	t.Helper()
	data, err := EncodeFrame(f)
	if err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestServer_InitialSnapshot(t *testing.T) {
	_, _, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)

	f := readFrame(t, conn)
	state := decodeSnapshot(t, f)
	if f.Seq != 1 {
		t.Errorf("Seq = %d, want 1", f.Seq)
	}
	if state.Count != 1 || state.Label != "start" {
		t.Errorf("state = %+v, want {1 start}", state)
	}
}

func TestServer_StoreWritePushesSnapshot(t *testing.T) {
	store, _, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)
	readFrame(t, conn) // initial snapshot

	stores.Update(store, func(s *counterState) {
		s.Count = 42
	})

	f := readFrame(t, conn)
	state := decodeSnapshot(t, f)
	if f.Seq != 2 {
		t.Errorf("Seq = %d, want 2", f.Seq)
	}
	if state.Count != 42 {
		t.Errorf("Count = %d, want 42", state.Count)
	}
}

func TestServer_ClientPatchAppliesAndRebroadcasts(t *testing.T) {
	store, _, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)
	readFrame(t, conn)

	writeFrame(t, conn, Frame{
		Type: FramePatch,
		Data: json.RawMessage(`{"count":5,"label":"patched"}`),
	})

	state := decodeSnapshot(t, readFrame(t, conn))
	if state.Count != 5 || state.Label != "patched" {
		t.Errorf("state = %+v, want {5 patched}", state)
	}

	got, ok := stores.GetUntracked[counterState](store)
	if !ok {
		t.Fatal("store disposed")
	}
	if got.Count != 5 || got.Label != "patched" {
		t.Errorf("store state = %+v, want {5 patched}", got)
	}
}

func TestServer_IdenticalPatchIsSilent(t *testing.T) {
	_, _, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)
	readFrame(t, conn)

	// Same value as the initial state: the diff finds nothing, so no
	// snapshot is rendered. The pong that follows the ping proves
	// ordering, since outbound frames are queued first-in first-out.
	writeFrame(t, conn, Frame{
		Type: FramePatch,
		Data: json.RawMessage(`{"count":1,"label":"start"}`),
	})
	writeFrame(t, conn, Frame{Type: FramePing})

	f := readFrame(t, conn)
	if f.Type != FramePong {
		t.Errorf("frame type = %q, want %q (identical patch should not render)", f.Type, FramePong)
	}
}

func TestServer_MalformedFrameGetsErrorFrame(t *testing.T) {
	_, _, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)
	readFrame(t, conn)

	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := readFrame(t, conn)
	if f.Type != FrameError {
		t.Fatalf("frame type = %q, want %q", f.Type, FrameError)
	}
	if f.Code != ErrInvalidFrame {
		t.Errorf("Code = %q, want %q", f.Code, ErrInvalidFrame)
	}
}

func TestServer_BadPatchGetsErrorFrame(t *testing.T) {
	_, _, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)
	readFrame(t, conn)

	writeFrame(t, conn, Frame{
		Type: FramePatch,
		Data: json.RawMessage(`"not an object"`),
	})

	f := readFrame(t, conn)
	if f.Type != FrameError {
		t.Fatalf("frame type = %q, want %q", f.Type, FrameError)
	}
	if f.Code != ErrInvalidPatch {
		t.Errorf("Code = %q, want %q", f.Code, ErrInvalidPatch)
	}
}

func TestServer_TwoClientsBothSeeWrites(t *testing.T) {
	store, _, wsURL, done := newTestServer(t)
	defer done()

	a := dial(t, wsURL)
	b := dial(t, wsURL)
	readFrame(t, a)
	readFrame(t, b)

	stores.Update(store, func(s *counterState) {
		s.Label = "broadcast"
	})

	if state := decodeSnapshot(t, readFrame(t, a)); state.Label != "broadcast" {
		t.Errorf("client a Label = %q, want %q", state.Label, "broadcast")
	}
	if state := decodeSnapshot(t, readFrame(t, b)); state.Label != "broadcast" {
		t.Errorf("client b Label = %q, want %q", state.Label, "broadcast")
	}
}

func TestServer_SessionCountAndShutdown(t *testing.T) {
	store, srv, wsURL, done := newTestServer(t)
	defer done()

	conn := dial(t, wsURL)
	readFrame(t, conn)

	if n := srv.SessionCount(); n != 1 {
		t.Fatalf("SessionCount() = %d, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if n := srv.SessionCount(); n != 0 {
		t.Errorf("SessionCount() after shutdown = %d, want 0", n)
	}

	// The disposed session's effect no longer observes the store.
	stores.Update(store, func(s *counterState) {
		s.Count = 99
	})

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestServer_Healthz(t *testing.T) {
	_, _, wsURL, done := newTestServer(t)
	defer done()

	base := "http" + strings.TrimPrefix(strings.TrimSuffix(wsURL, "/live"), "ws")
	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServer_RefreshRerendersNonReactiveState(t *testing.T) {
	// This render reads a plain variable the reactive graph never
	// sees; only Refresh can push the new value out.
	version := "v1"
	srv := NewServer(func() any {
		return map[string]string{"version": version}
	}, nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"

	conn := dial(t, wsURL)

	f := readFrame(t, conn)
	if f.Type != FrameSnapshot || !strings.Contains(string(f.Data), "v1") {
		t.Fatalf("initial frame = %q %s, want snapshot with v1", f.Type, f.Data)
	}

	version = "v2"
	srv.Refresh()

	f = readFrame(t, conn)
	if f.Type != FrameSnapshot || !strings.Contains(string(f.Data), "v2") {
		t.Fatalf("post-refresh frame = %q %s, want snapshot with v2", f.Type, f.Data)
	}
}

func TestServer_OversizedFrameGetsErrorFrame(t *testing.T) {
	store := stores.NewStore(counterState{Count: 1})
	srv := NewServer(func() any {
		v, _ := stores.Get[counterState](store)
		return v
	}, nil, WithConfig(&Config{MaxFrameSize: 64}))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"

	conn := dial(t, wsURL)
	readFrame(t, conn)

	big := Frame{Type: FramePing, Data: json.RawMessage(`"` + strings.Repeat("x", 100) + `"`)}
	writeFrame(t, conn, big)

	f := readFrame(t, conn)
	if f.Type != FrameError || f.Code != ErrFrameTooLarge {
		t.Fatalf("frame = %q code=%q, want %q/%q", f.Type, f.Code, FrameError, ErrFrameTooLarge)
	}

	// The session survives an oversized frame.
	writeFrame(t, conn, Frame{Type: FramePing})
	if f := readFrame(t, conn); f.Type != FramePong {
		t.Errorf("frame after oversize = %q, want %q", f.Type, FramePong)
	}
}
