package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reflow-dev/reflow/pkg/reactive"
)

var nextSessionID atomic.Uint64

// Session is one connected client: a render effect feeding a buffered
// outbound queue, plus read and write pumps on the WebSocket.
type Session struct {
	id     uint64
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	// send carries encoded frames from the render effect to the write
	// loop. The effect never blocks on it; a full buffer closes the
	// session instead.
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
	seq       atomic.Uint64

	effect *reactive.Effect
}

func newSession(server *Server, conn *websocket.Conn) *Session {
	id := nextSessionID.Add(1)
	return &Session{
		id:     id,
		server: server,
		conn:   conn,
		logger: server.logger.With("session_id", id),
		send:   make(chan []byte, server.config.SendBuffer),
		done:   make(chan struct{}),
	}
}

// start creates the render effect and launches the connection pumps.
// The effect's first run sends the initial snapshot; every store path
// the render function reads re-runs it on change, so each subsequent
// snapshot reflects exactly the writes that touched observed state.
func (s *Session) start() {
	s.effect = reactive.NewEffect(func() reactive.Cleanup {
		s.server.refresh.Get()
		value := s.server.render()
		data, err := json.Marshal(value)
		if err != nil {
			s.logger.Error("render marshal failed", "error", err)
			return nil
		}
		s.enqueue(Frame{
			Type: FrameSnapshot,
			Seq:  s.seq.Add(1),
			Data: data,
		})
		return nil
	}, reactive.EffectName("live.render"))

	go s.readLoop()
	go s.writeLoop()
}

// enqueue encodes a frame onto the send queue without blocking.
func (s *Session) enqueue(f Frame) {
	data, err := EncodeFrame(f)
	if err != nil {
		s.logger.Error("frame encode failed", "error", err)
		return
	}

	select {
	case <-s.done:
	case s.send <- data:
		framesTotal.WithLabelValues("out", string(f.Type)).Inc()
	default:
		// Slow client: closing beats buffering unbounded renders.
		s.logger.Warn("send buffer full, closing session")
		go s.Close()
	}
}

// readLoop pulls frames off the connection until it fails or closes.
func (s *Session) readLoop() {
	defer s.Close()

	// The hard limit sits above MaxFrameSize so oversized frames can be
	// rejected with an error frame instead of a dropped connection;
	// only frames several times over the limit kill the read.
	s.conn.SetReadLimit(4 * s.server.config.MaxFrameSize)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		if int64(len(msg)) > s.server.config.MaxFrameSize {
			s.logger.Warn("frame too large", "bytes", len(msg))
			s.enqueue(errorFrame(ErrFrameTooLarge, "frame exceeds size limit"))
			continue
		}

		frame, err := DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.enqueue(errorFrame(ErrInvalidFrame, "invalid frame"))
			continue
		}
		framesTotal.WithLabelValues("in", string(frame.Type)).Inc()

		switch frame.Type {
		case FramePatch:
			s.handlePatch(frame)

		case FramePing:
			s.enqueue(Frame{Type: FramePong})

		case FramePong:
			// Deadline already refreshed by the read itself.

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
			s.enqueue(errorFrame(ErrInvalidFrame, "unexpected frame type"))
		}
	}
}

// handlePatch applies a client patch through the server's apply
// function, traced per frame.
func (s *Session) handlePatch(frame Frame) {
	if s.server.apply == nil {
		s.enqueue(errorFrame(ErrInvalidPatch, "patches not accepted"))
		return
	}

	err := s.server.tracer.traceApply(context.Background(), s.id, len(frame.Data), func() error {
		return s.server.apply(frame.Data)
	})
	if err != nil {
		s.logger.Error("patch apply failed", "error", err)
		s.enqueue(errorFrame(ErrInvalidPatch, err.Error()))
	}
}

// writeLoop drains the send queue and pings idle clients.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.server.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Error("write error", "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			ping, _ := EncodeFrame(Frame{Type: FramePing})
			s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close tears the session down: the render effect stops observing, the
// pumps exit, and the connection closes. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.effect != nil {
			s.effect.Dispose()
		}
		s.conn.Close()
		s.server.removeSession(s.id)
	})
}
