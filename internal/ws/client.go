package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pratikbuilds/account-socket/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	// sendBufferSize bounds the per-session mailbox. A full mailbox drops
	// envelopes rather than blocking publishers.
	sendBufferSize = 100

	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// Inbound subscription requests per session: 20/s sustained, bursts of 40.
	requestRate  = 20
	requestBurst = 40
)

// session is one live websocket connection: an inbound loop parsing
// subscription requests and an outbound loop draining the mailbox. Whichever
// loop exits first tears the session down; cleanup runs exactly once.
type session struct {
	id      uint64
	hub     *Hub
	conn    *websocket.Conn
	send    chan AccountUpdateMessage
	done    chan struct{}
	cleanup sync.Once
	limiter *rate.Limiter
}

// ServeConn runs the session protocol on an upgraded connection and blocks
// until the session ends. The connection is closed before returning.
func (h *Hub) ServeConn(ctx context.Context, conn *websocket.Conn) {
	s := &session{
		id:      h.registry.NextID(),
		hub:     h,
		conn:    conn,
		send:    make(chan AccountUpdateMessage, sendBufferSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(requestRate), requestBurst),
	}

	h.registry.Register(s.id, s.send)
	metrics.ConnectedClients.Inc()
	slog.Info("Websocket client connected", "session_id", s.id)

	go s.writeLoop()
	s.readLoop(ctx)

	// The read loop has ended; make sure the writer is stopped too.
	s.finish()
}

// readLoop parses inbound messages. Unparseable or rate-limited messages are
// discarded and the session stays open; a transport error ends the loop.
func (s *session) readLoop(ctx context.Context) {
	defer s.finish()

	_ = s.conn.SetReadDeadline(s.hub.clock.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(s.hub.clock.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			slog.Debug("Websocket read ended", "session_id", s.id, "error", err)
			return
		}

		if !s.limiter.Allow() {
			metrics.RequestsDiscarded.Inc()
			slog.Warn("Subscription request rate limit exceeded, discarding", "session_id", s.id)
			continue
		}

		var req SubscriptionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			slog.Warn("Failed to parse subscription request", "session_id", s.id, "raw", string(data), "error", err)
			continue
		}

		s.hub.handleRequest(ctx, s.id, req)
	}
}

// writeLoop serializes envelopes from the mailbox onto the transport and
// keeps the connection alive with pings. A write failure ends the loop.
func (s *session) writeLoop() {
	defer s.finish()

	ticker := s.hub.clock.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			data, err := json.Marshal(msg)
			if err != nil {
				slog.Error("Failed to serialize envelope", "session_id", s.id, "pubkey", msg.Pubkey, "error", err)
				continue
			}
			_ = s.conn.SetWriteDeadline(s.hub.clock.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("Websocket write failed", "session_id", s.id, "error", err)
				return
			}
		case <-ticker.Chan():
			if err := s.conn.WriteControl(websocket.PingMessage, nil, s.hub.clock.Now().Add(writeWait)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// finish tears the session down: registry and index removal, connection
// close, writer stop. Guarded so the racing loops run it exactly once.
func (s *session) finish() {
	s.cleanup.Do(func() {
		s.hub.detach(s.id)
		close(s.done)
		_ = s.conn.Close()
		metrics.ConnectedClients.Dec()
		slog.Info("Websocket client disconnected", "session_id", s.id)
	})
}
