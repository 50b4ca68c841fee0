// File: ws/ws.go

// websocket stream of Random events, one json message per generated record
package ws

import (
	"net/http"
	"time"

	"PRNG/auditlog"
	"PRNG/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is what subscribers receive for each record.
type Message struct {
	Event  string          `json:"event"`
	Record auditlog.Record `json:"record"`
}

// Hub serves the event stream of a feed.
type Hub struct {
	feed   *events.Feed
	logger *zap.Logger
	buffer int
}

func NewHub(feed *events.Feed, logger *zap.Logger) *Hub {
	return &Hub{feed: feed, logger: logger, buffer: events.DefaultBuffer}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	records, cancel := h.feed.Subscribe(h.buffer)
	defer cancel()
	h.logger.Info("subscriber connected", zap.String("remote", r.RemoteAddr))

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			h.logger.Info("subscriber disconnected", zap.String("remote", r.RemoteAddr))
			return
		case rec, ok := <-records:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Message{Event: events.Name, Record: rec}); err != nil {
				h.logger.Warn("websocket write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
