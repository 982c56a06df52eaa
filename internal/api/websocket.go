package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/reiki-home/reiki-core/internal/hub"
	"github.com/reiki-home/reiki-core/internal/infrastructure/config"
	"github.com/reiki-home/reiki-core/internal/infrastructure/logging"
)

// wsSendBufferSize is the per-client outbound message buffer size.
const wsSendBufferSize = 256

// errSlowClient is returned by Send when a client's buffer is full.
// The hub treats a send failure as a dead client and unregisters it.
var errSlowClient = errors.New("api: websocket send buffer full")

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// wsConn adapts a gorilla connection to the hub's Conn interface.
//
// Send is non-blocking: frames are queued on a buffered channel drained
// by writePump, so a slow client stalls only itself. A full buffer
// drops the frame rather than blocking the broadcasting goroutine.
type wsConn struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

// Send queues one frame for delivery.
func (c *wsConn) Send(data []byte) error {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel during teardown
	}()

	select {
	case c.send <- data:
		return nil
	default:
		return errSlowClient
	}
}

// Close shuts the outbound channel and the underlying connection.
// Safe to call more than once.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.send)
	})
	return c.conn.Close()
}

// handleWebSocket upgrades the HTTP connection and hands it to the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	wsc := &wsConn{
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}

	go wsc.writePump(s.wsCfg, s.logger)

	client := s.hub.Register(wsc)

	go s.readPump(wsc, client)
}

// readPump reads frames from the client and routes them through the hub.
func (s *Server) readPump(wsc *wsConn, client *hub.Client) {
	defer func() {
		s.hub.Unregister(client)
		wsc.Close() //nolint:errcheck // Best-effort teardown
	}()

	wsc.conn.SetReadLimit(int64(s.wsCfg.MaxMessageSize))
	pingInterval := time.Duration(s.wsCfg.PingInterval) * time.Second
	pongWait := time.Duration(s.wsCfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	wsc.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	wsc.conn.SetPongHandler(func(string) error {
		return wsc.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := wsc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
			} else {
				s.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline.
		//nolint:errcheck // Best-effort deadline reset
		wsc.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		s.hub.Route(s.wsCtx, client, message)
	}
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with protocol-level pings.
func (c *wsConn) writePump(cfg config.WebSocketConfig, logger *logging.Logger) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
