// WebSocket endpoint.
//
// GET /ws upgrades the request and attaches the client to the broadcast
// hub. The socket is bidirectional: inbound frames are document_update
// relays validated and fanned out by the hub; outbound frames are the
// hub's message and document_update events. There is no per-chat
// subscription handshake, clients filter on the chatId field.
package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/g8d3/ai-chat-dev/internal/hub"
)

const (
	// wsWriteWait bounds each outbound write.
	wsWriteWait = 10 * time.Second
	// wsPongWait is how long a silent peer stays alive.
	wsPongWait = 60 * time.Second
	// wsPingPeriod must be shorter than wsPongWait.
	wsPingPeriod = 54 * time.Second
	// wsMaxFrameBytes caps inbound frames; document edits stay small
	// because full saves go through REST.
	wsMaxFrameBytes = 64 << 10
)

// wsUpgrader performs the HTTP -> WebSocket upgrade. Browsers enforce
// same-origin through the API's CORS posture; the socket accepts any
// origin like the rest of the demo-auth surface.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsTransport adapts a gorilla connection to the hub's Transport. The
// mutex also covers control frames so the ping ticker never interleaves
// with a broadcast write.
type wsTransport struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// WriteJSON implements hub.Transport with a bounded write deadline.
func (t *wsTransport) WriteJSON(v any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return t.conn.WriteJSON(v)
}

// ping sends a control ping under the same write lock.
func (t *wsTransport) ping() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// ServeWS returns the Gin handler for the broadcast socket bound to h.
func ServeWS(h *hub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		t := &wsTransport{conn: conn}
		sub := h.Register(t)
		sub.Open()

		uid := userID(c)
		log.Info().
			Str("conn_id", sub.ID()).
			Str("user_id", uid).
			Int("connections", h.Len()).
			Msg("websocket connected")

		done := make(chan struct{})
		go pingLoop(t, sub, done)

		conn.SetReadLimit(wsMaxFrameBytes)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		defer func() {
			close(done)
			h.Unregister(sub)
			_ = conn.Close()
			log.Info().
				Str("conn_id", sub.ID()).
				Int("connections", h.Len()).
				Msg("websocket disconnected")
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Str("conn_id", sub.ID()).Err(err).Msg("websocket read error")
				}
				return
			}
			if err := h.HandleInbound(sub, raw); err != nil {
				// Bad frames are dropped; the connection stays up.
				if errors.Is(err, hub.ErrBadEnvelope) {
					log.Debug().Str("conn_id", sub.ID()).Msg("dropping malformed frame")
					continue
				}
				log.Warn().Str("conn_id", sub.ID()).Err(err).Msg("inbound frame failed")
			}
		}
	}
}

// pingLoop keeps the connection's read deadline fed until done closes or
// a ping write fails.
func pingLoop(t *wsTransport, sub *hub.Connection, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := t.ping(); err != nil {
				sub.Close()
				return
			}
		case <-done:
			return
		}
	}
}
