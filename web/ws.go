package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Customer pages and the admin console are served from anywhere; there
	// is no auth between roles.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades the connection, attaches the client as a viewer (which
// delivers the initial snapshot), then pumps events until either side goes
// away. Each frame is one JSON-encoded realtime.Event.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	v, err := h.engine.Connect(r.Context())
	if err != nil {
		slog.Error("snapshot failed, dropping connection", "error", err)
		conn.Close()
		return
	}

	go func() {
		defer conn.Close()
		for {
			select {
			case ev := <-v.Events():
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(ev); err != nil {
					h.engine.Disconnect(v)
					return
				}
			case <-v.Done():
				return
			}
		}
	}()

	// Inbound frames carry nothing; reading just detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.engine.Disconnect(v)
}
