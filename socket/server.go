package socket

import (
	"net/http"
	"time"

	"unveil_server/apperrors"
	"unveil_server/middleware"
	"unveil_server/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second

	// Clients only ever send control frames; anything bigger is noise.
	maxInboundSize = 512
)

// ChatStreamHandler upgrades an authenticated request into a per-match
// event stream. Durability is not its job: a client that misses events
// (drop, disconnect) re-subscribes and calls the messages endpoint with
// its last-known ordinal.
type ChatStreamHandler struct {
	Hub      *Hub
	Ledger   *services.MatchService
	Log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewChatStreamHandler(hub *Hub, ledger *services.MatchService, log *zap.SugaredLogger) *ChatStreamHandler {
	return &ChatStreamHandler{
		Hub:    hub,
		Ledger: ledger,
		Log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origin policy is enforced by the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *ChatStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, `{"error": "unauthenticated"}`, http.StatusUnauthorized)
		return
	}

	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		http.Error(w, `{"error": "matchId is required"}`, http.StatusBadRequest)
		return
	}

	// Participant check before the upgrade; events for a match must
	// never leak to outsiders.
	if _, _, err := h.Ledger.GetMatchFor(r.Context(), matchID, userID); err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, apperrors.HTTPStatus(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warnw("websocket upgrade failed", "matchId", matchID, "error", err)
		return
	}

	sub := h.Hub.Subscribe(matchID, userID)
	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

// writePump forwards events to the connection until the subscription
// closes (hub drop or unsubscribe) or a write fails.
func (h *ChatStreamHandler) writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case evt, ok := <-sub.Events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Dropped by the hub; tell the client to re-subscribe
				// and catch up by ordinal.
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resubscribe"))
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				h.Hub.Unsubscribe(sub)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Hub.Unsubscribe(sub)
				return
			}
		}
	}
}

// readPump exists to notice the peer going away; inbound frames are
// discarded. Returning unsubscribes, which ends the write pump.
func (h *ChatStreamHandler) readPump(conn *websocket.Conn, sub *Subscription) {
	defer h.Hub.Unsubscribe(sub)

	conn.SetReadLimit(maxInboundSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
