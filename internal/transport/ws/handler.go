package ws

import (
	"net/http"

	"nhooyr.io/websocket"

	"tradehub/internal/auth"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send
// headers) and runs before the upgrade: a connection that fails any
// handshake check is rejected with its stable reason and never has an
// event read from it.
func ServeWS(hub *Hub, authenticator *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := authenticator.Authenticate(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			reason, ok := auth.Reason(err)
			if !ok {
				hub.log.Error("handshake lookup failed", "err", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			http.Error(w, reason, http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			hub.log.Error("ws accept", "err", err)
			return
		}

		client := NewClient(hub, conn, *identity)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
