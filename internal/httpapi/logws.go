package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/mapban/veto-backend/internal/ledger"
)

// LogStream pushes every accepted log entry to the operator console over a
// websocket, saving the console from polling /api/logs.
func LogStream(lg *ledger.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan ledger.Entry, 16)
		clientID := ledger.NewEntryID()
		lg.Inbox() <- ledger.Subscribe{ClientID: clientID, Outbox: out}
		defer func() { lg.Inbox() <- ledger.Unsubscribe{ClientID: clientID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for entry := range out {
				payload, _ := json.Marshal(entry)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Drain the reader until the peer goes away; the console never
		// sends anything meaningful.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
		}
	}
}
