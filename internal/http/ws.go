package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusEvent is the client-visible projection of a record snapshot.
type statusEvent struct {
	Status    string          `json:"status"`
	Response  json.RawMessage `json:"response,omitempty"`
	UpdatedAt string          `json:"updatedAt"`
}

// WatchTransaction streams status snapshots for one transaction over a
// websocket. The subscription is cancelled as soon as the peer goes away.
func (h *Handler) WatchTransaction(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if docID == "" {
		writeError(w, http.StatusBadRequest, "missing doc id")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed doc=%s: %v", docID, err)
		return
	}

	sub, err := h.Store.Subscribe(r.Context(), docID)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer sub.Cancel()
	defer conn.Close()

	// Reads are only consumed to notice the peer closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			ev := statusEvent{
				Status:    string(snap.Status),
				Response:  snap.Response,
				UpdatedAt: snap.UpdatedAt.Format(time.RFC3339),
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
