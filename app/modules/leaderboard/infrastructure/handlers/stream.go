package leaderboardhandlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"nhooyr.io/websocket"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsSnapshotBuffer = 1
)

func (h *LeaderboardHandlers) HandleHTTPStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.allowedOrigins})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Websocket upgrade failed", attr.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	// Clients never send; CloseRead handles their close frames and cancels ctx.
	ctx := conn.CloseRead(r.Context())

	snapshots, unsubscribe := h.service.View().Subscribe(wsSnapshotBuffer)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := writeSnapshot(ctx, conn, newLeaderboardResponse(snap)); err != nil {
				if websocket.CloseStatus(err) == -1 {
					h.logger.DebugContext(ctx, "Websocket write failed", attr.Error(err))
				}
				return
			}
		}
	}
}

func writeSnapshot(ctx context.Context, conn *websocket.Conn, resp LeaderboardResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
