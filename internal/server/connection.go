package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/protocol"
)

// handleWebSocket 处理 WebSocket 连接: GET /ws?table=<id>&player=<pid>
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown.Load() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	playerID := q.Get("player")
	t, err := s.getTable(r.Context(), q.Get("table"))
	if err != nil {
		writeError(w, err)
		return
	}
	if playerID == "" || !t.HasPlayer(playerID) {
		writeError(w, apperrors.ErrUnknownPlayer.WithDetail("%q", playerID))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client, err := s.seat(r.Context(), t, conn, playerID)
	if err != nil {
		log.Printf("玩家 %s 入座失败: %v", playerID, err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "seat failed"))
		_ = conn.Close()
		return
	}

	log.Printf("✅ 玩家 %s 已连接牌桌 %s", playerID, client.table.ID)
	go client.WritePump()
	go client.ReadPump()
}

// seat attaches a new client to the table, reloading the table once if it
// was evicted in the meantime.
func (s *Server) seat(ctx context.Context, t *Table, conn *websocket.Conn, playerID string) (*Client, error) {
	client := NewClient(t, conn, playerID, s.config.Server.MaxMessageSize)
	err := t.Attach(client)
	if errors.Is(err, errTableEvicted) {
		if t, err = s.getTable(ctx, t.ID); err != nil {
			return nil, err
		}
		client = NewClient(t, conn, playerID, s.config.Server.MaxMessageSize)
		err = t.Attach(client)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.shuttingDown.Load() {
		writeJSON(w, http.StatusServiceUnavailable, protocol.HealthPayload{Status: "shutting_down", Tables: s.TableCount()})
		return
	}
	writeJSON(w, http.StatusOK, protocol.HealthPayload{Status: "ok", Tables: s.TableCount()})
}
