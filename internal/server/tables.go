package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/engine"
	"github.com/palemoky/fireworks/internal/protocol"
	"github.com/palemoky/fireworks/internal/protocol/codec"
	"github.com/palemoky/fireworks/internal/protocol/convert"
)

// 请求体上限
const (
	maxCreateBody   = 64 * 1024
	maxSnapshotBody = 4 * 1024 * 1024
)

// handleCreateTable POST /tables
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown.Load() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	var req protocol.CreateTablePayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCreateBody)).Decode(&req); err != nil {
		writeError(w, apperrors.ErrInvalidMsg.WithDetail("%v", err))
		return
	}

	e, err := engine.New(convert.CreateTableToConfig(&req, s.defaultGameConfig()))
	if err != nil {
		writeError(w, err)
		return
	}

	t := s.addTable(r.Context(), e)
	writeJSON(w, http.StatusCreated, protocol.TableCreatedPayload{TableID: t.ID, Players: t.Players()})
}

// handleRestoreTable POST /tables/restore?format=json|protobuf
func (s *Server) handleRestoreTable(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown.Load() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	format, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBody))
	if err != nil {
		writeError(w, apperrors.ErrInvalidMsg.WithDetail("%v", err))
		return
	}
	doc, err := codec.SnapshotJSON(body, format)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := engine.RestoreJSON(doc)
	if err != nil {
		writeError(w, err)
		return
	}

	t := s.addTable(r.Context(), e)
	writeJSON(w, http.StatusCreated, protocol.TableCreatedPayload{TableID: t.ID, Players: t.Players()})
}

// handleSnapshot GET /tables/{id}/snapshot?format=json|protobuf
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	format, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := s.getTable(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := codec.EncodeSnapshot(t.Snapshot().Snapshot, format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleListTables GET /tables lists every stored table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, protocol.TableListPayload{Tables: []string{}})
		return
	}
	ids, err := s.store.ListTableIDs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.TableListPayload{Tables: ids})
}

// handleDeleteTable DELETE /tables/{id}
func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.getTable(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.removeTable(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON 写 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("响应编码错误: %v", err)
	}
}

// writeError 将错误写为 protocol.ErrorPayload. Errors that are not a
// GameError are reported without their text.
func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	payload := protocol.ErrorPayload{Code: apperrors.CodeOf(err), Message: err.Error()}
	if payload.Code == protocol.ErrCodeUnknown {
		log.Printf("请求失败: %v", err)
		payload.Message = protocol.ErrorMessages[protocol.ErrCodeUnknown]
	}
	writeJSON(w, status, payload)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnknownPlayer):
		return http.StatusForbidden
	case apperrors.IsInvariantViolation(err):
		return http.StatusUnprocessableEntity
	case apperrors.IsRuleViolation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
