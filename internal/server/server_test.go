package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/config"
	"github.com/palemoky/fireworks/internal/game/engine"
	"github.com/palemoky/fireworks/internal/protocol"
	"github.com/palemoky/fireworks/internal/protocol/codec"
	"github.com/palemoky/fireworks/internal/server/storage"
	"github.com/palemoky/fireworks/internal/testutil"
)

type testEnv struct {
	srv   *Server
	http  *httptest.Server
	mr    *miniredis.Miniredis
	store *storage.RedisStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := storage.NewRedisStore(rdb, time.Hour)

	srv := New(config.Default(), store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, http: ts, mr: mr, store: store}
}

// sibling starts a second server over the same Redis, as after a restart.
func (env *testEnv) sibling(t *testing.T) *testEnv {
	t.Helper()
	srv := New(config.Default(), env.store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, http: ts, mr: env.mr, store: env.store}
}

func (env *testEnv) post(t *testing.T, path string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(env.http.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (env *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(env.http.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (env *testEnv) createTable(t *testing.T) string {
	t.Helper()
	seed := int64(7)
	body, err := json.Marshal(protocol.CreateTablePayload{
		Players: []protocol.PlayerInfo{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}},
		Seed:    &seed,
	})
	require.NoError(t, err)

	resp := env.post(t, "/tables", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created protocol.TableCreatedPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.TableID)
	return created.TableID
}

func (env *testEnv) dial(t *testing.T, tableID, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws?table=" + tableID + "&player=" + playerID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := codec.Decode(data)
	require.NoError(t, err)
	return msg
}

func send(t *testing.T, conn *websocket.Conn, typ protocol.MessageType, payload any) {
	t.Helper()
	data, err := codec.Encode(codec.MustNewMessage(typ, payload))
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func decodeError(t *testing.T, msg *protocol.Message) *protocol.ErrorPayload {
	t.Helper()
	require.Equal(t, protocol.MsgError, msg.Type)
	p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	return p
}

func TestServer_CreateTable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)

	assert.True(t, env.mr.Exists("table:"+id))
	assert.Equal(t, 1, env.srv.TableCount())

	ids, err := env.store.ListTableIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)
}

func TestServer_CreateTable_Rejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{"players":`, protocol.ErrCodeInvalidMsg},
		{"one player", `{"players":[{"id":"a","name":"A"}]}`, protocol.ErrCodeInvalidConfig},
		{"duplicate names", `{"players":[{"id":"a","name":"Ann"},{"id":"b","name":"ann"}]}`, protocol.ErrCodeInvalidConfig},
		{"variant without multicolor", `{"players":[{"id":"a","name":"A"},{"id":"b","name":"B"}],"multicolor_wild_hints":true}`, protocol.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		resp := env.post(t, "/tables", []byte(tt.body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tt.name)

		var p protocol.ErrorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p), tt.name)
		assert.Equal(t, tt.code, p.Code, tt.name)
	}
	assert.Equal(t, 0, env.srv.TableCount())
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createTable(t)

	resp := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var p protocol.HealthPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, protocol.HealthPayload{Status: "ok", Tables: 1}, p)
}

func TestServer_WebSocketGame(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)

	alice := env.dial(t, id, "alice")
	aliceView := decodeState(t, readMessage(t, alice))
	assert.Equal(t, id, aliceView.TableID)
	assert.Equal(t, "alice", aliceView.View.ViewerID)

	bob := env.dial(t, id, "bob")
	decodeState(t, readMessage(t, bob))

	// ping is answered even out of turn
	send(t, bob, protocol.MsgPing, protocol.PingPayload{Timestamp: 42})
	pong := readMessage(t, bob)
	require.Equal(t, protocol.MsgPong, pong.Type)
	pp, err := codec.ParsePayload[protocol.PongPayload](pong)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pp.ClientTimestamp)

	send(t, bob, protocol.MsgPlayCard, protocol.CardPayload{CardID: "c01"})
	assert.Equal(t, protocol.ErrCodeNotYourTurn, decodeError(t, readMessage(t, bob)).Code)

	send(t, alice, protocol.MsgGiveNumberHint, protocol.NumberHintPayload{TargetID: "alice", Number: 1})
	assert.Equal(t, protocol.ErrCodeSelfHint, decodeError(t, readMessage(t, alice)).Code)

	send(t, alice, protocol.MsgPlayCard, protocol.CardPayload{CardID: "c00"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		p := decodeState(t, readMessage(t, conn))
		require.NotNil(t, p.Outcome)
		assert.Equal(t, "alice", p.Outcome.ActorID)
		assert.Equal(t, "bob", p.Outcome.CurrentPlayerID)
		assert.Equal(t, 2, p.View.Turn)
	}

	// the committed action reached Redis
	data, err := env.store.LoadTable(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 2, data.Snapshot.State.Turn)
}

func TestServer_WebSocketProtocolErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)
	alice := env.dial(t, id, "alice")
	readMessage(t, alice)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, protocol.ErrCodeInvalidMsg, decodeError(t, readMessage(t, alice)).Code)

	send(t, alice, protocol.MessageType("shuffle"), nil)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, decodeError(t, readMessage(t, alice)).Code)
}

func TestServer_WebSocketRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)
	base := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws"

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"unknown table", "?table=nope&player=alice", http.StatusNotFound},
		{"unknown player", "?table=" + id + "&player=mallory", http.StatusForbidden},
		{"no player", "?table=" + id, http.StatusForbidden},
	}
	for _, tt := range tests {
		_, resp, err := websocket.DefaultDialer.Dial(base+tt.query, nil)
		require.Error(t, err, tt.name)
		require.NotNil(t, resp, tt.name)
		assert.Equal(t, tt.status, resp.StatusCode, tt.name)
		_ = resp.Body.Close()
	}
}

func TestServer_SnapshotExportImport(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)

	resp := env.get(t, "/tables/"+id+"/snapshot")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	jsonDoc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	original, err := engine.RestoreJSON(jsonDoc)
	require.NoError(t, err)

	resp = env.get(t, "/tables/"+id+"/snapshot?format=protobuf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))
	pbDoc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	resp = env.post(t, "/tables/restore?format=protobuf", pbDoc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created protocol.TableCreatedPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEqual(t, id, created.TableID)
	assert.Equal(t, []protocol.PlayerInfo{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}}, created.Players)

	resp = env.get(t, "/tables/"+created.TableID+"/snapshot")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	copyDoc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	restored, err := engine.RestoreJSON(copyDoc)
	require.NoError(t, err)
	assert.Equal(t, original.Snapshot(), restored.Snapshot())
}

func TestServer_SnapshotErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)

	resp := env.get(t, "/tables/nope/snapshot")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.get(t, "/tables/"+id+"/snapshot?format=xml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.post(t, "/tables/restore", []byte(`{"state":{"players":[]}}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var p protocol.ErrorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, protocol.ErrCodeInvalidState, p.Code)

	resp = env.post(t, "/tables/restore?format=protobuf", []byte("garbage"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Equal(t, 1, env.srv.TableCount())
}

func TestServer_LoadsTableFromStore(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)

	restarted := env.sibling(t)
	assert.Equal(t, 0, restarted.srv.TableCount())

	conn := restarted.dial(t, id, "bob")
	p := decodeState(t, readMessage(t, conn))
	assert.Equal(t, id, p.TableID)
	assert.Equal(t, "bob", p.View.ViewerID)
	assert.Equal(t, 1, restarted.srv.TableCount())
}

func TestServer_Shutdown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := env.createTable(t)
	conn := env.dial(t, id, "alice")
	readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, env.srv.Shutdown(ctx))
	assert.True(t, env.srv.IsShuttingDown())

	// the connection is closed by the server
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	resp := env.get(t, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = env.post(t, "/tables", []byte(`{}`))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	assert.True(t, env.mr.Exists("table:"+id))
}

func TestServer_EvictIdleTables(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	idle := env.createTable(t)
	busy := env.createTable(t)
	conn := env.dial(t, busy, "alice")
	readMessage(t, conn)

	later := time.Now().Add(time.Hour)
	assert.Equal(t, 1, env.srv.evictIdle(context.Background(), later))
	assert.Equal(t, 1, env.srv.TableCount())

	// an evicted table comes back from Redis on the next connection
	bob := env.dial(t, idle, "bob")
	p := decodeState(t, readMessage(t, bob))
	assert.Equal(t, idle, p.TableID)
	assert.Equal(t, 2, env.srv.TableCount())
}

func TestServer_EvictKeepsUnsavedTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	id := env.createTable(t)
	alice := env.dial(t, id, "alice")
	readMessage(t, alice)

	env.mr.SetError("ERR redis unavailable")
	send(t, alice, protocol.MsgPlayCard, protocol.CardPayload{CardID: "c00"})
	assert.Equal(t, 2, decodeState(t, readMessage(t, alice)).View.Turn)
	require.NoError(t, alice.Close())
	assert.Eventually(t, func() bool { return env.srv.GetOnlineCount() == 0 }, time.Second, 10*time.Millisecond)

	later := time.Now().Add(time.Hour)
	assert.Equal(t, 0, env.srv.evictIdle(ctx, later))
	assert.Equal(t, 1, env.srv.TableCount())

	env.mr.SetError("")
	assert.Equal(t, 1, env.srv.evictIdle(ctx, later))
	assert.Equal(t, 0, env.srv.TableCount())

	tbl, err := env.srv.getTable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Snapshot().Snapshot.State.Turn)
}

func TestServer_ListAndDeleteTables(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	first := env.createTable(t)
	second := env.createTable(t)
	conn := env.dial(t, first, "alice")
	readMessage(t, conn)

	resp := env.get(t, "/tables")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list protocol.TableListPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.ElementsMatch(t, []string{first, second}, list.Tables)

	req, err := http.NewRequest(http.MethodDelete, env.http.URL+"/tables/"+first, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// seated players are disconnected
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	assert.False(t, env.mr.Exists("table:"+first))
	assert.Equal(t, 1, env.srv.TableCount())
	resp = env.get(t, "/tables/"+first+"/snapshot")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, env.http.URL+"/tables/"+first, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RemoveTableIsNotReloaded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := new(testutil.MockTableStore)
	store.On("SaveTable", mock.Anything, mock.Anything).Return(nil)
	srv := New(config.Default(), store)

	e, err := engine.New(engine.TwoPlayerConfig(engine.ParseDeck(tableDeck)))
	require.NoError(t, err)
	tbl := srv.addTable(ctx, e)
	store.On("LoadTable", mock.Anything, tbl.ID).Return(tbl.Snapshot(), nil).Maybe()

	// a lookup racing with the store delete must not bring the table back
	var lookupErr error
	store.On("DeleteTable", mock.Anything, tbl.ID).Run(func(mock.Arguments) {
		_, lookupErr = srv.getTable(ctx, tbl.ID)
	}).Return(nil)

	require.NoError(t, srv.removeTable(ctx, tbl.ID))
	assert.ErrorIs(t, lookupErr, apperrors.ErrTableNotFound)
	assert.Equal(t, 0, srv.TableCount())
	store.AssertNotCalled(t, "LoadTable", mock.Anything, tbl.ID)

	// a removed table refuses late actions
	err = tbl.Apply(ctx, "alice", actionMessage(t, protocol.MsgPlayCard, protocol.CardPayload{CardID: "c00"}))
	assert.ErrorIs(t, err, apperrors.ErrTableNotFound)
	store.AssertNumberOfCalls(t, "SaveTable", 1)
}

func TestServer_StoreFailures(t *testing.T) {
	t.Parallel()

	store := new(testutil.MockTableStore)
	store.On("LoadTable", mock.Anything, "broken").Return(nil, errors.New("redis down"))
	store.On("LoadTable", mock.Anything, "missing").Return(nil, nil)
	store.On("ListTableIDs", mock.Anything).Return(nil, errors.New("redis down"))

	srv := New(config.Default(), store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tests := []struct {
		path   string
		status int
		code   int
	}{
		{"/tables/broken/snapshot", http.StatusInternalServerError, protocol.ErrCodeUnknown},
		{"/tables/missing/snapshot", http.StatusNotFound, protocol.ErrCodeTableNotFound},
		{"/tables", http.StatusInternalServerError, protocol.ErrCodeUnknown},
	}
	for _, tt := range tests {
		resp, err := http.Get(ts.URL + tt.path)
		require.NoError(t, err)
		var p protocol.ErrorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
		_ = resp.Body.Close()

		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		assert.Equal(t, tt.code, p.Code, tt.path)
		if tt.code == protocol.ErrCodeUnknown {
			// internal error text is not exposed
			assert.Equal(t, "unknown error", p.Message)
		}
	}
	store.AssertExpectations(t)
}
