package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/engine"
	"github.com/palemoky/fireworks/internal/logger"
	"github.com/palemoky/fireworks/internal/protocol"
	"github.com/palemoky/fireworks/internal/protocol/codec"
	"github.com/palemoky/fireworks/internal/protocol/convert"
	"github.com/palemoky/fireworks/internal/server/storage"
	"github.com/palemoky/fireworks/internal/types"
)

const persistTimeout = 3 * time.Second

var errTableEvicted = errors.New("table evicted from memory")

// Table 一个牌桌: one engine plus the connections seated at it. mu serializes
// every engine call.
type Table struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	engine     *engine.Engine
	clients    map[string]types.ClientInterface
	store      types.TableStore
	lastActive time.Time
	evicted    bool
}

func newTable(id string, e *engine.Engine, store types.TableStore, createdAt time.Time) *Table {
	return &Table{
		ID:         id,
		CreatedAt:  createdAt,
		engine:     e,
		clients:    make(map[string]types.ClientInterface),
		store:      store,
		lastActive: time.Now(),
	}
}

// Apply 执行玩家的一条动作消息, then saves the snapshot and pushes every
// seated client its own view.
func (t *Table) Apply(ctx context.Context, playerID string, msg *protocol.Message) error {
	handle, ok := actionHandlers[msg.Type]
	if !ok {
		return apperrors.ErrInvalidMsg.WithDetail("unknown type %q", msg.Type)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.evicted {
		return apperrors.ErrTableNotFound
	}
	if t.engine.IsGameOver() {
		return apperrors.ErrGameOver
	}
	if t.engine.CurrentPlayerID() != playerID {
		return apperrors.ErrNotYourTurn
	}

	out, err := handle(t.engine, msg)
	if err != nil {
		if apperrors.IsInvariantViolation(err) {
			logger.LogError("table %s: %s from %s: %v", t.ID, msg.Type, playerID, err)
		}
		return err
	}

	t.lastActive = time.Now()
	_ = t.persist(ctx)
	t.broadcast(convert.OutcomeToInfo(playerID, out))
	if out != nil && t.engine.IsGameOver() {
		logger.LogInfo("table %s finished: %s (%s), score %d", t.ID, out.Status, out.EndReason, t.engine.Score())
	}
	return nil
}

// Attach 让客户端入座并发送当前视角. A previous connection of the same
// player is closed.
func (t *Table) Attach(c types.ClientInterface) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.evicted {
		return errTableEvicted
	}
	id := c.GetPlayerID()
	if !t.engine.HasPlayer(id) {
		return apperrors.ErrUnknownPlayer.WithDetail("%q is not seated at %s", id, t.ID)
	}
	msg, err := t.stateMessage(id, nil)
	if err != nil {
		return err
	}
	if old, ok := t.clients[id]; ok && old != c {
		old.Close()
	}
	t.clients[id] = c
	t.lastActive = time.Now()
	c.SendMessage(msg)
	return nil
}

// Detach 移除客户端 if it is still the player's current connection.
func (t *Table) Detach(c types.ClientInterface) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := c.GetPlayerID()
	if t.clients[id] == c {
		delete(t.clients, id)
		t.lastActive = time.Now()
	}
}

// evictIfIdle saves the table and marks it evicted when nobody has been
// seated for at least idle. A table whose save fails stays in memory. An
// evicted table accepts no new connections.
func (t *Table) evictIfIdle(ctx context.Context, now time.Time, idle time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.clients) > 0 || now.Sub(t.lastActive) < idle {
		return false
	}
	if err := t.persist(ctx); err != nil {
		return false
	}
	t.evicted = true
	return true
}

// HasPlayer 玩家是否在此牌桌入座
func (t *Table) HasPlayer(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.HasPlayer(id)
}

// Players 牌桌上的玩家, in seat order
func (t *Table) Players() []protocol.PlayerInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return convert.StatePlayersToInfo(t.engine.Snapshot().Players)
}

// ConnectedCount 当前在线的玩家数
func (t *Table) ConnectedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// Snapshot 返回牌桌快照
func (t *Table) Snapshot() *storage.TableData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data()
}

// closeClients 关闭所有连接
func (t *Table) closeClients() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, c := range t.clients {
		c.Close()
		delete(t.clients, id)
	}
}

func (t *Table) data() *storage.TableData {
	return &storage.TableData{
		ID:        t.ID,
		CreatedAt: t.CreatedAt.Unix(),
		UpdatedAt: time.Now().Unix(),
		Snapshot:  t.engine.Payload(),
	}
}

// persist saves the committed state. The caller holds mu. A failed save is
// logged and returned; the in-memory game stays authoritative.
func (t *Table) persist(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := t.store.SaveTable(ctx, t.data()); err != nil {
		logger.LogError("save table %s: %v", t.ID, err)
		return err
	}
	return nil
}

// broadcast sends each seated client its own perspective. The caller holds mu.
func (t *Table) broadcast(outcome *protocol.OutcomeInfo) {
	for id, c := range t.clients {
		msg, err := t.stateMessage(id, outcome)
		if err != nil {
			logger.LogError("table %s: build view for %s: %v", t.ID, id, err)
			continue
		}
		c.SendMessage(msg)
	}
}

func (t *Table) stateMessage(playerID string, outcome *protocol.OutcomeInfo) (*protocol.Message, error) {
	view, err := t.engine.Perspective(playerID)
	if err != nil {
		return nil, err
	}
	return codec.NewMessage(protocol.MsgState, protocol.StatePayload{
		TableID: t.ID,
		Outcome: outcome,
		View:    view,
	})
}
