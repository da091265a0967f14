package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/config"
	"github.com/palemoky/fireworks/internal/game/engine"
	"github.com/palemoky/fireworks/internal/server/storage"
	"github.com/palemoky/fireworks/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
	EnableCompression: false,
}

// Server 牌桌服务器
type Server struct {
	config *config.Config
	redis  *redis.Client
	store  types.TableStore

	tables   map[string]*Table
	deleting map[string]struct{} // 删除中的牌桌, not reloaded from the store
	tablesMu sync.RWMutex

	mux          *http.ServeMux
	httpServer   *http.Server
	shuttingDown atomic.Bool
	done         chan struct{}
	closeOnce    sync.Once
}

// NewServer 创建服务器实例, 快照保存在 Redis 中
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	s := New(cfg, storage.NewRedisStore(rdb, cfg.Game.SnapshotTTLDuration()))
	s.redis = rdb
	return s, nil
}

// New 使用指定的存储创建服务器
func New(cfg *config.Config, store types.TableStore) *Server {
	s := &Server{
		config:   cfg,
		store:    store,
		tables:   make(map[string]*Table),
		deleting: make(map[string]struct{}),
		mux:      http.NewServeMux(),
		done:     make(chan struct{}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /tables", s.handleListTables)
	s.mux.HandleFunc("POST /tables", s.handleCreateTable)
	s.mux.HandleFunc("DELETE /tables/{id}", s.handleDeleteTable)
	s.mux.HandleFunc("POST /tables/restore", s.handleRestoreTable)
	s.mux.HandleFunc("GET /tables/{id}/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// Handler 返回服务器的 HTTP 路由
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start 启动服务器, 阻塞直到关闭
func (s *Server) Start() error {
	addr := s.config.Server.Addr()

	// 启动监控 goroutine
	go s.monitorStats()
	go s.cleanupLoop()

	log.Printf("🚀 服务器启动在 http://%s (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// defaultGameConfig 由配置文件得到的新牌局默认规则
func (s *Server) defaultGameConfig() engine.GameConfig {
	g := s.config.Game
	return engine.GameConfig{
		IncludeMulticolor:   g.IncludeMulticolor,
		MulticolorShortDeck: g.MulticolorShortDeck,
		MulticolorWildHints: g.MulticolorWildHints,
		EndlessMode:         g.EndlessMode,
		MaxHintTokens:       g.MaxHintTokens,
		MaxFuseTokens:       g.MaxFuseTokens,
	}
}

// addTable 注册一个新牌桌并保存首个快照
func (s *Server) addTable(ctx context.Context, e *engine.Engine) *Table {
	t := newTable(uuid.NewString(), e, s.store, time.Now())
	players := len(e.Snapshot().Players)

	s.tablesMu.Lock()
	s.tables[t.ID] = t
	s.tablesMu.Unlock()

	t.mu.Lock()
	_ = t.persist(ctx)
	t.mu.Unlock()

	log.Printf("🎴 牌桌 %s 已创建 (%d 名玩家)", t.ID, players)
	return t
}

// getTable 获取牌桌. A table missing from memory is restored from the store.
func (s *Server) getTable(ctx context.Context, id string) (*Table, error) {
	s.tablesMu.RLock()
	t := s.tables[id]
	s.tablesMu.RUnlock()
	if t != nil {
		return t, nil
	}

	if id == "" || s.store == nil || s.isDeleting(id) {
		return nil, apperrors.ErrTableNotFound
	}
	data, err := s.store.LoadTable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", id, err)
	}
	if data == nil {
		return nil, apperrors.ErrTableNotFound.WithDetail("%s", id)
	}
	e, err := engine.Restore(data.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore table %s: %w", id, err)
	}

	s.tablesMu.Lock()
	defer s.tablesMu.Unlock()
	if existing := s.tables[id]; existing != nil {
		return existing, nil
	}
	if _, ok := s.deleting[id]; ok {
		return nil, apperrors.ErrTableNotFound
	}
	t = newTable(id, e, s.store, time.Unix(data.CreatedAt, 0))
	s.tables[id] = t
	log.Printf("♻️ 牌桌 %s 已从存储恢复", id)
	return t, nil
}

// removeTable 关闭牌桌并从内存和存储中删除. Until the store delete returns,
// getTable treats the id as missing so the table is not reloaded.
func (s *Server) removeTable(ctx context.Context, id string) error {
	s.tablesMu.Lock()
	t := s.tables[id]
	delete(s.tables, id)
	s.deleting[id] = struct{}{}
	s.tablesMu.Unlock()

	defer func() {
		s.tablesMu.Lock()
		delete(s.deleting, id)
		s.tablesMu.Unlock()
	}()

	if t != nil {
		t.mu.Lock()
		t.evicted = true
		t.mu.Unlock()
		t.closeClients()
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.DeleteTable(ctx, id); err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	log.Printf("🗑️ 牌桌 %s 已删除", id)
	return nil
}

func (s *Server) isDeleting(id string) bool {
	s.tablesMu.RLock()
	defer s.tablesMu.RUnlock()
	_, ok := s.deleting[id]
	return ok
}

// TableCount 内存中的牌桌数
func (s *Server) TableCount() int {
	s.tablesMu.RLock()
	defer s.tablesMu.RUnlock()
	return len(s.tables)
}

// GetOnlineCount 获取在线连接数
func (s *Server) GetOnlineCount() int {
	s.tablesMu.RLock()
	defer s.tablesMu.RUnlock()
	n := 0
	for _, t := range s.tables {
		n += t.ConnectedCount()
	}
	return n
}
