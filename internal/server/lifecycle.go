package server

import (
	"context"
	"log"
	"runtime"
	"time"
)

const (
	statsInterval   = 30 * time.Second
	cleanupInterval = time.Minute
)

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			log.Printf("📊 [监控] 牌桌: %d | 在线: %d | Goroutines: %d | 内存: %.2f MB",
				s.TableCount(),
				s.GetOnlineCount(),
				runtime.NumGoroutine(),
				float64(m.Alloc)/1024/1024)
		}
	}
}

// cleanupLoop 定期将空闲牌桌移出内存
func (s *Server) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evictIdle(context.Background(), now)
		}
	}
}

// evictIdle saves and drops tables nobody has been seated at for the
// configured idle timeout. They are reloaded from the store on demand.
func (s *Server) evictIdle(ctx context.Context, now time.Time) int {
	idle := s.config.Game.IdleTimeoutDuration()
	if idle <= 0 || s.store == nil {
		return 0
	}

	s.tablesMu.Lock()
	defer s.tablesMu.Unlock()

	evicted := 0
	for id, t := range s.tables {
		if t.evictIfIdle(ctx, now, idle) {
			delete(s.tables, id)
			evicted++
			log.Printf("🧹 牌桌 %s 空闲已移出内存", id)
		}
	}
	return evicted
}

// IsShuttingDown 是否正在关闭
func (s *Server) IsShuttingDown() bool {
	return s.shuttingDown.Load()
}

// Shutdown 优雅关闭服务器: stop accepting tables and connections, save
// every table, then close connections and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.closeOnce.Do(func() { close(s.done) })

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.tablesMu.RLock()
	tables := make([]*Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	s.tablesMu.RUnlock()

	for _, t := range tables {
		t.mu.Lock()
		_ = t.persist(ctx)
		t.mu.Unlock()
		t.closeClients()
	}

	if s.redis != nil {
		_ = s.redis.Close()
	}

	log.Printf("服务器已关闭 (%d 个牌桌已保存)", len(tables))
	return err
}
