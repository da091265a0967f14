package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/fireworks/internal/game/state"
)

const (
	// Redis key 前缀
	tableKeyPrefix = "table:"
	tableIndexKey  = "tables"

	// 默认快照过期时间
	defaultTableExpiration = 24 * time.Hour
)

// TableData 牌桌数据（用于 Redis 序列化）
type TableData struct {
	ID        string        `json:"id"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
	Snapshot  state.Payload `json:"snapshot"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisStore 创建 Redis 存储. A non-positive ttl uses the default.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTableExpiration
	}
	return &RedisStore{client: client, expiration: ttl}
}

// SaveTable 保存牌桌快照到 Redis
func (rs *RedisStore) SaveTable(ctx context.Context, data *TableData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal table %s: %w", data.ID, err)
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tableKeyPrefix+data.ID, jsonData, rs.expiration)
		pipe.SAdd(ctx, tableIndexKey, data.ID)
		return nil
	})
	return err
}

// LoadTable 从 Redis 加载牌桌. A missing table is (nil, nil).
func (rs *RedisStore) LoadTable(ctx context.Context, id string) (*TableData, error) {
	data, err := rs.client.Get(ctx, tableKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var table TableData
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("unmarshal table %s: %w", id, err)
	}
	return &table, nil
}

// DeleteTable 从 Redis 删除牌桌
func (rs *RedisStore) DeleteTable(ctx context.Context, id string) error {
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tableKeyPrefix+id)
		pipe.SRem(ctx, tableIndexKey, id)
		return nil
	})
	return err
}

// ListTableIDs 获取所有未过期的牌桌 ID. Index entries whose snapshot has
// expired are pruned on the way.
func (rs *RedisStore) ListTableIDs(ctx context.Context) ([]string, error) {
	ids, err := rs.client.SMembers(ctx, tableIndexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []string{}, nil
	}

	pipe := rs.client.Pipeline()
	exists := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, tableKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	live := make([]string, 0, len(ids))
	var stale []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := rs.client.SRem(ctx, tableIndexKey, stale...).Err(); err != nil {
			return nil, err
		}
	}
	slices.Sort(live)
	return live, nil
}

// SetTableExpiration 设置牌桌过期时间
func (rs *RedisStore) SetTableExpiration(ctx context.Context, id string, expiration time.Duration) error {
	return rs.client.Expire(ctx, tableKeyPrefix+id, expiration).Err()
}
