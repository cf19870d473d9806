package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// GameLog 按房间保存事件流水，只追加、只用于查看
type GameLog interface {
	Append(ctx context.Context, roomID string, entry []byte) error
	List(ctx context.Context, roomID string) ([]json.RawMessage, error)
	Delete(ctx context.Context, roomID string) error
}

func gameLogKey(roomID string) string {
	return fmt.Sprintf("room:%s:log", roomID)
}

// RedisGameLog 每个房间一个 list，保留最近 limit 条，ttl 过期
type RedisGameLog struct {
	rdb   *redis.Client
	limit int64
	ttl   time.Duration
}

func NewRedisGameLog(rdb *redis.Client, limit int, ttl time.Duration) *RedisGameLog {
	return &RedisGameLog{rdb: rdb, limit: int64(limit), ttl: ttl}
}

func (l *RedisGameLog) Append(ctx context.Context, roomID string, entry []byte) error {
	key := gameLogKey(roomID)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, entry)
		pipe.LTrim(ctx, key, -l.limit, -1)
		if l.ttl > 0 {
			pipe.Expire(ctx, key, l.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append game log %s: %w", roomID, err)
	}
	return nil
}

func (l *RedisGameLog) List(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	items, err := l.rdb.LRange(ctx, gameLogKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list game log %s: %w", roomID, err)
	}
	entries := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		entries = append(entries, json.RawMessage(item))
	}
	return entries, nil
}

func (l *RedisGameLog) Delete(ctx context.Context, roomID string) error {
	if err := l.rdb.Del(ctx, gameLogKey(roomID)).Err(); err != nil {
		return fmt.Errorf("delete game log %s: %w", roomID, err)
	}
	return nil
}

// MemoryGameLog 没配置 redis 时使用，进程退出即丢失
type MemoryGameLog struct {
	mu    sync.Mutex
	logs  map[string][]json.RawMessage
	limit int
}

func NewMemoryGameLog(limit int) *MemoryGameLog {
	return &MemoryGameLog{logs: make(map[string][]json.RawMessage), limit: limit}
}

func (l *MemoryGameLog) Append(_ context.Context, roomID string, entry []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := append(l.logs[roomID], json.RawMessage(append([]byte(nil), entry...)))
	if l.limit > 0 && len(entries) > l.limit {
		entries = append([]json.RawMessage(nil), entries[len(entries)-l.limit:]...)
	}
	l.logs[roomID] = entries
	return nil
}

func (l *MemoryGameLog) List(_ context.Context, roomID string) ([]json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]json.RawMessage{}, l.logs[roomID]...), nil
}

func (l *MemoryGameLog) Delete(_ context.Context, roomID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.logs, roomID)
	return nil
}
