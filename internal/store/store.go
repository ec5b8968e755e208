package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// 集合 key，与前端 localStorage 的 key 保持一致
const (
	KeyArtifacts   = "artifacts"
	KeyDatasets    = "datasets"
	KeyProtocols   = "protocols"
	KeyMiningQueue = "miningQueue"
	KeyUsageLogs   = "usageLogs"
)

// Store 按 key 读写整份 JSON 快照
type Store interface {
	// Get 把 key 对应的值解码到 dst；key 不存在时返回 false
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Close() error
}

// MemoryStore 进程内实现，保存编码后的字节，读出的总是新副本
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("解码 %s 失败: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
