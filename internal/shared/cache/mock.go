// Package cache 缓存层 mock 实现
package cache

import (
	"context"

	"raktkosh/internal/shared/model"
)

// ============================================================================
// NoOpCache - 空操作的 Cache 实现（未配置 Redis 时使用）
// ============================================================================

// NoOpCache 是一个不做任何操作的 Cache 实现
// Get 永远未命中，调用方每次都回源重算
type NoOpCache struct{}

// NewNoOpCache 创建 NoOpCache 实例
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Close 关闭缓存
func (c *NoOpCache) Close() error {
	return nil
}

func (c *NoOpCache) GetAvailabilitySummary(ctx context.Context) (*model.AvailabilitySummary, error) {
	return nil, nil
}

func (c *NoOpCache) SetAvailabilitySummary(ctx context.Context, summary *model.AvailabilitySummary) error {
	return nil
}

func (c *NoOpCache) InvalidateAvailabilitySummary(ctx context.Context) error {
	return nil
}

// 确保 NoOpCache 实现了 Cache 接口
var _ Cache = (*NoOpCache)(nil)
