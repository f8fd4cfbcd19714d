// Package cache 缓存层抽象接口
//
// 提供跨血库聚合结果的短 TTL 缓存，当前由 Redis 实现。
// 缓存永远是可选路径：未配置 Redis 时使用 NoOpCache，功能不受影响。
package cache

import (
	"context"
	"time"

	"raktkosh/internal/shared/model"
)

// ============================================================================
// 缓存接口定义
// ============================================================================

// SummaryCache 血液可用量汇总缓存接口
//
// 汇总遍历全部活跃血库，是读多写少的热点查询。
// Get 未命中返回 (nil, nil)，由调用方回源重算。
type SummaryCache interface {
	GetAvailabilitySummary(ctx context.Context) (*model.AvailabilitySummary, error)
	SetAvailabilitySummary(ctx context.Context, summary *model.AvailabilitySummary) error
	InvalidateAvailabilitySummary(ctx context.Context) error
}

// Cache 缓存组合接口
type Cache interface {
	SummaryCache
	Close() error
}

// ============================================================================
// Key 和 TTL 常量
// ============================================================================

const (
	// KeyAvailabilitySummary 全局汇总只有一个 key
	KeyAvailabilitySummary = "availability_summary"

	// TTLAvailabilitySummary 汇总缓存时长
	// 库存写入会主动失效，TTL 只兜底失效丢失的情况
	TTLAvailabilitySummary = 60 * time.Second
)
