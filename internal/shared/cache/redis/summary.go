// Package redis 可用量汇总缓存操作
package redis

import (
	"context"
	"encoding/json"
	"errors"

	"raktkosh/internal/shared/cache"
	"raktkosh/internal/shared/model"

	"github.com/redis/go-redis/v9"
)

// GetAvailabilitySummary 读取汇总缓存，未命中返回 (nil, nil)
func (s *Store) GetAvailabilitySummary(ctx context.Context) (*model.AvailabilitySummary, error) {
	data, err := s.client.Get(ctx, cache.KeyAvailabilitySummary).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary model.AvailabilitySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		// 缓存内容损坏按未命中处理，下一次 Set 会覆盖
		return nil, nil
	}
	return &summary, nil
}

// SetAvailabilitySummary 写入汇总缓存并附带 TTL
func (s *Store) SetAvailabilitySummary(ctx context.Context, summary *model.AvailabilitySummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cache.KeyAvailabilitySummary, data, cache.TTLAvailabilitySummary).Err()
}

// InvalidateAvailabilitySummary 删除汇总缓存
// 库存替换和血库创建后调用，保证下一次读取回源重算
func (s *Store) InvalidateAvailabilitySummary(ctx context.Context) error {
	return s.client.Del(ctx, cache.KeyAvailabilitySummary).Err()
}

// 确保 Store 实现了 Cache 接口
var _ cache.Cache = (*Store)(nil)
