// Package server 提供 HTTP API 处理器
//
// 本包是所有 HTTP 接口的入口，包括：
//   - 认证接口（auth 包）
//   - 献血者接口（donor 包）
//   - 血液请求接口（request 包）
//   - 血库与库存接口（bloodbank 包）
//
// 文件组织：
//   - common.go: 通用工具函数和 Handler 定义
//   - handler.go: 路由配置与中间件
//   - metrics.go: Prometheus 指标
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/shared/cache"
	"raktkosh/internal/shared/objstore"
	"raktkosh/internal/shared/storage"
	"raktkosh/pkg/logging"
)

// Handler API 处理器
//
// 依赖说明：
//   - store: 文档存储层（必需）
//   - summaryCache: 可用量汇总缓存（可选，未配置 Redis 时为 NoOp）
//   - avatars: 头像对象存储（可选，未配置 MinIO 时为 nil）
type Handler struct {
	store        storage.PersistentStore
	summaryCache cache.SummaryCache
	avatars      *objstore.Client
	authCfg      auth.Config
	metrics      *Metrics
	logger       *logging.Logger
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.PersistentStore, summaryCache cache.SummaryCache, avatars *objstore.Client, authCfg auth.Config) *Handler {
	if summaryCache == nil {
		summaryCache = cache.NewNoOpCache()
	}
	return &Handler{
		store:        store,
		summaryCache: summaryCache,
		avatars:      avatars,
		authCfg:      authCfg,
		metrics:      NewMetrics("raktkosh"),
		logger:       logging.Default("api-server"),
	}
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// accessLogMiddleware 记录每个请求的结构化访问日志
func (h *Handler) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		h.logger.HTTPRequestLog(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), r.RemoteAddr)
	})
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
