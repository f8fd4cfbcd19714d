// Package server 路由配置
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包。
package server

import (
	"net/http"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/apiserver/bloodbank"
	"raktkosh/internal/apiserver/donor"
	"raktkosh/internal/apiserver/request"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET /health - 服务健康检查
//
// 认证 (Auth):
//   - POST /api/v1/auth/register                 - 用户注册
//   - POST /api/v1/auth/login                    - 用户登录
//   - GET  /api/v1/auth/verify/{token}           - 邮箱验证
//   - POST /api/v1/auth/forgot-password          - 发起密码重置
//   - PUT  /api/v1/auth/reset-password/{token}   - 重置密码
//   - GET  /api/v1/auth/me                       - 当前用户
//   - GET/PUT /api/v1/auth/profile               - 资料查询/更新
//   - POST/GET /api/v1/auth/avatar               - 头像上传/下载
//
// 献血者 (Donor):
//   - GET  /api/v1/donors                        - 列出活跃献血者
//   - POST /api/v1/donors                        - 献血者登记
//   - GET  /api/v1/donors/{id}                   - 献血者详情
//   - PUT  /api/v1/donors/{id}                   - 编辑档案（canEdit）
//   - GET  /api/v1/donors/search/{bloodGroup}    - 按血型精确搜索
//   - GET  /api/v1/compatibility/{bloodGroup}    - 兼容血型列表
//
// 血液请求 (BloodRequest):
//   - GET  /api/v1/requests                      - 列表 + 过滤
//   - POST /api/v1/requests                      - 提交请求
//   - GET  /api/v1/requests/urgent               - 紧急视图
//   - GET  /api/v1/requests/{id}                 - 请求详情
//   - PUT  /api/v1/requests/{id}                 - 整体编辑（canEdit）
//   - PUT  /api/v1/requests/{id}/status          - 状态流转（canEdit）
//
// 血库 (BloodBank):
//   - GET  /api/v1/bloodbanks                    - 列表 + 过滤
//   - POST /api/v1/bloodbanks                    - 创建（canManage）
//   - GET  /api/v1/bloodbanks/{id}               - 血库详情
//   - PUT  /api/v1/bloodbanks/{id}/inventory     - 库存整体替换（canManage）
//   - GET  /api/v1/bloodbanks/availability/summary - 全网可用量汇总
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// Auth 接口
	authHandler := auth.NewHandler(h.store, h.authCfg, h.avatars)
	authHandler.RegisterRoutes(mux)

	// Donor 接口
	donorHandler := donor.NewHandler(h.store)
	donorHandler.RegisterRoutes(mux)

	// BloodRequest 接口
	requestHandler := request.NewHandler(h.store)
	requestHandler.RegisterRoutes(mux)

	// BloodBank 接口
	bankHandler := bloodbank.NewHandler(h.store, h.summaryCache)
	bankHandler.RegisterRoutes(mux)

	// 应用指标中间件到 REST API
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用访问日志中间件
	loggedHandler := h.accessLogMiddleware(apiHandler)

	// 应用认证中间件
	authedHandler := auth.Middleware(h.authCfg, h.store)(loggedHandler)

	// 应用 CORS 中间件
	return corsMiddleware(authedHandler)
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
