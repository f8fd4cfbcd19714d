package auth

import (
	"log"
	"net/http"
	"strings"

	"raktkosh/internal/shared/storage"
)

// 免认证路由白名单（前缀匹配）
var publicPrefixes = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/verify/",
	"/api/v1/auth/forgot-password",
	"/api/v1/auth/reset-password/",
	"/api/v1/compatibility/",
	"/health",
	"/metrics",
}

// isPublicRoute 判断请求是否免认证
//
// 献血者登记和血液请求提交对公众开放（原系统允许未登录提交），
// 全部只读 GET 同样开放；写操作（库存替换、状态流转等）需要登录。
func isPublicRoute(method, path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if method == http.MethodGet &&
		(strings.HasPrefix(path, "/api/v1/donors") ||
			strings.HasPrefix(path, "/api/v1/requests") ||
			strings.HasPrefix(path, "/api/v1/bloodbanks")) {
		return true
	}
	if method == http.MethodPost && (path == "/api/v1/donors" || path == "/api/v1/requests") {
		return true
	}
	return false
}

// Middleware 创建 JWT 认证中间件
//
// 如果 cfg.Enabled() == false，直接放行所有请求（无认证模式）。
// token 只携带 subject，用户邮箱与角色按 subject 回查数据库，
// 被删除的账号即使持有未过期 token 也会被拒绝。
func Middleware(cfg Config, store storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 无认证模式：直接放行
			if !cfg.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			// 公开路由：直接放行
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 提取 Bearer Token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			// 解析 JWT
			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				log.Printf("[auth] token parse error: %v", err)
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			// 回查用户
			u, err := store.GetUserByID(r.Context(), claims.Subject)
			if err != nil {
				log.Printf("[auth] resolve user error: %v", err)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if u == nil {
				http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
				return
			}

			user := &AuthUser{ID: u.ID, Email: u.Email, Role: u.Role}
			next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), user)))
		})
	}
}
