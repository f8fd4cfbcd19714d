package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/objstore"
	"raktkosh/internal/shared/storage"
)

// maxAvatarSize 头像上传大小上限
const maxAvatarSize = 5 << 20 // 5 MB

// Handler 认证 HTTP 处理器
type Handler struct {
	store   storage.UserStore
	cfg     Config
	avatars *objstore.Client // 可为 nil（未配置 MinIO）
}

// NewHandler 创建认证处理器
func NewHandler(store storage.UserStore, cfg Config, avatars *objstore.Client) *Handler {
	return &Handler{store: store, cfg: cfg, avatars: avatars}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/auth/verify/{token}", h.VerifyEmail)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", h.ForgotPassword)
	mux.HandleFunc("PUT /api/v1/auth/reset-password/{token}", h.ResetPassword)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)
	mux.HandleFunc("GET /api/v1/auth/profile", h.GetProfile)
	mux.HandleFunc("PUT /api/v1/auth/profile", h.UpdateProfile)
	mux.HandleFunc("POST /api/v1/auth/avatar", h.UploadAvatar)
	mux.HandleFunc("GET /api/v1/auth/avatar", h.GetAvatar)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type registerRequest struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Phone     string         `json:"phone"`
	Role      model.UserRole `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName   *string            `json:"firstName"`
	LastName    *string            `json:"lastName"`
	Phone       *string            `json:"phone"`
	Profile     *model.Profile     `json:"profile"`
	Preferences *model.Preferences `json:"preferences"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "firstName, lastName, email, password are required")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	role := req.Role
	if role == "" {
		role = model.UserRoleDonor
	}
	if !role.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	email := strings.ToLower(req.Email)

	// 检查邮箱是否已注册
	existing, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[auth.register] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("[auth.register] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	user := &model.User{
		ID:                generateID("usr"),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		Phone:             req.Phone,
		VerificationToken: RandomToken(),
		Preferences:       model.DefaultPreferences(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		// 唯一索引兜底并发注册
		if err == storage.ErrDuplicate {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		log.Printf("[auth.register] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := GenerateToken(h.cfg, user.ID)
	if err != nil {
		log.Printf("[auth.register] GenerateToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] User registered: %s (%s)", user.Email, user.ID)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login 用户登录
//
// 未知邮箱和密码错误返回同一个 401，避免泄露账号是否存在。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		log.Printf("[auth.login] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	now := time.Now()
	if err := h.store.RecordLogin(r.Context(), user.ID, now); err != nil {
		// 登录统计失败不阻断登录
		log.Printf("[auth.login] RecordLogin error: %v", err)
	} else {
		user.LastLogin = &now
		user.LoginCount++
	}

	token, err := GenerateToken(h.cfg, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] User logged in: %s", user.Email)
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// VerifyEmail 邮箱验证
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.store.GetUserByVerificationToken(r.Context(), token)
	if err != nil {
		log.Printf("[auth.verify] GetUserByVerificationToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "invalid verification token")
		return
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = time.Now()
	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		log.Printf("[auth.verify] UpdateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// ForgotPassword 发起密码重置
//
// 重置令牌持久化在用户记录上，1 小时有效；投递由外部系统负责，
// 开发模式下直接回显令牌。
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		log.Printf("[auth.forgot] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "no account with that email")
		return
	}

	token := RandomToken()
	expires := time.Now().Add(1 * time.Hour)
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expires
	user.UpdatedAt = time.Now()
	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		log.Printf("[auth.forgot] UpdateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "password reset token issued",
		"resetToken": token,
	})
}

// ResetPassword 使用重置令牌设置新密码
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	user, err := h.store.GetUserByResetToken(r.Context(), token)
	if err != nil {
		log.Printf("[auth.reset] GetUserByResetToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.ResetPasswordExpires == nil || time.Now().After(*user.ResetPasswordExpires) {
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	user.UpdatedAt = time.Now()
	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		log.Printf("[auth.reset] UpdateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] Password reset: %s", user.Email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Me 获取当前用户信息
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	h.GetProfile(w, r)
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), authUser.ID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile 更新当前用户资料
// 只更新请求中出现的字段，角色和邮箱不可自行修改
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), authUser.ID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Profile != nil {
		if req.Profile.BloodGroup != "" && !req.Profile.BloodGroup.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid blood group")
			return
		}
		avatar := user.Profile.Avatar // 头像只通过上传接口修改
		user.Profile = *req.Profile
		user.Profile.Avatar = avatar
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	user.UpdatedAt = time.Now()

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		log.Printf("[auth.profile] UpdateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar 上传当前用户头像（multipart 字段名 avatar）
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if h.avatars == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()
	if header.Size > maxAvatarSize {
		writeError(w, http.StatusBadRequest, "avatar exceeds 5MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.avatars.UploadAvatar(r.Context(), authUser.ID, file, header.Size, contentType); err != nil {
		log.Printf("[auth.avatar] upload error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), authUser.ID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	user.Profile.Avatar = objstore.AvatarKey(authUser.ID)
	user.UpdatedAt = time.Now()
	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		log.Printf("[auth.avatar] UpdateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatar": user.Profile.Avatar})
}

// GetAvatar 下载当前用户头像
func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r.Context())
	if authUser == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if h.avatars == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage not configured")
		return
	}

	obj, contentType, err := h.avatars.DownloadAvatar(r.Context(), authUser.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "avatar not found")
		return
	}
	defer obj.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	io.Copy(w, obj)
}

// ============================================================================
// Admin Bootstrap
// ============================================================================

// EnsureAdminUser 确保管理员用户存在（启动时调用）
// 如果配置了 adminEmail 且数据库中不存在该用户，则自动创建
func EnsureAdminUser(store storage.UserStore, adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	ctx := context.Background()
	email := strings.ToLower(adminEmail)
	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		log.Printf("[auth] Admin user already exists: %s (%s)", email, existing.ID)
		return nil
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           generateID("usr"),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         model.UserRoleAdmin,
		IsVerified:   true,
		Preferences:  model.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("[auth] Created admin user: %s (%s)", email, user.ID)
	return nil
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
