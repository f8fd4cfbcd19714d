// Package bloodbank 血库管理、库存替换与全网可用量汇总
package bloodbank

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/shared/cache"
	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"
)

// Handler 血库 HTTP 处理器
type Handler struct {
	store storage.BloodBankStore
	cache cache.SummaryCache
}

// NewHandler 创建血库处理器
// cache 为可选依赖，未配置 Redis 时传 cache.NewNoOpCache()
func NewHandler(store storage.BloodBankStore, summaryCache cache.SummaryCache) *Handler {
	if summaryCache == nil {
		summaryCache = cache.NewNoOpCache()
	}
	return &Handler{store: store, cache: summaryCache}
}

// RegisterRoutes 注册血库相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/bloodbanks", h.List)
	mux.HandleFunc("POST /api/v1/bloodbanks", h.Create)
	mux.HandleFunc("GET /api/v1/bloodbanks/availability/summary", h.AvailabilitySummary)
	mux.HandleFunc("GET /api/v1/bloodbanks/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/bloodbanks/{id}/inventory", h.ReplaceInventory)
}

// ============================================================================
// 请求类型
// ============================================================================

type bankRequest struct {
	Name           string                   `json:"name"`
	Address        string                   `json:"address"`
	City           string                   `json:"city"`
	State          string                   `json:"state"`
	Pincode        string                   `json:"pincode"`
	Phone          string                   `json:"phone"`
	Email          string                   `json:"email"`
	License        string                   `json:"license"`
	BloodInventory map[model.BloodGroup]int `json:"bloodInventory"`
	OperatingHours model.OperatingHours     `json:"operatingHours"`
	Facilities     []string                 `json:"facilities"`
}

func (r *bankRequest) validate() string {
	switch {
	case r.Name == "":
		return "name is required"
	case r.City == "":
		return "city is required"
	case r.State == "":
		return "state is required"
	case r.Phone == "":
		return "phone is required"
	}
	return validateInventory(r.BloodInventory)
}

type inventoryRequest struct {
	BloodInventory map[model.BloodGroup]int `json:"bloodInventory"`
}

// validateInventory 库存键必须是合法血型，数量非负
func validateInventory(inv map[model.BloodGroup]int) string {
	for group, units := range inv {
		if !group.IsValid() {
			return "invalid blood group in inventory: " + string(group)
		}
		if units < 0 {
			return "inventory units must be non-negative"
		}
	}
	return ""
}

// ============================================================================
// Handlers
// ============================================================================

// List 列出活跃血库
// state/city 为大小写不敏感子串匹配，bloodGroup 只保留该血型库存 > 0 的血库
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.BankFilter{
		State:      q.Get("state"),
		City:       q.Get("city"),
		BloodGroup: model.BloodGroup(q.Get("bloodGroup")),
	}
	if filter.BloodGroup != "" && !filter.BloodGroup.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid bloodGroup filter")
		return
	}

	banks, err := h.store.ListBloodBanks(r.Context(), filter)
	if err != nil {
		log.Printf("[bloodbank.list] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list blood banks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bloodBanks": banks, "count": len(banks)})
}

// Create 创建血库，需要 canManage 权限
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if !user.Permissions().CanManage {
		writeError(w, http.StatusForbidden, "manage permission required")
		return
	}

	var req bankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	inventory := req.BloodInventory
	if inventory == nil {
		inventory = map[model.BloodGroup]int{}
	}

	now := time.Now()
	bank := &model.BloodBank{
		ID:             generateID("bank"),
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		Phone:          req.Phone,
		Email:          req.Email,
		License:        req.License,
		BloodInventory: inventory,
		OperatingHours: req.OperatingHours,
		Facilities:     req.Facilities,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.store.CreateBloodBank(r.Context(), bank); err != nil {
		log.Printf("[bloodbank.create] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create blood bank")
		return
	}

	// 新血库影响全网汇总
	if err := h.cache.InvalidateAvailabilitySummary(r.Context()); err != nil {
		log.Printf("[bloodbank.create] cache invalidate error: %v", err)
	}

	log.Printf("[bloodbank] Created: %s (%s, %s)", bank.Name, bank.City, bank.ID)
	writeJSON(w, http.StatusCreated, bank)
}

// Get 按 ID 查询血库
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bank, err := h.store.GetBloodBank(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("[bloodbank.get] error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if bank == nil {
		writeError(w, http.StatusNotFound, "blood bank not found")
		return
	}
	writeJSON(w, http.StatusOK, bank)
}

// ReplaceInventory 整体替换库存，需要 canManage 权限
//
// 按业务约定替换整个库存对象而非增量调整；并发替换为 last-writer-wins。
func (h *Handler) ReplaceInventory(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if !user.Permissions().CanManage {
		writeError(w, http.StatusForbidden, "manage permission required")
		return
	}

	var req inventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BloodInventory == nil {
		writeError(w, http.StatusBadRequest, "bloodInventory is required")
		return
	}
	if msg := validateInventory(req.BloodInventory); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	bank, err := h.store.ReplaceInventory(r.Context(), r.PathValue("id"), req.BloodInventory)
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "blood bank not found")
			return
		}
		log.Printf("[bloodbank.inventory] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update inventory")
		return
	}

	if err := h.cache.InvalidateAvailabilitySummary(r.Context()); err != nil {
		log.Printf("[bloodbank.inventory] cache invalidate error: %v", err)
	}

	log.Printf("[bloodbank] Inventory replaced: %s by %s", bank.ID, user.Email)
	writeJSON(w, http.StatusOK, bank)
}

// AvailabilitySummary 全网血液可用量汇总（cache-aside，60s TTL）
func (h *Handler) AvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	if summary, err := h.cache.GetAvailabilitySummary(r.Context()); err != nil {
		// 缓存故障退化为直接回源
		log.Printf("[bloodbank.summary] cache read error: %v", err)
	} else if summary != nil {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	banks, err := h.store.ListActiveBloodBanks(r.Context())
	if err != nil {
		log.Printf("[bloodbank.summary] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	summary := model.SummarizeAvailability(banks)
	if err := h.cache.SetAvailabilitySummary(r.Context(), summary); err != nil {
		log.Printf("[bloodbank.summary] cache write error: %v", err)
	}

	writeJSON(w, http.StatusOK, summary)
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

func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
