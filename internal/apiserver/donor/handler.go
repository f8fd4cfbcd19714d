// Package donor 献血者登记、查询与血型兼容展示
package donor

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"
)

// Handler 献血者 HTTP 处理器
type Handler struct {
	store storage.DonorStore
}

// NewHandler 创建献血者处理器
func NewHandler(store storage.DonorStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册献血者相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/donors", h.List)
	mux.HandleFunc("POST /api/v1/donors", h.Create)
	mux.HandleFunc("GET /api/v1/donors/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/donors/{id}", h.Update)
	mux.HandleFunc("GET /api/v1/donors/search/{bloodGroup}", h.SearchByBloodGroup)
	mux.HandleFunc("GET /api/v1/compatibility/{bloodGroup}", h.Compatibility)
}

// ============================================================================
// 请求类型
// ============================================================================

type donorRequest struct {
	FirstName        string                 `json:"firstName"`
	LastName         string                 `json:"lastName"`
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone"`
	DateOfBirth      time.Time              `json:"dateOfBirth"`
	Gender           model.Gender           `json:"gender"`
	BloodGroup       model.BloodGroup       `json:"bloodGroup"`
	Weight           float64                `json:"weight"`
	Address          string                 `json:"address"`
	City             string                 `json:"city"`
	State            string                 `json:"state"`
	Pincode          string                 `json:"pincode"`
	EmergencyContact model.EmergencyContact `json:"emergencyContact"`
}

// validate 校验登记/编辑请求，返回第一个错误的描述
func (r *donorRequest) validate() string {
	switch {
	case r.FirstName == "":
		return "firstName is required"
	case r.LastName == "":
		return "lastName is required"
	case r.Email == "" || !isValidEmail(r.Email):
		return "a valid email is required"
	case r.Phone == "":
		return "phone is required"
	case r.DateOfBirth.IsZero():
		return "dateOfBirth is required"
	case !r.Gender.IsValid():
		return "gender must be one of male, female, other"
	case !r.BloodGroup.IsValid():
		return "invalid blood group"
	case r.Weight < model.MinDonorWeight:
		return "weight must be at least 50 kg"
	}
	return ""
}

// ============================================================================
// Handlers
// ============================================================================

// List 列出活跃献血者，最新登记在前
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	donors, err := h.store.ListActiveDonors(r.Context())
	if err != nil {
		log.Printf("[donor.list] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list donors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"donors": donors, "count": len(donors)})
}

// Create 献血者登记（公开接口）
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req donorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	donor := &model.Donor{
		ID:               generateID("don"),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            strings.ToLower(req.Email),
		Phone:            req.Phone,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Weight:           req.Weight,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		EmergencyContact: req.EmergencyContact,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.store.CreateDonor(r.Context(), donor); err != nil {
		if err == storage.ErrDuplicate {
			writeError(w, http.StatusConflict, "donor with this email already registered")
			return
		}
		log.Printf("[donor.create] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to register donor")
		return
	}

	log.Printf("[donor] Registered: %s %s (%s, %s)", donor.FirstName, donor.LastName, donor.BloodGroup, donor.ID)
	writeJSON(w, http.StatusCreated, donor)
}

// Get 按 ID 查询献血者
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	donor, err := h.store.GetDonor(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("[donor.get] error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if donor == nil {
		writeError(w, http.StatusNotFound, "donor not found")
		return
	}
	writeJSON(w, http.StatusOK, donor)
}

// Update 编辑献血者档案，需要 canEdit 权限
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if !user.Permissions().CanEdit {
		writeError(w, http.StatusForbidden, "edit permission required")
		return
	}

	donor, err := h.store.GetDonor(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("[donor.update] error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if donor == nil {
		writeError(w, http.StatusNotFound, "donor not found")
		return
	}

	var req donorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	donor.FirstName = req.FirstName
	donor.LastName = req.LastName
	donor.Email = strings.ToLower(req.Email)
	donor.Phone = req.Phone
	donor.DateOfBirth = req.DateOfBirth
	donor.Gender = req.Gender
	donor.BloodGroup = req.BloodGroup
	donor.Weight = req.Weight
	donor.Address = req.Address
	donor.City = req.City
	donor.State = req.State
	donor.Pincode = req.Pincode
	donor.EmergencyContact = req.EmergencyContact
	donor.UpdatedAt = time.Now()

	if err := h.store.UpdateDonor(r.Context(), donor); err != nil {
		log.Printf("[donor.update] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update donor")
		return
	}

	writeJSON(w, http.StatusOK, donor)
}

// SearchByBloodGroup 按血型精确匹配活跃献血者
//
// 搜索不扩展到兼容血型，兼容列表由 Compatibility 单独提供。
func (h *Handler) SearchByBloodGroup(w http.ResponseWriter, r *http.Request) {
	group := model.BloodGroup(r.PathValue("bloodGroup"))
	if !group.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid blood group")
		return
	}

	donors, err := h.store.SearchDonorsByBloodGroup(r.Context(), group)
	if err != nil {
		log.Printf("[donor.search] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to search donors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"donors": donors, "count": len(donors)})
}

// Compatibility 返回可以为给定血型供血的血型列表
func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	group := model.BloodGroup(r.PathValue("bloodGroup"))
	if !group.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid blood group")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bloodGroup":     group,
		"compatibleWith": model.CompatibleDonorGroups(group),
	})
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
