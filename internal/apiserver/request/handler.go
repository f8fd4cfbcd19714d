// Package request 血液请求的提交、查询与状态流转
package request

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"
)

// Handler 血液请求 HTTP 处理器
type Handler struct {
	store storage.RequestStore
}

// NewHandler 创建血液请求处理器
func NewHandler(store storage.RequestStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册血液请求相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/requests", h.List)
	mux.HandleFunc("POST /api/v1/requests", h.Create)
	mux.HandleFunc("GET /api/v1/requests/urgent", h.ListUrgent)
	mux.HandleFunc("GET /api/v1/requests/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/requests/{id}", h.Update)
	mux.HandleFunc("PUT /api/v1/requests/{id}/status", h.UpdateStatus)
}

// ============================================================================
// 请求类型
// ============================================================================

type bloodRequestInput struct {
	PatientName    string                `json:"patientName"`
	BloodGroup     model.BloodGroup      `json:"bloodGroup"`
	UnitsRequired  int                   `json:"unitsRequired"`
	Urgency        model.Urgency         `json:"urgency"`
	Hospital       model.HospitalContact `json:"hospital"`
	RequesterName  string                `json:"requesterName"`
	RequesterPhone string                `json:"requesterPhone"`
	RequesterEmail string                `json:"requesterEmail"`
	RequiredBy     time.Time             `json:"requiredBy"`
	Notes          string                `json:"notes"`
}

// validate 按固定顺序校验，返回第一个失败字段的描述
func (in *bloodRequestInput) validate(now time.Time) string {
	switch {
	case in.PatientName == "":
		return "patientName is required"
	case !in.BloodGroup.IsValid():
		return "bloodGroup must be a valid blood group"
	case in.UnitsRequired < 1:
		return "unitsRequired must be at least 1"
	case !in.Urgency.IsValid():
		return "urgency must be one of low, medium, high, critical"
	case in.RequiredBy.IsZero():
		return "requiredBy is required"
	case !in.RequiredBy.After(now):
		return "requiredBy must be in the future"
	case in.RequesterName == "":
		return "requesterName is required"
	case in.RequesterPhone == "":
		return "requesterPhone is required"
	case in.RequesterEmail == "":
		return "requesterEmail is required"
	}
	return ""
}

type statusInput struct {
	Status model.RequestStatus `json:"status"`
}

// ============================================================================
// Handlers
// ============================================================================

// List 列出血液请求，支持 status/bloodGroup/urgency 精确过滤（逻辑 AND）
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.RequestFilter{
		Status:     model.RequestStatus(q.Get("status")),
		BloodGroup: model.BloodGroup(q.Get("bloodGroup")),
		Urgency:    model.Urgency(q.Get("urgency")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if filter.BloodGroup != "" && !filter.BloodGroup.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid bloodGroup filter")
		return
	}
	if filter.Urgency != "" && !filter.Urgency.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid urgency filter")
		return
	}

	requests, err := h.store.ListRequests(r.Context(), filter)
	if err != nil {
		log.Printf("[request.list] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests, "count": len(requests)})
}

// ListUrgent 紧急视图：urgency ∈ {high, critical} 且 pending，
// 按紧急程度降序，同级最新在前
func (h *Handler) ListUrgent(w http.ResponseWriter, r *http.Request) {
	requests, err := h.store.ListUrgentRequests(r.Context())
	if err != nil {
		log.Printf("[request.urgent] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list urgent requests")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests, "count": len(requests)})
}

// Create 提交血液请求（公开接口）
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in bloodRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := in.validate(time.Now()); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	req := &model.BloodRequest{
		ID:             generateID("req"),
		PatientName:    in.PatientName,
		BloodGroup:     in.BloodGroup,
		UnitsRequired:  in.UnitsRequired,
		Urgency:        in.Urgency,
		Hospital:       in.Hospital,
		RequesterName:  in.RequesterName,
		RequesterPhone: in.RequesterPhone,
		RequesterEmail: in.RequesterEmail,
		RequiredBy:     in.RequiredBy,
		Status:         model.RequestStatusPending,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.store.CreateRequest(r.Context(), req); err != nil {
		log.Printf("[request.create] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create request")
		return
	}

	log.Printf("[request] Created: %s (%s, %s, %d units)", req.ID, req.BloodGroup, req.Urgency, req.UnitsRequired)
	writeJSON(w, http.StatusCreated, req)
}

// Get 按 ID 查询血液请求
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.store.GetRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("[request.get] error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Update 整体编辑血液请求，需要 canEdit 权限；状态不在此接口修改
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if !user.Permissions().CanEdit {
		writeError(w, http.StatusForbidden, "edit permission required")
		return
	}

	req, err := h.store.GetRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("[request.update] error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}

	var in bloodRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := in.validate(time.Now()); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	req.PatientName = in.PatientName
	req.BloodGroup = in.BloodGroup
	req.UnitsRequired = in.UnitsRequired
	req.Urgency = in.Urgency
	req.Hospital = in.Hospital
	req.RequesterName = in.RequesterName
	req.RequesterPhone = in.RequesterPhone
	req.RequesterEmail = in.RequesterEmail
	req.RequiredBy = in.RequiredBy
	req.Notes = in.Notes
	req.UpdatedAt = time.Now()

	if err := h.store.UpdateRequest(r.Context(), req); err != nil {
		log.Printf("[request.update] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update request")
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// UpdateStatus 状态流转，需要 canEdit 权限
//
// 状态机违例（终态再迁移、非法目标状态）→ 409。
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.GetAuthUser(r.Context())
	if !user.Permissions().CanEdit {
		writeError(w, http.StatusForbidden, "edit permission required")
		return
	}

	req, err := h.store.GetRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("[request.status] error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}

	var in statusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := model.CanTransition(req.Status, in.Status); err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, "invalid status transition")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.store.UpdateRequestStatus(r.Context(), req.ID, in.Status); err != nil {
		log.Printf("[request.status] error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	req.Status = in.Status
	req.UpdatedAt = time.Now()

	log.Printf("[request] Status: %s → %s (%s)", req.ID, in.Status, user.Email)
	writeJSON(w, http.StatusOK, req)
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
