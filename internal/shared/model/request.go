package model

import (
	"errors"
	"sort"
	"time"
)

// Urgency 血液请求紧急程度
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// IsValid 是否为合法紧急程度
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Rank 紧急程度排序权重，critical(3) > high(2) > medium(1) > low(0)
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// RequestStatus 血液请求状态
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// IsValid 是否为合法状态
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusFulfilled, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminal fulfilled 和 cancelled 为终态
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusFulfilled || s == RequestStatusCancelled
}

// ErrInvalidTransition 请求状态机违例：终态之后不允许任何迁移
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransition 校验状态迁移 from → to
//
// 状态机：pending → fulfilled | cancelled，终态不可再迁移。
func CanTransition(from, to RequestStatus) error {
	if !to.IsValid() {
		return ErrInvalidTransition
	}
	if from.IsTerminal() {
		return ErrInvalidTransition
	}
	return nil
}

// HospitalContact 医院联系信息
type HospitalContact struct {
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// BloodRequest 血液请求
//
// 创建后只通过状态迁移或整体编辑修改，永不删除。
type BloodRequest struct {
	ID            string          `json:"id" bson:"_id"`
	PatientName   string          `json:"patientName" bson:"patient_name"`
	BloodGroup    BloodGroup      `json:"bloodGroup" bson:"blood_group"`
	UnitsRequired int             `json:"unitsRequired" bson:"units_required"` // >= 1
	Urgency       Urgency         `json:"urgency" bson:"urgency"`
	Hospital      HospitalContact `json:"hospital" bson:"hospital"`

	RequesterName  string `json:"requesterName" bson:"requester_name"`
	RequesterPhone string `json:"requesterPhone" bson:"requester_phone"`
	RequesterEmail string `json:"requesterEmail" bson:"requester_email"`

	RequiredBy time.Time     `json:"requiredBy" bson:"required_by"`
	Status     RequestStatus `json:"status" bson:"status"`
	Notes      string        `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// SortByUrgency 按紧急程度降序排序，同级按创建时间倒序（最新在前）
//
// mongostore 和 memstore 的 urgent 视图共用，保证两种存储排序一致。
func SortByUrgency(requests []*BloodRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		ri, rj := requests[i].Urgency.Rank(), requests[j].Urgency.Rank()
		if ri != rj {
			return ri > rj
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
