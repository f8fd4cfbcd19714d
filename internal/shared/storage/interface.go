// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/（生产）、memstore/（测试）
//   - 初始化时通过依赖注入传入实现
package storage

import (
	"context"
	"time"

	"raktkosh/internal/shared/model"
)

// RequestFilter 血液请求查询过滤条件（各字段为空表示不过滤，逻辑 AND）
type RequestFilter struct {
	Status     model.RequestStatus
	BloodGroup model.BloodGroup
	Urgency    model.Urgency
}

// BankFilter 血库查询过滤条件
//
// State/City 为大小写不敏感的子串匹配；BloodGroup 非空时只保留
// 该血型库存 > 0 的血库。
type BankFilter struct {
	State      string
	City       string
	BloodGroup model.BloodGroup
}

// UserStore 用户存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// DonorStore 献血者存储接口
type DonorStore interface {
	CreateDonor(ctx context.Context, donor *model.Donor) error
	GetDonor(ctx context.Context, id string) (*model.Donor, error)
	ListActiveDonors(ctx context.Context) ([]*model.Donor, error)
	SearchDonorsByBloodGroup(ctx context.Context, group model.BloodGroup) ([]*model.Donor, error)
	UpdateDonor(ctx context.Context, donor *model.Donor) error
}

// RequestStore 血液请求存储接口
type RequestStore interface {
	CreateRequest(ctx context.Context, req *model.BloodRequest) error
	GetRequest(ctx context.Context, id string) (*model.BloodRequest, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]*model.BloodRequest, error)
	ListUrgentRequests(ctx context.Context) ([]*model.BloodRequest, error)
	UpdateRequest(ctx context.Context, req *model.BloodRequest) error
	UpdateRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
}

// BloodBankStore 血库存储接口
type BloodBankStore interface {
	CreateBloodBank(ctx context.Context, bank *model.BloodBank) error
	GetBloodBank(ctx context.Context, id string) (*model.BloodBank, error)
	ListBloodBanks(ctx context.Context, filter BankFilter) ([]*model.BloodBank, error)
	ListActiveBloodBanks(ctx context.Context) ([]*model.BloodBank, error)
	ReplaceInventory(ctx context.Context, id string, inventory map[model.BloodGroup]int) (*model.BloodBank, error)
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	UserStore
	DonorStore
	RequestStore
	BloodBankStore
	Close() error
}
