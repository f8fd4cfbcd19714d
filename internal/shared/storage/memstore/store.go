// Package memstore 提供内存版 PersistentStore
//
// 用于 handler 单元测试和无数据库的本地开发，语义与 mongostore 对齐：
// email 唯一性、过滤条件、排序规则保持一致。并发安全由 RWMutex 保证。
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"
)

// Store 内存存储
type Store struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	donors   map[string]*model.Donor
	requests map[string]*model.BloodRequest
	banks    map[string]*model.BloodBank
}

// NewStore 创建内存存储实例
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		donors:   make(map[string]*model.Donor),
		requests: make(map[string]*model.BloodRequest),
		banks:    make(map[string]*model.BloodBank),
	}
}

// Close 实现 PersistentStore
func (s *Store) Close() error { return nil }

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return storage.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id], nil
}

func (s *Store) GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ResetPasswordToken != "" && u.ResetPasswordToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) RecordLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	t := at
	u.LastLogin = &t
	u.LoginCount++
	u.UpdatedAt = at
	return nil
}

// ============================================================================
// DonorStore
// ============================================================================

func (s *Store) CreateDonor(ctx context.Context, donor *model.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.donors {
		if d.Email == donor.Email {
			return storage.ErrDuplicate
		}
	}
	s.donors[donor.ID] = donor
	return nil
}

func (s *Store) GetDonor(ctx context.Context, id string) (*model.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.donors[id], nil
}

func (s *Store) ListActiveDonors(ctx context.Context) ([]*model.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	donors := make([]*model.Donor, 0, len(s.donors))
	for _, d := range s.donors {
		if d.IsActive {
			donors = append(donors, d)
		}
	}
	sortDonorsNewestFirst(donors)
	return donors, nil
}

func (s *Store) SearchDonorsByBloodGroup(ctx context.Context, group model.BloodGroup) ([]*model.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	donors := []*model.Donor{}
	for _, d := range s.donors {
		if d.IsActive && d.BloodGroup == group {
			donors = append(donors, d)
		}
	}
	sortDonorsNewestFirst(donors)
	return donors, nil
}

func (s *Store) UpdateDonor(ctx context.Context, donor *model.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donors[donor.ID]; !ok {
		return storage.ErrNotFound
	}
	s.donors[donor.ID] = donor
	return nil
}

func sortDonorsNewestFirst(donors []*model.Donor) {
	sort.Slice(donors, func(i, j int) bool {
		return donors[i].CreatedAt.After(donors[j].CreatedAt)
	})
}

// ============================================================================
// RequestStore
// ============================================================================

func (s *Store) CreateRequest(ctx context.Context, req *model.BloodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = req
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (*model.BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests[id], nil
}

func (s *Store) ListRequests(ctx context.Context, filter storage.RequestFilter) ([]*model.BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	requests := []*model.BloodRequest{}
	for _, r := range s.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.BloodGroup != "" && r.BloodGroup != filter.BloodGroup {
			continue
		}
		if filter.Urgency != "" && r.Urgency != filter.Urgency {
			continue
		}
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (s *Store) ListUrgentRequests(ctx context.Context) ([]*model.BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	requests := []*model.BloodRequest{}
	for _, r := range s.requests {
		if r.Status != model.RequestStatusPending {
			continue
		}
		if r.Urgency != model.UrgencyHigh && r.Urgency != model.UrgencyCritical {
			continue
		}
		requests = append(requests, r)
	}
	model.SortByUrgency(requests)
	return requests, nil
}

func (s *Store) UpdateRequest(ctx context.Context, req *model.BloodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return storage.ErrNotFound
	}
	s.requests[req.ID] = req
	return nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return storage.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

// ============================================================================
// BloodBankStore
// ============================================================================

func (s *Store) CreateBloodBank(ctx context.Context, bank *model.BloodBank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[bank.ID] = bank
	return nil
}

func (s *Store) GetBloodBank(ctx context.Context, id string) (*model.BloodBank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banks[id], nil
}

func (s *Store) ListBloodBanks(ctx context.Context, filter storage.BankFilter) ([]*model.BloodBank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	banks := []*model.BloodBank{}
	for _, b := range s.banks {
		if !b.IsActive {
			continue
		}
		if filter.State != "" && !containsFold(b.State, filter.State) {
			continue
		}
		if filter.City != "" && !containsFold(b.City, filter.City) {
			continue
		}
		if filter.BloodGroup != "" && b.BloodInventory[filter.BloodGroup] <= 0 {
			continue
		}
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].Name < banks[j].Name })
	return banks, nil
}

func (s *Store) ListActiveBloodBanks(ctx context.Context) ([]*model.BloodBank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	banks := []*model.BloodBank{}
	for _, b := range s.banks {
		if b.IsActive {
			banks = append(banks, b)
		}
	}
	return banks, nil
}

func (s *Store) ReplaceInventory(ctx context.Context, id string, inventory map[model.BloodGroup]int) (*model.BloodBank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.banks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	b.BloodInventory = inventory
	b.UpdatedAt = time.Now()
	return b, nil
}

// containsFold 大小写不敏感子串匹配
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// 确保 Store 实现了 PersistentStore 接口
var _ storage.PersistentStore = (*Store)(nil)
