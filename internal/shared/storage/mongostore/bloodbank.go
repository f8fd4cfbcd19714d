package mongostore

import (
	"context"
	"regexp"
	"time"

	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// BloodBankStore
// ============================================================================

func (s *Store) CreateBloodBank(ctx context.Context, bank *model.BloodBank) error {
	return insertOne(ctx, s.col(ColBloodBanks), bank)
}

func (s *Store) GetBloodBank(ctx context.Context, id string) (*model.BloodBank, error) {
	return findOne[model.BloodBank](ctx, s.col(ColBloodBanks), bson.D{{Key: "_id", Value: id}})
}

// ListBloodBanks 列出活跃血库
//
// state/city 为大小写不敏感子串匹配（$regex + "i"，模式做字面量转义）；
// 血型过滤在城市/州过滤之后于内存中进行，只保留该血型库存 > 0 的血库。
func (s *Store) ListBloodBanks(ctx context.Context, filter storage.BankFilter) ([]*model.BloodBank, error) {
	query := bson.D{{Key: "is_active", Value: true}}
	if filter.State != "" {
		query = append(query, bson.E{Key: "state", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(filter.State)},
			{Key: "$options", Value: "i"},
		}})
	}
	if filter.City != "" {
		query = append(query, bson.E{Key: "city", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(filter.City)},
			{Key: "$options", Value: "i"},
		}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	banks, err := findMany[model.BloodBank](ctx, s.col(ColBloodBanks), query, opts)
	if err != nil {
		return nil, err
	}

	if filter.BloodGroup != "" {
		filtered := banks[:0]
		for _, bank := range banks {
			if bank.BloodInventory[filter.BloodGroup] > 0 {
				filtered = append(filtered, bank)
			}
		}
		banks = filtered
	}
	return banks, nil
}

func (s *Store) ListActiveBloodBanks(ctx context.Context) ([]*model.BloodBank, error) {
	return findMany[model.BloodBank](ctx, s.col(ColBloodBanks),
		bson.D{{Key: "is_active", Value: true}})
}

// ReplaceInventory 整体替换库存对象并返回更新后的血库
// 无版本校验，并发替换为 last-writer-wins
func (s *Store) ReplaceInventory(ctx context.Context, id string, inventory map[model.BloodGroup]int) (*model.BloodBank, error) {
	if err := updateFields(ctx, s.col(ColBloodBanks), id, bson.D{
		{Key: "blood_inventory", Value: inventory},
		{Key: "updated_at", Value: time.Now()},
	}); err != nil {
		return nil, err
	}
	bank, err := s.GetBloodBank(ctx, id)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, storage.ErrNotFound
	}
	return bank, nil
}
