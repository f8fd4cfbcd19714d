package mongostore

import (
	"context"

	"raktkosh/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// DonorStore
// ============================================================================

func (s *Store) CreateDonor(ctx context.Context, donor *model.Donor) error {
	return insertOne(ctx, s.col(ColDonors), donor)
}

func (s *Store) GetDonor(ctx context.Context, id string) (*model.Donor, error) {
	return findOne[model.Donor](ctx, s.col(ColDonors), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListActiveDonors(ctx context.Context) ([]*model.Donor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Donor](ctx, s.col(ColDonors),
		bson.D{{Key: "is_active", Value: true}}, opts)
}

// SearchDonorsByBloodGroup 精确匹配血型的活跃献血者
// 搜索不做兼容血型扩展，兼容展示由 model.CompatibleDonorGroups 单独提供
func (s *Store) SearchDonorsByBloodGroup(ctx context.Context, group model.BloodGroup) ([]*model.Donor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Donor](ctx, s.col(ColDonors), bson.D{
		{Key: "blood_group", Value: group},
		{Key: "is_active", Value: true},
	}, opts)
}

func (s *Store) UpdateDonor(ctx context.Context, donor *model.Donor) error {
	return replaceByID(ctx, s.col(ColDonors), donor.ID, donor)
}
