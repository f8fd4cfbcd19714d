package mongostore

import (
	"context"
	"time"

	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// RequestStore
// ============================================================================

func (s *Store) CreateRequest(ctx context.Context, req *model.BloodRequest) error {
	return insertOne(ctx, s.col(ColRequests), req)
}

func (s *Store) GetRequest(ctx context.Context, id string) (*model.BloodRequest, error) {
	return findOne[model.BloodRequest](ctx, s.col(ColRequests), bson.D{{Key: "_id", Value: id}})
}

// ListRequests 按可选条件过滤（逻辑 AND），最新创建的在前
func (s *Store) ListRequests(ctx context.Context, filter storage.RequestFilter) ([]*model.BloodRequest, error) {
	query := bson.D{}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	if filter.BloodGroup != "" {
		query = append(query, bson.E{Key: "blood_group", Value: filter.BloodGroup})
	}
	if filter.Urgency != "" {
		query = append(query, bson.E{Key: "urgency", Value: filter.Urgency})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.BloodRequest](ctx, s.col(ColRequests), query, opts)
}

// ListUrgentRequests 紧急视图：urgency ∈ {high, critical} 且 pending
//
// 排序在内存中按 Urgency.Rank 完成：urgency 是字符串字段，
// 数据库端字典序排序会把 "high" 排在 "critical" 前面。
func (s *Store) ListUrgentRequests(ctx context.Context) ([]*model.BloodRequest, error) {
	requests, err := findMany[model.BloodRequest](ctx, s.col(ColRequests), bson.D{
		{Key: "urgency", Value: bson.D{{Key: "$in", Value: bson.A{model.UrgencyHigh, model.UrgencyCritical}}}},
		{Key: "status", Value: model.RequestStatusPending},
	})
	if err != nil {
		return nil, err
	}
	model.SortByUrgency(requests)
	return requests, nil
}

func (s *Store) UpdateRequest(ctx context.Context, req *model.BloodRequest) error {
	return replaceByID(ctx, s.col(ColRequests), req.ID, req)
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	return updateFields(ctx, s.col(ColRequests), id, bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: time.Now()},
	})
}
