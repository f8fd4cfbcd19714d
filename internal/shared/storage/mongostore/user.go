package mongostore

import (
	"context"
	"time"

	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "verification_token", Value: token}})
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "reset_password_token", Value: token}})
}

func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	return replaceByID(ctx, s.col(ColUsers), user.ID, user)
}

// RecordLogin 登录成功后刷新登录时间并递增登录次数
func (s *Store) RecordLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.col(ColUsers).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "last_login", Value: at},
				{Key: "updated_at", Value: at},
			}},
			{Key: "$inc", Value: bson.D{{Key: "login_count", Value: 1}}},
		})
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
