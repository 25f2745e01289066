package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ai-counsellor/internal/model"
)

// ShortlistRepository 收藏院校数据访问接口
type ShortlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.ShortlistedUniversity, error)
	GetByName(ctx context.Context, userID, name string) (*model.ShortlistedUniversity, error)
	Create(ctx context.Context, item *model.ShortlistedUniversity) error
	Delete(ctx context.Context, userID, name string) error
	Lock(ctx context.Context, userID, name string, deadline time.Time) error
}

type shortlistRepo struct {
	db *gorm.DB
}

// NewShortlistRepo 创建 ShortlistRepository 实例
func NewShortlistRepo(db *gorm.DB) ShortlistRepository {
	return &shortlistRepo{db: db}
}

func (r *shortlistRepo) ListByUser(ctx context.Context, userID string) ([]model.ShortlistedUniversity, error) {
	var items []model.ShortlistedUniversity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *shortlistRepo) GetByName(ctx context.Context, userID, name string) (*model.ShortlistedUniversity, error) {
	var item model.ShortlistedUniversity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shortlistRepo) Create(ctx context.Context, item *model.ShortlistedUniversity) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *shortlistRepo) Delete(ctx context.Context, userID, name string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Delete(&model.ShortlistedUniversity{}).Error
}

func (r *shortlistRepo) Lock(ctx context.Context, userID, name string, deadline time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShortlistedUniversity{}).
		Where("user_id = ? AND name = ?", userID, name).
		Updates(map[string]interface{}{
			"locked":               true,
			"application_deadline": deadline,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
