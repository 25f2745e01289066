package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-counsellor/internal/matching"
	"ai-counsellor/internal/model"
	pkgerrors "ai-counsellor/pkg/errors"
)

// UserRepository 用户文档数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, profile model.StudentProfile, onboardingCompleted bool) error
	// SaveMatches 单条 UPDATE 写入匹配结果、模式与 profile_version+1，返回写入后的版本号；
	// expectedVersion 非 nil 时作为前置条件，不满足返回 ErrOptimisticLock
	SaveMatches(ctx context.Context, userID string, groups []matching.CountryMatchGroup, mode string, expectedVersion *int) (int, error)
	UpdateStage(ctx context.Context, userID, stage string) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, userID string, profile model.StudentProfile, onboardingCompleted bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"profile":              profile,
			"onboarding_completed": onboardingCompleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) SaveMatches(ctx context.Context, userID string, groups []matching.CountryMatchGroup, mode string, expectedVersion *int) (int, error) {
	var saved model.User
	q := r.db.WithContext(ctx).
		Model(&saved).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "profile_version"}}})
	if expectedVersion != nil {
		q = q.Where("user_id = ? AND profile_version = ?", userID, *expectedVersion)
	} else {
		q = q.Where("user_id = ?", userID)
	}

	result := q.Updates(map[string]interface{}{
		"university_matches": model.UniversityMatches(groups),
		"university_mode":    mode,
		"profile_version":    gorm.Expr("profile_version + 1"),
	})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		if expectedVersion != nil {
			return 0, pkgerrors.ErrOptimisticLock
		}
		return 0, gorm.ErrRecordNotFound
	}
	return saved.ProfileVersion, nil
}

func (r *userRepo) UpdateStage(ctx context.Context, userID, stage string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("application_stage", stage).Error
}
