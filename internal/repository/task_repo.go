package repository

import (
	"context"

	"gorm.io/gorm"

	"ai-counsellor/internal/model"
)

// TaskRepository 申请任务数据访问接口
type TaskRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.ApplicationTask, error)
	CountByUniversity(ctx context.Context, userID, university string) (int64, error)
	GetByKey(ctx context.Context, userID, university, taskKey string) (*model.ApplicationTask, error)
	// ReplaceForUniversity 删除该院校的旧任务并写入新任务，应在事务连接上调用
	ReplaceForUniversity(ctx context.Context, userID, university string, tasks []model.ApplicationTask) error
	SetCompleted(ctx context.Context, id string, completed bool) error
}

type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) ListByUser(ctx context.Context, userID string) ([]model.ApplicationTask, error) {
	var tasks []model.ApplicationTask
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("university_name ASC, sort_order ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) CountByUniversity(ctx context.Context, userID, university string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ApplicationTask{}).
		Where("user_id = ? AND university_name = ?", userID, university).
		Count(&n).Error
	return n, err
}

func (r *taskRepo) GetByKey(ctx context.Context, userID, university, taskKey string) (*model.ApplicationTask, error) {
	var task model.ApplicationTask
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND university_name = ? AND task_key = ?", userID, university, taskKey).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) ReplaceForUniversity(ctx context.Context, userID, university string, tasks []model.ApplicationTask) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND university_name = ?", userID, university).
		Delete(&model.ApplicationTask{}).Error; err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ApplicationTask{}).
		Where("id = ?", id).
		Update("completed", completed).Error
}
