package repository

import (
	"context"

	"gorm.io/gorm"

	"ai-counsellor/internal/model"
)

// ChatRepository 顾问对话数据访问接口
type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	// ListRecent 返回最近 limit 条消息，按时间正序
	ListRecent(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
	ListAll(ctx context.Context, userID string) ([]model.ChatMessage, error)
}

type chatRepo struct {
	db *gorm.DB
}

// NewChatRepo 创建 ChatRepository 实例
func NewChatRepo(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepo) ListRecent(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepo) ListAll(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}
