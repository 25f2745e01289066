package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db        *gorm.DB
	User      UserRepository
	Shortlist ShortlistRepository
	Task      TaskRepository
	Chat      ChatRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		User:      NewUserRepo(db),
		Shortlist: NewShortlistRepo(db),
		Task:      NewTaskRepo(db),
		Chat:      NewChatRepo(db),
	}
}

// BeginTx 开启事务，调用方负责 Commit / Rollback
// 未绑定数据库连接时（单元测试中的 mock 聚合）返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		db:        tx,
		User:      NewUserRepo(tx),
		Shortlist: NewShortlistRepo(tx),
		Task:      NewTaskRepo(tx),
		Chat:      NewChatRepo(tx),
	}
}
