package model

import "time"

// 对话角色
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage 顾问对话消息 — 对应 ai_chats
type ChatMessage struct {
	ID               string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           string    `gorm:"type:uuid;not null"                             json:"-"`
	Role             string    `gorm:"type:varchar(20);not null"                      json:"role"`
	Message          string    `gorm:"type:text;not null"                             json:"message"`
	ContextTaskTitle *string   `gorm:"type:varchar(500)"                              json:"context_task_title,omitempty"`
	ContextUniv      *string   `gorm:"column:context_university;type:varchar(255)"    json:"context_university,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ChatMessage) TableName() string { return "ai_chats" }
