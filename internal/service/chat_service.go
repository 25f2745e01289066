package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/llm"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/repository"
)

// chatWindow 发送给大模型的最近消息条数
const chatWindow = 6

// ChatService 顾问对话业务接口
type ChatService interface {
	Send(ctx context.Context, userID string, req *dto.ChatRequest) (string, error)
	// History 返回全部对话；首次访问时生成一次欢迎语
	History(ctx context.Context, userID string) ([]model.ChatMessage, error)
}

type chatService struct {
	repo      *repository.Repository
	completer llm.Completer
	logger    *zap.Logger
}

// NewChatService 创建 ChatService 实例
func NewChatService(repo *repository.Repository, completer llm.Completer, logger *zap.Logger) ChatService {
	return &chatService{repo: repo, completer: completer, logger: logger}
}

func (s *chatService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *chatService) Send(ctx context.Context, userID string, req *dto.ChatRequest) (string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}

	msg := &model.ChatMessage{
		UserID:  userID,
		Role:    model.ChatRoleUser,
		Message: strings.TrimSpace(req.Message),
	}
	if req.Context != nil {
		if t := strings.TrimSpace(req.Context.TaskTitle); t != "" {
			msg.ContextTaskTitle = &t
		}
		if u := strings.TrimSpace(req.Context.University); u != "" {
			msg.ContextUniv = &u
		}
	}
	if err := s.repo.Chat.Create(ctx, msg); err != nil {
		s.logger.Error("保存用户消息失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	recent, err := s.repo.Chat.ListRecent(ctx, userID, chatWindow)
	if err != nil {
		s.logger.Error("查询对话历史失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	system, err := chatSystemPrompt(user.Profile)
	if err != nil {
		return "", err
	}
	messages := make([]llm.Message, 0, len(recent)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, m := range recent {
		role := llm.RoleUser
		if m.Role == model.ChatRoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Message})
	}

	reply, err := complete(ctx, s.completer, "chat", llm.ChatRequest{Messages: messages})
	if err != nil {
		s.logger.Error("顾问回复失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	if err := s.repo.Chat.Create(ctx, &model.ChatMessage{
		UserID:  userID,
		Role:    model.ChatRoleAssistant,
		Message: reply,
	}); err != nil {
		s.logger.Error("保存顾问回复失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	return reply, nil
}

func (s *chatService) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	chats, err := s.repo.Chat.ListAll(ctx, userID)
	if err != nil {
		s.logger.Error("查询对话历史失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(chats) > 0 {
		return chats, nil
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	prompt, err := introPrompt(user.Profile)
	if err != nil {
		return nil, err
	}

	intro, err := complete(ctx, s.completer, "intro", llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleSystem, Content: prompt}},
	})
	if err != nil {
		s.logger.Error("生成欢迎语失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	msg := model.ChatMessage{UserID: userID, Role: model.ChatRoleAssistant, Message: intro}
	if err := s.repo.Chat.Create(ctx, &msg); err != nil {
		s.logger.Error("保存欢迎语失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return []model.ChatMessage{msg}, nil
}
