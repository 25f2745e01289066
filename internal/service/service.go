package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ai-counsellor/config"
	"ai-counsellor/internal/directory"
	"ai-counsellor/internal/llm"
	"ai-counsellor/internal/matching"
	"ai-counsellor/internal/repository"
	"ai-counsellor/pkg/jwt"
	"ai-counsellor/pkg/redis"
)

// TokenBlacklist 注销 Token 的存储
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Recalculator 院校匹配重算（由 matching.Engine 实现）
type Recalculator interface {
	Recalculate(ctx context.Context, profile matching.Profile) ([]matching.CountryMatchGroup, error)
}

// USStatsProvider 美国院校统计数据源（由 directory.ScorecardClient 实现）
type USStatsProvider interface {
	Stats(ctx context.Context) ([]directory.USSchoolStats, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Profile    ProfileService
	University UniversityService
	Shortlist  ShortlistService
	Task       TaskService
	Chat       ChatService

	// Background 请求之外的后台任务（如问卷提交后的重算），关闭时需 Wait
	Background *Background
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时注销仅在客户端生效）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	engine Recalculator,
	stats USStatsProvider,
	completer llm.Completer,
	logger *zap.Logger,
) *Service {
	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	university := NewUniversityService(cfg, repo, engine, stats, completer, logger)
	bg := NewBackground()

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Profile:    NewProfileService(repo, university, bg, logger),
		University: university,
		Shortlist:  NewShortlistService(repo, logger),
		Task:       NewTaskService(repo, completer, logger),
		Chat:       NewChatService(repo, completer, logger),
		Background: bg,
	}
}
