package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ai-counsellor/config"
	"ai-counsellor/internal/directory"
	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/llm"
	"ai-counsellor/internal/matching"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/repository"
	pkgerrors "ai-counsellor/pkg/errors"
	"ai-counsellor/pkg/metrics"
)

// UniversityService 院校匹配业务接口
type UniversityService interface {
	// List 返回按模式过滤后的匹配结果；尚无结果时先执行一次重算
	List(ctx context.Context, userID, mode string) (*dto.UniversityListResponse, error)
	// Recalculate 基于当前画像重算并持久化，返回过滤后的结果
	Recalculate(ctx context.Context, userID, mode string) (*dto.UniversityListResponse, error)
	USStats(ctx context.Context) ([]directory.USSchoolStats, error)
	Analyze(ctx context.Context, req *dto.AnalyzeUniversityRequest) (*dto.AnalyzeUniversityResponse, error)
}

type universityService struct {
	cfg       *config.Config
	repo      *repository.Repository
	engine    Recalculator
	stats     USStatsProvider
	completer llm.Completer
	logger    *zap.Logger
}

// NewUniversityService 创建 UniversityService 实例
func NewUniversityService(
	cfg *config.Config,
	repo *repository.Repository,
	engine Recalculator,
	stats USStatsProvider,
	completer llm.Completer,
	logger *zap.Logger,
) UniversityService {
	return &universityService{
		cfg:       cfg,
		repo:      repo,
		engine:    engine,
		stats:     stats,
		completer: completer,
		logger:    logger,
	}
}

func normalizeMode(mode string) string {
	if mode == "" {
		return matching.ModeAI
	}
	return mode
}

func (s *universityService) getUser(ctx context.Context, userID string) (*model.User, error) {
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

func (s *universityService) List(ctx context.Context, userID, mode string) (*dto.UniversityListResponse, error) {
	mode = normalizeMode(mode)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := []matching.CountryMatchGroup(user.UniversityMatches)
	version := user.ProfileVersion
	if len(groups) == 0 {
		groups, version, err = s.recalculate(ctx, user, mode)
		if err != nil {
			return nil, err
		}
	}

	return &dto.UniversityListResponse{
		Mode:           mode,
		ProfileVersion: version,
		Countries:      matching.FilterByMode(groups, user.Profile.PreferredCountries, mode),
	}, nil
}

func (s *universityService) Recalculate(ctx context.Context, userID, mode string) (*dto.UniversityListResponse, error) {
	mode = normalizeMode(mode)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, version, err := s.recalculate(ctx, user, mode)
	if err != nil {
		return nil, err
	}

	return &dto.UniversityListResponse{
		Mode:           mode,
		ProfileVersion: version,
		Countries:      matching.FilterByMode(groups, user.Profile.PreferredCountries, mode),
	}, nil
}

// recalculate 全量重算并以单条 UPDATE 持久化；任一国家失败则不写入
func (s *universityService) recalculate(ctx context.Context, user *model.User, mode string) ([]matching.CountryMatchGroup, int, error) {
	start := time.Now()
	groups, err := s.engine.Recalculate(ctx, user.Profile.ForMatching())
	metrics.RecalculationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues(mode, "error").Inc()
		s.logger.Error("院校匹配重算失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %v", pkgerrors.ErrUpstream, err)
	}

	var expected *int
	if s.cfg.Matching.OptimisticLock {
		v := user.ProfileVersion
		expected = &v
	}

	version, err := s.repo.User.SaveMatches(ctx, user.UserID, groups, mode, expected)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			metrics.RecalculationsTotal.WithLabelValues(mode, "conflict").Inc()
			s.logger.Warn("匹配结果写入冲突", zap.String("user_id", user.UserID), zap.Int("version", user.ProfileVersion))
			return nil, 0, err
		}
		metrics.RecalculationsTotal.WithLabelValues(mode, "error").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		s.logger.Error("保存匹配结果失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, 0, err
	}

	metrics.RecalculationsTotal.WithLabelValues(mode, "success").Inc()
	s.logger.Info("院校匹配重算完成",
		zap.String("user_id", user.UserID),
		zap.String("mode", mode),
		zap.Int("countries", len(groups)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return groups, version, nil
}

func (s *universityService) USStats(ctx context.Context) ([]directory.USSchoolStats, error) {
	if s.stats == nil {
		return nil, pkgerrors.ErrUpstream
	}
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		s.logger.Error("获取美国院校统计失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrUpstream, err)
	}
	return stats, nil
}

func (s *universityService) Analyze(ctx context.Context, req *dto.AnalyzeUniversityRequest) (*dto.AnalyzeUniversityResponse, error) {
	prompt, err := analyzePrompt(req.University, req.Website, req.Profile)
	if err != nil {
		return nil, err
	}

	out, err := complete(ctx, s.completer, "analyze", llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		s.logger.Error("院校分析失败", zap.String("university", req.University), zap.Error(err))
		return nil, err
	}
	return &dto.AnalyzeUniversityResponse{Analysis: out}, nil
}
