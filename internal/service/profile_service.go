package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/matching"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/repository"
)

var (
	ErrProfileFieldMissing      = errors.New("缺少必填字段")
	ErrPreferredCountryRequired = errors.New("至少需要选择一个意向国家")
)

// ProfileService 学生画像业务接口
type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.StudentProfile, error)
	// Onboarding 校验并保存问卷，随后在后台重算匹配结果
	Onboarding(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.UserResponse, error)
	// Replace 整体替换画像并同步重算
	Replace(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.UserResponse, error)
	// Merge 合并非空字段，意向国家以请求为准；不触发重算
	Merge(ctx context.Context, userID string, req *dto.ProfileRequest) (*model.StudentProfile, error)
}

type profileService struct {
	repo       *repository.Repository
	university UniversityService
	logger     *zap.Logger
	// background 执行后台任务，测试中可替换为同步执行
	background func(fn func(ctx context.Context))
}

// NewProfileService 创建 ProfileService 实例
// bg 为 nil 时后台任务不受跟踪
func NewProfileService(repo *repository.Repository, university UniversityService, bg *Background, logger *zap.Logger) ProfileService {
	s := &profileService{
		repo:       repo,
		university: university,
		logger:     logger,
	}
	if bg != nil {
		s.background = func(fn func(ctx context.Context)) {
			if !bg.Go(fn) {
				logger.Warn("服务关闭中，跳过后台重算")
			}
		}
	} else {
		s.background = func(fn func(ctx context.Context)) { go fn(context.Background()) }
	}
	return s
}

func (s *profileService) getUser(ctx context.Context, userID string) (*model.User, error) {
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

func (s *profileService) Get(ctx context.Context, userID string) (*model.StudentProfile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.Profile, nil
}

// validateOnboarding 按固定顺序检查必填项，返回第一个缺失字段
func validateOnboarding(p model.StudentProfile) error {
	required := []struct {
		name  string
		value string
	}{
		{"educationLevel", p.EducationLevel},
		{"major", p.Major},
		{"graduationYear", p.GraduationYear},
		{"intendedDegree", p.IntendedDegree},
		{"fieldOfStudy", p.FieldOfStudy},
		{"targetIntake", p.TargetIntake},
		{"budgetRange", p.BudgetRange},
		{"fundingPlan", p.FundingPlan},
		{"ieltsStatus", p.IELTSStatus},
		{"sopStatus", p.SOPStatus},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrProfileFieldMissing, f.name)
		}
	}
	if len(p.PreferredCountries) == 0 {
		return ErrPreferredCountryRequired
	}
	return nil
}

func (s *profileService) Onboarding(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.UserResponse, error) {
	profile := req.ToModel()
	if err := validateOnboarding(profile); err != nil {
		return nil, err
	}

	user, err := s.save(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	s.background(func(ctx context.Context) {
		if _, err := s.university.Recalculate(ctx, userID, matching.ModeAI); err != nil {
			s.logger.Error("后台重算失败", zap.String("user_id", userID), zap.Error(err))
			return
		}
		s.logger.Info("后台重算完成", zap.String("user_id", userID))
	})

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *profileService) Replace(ctx context.Context, userID string, req *dto.ProfileRequest) (*dto.UserResponse, error) {
	if _, err := s.save(ctx, userID, req.ToModel()); err != nil {
		return nil, err
	}

	if _, err := s.university.Recalculate(ctx, userID, matching.ModeAI); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *profileService) Merge(ctx context.Context, userID string, req *dto.ProfileRequest) (*model.StudentProfile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := mergeProfile(user.Profile, req.ToModel())
	if err := s.repo.User.UpdateProfile(ctx, userID, merged, user.OnboardingCompleted); err != nil {
		s.logger.Error("保存画像失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &merged, nil
}

// save 写入画像并置 onboarding_completed，返回更新后的用户
func (s *profileService) save(ctx context.Context, userID string, profile model.StudentProfile) (*model.User, error) {
	if err := s.repo.User.UpdateProfile(ctx, userID, profile, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("保存画像失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.getUser(ctx, userID)
}

func mergeProfile(base, patch model.StudentProfile) model.StudentProfile {
	pick := func(old, new string) string {
		if new != "" {
			return new
		}
		return old
	}
	return model.StudentProfile{
		EducationLevel:     pick(base.EducationLevel, patch.EducationLevel),
		Major:              pick(base.Major, patch.Major),
		GraduationYear:     pick(base.GraduationYear, patch.GraduationYear),
		GPA:                pick(base.GPA, patch.GPA),
		IntendedDegree:     pick(base.IntendedDegree, patch.IntendedDegree),
		FieldOfStudy:       pick(base.FieldOfStudy, patch.FieldOfStudy),
		TargetIntake:       pick(base.TargetIntake, patch.TargetIntake),
		PreferredCountries: patch.PreferredCountries,
		BudgetRange:        pick(base.BudgetRange, patch.BudgetRange),
		FundingPlan:        pick(base.FundingPlan, patch.FundingPlan),
		IELTSStatus:        pick(base.IELTSStatus, patch.IELTSStatus),
		GREStatus:          pick(base.GREStatus, patch.GREStatus),
		SOPStatus:          pick(base.SOPStatus, patch.SOPStatus),
	}
}
