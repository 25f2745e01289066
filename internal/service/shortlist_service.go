package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/repository"
)

var (
	ErrNoShortlist     = errors.New("尚未收藏任何院校")
	ErrNotShortlisted  = errors.New("该院校未被收藏")
	ErrNothingToExport = errors.New("没有可导出的已锁定院校")
)

// applicationDeadline 锁定院校时统一分配的申请截止日期
var applicationDeadline = time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)

// ShortlistService 收藏/锁定业务接口
type ShortlistService interface {
	List(ctx context.Context, userID string) (*dto.ShortlistResponse, error)
	// Toggle 已收藏则移除，否则加入（未锁定）
	Toggle(ctx context.Context, userID string, input *dto.ShortlistUniversityInput) (*dto.ShortlistResponse, error)
	// Lock 锁定院校并进入 applying 阶段
	Lock(ctx context.Context, userID, name string) (*dto.ShortlistResponse, error)
	ExportExcel(ctx context.Context, userID string) ([]byte, error)
	ExportCalendar(ctx context.Context, userID string) ([]byte, error)
}

type shortlistService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShortlistService 创建 ShortlistService 实例
func NewShortlistService(repo *repository.Repository, logger *zap.Logger) ShortlistService {
	return &shortlistService{repo: repo, logger: logger}
}

func (s *shortlistService) List(ctx context.Context, userID string) (*dto.ShortlistResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	items, err := s.repo.Shortlist.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []model.ShortlistedUniversity{}
	}

	stage := user.ApplicationStage
	if stage == "" {
		stage = model.StageDiscovering
	}
	return &dto.ShortlistResponse{ShortlistedUniversities: items, ApplicationStage: stage}, nil
}

func (s *shortlistService) Toggle(ctx context.Context, userID string, input *dto.ShortlistUniversityInput) (*dto.ShortlistResponse, error) {
	_, err := s.repo.Shortlist.GetByName(ctx, userID, input.Name)
	switch {
	case err == nil:
		if err := s.repo.Shortlist.Delete(ctx, userID, input.Name); err != nil {
			s.logger.Error("取消收藏失败", zap.String("name", input.Name), zap.Error(err))
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &model.ShortlistedUniversity{
			UserID:     userID,
			Name:       input.Name,
			Country:    input.Country,
			PortalURL:  input.PortalURL,
			MatchScore: input.MatchScore,
			Tuition:    input.Tuition,
			Ranking:    input.Ranking,
		}
		if err := s.repo.Shortlist.Create(ctx, item); err != nil {
			s.logger.Error("收藏院校失败", zap.String("name", input.Name), zap.Error(err))
			return nil, err
		}
	default:
		s.logger.Error("查询收藏失败", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}

	return s.List(ctx, userID)
}

func (s *shortlistService) Lock(ctx context.Context, userID, name string) (*dto.ShortlistResponse, error) {
	items, err := s.repo.Shortlist.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoShortlist
	}
	if _, err := s.repo.Shortlist.GetByName(ctx, userID, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotShortlisted
		}
		s.logger.Error("查询收藏失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	// 锁定与阶段切换需原子完成
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Shortlist.Lock(ctx, userID, name, applicationDeadline); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("锁定院校失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if err := txRepo.User.UpdateStage(ctx, userID, model.StageApplying); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新申请阶段失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return s.List(ctx, userID)
}

// ── 导出 ──

func (s *shortlistService) ExportExcel(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.repo.Shortlist.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Shortlist"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"University", "Country", "Match Score", "Tuition (USD)", "Ranking", "Locked", "Deadline", "Portal"}
	widths := []float64{40, 18, 12, 14, 10, 8, 12, 40}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, widths[i])
		_ = f.SetCellValue(sheet, cell(col, 1), h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetCellStyle(sheet, "A1", cell(lastCol, 1), headerStyle)

	for i, it := range items {
		row := i + 2
		_ = f.SetCellValue(sheet, cell("A", row), it.Name)
		_ = f.SetCellValue(sheet, cell("B", row), it.Country)
		_ = f.SetCellValue(sheet, cell("C", row), it.MatchScore)
		_ = f.SetCellValue(sheet, cell("D", row), it.Tuition)
		if it.Ranking != nil {
			_ = f.SetCellValue(sheet, cell("E", row), *it.Ranking)
		} else {
			_ = f.SetCellValue(sheet, cell("E", row), "-")
		}
		_ = f.SetCellValue(sheet, cell("F", row), yesNo(it.Locked))
		if it.ApplicationDeadline != nil {
			_ = f.SetCellValue(sheet, cell("G", row), it.ApplicationDeadline.Format("2006-01-02"))
		}
		_ = f.SetCellValue(sheet, cell("H", row), it.PortalURL)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportCalendar 锁定院校的申请截止日期（全天事件）
func (s *shortlistService) ExportCalendar(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.repo.Shortlist.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询收藏列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ai-counsellor//application deadlines//EN")

	n := 0
	for _, it := range items {
		if !it.Locked || it.ApplicationDeadline == nil {
			continue
		}
		evt := cal.AddEvent(fmt.Sprintf("%s@ai-counsellor", it.ShortlistID))
		evt.SetDtStampTime(time.Now().UTC())
		evt.SetSummary(fmt.Sprintf("Application deadline: %s", it.Name))
		evt.SetAllDayStartAt(*it.ApplicationDeadline)
		evt.SetAllDayEndAt(it.ApplicationDeadline.AddDate(0, 0, 1))
		if it.PortalURL != "" {
			evt.SetURL(it.PortalURL)
		}
		if it.Country != "" {
			evt.SetLocation(it.Country)
		}
		n++
	}
	if n == 0 {
		return nil, ErrNothingToExport
	}

	return []byte(cal.Serialize()), nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
