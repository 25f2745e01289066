package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/llm"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/repository"
)

var (
	ErrInvalidTaskPayload = errors.New("AI 返回的任务格式无效")
	ErrTasksNotFound      = errors.New("该院校暂无申请任务")
	ErrTaskNotFound       = errors.New("任务不存在")
)

// taskPayloadSchema 大模型任务输出的结构约束：tasks 必须是对象数组
const taskPayloadSchema = `{
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "id":       {"type": "string"},
          "group":    {"type": "string"},
          "title":    {"type": "string", "minLength": 1},
          "desc":     {"type": "string"},
          "priority": {"type": "string"}
        }
      }
    }
  }
}`

var taskSchemaLoader = gojsonschema.NewStringLoader(taskPayloadSchema)

// TaskService 申请任务业务接口
type TaskService interface {
	// Generate 由大模型为已收藏院校生成任务清单，替换该院校已有任务
	Generate(ctx context.Context, userID, universityName string) ([]model.ApplicationTask, error)
	Toggle(ctx context.Context, userID, universityName, taskKey string) (*dto.ToggleTaskResponse, error)
	List(ctx context.Context, userID string) (*dto.TaskListResponse, error)
}

type taskService struct {
	repo      *repository.Repository
	completer llm.Completer
	logger    *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, completer llm.Completer, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, completer: completer, logger: logger}
}

type generatedTask struct {
	ID       string `json:"id"`
	Group    string `json:"group"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Priority string `json:"priority"`
}

func (s *taskService) Generate(ctx context.Context, userID, universityName string) ([]model.ApplicationTask, error) {
	uni, err := s.repo.Shortlist.GetByName(ctx, userID, universityName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotShortlisted
		}
		s.logger.Error("查询收藏失败", zap.String("name", universityName), zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	prompt, err := taskPrompt(uni, user.Profile)
	if err != nil {
		return nil, err
	}

	raw, err := complete(ctx, s.completer, "tasks", llm.ChatRequest{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: prompt}},
		MaxTokens:   600,
		Temperature: llm.Float(0.4),
	})
	if err != nil {
		s.logger.Error("生成任务失败", zap.String("university", universityName), zap.Error(err))
		return nil, err
	}

	generated, err := parseTasks(raw)
	if err != nil {
		s.logger.Warn("AI 任务输出无法解析", zap.String("raw", raw), zap.Error(err))
		return nil, err
	}

	tasks := make([]model.ApplicationTask, 0, len(generated))
	seen := make(map[string]bool, len(generated))
	for i, g := range generated {
		key := strings.TrimSpace(g.ID)
		if key == "" || seen[key] {
			key = uuid.New().String()
		}
		seen[key] = true
		tasks = append(tasks, model.ApplicationTask{
			UserID:         userID,
			UniversityName: universityName,
			TaskKey:        key,
			Group:          normalizeTaskGroup(g.Group),
			Title:          strings.TrimSpace(g.Title),
			Description:    strings.TrimSpace(g.Desc),
			Priority:       normalizePriority(g.Priority),
			SortOrder:      i,
		})
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	if err := s.repo.WithTx(tx).Task.ReplaceForUniversity(ctx, userID, universityName, tasks); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("保存任务失败", zap.String("university", universityName), zap.Error(err))
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return tasks, nil
}

// parseTasks 剥离代码围栏后按 schema 校验，tasks 非数组时拒绝
func parseTasks(raw string) ([]generatedTask, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	result, err := gojsonschema.Validate(taskSchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaskPayload, err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTaskPayload, strings.Join(msgs, "; "))
	}

	var payload struct {
		Tasks []generatedTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaskPayload, err)
	}
	return payload.Tasks, nil
}

func normalizeTaskGroup(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "exams":
		return model.TaskGroupExams
	case "forms":
		return model.TaskGroupForms
	default:
		return model.TaskGroupDocuments
	}
}

func normalizePriority(p string) string {
	if strings.EqualFold(strings.TrimSpace(p), "high") {
		return "high"
	}
	return "medium"
}

func (s *taskService) Toggle(ctx context.Context, userID, universityName, taskKey string) (*dto.ToggleTaskResponse, error) {
	n, err := s.repo.Task.CountByUniversity(ctx, userID, universityName)
	if err != nil {
		s.logger.Error("查询任务失败", zap.String("university", universityName), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrTasksNotFound
	}

	task, err := s.repo.Task.GetByKey(ctx, userID, universityName, taskKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("task", taskKey), zap.Error(err))
		return nil, err
	}

	completed := !task.Completed
	if err := s.repo.Task.SetCompleted(ctx, task.ID, completed); err != nil {
		s.logger.Error("更新任务状态失败", zap.String("task", taskKey), zap.Error(err))
		return nil, err
	}
	return &dto.ToggleTaskResponse{Completed: completed}, nil
}

func (s *taskService) List(ctx context.Context, userID string) (*dto.TaskListResponse, error) {
	tasks, err := s.repo.Task.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.TaskListResponse{Universities: []dto.UniversityTasks{}}
	index := make(map[string]int)
	for _, t := range tasks {
		i, ok := index[t.UniversityName]
		if !ok {
			i = len(resp.Universities)
			index[t.UniversityName] = i
			resp.Universities = append(resp.Universities, dto.UniversityTasks{UniversityName: t.UniversityName})
		}
		resp.Universities[i].Tasks = append(resp.Universities[i].Tasks, t)
	}
	return resp, nil
}
