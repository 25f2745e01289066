package matching

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CandidateLimit 每个国家最多保留的候选院校数
const CandidateLimit = 30

// Directory 院校目录数据源
type Directory interface {
	Search(ctx context.Context, country string, limit int) ([]UniversityCandidate, error)
}

// Ranker 为院校提供排名值；返回 nil 表示未排名
type Ranker func() *int

// Unranked 默认排名策略：不提供排名
func Unranked() *int { return nil }

// SyntheticRanker 随机 0–99 占位排名（非确定性，仅用于演示）
func SyntheticRanker(seed int64) Ranker {
	rnd := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func() *int {
		mu.Lock()
		v := rnd.Intn(100)
		mu.Unlock()
		return &v
	}
}

// Engine 院校匹配引擎
//
// 每次 Recalculate 按 TargetCountries 顺序串行拉取并评分，
// 任一国家拉取失败则整体返回错误，不产生部分结果。
type Engine struct {
	dir       Directory
	ranker    Ranker
	countries []string
	logger    *zap.Logger
}

// Option 引擎可选项
type Option func(*Engine)

// WithRanker 指定排名策略
func WithRanker(r Ranker) Option {
	return func(e *Engine) {
		if r != nil {
			e.ranker = r
		}
	}
}

// WithCountries 覆盖目标国家列表（测试用）
func WithCountries(countries ...string) Option {
	return func(e *Engine) { e.countries = countries }
}

// NewEngine 创建匹配引擎
func NewEngine(dir Directory, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		dir:       dir,
		ranker:    Unranked,
		countries: TargetCountries,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultRanker 根据开关选择排名策略
func NewDefaultRanker(synthetic bool) Ranker {
	if synthetic {
		return SyntheticRanker(time.Now().UnixNano())
	}
	return Unranked
}

// Recalculate 为画像重算全部国家的匹配结果
func (e *Engine) Recalculate(ctx context.Context, p Profile) ([]CountryMatchGroup, error) {
	preferred := NormalizeCountries(p.PreferredCountries)
	result := make([]CountryMatchGroup, 0, len(e.countries))

	for _, country := range e.countries {
		candidates, err := e.dir.Search(ctx, country, CandidateLimit)
		if err != nil {
			return nil, fmt.Errorf("获取 %s 院校列表失败: %w", country, err)
		}

		_, isPreferred := preferred[country]
		ranked := make([]RankedUniversity, 0, len(candidates))
		for _, c := range cleanCandidates(candidates) {
			ranked = append(ranked, e.rank(p, c, country, isPreferred))
		}

		result = append(result, CountryMatchGroup{
			Country:      country,
			Universities: dropBlankNames(ranked),
		})

		e.logger.Debug("国家匹配完成",
			zap.String("country", country),
			zap.Int("count", len(ranked)),
		)
	}

	return result, nil
}

// rank 对单个候选评分并富化
func (e *Engine) rank(p Profile, c UniversityCandidate, country string, preferred bool) RankedUniversity {
	score := CalculateMatch(p, c.Difficulty, country)
	score = ApplyPreference(score, preferred)

	return RankedUniversity{
		Name:       c.Name,
		Website:    c.Website,
		PortalURL:  c.Website,
		Difficulty: c.Difficulty,
		Country:    country,
		MatchScore: score,
		Fit:        ClassifyFit(score),
		Tuition:    EstimateTuition(country),
		Ranking:    e.ranker(),
	}
}

// cleanCandidates 丢弃空白名称，截断到 CandidateLimit，并补齐难度
func cleanCandidates(in []UniversityCandidate) []UniversityCandidate {
	out := make([]UniversityCandidate, 0, len(in))
	for _, c := range in {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if c.Difficulty == "" {
			c.Difficulty = GuessDifficulty(c.Name)
		}
		out = append(out, c)
		if len(out) == CandidateLimit {
			break
		}
	}
	return out
}

func dropBlankNames(in []RankedUniversity) []RankedUniversity {
	out := in[:0]
	for _, u := range in {
		if strings.TrimSpace(u.Name) != "" {
			out = append(out, u)
		}
	}
	return out
}

// FilterByMode mode 为 "ai" 时只保留偏好国家的分组，否则原样返回
func FilterByMode(groups []CountryMatchGroup, preferredCountries []string, mode string) []CountryMatchGroup {
	if mode != ModeAI {
		return groups
	}
	preferred := NormalizeCountries(preferredCountries)
	filtered := make([]CountryMatchGroup, 0, len(groups))
	for _, g := range groups {
		if _, ok := preferred[NormalizeCountry(g.Country)]; ok {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
