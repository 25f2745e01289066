package directory

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ai-counsellor/config"
	"ai-counsellor/internal/matching"
	"ai-counsellor/pkg/metrics"
)

// Router 按国家分发到具体目录数据源，实现 matching.Directory
type Router struct {
	fallback  matching.Directory
	byCountry map[string]matching.Directory
	logger    *zap.Logger
}

var _ matching.Directory = (*Router)(nil)

// NewRouter 创建数据源路由；未登记的国家走 fallback
func NewRouter(fallback matching.Directory, logger *zap.Logger) *Router {
	return &Router{
		fallback:  fallback,
		byCountry: make(map[string]matching.Directory),
		logger:    logger,
	}
}

// Register 为指定国家登记专用数据源
func (r *Router) Register(country string, src matching.Directory) *Router {
	r.byCountry[country] = src
	return r
}

// Search 实现 matching.Directory
func (r *Router) Search(ctx context.Context, country string, limit int) ([]matching.UniversityCandidate, error) {
	src, ok := r.byCountry[country]
	if !ok {
		src = r.fallback
	}

	start := time.Now()
	list, err := src.Search(ctx, country, limit)
	metrics.DirectoryRequestDuration.WithLabelValues(country).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DirectoryRequestsFailed.WithLabelValues(country).Inc()
		r.logger.Warn("目录服务请求失败", zap.String("country", country), zap.Error(err))
		return nil, err
	}
	return list, nil
}

// Clients 进程级目录客户端集合，main 中构造一次后注入
type Clients struct {
	Router    *Router
	Scorecard *ScorecardClient
}

// NewClients 根据配置构造目录客户端
func NewClients(cfg *config.DirectoryConfig, logger *zap.Logger) *Clients {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	hipolabs := NewHipolabsClient(cfg.HipolabsBaseURL, httpClient)
	scorecard := NewScorecardClient(cfg.ScorecardBaseURL, cfg.ScorecardAPIKey, httpClient)

	router := NewRouter(hipolabs, logger).
		Register(matching.CountryUnitedStates, scorecard)

	return &Clients{Router: router, Scorecard: scorecard}
}
