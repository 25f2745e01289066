package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ai-counsellor/config"
	"ai-counsellor/internal/api/handler"
	"ai-counsellor/internal/api/middleware"
	"ai-counsellor/pkg/jwt"
	"ai-counsellor/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	aiLimit := middleware.RateLimit(rdb, cfg.Server.AIRateLimit, cfg.Server.AIRateWindow)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开路由
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
		}
		v1.GET("/universities/us", h.University.USStats)
		v1.POST("/universities/analyze", aiLimit, h.University.Analyze)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 画像
			profile := authorized.Group("/profile")
			{
				profile.GET("", h.Profile.Get)
				profile.PUT("", h.Profile.Replace)
				profile.POST("", h.Profile.Merge)
				profile.PUT("/onboarding", h.Profile.Onboarding)
			}

			// 院校匹配
			universities := authorized.Group("/universities")
			{
				universities.GET("", h.University.List)
				universities.POST("/recalculate", h.University.Recalculate)
			}

			// 收藏与锁定
			shortlist := authorized.Group("/shortlist")
			{
				shortlist.GET("", h.Shortlist.List)
				shortlist.POST("", h.Shortlist.Toggle)
				shortlist.POST("/lock", h.Shortlist.Lock)
				shortlist.GET("/export", h.Shortlist.ExportExcel)
				shortlist.GET("/calendar", h.Shortlist.ExportCalendar)
			}

			// 申请任务
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.List)
				tasks.POST("/generate", aiLimit, h.Task.Generate)
				tasks.POST("/toggle", h.Task.Toggle)
			}

			// 顾问对话
			ai := authorized.Group("/ai")
			{
				ai.POST("/chat", aiLimit, h.Chat.Send)
				ai.GET("/chat/history", aiLimit, h.Chat.History)
			}
		}
	}

	return r
}
