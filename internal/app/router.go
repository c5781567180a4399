package app

import (
	"study_coach_backend/docs"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/middleware"
	"study_coach_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 教练会话
		authGroup.POST("/coaching/run", c.coaching.RunCoaching)
		authGroup.GET("/coaching/sessions/latest", c.coaching.GetLatestSession)
		authGroup.GET("/coaching/sessions/:id", c.coaching.GetSessionDetail)
		authGroup.POST("/coaching/sessions/:id/viewed", c.coaching.MarkSessionViewed)

		// 薄弱点与重复计划
		authGroup.GET("/weak-areas", c.weakArea.ListWeakAreas)
		authGroup.POST("/weak-areas/:id/ignore", c.weakArea.IgnoreWeakArea)
		authGroup.POST("/weak-areas/:id/repetition-plan", c.weakArea.CreateRepetitionPlan)
		authGroup.GET("/weak-areas/:id/repetition-plan", c.weakArea.GetRepetitionPlan)
		authGroup.GET("/repetitions/upcoming", c.weakArea.ListUpcomingRepetitions)
		authGroup.POST("/repetitions/:id/complete", c.weakArea.CompleteRepetition)

		// 学习建议
		authGroup.GET("/recommendations", c.recommendation.ListRecommendations)
		authGroup.PATCH("/recommendations/:id/status", c.recommendation.UpdateRecommendationStatus)

		// 表现分析
		authGroup.GET("/analytics/performance", c.analytics.GetPerformance)
		authGroup.GET("/analytics/history", c.analytics.GetHistory)
		authGroup.POST("/analytics/recompute", c.analytics.RecomputePerformance)

		// 里程碑
		authGroup.GET("/milestones", c.milestone.ListMilestones)
	}
}
