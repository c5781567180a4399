package controller

import (
	"errors"
	"strconv"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/service"
	"study_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 获取最新表现分析
// @Tags 分析
// @Security ApiKeyAuth
// @Produce json
// @Param period query string false "周期类型" Enums(daily, weekly, monthly) default(weekly)
// @Success 200 {object} util.Response
// @Router /api/analytics/performance [get]
func (c *AnalyticsController) GetPerformance(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	period := model.AnalyticsPeriod(ctx.DefaultQuery("period", string(model.PeriodWeekly)))
	analytics, err := c.AnalyticsService.Latest(student.StudentID, period)
	if err != nil {
		if errors.Is(err, util.ErrAnalyticsNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}

// @Summary 获取表现分析历史
// @Tags 分析
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "返回条数" default(30)
// @Success 200 {object} util.Response
// @Router /api/analytics/history [get]
func (c *AnalyticsController) GetHistory(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "30"))
	history, err := c.AnalyticsService.History(student.StudentID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}

// @Summary 立即重算表现分析
// @Tags 分析
// @Security ApiKeyAuth
// @Produce json
// @Param period query string false "周期类型" Enums(daily, weekly, monthly) default(weekly)
// @Success 200 {object} util.Response
// @Router /api/analytics/recompute [post]
func (c *AnalyticsController) RecomputePerformance(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	period := model.AnalyticsPeriod(ctx.DefaultQuery("period", string(model.PeriodWeekly)))
	analytics, err := c.AnalyticsService.ComputePerformance(student.StudentID, period, periodDays(period))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}

func periodDays(period model.AnalyticsPeriod) int {
	switch period {
	case model.PeriodDaily:
		return 1
	case model.PeriodMonthly:
		return 30
	default:
		return 7
	}
}
