package controller

import (
	"errors"
	"study_coach_backend/internal/service"
	"study_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CoachingController struct {
	CoachingService *service.CoachingService
}

func NewCoachingController(coachingService *service.CoachingService) *CoachingController {
	return &CoachingController{CoachingService: coachingService}
}

// @Summary 触发一次教练运行
// @Description 扫描信号、刷新薄弱点、生成会话快照与建议
// @Tags 教练
// @Security ApiKeyAuth
// @Produce json
// @Success 201 {object} util.Response
// @Router /api/coaching/run [post]
func (c *CoachingController) RunCoaching(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.CoachingService.GenerateSession(ctx.Request.Context(), student.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary 获取最新教练会话
// @Tags 教练
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/coaching/sessions/latest [get]
func (c *CoachingController) GetLatestSession(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.CoachingService.LatestSession(ctx.Request.Context(), student.StudentID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

// @Summary 获取会话详情
// @Description 返回会话快照及该次运行派生的建议
// @Tags 教练
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/coaching/sessions/{id} [get]
func (c *CoachingController) GetSessionDetail(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.CoachingService.SessionDetail(ctx.Param("id"), student.StudentID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary 标记会话已读
// @Tags 教练
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/coaching/sessions/{id}/viewed [post]
func (c *CoachingController) MarkSessionViewed(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CoachingService.MarkViewed(ctx.Param("id"), student.StudentID); err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
