package controller

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/service"
	"study_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
}

func NewRecommendationController(recommendationService *service.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recommendationService}
}

// @Summary 获取学习建议列表
// @Tags 建议
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "按状态过滤" Enums(pending, in_progress, completed, dismissed)
// @Success 200 {object} util.Response
// @Router /api/recommendations [get]
func (c *RecommendationController) ListRecommendations(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	status := model.RecommendationStatus(ctx.Query("status"))
	recs, err := c.RecommendationService.ListForStudent(student.StudentID, status)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, recs)
}

// @Summary 更新建议状态
// @Description 推进建议生命周期，终态后不可再变更
// @Tags 建议
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "建议ID"
// @Param update body model.RecommendationStatusUpdate true "状态更新"
// @Success 200 {object} util.Response
// @Router /api/recommendations/{id}/status [patch]
func (c *RecommendationController) UpdateRecommendationStatus(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	var update model.RecommendationStatusUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.RecommendationService.UpdateStatus(ctx.Param("id"), student.StudentID, update)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRecNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidStatus):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, rec)
}
