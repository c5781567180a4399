package controller

import (
	"strconv"
	"study_coach_backend/internal/service"
	"study_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MilestoneController struct {
	MilestoneService *service.MilestoneService
}

func NewMilestoneController(milestoneService *service.MilestoneService) *MilestoneController {
	return &MilestoneController{MilestoneService: milestoneService}
}

// @Summary 获取学习里程碑列表
// @Tags 里程碑
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "返回条数" default(20)
// @Success 200 {object} util.Response
// @Router /api/milestones [get]
func (c *MilestoneController) ListMilestones(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	milestones, err := c.MilestoneService.ListForStudent(student.StudentID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, milestones)
}
