package controller

import (
	"errors"
	"strconv"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/service"
	"study_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WeakAreaController struct {
	ClassifierService *service.ClassifierService
	SchedulerService  *service.SchedulerService
	CompletionService *service.CompletionService
}

func NewWeakAreaController(
	classifierService *service.ClassifierService,
	schedulerService *service.SchedulerService,
	completionService *service.CompletionService,
) *WeakAreaController {
	return &WeakAreaController{
		ClassifierService: classifierService,
		SchedulerService:  schedulerService,
		CompletionService: completionService,
	}
}

// @Summary 获取薄弱点列表
// @Tags 薄弱点
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/weak-areas [get]
func (c *WeakAreaController) ListWeakAreas(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	areas, err := c.ClassifierService.WeakAreaRepo.ListByStudent(student.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, areas)
}

// @Summary 忽略一个薄弱点
// @Tags 薄弱点
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "薄弱点ID"
// @Success 200 {object} util.Response
// @Router /api/weak-areas/{id}/ignore [post]
func (c *WeakAreaController) IgnoreWeakArea(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CompletionService.IgnoreWeakArea(ctx.Param("id"), student.StudentID); err != nil {
		if errors.Is(err, util.ErrWeakAreaNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 为薄弱点生成间隔重复计划
// @Tags 薄弱点
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "薄弱点ID"
// @Success 201 {object} util.Response
// @Router /api/weak-areas/{id}/repetition-plan [post]
func (c *WeakAreaController) CreateRepetitionPlan(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.SchedulerService.CreateRepetitionPlan(ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrWeakAreaNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrScheduleExists):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, entries)
}

// @Summary 查看薄弱点的重复计划
// @Tags 薄弱点
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "薄弱点ID"
// @Success 200 {object} util.Response
// @Router /api/weak-areas/{id}/repetition-plan [get]
func (c *WeakAreaController) GetRepetitionPlan(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.SchedulerService.ListForWeakArea(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrWeakAreaNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// @Summary 学生近期待办的重复练习
// @Tags 薄弱点
// @Security ApiKeyAuth
// @Produce json
// @Param horizonDays query int false "查看未来多少天" default(15)
// @Success 200 {object} util.Response
// @Router /api/repetitions/upcoming [get]
func (c *WeakAreaController) ListUpcomingRepetitions(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	horizon, _ := strconv.Atoi(ctx.DefaultQuery("horizonDays", "0"))
	entries, err := c.SchedulerService.ListUpcoming(student.StudentID, horizon)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// @Summary 上报一次重复练习的完成结果
// @Tags 薄弱点
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "计划条目ID"
// @Param outcome body model.RepetitionOutcome true "练习结果"
// @Success 200 {object} util.Response
// @Router /api/repetitions/{id}/complete [post]
func (c *WeakAreaController) CompleteRepetition(ctx *gin.Context) {
	student := util.GetStudentFromContext(ctx)
	if student == nil {
		util.Unauthorized(ctx)
		return
	}

	var outcome model.RepetitionOutcome
	if err := ctx.ShouldBindJSON(&outcome); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.CompletionService.CompleteRepetition(ctx.Param("id"), outcome)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRepetitionNotFound), errors.Is(err, util.ErrWeakAreaNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidAccuracy), errors.Is(err, util.ErrInvalidOutcome):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, entry)
}
