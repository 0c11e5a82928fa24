package controller

import (
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Service *service.GradingService
}

func NewGradeController(svc *service.GradingService) *GradeController {
	return &GradeController{Service: svc}
}

// CreateAssessment godoc
// @Summary 创建考核项
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssessmentRequest true "考核项"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/assessments [post]
func (c *GradeController) CreateAssessment(ctx *gin.Context) {
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, bindMessage(err))
		return
	}

	claims := util.GetUserFromContext(ctx)
	a, err := c.Service.CreateAssessment(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// ListAssessments godoc
// @Summary 课程考核项列表
// @Tags 课程目录
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Assessment}
// @Router /api/catalog/courses/{id}/assessments [get]
func (c *GradeController) ListAssessments(ctx *gin.Context) {
	list, err := c.Service.ListAssessments(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// DeleteAssessment godoc
// @Summary 删除考核项
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考核项ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/assessments/{id} [delete]
func (c *GradeController) DeleteAssessment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteAssessment(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RecordGrade godoc
// @Summary 录入成绩
// @Description 重复录入会覆盖旧成绩，score 为 null 表示撤销评分
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考核项ID"
// @Param body body service.GradeRequest true "成绩"
// @Success 200 {object} util.Response{data=model.GradeRecord}
// @Failure 400 {object} util.Response "分数超出范围"
// @Failure 422 {object} util.Response "学生未选该课程"
// @Router /api/teacher/assessments/{id}/grades [put]
func (c *GradeController) RecordGrade(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, bindMessage(err))
		return
	}

	claims := util.GetUserFromContext(ctx)
	g, err := c.Service.RecordGrade(ctx.Request.Context(), claims.UserID, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, g)
}

// ListGrades godoc
// @Summary 考核项成绩列表
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "考核项ID"
// @Success 200 {object} util.Response{data=[]model.GradeRecord}
// @Router /api/teacher/assessments/{id}/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	list, err := c.Service.ListGrades(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
