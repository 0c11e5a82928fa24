package controller

import (
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// Gating godoc
// @Summary 课程解锁状态
// @Description 逐门课程返回是否锁定以及缺少的先修课程
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]progress.GateResult}
// @Failure 409 {object} util.Response "课程目录存在循环依赖"
// @Router /api/progress/gating [get]
func (c *ProgressController) Gating(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	results, err := c.Service.Gating(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// Summary godoc
// @Summary 学业汇总
// @Description 各课程当前平均分、按学分加权的 GPA 与已修学分；未评分课程平均分为 null
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.SummaryView}
// @Failure 409 {object} util.Response "课程目录存在循环依赖"
// @Router /api/progress/summary [get]
func (c *ProgressController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.Service.Summary(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ExportSummary godoc
// @Summary 导出学业汇总
// @Description 将学业汇总以 JSON 写入对象存储并返回访问地址
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=service.ExportResult}
// @Router /api/progress/summary/export [post]
func (c *ProgressController) ExportSummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	res, err := c.Service.ExportSummary(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// StudentSummary godoc
// @Summary 查看学生学业汇总
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.SummaryView}
// @Router /api/teacher/students/{id}/summary [get]
func (c *ProgressController) StudentSummary(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.Service.Summary(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
