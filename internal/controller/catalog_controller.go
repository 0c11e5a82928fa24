package controller

import (
	"campus_backend/internal/model"
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog     *service.CatalogService
	Enrollments *service.EnrollmentService
}

func NewCatalogController(catalog *service.CatalogService, enrollments *service.EnrollmentService) *CatalogController {
	return &CatalogController{Catalog: catalog, Enrollments: enrollments}
}

// ListCourses godoc
// @Summary 课程目录
// @Description 按学科和难度筛选课程，并标注当前用户是否满足先修要求
// @Tags 课程目录
// @Produce json
// @Security ApiKeyAuth
// @Param subject query string false "学科，All 或留空表示全部"
// @Param difficulty query string false "难度 Introductory/Intermediate/Advanced，All 或留空表示全部"
// @Success 200 {object} util.Response{data=[]service.CourseView}
// @Failure 409 {object} util.Response "课程目录存在循环依赖"
// @Router /api/catalog/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	completed, err := c.Enrollments.CompletedSet(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	courses, err := c.Catalog.ListCourses(ctx.Request.Context(), ctx.Query("subject"), ctx.Query("difficulty"), completed)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Subjects godoc
// @Summary 学科筛选项
// @Tags 课程目录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/catalog/subjects [get]
func (c *CatalogController) Subjects(ctx *gin.Context) {
	subjects, err := c.Catalog.Subjects(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// Prerequisites godoc
// @Summary 课程先修要求
// @Description 默认返回直接先修课程，transitive=true 时返回全部间接先修课程
// @Tags 课程目录
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param transitive query bool false "是否返回传递闭包"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/catalog/courses/{id}/prerequisites [get]
func (c *CatalogController) Prerequisites(ctx *gin.Context) {
	id := ctx.Param("id")
	transitive := util.ParseBool(ctx.Query("transitive"))

	prereqs, err := c.Catalog.Prerequisites(ctx.Request.Context(), id, transitive)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"courseId":      id,
		"transitive":    transitive,
		"prerequisites": prereqs,
	})
}

// SaveCourse godoc
// @Summary 创建或更新课程
// @Description 写入后整个目录会重新校验，出现循环依赖时拒绝写入
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "课程已存在或会引入循环依赖"
// @Router /api/admin/catalog/courses [post]
// @Router /api/admin/catalog/courses/{id} [put]
func (c *CatalogController) SaveCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, bindMessage(err))
		return
	}

	var (
		course *model.Course
		err    error
	)
	if id := ctx.Param("id"); id != "" {
		req.ID = id
		course, err = c.Catalog.SaveCourse(ctx.Request.Context(), req)
	} else {
		course, err = c.Catalog.CreateCourse(ctx.Request.Context(), req)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"course":        course,
		"prerequisites": course.PrerequisiteCodes(),
	})
}

type PrerequisitesRequest struct {
	Prerequisites []string `json:"prerequisites"`
}

// ReplacePrerequisites godoc
// @Summary 替换课程先修要求
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body PrerequisitesRequest true "先修课程ID列表"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "会引入循环依赖"
// @Router /api/admin/catalog/courses/{id}/prerequisites [put]
func (c *CatalogController) ReplacePrerequisites(ctx *gin.Context) {
	var req PrerequisitesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, bindMessage(err))
		return
	}

	if err := c.Catalog.ReplacePrerequisites(ctx.Request.Context(), ctx.Param("id"), req.Prerequisites); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 依赖该课程的其他课程将保持锁定
// @Tags 课程管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/catalog/courses/{id} [delete]
func (c *CatalogController) DeleteCourse(ctx *gin.Context) {
	if err := c.Catalog.DeleteCourse(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
