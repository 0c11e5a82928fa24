package controller

import (
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Service *service.EnrollmentService
}

func NewEnrollmentController(svc *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Service: svc}
}

type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// Enroll godoc
// @Summary 选课
// @Description 先修课程未全部完成时拒绝选课
// @Tags 选课
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body EnrollRequest true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "已选该课程"
// @Failure 422 {object} util.Response "课程未解锁"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, bindMessage(err))
		return
	}

	claims := util.GetUserFromContext(ctx)
	e, err := c.Service.Enroll(ctx.Request.Context(), claims.UserID, req.CourseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, e)
}

// ListMine godoc
// @Summary 我的选课记录
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	list, err := c.Service.ListByStudent(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Drop godoc
// @Summary 退课
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "选课记录ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response "记录已结束"
// @Router /api/enrollments/{id}/drop [post]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	e, err := c.Service.Drop(ctx.Request.Context(), id, claims.UserID, claims.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// Complete godoc
// @Summary 结课
// @Description 标记选课记录为已完成，之后计入先修判断与已修学分
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "选课记录ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 409 {object} util.Response "记录已结束"
// @Router /api/teacher/enrollments/{id}/complete [post]
func (c *EnrollmentController) Complete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	e, err := c.Service.Complete(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// Roster godoc
// @Summary 课程学生名单
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/teacher/courses/{id}/roster [get]
func (c *EnrollmentController) Roster(ctx *gin.Context) {
	list, err := c.Service.Roster(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
