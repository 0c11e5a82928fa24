package app

import (
	"campus_backend/docs"
	"campus_backend/internal/config"
	"campus_backend/internal/middleware"
	"campus_backend/internal/model"
	"campus_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/me", c.auth.Me)

	catalog := api.Group("/catalog")
	{
		catalog.GET("/courses", c.catalog.ListCourses)
		catalog.GET("/subjects", c.catalog.Subjects)
		catalog.GET("/courses/:id/prerequisites", c.catalog.Prerequisites)
		catalog.GET("/courses/:id/assessments", c.grade.ListAssessments)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.GET("", c.enrollment.ListMine)
		enrollments.POST("", middleware.RoleMiddleware(model.Student), c.enrollment.Enroll)
		enrollments.POST("/:id/drop", c.enrollment.Drop)
	}

	progress := api.Group("/progress")
	{
		progress.GET("/gating", c.progress.Gating)
		progress.GET("/summary", c.progress.Summary)
		progress.POST("/summary/export", c.progress.ExportSummary)
	}
}

func (a *App) registerTeacherRoutes(api *gin.RouterGroup, c *controllers) {
	teacher := api.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/courses/:id/roster", c.enrollment.Roster)
		teacher.POST("/enrollments/:id/complete", c.enrollment.Complete)

		teacher.POST("/assessments", c.grade.CreateAssessment)
		teacher.DELETE("/assessments/:id", c.grade.DeleteAssessment)
		teacher.GET("/assessments/:id/grades", c.grade.ListGrades)
		teacher.PUT("/assessments/:id/grades", c.grade.RecordGrade)

		teacher.GET("/students/:id/summary", c.progress.StudentSummary)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	admin := api.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/catalog/courses", c.catalog.SaveCourse)
		admin.PUT("/catalog/courses/:id", c.catalog.SaveCourse)
		admin.PUT("/catalog/courses/:id/prerequisites", c.catalog.ReplacePrerequisites)
		admin.DELETE("/catalog/courses/:id", c.catalog.DeleteCourse)
	}
}
