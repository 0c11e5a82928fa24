package controller

import (
	"bytes"
	"campus_backend/internal/config"
	"campus_backend/internal/middleware"
	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/internal/service"
	"campus_backend/internal/testutil"
	"campus_backend/internal/util"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t      *testing.T
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := testutil.DB(t)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "controller-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	courses := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	grades := repository.NewGradeRepository(db)

	catalogSvc := service.NewCatalogService(courses, nil, cfg)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, catalogSvc)
	gradingSvc := service.NewGradingService(repository.NewAssessmentRepository(db), grades, enrollmentRepo, courses)
	progressSvc := service.NewProgressService(catalogSvc, enrollmentSvc, grades, service.NewStorageService(cfg))

	auth := NewAuthController(service.NewAuthService(repository.NewUserRepository(db), cfg))
	catalog := NewCatalogController(catalogSvc, enrollmentSvc)
	enrollment := NewEnrollmentController(enrollmentSvc)
	grade := NewGradeController(gradingSvc)
	prog := NewProgressController(progressSvc)

	r := gin.New()
	r.POST("/api/register", auth.Register)
	r.POST("/api/login", auth.Login)

	api := r.Group("/api", middleware.AuthMiddleware(cfg))
	api.GET("/me", auth.Me)
	api.GET("/catalog/courses", catalog.ListCourses)
	api.GET("/catalog/subjects", catalog.Subjects)
	api.GET("/catalog/courses/:id/prerequisites", catalog.Prerequisites)
	api.POST("/enrollments", enrollment.Enroll)
	api.POST("/enrollments/:id/drop", enrollment.Drop)
	api.GET("/progress/gating", prog.Gating)
	api.GET("/progress/summary", prog.Summary)
	api.POST("/progress/summary/export", prog.ExportSummary)

	teacher := api.Group("/teacher", middleware.RoleMiddleware(model.Teacher))
	teacher.POST("/enrollments/:id/complete", enrollment.Complete)
	teacher.POST("/assessments", grade.CreateAssessment)
	teacher.PUT("/assessments/:id/grades", grade.RecordGrade)
	teacher.GET("/students/:id/summary", prog.StudentSummary)

	admin := api.Group("/admin", middleware.RoleMiddleware(model.Admin))
	admin.POST("/catalog/courses", catalog.SaveCourse)
	admin.PUT("/catalog/courses/:id", catalog.SaveCourse)
	admin.PUT("/catalog/courses/:id/prerequisites", catalog.ReplacePrerequisites)

	return &server{t: t, db: db, cfg: cfg, router: r}
}

func (s *server) token(u *model.User) string {
	s.t.Helper()
	tok, err := util.GenerateJWT(u, s.cfg.JWT.Secret, time.Hour)
	require.NoError(s.t, err)
	return tok
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *server) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}
