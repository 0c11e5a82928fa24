package service

import (
	"campus_backend/internal/config"
	"campus_backend/internal/repository"
	"campus_backend/internal/testutil"
	"testing"
	"time"

	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	cfg        *config.Config
	catalog    *CatalogService
	enrollment *EnrollmentService
	grading    *GradingService
	progress   *ProgressService
	auth       *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	courses := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	grades := repository.NewGradeRepository(db)
	assessments := repository.NewAssessmentRepository(db)

	catalog := NewCatalogService(courses, nil, cfg)
	enrollment := NewEnrollmentService(enrollments, catalog)
	return &fixture{
		db:         db,
		cfg:        cfg,
		catalog:    catalog,
		enrollment: enrollment,
		grading:    NewGradingService(assessments, grades, enrollments, courses),
		progress:   NewProgressService(catalog, enrollment, grades, NewStorageService(cfg)),
		auth:       NewAuthService(repository.NewUserRepository(db), cfg),
	}
}
