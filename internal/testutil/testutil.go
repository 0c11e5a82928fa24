// Package testutil opens throwaway SQLite databases migrated with the production schema.
package testutil

import (
	"campus_backend/internal/model"
	"campus_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB returns an isolated in-memory database that lives until the test ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql.DB: %v", err)
	}
	// one connection keeps the shared in-memory db alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func User(tb testing.TB, db *gorm.DB, email string, role model.UserRole) *model.User {
	tb.Helper()
	u := &model.User{Name: email, Email: email, Password: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("create user: %v", err)
	}
	return u
}

// Course inserts a course row and its prerequisite edges without catalog validation.
func Course(tb testing.TB, db *gorm.DB, code, subject, difficulty string, credits int, prereqs ...string) *model.Course {
	tb.Helper()
	c := &model.Course{Code: code, Title: code, SubjectArea: subject, Difficulty: difficulty, Credits: credits}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("create course: %v", err)
	}
	for _, p := range prereqs {
		edge := &model.CoursePrerequisite{CourseCode: code, PrerequisiteCode: p}
		if err := db.Create(edge).Error; err != nil {
			tb.Fatalf("create prerequisite: %v", err)
		}
	}
	return c
}

func Enrollment(tb testing.TB, db *gorm.DB, studentID uint, code string, status model.EnrollmentStatus) *model.Enrollment {
	tb.Helper()
	e := &model.Enrollment{StudentID: studentID, CourseCode: code, Status: status}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("create enrollment: %v", err)
	}
	return e
}

func Assessment(tb testing.TB, db *gorm.DB, code, name string, total float64, weight *float64) *model.Assessment {
	tb.Helper()
	a := &model.Assessment{CourseCode: code, Name: name, Type: model.AssessmentAssignment, TotalMarks: total, Weight: weight}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("create assessment: %v", err)
	}
	return a
}

func Grade(tb testing.TB, db *gorm.DB, studentID, assessmentID uint, score *float64) *model.GradeRecord {
	tb.Helper()
	g := &model.GradeRecord{StudentID: studentID, AssessmentID: assessmentID, Score: score}
	if err := db.Create(g).Error; err != nil {
		tb.Fatalf("create grade: %v", err)
	}
	return g
}

func Float(v float64) *float64 { return &v }
