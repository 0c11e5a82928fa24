package service

import (
	"campus_backend/internal/model"
	"campus_backend/internal/progress"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"campus_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	Catalog        *CatalogService
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, catalog *CatalogService) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		Catalog:        catalog,
	}
}

func toEnrollmentRecords(list []model.Enrollment) []progress.EnrollmentRecord {
	records := make([]progress.EnrollmentRecord, 0, len(list))
	for _, e := range list {
		records = append(records, progress.EnrollmentRecord{
			CourseID: e.CourseCode,
			Status:   progress.EnrollmentStatus(e.Status),
		})
	}
	return records
}

// Records returns the student's enrollment history in the shape the progress engine consumes.
func (s *EnrollmentService) Records(ctx context.Context, studentID uint) ([]progress.EnrollmentRecord, error) {
	list, err := s.EnrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toEnrollmentRecords(list), nil
}

func (s *EnrollmentService) CompletedSet(ctx context.Context, studentID uint) (progress.CompletedSet, error) {
	records, err := s.Records(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return progress.CompletedSetFrom(records), nil
}

// Enroll registers the student in an open course they do not already hold.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID uint, courseID string) (*model.Enrollment, error) {
	cat, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	course, ok := cat.Course(courseID)
	if !ok {
		return nil, util.ErrCourseNotFound
	}

	if _, err := s.EnrollmentRepo.FindActive(ctx, studentID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	completed, err := s.CompletedSet(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if progress.IsLocked(course, completed) {
		missing := progress.MissingPrerequisites(course, completed)
		return nil, fmt.Errorf("%w: missing %s", util.ErrCourseLocked, strings.Join(missing, ", "))
	}

	enrollment := &model.Enrollment{
		StudentID:  studentID,
		CourseCode: courseID,
		Status:     model.EnrollmentEnrolled,
		EnrolledAt: time.Now(),
	}
	created, err := s.EnrollmentRepo.CreateUnlessActive(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, util.ErrAlreadyEnrolled
	}

	logger.Log.Info("Student enrolled", zap.Uint("studentID", studentID), zap.String("course", courseID))
	return enrollment, nil
}

func (s *EnrollmentService) find(ctx context.Context, id uint) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	return e, err
}

// Complete marks an enrolled record as completed; the course then counts toward gating and credits.
func (s *EnrollmentService) Complete(ctx context.Context, enrollmentID uint) (*model.Enrollment, error) {
	e, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Status.Terminal() {
		return nil, util.ErrEnrollmentTerminal
	}

	now := time.Now()
	e.Status = model.EnrollmentCompleted
	e.CompletedAt = &now
	if err := s.EnrollmentRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Drop withdraws an enrolled record. Students may only drop their own enrollments.
func (s *EnrollmentService) Drop(ctx context.Context, enrollmentID, actorID uint, actorRole model.UserRole) (*model.Enrollment, error) {
	e, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if actorRole == model.Student && e.StudentID != actorID {
		return nil, util.ErrPermissionDenied
	}
	if e.Status.Terminal() {
		return nil, util.ErrEnrollmentTerminal
	}

	now := time.Now()
	e.Status = model.EnrollmentDropped
	e.DroppedAt = &now
	if err := s.EnrollmentRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(ctx, studentID)
}

func (s *EnrollmentService) Roster(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByCourse(ctx, courseID)
}
