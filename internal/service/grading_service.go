package service

import (
	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

type GradingService struct {
	AssessmentRepo *repository.AssessmentRepository
	GradeRepo      *repository.GradeRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewGradingService(
	assessmentRepo *repository.AssessmentRepository,
	gradeRepo *repository.GradeRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
) *GradingService {
	return &GradingService{
		AssessmentRepo: assessmentRepo,
		GradeRepo:      gradeRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

type AssessmentRequest struct {
	CourseID   string     `json:"courseId" binding:"required"`
	Name       string     `json:"name" binding:"required"`
	Type       string     `json:"type" binding:"required,oneof=assignment quiz midterm final project"`
	TotalMarks float64    `json:"totalMarks" binding:"required"`
	Weight     *float64   `json:"weight"`
	DueAt      *time.Time `json:"dueAt"`
}

func (s *GradingService) CreateAssessment(ctx context.Context, creatorID uint, req AssessmentRequest) (*model.Assessment, error) {
	if !(req.TotalMarks > 0) || math.IsInf(req.TotalMarks, 0) {
		return nil, util.ErrInvalidTotalMarks
	}
	if req.Weight != nil && (*req.Weight < 0 || math.IsNaN(*req.Weight) || math.IsInf(*req.Weight, 0)) {
		return nil, util.ErrInvalidWeight
	}
	kind := model.AssessmentType(req.Type)
	if !kind.Valid() {
		return nil, util.ErrInvalidAssessment
	}

	if _, err := s.CourseRepo.FindByCode(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	a := &model.Assessment{
		CourseCode: req.CourseID,
		Name:       strings.TrimSpace(req.Name),
		Type:       kind,
		TotalMarks: req.TotalMarks,
		Weight:     req.Weight,
		DueAt:      req.DueAt,
		CreatorID:  creatorID,
	}
	if err := s.AssessmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *GradingService) ListAssessments(ctx context.Context, courseID string) ([]model.Assessment, error) {
	return s.AssessmentRepo.ListByCourse(ctx, courseID)
}

func (s *GradingService) DeleteAssessment(ctx context.Context, id uint) error {
	err := s.AssessmentRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrAssessmentNotFound
	}
	return err
}

type GradeRequest struct {
	StudentID uint     `json:"studentId" binding:"required"`
	Score     *float64 `json:"score"`
	Feedback  string   `json:"feedback"`
}

// RecordGrade stores or overwrites a grade. A nil score clears the grade back to ungraded.
func (s *GradingService) RecordGrade(ctx context.Context, graderID, assessmentID uint, req GradeRequest) (*model.GradeRecord, error) {
	a, err := s.AssessmentRepo.FindByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}

	if req.Score != nil {
		score := *req.Score
		if math.IsNaN(score) || score < 0 || score > a.TotalMarks {
			return nil, util.ErrScoreOutOfRange
		}
	}

	if _, err := s.EnrollmentRepo.FindActive(ctx, req.StudentID, a.CourseCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	g := &model.GradeRecord{
		StudentID:    req.StudentID,
		AssessmentID: assessmentID,
		Score:        req.Score,
		Feedback:     req.Feedback,
		GraderID:     graderID,
	}
	if req.Score != nil {
		now := time.Now()
		g.GradedAt = &now
	}

	if err := s.GradeRepo.Upsert(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GradingService) ListGrades(ctx context.Context, assessmentID uint) ([]model.GradeRecord, error) {
	if _, err := s.AssessmentRepo.FindByID(ctx, assessmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return s.GradeRepo.ListByAssessment(ctx, assessmentID)
}
