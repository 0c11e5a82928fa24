package service

import (
	"bytes"
	"campus_backend/internal/progress"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"campus_backend/pkg/logger"
	"campus_backend/pkg/monitoring"
	"campus_backend/pkg/tracing"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// 课程平均分保留两位小数
const courseAveragePlaces = 2

type ProgressService struct {
	Catalog     *CatalogService
	Enrollments *EnrollmentService
	GradeRepo   *repository.GradeRepository
	Storage     *StorageService
	Now         func() time.Time
}

func NewProgressService(catalog *CatalogService, enrollments *EnrollmentService, gradeRepo *repository.GradeRepository, storage *StorageService) *ProgressService {
	return &ProgressService{
		Catalog:     catalog,
		Enrollments: enrollments,
		GradeRepo:   gradeRepo,
		Storage:     storage,
		Now:         time.Now,
	}
}

func reportWarnings(studentID uint, warnings []progress.DataIntegrityWarning) {
	for _, w := range warnings {
		monitoring.IntegrityWarnings.WithLabelValues(string(w.Kind)).Inc()
		logger.Log.Warn("Data integrity warning",
			zap.Uint("studentID", studentID),
			zap.String("kind", string(w.Kind)),
			zap.String("course", w.CourseID),
			zap.String("assessment", w.AssessmentID),
			zap.String("detail", w.Message),
		)
	}
}

// Gating reports, for every catalog course, whether the student may enroll.
func (s *ProgressService) Gating(ctx context.Context, studentID uint) ([]progress.GateResult, error) {
	cat, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.Enrollments.CompletedSet(ctx, studentID)
	if err != nil {
		return nil, err
	}

	reportWarnings(studentID, cat.DanglingWarnings())
	return progress.Gate(cat, completed), nil
}

type AssignmentView struct {
	AssessmentID string   `json:"assessmentId"`
	Name         string   `json:"name"`
	Score        *float64 `json:"score"`
	MaxScore     float64  `json:"maxScore"`
	Weight       *float64 `json:"weight,omitempty"`
	Percentage   string   `json:"percentage"`
}

type CourseSummaryView struct {
	CourseID       string           `json:"courseId"`
	Title          string           `json:"title,omitempty"`
	Credits        int              `json:"credits,omitempty"`
	RunningAverage progress.Average `json:"runningAverage"`
	Display        string           `json:"display"`
	Assignments    []AssignmentView `json:"assignments"`
}

type SummaryView struct {
	StudentID        uint                            `json:"studentId"`
	GPA              progress.Average                `json:"gpa"`
	GPADisplay       string                          `json:"gpaDisplay"`
	CompletedCredits int                             `json:"completedCredits"`
	Courses          []CourseSummaryView             `json:"courses"`
	Warnings         []progress.DataIntegrityWarning `json:"warnings"`
	GeneratedAt      time.Time                       `json:"generatedAt"`
}

func buildView(studentID uint, cat *progress.Catalog, sum progress.Summary, at time.Time) *SummaryView {
	view := &SummaryView{
		StudentID:        studentID,
		GPA:              sum.GPA,
		GPADisplay:       sum.GPA.String(),
		CompletedCredits: sum.CompletedCredits,
		Courses:          make([]CourseSummaryView, 0, len(sum.Courses)),
		Warnings:         sum.Warnings,
		GeneratedAt:      at,
	}
	if view.Warnings == nil {
		view.Warnings = []progress.DataIntegrityWarning{}
	}

	for _, cs := range sum.Courses {
		cv := CourseSummaryView{
			CourseID:       cs.CourseID,
			RunningAverage: cs.RunningAverage.Rounded(courseAveragePlaces),
			Display:        cs.RunningAverage.String(),
			Assignments:    make([]AssignmentView, 0, len(cs.Assignments)),
		}
		if c, ok := cat.Course(cs.CourseID); ok {
			cv.Title = c.Title
			cv.Credits = c.Credits
		}
		for _, line := range cs.Assignments {
			cv.Assignments = append(cv.Assignments, AssignmentView{
				AssessmentID: line.AssessmentID,
				Name:         line.Name,
				Score:        line.Score,
				MaxScore:     line.MaxScore,
				Weight:       line.Weight,
				Percentage:   progress.FormatPercentage(line.Score, line.MaxScore),
			})
		}
		view.Courses = append(view.Courses, cv)
	}
	return view
}

// Summary computes course running averages, credit-weighted GPA and completed credits for a student.
func (s *ProgressService) Summary(ctx context.Context, studentID uint) (*SummaryView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "progress.Summary")
	defer span.End()
	span.SetAttributes(attribute.Int64("student.id", int64(studentID)))

	cat, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog snapshot")
		return nil, err
	}
	enrollments, err := s.Enrollments.Records(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	grades, err := s.GradeRepo.ListGradeTuples(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sum := progress.Summarize(progress.SummaryInput{
		Catalog:     cat,
		Enrollments: enrollments,
		Grades:      grades,
	})
	reportWarnings(studentID, sum.Warnings)

	span.SetAttributes(
		attribute.Int("summary.courses", len(sum.Courses)),
		attribute.Int("summary.warnings", len(sum.Warnings)),
		attribute.Bool("summary.gpa_defined", sum.GPA.Defined),
	)
	return buildView(studentID, cat, sum, s.Now()), nil
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportSummary writes the student's summary as JSON to object storage.
func (s *ProgressService) ExportSummary(ctx context.Context, studentID uint) (*ExportResult, error) {
	view, err := s.Summary(ctx, studentID)
	if err != nil {
		return nil, err
	}

	raw, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d/%s.json", util.ExportPrefix, studentID, uuid.NewString())
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), util.MimeJSON)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Summary exported", zap.Uint("studentID", studentID), zap.String("key", key))
	return &ExportResult{Key: key, URL: url}, nil
}
