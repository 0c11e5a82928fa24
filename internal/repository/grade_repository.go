package repository

import (
	"campus_backend/internal/model"
	"campus_backend/internal/progress"
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) Find(ctx context.Context, studentID, assessmentID uint) (*model.GradeRecord, error) {
	var g model.GradeRecord
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		First(&g).Error
	return &g, err
}

// Upsert stores g, overwriting any earlier grade for the same student and assessment.
func (r *GradeRepository) Upsert(ctx context.Context, g *model.GradeRecord) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.GradeRecord
		err := tx.Where("student_id = ? AND assessment_id = ?", g.StudentID, g.AssessmentID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(g).Error
		}
		if err != nil {
			return err
		}

		g.ID = existing.ID
		g.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Select("score", "feedback", "graded_at", "grader_id").Updates(map[string]interface{}{
			"score":     g.Score,
			"feedback":  g.Feedback,
			"graded_at": g.GradedAt,
			"grader_id": g.GraderID,
		}).Error
	})
}

func (r *GradeRepository) ListByAssessment(ctx context.Context, assessmentID uint) ([]model.GradeRecord, error) {
	var list []model.GradeRecord
	err := r.DB.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("student_id ASC").
		Find(&list).Error
	return list, err
}

type gradeRow struct {
	AssessmentID uint
	CourseCode   string
	Name         string
	TotalMarks   float64
	Weight       *float64
	Score        *float64
}

// ListGradeTuples returns one entry per assessment of every course the student has not dropped,
// with a nil score where no grade was recorded.
func (r *GradeRepository) ListGradeTuples(ctx context.Context, studentID uint) ([]progress.GradeEntry, error) {
	active := r.DB.Model(&model.Enrollment{}).
		Select("course_code").
		Where("student_id = ? AND status <> ?", studentID, model.EnrollmentDropped)

	var rows []gradeRow
	err := r.DB.WithContext(ctx).
		Table("assessments AS a").
		Select("a.id AS assessment_id, a.course_code, a.name, a.total_marks, a.weight, g.score").
		Joins("LEFT JOIN grade_records AS g ON g.assessment_id = a.id AND g.student_id = ? AND g.deleted_at IS NULL", studentID).
		Where("a.deleted_at IS NULL").
		Where("a.course_code IN (?)", active).
		Order("a.course_code ASC, a.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]progress.GradeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, progress.GradeEntry{
			AssessmentID:   strconv.FormatUint(uint64(row.AssessmentID), 10),
			CourseID:       row.CourseCode,
			AssessmentName: row.Name,
			Score:          row.Score,
			TotalMarks:     row.TotalMarks,
			Weight:         row.Weight,
		})
	}
	return entries, nil
}
