package repository

import (
	"campus_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).First(&e, id).Error
	return &e, err
}

// FindActive returns the student's enrolled or completed record for the course.
func (r *EnrollmentRepository) FindActive(ctx context.Context, studentID uint, courseCode string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_code = ? AND status <> ?", studentID, courseCode, model.EnrollmentDropped).
		Order("id DESC").
		First(&e).Error
	return &e, err
}

// CreateUnlessActive inserts e unless the student already holds a non-dropped record for the course.
// It reports false when an active record exists, including one committed by a concurrent
// request between the check and the insert (caught by idx_enrollment_active).
func (r *EnrollmentRepository) CreateUnlessActive(ctx context.Context, e *model.Enrollment) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Enrollment{}).
			Where("student_id = ? AND course_code = ? AND status <> ?", e.StudentID, e.CourseCode, model.EnrollmentDropped).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	return created, err
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseCode string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("course_code = ? AND status <> ?", courseCode, model.EnrollmentDropped).
		Order("student_id ASC").
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) Update(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Save(e).Error
}
