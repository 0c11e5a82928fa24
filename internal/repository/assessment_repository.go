package repository

import (
	"campus_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssessmentRepository) FindByID(ctx context.Context, id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) ListByCourse(ctx context.Context, courseCode string) ([]model.Assessment, error) {
	var list []model.Assessment
	err := r.DB.WithContext(ctx).
		Where("course_code = ?", courseCode).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *AssessmentRepository) Update(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

// Delete soft-deletes the assessment and its grade records.
func (r *AssessmentRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Assessment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("assessment_id = ?", id).Delete(&model.GradeRecord{}).Error
	})
}
