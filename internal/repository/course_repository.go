package repository

import (
	"campus_backend/internal/model"
	"campus_backend/internal/progress"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogCheck validates the catalog as it would look after a write; a non-nil error rolls the write back.
type CatalogCheck func(records []progress.CourseRecord) error

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func toRecord(c *model.Course) progress.CourseRecord {
	return progress.CourseRecord{
		ID:            c.Code,
		Title:         c.Title,
		SubjectArea:   c.SubjectArea,
		Difficulty:    c.Difficulty,
		Credits:       c.Credits,
		Prerequisites: c.PrerequisiteCodes(),
	}
}

func listCatalog(tx *gorm.DB) ([]progress.CourseRecord, error) {
	var courses []model.Course
	err := tx.
		Preload("Prerequisites", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at ASC, code ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	records := make([]progress.CourseRecord, 0, len(courses))
	for i := range courses {
		records = append(records, toRecord(&courses[i]))
	}
	return records, nil
}

// ListCatalog returns every course with its declared prerequisites, oldest first.
func (r *CourseRepository) ListCatalog(ctx context.Context) ([]progress.CourseRecord, error) {
	return listCatalog(r.DB.WithContext(ctx))
}

func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Prerequisites", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("code = ?", code).
		First(&course).Error
	return &course, err
}

// CourseDraft is a course row together with the full prerequisite set it should end up with.
type CourseDraft struct {
	Course        model.Course
	Prerequisites []string
}

// Save creates or updates the course row, replaces its prerequisite edges and runs check on the result.
func (r *CourseRepository) Save(ctx context.Context, course *model.Course, prerequisites []string, check CatalogCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCatalog(tx); err != nil {
			return err
		}
		if err := saveCourse(tx, course, prerequisites); err != nil {
			return err
		}
		return runCheck(tx, check)
	})
}

// Create inserts a new course with its prerequisite edges. A taken code fails with gorm.ErrDuplicatedKey.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course, prerequisites []string, check CatalogCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCatalog(tx); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Course{}).Where("code = ?", course.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		if err := tx.Omit("Prerequisites").Create(course).Error; err != nil {
			return err
		}
		if err := replacePrerequisites(tx, course.Code, prerequisites); err != nil {
			return err
		}
		return runCheck(tx, check)
	})
}

// SaveAll writes every draft in one transaction and checks the catalog once at the end.
func (r *CourseRepository) SaveAll(ctx context.Context, drafts []CourseDraft, check CatalogCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCatalog(tx); err != nil {
			return err
		}
		for i := range drafts {
			if err := saveCourse(tx, &drafts[i].Course, drafts[i].Prerequisites); err != nil {
				return err
			}
		}
		return runCheck(tx, check)
	})
}

func saveCourse(tx *gorm.DB, course *model.Course, prerequisites []string) error {
	var existing model.Course
	err := tx.Where("code = ?", course.Code).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Omit("Prerequisites").Create(course).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		course.CreatedAt = existing.CreatedAt
		err := tx.Model(&existing).Updates(map[string]interface{}{
			"title":        course.Title,
			"subject_area": course.SubjectArea,
			"difficulty":   course.Difficulty,
			"credits":      course.Credits,
			"description":  course.Description,
		}).Error
		if err != nil {
			return err
		}
	}
	return replacePrerequisites(tx, course.Code, prerequisites)
}

// ReplacePrerequisites swaps the prerequisite set of an existing course.
func (r *CourseRepository) ReplacePrerequisites(ctx context.Context, code string, prerequisites []string, check CatalogCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCatalog(tx); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Course{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := replacePrerequisites(tx, code, prerequisites); err != nil {
			return err
		}
		return runCheck(tx, check)
	})
}

// Delete removes the course and its outgoing edges. Edges pointing at it are kept and become dangling.
func (r *CourseRepository) Delete(ctx context.Context, code string, check CatalogCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCatalog(tx); err != nil {
			return err
		}
		res := tx.Where("code = ?", code).Delete(&model.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("course_code = ?", code).Delete(&model.CoursePrerequisite{}).Error; err != nil {
			return err
		}
		return runCheck(tx, check)
	})
}

// lockCatalog takes the catalog write lock for the rest of tx and bumps the revision.
// SQLite has no row locks and relies on its single writer instead.
func lockCatalog(tx *gorm.DB) error {
	var rev model.CatalogRevision
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rev, model.CatalogRevisionID).Error
	if err != nil {
		return err
	}
	return tx.Model(&rev).Update("revision", gorm.Expr("revision + 1")).Error
}

// Revision returns the number of catalog writes committed so far.
func (r *CourseRepository) Revision(ctx context.Context) (uint64, error) {
	var rev model.CatalogRevision
	err := r.DB.WithContext(ctx).First(&rev, model.CatalogRevisionID).Error
	return rev.Revision, err
}

func replacePrerequisites(tx *gorm.DB, code string, prerequisites []string) error {
	if err := tx.Where("course_code = ?", code).Delete(&model.CoursePrerequisite{}).Error; err != nil {
		return err
	}
	if len(prerequisites) == 0 {
		return nil
	}

	edges := make([]model.CoursePrerequisite, 0, len(prerequisites))
	seen := make(map[string]bool, len(prerequisites))
	for _, p := range prerequisites {
		if seen[p] {
			continue
		}
		seen[p] = true
		edges = append(edges, model.CoursePrerequisite{CourseCode: code, PrerequisiteCode: p})
	}
	return tx.Create(&edges).Error
}

func runCheck(tx *gorm.DB, check CatalogCheck) error {
	if check == nil {
		return nil
	}
	records, err := listCatalog(tx)
	if err != nil {
		return err
	}
	return check(records)
}
