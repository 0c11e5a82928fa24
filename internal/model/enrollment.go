package model

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Terminal reports whether the status can no longer change.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentCompleted || s == EnrollmentDropped
}

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID  uint             `gorm:"index:idx_enrollment_student_course;uniqueIndex:idx_enrollment_active;not null" json:"studentId"`
	CourseCode string           `gorm:"size:32;index:idx_enrollment_student_course;uniqueIndex:idx_enrollment_active;not null" json:"courseId"`
	Status     EnrollmentStatus `gorm:"size:20;default:'enrolled';not null" json:"status"`
	// Active is true while the record is not dropped and NULL afterwards; NULLs are
	// distinct in a unique index, so any number of dropped rows may coexist with one live row.
	Active      *bool      `gorm:"uniqueIndex:idx_enrollment_active" json:"-"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DroppedAt   *time.Time `json:"droppedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// BeforeSave keeps Active in step with Status on every create and save.
func (e *Enrollment) BeforeSave(tx *gorm.DB) error {
	e.Active = nil
	if e.Status != EnrollmentDropped {
		active := true
		e.Active = &active
	}
	return nil
}
