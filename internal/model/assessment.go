package model

import (
	"time"
)

type AssessmentType string

const (
	AssessmentAssignment AssessmentType = "assignment"
	AssessmentQuiz       AssessmentType = "quiz"
	AssessmentMidterm    AssessmentType = "midterm"
	AssessmentFinal      AssessmentType = "final"
	AssessmentProject    AssessmentType = "project"
)

func (t AssessmentType) Valid() bool {
	switch t {
	case AssessmentAssignment, AssessmentQuiz, AssessmentMidterm, AssessmentFinal, AssessmentProject:
		return true
	}
	return false
}

// swagger:model Assessment
type Assessment struct {
	BaseModel
	CourseCode string         `gorm:"size:32;index;not null" json:"courseId"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Type       AssessmentType `gorm:"size:20;not null" json:"type"`
	TotalMarks float64        `gorm:"not null" json:"totalMarks"`
	Weight     *float64       `json:"weight,omitempty"`
	DueAt      *time.Time     `json:"dueAt,omitempty"`
	CreatorID  uint           `gorm:"index" json:"creatorId"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// swagger:model GradeRecord
type GradeRecord struct {
	BaseModel
	StudentID    uint       `gorm:"uniqueIndex:idx_grade_student_assessment;not null" json:"studentId"`
	AssessmentID uint       `gorm:"uniqueIndex:idx_grade_student_assessment;not null" json:"assessmentId"`
	Score        *float64   `json:"score"`
	Feedback     string     `gorm:"type:text" json:"feedback,omitempty"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
	GraderID     uint       `json:"graderId,omitempty"`
}

func (GradeRecord) TableName() string {
	return "grade_records"
}
