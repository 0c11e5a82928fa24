package model

import "time"

// CourseCodeMaxLen matches the size of the courses.code column.
const CourseCodeMaxLen = 32

// swagger:model Course
type Course struct {
	Code        string    `gorm:"primaryKey;size:32" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	SubjectArea string    `gorm:"size:100;index;not null" json:"subjectArea"`
	Difficulty  string    `gorm:"size:20;not null" json:"difficulty"`
	Credits     int       `gorm:"not null" json:"credits"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Prerequisites []CoursePrerequisite `gorm:"foreignKey:CourseCode;references:Code" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// PrerequisiteCodes returns the declared prerequisite codes in row order.
func (c *Course) PrerequisiteCodes() []string {
	codes := make([]string, 0, len(c.Prerequisites))
	for _, p := range c.Prerequisites {
		codes = append(codes, p.PrerequisiteCode)
	}
	return codes
}

// CoursePrerequisite is one edge of the prerequisite graph: CourseCode requires PrerequisiteCode.
// PrerequisiteCode is deliberately not a foreign key so a removed course leaves a dangling edge.
type CoursePrerequisite struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseCode       string `gorm:"size:32;not null;uniqueIndex:idx_course_prereq" json:"courseId"`
	PrerequisiteCode string `gorm:"size:32;not null;uniqueIndex:idx_course_prereq;index" json:"prerequisiteId"`
}

func (CoursePrerequisite) TableName() string {
	return "course_prerequisites"
}

// CatalogRevisionID is the primary key of the only catalog_revisions row.
const CatalogRevisionID = 1

// CatalogRevision is a single-row table that catalog writers lock for the length of
// their transaction, so catalog validation and the write it guards run one writer at a time.
type CatalogRevision struct {
	ID        uint   `gorm:"primaryKey"`
	Revision  uint64 `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (CatalogRevision) TableName() string {
	return "catalog_revisions"
}
