package progress

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCatalogIntegrity matches every *CatalogIntegrityError through errors.Is.
var ErrCatalogIntegrity = errors.New("catalog integrity violation")

// CatalogIntegrityError is returned by LoadCatalog when the catalog cannot be served:
// a prerequisite cycle, or a malformed course record.
type CatalogIntegrityError struct {
	CourseID string
	Reason   string
	// Cycle holds the offending path with the first course repeated at the end, e.g. [A B A].
	Cycle []string
}

func (e *CatalogIntegrityError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("catalog integrity: prerequisite cycle %s", strings.Join(e.Cycle, " -> "))
	}
	if e.CourseID == "" {
		return "catalog integrity: " + e.Reason
	}
	return fmt.Sprintf("catalog integrity: course %q: %s", e.CourseID, e.Reason)
}

func (e *CatalogIntegrityError) Is(target error) bool {
	return target == ErrCatalogIntegrity
}

func newCycleError(path []string) *CatalogIntegrityError {
	return &CatalogIntegrityError{
		CourseID: path[0],
		Reason:   "prerequisite cycle",
		Cycle:    path,
	}
}

type WarningKind string

const (
	WarnNonPositiveTotal  WarningKind = "non_positive_total_marks"
	WarnScoreOutOfRange   WarningKind = "score_out_of_range"
	WarnInvalidWeight     WarningKind = "invalid_weight"
	WarnMissingWeight     WarningKind = "missing_weight"
	WarnUnknownCourse     WarningKind = "unknown_course"
	WarnCourseMismatch    WarningKind = "course_mismatch"
	WarnDanglingPrereq    WarningKind = "dangling_prerequisite"
	WarnUnknownEnrollment WarningKind = "unknown_enrollment_course"
)

// DataIntegrityWarning reports a record that was left out of a computation.
// Warnings travel next to the partial result; they never abort it.
type DataIntegrityWarning struct {
	Kind         WarningKind `json:"kind"`
	CourseID     string      `json:"courseId,omitempty"`
	AssessmentID string      `json:"assessmentId,omitempty"`
	Message      string      `json:"message"`
}

func (w DataIntegrityWarning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Kind))
	if w.CourseID != "" {
		b.WriteString(" course=")
		b.WriteString(w.CourseID)
	}
	if w.AssessmentID != "" {
		b.WriteString(" assessment=")
		b.WriteString(w.AssessmentID)
	}
	if w.Message != "" {
		b.WriteString(": ")
		b.WriteString(w.Message)
	}
	return b.String()
}
