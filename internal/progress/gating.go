package progress

import "sort"

type EnrollmentStatus string

const (
	StatusEnrolled  EnrollmentStatus = "enrolled"
	StatusCompleted EnrollmentStatus = "completed"
	StatusDropped   EnrollmentStatus = "dropped"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case StatusEnrolled, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// EnrollmentRecord is the {courseId, status} pair returned by the enrollment source for one student.
type EnrollmentRecord struct {
	CourseID string           `json:"courseId"`
	Status   EnrollmentStatus `json:"status"`
}

// CompletedSet is the set of course IDs a student has at least one completed enrollment for.
type CompletedSet map[string]struct{}

func NewCompletedSet(ids ...string) CompletedSet {
	s := make(CompletedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// CompletedSetFrom derives the set from enrollment records; statuses other than completed are ignored.
func CompletedSetFrom(records []EnrollmentRecord) CompletedSet {
	s := make(CompletedSet)
	for _, r := range records {
		if r.Status == StatusCompleted {
			s[r.CourseID] = struct{}{}
		}
	}
	return s
}

func (s CompletedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IsLocked reports whether course stays closed for a student with the given completions.
// Gating is conjunctive over direct prerequisites only. A prerequisite that is missing
// from the catalog can never be satisfied.
func IsLocked(course Course, completed CompletedSet) bool {
	if len(course.Prerequisites) == 0 {
		return false
	}
	if len(course.unresolved) > 0 {
		return true
	}
	for _, p := range course.Prerequisites {
		if !completed.Has(p) {
			return true
		}
	}
	return false
}

// MissingPrerequisites lists the direct prerequisites still blocking course, sorted.
func MissingPrerequisites(course Course, completed CompletedSet) []string {
	var missing []string
	for _, p := range course.Prerequisites {
		if _, unresolved := course.unresolved[p]; unresolved || !completed.Has(p) {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}

type GateResult struct {
	CourseID string   `json:"courseId"`
	Locked   bool     `json:"locked"`
	Missing  []string `json:"missing,omitempty"`
}

// Gate annotates every catalog course, in catalog order.
func Gate(cat *Catalog, completed CompletedSet) []GateResult {
	out := make([]GateResult, 0, cat.Len())
	for _, course := range cat.courses {
		out = append(out, GateResult{
			CourseID: course.ID,
			Locked:   IsLocked(course, completed),
			Missing:  MissingPrerequisites(course, completed),
		})
	}
	return out
}

// FilterSubjects builds the subject dropdown: AllFilter first, then each distinct
// subject in first-seen order. The order is part of the UI contract; do not sort.
func FilterSubjects(courses []Course) []string {
	out := []string{AllFilter}
	seen := map[string]struct{}{AllFilter: {}}
	for _, c := range courses {
		if _, ok := seen[c.SubjectArea]; ok {
			continue
		}
		seen[c.SubjectArea] = struct{}{}
		out = append(out, c.SubjectArea)
	}
	return out
}
