package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// GPAPlaces is the number of decimals the credit-weighted summary is rounded to.
const GPAPlaces = 2

// GradeEntry is one tuple from the grade source. A nil Score means the assessment
// exists but has not been graded yet.
type GradeEntry struct {
	AssessmentID   string   `json:"assessmentId"`
	CourseID       string   `json:"courseId"`
	AssessmentName string   `json:"assessmentName"`
	Score          *float64 `json:"score"`
	TotalMarks     float64  `json:"totalMarks"`
	Weight         *float64 `json:"weight"`
}

func (e GradeEntry) graded() bool {
	return e.Score != nil
}

func (e GradeEntry) ratio() float64 {
	if e.Score == nil {
		return -1
	}
	return *e.Score / e.TotalMarks
}

// Average is a percentage in [0, 100] that may be undefined. An undefined average
// (no graded work) is encoded as JSON null and is never the same thing as 0%.
type Average struct {
	Value   float64
	Defined bool
}

func Percent(v float64) Average {
	return Average{Value: v, Defined: true}
}

func (a Average) Rounded(places int) Average {
	if !a.Defined {
		return a
	}
	return Percent(Round(a.Value, places))
}

func (a Average) String() string {
	if !a.Defined {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", Round(a.Value, 1))
}

func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a *Average) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Average{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Percent(v)
	return nil
}

type AssessmentLine struct {
	AssessmentID string   `json:"assessmentId"`
	Name         string   `json:"name"`
	Score        *float64 `json:"score"`
	MaxScore     float64  `json:"maxScore"`
	Weight       *float64 `json:"weight,omitempty"`
}

type CourseSummary struct {
	CourseID       string           `json:"courseId"`
	RunningAverage Average          `json:"runningAverage"`
	Assignments    []AssessmentLine `json:"assignments"`
}

type AcademicSummary struct {
	GPA              Average `json:"gpa"`
	CompletedCredits int     `json:"completedCredits"`
}

// checkEntry returns a warning when the entry cannot take part in aggregation.
func checkEntry(e GradeEntry) *DataIntegrityWarning {
	if !(e.TotalMarks > 0) || math.IsInf(e.TotalMarks, 0) {
		return &DataIntegrityWarning{
			Kind:         WarnNonPositiveTotal,
			CourseID:     e.CourseID,
			AssessmentID: e.AssessmentID,
			Message:      fmt.Sprintf("total marks %v is not positive; assessment excluded", e.TotalMarks),
		}
	}
	if e.Weight != nil {
		w := *e.Weight
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return &DataIntegrityWarning{
				Kind:         WarnInvalidWeight,
				CourseID:     e.CourseID,
				AssessmentID: e.AssessmentID,
				Message:      fmt.Sprintf("weight %v is invalid; assessment excluded", w),
			}
		}
	}
	if e.Score != nil {
		s := *e.Score
		if s < 0 || s > e.TotalMarks || math.IsNaN(s) {
			return &DataIntegrityWarning{
				Kind:         WarnScoreOutOfRange,
				CourseID:     e.CourseID,
				AssessmentID: e.AssessmentID,
				Message:      fmt.Sprintf("score %v outside [0, %v]; assessment excluded", s, e.TotalMarks),
			}
		}
	}
	return nil
}

// sortedValid copies entries into a canonical order and drops the malformed ones.
// Summation always runs in this order so results do not depend on input order.
func sortedValid(entries []GradeEntry) ([]GradeEntry, []DataIntegrityWarning) {
	sorted := append([]GradeEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AssessmentID != sorted[j].AssessmentID {
			return sorted[i].AssessmentID < sorted[j].AssessmentID
		}
		return sorted[i].ratio() < sorted[j].ratio()
	})

	var warnings []DataIntegrityWarning
	valid := sorted[:0]
	for _, e := range sorted {
		if w := checkEntry(e); w != nil {
			warnings = append(warnings, *w)
			continue
		}
		valid = append(valid, e)
	}
	return valid, warnings
}

// RunningAverage reduces the grade entries of one course to a percentage.
//
// When any graded entry carries a weight the result is sum(ratio*w)/sum(w) over graded
// entries, so ungraded work neither contributes nor dilutes. Otherwise it is the plain
// mean of graded ratios. With nothing graded the average is undefined.
func RunningAverage(entries []GradeEntry) (Average, []DataIntegrityWarning) {
	valid, warnings := sortedValid(entries)

	weighted := false
	for _, e := range valid {
		if e.graded() && e.Weight != nil {
			weighted = true
			break
		}
	}

	if weighted {
		var num, den float64
		for _, e := range valid {
			if !e.graded() {
				continue
			}
			if e.Weight == nil {
				warnings = append(warnings, DataIntegrityWarning{
					Kind:         WarnMissingWeight,
					CourseID:     e.CourseID,
					AssessmentID: e.AssessmentID,
					Message:      "course uses weights but this assessment has none; assessment excluded",
				})
				continue
			}
			num += e.ratio() * *e.Weight
			den += *e.Weight
		}
		if den == 0 {
			return Average{}, warnings
		}
		return Percent(num / den * 100), warnings
	}

	var sum float64
	n := 0
	for _, e := range valid {
		if !e.graded() {
			continue
		}
		sum += e.ratio()
		n++
	}
	if n == 0 {
		return Average{}, warnings
	}
	return Percent(sum / float64(n) * 100), warnings
}

// SummarizeCourse builds the CourseSummary for courseID. Entries belonging to another
// course are reported and skipped; assignment lines keep the input order.
func SummarizeCourse(courseID string, entries []GradeEntry) (CourseSummary, []DataIntegrityWarning) {
	var warnings []DataIntegrityWarning
	own := make([]GradeEntry, 0, len(entries))
	for _, e := range entries {
		if e.CourseID != courseID {
			warnings = append(warnings, DataIntegrityWarning{
				Kind:         WarnCourseMismatch,
				CourseID:     e.CourseID,
				AssessmentID: e.AssessmentID,
				Message:      fmt.Sprintf("entry does not belong to course %q", courseID),
			})
			continue
		}
		own = append(own, e)
	}

	avg, avgWarnings := RunningAverage(own)
	warnings = append(warnings, avgWarnings...)

	lines := make([]AssessmentLine, 0, len(own))
	for _, e := range own {
		if checkEntry(e) != nil {
			continue
		}
		lines = append(lines, AssessmentLine{
			AssessmentID: e.AssessmentID,
			Name:         e.AssessmentName,
			Score:        e.Score,
			MaxScore:     e.TotalMarks,
			Weight:       e.Weight,
		})
	}

	return CourseSummary{
		CourseID:       courseID,
		RunningAverage: avg,
		Assignments:    lines,
	}, warnings
}

type SummaryInput struct {
	Catalog     *Catalog
	Enrollments []EnrollmentRecord
	Grades      []GradeEntry
}

// Summary is the aggregation result for one student. Warnings list every record
// that was excluded along the way.
type Summary struct {
	AcademicSummary
	Courses  []CourseSummary        `json:"courses"`
	Warnings []DataIntegrityWarning `json:"warnings"`
}

func lookupCredits(cat *Catalog, courseID string) (int, bool) {
	if cat == nil {
		return 0, false
	}
	course, ok := cat.Course(courseID)
	if !ok {
		return 0, false
	}
	return course.Credits, true
}

// Summarize computes every CourseSummary plus the credit-weighted AcademicSummary.
// Courses without a defined running average stay out of both sides of the GPA ratio.
// CompletedCredits counts completed enrollments regardless of grading.
func Summarize(in SummaryInput) Summary {
	var warnings []DataIntegrityWarning

	var order []string
	byCourse := make(map[string][]GradeEntry)
	for _, g := range in.Grades {
		if _, ok := byCourse[g.CourseID]; !ok {
			order = append(order, g.CourseID)
		}
		byCourse[g.CourseID] = append(byCourse[g.CourseID], g)
	}

	courses := make([]CourseSummary, 0, len(order))
	averages := make(map[string]Average, len(order))
	for _, id := range order {
		cs, w := SummarizeCourse(id, byCourse[id])
		warnings = append(warnings, w...)
		courses = append(courses, cs)
		averages[id] = cs.RunningAverage
	}

	ids := append([]string(nil), order...)
	sort.Strings(ids)
	var num float64
	var den int
	for _, id := range ids {
		avg := averages[id]
		if !avg.Defined {
			continue
		}
		credits, ok := lookupCredits(in.Catalog, id)
		if !ok {
			warnings = append(warnings, DataIntegrityWarning{
				Kind:     WarnUnknownCourse,
				CourseID: id,
				Message:  "graded course is not in the catalog; excluded from gpa",
			})
			continue
		}
		num += avg.Value * float64(credits)
		den += credits
	}

	var gpa Average
	if den > 0 {
		gpa = Percent(Round(num/float64(den), GPAPlaces))
	}

	completed := 0
	counted := make(map[string]struct{})
	for _, e := range in.Enrollments {
		if e.Status != StatusCompleted {
			continue
		}
		if _, ok := counted[e.CourseID]; ok {
			continue
		}
		counted[e.CourseID] = struct{}{}
		credits, ok := lookupCredits(in.Catalog, e.CourseID)
		if !ok {
			warnings = append(warnings, DataIntegrityWarning{
				Kind:     WarnUnknownEnrollment,
				CourseID: e.CourseID,
				Message:  "completed course is not in the catalog; credits not counted",
			})
			continue
		}
		completed += credits
	}

	return Summary{
		AcademicSummary: AcademicSummary{
			GPA:              gpa,
			CompletedCredits: completed,
		},
		Courses:  courses,
		Warnings: warnings,
	}
}
