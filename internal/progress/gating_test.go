package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLocked_NoPrerequisitesIsAlwaysOpen(t *testing.T) {
	cat := mustLoad(t, sampleRecords())
	intro, _ := cat.Course("CS101")

	for _, set := range []CompletedSet{nil, NewCompletedSet(), NewCompletedSet("CS101", "MATH101", "X")} {
		assert.False(t, IsLocked(intro, set))
	}
}

func TestIsLocked_ConjunctiveOverDirectPrerequisites(t *testing.T) {
	cat := mustLoad(t, sampleRecords())
	algo, _ := cat.Course("CS301")

	assert.True(t, IsLocked(algo, NewCompletedSet()))
	assert.True(t, IsLocked(algo, NewCompletedSet("CS201")), "partial completion must not unlock")
	assert.True(t, IsLocked(algo, NewCompletedSet("MATH101")))
	assert.False(t, IsLocked(algo, NewCompletedSet("CS201", "MATH101")))
}

func TestIsLocked_FlipsWhenAnyRequirementIsRemoved(t *testing.T) {
	cat := mustLoad(t, sampleRecords())

	for _, course := range cat.Courses() {
		full := NewCompletedSet(course.Prerequisites...)
		require.False(t, IsLocked(course, full), course.ID)

		for _, p := range course.Prerequisites {
			without := NewCompletedSet()
			for id := range full {
				if id != p {
					without[id] = struct{}{}
				}
			}
			assert.True(t, IsLocked(course, without), "%s without %s", course.ID, p)
		}
	}
}

func TestIsLocked_DirectOnly(t *testing.T) {
	cat := mustLoad(t, sampleRecords())
	algo, _ := cat.Course("CS301")

	// CS101 is an indirect requirement of CS301; it is not checked.
	assert.False(t, IsLocked(algo, NewCompletedSet("CS201", "MATH101")))
}

func TestIsLocked_UnknownPrerequisiteStaysLocked(t *testing.T) {
	cat := mustLoad(t, []CourseRecord{
		{ID: "CS201", SubjectArea: "CS", Difficulty: "Intermediate", Credits: 3, Prerequisites: []string{"CS100"}},
	})
	course, _ := cat.Course("CS201")

	assert.True(t, IsLocked(course, NewCompletedSet()))
	assert.True(t, IsLocked(course, NewCompletedSet("CS100")), "stale completion of a removed course must not unlock")
	assert.Equal(t, []string{"CS100"}, MissingPrerequisites(course, NewCompletedSet("CS100")))
}

func TestIsLocked_Monotonic(t *testing.T) {
	cat := mustLoad(t, sampleRecords())
	ids := make([]string, 0, cat.Len())
	for _, c := range cat.Courses() {
		ids = append(ids, c.ID)
	}

	subset := func(mask int) CompletedSet {
		s := NewCompletedSet()
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				s[id] = struct{}{}
			}
		}
		return s
	}

	n := 1 << len(ids)
	for small := 0; small < n; small++ {
		for large := 0; large < n; large++ {
			if small&large != small {
				continue
			}
			s1, s2 := subset(small), subset(large)
			for _, c := range cat.Courses() {
				if !IsLocked(c, s1) {
					assert.False(t, IsLocked(c, s2), "adding completions re-locked %s", c.ID)
				}
			}
		}
	}
}

func TestCompletedSetFrom_OnlyCompletedCounts(t *testing.T) {
	set := CompletedSetFrom([]EnrollmentRecord{
		{CourseID: "CS101", Status: StatusCompleted},
		{CourseID: "CS201", Status: StatusEnrolled},
		{CourseID: "MATH101", Status: StatusDropped},
		{CourseID: "MATH101", Status: StatusCompleted},
		{CourseID: "PHYS101", Status: "archived"},
	})

	assert.Equal(t, NewCompletedSet("CS101", "MATH101"), set)
}

func TestGate_AnnotatesEveryCourseInOrder(t *testing.T) {
	cat := mustLoad(t, sampleRecords())

	results := Gate(cat, NewCompletedSet("CS101", "MATH101"))
	require.Len(t, results, 5)
	assert.Equal(t, GateResult{CourseID: "CS101", Locked: false}, results[0])
	assert.Equal(t, GateResult{CourseID: "CS201", Locked: false}, results[2])
	assert.Equal(t, GateResult{CourseID: "CS301", Locked: true, Missing: []string{"CS201"}}, results[3])
	assert.Equal(t, GateResult{CourseID: "PHYS101", Locked: false}, results[4])
}

func TestFilterSubjects_FirstSeenOrderWithAllFirst(t *testing.T) {
	courses := []Course{
		{ID: "1", SubjectArea: "Physics"},
		{ID: "2", SubjectArea: "Biology"},
		{ID: "3", SubjectArea: "Physics"},
		{ID: "4", SubjectArea: "Art"},
		{ID: "5", SubjectArea: "Biology"},
	}

	assert.Equal(t, []string{"All", "Physics", "Biology", "Art"}, FilterSubjects(courses))
	assert.Equal(t, []string{"All"}, FilterSubjects(nil))
}

func TestFilterSubjects_DoesNotRepeatAll(t *testing.T) {
	assert.Equal(t, []string{"All", "Math"}, FilterSubjects([]Course{{SubjectArea: "All"}, {SubjectArea: "Math"}}))
}
