package service

import (
	"campus_backend/internal/model"
	"campus_backend/internal/progress"
	"campus_backend/internal/testutil"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// three completed courses of 3, 4 and 2 credits averaging 80, 60 and ungraded
func seedTranscript(t *testing.T, f *fixture) *model.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.catalog.Import(ctx, []CourseRequest{
		course("A", "X", "Introductory", 3),
		course("B", "X", "Introductory", 4),
		course("C", "Y", "Introductory", 2),
	}))

	student := testutil.User(t, f.db, "s@campus.edu", model.Student)
	for _, code := range []string{"A", "B", "C"} {
		testutil.Enrollment(t, f.db, student.ID, code, model.EnrollmentCompleted)
	}
	a := testutil.Assessment(t, f.db, "A", "Exam A", 100, nil)
	b := testutil.Assessment(t, f.db, "B", "Exam B", 100, nil)
	testutil.Assessment(t, f.db, "C", "Exam C", 100, nil)
	testutil.Grade(t, f.db, student.ID, a.ID, testutil.Float(80))
	testutil.Grade(t, f.db, student.ID, b.ID, testutil.Float(60))
	return student
}

func TestProgressService_Summary(t *testing.T) {
	f := newFixture(t)
	student := seedTranscript(t, f)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.progress.Now = func() time.Time { return fixed }

	view, err := f.progress.Summary(context.Background(), student.ID)
	require.NoError(t, err)

	require.True(t, view.GPA.Defined)
	assert.Equal(t, 68.57, view.GPA.Value)
	assert.Equal(t, "68.6%", view.GPADisplay)
	assert.Equal(t, 9, view.CompletedCredits)
	assert.Empty(t, view.Warnings)
	assert.Equal(t, fixed, view.GeneratedAt)

	require.Len(t, view.Courses, 3)
	byID := map[string]CourseSummaryView{}
	for _, c := range view.Courses {
		byID[c.CourseID] = c
	}
	assert.Equal(t, progress.Percent(80), byID["A"].RunningAverage)
	assert.Equal(t, 3, byID["A"].Credits)
	assert.False(t, byID["C"].RunningAverage.Defined)
	assert.Equal(t, progress.NotAvailable, byID["C"].Display)
	require.Len(t, byID["C"].Assignments, 1)
	assert.Equal(t, progress.NotAvailable, byID["C"].Assignments[0].Percentage)
	assert.Equal(t, "80.0%", byID["A"].Assignments[0].Percentage)
}

func TestProgressService_SummaryIgnoresDroppedCourses(t *testing.T) {
	f := newFixture(t)
	student := seedTranscript(t, f)

	// a dropped course's grades never reach the aggregator
	require.NoError(t, f.catalog.Import(context.Background(), []CourseRequest{course("D", "X", "Introductory", 5)}))
	testutil.Enrollment(t, f.db, student.ID, "D", model.EnrollmentDropped)
	d := testutil.Assessment(t, f.db, "D", "Exam D", 100, nil)
	testutil.Grade(t, f.db, student.ID, d.ID, testutil.Float(0))

	view, err := f.progress.Summary(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 68.57, view.GPA.Value)
	assert.Len(t, view.Courses, 3)
}

func TestProgressService_SummarySurfacesWarnings(t *testing.T) {
	f := newFixture(t)
	student := seedTranscript(t, f)
	broken := testutil.Assessment(t, f.db, "A", "Broken", 0, nil)
	testutil.Grade(t, f.db, student.ID, broken.ID, testutil.Float(5))

	view, err := f.progress.Summary(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 68.57, view.GPA.Value)
	require.Len(t, view.Warnings, 1)
	assert.Equal(t, progress.WarnNonPositiveTotal, view.Warnings[0].Kind)
}

func TestProgressService_SummaryFailsOnCorruptCatalog(t *testing.T) {
	f := newFixture(t)
	testutil.Course(t, f.db, "A", "X", "Introductory", 3, "A")

	_, err := f.progress.Summary(context.Background(), 1)
	assert.ErrorIs(t, err, progress.ErrCatalogIntegrity)
}

func TestProgressService_Gating(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)
	student := testutil.User(t, f.db, "s@campus.edu", model.Student)

	results, err := f.progress.Gating(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Locked)
	assert.True(t, results[1].Locked)
	assert.Equal(t, []string{"CS101"}, results[1].Missing)
}

func TestProgressService_ExportSummaryWritesJSON(t *testing.T) {
	f := newFixture(t)
	student := seedTranscript(t, f)

	res, err := f.progress.ExportSummary(context.Background(), student.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "exports/summaries/"))
	assert.True(t, strings.HasSuffix(res.URL, res.Key))

	raw, err := os.ReadFile(filepath.Join(f.cfg.Storage.LocalPath, filepath.FromSlash(res.Key)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 68.57, decoded["gpa"])
	assert.Equal(t, 9.0, decoded["completedCredits"])
	assert.Len(t, decoded["courses"], 3)
}
