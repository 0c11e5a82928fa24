package service

import (
	"campus_backend/internal/model"
	"campus_backend/internal/testutil"
	"campus_backend/internal/util"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChain(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.catalog.Import(context.Background(), []CourseRequest{
		course("CS101", "CS", "Introductory", 3),
		course("CS201", "CS", "Intermediate", 3, "CS101"),
	}))
}

func TestEnrollmentService_LockedCourseIsRefused(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)
	ctx := context.Background()
	student := testutil.User(t, f.db, "s@campus.edu", model.Student)

	_, err := f.enrollment.Enroll(ctx, student.ID, "CS201")
	require.ErrorIs(t, err, util.ErrCourseLocked)
	assert.Contains(t, err.Error(), "CS101")

	intro, err := f.enrollment.Enroll(ctx, student.ID, "CS101")
	require.NoError(t, err)
	_, err = f.enrollment.Enroll(ctx, student.ID, "CS201")
	require.ErrorIs(t, err, util.ErrCourseLocked, "enrolled is not completed")

	_, err = f.enrollment.Complete(ctx, intro.ID)
	require.NoError(t, err)

	e, err := f.enrollment.Enroll(ctx, student.ID, "CS201")
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentEnrolled, e.Status)
}

func TestEnrollmentService_OneActiveRecordPerCourse(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)
	ctx := context.Background()
	student := testutil.User(t, f.db, "s@campus.edu", model.Student)

	e, err := f.enrollment.Enroll(ctx, student.ID, "CS101")
	require.NoError(t, err)
	_, err = f.enrollment.Enroll(ctx, student.ID, "CS101")
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	_, err = f.enrollment.Drop(ctx, e.ID, student.ID, model.Student)
	require.NoError(t, err)

	again, err := f.enrollment.Enroll(ctx, student.ID, "CS101")
	require.NoError(t, err)
	_, err = f.enrollment.Complete(ctx, again.ID)
	require.NoError(t, err)

	_, err = f.enrollment.Enroll(ctx, student.ID, "CS101")
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled, "completed courses cannot be retaken")
}

func TestEnrollmentService_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)
	ctx := context.Background()
	student := testutil.User(t, f.db, "s@campus.edu", model.Student)

	e, err := f.enrollment.Enroll(ctx, student.ID, "CS101")
	require.NoError(t, err)
	_, err = f.enrollment.Complete(ctx, e.ID)
	require.NoError(t, err)

	_, err = f.enrollment.Complete(ctx, e.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentTerminal)
	_, err = f.enrollment.Drop(ctx, e.ID, 0, model.Teacher)
	assert.ErrorIs(t, err, util.ErrEnrollmentTerminal)

	_, err = f.enrollment.Complete(ctx, 9999)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestEnrollmentService_StudentCannotDropSomeoneElse(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)
	ctx := context.Background()
	alice := testutil.User(t, f.db, "alice@campus.edu", model.Student)
	bob := testutil.User(t, f.db, "bob@campus.edu", model.Student)

	e, err := f.enrollment.Enroll(ctx, alice.ID, "CS101")
	require.NoError(t, err)

	_, err = f.enrollment.Drop(ctx, e.ID, bob.ID, model.Student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestEnrollmentService_UnknownCourse(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)

	_, err := f.enrollment.Enroll(context.Background(), 1, "NOPE")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollmentService_ConcurrentEnrollCreatesOneRecord(t *testing.T) {
	f := newFixture(t)
	seedChain(t, f)
	ctx := context.Background()
	student := testutil.User(t, f.db, "s@campus.edu", model.Student)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.enrollment.Enroll(ctx, student.ID, "CS101")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
	}
	assert.Equal(t, 1, succeeded)

	var live int64
	require.NoError(t, f.db.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_code = ? AND status <> ?", student.ID, "CS101", model.EnrollmentDropped).
		Count(&live).Error)
	assert.Equal(t, int64(1), live)
}
