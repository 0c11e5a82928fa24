package repository

import (
	"campus_backend/internal/model"
	"campus_backend/internal/progress"
	"campus_backend/internal/testutil"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validCatalog(records []progress.CourseRecord) error {
	_, err := progress.LoadCatalog(records)
	return err
}

func TestCourseRepository_ListCatalogCarriesPrerequisites(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	testutil.Course(t, db, "CS101", "CS", "Introductory", 3)
	testutil.Course(t, db, "MATH101", "Math", "Introductory", 4)
	testutil.Course(t, db, "CS201", "CS", "Intermediate", 3, "CS101", "MATH101")

	records, err := repo.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byID := map[string]progress.CourseRecord{}
	for _, r := range records {
		byID[r.ID] = r
	}
	assert.Equal(t, []string{"CS101", "MATH101"}, byID["CS201"].Prerequisites)
	assert.Empty(t, byID["CS101"].Prerequisites)
	assert.Equal(t, 4, byID["MATH101"].Credits)
}

func TestCourseRepository_SaveCreatesAndUpdates(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &model.Course{Code: "CS101", Title: "Intro", SubjectArea: "CS", Difficulty: "Introductory", Credits: 3}, nil, validCatalog))
	require.NoError(t, repo.Save(ctx, &model.Course{Code: "CS201", Title: "DS", SubjectArea: "CS", Difficulty: "Intermediate", Credits: 3}, []string{"CS101", "CS101"}, validCatalog))
	require.NoError(t, repo.Save(ctx, &model.Course{Code: "CS101", Title: "Intro to CS", SubjectArea: "CS", Difficulty: "Introductory", Credits: 4}, nil, validCatalog))

	c, err := repo.FindByCode(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, "Intro to CS", c.Title)
	assert.Equal(t, 4, c.Credits)

	ds, err := repo.FindByCode(ctx, "CS201")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS101"}, ds.PrerequisiteCodes())
}

func TestCourseRepository_CycleRollsBack(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	testutil.Course(t, db, "A", "X", "Introductory", 3)
	testutil.Course(t, db, "B", "X", "Introductory", 3, "A")

	err := repo.ReplacePrerequisites(ctx, "A", []string{"B"}, validCatalog)
	var cie *progress.CatalogIntegrityError
	require.True(t, errors.As(err, &cie))

	a, err := repo.FindByCode(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, a.Prerequisites, "rejected write must not persist")
}

func TestCourseRepository_ReplacePrerequisitesUnknownCourse(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)

	err := repo.ReplacePrerequisites(context.Background(), "NOPE", nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCourseRepository_DeleteLeavesDanglingEdges(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	testutil.Course(t, db, "CS101", "CS", "Introductory", 3)
	testutil.Course(t, db, "CS201", "CS", "Intermediate", 3, "CS101")

	require.NoError(t, repo.Delete(ctx, "CS101", validCatalog))

	records, err := repo.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"CS101"}, records[0].Prerequisites)

	assert.ErrorIs(t, repo.Delete(ctx, "CS101", nil), gorm.ErrRecordNotFound)
}

func TestCourseRepository_SaveAllChecksOnceAtTheEnd(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	drafts := []CourseDraft{
		{Course: model.Course{Code: "CS201", SubjectArea: "CS", Difficulty: "Intermediate", Credits: 3}, Prerequisites: []string{"CS101"}},
		{Course: model.Course{Code: "CS101", SubjectArea: "CS", Difficulty: "Introductory", Credits: 3}},
	}
	require.NoError(t, repo.SaveAll(ctx, drafts, validCatalog))

	records, err := repo.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	cyclic := []CourseDraft{
		{Course: model.Course{Code: "CS101", SubjectArea: "CS", Difficulty: "Introductory", Credits: 3}, Prerequisites: []string{"CS201"}},
		{Course: model.Course{Code: "CS301", SubjectArea: "CS", Difficulty: "Advanced", Credits: 3}},
	}
	err = repo.SaveAll(ctx, cyclic, validCatalog)
	assert.ErrorIs(t, err, progress.ErrCatalogIntegrity)

	_, err = repo.FindByCode(ctx, "CS301")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "whole batch rolls back")
}

func TestCourseRepository_RevisionCountsCommittedWrites(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	rev, err := repo.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rev)

	require.NoError(t, repo.Save(ctx, &model.Course{Code: "A", SubjectArea: "X", Difficulty: "Introductory", Credits: 3}, nil, validCatalog))
	require.NoError(t, repo.Save(ctx, &model.Course{Code: "B", SubjectArea: "X", Difficulty: "Introductory", Credits: 3}, []string{"A"}, validCatalog))

	err = repo.ReplacePrerequisites(ctx, "A", []string{"B"}, validCatalog)
	assert.ErrorIs(t, err, progress.ErrCatalogIntegrity)

	rev, err = repo.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev, "rolled back writes do not count")
}
