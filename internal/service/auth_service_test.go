package service

import (
	"campus_backend/internal/model"
	"campus_backend/internal/util"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := &model.User{Name: "Ada", Email: " Ada@Campus.edu ", Password: "correct horse", Role: model.Teacher}
	require.NoError(t, f.auth.Register(ctx, user))
	assert.NotEqual(t, "correct horse", user.Password)

	dup := &model.User{Name: "Ada 2", Email: "ada@campus.edu", Password: "whatever1"}
	assert.ErrorIs(t, f.auth.Register(ctx, dup), util.ErrEmailRegistered)

	token, logged, err := f.auth.Login(ctx, "ADA@campus.edu", "correct horse")
	require.NoError(t, err)
	require.NotNil(t, logged.LastLogin)

	claims, err := util.ParseJWT(token, f.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	_, _, err = f.auth.Login(ctx, "ada@campus.edu", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = f.auth.Login(ctx, "nobody@campus.edu", "x")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestAuthService_DefaultRoleIsStudent(t *testing.T) {
	f := newFixture(t)
	user := &model.User{Name: "Sam", Email: "sam@campus.edu", Password: "password1"}
	require.NoError(t, f.auth.Register(context.Background(), user))

	got, err := f.auth.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Student, got.Role)

	_, err = f.auth.GetUser(context.Background(), 424242)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestAuthService_ConcurrentRegisterSameEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.auth.Register(ctx, &model.User{Name: "Ada", Email: "ada@campus.edu", Password: "correct horse"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, util.ErrEmailRegistered)
	}
	assert.Equal(t, 1, succeeded)
}
