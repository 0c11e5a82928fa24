package controller

import (
	"campus_backend/internal/progress"
	"campus_backend/internal/util"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report request fields by their json names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{util.ErrCourseNotFound, http.StatusNotFound},
	{util.ErrEnrollmentNotFound, http.StatusNotFound},
	{util.ErrAssessmentNotFound, http.StatusNotFound},
	{util.ErrUserNotFound, http.StatusNotFound},
	{util.ErrAlreadyEnrolled, http.StatusConflict},
	{util.ErrEnrollmentTerminal, http.StatusConflict},
	{util.ErrEmailRegistered, http.StatusConflict},
	{util.ErrCourseExists, http.StatusConflict},
	{util.ErrCourseLocked, http.StatusUnprocessableEntity},
	{util.ErrNotEnrolled, http.StatusUnprocessableEntity},
	{util.ErrScoreOutOfRange, http.StatusBadRequest},
	{util.ErrInvalidTotalMarks, http.StatusBadRequest},
	{util.ErrInvalidWeight, http.StatusBadRequest},
	{util.ErrInvalidAssessment, http.StatusBadRequest},
	{util.ErrInvalidCourseID, http.StatusBadRequest},
	{util.ErrInvalidDifficulty, http.StatusBadRequest},
	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrPermissionDenied, http.StatusForbidden},
	{util.ErrUserDisabled, http.StatusForbidden},
}

// respondError maps service errors onto the response envelope. Unknown errors are logged as 500.
func respondError(ctx *gin.Context, err error) {
	var integrity *progress.CatalogIntegrityError
	if errors.As(err, &integrity) {
		util.Conflict(ctx, integrity.Error())
		return
	}

	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			util.Error(ctx, s.status, err.Error())
			return
		}
	}

	util.LogInternalError(ctx, err)
}

// bindMessage turns a ShouldBindJSON error into a message a client can act on.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
