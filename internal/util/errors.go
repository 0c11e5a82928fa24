package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseExists       = errors.New("course already exists")
	ErrInvalidCourseID    = errors.New("course id must be 1-32 characters")
	ErrInvalidDifficulty  = errors.New("unknown difficulty tier")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in course")
	ErrCourseLocked       = errors.New("course prerequisites not completed")
	ErrEnrollmentTerminal = errors.New("enrollment already completed or dropped")

	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidAssessment  = errors.New("unknown assessment type")
	ErrInvalidTotalMarks  = errors.New("total marks must be positive")
	ErrInvalidWeight      = errors.New("weight must be a non-negative number")
	ErrScoreOutOfRange    = errors.New("score must be between 0 and total marks")
	ErrNotEnrolled        = errors.New("student is not enrolled in the course")
)
