package utils

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmailRequired     = errors.New("email required")
	ErrNoAnswers         = errors.New("no answers to save")
	ErrDuplicateIdentity = errors.New("identity already saved")
	ErrInvalidLimit      = errors.New("invalid limit parameter")
	ErrDatabaseError     = errors.New("database error")
)
