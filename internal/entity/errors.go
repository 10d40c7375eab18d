package entity

import "errors"

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrDuplicateWebsite   = errors.New("website already exists for owner")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)
