package repository

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrConflict         = errors.New("state precondition violated")
	ErrDeleteFailed     = errors.New("delete failed")
	ErrConnectionFailed = errors.New("database connection failed")
	ErrQueryFailed      = errors.New("database query failed")
)
