package service

import "errors"

var (
	ErrDriveDisabled   = errors.New("google drive import is not configured")
	ErrArchiveDisabled = errors.New("export archive is not configured")
	ErrActionNotFound  = errors.New("action item not found")
	ErrEmptyMessage    = errors.New("message is required")
)
