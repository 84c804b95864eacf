package domain

import "errors"

// Common errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("access denied: you don't own this resource")
	ErrValidation = errors.New("validation failed")
)
