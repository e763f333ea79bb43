package ir

import "errors"

var (
	ErrPathNotFound  = errors.New("path not found")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrDepthExceeded = errors.New("depth exceeded")
)
