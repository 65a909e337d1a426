package errorz

import "errors"

var (
	ErrEncodingFailed       = errors.New("encoding failed")
	ErrDirectoryUnavailable = errors.New("default directory unavailable")
	ErrLocationNotFound     = errors.New("location not found")
	ErrWriteFailed          = errors.New("write failed")
	ErrNotFound             = errors.New("not found")
	ErrInvalidValue         = errors.New("invalid value")
)
