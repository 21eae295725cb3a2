package resource

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("resource belongs to another user")
	ErrMissingName     = errors.New("name is required")
	ErrInvalidType     = errors.New("type must be FOLDER or FILE")
	ErrMissingFile     = errors.New("file is required")
	ErrParentNotFound  = errors.New("parent resource not found")
	ErrParentNotFolder = errors.New("parent resource is not a folder")
	ErrCycle           = errors.New("resource cannot be its own ancestor")
)
