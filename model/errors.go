package model

import "github.com/pkg/errors"

var (
	// ErrNotFound reports a missing user, request, or book.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden reports an action on another identity's resource.
	ErrForbidden = errors.New("access forbidden")
	// ErrBadRequest reports missing or malformed input fields.
	ErrBadRequest = errors.New("bad request")
)
