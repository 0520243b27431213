package interpreters

import "errors"

var (
	ErrNotFound = errors.New("interpreter not found")
	ErrInUse    = errors.New("interpreter has jobs and cannot be deleted")
)
