package facilities

import "errors"

var (
	ErrNotFound = errors.New("facility not found")
	ErrInUse    = errors.New("facility has jobs and cannot be deleted")
)
