package rates

import "errors"

var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrZeroDuration      = errors.New("start and end time must differ")
)
