package jobs

import "errors"

var (
	ErrNotFound          = errors.New("job not found")
	ErrOutreachNotFound  = errors.New("outreach not found")
	ErrInvalidTransition = errors.New("job status does not allow this action")
	ErrStatusConflict    = errors.New("job status changed concurrently")
	ErrLocked            = errors.New("job can no longer be edited")
	ErrInterpreterBusy   = errors.New("interpreter is inactive or does not speak the job language")
	ErrNoInterpreter     = errors.New("job has no interpreter assigned")
	ErrFacilityInactive  = errors.New("facility is inactive")
)
