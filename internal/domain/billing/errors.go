package billing

import "errors"

var (
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrPayableNotFound   = errors.New("payable not found")
	ErrNotBillable       = errors.New("only confirmed jobs can be billed")
	ErrAlreadyBilled     = errors.New("job has already been billed")
	ErrNoInterpreter     = errors.New("job has no interpreter to pay")
	ErrInvalidTransition = errors.New("status change not allowed")
)
