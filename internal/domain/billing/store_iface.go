package billing

import (
	"context"
	"time"

	"staffing/internal/domain/jobs"
)

type StoreAPI interface {
	CreateForJob(ctx context.Context, job jobs.Job, invoice Invoice, payable Payable) (Generated, error)
	CountInvoices(ctx context.Context, filter ListFilter) (int, error)
	ListInvoices(ctx context.Context, filter ListFilter, limit, offset int) ([]Invoice, error)
	GetInvoice(ctx context.Context, id string) (Invoice, error)
	SetInvoiceStatus(ctx context.Context, id, from, to string, paidAt *time.Time) error
	CountPayables(ctx context.Context, filter ListFilter) (int, error)
	ListPayables(ctx context.Context, filter ListFilter, limit, offset int) ([]Payable, error)
	GetPayable(ctx context.Context, id string) (Payable, error)
	SetPayableStatus(ctx context.Context, id, from, to string, paidAt *time.Time) error
}
