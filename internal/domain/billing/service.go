package billing

import (
	"context"
	"fmt"
	"time"

	"staffing/internal/domain/jobs"
)

// JobPricer returns a stored job with its current breakdown.
type JobPricer interface {
	Quote(ctx context.Context, id string) (jobs.Priced, error)
}

type Service struct {
	store   StoreAPI
	jobs    JobPricer
	dueDays int
	now     func() time.Time
}

func NewService(store StoreAPI, pricer JobPricer, dueDays int) *Service {
	return &Service{store: store, jobs: pricer, dueDays: dueDays, now: time.Now}
}

var invoiceTransitions = map[string][]string{
	InvoiceDraft: {InvoiceSent, InvoiceVoid},
	InvoiceSent:  {InvoicePaid, InvoiceVoid},
}

var payableTransitions = map[string][]string{
	PayablePending: {PayablePaid},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GenerateForJob bills a confirmed job: an invoice to the facility and a
// payable to the interpreter, both itemised from the same breakdown.
func (s *Service) GenerateForJob(ctx context.Context, jobID string) (Generated, error) {
	priced, err := s.jobs.Quote(ctx, jobID)
	if err != nil {
		return Generated{}, err
	}
	job := priced.Job
	switch job.Status {
	case jobs.StatusConfirmed:
	case jobs.StatusBilled:
		return Generated{}, ErrAlreadyBilled
	default:
		return Generated{}, fmt.Errorf("%w: job is %s", ErrNotBillable, job.Status)
	}
	if job.InterpreterID == "" {
		return Generated{}, ErrNoInterpreter
	}

	now := s.now().UTC()
	dueDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, s.dueDays)
	invoice := Invoice{
		JobID:      job.ID,
		FacilityID: job.FacilityID,
		Amount:     job.Totals.FacilityBillableTotal,
		Status:     InvoiceDraft,
		Lines:      InvoiceLines(priced.Quote),
		DueDate:    dueDate,
	}
	payable := Payable{
		JobID:         job.ID,
		InterpreterID: job.InterpreterID,
		Amount:        job.Totals.InterpreterBillableTotal,
		Status:        PayablePending,
		Lines:         PayableLines(priced.Quote),
	}
	return s.store.CreateForJob(ctx, job, invoice, payable)
}

func (s *Service) ListInvoices(ctx context.Context, filter ListFilter, limit, offset int) ([]Invoice, int, error) {
	total, err := s.store.CountInvoices(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.ListInvoices(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	return s.store.GetInvoice(ctx, id)
}

func (s *Service) SetInvoiceStatus(ctx context.Context, id, status string) (Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if !allowed(invoiceTransitions, inv.Status, status) {
		return Invoice{}, fmt.Errorf("%w: invoice %s -> %s", ErrInvalidTransition, inv.Status, status)
	}
	var paidAt *time.Time
	if status == InvoicePaid {
		now := s.now().UTC()
		paidAt = &now
	}
	if err := s.store.SetInvoiceStatus(ctx, id, inv.Status, status, paidAt); err != nil {
		return Invoice{}, err
	}
	inv.Status = status
	inv.PaidAt = paidAt
	return inv, nil
}

func (s *Service) ListPayables(ctx context.Context, filter ListFilter, limit, offset int) ([]Payable, int, error) {
	total, err := s.store.CountPayables(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.ListPayables(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) SetPayableStatus(ctx context.Context, id, status string) (Payable, error) {
	p, err := s.store.GetPayable(ctx, id)
	if err != nil {
		return Payable{}, err
	}
	if !allowed(payableTransitions, p.Status, status) {
		return Payable{}, fmt.Errorf("%w: payable %s -> %s", ErrInvalidTransition, p.Status, status)
	}
	now := s.now().UTC()
	if err := s.store.SetPayableStatus(ctx, id, p.Status, status, &now); err != nil {
		return Payable{}, err
	}
	p.Status = status
	p.PaidAt = &now
	return p, nil
}

// exportLimit caps a register export.
const exportLimit = 10000

func (s *Service) ExportInvoices(ctx context.Context, filter ListFilter) ([]byte, error) {
	items, err := s.store.ListInvoices(ctx, filter, exportLimit, 0)
	if err != nil {
		return nil, err
	}
	return InvoiceRegister(items)
}

func (s *Service) ExportPayables(ctx context.Context, filter ListFilter) ([]byte, error) {
	items, err := s.store.ListPayables(ctx, filter, exportLimit, 0)
	if err != nil {
		return nil, err
	}
	return PayableRegister(items)
}
