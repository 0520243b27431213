package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffing/internal/domain/jobs"
	"staffing/internal/domain/rates"
)

type fakePricer struct {
	priced jobs.Priced
	err    error
}

func (f fakePricer) Quote(context.Context, string) (jobs.Priced, error) { return f.priced, f.err }

type fakeStore struct {
	job       jobs.Job
	invoice   Invoice
	payable   Payable
	invoices  map[string]Invoice
	payables  map[string]Payable
	listLimit int
}

func (f *fakeStore) CreateForJob(_ context.Context, job jobs.Job, invoice Invoice, payable Payable) (Generated, error) {
	f.job, f.invoice, f.payable = job, invoice, payable
	invoice.ID, invoice.Number = "inv1", "INV-1000"
	payable.ID = "pay1"
	return Generated{Invoice: invoice, Payable: payable}, nil
}

func (f *fakeStore) CountInvoices(context.Context, ListFilter) (int, error) { return len(f.invoices), nil }

func (f *fakeStore) ListInvoices(_ context.Context, _ ListFilter, limit, _ int) ([]Invoice, error) {
	f.listLimit = limit
	var out []Invoice
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeStore) GetInvoice(_ context.Context, id string) (Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (f *fakeStore) SetInvoiceStatus(_ context.Context, id, from, to string, paidAt *time.Time) error {
	inv := f.invoices[id]
	if inv.Status != from {
		return ErrInvalidTransition
	}
	inv.Status, inv.PaidAt = to, paidAt
	f.invoices[id] = inv
	return nil
}

func (f *fakeStore) CountPayables(context.Context, ListFilter) (int, error) { return len(f.payables), nil }

func (f *fakeStore) ListPayables(context.Context, ListFilter, int, int) ([]Payable, error) {
	var out []Payable
	for _, p := range f.payables {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetPayable(_ context.Context, id string) (Payable, error) {
	p, ok := f.payables[id]
	if !ok {
		return Payable{}, ErrPayableNotFound
	}
	return p, nil
}

func (f *fakeStore) SetPayableStatus(_ context.Context, id, from, to string, paidAt *time.Time) error {
	p := f.payables[id]
	if p.Status != from {
		return ErrInvalidTransition
	}
	p.Status, p.PaidAt = to, paidAt
	f.payables[id] = p
	return nil
}

func confirmedJob(t *testing.T) jobs.Priced {
	total := sampleTotal(t)
	return jobs.Priced{
		Job: jobs.Job{
			ID: "j1", FacilityID: "f1", InterpreterID: "i1",
			Status: jobs.StatusConfirmed, Totals: total.Projection(),
		},
		Quote: total,
	}
}

func TestGenerateForJob(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, fakePricer{priced: confirmedJob(t)}, 30)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC) }

	generated, err := svc.GenerateForJob(context.Background(), "j1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if generated.Invoice.Number != "INV-1000" || generated.Payable.ID != "pay1" {
		t.Fatalf("unexpected documents: %+v", generated)
	}
	if store.invoice.Amount != 1212 {
		t.Fatalf("expected invoice amount 1212, got %v", store.invoice.Amount)
	}
	if store.payable.Amount != 532 {
		t.Fatalf("expected payable amount 532, got %v", store.payable.Amount)
	}
	wantDue := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	if !store.invoice.DueDate.Equal(wantDue) {
		t.Fatalf("expected due %v, got %v", wantDue, store.invoice.DueDate)
	}
	if store.invoice.Status != InvoiceDraft || store.payable.Status != PayablePending {
		t.Fatalf("unexpected statuses %s/%s", store.invoice.Status, store.payable.Status)
	}
}

func TestGenerateForJobRejectsUnbillable(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*jobs.Priced)
		want   error
	}{
		{"pending", func(p *jobs.Priced) { p.Job.Status = jobs.StatusPending }, ErrNotBillable},
		{"billed", func(p *jobs.Priced) { p.Job.Status = jobs.StatusBilled }, ErrAlreadyBilled},
		{"unassigned", func(p *jobs.Priced) { p.Job.InterpreterID = "" }, ErrNoInterpreter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			priced := confirmedJob(t)
			tc.mutate(&priced)
			svc := NewService(&fakeStore{}, fakePricer{priced: priced}, 30)
			if _, err := svc.GenerateForJob(context.Background(), "j1"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGenerateForJobPassesLookupErrors(t *testing.T) {
	svc := NewService(&fakeStore{}, fakePricer{err: jobs.ErrNotFound}, 30)
	if _, err := svc.GenerateForJob(context.Background(), "missing"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected jobs.ErrNotFound, got %v", err)
	}
}

func TestInvoiceStatusFlow(t *testing.T) {
	store := &fakeStore{invoices: map[string]Invoice{"inv1": {ID: "inv1", Status: InvoiceDraft, Amount: 100}}}
	svc := NewService(store, fakePricer{}, 30)
	ctx := context.Background()

	if _, err := svc.SetInvoiceStatus(ctx, "inv1", InvoicePaid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected draft -> paid to fail, got %v", err)
	}
	if _, err := svc.SetInvoiceStatus(ctx, "inv1", InvoiceSent); err != nil {
		t.Fatalf("send: %v", err)
	}
	inv, err := svc.SetInvoiceStatus(ctx, "inv1", InvoicePaid)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if inv.PaidAt == nil || store.invoices["inv1"].PaidAt == nil {
		t.Fatalf("expected paid timestamp")
	}
	if _, err := svc.SetInvoiceStatus(ctx, "inv1", InvoiceVoid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected paid -> void to fail, got %v", err)
	}
}

func TestPayableStatusFlow(t *testing.T) {
	store := &fakeStore{payables: map[string]Payable{"p1": {ID: "p1", Status: PayablePending}}}
	svc := NewService(store, fakePricer{}, 30)

	p, err := svc.SetPayableStatus(context.Background(), "p1", PayablePaid)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if p.Status != PayablePaid || p.PaidAt == nil {
		t.Fatalf("unexpected payable: %+v", p)
	}
	if _, err := svc.SetPayableStatus(context.Background(), "p1", PayablePaid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second payment to fail, got %v", err)
	}
}

func TestExportUsesCap(t *testing.T) {
	store := &fakeStore{invoices: map[string]Invoice{"inv1": {ID: "inv1", Number: "INV-1000", Amount: rates.RoundCurrency(10.5)}}}
	svc := NewService(store, fakePricer{}, 30)

	data, err := svc.ExportInvoices(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected workbook bytes")
	}
	if store.listLimit != exportLimit {
		t.Fatalf("expected limit %d, got %d", exportLimit, store.listLimit)
	}
}
