package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffing/internal/domain/jobs"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// CreateForJob marks the job billed with its final totals and writes both
// documents in one transaction. A job that is no longer confirmed aborts it.
func (s *Store) CreateForJob(ctx context.Context, job jobs.Job, invoice Invoice, payable Payable) (Generated, error) {
	invoiceLines, err := json.Marshal(invoice.Lines)
	if err != nil {
		return Generated{}, err
	}
	payableLines, err := json.Marshal(payable.Lines)
	if err != nil {
		return Generated{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Generated{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE jobs
    SET status = $1,
        facility_hourly_total = $2, facility_billable_total = $3,
        interpreter_hourly_total = $4, interpreter_billable_total = $5,
        updated_at = now()
    WHERE id = $6 AND status = $7
  `, jobs.StatusBilled,
		job.Totals.FacilityHourlyTotal, job.Totals.FacilityBillableTotal,
		job.Totals.InterpreterHourlyTotal, job.Totals.InterpreterBillableTotal,
		job.ID, jobs.StatusConfirmed)
	if err != nil {
		return Generated{}, err
	}
	if tag.RowsAffected() == 0 {
		return Generated{}, ErrAlreadyBilled
	}

	if err := tx.QueryRow(ctx, `
    INSERT INTO invoices (number, job_id, facility_id, amount, status, lines_json, due_date)
    VALUES ('INV-' || nextval('invoice_number_seq')::text, $1, $2, $3, $4, $5, $6)
    RETURNING id, number, issued_at
  `, invoice.JobID, invoice.FacilityID, invoice.Amount, invoice.Status, invoiceLines, invoice.DueDate).
		Scan(&invoice.ID, &invoice.Number, &invoice.IssuedAt); err != nil {
		return Generated{}, fmt.Errorf("insert invoice: %w", err)
	}

	if err := tx.QueryRow(ctx, `
    INSERT INTO payables (job_id, interpreter_id, amount, status, lines_json)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, payable.JobID, payable.InterpreterID, payable.Amount, payable.Status, payableLines).
		Scan(&payable.ID, &payable.CreatedAt); err != nil {
		return Generated{}, fmt.Errorf("insert payable: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Generated{}, err
	}
	return Generated{Invoice: invoice, Payable: payable}, nil
}

func filterWhere(filter ListFilter, partyColumn, dateColumn string) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.PartyID != "" {
		args = append(args, filter.PartyID)
		where += fmt.Sprintf(" AND %s = $%d", partyColumn, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND %s >= $%d", dateColumn, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To.AddDate(0, 0, 1))
		where += fmt.Sprintf(" AND %s < $%d", dateColumn, len(args))
	}
	return where, args
}

const invoiceColumns = "id, number, job_id, facility_id, amount, status, lines_json, issued_at, due_date, paid_at"

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var lines []byte
	if err := row.Scan(&inv.ID, &inv.Number, &inv.JobID, &inv.FacilityID, &inv.Amount, &inv.Status, &lines, &inv.IssuedAt, &inv.DueDate, &inv.PaidAt); err != nil {
		return Invoice{}, err
	}
	if err := json.Unmarshal(lines, &inv.Lines); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *Store) CountInvoices(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterWhere(filter, "facility_id", "issued_at")
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM invoices"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter ListFilter, limit, offset int) ([]Invoice, error) {
	where, args := filterWhere(filter, "facility_id", "issued_at")
	query := "SELECT " + invoiceColumns + " FROM invoices" + where +
		fmt.Sprintf(" ORDER BY issued_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	inv, err := scanInvoice(s.DB.QueryRow(ctx, "SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, err
}

func (s *Store) SetInvoiceStatus(ctx context.Context, id, from, to string, paidAt *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE invoices SET status = $1, paid_at = $2
    WHERE id = $3 AND status = $4
  `, to, paidAt, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

const payableColumns = "id, job_id, interpreter_id, amount, status, lines_json, created_at, paid_at"

func scanPayable(row pgx.Row) (Payable, error) {
	var p Payable
	var lines []byte
	if err := row.Scan(&p.ID, &p.JobID, &p.InterpreterID, &p.Amount, &p.Status, &lines, &p.CreatedAt, &p.PaidAt); err != nil {
		return Payable{}, err
	}
	if err := json.Unmarshal(lines, &p.Lines); err != nil {
		return Payable{}, err
	}
	return p, nil
}

func (s *Store) CountPayables(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterWhere(filter, "interpreter_id", "created_at")
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payables"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListPayables(ctx context.Context, filter ListFilter, limit, offset int) ([]Payable, error) {
	where, args := filterWhere(filter, "interpreter_id", "created_at")
	query := "SELECT " + payableColumns + " FROM payables" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPayable(ctx context.Context, id string) (Payable, error) {
	p, err := scanPayable(s.DB.QueryRow(ctx, "SELECT "+payableColumns+" FROM payables WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payable{}, ErrPayableNotFound
	}
	return p, err
}

func (s *Store) SetPayableStatus(ctx context.Context, id, from, to string, paidAt *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payables SET status = $1, paid_at = $2
    WHERE id = $3 AND status = $4
  `, to, paidAt, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}
