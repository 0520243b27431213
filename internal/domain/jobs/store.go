package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const jobColumns = `id, facility_id, COALESCE(interpreter_id::text, ''), status, language, trilingual, trilingual_uplift,
           job_date, start_time, end_time, minimum_hours,
           facility_business_rate, facility_after_hours_rate, facility_mileage_rate, facility_rate_adjustment,
           interpreter_business_rate, interpreter_after_hours_rate, interpreter_mileage_rate, interpreter_rate_adjustment,
           mileage, travel_time_hours, parking, tolls, misc_fee,
           facility_hourly_total, facility_billable_total, interpreter_hourly_total, interpreter_billable_total,
           COALESCE(notes, ''), created_at, updated_at`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.FacilityID, &j.InterpreterID, &j.Status, &j.Language, &j.Trilingual, &j.TrilingualUplift,
		&j.Date, &j.StartTime, &j.EndTime, &j.MinimumHours,
		&j.FacilityRates.BusinessRate, &j.FacilityRates.AfterHoursRate, &j.FacilityRates.MileageRate, &j.FacilityRates.RateAdjustment,
		&j.InterpreterRates.BusinessRate, &j.InterpreterRates.AfterHoursRate, &j.InterpreterRates.MileageRate, &j.InterpreterRates.RateAdjustment,
		&j.Mileage, &j.TravelTimeHours, &j.Parking, &j.Tolls, &j.MiscFee,
		&j.Totals.FacilityHourlyTotal, &j.Totals.FacilityBillableTotal, &j.Totals.InterpreterHourlyTotal, &j.Totals.InterpreterBillableTotal,
		&j.Notes, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func buildWhere(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.FacilityID != "" {
		args = append(args, filter.FacilityID)
		where += fmt.Sprintf(" AND facility_id = $%d", len(args))
	}
	if filter.InterpreterID != "" {
		args = append(args, filter.InterpreterID)
		where += fmt.Sprintf(" AND interpreter_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND job_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND job_date <= $%d", len(args))
	}
	return where, args
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM jobs"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Job, error) {
	where, args := buildWhere(filter)
	query := "SELECT " + jobColumns + " FROM jobs" + where +
		fmt.Sprintf(" ORDER BY job_date DESC, start_time LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Job, error) {
	j, err := scanJob(s.DB.QueryRow(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return j, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func (s *Store) Create(ctx context.Context, j Job) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO jobs (facility_id, interpreter_id, status, language, trilingual, trilingual_uplift,
                      job_date, start_time, end_time, minimum_hours,
                      facility_business_rate, facility_after_hours_rate, facility_mileage_rate, facility_rate_adjustment,
                      interpreter_business_rate, interpreter_after_hours_rate, interpreter_mileage_rate, interpreter_rate_adjustment,
                      mileage, travel_time_hours, parking, tolls, misc_fee,
                      facility_hourly_total, facility_billable_total, interpreter_hourly_total, interpreter_billable_total, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
    RETURNING id
  `, j.FacilityID, nullIfEmpty(j.InterpreterID), j.Status, j.Language, j.Trilingual, j.TrilingualUplift,
		j.Date, j.StartTime, j.EndTime, j.MinimumHours,
		j.FacilityRates.BusinessRate, j.FacilityRates.AfterHoursRate, j.FacilityRates.MileageRate, j.FacilityRates.RateAdjustment,
		j.InterpreterRates.BusinessRate, j.InterpreterRates.AfterHoursRate, j.InterpreterRates.MileageRate, j.InterpreterRates.RateAdjustment,
		j.Mileage, j.TravelTimeHours, j.Parking, j.Tolls, j.MiscFee,
		j.Totals.FacilityHourlyTotal, j.Totals.FacilityBillableTotal, j.Totals.InterpreterHourlyTotal, j.Totals.InterpreterBillableTotal,
		j.Notes).Scan(&id)
	return id, err
}

// Save writes every mutable column, provided the stored status still matches expectedStatus.
func (s *Store) Save(ctx context.Context, j Job, expectedStatus string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE jobs
    SET facility_id = $1, interpreter_id = $2, status = $3, language = $4, trilingual = $5, trilingual_uplift = $6,
        job_date = $7, start_time = $8, end_time = $9, minimum_hours = $10,
        facility_business_rate = $11, facility_after_hours_rate = $12, facility_mileage_rate = $13, facility_rate_adjustment = $14,
        interpreter_business_rate = $15, interpreter_after_hours_rate = $16, interpreter_mileage_rate = $17, interpreter_rate_adjustment = $18,
        mileage = $19, travel_time_hours = $20, parking = $21, tolls = $22, misc_fee = $23,
        facility_hourly_total = $24, facility_billable_total = $25, interpreter_hourly_total = $26, interpreter_billable_total = $27,
        notes = $28, updated_at = now()
    WHERE id = $29 AND status = $30
  `, j.FacilityID, nullIfEmpty(j.InterpreterID), j.Status, j.Language, j.Trilingual, j.TrilingualUplift,
		j.Date, j.StartTime, j.EndTime, j.MinimumHours,
		j.FacilityRates.BusinessRate, j.FacilityRates.AfterHoursRate, j.FacilityRates.MileageRate, j.FacilityRates.RateAdjustment,
		j.InterpreterRates.BusinessRate, j.InterpreterRates.AfterHoursRate, j.InterpreterRates.MileageRate, j.InterpreterRates.RateAdjustment,
		j.Mileage, j.TravelTimeHours, j.Parking, j.Tolls, j.MiscFee,
		j.Totals.FacilityHourlyTotal, j.Totals.FacilityBillableTotal, j.Totals.InterpreterHourlyTotal, j.Totals.InterpreterBillableTotal,
		j.Notes, j.ID, expectedStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *Store) CreateOutreach(ctx context.Context, jobID, interpreterID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_outreach (job_id, interpreter_id, status)
    VALUES ($1,$2,$3)
    ON CONFLICT (job_id, interpreter_id)
    DO UPDATE SET status = EXCLUDED.status, responded_at = NULL, created_at = now()
    RETURNING id
  `, jobID, interpreterID, OutreachSent).Scan(&id)
	return id, err
}

func (s *Store) GetOutreach(ctx context.Context, jobID, outreachID string) (Outreach, error) {
	var o Outreach
	err := s.DB.QueryRow(ctx, `
    SELECT id, job_id, interpreter_id, status, created_at, responded_at
    FROM job_outreach
    WHERE job_id = $1 AND id = $2
  `, jobID, outreachID).Scan(&o.ID, &o.JobID, &o.InterpreterID, &o.Status, &o.CreatedAt, &o.RespondedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Outreach{}, ErrOutreachNotFound
	}
	return o, err
}

func (s *Store) ListOutreach(ctx context.Context, jobID string) ([]Outreach, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_id, interpreter_id, status, created_at, responded_at
    FROM job_outreach
    WHERE job_id = $1
    ORDER BY created_at
  `, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Outreach
	for rows.Next() {
		var o Outreach
		if err := rows.Scan(&o.ID, &o.JobID, &o.InterpreterID, &o.Status, &o.CreatedAt, &o.RespondedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) SetOutreachStatus(ctx context.Context, outreachID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE job_outreach SET status = $1, responded_at = now() WHERE id = $2", status, outreachID)
	return err
}

// WithdrawOutreach closes every offer of the job that is still awaiting an answer.
func (s *Store) WithdrawOutreach(ctx context.Context, jobID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_outreach SET status = $1, responded_at = now()
    WHERE job_id = $2 AND status = $3
  `, OutreachWithdrawn, jobID, OutreachSent)
	return err
}
