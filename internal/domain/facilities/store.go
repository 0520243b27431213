package facilities

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

const facilityColumns = `id, name, COALESCE(address, ''), COALESCE(contact_name, ''), COALESCE(contact_email, ''),
           COALESCE(contact_phone, ''), business_rate, after_hours_rate, mileage_rate, default_mileage_rate,
           minimum_hours, COALESCE(notes, ''), active, created_at, updated_at`

func scanFacility(row pgx.Row) (Facility, error) {
	var f Facility
	err := row.Scan(&f.ID, &f.Name, &f.Address, &f.ContactName, &f.ContactEmail, &f.ContactPhone,
		&f.BusinessRate, &f.AfterHoursRate, &f.MileageRate, &f.DefaultMileageRate,
		&f.MinimumHours, &f.Notes, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func buildWhere(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.ActiveOnly {
		where += " AND active"
	}
	return where, args
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM facilities"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Facility, error) {
	where, args := buildWhere(filter)
	query := "SELECT " + facilityColumns + " FROM facilities" + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Facility, error) {
	f, err := scanFacility(s.DB.QueryRow(ctx, "SELECT "+facilityColumns+" FROM facilities WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Facility{}, ErrNotFound
	}
	return f, err
}

func (s *Store) Create(ctx context.Context, f Facility) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO facilities (name, address, contact_name, contact_email, contact_phone, business_rate,
                            after_hours_rate, mileage_rate, default_mileage_rate, minimum_hours, notes, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, f.Name, f.Address, f.ContactName, f.ContactEmail, f.ContactPhone, f.BusinessRate,
		f.AfterHoursRate, f.MileageRate, f.DefaultMileageRate, f.MinimumHours, f.Notes, f.Active).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, id string, f Facility) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE facilities
    SET name = $1, address = $2, contact_name = $3, contact_email = $4, contact_phone = $5,
        business_rate = $6, after_hours_rate = $7, mileage_rate = $8, default_mileage_rate = $9,
        minimum_hours = $10, notes = $11, active = $12, updated_at = now()
    WHERE id = $13
  `, f.Name, f.Address, f.ContactName, f.ContactEmail, f.ContactPhone, f.BusinessRate,
		f.AfterHoursRate, f.MileageRate, f.DefaultMileageRate, f.MinimumHours, f.Notes, f.Active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) HasJobs(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM jobs WHERE facility_id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM facilities WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
