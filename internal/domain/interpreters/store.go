package interpreters

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

const interpreterColumns = `id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''), languages, certified,
           business_rate, after_hours_rate, mileage_rate, minimum_hours, COALESCE(notes, ''), active,
           created_at, updated_at`

func scanInterpreter(row pgx.Row) (Interpreter, error) {
	var i Interpreter
	err := row.Scan(&i.ID, &i.FirstName, &i.LastName, &i.Email, &i.Phone, &i.Languages, &i.Certified,
		&i.BusinessRate, &i.AfterHoursRate, &i.MileageRate, &i.MinimumHours, &i.Notes, &i.Active,
		&i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func buildWhere(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (first_name || ' ' || last_name) ILIKE $%d", len(args))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM unnest(languages) l WHERE lower(l) = lower($%d))", len(args))
	}
	if filter.ActiveOnly {
		where += " AND active"
	}
	return where, args
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM interpreters"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Interpreter, error) {
	where, args := buildWhere(filter)
	query := "SELECT " + interpreterColumns + " FROM interpreters" + where +
		fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interpreter
	for rows.Next() {
		i, err := scanInterpreter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Interpreter, error) {
	i, err := scanInterpreter(s.DB.QueryRow(ctx, "SELECT "+interpreterColumns+" FROM interpreters WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Interpreter{}, ErrNotFound
	}
	return i, err
}

func (s *Store) Create(ctx context.Context, i Interpreter) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO interpreters (first_name, last_name, email, phone, languages, certified, business_rate,
                              after_hours_rate, mileage_rate, minimum_hours, notes, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, i.FirstName, i.LastName, i.Email, i.Phone, i.Languages, i.Certified, i.BusinessRate,
		i.AfterHoursRate, i.MileageRate, i.MinimumHours, i.Notes, i.Active).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, id string, i Interpreter) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE interpreters
    SET first_name = $1, last_name = $2, email = $3, phone = $4, languages = $5, certified = $6,
        business_rate = $7, after_hours_rate = $8, mileage_rate = $9, minimum_hours = $10,
        notes = $11, active = $12, updated_at = now()
    WHERE id = $13
  `, i.FirstName, i.LastName, i.Email, i.Phone, i.Languages, i.Certified, i.BusinessRate,
		i.AfterHoursRate, i.MileageRate, i.MinimumHours, i.Notes, i.Active, id)
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
	if err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM jobs WHERE interpreter_id = $1) +
           (SELECT COUNT(1) FROM job_outreach WHERE interpreter_id = $1)
  `, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM interpreters WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
