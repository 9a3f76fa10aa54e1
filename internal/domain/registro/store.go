package registro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres-backed StoreAPI.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var sortColumns = map[SortField]string{
	SortByEmployee:         "lower(employee)",
	SortBySalary:           "salary",
	SortByCalculatedSalary: "calculated_salary",
	SortByAdmissionDate:    "admission_date",
	SortByCreatedAt:        "created_at",
}

const selectColumns = `
    SELECT id::text, employee, salary::float8, calculated_salary::float8,
           to_char(admission_date, 'YYYY-MM-DD'), calculated_admission_date, created_at
    FROM registros`

func (s *Store) List(ctx context.Context, p Params) ([]Record, int, error) {
	where, args := filterClause(p.Filters)

	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM registros`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if column, ok := sortColumns[p.Field]; ok {
		direction := "ASC"
		if p.Direction == SortDesc {
			direction = "DESC"
		}
		order = column + " " + direction
	}
	args = append(args, p.Limit, p.Offset())
	query := fmt.Sprintf("%s%s ORDER BY %s, id LIMIT $%d OFFSET $%d", selectColumns, where, order, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Record, 0, p.Limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.DB.QueryRow(ctx, selectColumns+`
    WHERE id::text = $1
  `, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) Insert(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO registros (id, employee, salary, calculated_salary, admission_date, calculated_admission_date, created_at)
    VALUES ($1, $2, $3, $4, $5::date, $6, $7)
  `, rec.ID, rec.Employee, rec.Salary, rec.CalculatedSalary, rec.AdmissionDate, rec.CalculatedAdmissionDate, rec.CreatedAt)
	return err
}

func (s *Store) Update(ctx context.Context, rec Record) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE registros
    SET employee = $1,
        salary = $2,
        calculated_salary = $3,
        admission_date = $4::date,
        calculated_admission_date = $5
    WHERE id::text = $6
  `, rec.Employee, rec.Salary, rec.CalculatedSalary, rec.AdmissionDate, rec.CalculatedAdmissionDate, rec.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	cmd, err := s.DB.Exec(ctx, `DELETE FROM registros WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func filterClause(f Filters) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Employee != "" {
		add("employee ILIKE '%%' || $%d || '%%'", f.Employee)
	}
	if f.StartSalary != nil {
		add("salary >= $%d", *f.StartSalary)
	}
	if f.EndSalary != nil {
		add("salary <= $%d", *f.EndSalary)
	}
	if f.StartSalaryCalculated != nil {
		add("calculated_salary >= $%d", *f.StartSalaryCalculated)
	}
	if f.EndSalaryCalculated != nil {
		add("calculated_salary <= $%d", *f.EndSalaryCalculated)
	}
	if f.StartDate != "" {
		add("admission_date >= $%d::date", f.StartDate)
	}
	if f.EndDate != "" {
		add("admission_date <= $%d::date", f.EndDate)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.Employee, &rec.Salary, &rec.CalculatedSalary,
		&rec.AdmissionDate, &rec.CalculatedAdmissionDate, &rec.CreatedAt,
	)
	return rec, err
}
