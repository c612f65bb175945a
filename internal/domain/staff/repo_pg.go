package staff

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medjournal/journal/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const staffCols = `id, hospital_id, full_name, position, employee_number,
	phone_number, login, password_hash, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, e *Employee) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff (id, hospital_id, full_name, position, employee_number,
			phone_number, login, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.HospitalID, e.FullName, e.Position, e.EmployeeNumber,
		e.PhoneNumber, e.Login, e.PasswordHash,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return scanEmployee(r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
}

func (r *repoPG) GetByEmployeeNumber(ctx context.Context, number string) (*Employee, error) {
	return scanEmployee(r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff WHERE employee_number = $1`, number))
}

func (r *repoPG) GetByLogin(ctx context.Context, login string) (*Employee, error) {
	return scanEmployee(r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff WHERE login = $1`, login))
}

func (r *repoPG) Update(ctx context.Context, e *Employee) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET hospital_id = $2, full_name = $3, position = $4,
			phone_number = $5, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.HospitalID, e.FullName, e.Position, e.PhoneNumber,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, query string, limit, offset int) ([]*Employee, int, error) {
	where := ``
	args := []interface{}{}
	if query != "" {
		where = ` WHERE full_name ILIKE '%' || $1 || '%'
			OR employee_number ILIKE '%' || $1 || '%'
			OR phone_number ILIKE '%' || $1 || '%'`
		args = append(args, query)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM staff`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Placeholders are concatenated, never Sprintf-ed: the assembled WHERE
	// clause contains literal % from the ILIKE patterns.
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+staffCols+` FROM staff`+where+`
		ORDER BY full_name
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := scanEmployeeRows(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (r *repoPG) ListLoginsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT login FROM staff WHERE login LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}

func (r *repoPG) SetDepartments(ctx context.Context, employeeID uuid.UUID, departmentIDs []uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM staff_department WHERE staff_id = $1`, employeeID); err != nil {
		return err
	}
	for _, deptID := range departmentIDs {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO staff_department (staff_id, department_id) VALUES ($1, $2)`,
			employeeID, deptID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetDepartments(ctx context.Context, employeeID uuid.UUID) ([]DepartmentInfo, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.name, d.code
		FROM staff_department sd
		JOIN department d ON d.id = sd.department_id
		WHERE sd.staff_id = $1
		ORDER BY d.name`,
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depts []DepartmentInfo
	for rows.Next() {
		var d DepartmentInfo
		if err := rows.Scan(&d.ID, &d.Name, &d.Code); err != nil {
			return nil, err
		}
		depts = append(depts, d)
	}
	return depts, rows.Err()
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.HospitalID, &e.FullName, &e.Position, &e.EmployeeNumber,
		&e.PhoneNumber, &e.Login, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEmployeeRows(rows pgx.Rows) (*Employee, error) {
	var e Employee
	err := rows.Scan(
		&e.ID, &e.HospitalID, &e.FullName, &e.Position, &e.EmployeeNumber,
		&e.PhoneNumber, &e.Login, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
