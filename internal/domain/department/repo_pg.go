package department

import (
	"context"
	"errors"

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

const deptCols = `id, hospital_id, name, code, description, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO department (id, hospital_id, name, code, description)
		VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.HospitalID, d.Name, d.Code, d.Description,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return scanDept(r.conn(ctx).QueryRow(ctx,
		`SELECT `+deptCols+` FROM department WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Department, error) {
	return scanDept(r.conn(ctx).QueryRow(ctx,
		`SELECT `+deptCols+` FROM department WHERE code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, d *Department) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE department SET name = $2, code = $3, description = $4, updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Code, d.Description,
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
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+deptCols+` FROM department WHERE hospital_id = $1 ORDER BY name`,
		hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDepts(rows)
}

func (r *repoPG) CurrentPatients(ctx context.Context, departmentID uuid.UUID) ([]*CurrentPatient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.last_name, p.first_name, p.middle_name,
		       a.room_number, a.severity, a.id, a.admission_date
		FROM admission a
		JOIN patient p ON p.id = a.patient_id
		WHERE a.department_id = $1 AND a.discharge_date IS NULL
		ORDER BY a.admission_date DESC`,
		departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*CurrentPatient
	for rows.Next() {
		var cp CurrentPatient
		if err := rows.Scan(
			&cp.PatientID, &cp.LastName, &cp.FirstName, &cp.MiddleName,
			&cp.RoomNumber, &cp.Severity, &cp.AdmissionID, &cp.AdmittedAt,
		); err != nil {
			return nil, err
		}
		patients = append(patients, &cp)
	}
	return patients, rows.Err()
}

func scanDept(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.HospitalID, &d.Name, &d.Code, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDepts(rows pgx.Rows) ([]*Department, error) {
	var depts []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.HospitalID, &d.Name, &d.Code, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		depts = append(depts, &d)
	}
	return depts, rows.Err()
}
