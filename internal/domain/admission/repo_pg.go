package admission

import (
	"context"
	"errors"
	"strings"

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

const admissionCols = `id, patient_id, department_id, severity, diagnosis, room_number,
	blood_pressure_high, blood_pressure_low, heart_rate, temperature,
	admission_date, discharge_date, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO admission (id, patient_id, department_id, severity, diagnosis,
			room_number, blood_pressure_high, blood_pressure_low, heart_rate,
			temperature, admission_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.PatientID, a.DepartmentID, a.Severity, a.Diagnosis,
		a.RoomNumber, a.BloodPressureHigh, a.BloodPressureLow, a.HeartRate,
		a.Temperature, a.AdmissionDate,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admission WHERE id = $1`, id))
}

func (r *repoPG) GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx, `
		SELECT `+admissionCols+` FROM admission
		WHERE patient_id = $1 AND discharge_date IS NULL
		ORDER BY admission_date DESC
		LIMIT 1`, patientID))
}

func (r *repoPG) Discharge(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := scanAdmission(r.conn(ctx).QueryRow(ctx, `
		UPDATE admission SET discharge_date = NOW(), updated_at = NOW()
		WHERE id = $1 AND discharge_date IS NULL
		RETURNING `+admissionCols, id))
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing row from one already discharged.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrAlreadyDischarged
		}
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Summary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prefixCols("a.")+`, COALESCE(d.name, '')
		FROM admission a
		LEFT JOIN department d ON d.id = a.department_id
		WHERE a.patient_id = $1
		ORDER BY a.admission_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*Summary
	for rows.Next() {
		var a Admission
		var deptName string
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DepartmentID, &a.Severity, &a.Diagnosis, &a.RoomNumber,
			&a.BloodPressureHigh, &a.BloodPressureLow, &a.HeartRate, &a.Temperature,
			&a.AdmissionDate, &a.DischargeDate, &a.CreatedAt, &a.UpdatedAt,
			&deptName,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, &Summary{
			Admission:      &a,
			DepartmentName: deptName,
			DiagnosisShort: ShortenDiagnosis(a.Diagnosis),
			Active:         a.IsActive(),
		})
	}
	return summaries, rows.Err()
}

// prefixCols prefixes each admission column with the given table alias.
func prefixCols(prefix string) string {
	cols := strings.Split(admissionCols, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DepartmentID, &a.Severity, &a.Diagnosis, &a.RoomNumber,
		&a.BloodPressureHigh, &a.BloodPressureLow, &a.HeartRate, &a.Temperature,
		&a.AdmissionDate, &a.DischargeDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
