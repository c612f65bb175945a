package patient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

const patientCols = `id, hospital_id, last_name, first_name, middle_name,
	birth_date, birth_place, snils, gender, height, weight, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, hospital_id, last_name, first_name, middle_name,
			birth_date, birth_place, snils, gender, height, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.HospitalID, p.LastName, p.FirstName, p.MiddleName,
		p.BirthDate, p.BirthPlace, p.SNILS, p.Gender, p.Height, p.Weight,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET last_name = $2, first_name = $3, middle_name = $4,
			birth_date = $5, birth_place = $6, snils = $7, gender = $8,
			height = $9, weight = $10, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.LastName, p.FirstName, p.MiddleName,
		p.BirthDate, p.BirthPlace, p.SNILS, p.Gender, p.Height, p.Weight,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ExistsBySNILS(ctx context.Context, hospitalID uuid.UUID, snils string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM patient
			WHERE hospital_id = $1 AND snils = $2 AND id <> $3
		)`,
		hospitalID, snils, exclude,
	).Scan(&exists)
	return exists, err
}

func (r *repoPG) Search(ctx context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error) {
	conds := []string{"p.hospital_id = $1"}
	args := []interface{}{hospitalID}

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("p.%s ILIKE '%%' || $%d || '%%'", column, len(args)))
	}
	addLike("last_name", f.LastName)
	addLike("first_name", f.FirstName)
	addLike("middle_name", f.MiddleName)
	addLike("snils", f.SNILS)
	if f.BirthDate != nil {
		args = append(args, *f.BirthDate)
		conds = append(conds, fmt.Sprintf("p.birth_date = $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Placeholders are concatenated, never Sprintf-ed: the assembled WHERE
	// clause contains literal % from the ILIKE patterns.
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols2(`p.`)+`
		FROM patient p
		LEFT JOIN (
			SELECT patient_id, MAX(admission_date) AS last_admission
			FROM admission GROUP BY patient_id
		) la ON la.patient_id = p.id`+where+`
		ORDER BY la.last_admission DESC NULLS LAST, p.last_name, p.first_name
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatientRows(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) ActiveStay(ctx context.Context, patientID uuid.UUID) (*currentStay, error) {
	var stay currentStay
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT a.id, COALESCE(d.name, ''), a.room_number
		FROM admission a
		LEFT JOIN department d ON d.id = a.department_id
		WHERE a.patient_id = $1 AND a.discharge_date IS NULL
		ORDER BY a.admission_date DESC
		LIMIT 1`,
		patientID,
	).Scan(&stay.AdmissionID, &stay.Department, &stay.RoomNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stay, nil
}

// patientCols2 prefixes each patient column with the given table alias.
func patientCols2(prefix string) string {
	cols := strings.Split(patientCols, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.HospitalID, &p.LastName, &p.FirstName, &p.MiddleName,
		&p.BirthDate, &p.BirthPlace, &p.SNILS, &p.Gender, &p.Height, &p.Weight,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPatientRows(rows pgx.Rows) (*Patient, error) {
	var p Patient
	err := rows.Scan(
		&p.ID, &p.HospitalID, &p.LastName, &p.FirstName, &p.MiddleName,
		&p.BirthDate, &p.BirthPlace, &p.SNILS, &p.Gender, &p.Height, &p.Weight,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
