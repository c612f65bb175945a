package healthnote

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

const noteCols = `id, admission_id, note_type, text,
	blood_pressure_high, blood_pressure_low, heart_rate, temperature, created_at`

func (r *repoPG) Create(ctx context.Context, n *HealthNote) error {
	n.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_note (id, admission_id, note_type, text,
			blood_pressure_high, blood_pressure_low, heart_rate, temperature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		n.ID, n.AdmissionID, n.NoteType, n.Text,
		n.BloodPressureHigh, n.BloodPressureLow, n.HeartRate, n.Temperature,
	).Scan(&n.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthNote, error) {
	var n HealthNote
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+noteCols+` FROM health_note WHERE id = $1`, id).Scan(
		&n.ID, &n.AdmissionID, &n.NoteType, &n.Text,
		&n.BloodPressureHigh, &n.BloodPressureLow, &n.HeartRate, &n.Temperature,
		&n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repoPG) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*HealthNote, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+noteCols+` FROM health_note
		WHERE admission_id = $1
		ORDER BY created_at ASC`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*HealthNote
	for rows.Next() {
		var n HealthNote
		if err := rows.Scan(
			&n.ID, &n.AdmissionID, &n.NoteType, &n.Text,
			&n.BloodPressureHigh, &n.BloodPressureLow, &n.HeartRate, &n.Temperature,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
