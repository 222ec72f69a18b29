// Package store provides the SQLite implementation of the appointment
// store. It is the authoritative side of the reschedule protocol:
// conflicting writes are rejected atomically inside a transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jortegam/clinicgrid/internal/clinic"
)

// SQLite implements clinic.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS providers (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id             TEXT PRIMARY KEY,
			patient_id     TEXT NOT NULL,
			patient_name   TEXT NOT NULL DEFAULT '',
			provider_id    TEXT NOT NULL,
			start_at       TEXT NOT NULL,
			end_at         TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'scheduled',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			series_id      TEXT,
			value          REAL NOT NULL DEFAULT 0,
			note           TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_appointments_start ON appointments(start_at);
		CREATE INDEX IF NOT EXISTS idx_appointments_provider ON appointments(provider_id, start_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Timestamps are stored in UTC RFC3339 so lexicographic comparison in
// SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

const appointmentColumns = `
	id, patient_id, patient_name, provider_id, start_at, end_at,
	status, payment_status, series_id, value, note, created_at
`

// CreateAppointment adds a new appointment.
// Returns clinic.ErrScheduleConflict if it overlaps an existing
// scheduled appointment for the same provider.
func (s *SQLite) CreateAppointment(ctx context.Context, a *clinic.Appointment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkConflictTx(ctx, tx, a.ProviderID, a.ID, a.Start, a.End); err != nil {
		return err
	}

	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		a.ID,
		a.PatientID,
		a.PatientName,
		a.ProviderID,
		formatTime(a.Start),
		formatTime(a.End),
		a.Status,
		a.PaymentStatus,
		nullString(a.SeriesID),
		a.Value,
		a.Note,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetAppointment retrieves an appointment by ID.
func (s *SQLite) GetAppointment(ctx context.Context, id string) (*clinic.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`

	a, err := scanAppointment(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, clinic.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying appointment: %w", err)
	}
	return a, nil
}

// ListByDateRange returns appointments starting within [start, end]
// (dates inclusive), ordered by start time.
func (s *SQLite) ListByDateRange(ctx context.Context, start, end time.Time) ([]*clinic.Appointment, error) {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE start_at >= ? AND start_at < ?
		ORDER BY start_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, formatTime(dayStart), formatTime(dayEnd))
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var appts []*clinic.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}
	return appts, nil
}

// Reschedule applies a reschedule request atomically. The whole change
// commits, or it is rejected with clinic.ErrScheduleConflict, leaving
// the stored appointment untouched.
func (s *SQLite) Reschedule(ctx context.Context, req clinic.RescheduleRequest) error {
	if !req.NewStart.Before(req.NewEnd) {
		return clinic.ErrEndBeforeStart
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM appointments WHERE id = ?`, req.AppointmentID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("querying appointment: %w", err)
	}
	if exists == 0 {
		return clinic.ErrAppointmentNotFound
	}

	if err := checkConflictTx(ctx, tx, req.ProviderID, req.AppointmentID, req.NewStart, req.NewEnd); err != nil {
		return err
	}

	query := `UPDATE appointments SET provider_id = ?, start_at = ?, end_at = ? WHERE id = ?`
	_, err = tx.ExecContext(ctx, query,
		req.ProviderID,
		formatTime(req.NewStart),
		formatTime(req.NewEnd),
		req.AppointmentID,
	)
	if err != nil {
		return fmt.Errorf("updating appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetStatus transitions an appointment's status, enforcing the state
// machine: terminal states accept no further transitions.
func (s *SQLite) SetStatus(ctx context.Context, id string, status clinic.Status) error {
	if !status.Valid() {
		return clinic.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current clinic.Status
	err = tx.QueryRowContext(ctx, `SELECT status FROM appointments WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return clinic.ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("querying status: %w", err)
	}

	if !current.CanTransition(status) {
		return clinic.ErrTerminalStatus
	}

	if _, err := tx.ExecContext(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetPaymentStatus sets the payment flag. Payment is independent of
// appointment status, so no state-machine check applies.
func (s *SQLite) SetPaymentStatus(ctx context.Context, id string, payment clinic.PaymentStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE appointments SET payment_status = ? WHERE id = ?`, payment, id)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return clinic.ErrAppointmentNotFound
	}
	return nil
}

// CreateProvider registers a provider.
func (s *SQLite) CreateProvider(ctx context.Context, p *clinic.Provider) error {
	query := `INSERT INTO providers (id, name, color) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, p.ID, p.Name, p.Color); err != nil {
		return fmt.Errorf("inserting provider: %w", err)
	}
	return nil
}

// ListProviders returns all providers ordered by name.
func (s *SQLite) ListProviders(ctx context.Context) ([]*clinic.Provider, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM providers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying providers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var providers []*clinic.Provider
	for rows.Next() {
		var p clinic.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, fmt.Errorf("scanning provider: %w", err)
		}
		providers = append(providers, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating providers: %w", err)
	}
	return providers, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// checkConflictTx returns clinic.ErrScheduleConflict if [start, end)
// overlaps a scheduled appointment for the provider, excluding the
// appointment being written.
func checkConflictTx(ctx context.Context, tx *sql.Tx, providerID, excludeID string, start, end time.Time) error {
	query := `
		SELECT COUNT(1)
		FROM appointments
		WHERE provider_id = ?
		  AND id != ?
		  AND status = ?
		  AND start_at < ?
		  AND end_at > ?
	`
	var count int
	err := tx.QueryRowContext(ctx, query,
		providerID,
		excludeID,
		clinic.StatusScheduled,
		formatTime(end),
		formatTime(start),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking conflicts: %w", err)
	}
	if count > 0 {
		return clinic.ErrScheduleConflict
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner) (*clinic.Appointment, error) {
	var (
		a         clinic.Appointment
		startAt   string
		endAt     string
		seriesID  sql.NullString
		createdAt string
	)

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.ProviderID,
		&startAt,
		&endAt,
		&a.Status,
		&a.PaymentStatus,
		&seriesID,
		&a.Value,
		&a.Note,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if a.Start, err = parseTime(startAt); err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if a.End, err = parseTime(endAt); err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if seriesID.Valid {
		a.SeriesID = seriesID.String
	}
	return &a, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
