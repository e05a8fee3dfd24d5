package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
	"github.com/edubase/academy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, student_id, date, check_in, check_out, study_minutes, source,
	created_at, updated_at
`

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	query := `
		INSERT INTO attendance_records (
			student_id, date, check_in, check_out, study_minutes, source
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := a.db.QueryRow(ctx, query,
		rec.StudentID,
		rec.Date,
		rec.CheckIn,
		rec.CheckOut,
		rec.StudyMinutes,
		rec.Source,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique (student_id, date): the day's record already exists
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByStudentAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE student_id = $1
		  AND date = $2
		LIMIT 1
	`

	var rec attendance.Record
	err := a.db.QueryRow(ctx, query, studentID, date).Scan(
		&rec.ID, &rec.StudentID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
		&rec.StudyMinutes, &rec.Source, &rec.CreatedAt, &rec.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no record for this student and day
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.Repository. The WHERE clause compares the
// caller's updated_at against the stored one, so a record changed since the
// caller's read is never silently overwritten.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	query := `
		UPDATE attendance_records
		SET check_in = $1,
			check_out = $2,
			study_minutes = $3,
			source = $4,
			updated_at = NOW()
		WHERE id = $5
		  AND updated_at = $6
		RETURNING updated_at
	`

	err := a.db.QueryRow(ctx, query,
		rec.CheckIn,
		rec.CheckOut,
		rec.StudyMinutes,
		rec.Source,
		rec.ID,
		rec.UpdatedAt,
	).Scan(&rec.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrConcurrentModification
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return rec, nil
}

// ListByDate implements attendance.Repository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	query := `
		SELECT
			a.id, a.student_id, a.date, a.check_in, a.check_out,
			a.study_minutes, a.source, a.created_at, a.updated_at,
			s.name AS student_name
		FROM attendance_records a
		LEFT JOIN students s ON s.id = a.student_id
		WHERE a.date = $1
		ORDER BY a.student_id ASC
	`

	rows, err := a.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
			&rec.StudyMinutes, &rec.Source, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ListOpenByDate implements attendance.Repository. The check_in <= cutoff
// bound keeps sweep-generated checkouts ordered after their check-in by
// construction.
func (a *attendanceRepository) ListOpenByDate(ctx context.Context, date time.Time, cutoff time.Time, limit int) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE date = $1
		  AND check_in IS NOT NULL
		  AND check_in <= $2
		  AND check_out IS NULL
		ORDER BY student_id ASC
		LIMIT $3
	`

	rows, err := a.db.Query(ctx, query, date, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
			&rec.StudyMinutes, &rec.Source, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
