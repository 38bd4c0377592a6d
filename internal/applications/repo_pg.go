package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobapply-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Methods participate in a caller
// transaction when one is carried on the context.
type PGRepo struct {
	DB *sql.DB
}

// FindCurrent returns the highest-id non-deleted row for the pair.
func (r *PGRepo) FindCurrent(ctx context.Context, applicantID, jobID int64) (Application, error) {
	conn := db.Conn(ctx, r.DB)

	const query = `
SELECT id, applicant_id, job_id, resume_id, review_status, cancelled, deleted, created_at, updated_at
FROM applications
WHERE applicant_id = $1 AND job_id = $2 AND deleted = FALSE
ORDER BY id DESC
LIMIT 1`

	return scanApplication(conn.QueryRowContext(ctx, query, applicantID, jobID))
}

// Save inserts a new row when app.ID is zero and updates the pointer and
// status fields in place otherwise.
func (r *PGRepo) Save(ctx context.Context, app Application) (int64, error) {
	conn := db.Conn(ctx, r.DB)

	if app.ID == 0 {
		const insert = `
INSERT INTO applications (applicant_id, job_id, resume_id, review_status, cancelled, deleted, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
RETURNING id`
		var id int64
		err := conn.QueryRowContext(ctx, insert,
			app.ApplicantID, app.JobID, app.ResumeID, app.Status, app.Cancelled, app.UpdatedAt,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert application: %w", err)
		}
		return id, nil
	}

	const update = `
UPDATE applications
SET resume_id = $1, review_status = $2, cancelled = $3, deleted = $4, updated_at = $5
WHERE id = $6`
	if _, err := conn.ExecContext(ctx, update,
		app.ResumeID, app.Status, app.Cancelled, app.Deleted, app.UpdatedAt, app.ID,
	); err != nil {
		return 0, fmt.Errorf("update application: %w", err)
	}
	return app.ID, nil
}

// ListByApplicant returns all non-deleted ledger rows for an applicant.
func (r *PGRepo) ListByApplicant(ctx context.Context, applicantID int64) ([]Application, error) {
	conn := db.Conn(ctx, r.DB)

	const query = `
SELECT id, applicant_id, job_id, resume_id, review_status, cancelled, deleted, created_at, updated_at
FROM applications
WHERE applicant_id = $1 AND deleted = FALSE
ORDER BY id DESC`

	rows, err := conn.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var resumeID sql.NullInt64
	err := row.Scan(
		&app.ID, &app.ApplicantID, &app.JobID, &resumeID,
		&app.Status, &app.Cancelled, &app.Deleted,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if resumeID.Valid {
		app.ResumeID = &resumeID.Int64
	}
	return app, nil
}

var _ Repo = (*PGRepo)(nil)
