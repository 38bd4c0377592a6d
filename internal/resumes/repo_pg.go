package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobapply-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. All methods participate in a
// caller transaction when one is carried on the context.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a snapshot and its child rows. The caller is expected to
// wrap the call in a transaction so the writes are all-or-nothing.
func (r *PGRepo) Create(ctx context.Context, snap Snapshot) (int64, error) {
	conn := db.Conn(ctx, r.DB)

	const insertSnapshot = `
INSERT INTO resumes (
    applicant_id,
    name, gender, birth_date, phone, email, address,
    school_name, major, entrance_date, graduate_date, gpa, graduate_status,
    skill, introduction,
    deleted, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, FALSE, $16)
RETURNING id`

	var id int64
	err := conn.QueryRowContext(ctx, insertSnapshot,
		snap.ApplicantID,
		snap.Name, snap.Gender, snap.BirthDate, snap.Phone, snap.Email, snap.Address,
		snap.SchoolName, snap.Major, snap.EntranceDate, snap.GraduateDate, snap.GPA, snap.GraduateStatus,
		snap.Skill, snap.Introduction,
		snap.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert resume: %w", err)
	}

	const insertCareer = `
INSERT INTO resume_careers (resume_id, company, department, join_date, retire_date, position, salary, position_summary, experience)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, c := range snap.Careers {
		if _, err := conn.ExecContext(ctx, insertCareer,
			id, c.Company, c.Department, c.JoinDate, c.RetireDate,
			c.Position, c.Salary, c.PositionSummary, c.Experience,
		); err != nil {
			return 0, fmt.Errorf("insert career: %w", err)
		}
	}

	const insertCertificate = `
INSERT INTO resume_certificates (resume_id, name, obtained_date, agency, number)
VALUES ($1, $2, $3, $4, $5)`
	for _, c := range snap.Certificates {
		if _, err := conn.ExecContext(ctx, insertCertificate,
			id, c.Name, c.ObtainedDate, c.Agency, c.Number,
		); err != nil {
			return 0, fmt.Errorf("insert certificate: %w", err)
		}
	}

	const insertAttachment = `
INSERT INTO resume_attachments (resume_id, kind, file_path, uploaded_at)
VALUES ($1, $2, $3, $4)`
	for _, a := range snap.Attachments {
		if _, err := conn.ExecContext(ctx, insertAttachment,
			id, a.Kind, a.Path, a.UploadedAt,
		); err != nil {
			return 0, fmt.Errorf("insert attachment: %w", err)
		}
	}

	return id, nil
}

// GetByID fetches a non-deleted snapshot with its child rows.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Snapshot, error) {
	conn := db.Conn(ctx, r.DB)

	const query = `
SELECT id, applicant_id, name, gender, birth_date, phone, email, address,
       school_name, major, entrance_date, graduate_date, gpa, graduate_status,
       skill, introduction, created_at
FROM resumes
WHERE id = $1 AND deleted = FALSE`

	snap, err := scanSnapshot(conn.QueryRowContext(ctx, query, id))
	if err != nil {
		return Snapshot{}, err
	}
	if err := r.loadChildren(ctx, conn, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// GetLatestByApplicant returns the newest non-deleted snapshot for an
// applicant, with child rows.
func (r *PGRepo) GetLatestByApplicant(ctx context.Context, applicantID int64) (Snapshot, error) {
	conn := db.Conn(ctx, r.DB)

	const query = `
SELECT id, applicant_id, name, gender, birth_date, phone, email, address,
       school_name, major, entrance_date, graduate_date, gpa, graduate_status,
       skill, introduction, created_at
FROM resumes
WHERE applicant_id = $1 AND deleted = FALSE
ORDER BY id DESC
LIMIT 1`

	snap, err := scanSnapshot(conn.QueryRowContext(ctx, query, applicantID))
	if err != nil {
		return Snapshot{}, err
	}
	if err := r.loadChildren(ctx, conn, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListByApplicant returns one page of snapshots ordered id-desc, without
// child rows, plus the total non-deleted count. Child rows are loaded per
// snapshot via GetByID where callers need full content.
func (r *PGRepo) ListByApplicant(ctx context.Context, applicantID int64, page, size int) ([]Snapshot, int, error) {
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	if page < 0 {
		page = 0
	}

	conn := db.Conn(ctx, r.DB)

	const countQuery = `SELECT COUNT(*) FROM resumes WHERE applicant_id = $1 AND deleted = FALSE`
	var total int
	if err := conn.QueryRowContext(ctx, countQuery, applicantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count resumes: %w", err)
	}

	const query = `
SELECT id, applicant_id, name, gender, birth_date, phone, email, address,
       school_name, major, entrance_date, graduate_date, gpa, graduate_status,
       skill, introduction, created_at
FROM resumes
WHERE applicant_id = $1 AND deleted = FALSE
ORDER BY id DESC
LIMIT $2 OFFSET $3`

	rows, err := conn.QueryContext(ctx, query, applicantID, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, snap)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(
		&snap.ID, &snap.ApplicantID,
		&snap.Name, &snap.Gender, &snap.BirthDate, &snap.Phone, &snap.Email, &snap.Address,
		&snap.SchoolName, &snap.Major, &snap.EntranceDate, &snap.GraduateDate, &snap.GPA, &snap.GraduateStatus,
		&snap.Skill, &snap.Introduction,
		&snap.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *PGRepo) loadChildren(ctx context.Context, conn db.DBTX, snap *Snapshot) error {
	const careerQuery = `
SELECT id, company, department, join_date, retire_date, position, salary, position_summary, experience
FROM resume_careers
WHERE resume_id = $1
ORDER BY id`
	rows, err := conn.QueryContext(ctx, careerQuery, snap.ID)
	if err != nil {
		return fmt.Errorf("load careers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c CareerEntry
		if err := rows.Scan(&c.ID, &c.Company, &c.Department, &c.JoinDate, &c.RetireDate,
			&c.Position, &c.Salary, &c.PositionSummary, &c.Experience); err != nil {
			return err
		}
		snap.Careers = append(snap.Careers, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const certQuery = `
SELECT id, name, obtained_date, agency, number
FROM resume_certificates
WHERE resume_id = $1
ORDER BY id`
	certRows, err := conn.QueryContext(ctx, certQuery, snap.ID)
	if err != nil {
		return fmt.Errorf("load certificates: %w", err)
	}
	defer certRows.Close()
	for certRows.Next() {
		var c Certificate
		if err := certRows.Scan(&c.ID, &c.Name, &c.ObtainedDate, &c.Agency, &c.Number); err != nil {
			return err
		}
		snap.Certificates = append(snap.Certificates, c)
	}
	if err := certRows.Err(); err != nil {
		return err
	}

	const attachmentQuery = `
SELECT id, kind, file_path, uploaded_at
FROM resume_attachments
WHERE resume_id = $1
ORDER BY id`
	attRows, err := conn.QueryContext(ctx, attachmentQuery, snap.ID)
	if err != nil {
		return fmt.Errorf("load attachments: %w", err)
	}
	defer attRows.Close()
	for attRows.Next() {
		var a Attachment
		if err := attRows.Scan(&a.ID, &a.Kind, &a.Path, &a.UploadedAt); err != nil {
			return err
		}
		snap.Attachments = append(snap.Attachments, a)
	}
	return attRows.Err()
}

var _ Repo = (*PGRepo)(nil)
