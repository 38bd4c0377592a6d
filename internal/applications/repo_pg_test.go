package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func applicationColumns() []string {
	return []string{
		"id", "applicant_id", "job_id", "resume_id", "review_status",
		"cancelled", "deleted", "created_at", "updated_at",
	}
}

func TestPGRepoFindCurrent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows(applicationColumns()).
			AddRow(int64(3), int64(42), int64(7), int64(11), StatusTemp, false, false, now, now))

	app, err := repo.FindCurrent(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("FindCurrent: %v", err)
	}
	if app.ID != 3 || app.Status != StatusTemp {
		t.Fatalf("unexpected application: %+v", app)
	}
	if app.ResumeID == nil || *app.ResumeID != 11 {
		t.Fatalf("expected resume pointer 11, got %v", app.ResumeID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindCurrentNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows(applicationColumns()))

	if _, err := repo.FindCurrent(context.Background(), 42, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	resumeID := int64(11)
	app := Application{
		ApplicantID: 42,
		JobID:       7,
		ResumeID:    &resumeID,
		Status:      StatusTemp,
		UpdatedAt:   now,
	}

	mock.ExpectQuery("INSERT INTO applications").
		WithArgs(int64(42), int64(7), resumeID, StatusTemp, false, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := repo.Save(context.Background(), app)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected id 3, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveUpdates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	resumeID := int64(12)
	app := Application{
		ID:          3,
		ApplicantID: 42,
		JobID:       7,
		ResumeID:    &resumeID,
		Status:      StatusSubmitted,
		UpdatedAt:   now,
	}

	mock.ExpectExec("UPDATE applications").
		WithArgs(resumeID, StatusSubmitted, false, false, now, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Save(context.Background(), app)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected id 3, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
