package applications

import (
	"context"
	"errors"
	"time"

	"jobapply-backend/internal/resumes"
	"jobapply-backend/internal/shared/metrics"
	"jobapply-backend/internal/shared/telemetry"
)

// SnapshotStore is the slice of the resume service the workflow depends on.
type SnapshotStore interface {
	Save(ctx context.Context, applicantID int64, form *resumes.Form) (resumes.Snapshot, error)
	Latest(ctx context.Context, applicantID int64) (resumes.Snapshot, error)
	Get(ctx context.Context, id int64) (resumes.Snapshot, error)
	List(ctx context.Context, applicantID int64, page, size int) ([]resumes.Snapshot, int, error)
}

// TxRunner wraps a function in one transactional boundary. The snapshot,
// its child rows, and the ledger upsert of a save must commit or fail
// together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTx is a passthrough TxRunner for repositories without transactions.
type NoTx struct{}

// RunInTx runs fn directly.
func (NoTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Draft is the state returned to the apply page before editing.
type Draft struct {
	Exists        bool
	Status        string
	ApplicationID int64
	ResumeID      int64
	Form          *resumes.Form
}

// SaveResult reports the ledger state after a temp-save or submit.
type SaveResult struct {
	Status        string
	ApplicationID int64
}

// Service orchestrates the draft/submit workflow over the snapshot store
// and the application ledger.
type Service struct {
	Ledger    Repo
	Snapshots SnapshotStore
	Jobs      JobDetailClient
	Tx        TxRunner
}

// GetDraft resolves the current state for a pair. With no ledger row it
// falls back to the applicant's latest snapshot so the page can prefill
// from prior resumes; with no snapshot either, everything stays empty.
func (s *Service) GetDraft(ctx context.Context, applicantID, jobID int64) (Draft, error) {
	if applicantID <= 0 || jobID <= 0 {
		return Draft{}, ErrInvalidInput
	}

	app, err := s.Ledger.FindCurrent(ctx, applicantID, jobID)
	if err == nil {
		draft := Draft{
			Exists:        true,
			Status:        app.Status,
			ApplicationID: app.ID,
		}
		if draft.Status == "" {
			draft.Status = StatusTemp
		}
		if app.ResumeID != nil {
			snap, err := s.Snapshots.Get(ctx, *app.ResumeID)
			if err == nil {
				draft.ResumeID = snap.ID
				draft.Form = resumes.ToForm(snap)
			} else if !errors.Is(err, resumes.ErrNotFound) {
				return Draft{}, err
			}
		}
		return draft, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Draft{}, err
	}

	snap, err := s.Snapshots.Latest(ctx, applicantID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return Draft{Exists: false, Status: StatusNone}, nil
		}
		return Draft{}, err
	}
	return Draft{
		Exists:   false,
		Status:   StatusNone,
		ResumeID: snap.ID,
		Form:     resumes.ToForm(snap),
	}, nil
}

// TempSave stores a new snapshot and moves the ledger row to TEMP. A pair
// already in SUBMITTED keeps its status: the snapshot is still created for
// the applicant, but the ledger is left untouched and the submitted state
// is returned as-is.
func (s *Service) TempSave(ctx context.Context, applicantID, jobID int64, form *resumes.Form) (SaveResult, error) {
	if err := validateSave(applicantID, jobID, form, false); err != nil {
		return SaveResult{}, err
	}

	var result SaveResult
	err := s.Tx.RunInTx(ctx, func(ctx context.Context) error {
		app, err := s.Ledger.FindCurrent(ctx, applicantID, jobID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		snap, err := s.Snapshots.Save(ctx, applicantID, form)
		if err != nil {
			return err
		}

		if app.Submitted() {
			result = SaveResult{Status: StatusSubmitted, ApplicationID: app.ID}
			return nil
		}

		id, err := s.upsert(ctx, app, applicantID, jobID, snap.ID, StatusTemp)
		if err != nil {
			return err
		}
		result = SaveResult{Status: StatusTemp, ApplicationID: id}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	metrics.IncDraftSaved()
	telemetry.Info("apply.temp_save", map[string]any{
		"applicant_id":   applicantID,
		"job_id":         jobID,
		"application_id": result.ApplicationID,
		"status":         result.Status,
	})
	return result, nil
}

// Submit stores a new snapshot and moves the ledger row to SUBMITTED.
// Re-submitting a live submitted application fails with ErrAlreadyApplied
// before any write happens.
func (s *Service) Submit(ctx context.Context, applicantID, jobID int64, form *resumes.Form) (SaveResult, error) {
	if err := validateSave(applicantID, jobID, form, true); err != nil {
		return SaveResult{}, err
	}

	var result SaveResult
	err := s.Tx.RunInTx(ctx, func(ctx context.Context) error {
		app, err := s.Ledger.FindCurrent(ctx, applicantID, jobID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if app.Submitted() && !app.Cancelled {
			return ErrAlreadyApplied
		}

		snap, err := s.Snapshots.Save(ctx, applicantID, form)
		if err != nil {
			return err
		}

		id, err := s.upsert(ctx, app, applicantID, jobID, snap.ID, StatusSubmitted)
		if err != nil {
			return err
		}
		result = SaveResult{Status: StatusSubmitted, ApplicationID: id}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			metrics.IncSubmitRejected()
		}
		return SaveResult{}, err
	}

	metrics.IncSubmitted()
	telemetry.Info("apply.submit", map[string]any{
		"applicant_id":   applicantID,
		"job_id":         jobID,
		"application_id": result.ApplicationID,
	})
	return result, nil
}

// upsert points the pair's single ledger row at the new snapshot. A fresh
// pair gets a new row; an existing one is updated in place, clearing the
// cancellation flag the way a fresh save does.
func (s *Service) upsert(ctx context.Context, app Application, applicantID, jobID, resumeID int64, status string) (int64, error) {
	app.ApplicantID = applicantID
	app.JobID = jobID
	app.ResumeID = &resumeID
	app.Status = status
	app.Cancelled = false
	app.Deleted = false
	app.UpdatedAt = time.Now().UTC()
	return s.Ledger.Save(ctx, app)
}

func validateSave(applicantID, jobID int64, form *resumes.Form, submitting bool) error {
	if applicantID <= 0 {
		return fieldError("applicantId")
	}
	if jobID <= 0 {
		return fieldError("jobId")
	}
	if form == nil {
		return ErrInvalidInput
	}
	if submitting {
		switch {
		case blank(form.Name):
			return fieldError("name")
		case blank(form.Phone):
			return fieldError("phone")
		case blank(form.Email):
			return fieldError("email")
		}
	}
	return nil
}
