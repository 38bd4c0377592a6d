package applications

import "time"

// Review statuses. NONE is never persisted; it is the reported status when
// no ledger row exists for a pair yet.
const (
	StatusNone      = "NONE"
	StatusTemp      = "TEMP"
	StatusSubmitted = "SUBMITTED"
)

// Application is the single mutable "current status" record for one
// (applicant, job) pair. Its resume pointer always names the latest
// snapshot used; history lives in the snapshots themselves.
type Application struct {
	ID          int64
	ApplicantID int64
	JobID       int64
	ResumeID    *int64
	Status      string
	Cancelled   bool
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Submitted reports whether the application is in a live submitted state.
func (a Application) Submitted() bool {
	return a.Status == StatusSubmitted && !a.Deleted
}
