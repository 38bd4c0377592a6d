package resumes

import "context"

// Repo defines persistence operations for resume snapshots. Creation is
// atomic across the snapshot and its child rows; snapshots are never
// mutated after creation.
type Repo interface {
	Create(ctx context.Context, snap Snapshot) (int64, error)
	GetByID(ctx context.Context, id int64) (Snapshot, error)
	GetLatestByApplicant(ctx context.Context, applicantID int64) (Snapshot, error)
	ListByApplicant(ctx context.Context, applicantID int64, page, size int) ([]Snapshot, int, error)
}
