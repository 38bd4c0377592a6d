package applications

import "context"

// Repo defines persistence operations for the application ledger.
type Repo interface {
	// FindCurrent returns the single non-deleted row for the pair. When
	// legacy duplicates exist, the highest id wins.
	FindCurrent(ctx context.Context, applicantID, jobID int64) (Application, error)
	// Save inserts when ID is zero and updates the existing row otherwise,
	// returning the row id.
	Save(ctx context.Context, app Application) (int64, error)
	ListByApplicant(ctx context.Context, applicantID int64) ([]Application, error)
}
