package applications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]Application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[int64]Application)}
}

// FindCurrent returns the highest-id non-deleted row for the pair.
func (r *MemoryRepo) FindCurrent(ctx context.Context, applicantID, jobID int64) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var current Application
	found := false
	for _, app := range r.data {
		if app.ApplicantID != applicantID || app.JobID != jobID || app.Deleted {
			continue
		}
		if !found || app.ID > current.ID {
			current = app
			found = true
		}
	}
	if !found {
		return Application{}, ErrNotFound
	}
	return current, nil
}

// Save inserts when ID is zero, updates in place otherwise.
func (r *MemoryRepo) Save(ctx context.Context, app Application) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.ID == 0 {
		r.nextID++
		app.ID = r.nextID
		app.CreatedAt = app.UpdatedAt
	}
	r.data[app.ID] = app
	return app.ID, nil
}

// ListByApplicant returns all non-deleted rows for an applicant, id desc.
func (r *MemoryRepo) ListByApplicant(ctx context.Context, applicantID int64) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, app := range r.data {
		if app.ApplicantID == applicantID && !app.Deleted {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// CountByPair reports how many non-deleted rows exist for a pair. Test
// helper for the one-row-per-pair invariant.
func (r *MemoryRepo) CountByPair(applicantID, jobID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, app := range r.data {
		if app.ApplicantID == applicantID && app.JobID == jobID && !app.Deleted {
			n++
		}
	}
	return n
}

var _ Repo = (*MemoryRepo)(nil)
