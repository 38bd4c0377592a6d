package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]Snapshot // snapshot id -> snapshot
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[int64]Snapshot)}
}

// Create stores a new snapshot under the next monotonically increasing id.
func (r *MemoryRepo) Create(ctx context.Context, snap Snapshot) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	snap.ID = r.nextID
	r.data[snap.ID] = snap
	return snap.ID, nil
}

// GetByID returns a non-deleted snapshot by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.data[id]
	if !ok || snap.Deleted {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// GetLatestByApplicant returns the highest-id non-deleted snapshot.
func (r *MemoryRepo) GetLatestByApplicant(ctx context.Context, applicantID int64) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest Snapshot
	found := false
	for _, snap := range r.data {
		if snap.ApplicantID != applicantID || snap.Deleted {
			continue
		}
		if !found || snap.ID > latest.ID {
			latest = snap
			found = true
		}
	}
	if !found {
		return Snapshot{}, ErrNotFound
	}
	return latest, nil
}

// ListByApplicant returns one id-desc page of the applicant's snapshots
// plus the total non-deleted count.
func (r *MemoryRepo) ListByApplicant(ctx context.Context, applicantID int64, page, size int) ([]Snapshot, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	r.mu.RLock()
	var all []Snapshot
	for _, snap := range r.data {
		if snap.ApplicantID == applicantID && !snap.Deleted {
			all = append(all, snap)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	start := page * size
	if start >= total {
		return []Snapshot{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

var _ Repo = (*MemoryRepo)(nil)
