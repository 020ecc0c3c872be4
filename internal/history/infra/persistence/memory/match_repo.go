package memory

import (
	"context"
	"slices"
	"sync"

	"Outbreak/internal/history/entity"
)

const defaultKeep = 200

// MatchRepository 只在进程内保留最近 keep 条记录。
type MatchRepository struct {
	mu      sync.RWMutex
	keep    int
	records []entity.MatchRecord
}

func NewMatchRepository(keep int) *MatchRepository {
	if keep <= 0 {
		keep = defaultKeep
	}
	return &MatchRepository{keep: keep}
}

func (r *MatchRepository) Save(ctx context.Context, rec *entity.MatchRecord) error {
	_ = ctx
	if rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := slices.IndexFunc(r.records, func(x entity.MatchRecord) bool { return x.ID == rec.ID }); i >= 0 {
		r.records[i] = *rec
		return nil
	}
	r.records = append(r.records, *rec)
	if over := len(r.records) - r.keep; over > 0 {
		r.records = slices.Delete(r.records, 0, over)
	}
	return nil
}

func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]entity.MatchRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.records)
	slices.SortStableFunc(out, func(a, b entity.MatchRecord) int {
		return b.EndedAt.Compare(a.EndedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) Get(ctx context.Context, id entity.MatchID) (*entity.MatchRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].ID == id {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, entity.ErrMatchNotFound
}
