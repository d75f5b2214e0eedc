package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/repo"
)

var _ repo.ServiceStore = (*Store)(nil)
var _ repo.CheckStore = (*Store)(nil)

// Store is a mutex-guarded in-memory adapter, used for local development
// and as the fake behind most tests.
type Store struct {
	mu       sync.RWMutex
	services []domain.Service
	checks   map[domain.ServiceID][]domain.CheckRecord // append order == time order
}

func New(services ...domain.Service) *Store {
	return &Store{
		services: services,
		checks:   make(map[domain.ServiceID][]domain.CheckRecord),
	}
}

// SetServices replaces the registry; the engine treats it as read-only.
func (m *Store) SetServices(services []domain.Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = services
}

func (m *Store) List(ctx context.Context) ([]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Service, len(m.services))
	copy(out, m.services)
	return out, nil
}

func (m *Store) Append(ctx context.Context, rec *domain.CheckRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[rec.ServiceID] = append(m.checks[rec.ServiceID], *rec)
	return nil
}

func (m *Store) Latest(ctx context.Context, id domain.ServiceID) (*domain.CheckRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := m.checks[id]
	if len(recs) == 0 {
		return nil, nil
	}
	var newest *domain.CheckRecord
	for i := range recs {
		if newest == nil || !recs[i].CheckedAt.Before(newest.CheckedAt) {
			newest = &recs[i]
		}
	}
	out := *newest
	return &out, nil
}

func (m *Store) Recent(ctx context.Context, id domain.ServiceID, limit int) ([]domain.CheckRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := m.checks[id]
	out := make([]domain.CheckRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Store) Window(ctx context.Context, id domain.ServiceID, since time.Time) ([]domain.CheckRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CheckRecord
	for _, r := range m.checks[id] {
		if r.CheckedAt.After(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.Before(out[j].CheckedAt) })
	return out, nil
}
