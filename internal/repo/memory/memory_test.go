package memory

import (
	"context"
	"testing"
	"time"

	"github.com/guthdx/statuswatch/internal/domain"
)

func rec(id domain.ServiceID, st domain.Status, at time.Time) *domain.CheckRecord {
	return &domain.CheckRecord{ServiceID: id, Status: st, CheckedAt: at}
}

func TestStore_LatestAndRecent(t *testing.T) {
	ctx := context.Background()
	m := New(domain.Service{ID: "a", Type: domain.TypeHTTP, URL: "https://a"})
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if got, err := m.Latest(ctx, "a"); err != nil || got != nil {
		t.Fatalf("empty store: want nil, nil; got %+v, %v", got, err)
	}

	_ = m.Append(ctx, rec("a", domain.StatusOnline, base))
	_ = m.Append(ctx, rec("a", domain.StatusOffline, base.Add(10*time.Minute)))
	_ = m.Append(ctx, rec("a", domain.StatusOnline, base.Add(20*time.Minute)))

	latest, err := m.Latest(ctx, "a")
	if err != nil || latest == nil || latest.Status != domain.StatusOnline || !latest.CheckedAt.Equal(base.Add(20*time.Minute)) {
		t.Fatalf("latest wrong: %+v, %v", latest, err)
	}

	recent, err := m.Recent(ctx, "a", 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("recent: %+v, %v", recent, err)
	}
	if !recent[0].CheckedAt.After(recent[1].CheckedAt) {
		t.Fatalf("recent must be newest first: %+v", recent)
	}
}

func TestStore_WindowAscendingAndBounded(t *testing.T) {
	ctx := context.Background()
	m := New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_ = m.Append(ctx, rec("a", domain.StatusOnline, base.Add(-30*time.Hour))) // outside window
	_ = m.Append(ctx, rec("a", domain.StatusOffline, base.Add(-2*time.Hour)))
	_ = m.Append(ctx, rec("a", domain.StatusOnline, base.Add(-1*time.Hour)))

	got, err := m.Window(ctx, "a", base.Add(-24*time.Hour))
	if err != nil || len(got) != 2 {
		t.Fatalf("window: %+v, %v", got, err)
	}
	if !got[0].CheckedAt.Before(got[1].CheckedAt) {
		t.Fatalf("window must be oldest first: %+v", got)
	}

	// unknown service: empty, not an error
	if got, err := m.Window(ctx, "nope", base.Add(-24*time.Hour)); err != nil || len(got) != 0 {
		t.Fatalf("unknown id: want empty, got %+v, %v", got, err)
	}
}

func TestStore_ListCopies(t *testing.T) {
	m := New(domain.Service{ID: "a"}, domain.Service{ID: "b"})
	got, err := m.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("list: %+v, %v", got, err)
	}
	got[0].ID = "mutated"
	again, _ := m.List(context.Background())
	if again[0].ID != "a" {
		t.Fatalf("List must return a copy")
	}
}
