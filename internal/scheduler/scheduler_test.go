package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/notify"
	"github.com/guthdx/statuswatch/internal/probe"
	"github.com/guthdx/statuswatch/internal/repo/memory"
)

type checkerFunc func(ctx context.Context, svc domain.Service) probe.Outcome

func (f checkerFunc) Check(ctx context.Context, svc domain.Service) probe.Outcome {
	return f(ctx, svc)
}

type captureNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (c *captureNotifier) Send(ctx context.Context, ev notify.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return c.err
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func outcome(st domain.Status, msg string) probe.Outcome {
	o := probe.Outcome{Status: st, ErrorMessage: msg}
	if st == domain.StatusOnline || st == domain.StatusDegraded {
		ms := int64(42)
		o.ResponseTimeMS = &ms
	}
	return o
}

func newScheduler(t *testing.T, store *memory.Store, chk probe.Checker, nt notify.Notifier) *Scheduler {
	t.Helper()
	log := zap.NewNop()
	rec := NewRecorder(log, store, NewAlerter(log, store, nt))
	return New(log, store, chk, rec, time.Minute, 2*time.Second, 4, prometheus.NewRegistry())
}

func TestRunCycle_RecordsEveryServiceIndependently(t *testing.T) {
	ctx := context.Background()
	svcA := domain.Service{ID: "a", Name: "A", Type: domain.TypeHTTP, URL: "https://a"}
	svcB := domain.Service{ID: "b", Name: "B", Type: domain.TypeHTTP, URL: "https://b"}
	store := memory.New(svcA, svcB)

	// B was online before this cycle; going offline now is a fresh transition.
	require.NoError(t, store.Append(ctx, &domain.CheckRecord{
		ServiceID: "b", Status: domain.StatusOnline, CheckedAt: time.Now().Add(-10 * time.Minute),
	}))

	chk := checkerFunc(func(_ context.Context, svc domain.Service) probe.Outcome {
		if svc.ID == "a" {
			return outcome(domain.StatusOnline, "")
		}
		return outcome(domain.StatusOffline, "Timeout (>10s)")
	})
	nt := &captureNotifier{}

	stats := newScheduler(t, store, chk, nt).RunCycle(ctx)

	require.Equal(t, CycleStats{Total: 2, Online: 1, Offline: 1}, stats)

	latestA, err := store.Latest(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, domain.StatusOnline, latestA.Status)

	latestB, err := store.Latest(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, domain.StatusOffline, latestB.Status)
	require.Equal(t, "Timeout (>10s)", latestB.ErrorMessage)

	// exactly one alert, and it references B
	require.Equal(t, 1, nt.count())
	require.Equal(t, domain.ServiceID("b"), nt.events[0].ServiceID)
	require.Equal(t, "B is now offline", nt.events[0].Message)
}

func TestRunCycle_SustainedOutageAlertsOnce(t *testing.T) {
	ctx := context.Background()
	svc := domain.Service{ID: "b", Name: "B", Type: domain.TypeHTTP, URL: "https://b"}
	store := memory.New(svc)
	require.NoError(t, store.Append(ctx, &domain.CheckRecord{
		ServiceID: "b", Status: domain.StatusOnline, CheckedAt: time.Now().Add(-20 * time.Minute),
	}))

	chk := checkerFunc(func(context.Context, domain.Service) probe.Outcome {
		return outcome(domain.StatusOffline, "connection refused")
	})
	nt := &captureNotifier{}
	sched := newScheduler(t, store, chk, nt)

	sched.RunCycle(ctx) // online -> offline: alert
	sched.RunCycle(ctx) // offline -> offline: silent
	sched.RunCycle(ctx)

	require.Equal(t, 1, nt.count())
}

func TestRunCycle_FirstEverCheckNeverAlerts(t *testing.T) {
	store := memory.New(domain.Service{ID: "c", Name: "C", Type: domain.TypeHTTP, URL: "https://c"})
	chk := checkerFunc(func(context.Context, domain.Service) probe.Outcome {
		return outcome(domain.StatusOffline, "no route to host")
	})
	nt := &captureNotifier{}

	newScheduler(t, store, chk, nt).RunCycle(context.Background())
	require.Zero(t, nt.count())
}

func TestRunCycle_RegistryErrorIsContained(t *testing.T) {
	chk := checkerFunc(func(context.Context, domain.Service) probe.Outcome {
		t.Fatal("checker must not run when the registry is unavailable")
		return probe.Outcome{}
	})
	store := memory.New()
	log := zap.NewNop()
	rec := NewRecorder(log, store, nil)
	s := New(log, failingServices{}, chk, rec, time.Minute, time.Second, 2, prometheus.NewRegistry())

	stats := s.RunCycle(context.Background())
	require.Zero(t, stats.Total)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	store := memory.New()
	chk := checkerFunc(func(context.Context, domain.Service) probe.Outcome {
		return outcome(domain.StatusOnline, "")
	})
	log := zap.NewNop()
	s := New(log, store, chk, NewRecorder(log, store, nil), 10*time.Millisecond, time.Second, 1, prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

type failingServices struct{}

func (failingServices) List(context.Context) ([]domain.Service, error) {
	return nil, errors.New("store unavailable")
}
