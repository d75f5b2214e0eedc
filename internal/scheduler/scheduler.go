package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/probe"
	"github.com/guthdx/statuswatch/internal/repo"
)

// Scheduler drives recurring check cycles: it loads the registry, fans the
// probes out concurrently, and hands each settled result to the Recorder as
// soon as it finishes. A failed cycle is recorded as offline/degraded
// results, never raised as an error.
type Scheduler struct {
	Logger      *zap.Logger
	Services    repo.ServiceStore
	Checker     probe.Checker
	Recorder    *Recorder
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int

	mCycles   prometheus.Counter
	mProbes   *prometheus.CounterVec
	mErrors   prometheus.Counter
	mCycleDur prometheus.Histogram
}

// CycleStats is the aggregate outcome of one cycle, logged for
// observability and returned to the manual trigger.
type CycleStats struct {
	Total    int `json:"total"`
	Online   int `json:"online"`
	Offline  int `json:"offline"`
	Degraded int `json:"degraded"`
	Checking int `json:"checking"`
	Failed   int `json:"failed"` // records that could not be persisted
}

func New(
	logger *zap.Logger,
	services repo.ServiceStore,
	checker probe.Checker,
	recorder *Recorder,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
	reg prometheus.Registerer,
) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Scheduler{
		Logger:      logger,
		Services:    services,
		Checker:     checker,
		Recorder:    recorder,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
		mCycles: f.NewCounter(prometheus.CounterOpts{
			Name: "checker_cycles_total", Help: "Completed check cycles",
		}),
		mProbes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "checker_probes_total", Help: "Probe results by status",
		}, []string{"status"}),
		mErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "checker_errors_total", Help: "Registry loads and record appends that failed",
		}),
		mCycleDur: f.NewHistogram(prometheus.HistogramOpts{
			Name: "checker_cycle_duration_seconds", Help: "Check cycle duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Run starts the timer loop with an immediate first pass. It stops when
// ctx is cancelled. Interval 0 disables the loop; manual triggers still
// work through RunCycle.
func (s *Scheduler) Run(ctx context.Context) {
	if s.Interval <= 0 {
		s.Logger.Info("scheduler_disabled")
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle executes one full cycle over the registry. Probes run as
// independent bounded-concurrency tasks; one service's failure or slowness
// never blocks or fails another's check.
func (s *Scheduler) RunCycle(ctx context.Context) CycleStats {
	start := time.Now()

	services, err := s.Services.List(ctx)
	if err != nil {
		s.mErrors.Inc()
		s.Logger.Warn("scheduler_list_error", zap.Error(err))
		return CycleStats{}
	}

	var (
		mu    sync.Mutex
		stats CycleStats
		wg    sync.WaitGroup
		sem   = make(chan struct{}, s.Concurrency)
	)
	stats.Total = len(services)

	for _, svc := range services {
		svc := svc
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, s.Timeout)
			defer cancel()

			out := s.Checker.Check(cctx, svc)
			if out.Status == domain.StatusOffline {
				s.logDNSDiagnostics(svc)
			}

			_, recErr := s.Recorder.Record(ctx, svc, out)

			s.mProbes.WithLabelValues(string(out.Status)).Inc()
			mu.Lock()
			switch out.Status {
			case domain.StatusOnline:
				stats.Online++
			case domain.StatusOffline:
				stats.Offline++
			case domain.StatusDegraded:
				stats.Degraded++
			case domain.StatusChecking:
				stats.Checking++
			}
			if recErr != nil {
				stats.Failed++
			}
			mu.Unlock()
			if recErr != nil {
				s.mErrors.Inc()
			}
		}()
	}
	wg.Wait()

	s.mCycles.Inc()
	s.mCycleDur.Observe(time.Since(start).Seconds())
	s.Logger.Info("check_cycle_done",
		zap.Int("total", stats.Total),
		zap.Int("online", stats.Online),
		zap.Int("offline", stats.Offline),
		zap.Int("degraded", stats.Degraded),
		zap.Int("checking", stats.Checking),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return stats
}

// logDNSDiagnostics distinguishes a dead host from a dead name when a
// probe goes offline. Debug-only; never stored.
func (s *Scheduler) logDNSDiagnostics(svc domain.Service) {
	if svc.Type != domain.TypeHTTP {
		return
	}
	dns := probe.CheckDNS(probe.HostOf(svc.URL))
	s.Logger.Debug("offline_dns_diagnostics",
		zap.String("service_id", string(svc.ID)),
		zap.String("host", dns.Host),
		zap.String("class", dns.Class),
		zap.Bool("has_a_or_aaaa", dns.HasAOrAAAA),
		zap.Strings("nameservers", dns.Nameservers),
		zap.String("cname", dns.CNAME),
		zap.String("resolver_error", dns.ResolverError),
	)
}
