package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/homefleet/safety-monitor/internal/pkg/application/alerts"
	"github.com/homefleet/safety-monitor/internal/pkg/application/reconcile"
	"github.com/homefleet/safety-monitor/internal/pkg/format"
	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/storage"
	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

//go:generate moq -rm -out summarystorage_mock.go . SummaryStorage
type SummaryStorage interface {
	GetLatestSnapshots(ctx context.Context) (map[string]types.Snapshot, error)
	QueryAlerts(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error)
}

// Config drives the collection schedule. ReportTime is a local "HH:MM"
// in Timezone; an unparsable or empty value disables the daily summary.
type Config struct {
	Interval   time.Duration
	ReportTime string
	Timezone   string
}

// Monitor owns the periodic collection loop: every tick it runs each
// property's collectors, reconciles, evaluates alerts, and once a day
// sends a digest. Cycles never overlap: the loop runs them one at a
// time, and ticks arriving mid-cycle are dropped rather than queued.
type Monitor struct {
	runners  []*reconcile.PropertyRunner
	alertSvc alerts.AlertService
	notifier alerts.Notifier
	storage  SummaryStorage

	interval time.Duration
	reportAt time.Time
	location *time.Location

	trigger chan struct{}
	done    chan struct{}
	started bool
}

func New(runners []*reconcile.PropertyRunner, alertSvc alerts.AlertService, notifier alerts.Notifier, storage SummaryStorage, cfg Config) *Monitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil || cfg.Timezone == "" {
		location = time.UTC
	}

	m := &Monitor{
		runners:  runners,
		alertSvc: alertSvc,
		notifier: notifier,
		storage:  storage,
		interval: interval,
		location: location,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	if t, err := time.Parse("15:04", cfg.ReportTime); err == nil {
		m.reportAt = t
	}

	return m
}

// Start launches the loop and runs the first cycle immediately so a
// fresh deployment has data before the first tick. Returns once the
// loop goroutine is running.
func (m *Monitor) Start(ctx context.Context) {
	if m.started {
		return
	}
	m.started = true

	go m.run(ctx)
}

func (m *Monitor) Stop() {
	if !m.started {
		return
	}
	m.started = false

	close(m.done)
}

// Trigger requests an immediate out-of-band cycle. Non-blocking; if a
// trigger is already pending the request coalesces with it.
func (m *Monitor) Trigger() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

func (m *Monitor) run(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	summary := m.summaryTimer()
	defer summary.Stop()

	log.Info("monitor started", "interval", m.interval.String(), "properties", len(m.runners))

	m.cycle(ctx)

	for {
		select {
		case <-ticker.C:
			m.cycle(ctx)
		case <-m.trigger:
			m.cycle(ctx)
		case <-summary.C:
			m.sendDailySummary(ctx)
			summary.Reset(m.untilNextReport())
		case <-m.done:
			log.Info("monitor stopped")
			return
		case <-ctx.Done():
			return
		}
	}
}

// cycle runs every property once. Properties are independent, so they
// run concurrently; the loop itself only runs one cycle at a time. The
// whole cycle, collectors and persistence included, must finish within
// one collection interval or it is cancelled.
func (m *Monitor) cycle(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	started := time.Now()

	var wg sync.WaitGroup

	for _, runner := range m.runners {
		wg.Add(1)

		go func(runner *reconcile.PropertyRunner) {
			defer wg.Done()

			snapshot := runner.Run(ctx)
			fired := m.alertSvc.Evaluate(ctx, snapshot)

			log.Info("collection cycle",
				"property_id", runner.PropertyID(),
				"soc", format.Pct(snapshot.SOC),
				"temp", format.Temp(snapshot.PrimaryTemp),
				"sources", len(snapshot.Sources),
				"errors", len(snapshot.Errors),
				"alerts_fired", len(fired),
			)
		}(runner)
	}

	wg.Wait()

	log.Debug("collection cycle complete", "duration", time.Since(started).String())
}

// summaryTimer returns a timer for the next daily report, or one that
// never fires when no report time is configured.
func (m *Monitor) summaryTimer() *time.Timer {
	if m.reportAt.IsZero() {
		t := time.NewTimer(time.Hour)
		t.Stop()
		return t
	}
	return time.NewTimer(m.untilNextReport())
}

func (m *Monitor) untilNextReport() time.Duration {
	now := time.Now().In(m.location)

	next := time.Date(now.Year(), now.Month(), now.Day(), m.reportAt.Hour(), m.reportAt.Minute(), 0, 0, m.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return time.Until(next)
}

func (m *Monitor) sendDailySummary(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	latest, err := m.storage.GetLatestSnapshots(ctx)
	if err != nil {
		log.Error("daily summary: could not load snapshots", "err", err.Error())
		return
	}

	now := time.Now().In(m.location)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Daily summary — %s\n\n", now.Format("Mon Jan 2, 2006"))

	for _, runner := range m.runners {
		snapshot, ok := latest[runner.PropertyID()]
		if !ok {
			fmt.Fprintf(&b, "• %s: no data\n\n", runner.PropertyName())
			continue
		}

		if now.Sub(snapshot.CollectedAt) > time.Hour {
			fmt.Fprintf(&b, "• %s (last seen %s)\n", runner.PropertyName(), format.Ago(snapshot.CollectedAt, now))
		} else {
			fmt.Fprintf(&b, "• %s\n", runner.PropertyName())
		}
		if snapshot.SOC != nil {
			fmt.Fprintf(&b, "  Battery: %s %s\n", format.Pct(snapshot.SOC), format.Voltage(snapshot.Voltage))
		}
		if snapshot.PVTotalPower != nil {
			fmt.Fprintf(&b, "  PV: %s\n", format.Power(snapshot.PVTotalPower))
		}
		if snapshot.PrimaryTemp != nil {
			fmt.Fprintf(&b, "  Temp: %s\n", format.Temp(snapshot.PrimaryTemp))
		}
		if snapshot.Vehicle != nil && snapshot.Vehicle.SOCPercent != nil {
			fmt.Fprintf(&b, "  Vehicle: %s\n", format.Pct(snapshot.Vehicle.SOCPercent))
		}
		b.WriteString("\n")
	}

	recent, err := m.storage.QueryAlerts(ctx, storage.WithSince(time.Now().Add(-24*time.Hour)))
	if err != nil {
		log.Error("daily summary: could not count alerts", "err", err.Error())
	}

	if recent.TotalCount > 0 {
		fmt.Fprintf(&b, "⚠️ %d alert(s) in last 24h", recent.TotalCount)
	} else {
		b.WriteString("✅ No alerts in last 24h")
	}

	m.notifier.Send(ctx, "Safety Monitor — Daily Summary", b.String(), alerts.PriorityNormal)
}
