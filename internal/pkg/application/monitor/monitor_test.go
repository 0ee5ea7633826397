package monitor

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/homefleet/safety-monitor/internal/pkg/application/alerts"
	"github.com/homefleet/safety-monitor/internal/pkg/application/reconcile"
	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/storage"
	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/matryer/is"
)

func testRunner(propertyID, name string) *reconcile.PropertyRunner {
	collector := &reconcile.CollectorMock{
		SourceFunc: func() string { return types.SourceEG4 },
		CollectFunc: func(ctx context.Context) (types.Reading, error) {
			return types.Reading{SOC: types.Ptr(64.0)}, nil
		},
	}

	readingStorage := &reconcile.ReadingStorageMock{
		AddReadingFunc: func(ctx context.Context, reading types.Reading) error {
			return nil
		},
		AddMergedFunc: func(ctx context.Context, snapshot types.Snapshot) error {
			return nil
		},
	}

	return reconcile.NewPropertyRunner(propertyID, name, []reconcile.Collector{collector}, readingStorage)
}

func TestCycleEvaluatesEveryProperty(t *testing.T) {
	is := is.New(t)

	alertSvc := &alerts.AlertServiceMock{
		EvaluateFunc: func(ctx context.Context, snapshot types.Snapshot) []types.Alert {
			return nil
		},
	}

	m := New(
		[]*reconcile.PropertyRunner{testRunner("fm", "Farmstead"), testRunner("rd", "Redwood")},
		alertSvc, &alerts.NotifierMock{}, &SummaryStorageMock{},
		Config{Interval: time.Hour},
	)

	m.cycle(context.Background())

	calls := alertSvc.EvaluateCalls()
	is.Equal(2, len(calls))

	ids := []string{calls[0].Snapshot.PropertyID, calls[1].Snapshot.PropertyID}
	sort.Strings(ids)
	is.Equal([]string{"fm", "rd"}, ids)
}

func TestCycleRunsUnderADeadline(t *testing.T) {
	is := is.New(t)

	var deadline time.Time
	var hasDeadline bool

	alertSvc := &alerts.AlertServiceMock{
		EvaluateFunc: func(ctx context.Context, snapshot types.Snapshot) []types.Alert {
			deadline, hasDeadline = ctx.Deadline()
			return nil
		},
	}

	m := New(
		[]*reconcile.PropertyRunner{testRunner("fm", "Farmstead")},
		alertSvc, &alerts.NotifierMock{}, &SummaryStorageMock{},
		Config{Interval: time.Hour},
	)

	m.cycle(context.Background())

	is.True(hasDeadline)
	is.True(time.Until(deadline) <= time.Hour)
}

func TestDailySummaryDigest(t *testing.T) {
	is := is.New(t)

	summaryStorage := &SummaryStorageMock{
		GetLatestSnapshotsFunc: func(ctx context.Context) (map[string]types.Snapshot, error) {
			return map[string]types.Snapshot{
				"fm": {
					PropertyID: "fm", PropertyName: "Farmstead",
					CollectedAt:  time.Now().UTC().Add(-30 * time.Minute),
					SOC:          types.Ptr(64.0),
					Voltage:      types.Ptr(53.2),
					PVTotalPower: types.Ptr(1550.0),
					PrimaryTemp:  types.Ptr(66.5),
				},
				"lk": {
					PropertyID: "lk", PropertyName: "Lakehouse",
					CollectedAt: time.Now().UTC().Add(-26 * time.Hour),
					SOC:         types.Ptr(41.0),
				},
			}, nil
		},
		QueryAlertsFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error) {
			return types.Collection[types.Alert]{TotalCount: 3}, nil
		},
	}

	var sent string
	notifier := &alerts.NotifierMock{
		SendFunc: func(ctx context.Context, title, message string, priority int) bool {
			sent = message
			return true
		},
	}

	m := New(
		[]*reconcile.PropertyRunner{testRunner("fm", "Farmstead"), testRunner("lk", "Lakehouse"), testRunner("rd", "Redwood")},
		&alerts.AlertServiceMock{}, notifier, summaryStorage,
		Config{Interval: time.Hour, ReportTime: "08:00", Timezone: "America/Denver"},
	)

	m.sendDailySummary(context.Background())

	is.Equal(1, len(notifier.SendCalls()))
	is.Equal(alerts.PriorityNormal, notifier.SendCalls()[0].Priority)
	is.True(strings.Contains(sent, "Farmstead"))
	is.True(strings.Contains(sent, "64%"))
	is.True(strings.Contains(sent, "Lakehouse (last seen 1d ago)"))
	is.True(strings.Contains(sent, "Redwood: no data"))
	is.True(strings.Contains(sent, "3 alert(s)"))
}

func TestUntilNextReportIsAlwaysPositive(t *testing.T) {
	is := is.New(t)

	m := New(nil, &alerts.AlertServiceMock{}, &alerts.NotifierMock{}, &SummaryStorageMock{},
		Config{Interval: time.Hour, ReportTime: "00:00"})

	d := m.untilNextReport()
	is.True(d > 0)
	is.True(d <= 24*time.Hour)
}
