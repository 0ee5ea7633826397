package alerts

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/storage"
	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/matryer/is"
)

var t0 = time.Date(2026, 2, 10, 6, 0, 0, 0, time.UTC)

func testSvc(s *AlertStorageMock, n *NotifierMock, cfg *Config, now time.Time) *alertSvc {
	if n.SendFunc == nil {
		n.SendFunc = func(ctx context.Context, title, message string, priority int) bool {
			return true
		}
	}

	m := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	return &alertSvc{
		storage:   s,
		notifier:  n,
		messenger: m,
		config:    cfg,
		now:       func() time.Time { return now },
	}
}

func quietStorage() *AlertStorageMock {
	return &AlertStorageMock{
		AddAlertFunc: func(ctx context.Context, alert types.Alert) error {
			return nil
		},
		MarkNotificationSentFunc: func(ctx context.Context, alertID string) error {
			return nil
		},
		GetLastAlertTimeFunc: func(ctx context.Context, propertyID, alertType, sensorID string) (time.Time, error) {
			return time.Time{}, storage.ErrNoRows
		},
		GetActiveAlertFunc: func(ctx context.Context, propertyID, alertType, sensorID string) (types.Alert, error) {
			return types.Alert{}, storage.ErrNoRows
		},
		GetLatestReadingTimeFunc: func(ctx context.Context, propertyID string) (time.Time, error) {
			return time.Time{}, storage.ErrNoRows
		},
		ResolveAlertFunc: func(ctx context.Context, alertID string) (bool, error) {
			return true, nil
		},
	}
}

func snapshotWithTemps(temps map[string]float64) types.Snapshot {
	return types.Snapshot{
		PropertyID:   "cabin",
		PropertyName: "Cabin",
		CollectedAt:  t0,
		Sources:      map[string]types.Reading{types.SourceHomeAssistant: {}},
		Temperatures: temps,
	}
}

func TestTemperatureBelowWarningFiresMedium(t *testing.T) {
	is := is.New(t)
	s := quietStorage()

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Crawlspace": 35}))

	is.Equal(1, len(fired))
	is.Equal(types.AlertTypeTemperature, fired[0].AlertType)
	is.Equal(types.SeverityMedium, fired[0].Severity)
	is.Equal("Crawlspace", fired[0].SensorID)
}

func TestTemperatureBelowCriticalFiresCritical(t *testing.T) {
	is := is.New(t)
	s := quietStorage()

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Crawlspace": 28}))

	is.Equal(1, len(fired))
	is.Equal(types.SeverityCritical, fired[0].Severity)
}

func TestTemperatureZeroFahrenheitNeverFires(t *testing.T) {
	is := is.New(t)
	s := quietStorage()

	// 0°F is the dead-channel sentinel, even with thresholds that would
	// otherwise make it deeply critical.
	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Crawlspace": 0}))

	is.Equal(0, len(fired))
	is.Equal(0, len(s.AddAlertCalls()))
}

func TestTemperatureOutdoorSensorUsesOutdoorThresholds(t *testing.T) {
	is := is.New(t)

	cfg := &Config{}
	cfg.SetPropertyConfig("cabin", PropertyConfig{
		OutdoorSensors:     []string{"Deck"},
		OutdoorTempWarning: types.Ptr(15.0), OutdoorTempCritical: types.Ptr(0.0),
	})

	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, cfg, t0)

	// 10°F: below outdoor warning, at/above outdoor critical.
	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Deck": 10}))
	is.Equal(1, len(fired))
	is.Equal(types.SeverityMedium, fired[0].Severity)

	fired = svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Deck": -5}))
	is.Equal(1, len(fired))
	is.Equal(types.SeverityCritical, fired[0].Severity)
}

func TestTemperatureExcludedSensorIsSkipped(t *testing.T) {
	is := is.New(t)

	cfg := &Config{}
	cfg.SetPropertyConfig("cabin", PropertyConfig{ExcludeSensors: []string{"Garage Fridge"}})

	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, cfg, t0)

	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Garage Fridge": 33}))

	is.Equal(0, len(fired))
}

func TestTemperaturePrimaryFallbackOnlyWithoutNamedSensors(t *testing.T) {
	is := is.New(t)
	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := snapshotWithTemps(nil)
	snapshot.PrimaryTemp = types.Ptr(34.0)

	fired := svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
	is.Equal("primary", fired[0].SensorID)

	// With named sensors present, the primary value is not re-checked.
	snapshot = snapshotWithTemps(map[string]float64{"Living Room": 68})
	snapshot.PrimaryTemp = types.Ptr(34.0)

	fired = svc.Evaluate(context.Background(), snapshot)
	is.Equal(0, len(fired))
}

func TestBatteryCooldownScenario(t *testing.T) {
	is := is.New(t)

	// low=20, critical=10, cooldown=120min. SOC 8% fires critical at
	// t0, stays silent at t0+30min, fires again at t0+130min.
	cfg := &Config{}
	cfg.SetPropertyConfig("cabin", PropertyConfig{
		BatteryLowThresholdPercent:      types.Ptr(20.0),
		BatteryCriticalThresholdPercent: types.Ptr(10.0),
		BatteryCooldownMinutes:          types.Ptr(120),
	})

	lastFired := time.Time{}

	s := quietStorage()
	s.GetLastAlertTimeFunc = func(ctx context.Context, propertyID, alertType, sensorID string) (time.Time, error) {
		if lastFired.IsZero() {
			return time.Time{}, storage.ErrNoRows
		}
		return lastFired, nil
	}
	s.AddAlertFunc = func(ctx context.Context, alert types.Alert) error {
		lastFired = alert.TriggeredAt
		return nil
	}

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources: map[string]types.Reading{types.SourceEG4: {}},
		SOC:     types.Ptr(8.0),
	}

	svc := testSvc(s, &NotifierMock{}, cfg, t0)
	fired := svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
	is.Equal(types.SeverityCritical, fired[0].Severity)
	is.Equal(SensorInverterSOC, fired[0].SensorID)

	svc.now = func() time.Time { return t0.Add(30 * time.Minute) }
	fired = svc.Evaluate(context.Background(), snapshot)
	is.Equal(0, len(fired))

	svc.now = func() time.Time { return t0.Add(130 * time.Minute) }
	fired = svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
}

func TestBatteryDeviceExcludeIsCaseInsensitive(t *testing.T) {
	is := is.New(t)

	cfg := &Config{}
	cfg.SetPropertyConfig("cabin", PropertyConfig{BatteryExcludeDevices: []string{"front door LOCK"}})

	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, cfg, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources: map[string]types.Reading{types.SourceHubitatCloud: {}},
		BatteryDevices: []types.Device{
			{EntityID: "lock-1", Name: "Front Door Lock", BatteryPct: types.Ptr(5.0)},
			{EntityID: "motion-2", Name: "Shed Motion", BatteryPct: types.Ptr(12.0)},
		},
	}

	fired := svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
	is.Equal("motion-2", fired[0].SensorID)
}

func TestBatteryDeviceNilPercentageIsSkipped(t *testing.T) {
	is := is.New(t)
	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources:        map[string]types.Reading{types.SourceHubitatCloud: {}},
		BatteryDevices: []types.Device{{EntityID: "leak-1", Name: "Leak Sensor"}},
	}

	is.Equal(0, len(svc.Evaluate(context.Background(), snapshot)))
}

func TestWaterAlertLatches(t *testing.T) {
	is := is.New(t)

	active := map[string]types.Alert{}

	s := quietStorage()
	s.GetActiveAlertFunc = func(ctx context.Context, propertyID, alertType, sensorID string) (types.Alert, error) {
		if a, ok := active[sensorID]; ok {
			return a, nil
		}
		return types.Alert{}, storage.ErrNoRows
	}
	s.AddAlertFunc = func(ctx context.Context, alert types.Alert) error {
		active[alert.SensorID] = alert
		return nil
	}
	s.ResolveAlertFunc = func(ctx context.Context, alertID string) (bool, error) {
		for k, a := range active {
			if a.ID == alertID {
				delete(active, k)
				return true, nil
			}
		}
		return false, nil
	}

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources:      map[string]types.Reading{types.SourceHomeAssistant: {}},
		WaterSensors: []types.WaterSensor{{EntityID: "leak-1", Name: "Water Heater", State: " Wet "}},
	}

	fired := svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
	is.Equal(types.SeverityCritical, fired[0].Severity)

	// Still wet next cycle: latched, no second record.
	fired = svc.Evaluate(context.Background(), snapshot)
	is.Equal(0, len(fired))
	is.Equal(1, len(s.AddAlertCalls()))

	// Manual clear, then wet again: a new record.
	err := svc.Resolve(context.Background(), s.AddAlertCalls()[0].Alert.ID)
	is.NoErr(err)

	fired = svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
	is.Equal(2, len(s.AddAlertCalls()))
}

func TestWaterDryDoesNotClearLatch(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	s.GetActiveAlertFunc = func(ctx context.Context, propertyID, alertType, sensorID string) (types.Alert, error) {
		return types.Alert{ID: "existing", SensorID: sensorID}, nil
	}

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources:      map[string]types.Reading{types.SourceHomeAssistant: {}},
		WaterSensors: []types.WaterSensor{{EntityID: "leak-1", Name: "Water Heater", State: "dry"}},
	}

	is.Equal(0, len(svc.Evaluate(context.Background(), snapshot)))
	is.Equal(0, len(s.ResolveAlertCalls()))
}

func TestOfflineFiresImmediatelyWithoutHistory(t *testing.T) {
	is := is.New(t)
	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources: map[string]types.Reading{},
		Errors:  []string{"eg4: connection refused", "ha_api: timeout"},
	}

	fired := svc.Evaluate(context.Background(), snapshot)
	is.Equal(1, len(fired))
	is.Equal(types.AlertTypeOffline, fired[0].AlertType)
	is.Equal(types.SeverityHigh, fired[0].Severity)
}

func TestOfflineGracePeriodSuppresses(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	s.GetLatestReadingTimeFunc = func(ctx context.Context, propertyID string) (time.Time, error) {
		return t0.Add(-5 * time.Minute), nil
	}

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources: map[string]types.Reading{},
		Errors:  []string{"eg4: connection refused"},
	}

	is.Equal(0, len(svc.Evaluate(context.Background(), snapshot)))

	// Past the 30 minute timeout the same condition fires.
	s.GetLatestReadingTimeFunc = func(ctx context.Context, propertyID string) (time.Time, error) {
		return t0.Add(-45 * time.Minute), nil
	}
	is.Equal(1, len(svc.Evaluate(context.Background(), snapshot)))
}

func TestOfflineNotTriggeredByPartialFailure(t *testing.T) {
	is := is.New(t)
	s := quietStorage()
	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources: map[string]types.Reading{types.SourceEG4: {}},
		Errors:  []string{"ha_api: timeout"},
	}

	is.Equal(0, len(svc.Evaluate(context.Background(), snapshot)))
}

func TestCooldownFailsOpenOnStorageError(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	s.GetLastAlertTimeFunc = func(ctx context.Context, propertyID, alertType, sensorID string) (time.Time, error) {
		return time.Time{}, errors.New("timestamp parse failure")
	}

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Crawlspace": 33}))
	is.Equal(1, len(fired))
}

func TestNotificationFailureStillPersistsAlert(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	n := &NotifierMock{
		SendFunc: func(ctx context.Context, title, message string, priority int) bool {
			return false
		},
	}

	svc := testSvc(s, n, &Config{}, t0)

	fired := svc.Evaluate(context.Background(), snapshotWithTemps(map[string]float64{"Crawlspace": 33}))
	is.Equal(1, len(fired))
	is.Equal(false, fired[0].NotificationSent)
	is.Equal(1, len(s.AddAlertCalls()))
	is.Equal(0, len(s.MarkNotificationSentCalls()))
}

func TestWaterUsesEmergencyPriority(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	n := &NotifierMock{}

	svc := testSvc(s, n, &Config{}, t0)

	snapshot := types.Snapshot{
		PropertyID: "cabin", PropertyName: "Cabin",
		Sources:      map[string]types.Reading{types.SourceHomeAssistant: {}},
		WaterSensors: []types.WaterSensor{{EntityID: "leak-1", Name: "Sump", State: "wet"}},
	}

	svc.Evaluate(context.Background(), snapshot)

	is.Equal(1, len(n.SendCalls()))
	is.Equal(PriorityEmergency, n.SendCalls()[0].Priority)
}

func TestResolveUnknownAlert(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	s.ResolveAlertFunc = func(ctx context.Context, alertID string) (bool, error) {
		return false, nil
	}

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)

	err := svc.Resolve(context.Background(), "nope")
	is.True(errors.Is(err, ErrAlertNotFound))
}

func TestResolveDecoratesError(t *testing.T) {
	is := is.New(t)

	s := quietStorage()
	s.ResolveAlertFunc = func(ctx context.Context, alertID string) (bool, error) {
		return false, fmt.Errorf("connection lost")
	}

	svc := testSvc(s, &NotifierMock{}, &Config{}, t0)
	is.True(svc.Resolve(context.Background(), "x") != nil)
}
