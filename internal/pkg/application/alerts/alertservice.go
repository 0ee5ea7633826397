package alerts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/homefleet/safety-monitor/internal/pkg/format"
	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/storage"
	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("safety-monitor/alerts")

var ErrAlertNotFound = fmt.Errorf("alert not found")

// The inverter state of charge fires under this fixed sensor key so its
// cooldown is tracked independently of hub device batteries.
const SensorInverterSOC = "inverter_soc"

// Notification priorities, matching the Pushover levels the dispatcher
// understands.
const (
	PriorityNormal    = 0
	PriorityHigh      = 1
	PriorityEmergency = 2
)

//go:generate moq -rm -out alertstorage_mock.go . AlertStorage
type AlertStorage interface {
	AddAlert(ctx context.Context, alert types.Alert) error
	MarkNotificationSent(ctx context.Context, alertID string) error
	GetLastAlertTime(ctx context.Context, propertyID, alertType, sensorID string) (time.Time, error)
	GetActiveAlert(ctx context.Context, propertyID, alertType, sensorID string) (types.Alert, error)
	GetLatestReadingTime(ctx context.Context, propertyID string) (time.Time, error)
	ResolveAlert(ctx context.Context, alertID string) (bool, error)
}

//go:generate moq -rm -out notifier_mock.go . Notifier
type Notifier interface {
	Send(ctx context.Context, title, message string, priority int) bool
}

//go:generate moq -rm -out alertservice_mock.go . AlertService
type AlertService interface {
	Evaluate(ctx context.Context, snapshot types.Snapshot) []types.Alert
	Resolve(ctx context.Context, alertID string) error
}

type alertSvc struct {
	storage   AlertStorage
	notifier  Notifier
	messenger messaging.MsgContext
	config    *Config

	now func() time.Time
}

func New(s AlertStorage, n Notifier, m messaging.MsgContext, cfg *Config) AlertService {
	return &alertSvc{
		storage:   s,
		notifier:  n,
		messenger: m,
		config:    cfg,
		now:       time.Now,
	}
}

// Evaluate runs every enabled check against one snapshot. Checks are
// independent: a failure inside one is logged and never stops the
// others, and nothing propagates to the caller.
func (svc *alertSvc) Evaluate(ctx context.Context, snapshot types.Snapshot) []types.Alert {
	ctx, span := tracer.Start(ctx, "evaluate-alerts")
	defer span.End()

	span.SetAttributes(attribute.String("property_id", snapshot.PropertyID))

	settings := svc.config.Resolve(snapshot.PropertyID)

	fired := make([]types.Alert, 0)

	if settings.Temperature.Enabled {
		fired = append(fired, svc.checkTemperatures(ctx, snapshot, settings.Temperature)...)
	}
	if settings.Battery.Enabled {
		fired = append(fired, svc.checkBatteries(ctx, snapshot, settings.Battery)...)
	}
	if settings.Water.Enabled {
		fired = append(fired, svc.checkWater(ctx, snapshot, settings.Water)...)
	}
	if settings.Offline.Enabled {
		fired = append(fired, svc.checkOffline(ctx, snapshot, settings.Offline)...)
	}

	return fired
}

func (svc *alertSvc) checkTemperatures(ctx context.Context, snapshot types.Snapshot, cfg TemperatureSettings) []types.Alert {
	log := logging.GetFromContext(ctx)

	temps := map[string]float64{}
	for sensorID, f := range snapshot.Temperatures {
		temps[sensorID] = f
	}

	// The primary temperature only stands in when no named sensors
	// reported at all.
	if len(temps) == 0 && snapshot.PrimaryTemp != nil {
		temps["primary"] = *snapshot.PrimaryTemp
	}

	sensorIDs := lo.Keys(temps)
	sort.Strings(sensorIDs)

	fired := make([]types.Alert, 0)

	for _, sensorID := range sensorIDs {
		tempF := temps[sensorID]

		if lo.Contains(cfg.ExcludeSensors, sensorID) {
			continue
		}

		// A reading of exactly 0°F is the dead-channel sentinel some
		// virtual sensors report and is never evaluated.
		if tempF == 0 {
			continue
		}

		warning, critical := cfg.IndoorWarning, cfg.IndoorCritical
		if lo.Contains(cfg.OutdoorSensors, sensorID) {
			warning, critical = cfg.OutdoorWarning, cfg.OutdoorCritical
		}

		if tempF >= warning {
			continue
		}
		if !svc.cooldownExpired(ctx, snapshot.PropertyID, types.AlertTypeTemperature, sensorID, cfg.CooldownMinutes) {
			continue
		}

		severity := types.SeverityMedium
		label := "⚠️ Low temp"
		if tempF < critical {
			severity = types.SeverityCritical
			label = "🚨 FREEZING"
		}

		alert := svc.fire(ctx, snapshot, types.Alert{
			PropertyID: snapshot.PropertyID,
			AlertType:  types.AlertTypeTemperature,
			SensorID:   sensorID,
			Value:      types.Ptr(tempF),
			Threshold:  types.Ptr(warning),
			Severity:   severity,
			Message:    fmt.Sprintf("%s at %s: %s (%s)", label, snapshot.PropertyName, format.Temp(&tempF), sensorID),
		}, cfg.Pushover)

		fired = append(fired, alert)
		log.Warn("temperature alert", "property_id", snapshot.PropertyID, "sensor_id", sensorID, "temp_f", tempF, "severity", severity)
	}

	return fired
}

func (svc *alertSvc) checkBatteries(ctx context.Context, snapshot types.Snapshot, cfg BatterySettings) []types.Alert {
	log := logging.GetFromContext(ctx)

	fired := make([]types.Alert, 0)

	if soc := snapshot.SOC; soc != nil && *soc < cfg.LowThreshold {
		if svc.cooldownExpired(ctx, snapshot.PropertyID, types.AlertTypeBattery, SensorInverterSOC, cfg.CooldownMinutes) {
			severity, label := types.SeverityMedium, "⚠️ Low"
			if *soc < cfg.CriticalThreshold {
				severity, label = types.SeverityCritical, "🔴 Critical"
			}

			alert := svc.fire(ctx, snapshot, types.Alert{
				PropertyID: snapshot.PropertyID,
				AlertType:  types.AlertTypeBattery,
				SensorID:   SensorInverterSOC,
				Value:      soc,
				Threshold:  types.Ptr(cfg.LowThreshold),
				Severity:   severity,
				Message:    fmt.Sprintf("%s inverter battery SOC at %s: %s", label, snapshot.PropertyName, format.Pct(soc)),
			}, cfg.Pushover)

			fired = append(fired, alert)
			log.Warn("battery alert", "property_id", snapshot.PropertyID, "sensor_id", SensorInverterSOC, "soc", *soc, "severity", severity)
		}
	}

	for _, device := range snapshot.BatteryDevices {
		name := device.Name
		if name == "" {
			name = device.EntityID
		}

		if isExcluded(cfg.ExcludeDevices, name, device.EntityID) {
			continue
		}

		pct := device.BatteryPct
		if pct == nil || *pct >= cfg.LowThreshold {
			continue
		}
		if !svc.cooldownExpired(ctx, snapshot.PropertyID, types.AlertTypeBattery, device.EntityID, cfg.CooldownMinutes) {
			continue
		}

		severity, label := types.SeverityMedium, "⚠️ Low"
		if *pct < cfg.CriticalThreshold {
			severity, label = types.SeverityCritical, "🔴 Critical"
		}

		alert := svc.fire(ctx, snapshot, types.Alert{
			PropertyID: snapshot.PropertyID,
			AlertType:  types.AlertTypeBattery,
			SensorID:   device.EntityID,
			Value:      pct,
			Threshold:  types.Ptr(cfg.LowThreshold),
			Severity:   severity,
			Message:    fmt.Sprintf("%s device battery at %s: %s = %s", label, snapshot.PropertyName, name, format.Pct(pct)),
		}, cfg.Pushover)

		fired = append(fired, alert)
		log.Warn("battery alert", "property_id", snapshot.PropertyID, "sensor_id", device.EntityID, "pct", *pct, "severity", severity)
	}

	return fired
}

// checkWater latches: once an unresolved alert exists for a sensor no
// new one is created, no matter how many cycles it stays wet. A "dry"
// reading does not clear the latch; only an explicit Resolve does.
func (svc *alertSvc) checkWater(ctx context.Context, snapshot types.Snapshot, cfg WaterSettings) []types.Alert {
	log := logging.GetFromContext(ctx)

	fired := make([]types.Alert, 0)

	for _, sensor := range snapshot.WaterSensors {
		if !strings.EqualFold(strings.TrimSpace(sensor.State), "wet") {
			continue
		}
		if isExcluded(cfg.ExcludeSensors, sensor.Name, sensor.EntityID) {
			continue
		}

		_, err := svc.storage.GetActiveAlert(ctx, snapshot.PropertyID, types.AlertTypeWater, sensor.EntityID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNoRows) {
			log.Error("active water alert lookup failed", "property_id", snapshot.PropertyID, "sensor_id", sensor.EntityID, "err", err.Error())
			// Fail open: a broken lookup must not swallow a leak alert.
		}

		name := sensor.Name
		if name == "" {
			name = sensor.EntityID
		}

		alert := svc.fire(ctx, snapshot, types.Alert{
			PropertyID: snapshot.PropertyID,
			AlertType:  types.AlertTypeWater,
			SensorID:   sensor.EntityID,
			Severity:   types.SeverityCritical,
			Message:    fmt.Sprintf("💧 WATER DETECTED at %s: %s is wet", snapshot.PropertyName, name),
		}, cfg.Pushover)

		fired = append(fired, alert)
		log.Warn("water alert", "property_id", snapshot.PropertyID, "sensor_id", sensor.EntityID)
	}

	return fired
}

func (svc *alertSvc) checkOffline(ctx context.Context, snapshot types.Snapshot, cfg OfflineSettings) []types.Alert {
	log := logging.GetFromContext(ctx)

	if !snapshot.Offline() {
		return nil
	}

	// Grace period: tolerate transient failures while a recent
	// successful reading exists. No prior reading at all means there is
	// nothing to establish a grace period from, so fire immediately.
	last, err := svc.storage.GetLatestReadingTime(ctx, snapshot.PropertyID)
	if err == nil && !last.IsZero() {
		if svc.now().Sub(last) < time.Duration(cfg.TimeoutMinutes)*time.Minute {
			return nil
		}
	} else if err != nil && !errors.Is(err, storage.ErrNoRows) {
		log.Error("latest reading lookup failed", "property_id", snapshot.PropertyID, "err", err.Error())
	}

	if !svc.cooldownExpired(ctx, snapshot.PropertyID, types.AlertTypeOffline, "", cfg.CooldownMinutes) {
		return nil
	}

	alert := svc.fire(ctx, snapshot, types.Alert{
		PropertyID: snapshot.PropertyID,
		AlertType:  types.AlertTypeOffline,
		Severity:   types.SeverityHigh,
		Message:    fmt.Sprintf("📡 %s is OFFLINE — no data collected. Errors: %s", snapshot.PropertyName, strings.Join(snapshot.Errors, "; ")),
	}, cfg.Pushover)

	log.Warn("offline alert", "property_id", snapshot.PropertyID, "errors", strings.Join(snapshot.Errors, "; "))

	return []types.Alert{alert}
}

// Resolve clears a latched alert. This is the only path that clears a
// water alert; sensors reporting dry never do.
func (svc *alertSvc) Resolve(ctx context.Context, alertID string) error {
	changed, err := svc.storage.ResolveAlert(ctx, alertID)
	if err != nil {
		return err
	}
	if !changed {
		return ErrAlertNotFound
	}

	return svc.messenger.PublishOnTopic(ctx, &AlertResolved{
		ID:        alertID,
		Timestamp: svc.now().UTC(),
	})
}

// cooldownExpired reports whether enough time has passed since the last
// identical alert. Any lookup failure counts as expired: for a safety
// monitor it is better to repeat an alert than to drop one.
func (svc *alertSvc) cooldownExpired(ctx context.Context, propertyID, alertType, sensorID string, cooldownMinutes int) bool {
	last, err := svc.storage.GetLastAlertTime(ctx, propertyID, alertType, sensorID)
	if err != nil || last.IsZero() {
		return true
	}

	return svc.now().Sub(last) > time.Duration(cooldownMinutes)*time.Minute
}

// fire persists the alert, attempts notification, and publishes the
// created event. A failed dispatch never rolls the record back; the
// alert exists whether or not the push went out.
func (svc *alertSvc) fire(ctx context.Context, snapshot types.Snapshot, alert types.Alert, pushover bool) types.Alert {
	log := logging.GetFromContext(ctx)

	alert.ID = uuid.NewString()
	alert.TriggeredAt = svc.now().UTC()

	err := svc.storage.AddAlert(ctx, alert)
	if err != nil {
		log.Error("could not store alert", "property_id", alert.PropertyID, "alert_type", alert.AlertType, "err", err.Error())
	}

	if pushover {
		title := fmt.Sprintf("Safety Monitor — %s", snapshot.PropertyName)
		if svc.notifier.Send(ctx, title, alert.Message, priorityFor(alert)) {
			if err := svc.storage.MarkNotificationSent(ctx, alert.ID); err != nil {
				log.Error("could not mark notification sent", "alert_id", alert.ID, "err", err.Error())
			}
			alert.NotificationSent = true
		}
	}

	err = svc.messenger.PublishOnTopic(ctx, &AlertCreated{Alert: alert, Timestamp: alert.TriggeredAt})
	if err != nil {
		log.Error("could not publish alert created", "alert_id", alert.ID, "err", err.Error())
	}

	return alert
}

// priorityFor maps alert class and severity onto Pushover priorities.
// Water is the one category that warrants the emergency retry loop.
func priorityFor(alert types.Alert) int {
	if alert.AlertType == types.AlertTypeWater {
		return PriorityEmergency
	}
	if alert.Severity == types.SeverityCritical || alert.Severity == types.SeverityHigh {
		return PriorityHigh
	}
	return PriorityNormal
}

func isExcluded(excludes []string, name, entityID string) bool {
	return lo.ContainsBy(excludes, func(x string) bool {
		return strings.EqualFold(x, name) || strings.EqualFold(x, entityID)
	})
}
