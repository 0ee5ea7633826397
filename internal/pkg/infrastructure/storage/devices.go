package storage

import (
	"context"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/jackc/pgx/v5"
)

// UpdateDevices replaces the stored battery/activity state for every
// device in the list, keyed by (property, entity). Each upsert is one
// atomic row write; no cross-device transaction is needed.
func (s *Storage) UpdateDevices(ctx context.Context, propertyID string, devices []types.Device) error {
	for _, d := range devices {
		if d.EntityID == "" {
			continue
		}

		collectedAt := d.CollectedAt
		if collectedAt.IsZero() {
			collectedAt = time.Now().UTC()
		}

		args := pgx.NamedArgs{
			"property_id":   propertyID,
			"entity_id":     d.EntityID,
			"friendly_name": d.Name,
			"battery_pct":   d.BatteryPct,
			"device_type":   d.DeviceType,
			"last_activity": d.LastActivity,
			"collected_at":  collectedAt.UTC(),
		}

		_, err := s.pool.Exec(ctx, `
			INSERT INTO devices (property_id, entity_id, friendly_name, battery_pct, device_type, last_activity, collected_at)
			VALUES (@property_id, @entity_id, @friendly_name, @battery_pct, @device_type, @last_activity, @collected_at)
			ON CONFLICT (property_id, entity_id) DO UPDATE
			SET friendly_name = EXCLUDED.friendly_name,
				battery_pct = EXCLUDED.battery_pct,
				device_type = EXCLUDED.device_type,
				last_activity = EXCLUDED.last_activity,
				collected_at = EXCLUDED.collected_at
		`, args)
		if err != nil {
			return err
		}
	}

	return nil
}

// QueryDevices returns stored devices, lowest battery first.
func (s *Storage) QueryDevices(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Device], error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	query := `
		SELECT property_id, entity_id, friendly_name, battery_pct, device_type, last_activity, collected_at, count(*) OVER () AS count
		FROM devices
		WHERE ` + condition.Where() + `
		ORDER BY battery_pct ASC NULLS LAST
	`

	rows, err := s.pool.Query(ctx, query, condition.NamedArgs())
	if err != nil {
		return types.Collection[types.Device]{}, err
	}

	var propertyID, entityID string
	var friendlyName, deviceType *string
	var batteryPct *float64
	var lastActivity *time.Time
	var collectedAt time.Time
	var count int64

	devices := make([]types.Device, 0)

	_, err = pgx.ForEachRow(rows, []any{&propertyID, &entityID, &friendlyName, &batteryPct, &deviceType, &lastActivity, &collectedAt, &count}, func() error {
		d := types.Device{
			PropertyID:   propertyID,
			EntityID:     entityID,
			BatteryPct:   batteryPct,
			LastActivity: lastActivity,
			CollectedAt:  collectedAt,
		}
		if friendlyName != nil {
			d.Name = *friendlyName
		}
		if deviceType != nil {
			d.DeviceType = *deviceType
		}

		devices = append(devices, d)

		return nil
	})
	if err != nil {
		return types.Collection[types.Device]{}, err
	}

	return types.Collection[types.Device]{
		Data:       devices,
		Count:      uint64(len(devices)),
		TotalCount: uint64(count),
	}, nil
}
