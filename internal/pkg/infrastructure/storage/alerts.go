package storage

import (
	"context"
	"errors"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) AddAlert(ctx context.Context, alert types.Alert) error {
	if alert.ID == "" || alert.PropertyID == "" {
		return ErrNoID
	}

	args := pgx.NamedArgs{
		"alert_id":     alert.ID,
		"property_id":  alert.PropertyID,
		"alert_type":   alert.AlertType,
		"sensor_id":    alert.SensorID,
		"value":        alert.Value,
		"threshold":    alert.Threshold,
		"severity":     alert.Severity,
		"message":      alert.Message,
		"triggered_at": alert.TriggeredAt.UTC(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (alert_id, property_id, alert_type, sensor_id, value, threshold, severity, message, triggered_at)
		VALUES (@alert_id, @property_id, @alert_type, @sensor_id, @value, @threshold, @severity, @message, @triggered_at)
	`, args)
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) MarkNotificationSent(ctx context.Context, alertID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE alerts SET notified = TRUE WHERE alert_id = @alert_id
	`, pgx.NamedArgs{"alert_id": alertID})
	return err
}

// GetLastAlertTime returns the trigger time of the most recent alert of
// the exact (property, type, sensor) key, resolved or not. ErrNoRows
// means no such alert has ever fired.
func (s *Storage) GetLastAlertTime(ctx context.Context, propertyID, alertType, sensorID string) (time.Time, error) {
	condition := &Condition{PropertyID: propertyID, AlertType: alertType, SensorID: sensorID}

	var triggeredAt time.Time

	query := `SELECT triggered_at FROM alerts WHERE ` + condition.Where() + ` ORDER BY triggered_at DESC LIMIT 1`

	err := s.pool.QueryRow(ctx, query, condition.NamedArgs()).Scan(&triggeredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNoRows
		}
		return time.Time{}, err
	}

	return triggeredAt, nil
}

// GetActiveAlert returns the unresolved alert for the exact key, if one
// exists. This is the water latch lookup.
func (s *Storage) GetActiveAlert(ctx context.Context, propertyID, alertType, sensorID string) (types.Alert, error) {
	return s.GetAlert(ctx, WithPropertyID(propertyID), WithAlertType(alertType), WithSensorID(sensorID), WithUnresolved())
}

func (s *Storage) GetAlert(ctx context.Context, conditions ...ConditionFunc) (types.Alert, error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	query := `
		SELECT alert_id, property_id, alert_type, sensor_id, value, threshold, severity, message, triggered_at, notified, resolved_at
		FROM alerts
		WHERE ` + condition.Where() + `
		ORDER BY triggered_at DESC
		LIMIT 1
	`

	alert, err := scanAlert(s.pool.QueryRow(ctx, query, condition.NamedArgs()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Alert{}, ErrNoRows
		}
		return types.Alert{}, err
	}

	return alert, nil
}

// ResolveAlert sets the resolution timestamp on an unresolved alert.
// Returns false if the alert does not exist or was already resolved.
func (s *Storage) ResolveAlert(ctx context.Context, alertID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts SET resolved_at = CURRENT_TIMESTAMP
		WHERE alert_id = @alert_id AND resolved_at IS NULL
	`, pgx.NamedArgs{"alert_id": alertID})
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *Storage) QueryAlerts(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Alert], error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	query := `
		SELECT alert_id, property_id, alert_type, sensor_id, value, threshold, severity, message, triggered_at, notified, resolved_at, count(*) OVER () AS count
		FROM alerts
		WHERE ` + condition.Where() + `
		` + condition.OrderBy("triggered_at") + `
		` + condition.Limit()

	rows, err := s.pool.Query(ctx, query, condition.NamedArgs())
	if err != nil {
		return types.Collection[types.Alert]{}, err
	}

	var alertID, propertyID, alertType, severity string
	var sensorID, message *string
	var value, threshold *float64
	var triggeredAt time.Time
	var notified bool
	var resolvedAt *time.Time
	var count int64

	alerts := make([]types.Alert, 0)

	_, err = pgx.ForEachRow(rows, []any{&alertID, &propertyID, &alertType, &sensorID, &value, &threshold, &severity, &message, &triggeredAt, &notified, &resolvedAt, &count}, func() error {
		a := types.Alert{
			ID:               alertID,
			PropertyID:       propertyID,
			AlertType:        alertType,
			Value:            value,
			Threshold:        threshold,
			Severity:         severity,
			TriggeredAt:      triggeredAt,
			NotificationSent: notified,
		}
		if sensorID != nil {
			a.SensorID = *sensorID
		}
		if message != nil {
			a.Message = *message
		}
		if resolvedAt != nil {
			t := *resolvedAt
			a.ResolvedAt = &t
		}

		alerts = append(alerts, a)

		return nil
	})
	if err != nil {
		return types.Collection[types.Alert]{}, err
	}

	return types.Collection[types.Alert]{
		Data:       alerts,
		Count:      uint64(len(alerts)),
		TotalCount: uint64(count),
	}, nil
}

func scanAlert(row pgx.Row) (types.Alert, error) {
	var alertID, propertyID, alertType, severity string
	var sensorID, message *string
	var value, threshold *float64
	var triggeredAt time.Time
	var notified bool
	var resolvedAt *time.Time

	err := row.Scan(&alertID, &propertyID, &alertType, &sensorID, &value, &threshold, &severity, &message, &triggeredAt, &notified, &resolvedAt)
	if err != nil {
		return types.Alert{}, err
	}

	a := types.Alert{
		ID:               alertID,
		PropertyID:       propertyID,
		AlertType:        alertType,
		Value:            value,
		Threshold:        threshold,
		Severity:         severity,
		TriggeredAt:      triggeredAt,
		NotificationSent: notified,
		ResolvedAt:       resolvedAt,
	}
	if sensorID != nil {
		a.SensorID = *sensorID
	}
	if message != nil {
		a.Message = *message
	}

	return a, nil
}
