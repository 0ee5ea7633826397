package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/jackc/pgx/v5"
)

// AddReading appends one per-source row. The full normalised reading is
// kept in the data column; the flat columns exist for dashboard queries
// that should not have to unpack JSON.
func (s *Storage) AddReading(ctx context.Context, r types.Reading) error {
	if r.PropertyID == "" || r.Source == "" {
		return ErrNoID
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"property_id":  r.PropertyID,
		"source":       r.Source,
		"collected_at": r.CollectedAt.UTC(),
		"soc":          r.SOC,
		"voltage":      r.Voltage,
		"pv_power":     r.PVTotalPower,
		"temperature":  r.MaxCellTemp,
		"primary_temp": r.PrimaryTemp,
		"load_power":   r.LoadPower,
		"current":      r.Current,
		"data":         string(data),
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO readings (property_id, source, collected_at, soc, voltage, pv_power, temperature, primary_temp, load_power, battery_current, data)
		VALUES (@property_id, @source, @collected_at, @soc, @voltage, @pv_power, @temperature, @primary_temp, @load_power, @current, @data)
	`, args)
	if err != nil {
		return err
	}

	return nil
}

// AddMerged appends the reconciled snapshot as a single row tagged with
// the merged source, so consumers can query the latest complete reading
// without re-merging.
func (s *Storage) AddMerged(ctx context.Context, snapshot types.Snapshot) error {
	if snapshot.PropertyID == "" {
		return ErrNoID
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	var vehicleSOC, vehiclePower *float64
	var vehicleCharging *bool
	if snapshot.Vehicle != nil {
		vehicleSOC = snapshot.Vehicle.SOCPercent
		vehicleCharging = &snapshot.Vehicle.Charging
		vehiclePower = &snapshot.Vehicle.ChargingPowerKW
	}

	args := pgx.NamedArgs{
		"property_id":      snapshot.PropertyID,
		"source":           types.SourceMerged,
		"collected_at":     snapshot.CollectedAt.UTC(),
		"soc":              snapshot.SOC,
		"voltage":          snapshot.Voltage,
		"pv_power":         snapshot.PVTotalPower,
		"temperature":      snapshot.MaxCellTemp,
		"primary_temp":     snapshot.PrimaryTemp,
		"load_power":       snapshot.LoadPower,
		"current":          snapshot.BatteryCurrent,
		"vehicle_soc":      vehicleSOC,
		"vehicle_charging": vehicleCharging,
		"vehicle_power_kw": vehiclePower,
		"data":             string(data),
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO readings (property_id, source, collected_at, soc, voltage, pv_power, temperature, primary_temp, load_power, battery_current, vehicle_soc, vehicle_charging, vehicle_power_kw, data)
		VALUES (@property_id, @source, @collected_at, @soc, @voltage, @pv_power, @temperature, @primary_temp, @load_power, @current, @vehicle_soc, @vehicle_charging, @vehicle_power_kw, @data)
	`, args)
	if err != nil {
		return err
	}

	return nil
}

// GetLatestReadingTime returns the collection time of the most recent
// successful reading for a property, over any source. Rows are only
// written for successful collections, so this is the offline grace
// period reference point.
func (s *Storage) GetLatestReadingTime(ctx context.Context, propertyID string) (time.Time, error) {
	var collectedAt *time.Time

	err := s.pool.QueryRow(ctx, `
		SELECT max(collected_at) FROM readings WHERE property_id = @property_id
	`, pgx.NamedArgs{"property_id": propertyID}).Scan(&collectedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNoRows
		}
		return time.Time{}, err
	}

	if collectedAt == nil {
		return time.Time{}, ErrNoRows
	}

	return *collectedAt, nil
}

// GetLatestSnapshot returns the most recent merged snapshot for a property.
func (s *Storage) GetLatestSnapshot(ctx context.Context, propertyID string) (types.Snapshot, error) {
	var data []byte

	err := s.pool.QueryRow(ctx, `
		SELECT data FROM readings
		WHERE property_id = @property_id AND source = @source
		ORDER BY reading_id DESC
		LIMIT 1
	`, pgx.NamedArgs{"property_id": propertyID, "source": types.SourceMerged}).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Snapshot{}, ErrNoRows
		}
		return types.Snapshot{}, err
	}

	snapshot := types.Snapshot{}
	err = json.Unmarshal(data, &snapshot)
	if err != nil {
		return types.Snapshot{}, err
	}

	return snapshot, nil
}

// GetLatestSnapshots returns the most recent merged snapshot per
// property, keyed by property id.
func (s *Storage) GetLatestSnapshots(ctx context.Context) (map[string]types.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.data
		FROM readings r
		INNER JOIN (
			SELECT property_id, max(reading_id) AS max_id
			FROM readings
			WHERE source = @source
			GROUP BY property_id
		) latest ON r.reading_id = latest.max_id
	`, pgx.NamedArgs{"source": types.SourceMerged})
	if err != nil {
		return nil, err
	}

	result := map[string]types.Snapshot{}

	var data []byte
	_, err = pgx.ForEachRow(rows, []any{&data}, func() error {
		snapshot := types.Snapshot{}
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return err
		}
		result[snapshot.PropertyID] = snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// QuerySnapshots returns merged snapshots matching the given conditions,
// oldest first, for the history API.
func (s *Storage) QuerySnapshots(ctx context.Context, conditions ...ConditionFunc) ([]types.Snapshot, error) {
	condition := &Condition{Source: types.SourceMerged, timeColumn: "collected_at"}
	for _, f := range conditions {
		f(condition)
	}
	condition.Source = types.SourceMerged

	query := `SELECT data FROM readings WHERE ` + condition.Where() + ` ORDER BY collected_at ASC ` + condition.Limit()

	rows, err := s.pool.Query(ctx, query, condition.NamedArgs())
	if err != nil {
		return nil, err
	}

	snapshots := make([]types.Snapshot, 0)

	var data []byte
	_, err = pgx.ForEachRow(rows, []any{&data}, func() error {
		snapshot := types.Snapshot{}
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return err
		}
		snapshots = append(snapshots, snapshot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshots, nil
}
