package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Collector is the adapter contract the runner consumes. Implementations
// live in internal/pkg/collectors; a failed Collect contributes an error
// string to the snapshot instead of a reading.
//
//go:generate moq -rm -out collector_mock.go . Collector
type Collector interface {
	Source() string
	Collect(ctx context.Context) (types.Reading, error)
}

//go:generate moq -rm -out readingstorage_mock.go . ReadingStorage
type ReadingStorage interface {
	AddReading(ctx context.Context, reading types.Reading) error
	AddMerged(ctx context.Context, snapshot types.Snapshot) error
	UpdateDevices(ctx context.Context, propertyID string, devices []types.Device) error
}

const defaultCollectTimeout = 30 * time.Second

// PropertyRunner owns all collectors for one property and turns one
// collection cycle into a persisted, reconciled snapshot.
type PropertyRunner struct {
	propertyID   string
	propertyName string

	collectors []Collector
	storage    ReadingStorage

	collectTimeout time.Duration
}

func NewPropertyRunner(propertyID, propertyName string, collectors []Collector, storage ReadingStorage) *PropertyRunner {
	return &PropertyRunner{
		propertyID:     propertyID,
		propertyName:   propertyName,
		collectors:     collectors,
		storage:        storage,
		collectTimeout: defaultCollectTimeout,
	}
}

func (r *PropertyRunner) PropertyID() string {
	return r.propertyID
}

func (r *PropertyRunner) PropertyName() string {
	return r.propertyName
}

// Run invokes every collector, persists the per-source rows and device
// lists, merges, persists the merged row, and returns the snapshot. A
// failing collector is isolated: its error string lands in the snapshot
// and the remaining sources still contribute. Zero successful sources
// still yields a snapshot, which is how offline detection triggers.
func (r *PropertyRunner) Run(ctx context.Context) types.Snapshot {
	log := logging.GetFromContext(ctx)

	snapshot := types.Snapshot{
		PropertyID:   r.propertyID,
		PropertyName: r.propertyName,
		CollectedAt:  time.Now().UTC(),
		Sources:      map[string]types.Reading{},
		Errors:       []string{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, c := range r.collectors {
		wg.Add(1)

		go func(c Collector) {
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.collectTimeout)
			defer cancel()

			reading, err := c.Collect(cctx)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				log.Error("collector failed", "property_id", r.propertyID, "source", c.Source(), "err", err.Error())
				snapshot.Errors = append(snapshot.Errors, fmt.Sprintf("%s: %s", c.Source(), err.Error()))
				return
			}

			snapshot.Sources[c.Source()] = reading
		}(c)
	}

	wg.Wait()
	sort.Strings(snapshot.Errors)

	for _, source := range sortedKeys(snapshot.Sources) {
		reading := snapshot.Sources[source]
		reading.PropertyID = r.propertyID
		reading.Source = source

		if err := r.storage.AddReading(ctx, reading); err != nil {
			log.Error("could not store reading", "property_id", r.propertyID, "source", source, "err", err.Error())
		}

		if len(reading.BatteryDevices) > 0 {
			if err := r.storage.UpdateDevices(ctx, r.propertyID, reading.BatteryDevices); err != nil {
				log.Error("could not store devices", "property_id", r.propertyID, "source", source, "err", err.Error())
			}
		}
	}

	Merge(&snapshot)

	if len(snapshot.Sources) > 0 {
		if err := r.storage.AddMerged(ctx, snapshot); err != nil {
			log.Error("could not store merged snapshot", "property_id", r.propertyID, "err", err.Error())
		}
	}

	return snapshot
}

// Merge populates the snapshot's rolled up fields from its per-source
// readings.
//
//	SOC      inverter BMS first, shunt as fallback
//	Voltage  shunt first, inverter as fallback
//	PV       inverter MPPT total plus shunt-side charger total, summed
//	Temps    named hub sensors, primary network wins on name collision
func Merge(snapshot *types.Snapshot) {
	eg4 := snapshot.Sources[types.SourceEG4]
	vic := snapshot.Sources[types.SourceVictron]
	ha := snapshot.Sources[types.SourceHomeAssistant]
	hub := snapshot.Sources[types.SourceHubitatCloud]

	snapshot.SOC = firstOf(eg4.SOC, vic.SOC)
	snapshot.ShuntSOC = vic.SOC
	snapshot.Voltage = firstOf(vic.Voltage, eg4.Voltage)
	snapshot.MaxCellTemp = eg4.MaxCellTemp

	snapshot.PVInverter = eg4.PVTotalPower
	snapshot.PVInverter1 = eg4.PVString1
	snapshot.PVInverter2 = eg4.PVString2
	snapshot.PVCharger1 = vic.PVCharger1
	snapshot.PVCharger2 = vic.PVCharger2
	snapshot.PVTotalPower = sumPresent(eg4.PVTotalPower, vic.PVPower)

	snapshot.BatteryPower = vic.BatteryPower
	snapshot.BatteryCurrent = vic.Current
	snapshot.LoadPower = eg4.LoadPower

	snapshot.PrimaryTemp = firstOf(ha.PrimaryTemp, hub.PrimaryTemp)

	if len(ha.Temperatures) > 0 || len(hub.Temperatures) > 0 {
		temps := map[string]float64{}
		for name, f := range hub.Temperatures {
			temps[name] = f
		}
		for name, f := range ha.Temperatures {
			temps[name] = f
		}
		snapshot.Temperatures = temps
	}

	snapshot.BatteryDevices = append(append([]types.Device{}, ha.BatteryDevices...), hub.BatteryDevices...)
	snapshot.WaterSensors = append(append([]types.WaterSensor{}, ha.WaterSensors...), hub.WaterSensors...)

	snapshot.Vehicle = ha.Vehicle
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// sumPresent adds the values that are present, or returns nil when none
// are. A single reporting channel still yields a total.
func sumPresent(values ...*float64) *float64 {
	sum, present := 0.0, false
	for _, v := range values {
		if v != nil {
			sum += *v
			present = true
		}
	}
	if !present {
		return nil
	}
	return &sum
}

func sortedKeys(m map[string]types.Reading) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
