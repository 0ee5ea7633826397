package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/matryer/is"
)

func TestMergeSOCPrefersInverterCloud(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceEG4:     {SOC: types.Ptr(72.0)},
		types.SourceVictron: {SOC: types.Ptr(68.5)},
	}}

	Merge(&s)

	is.Equal(72.0, *s.SOC)
	is.Equal(68.5, *s.ShuntSOC)
}

func TestMergeSOCFallsBackToShunt(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceVictron: {SOC: types.Ptr(68.5)},
	}}

	Merge(&s)

	is.Equal(68.5, *s.SOC)
}

func TestMergeVoltagePrefersShunt(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceEG4:     {Voltage: types.Ptr(53.1)},
		types.SourceVictron: {Voltage: types.Ptr(52.8)},
	}}

	Merge(&s)

	is.Equal(52.8, *s.Voltage)
}

func TestMergePVTotalSumsBothSides(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceEG4:     {PVTotalPower: types.Ptr(1200.0), PVString1: types.Ptr(700.0), PVString2: types.Ptr(500.0)},
		types.SourceVictron: {PVPower: types.Ptr(350.0), PVCharger1: types.Ptr(200.0), PVCharger2: types.Ptr(150.0)},
	}}

	Merge(&s)

	is.Equal(1550.0, *s.PVTotalPower)
	is.Equal(1200.0, *s.PVInverter)
	is.Equal(700.0, *s.PVInverter1)
	is.Equal(200.0, *s.PVCharger1)
}

func TestMergePVTotalAbsentWhenNoChannelReports(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceEG4: {SOC: types.Ptr(72.0)},
	}}

	Merge(&s)

	is.Equal((*float64)(nil), s.PVTotalPower)
}

func TestMergePVTotalSingleChannel(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceVictron: {PVPower: types.Ptr(350.0)},
	}}

	Merge(&s)

	is.Equal(350.0, *s.PVTotalPower)
}

func TestMergeTemperaturesPrimaryWinsOnCollision(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceHomeAssistant: {Temperatures: map[string]float64{"Living Room": 68, "Crawlspace": 41}},
		types.SourceHubitatCloud:  {Temperatures: map[string]float64{"Crawlspace": 39, "Shed": 22}},
	}}

	Merge(&s)

	is.Equal(3, len(s.Temperatures))
	is.Equal(41.0, s.Temperatures["Crawlspace"])
	is.Equal(22.0, s.Temperatures["Shed"])
}

func TestMergeDeviceListsConcatenate(t *testing.T) {
	is := is.New(t)

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceHomeAssistant: {
			BatteryDevices: []types.Device{{EntityID: "ha-1"}},
			WaterSensors:   []types.WaterSensor{{EntityID: "leak-ha"}},
		},
		types.SourceHubitatCloud: {
			BatteryDevices: []types.Device{{EntityID: "hub-1"}, {EntityID: "hub-2"}},
			WaterSensors:   []types.WaterSensor{{EntityID: "leak-hub"}},
		},
	}}

	Merge(&s)

	is.Equal(3, len(s.BatteryDevices))
	is.Equal("ha-1", s.BatteryDevices[0].EntityID)
	is.Equal(2, len(s.WaterSensors))
}

func TestMergeVehicleVerbatimFromHomeAssistant(t *testing.T) {
	is := is.New(t)

	v := &types.VehicleTelemetry{SOCPercent: types.Ptr(81.0), Charging: true, ChargingPowerKW: 9.6}

	s := types.Snapshot{Sources: map[string]types.Reading{
		types.SourceHomeAssistant: {Vehicle: v},
	}}

	Merge(&s)

	is.Equal(v, s.Vehicle)
}

func TestRunIsolatesCollectorFailure(t *testing.T) {
	is := is.New(t)

	good := &CollectorMock{
		SourceFunc: func() string { return types.SourceEG4 },
		CollectFunc: func(ctx context.Context) (types.Reading, error) {
			return types.Reading{SOC: types.Ptr(55.0)}, nil
		},
	}
	bad := &CollectorMock{
		SourceFunc: func() string { return types.SourceVictron },
		CollectFunc: func(ctx context.Context) (types.Reading, error) {
			return types.Reading{}, errors.New("connection refused")
		},
	}

	storage := &ReadingStorageMock{
		AddReadingFunc: func(ctx context.Context, reading types.Reading) error {
			return nil
		},
		AddMergedFunc: func(ctx context.Context, snapshot types.Snapshot) error {
			return nil
		},
		UpdateDevicesFunc: func(ctx context.Context, propertyID string, devices []types.Device) error {
			return nil
		},
	}

	r := NewPropertyRunner("cabin", "Cabin", []Collector{good, bad}, storage)
	snapshot := r.Run(context.Background())

	is.Equal(1, len(snapshot.Sources))
	is.Equal(1, len(snapshot.Errors))
	is.Equal("victron: connection refused", snapshot.Errors[0])
	is.Equal(55.0, *snapshot.SOC)

	is.Equal(1, len(storage.AddReadingCalls()))
	is.Equal(1, len(storage.AddMergedCalls()))
}

func TestRunAllFailuresStillYieldsSnapshot(t *testing.T) {
	is := is.New(t)

	bad := &CollectorMock{
		SourceFunc: func() string { return types.SourceEG4 },
		CollectFunc: func(ctx context.Context) (types.Reading, error) {
			return types.Reading{}, errors.New("timeout")
		},
	}

	storage := &ReadingStorageMock{
		AddMergedFunc: func(ctx context.Context, snapshot types.Snapshot) error {
			return nil
		},
	}

	r := NewPropertyRunner("cabin", "Cabin", []Collector{bad}, storage)
	snapshot := r.Run(context.Background())

	is.True(snapshot.Offline())
	// No merged row is written for an all-failed cycle, so the offline
	// grace period keeps referencing the last good reading.
	is.Equal(0, len(storage.AddMergedCalls()))
}

func TestRunPersistsDeviceLists(t *testing.T) {
	is := is.New(t)

	hub := &CollectorMock{
		SourceFunc: func() string { return types.SourceHubitatCloud },
		CollectFunc: func(ctx context.Context) (types.Reading, error) {
			return types.Reading{
				BatteryDevices: []types.Device{{EntityID: "lock-1", BatteryPct: types.Ptr(88.0)}},
			}, nil
		},
	}

	storage := &ReadingStorageMock{
		AddReadingFunc: func(ctx context.Context, reading types.Reading) error {
			return nil
		},
		AddMergedFunc: func(ctx context.Context, snapshot types.Snapshot) error {
			return nil
		},
		UpdateDevicesFunc: func(ctx context.Context, propertyID string, devices []types.Device) error {
			return nil
		},
	}

	r := NewPropertyRunner("cabin", "Cabin", []Collector{hub}, storage)
	r.Run(context.Background())

	is.Equal(1, len(storage.UpdateDevicesCalls()))
	is.Equal("lock-1", storage.UpdateDevicesCalls()[0].Devices[0].EntityID)
}
