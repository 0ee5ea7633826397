package types

import (
	"time"
)

// Source type tags for collectors. The set is closed; the collector
// factory rejects anything else.
const (
	SourceEG4           = "eg4"
	SourceVictron       = "victron"
	SourceHomeAssistant = "ha_api"
	SourceHubitatCloud  = "hubitat_cloud"
	SourceMerged        = "merged"
)

// Reading is the normalised output of one collector for one property and
// one collection cycle. Numeric fields are pointers so that "absent" is
// distinguishable from zero; the reconciler's merge rules depend on it.
type Reading struct {
	PropertyID  string    `json:"propertyID"`
	Source      string    `json:"source"`
	CollectedAt time.Time `json:"collectedAt"`

	SOC          *float64 `json:"soc,omitempty"`
	Voltage      *float64 `json:"voltage,omitempty"`
	Current      *float64 `json:"current,omitempty"`
	BatteryPower *float64 `json:"power,omitempty"`
	MaxCellTemp  *float64 `json:"maxCellTemp,omitempty"`
	LoadPower    *float64 `json:"powerToUser,omitempty"`

	PVTotalPower *float64 `json:"pvTotalPower,omitempty"`
	PVString1    *float64 `json:"pvString1,omitempty"`
	PVString2    *float64 `json:"pvString2,omitempty"`
	PVPower      *float64 `json:"pvPower,omitempty"`
	PVCharger1   *float64 `json:"pvCharger1,omitempty"`
	PVCharger2   *float64 `json:"pvCharger2,omitempty"`

	PrimaryTemp  *float64           `json:"primaryTemp,omitempty"`
	Temperatures map[string]float64 `json:"temperatures,omitempty"`

	BatteryDevices []Device      `json:"batteryDevices,omitempty"`
	WaterSensors   []WaterSensor `json:"waterSensors,omitempty"`

	Vehicle *VehicleTelemetry `json:"vehicle,omitempty"`
}

// Snapshot is the reconciled view of one property for one collection
// cycle. It is built once by the reconciler and never mutated after
// construction.
type Snapshot struct {
	PropertyID   string    `json:"propertyID"`
	PropertyName string    `json:"propertyName"`
	CollectedAt  time.Time `json:"collectedAt"`

	Sources map[string]Reading `json:"sources"`
	Errors  []string           `json:"errors"`

	SOC            *float64 `json:"soc,omitempty"`
	ShuntSOC       *float64 `json:"shuntSOC,omitempty"`
	Voltage        *float64 `json:"voltage,omitempty"`
	MaxCellTemp    *float64 `json:"maxCellTemp,omitempty"`
	BatteryPower   *float64 `json:"batteryPower,omitempty"`
	BatteryCurrent *float64 `json:"batteryCurrent,omitempty"`
	LoadPower      *float64 `json:"loadPower,omitempty"`

	PVTotalPower *float64 `json:"pvTotalPower,omitempty"`
	PVInverter   *float64 `json:"pvInverter,omitempty"`
	PVInverter1  *float64 `json:"pvInverter1,omitempty"`
	PVInverter2  *float64 `json:"pvInverter2,omitempty"`
	PVCharger1   *float64 `json:"pvCharger1,omitempty"`
	PVCharger2   *float64 `json:"pvCharger2,omitempty"`

	PrimaryTemp  *float64           `json:"primaryTemp,omitempty"`
	Temperatures map[string]float64 `json:"temperatures,omitempty"`

	BatteryDevices []Device      `json:"batteryDevices,omitempty"`
	WaterSensors   []WaterSensor `json:"waterSensors,omitempty"`

	Vehicle *VehicleTelemetry `json:"vehicle,omitempty"`
}

// Offline reports whether every collector failed this cycle. This is the
// trigger condition for the offline alert check.
func (s Snapshot) Offline() bool {
	return len(s.Sources) == 0 && len(s.Errors) > 0
}

// Device is a battery-bearing sensor reported by a hub. Only the latest
// observation per (property, entity) is retained.
type Device struct {
	PropertyID   string     `json:"propertyID,omitempty"`
	EntityID     string     `json:"entityID"`
	Name         string     `json:"friendlyName"`
	BatteryPct   *float64   `json:"batteryPct,omitempty"`
	DeviceType   string     `json:"deviceType,omitempty"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
	CollectedAt  time.Time  `json:"collectedAt"`
}

// WaterSensor is a leak-detection sensor. State is the raw reported
// state string ("wet"/"dry"), normalised by the alert engine.
type WaterSensor struct {
	EntityID string `json:"entityID"`
	Name     string `json:"friendlyName"`
	State    string `json:"state"`
}

type VehicleTelemetry struct {
	SOCPercent      *float64 `json:"socPercent,omitempty"`
	ChargingPowerKW float64  `json:"chargingPowerKW"`
	Charging        bool     `json:"charging"`
	RangeMiles      *float64 `json:"rangeMiles,omitempty"`
}

const (
	AlertTypeTemperature = "temperature"
	AlertTypeBattery     = "battery"
	AlertTypeWater       = "water"
	AlertTypeOffline     = "offline"
)

const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert is one fired-and-persisted alert occurrence. ResolvedAt is set
// only by an explicit resolve action; water alerts stay latched on an
// unresolved record.
type Alert struct {
	ID               string     `json:"id"`
	PropertyID       string     `json:"propertyID"`
	AlertType        string     `json:"alertType"`
	SensorID         string     `json:"sensorID,omitempty"`
	Value            *float64   `json:"value,omitempty"`
	Threshold        *float64   `json:"threshold,omitempty"`
	Severity         string     `json:"severity"`
	Message          string     `json:"message"`
	TriggeredAt      time.Time  `json:"triggeredAt"`
	NotificationSent bool       `json:"notificationSent"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
}

// Resolved reports whether the alert has been explicitly cleared.
func (a Alert) Resolved() bool {
	return a.ResolvedAt != nil
}

type Collection[T any] struct {
	Data       []T
	Count      uint64
	Offset     uint64
	Limit      uint64
	TotalCount uint64
}

// Ptr returns a pointer to v. Convenient for the optional numeric
// fields above, mostly in tests and collectors.
func Ptr[T any](v T) *T {
	return &v
}
