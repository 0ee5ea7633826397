package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"
)

// Home Assistant REST adapter. One states pull per cycle covers the
// property's temperature sensors, battery devices and leak sensors;
// vehicle telemetry comes from the Tesla integration's individual
// entities when enabled for the property.
type haCollector struct {
	propertyID string

	url        string
	token      string
	locationID string

	primaryTempSensor string
	includeVehicle    bool

	httpClient *http.Client
}

func NewHomeAssistant(propertyID string, cfg Config) Collector {
	locationID := cfg.LocationID
	if locationID == "" {
		locationID = propertyID
	}

	return &haCollector{
		propertyID:        propertyID,
		url:               strings.TrimSuffix(cfg.URL, "/"),
		token:             cfg.Token,
		locationID:        locationID,
		primaryTempSensor: cfg.PrimaryTempSensor,
		includeVehicle:    cfg.IncludeVehicle,
		httpClient:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *haCollector) Source() string {
	return types.SourceHomeAssistant
}

type haState struct {
	EntityID   string `json:"entity_id"`
	State      string `json:"state"`
	Attributes struct {
		FriendlyName      string `json:"friendly_name"`
		UnitOfMeasurement string `json:"unit_of_measurement"`
		DeviceClass       string `json:"device_class"`
	} `json:"attributes"`
}

func (s haState) numeric() (float64, bool) {
	if s.State == "" || s.State == "unknown" || s.State == "unavailable" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s.State, 64)
	return v, err == nil
}

func (c *haCollector) Collect(ctx context.Context) (types.Reading, error) {
	states, err := c.getStates(ctx)
	if err != nil {
		return types.Reading{}, err
	}

	reading := types.Reading{
		PropertyID:  c.propertyID,
		Source:      types.SourceHomeAssistant,
		CollectedAt: time.Now().UTC(),
	}

	temps := map[string]float64{}

	for _, s := range states {
		if !strings.Contains(s.EntityID, c.locationID) {
			continue
		}

		lower := strings.ToLower(s.EntityID)

		switch {
		case strings.Contains(lower, "temperature"):
			if v, ok := s.numeric(); ok {
				if unit := s.Attributes.UnitOfMeasurement; unit == "°C" || unit == "C" {
					v = v*9/5 + 32
				}
				temps[s.EntityID] = math.Round(v*10) / 10
			}
		case strings.Contains(lower, "battery"):
			if v, ok := s.numeric(); ok {
				reading.BatteryDevices = append(reading.BatteryDevices, types.Device{
					PropertyID:  c.propertyID,
					EntityID:    s.EntityID,
					Name:        friendlyName(s),
					BatteryPct:  types.Ptr(v),
					CollectedAt: reading.CollectedAt,
				})
			}
		case s.Attributes.DeviceClass == "moisture":
			// Binary moisture sensors report on/off; normalise to the
			// wet/dry vocabulary the alert engine expects.
			state := "dry"
			if strings.EqualFold(s.State, "on") || strings.EqualFold(s.State, "wet") {
				state = "wet"
			}
			reading.WaterSensors = append(reading.WaterSensors, types.WaterSensor{
				EntityID: s.EntityID,
				Name:     friendlyName(s),
				State:    state,
			})
		}
	}

	if len(temps) > 0 {
		reading.Temperatures = temps
		reading.PrimaryTemp = primaryTemp(temps, c.primaryTempSensor)
	}

	if c.includeVehicle {
		reading.Vehicle = c.getVehicle(ctx)
	}

	return reading, nil
}

func (c *haCollector) getStates(ctx context.Context) ([]haState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/states", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("states fetch: status %d", resp.StatusCode)
	}

	var states []haState
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("states decode: %w", err)
	}

	return states, nil
}

func (c *haCollector) getState(ctx context.Context, entityID string) (haState, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/states/"+entityID, nil)
	if err != nil {
		return haState{}, false
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return haState{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return haState{}, false
	}

	var s haState
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return haState{}, false
	}

	return s, true
}

func (c *haCollector) getVehicle(ctx context.Context) *types.VehicleTelemetry {
	var soc, powerW, rangeMiles *float64

	if s, ok := c.getState(ctx, "sensor.tesla_battery_level"); ok {
		if v, ok := s.numeric(); ok {
			soc = types.Ptr(v)
		}
	}
	if s, ok := c.getState(ctx, "sensor.tesla_charging_power"); ok {
		if v, ok := s.numeric(); ok {
			powerW = types.Ptr(v)
		}
	}
	if powerW == nil {
		if s, ok := c.getState(ctx, "sensor.tesla_charger_power"); ok {
			if v, ok := s.numeric(); ok {
				powerW = types.Ptr(v)
			}
		}
	}
	if s, ok := c.getState(ctx, "sensor.tesla_range"); ok {
		if v, ok := s.numeric(); ok {
			rangeMiles = types.Ptr(v)
		}
	}

	if soc == nil && powerW == nil && rangeMiles == nil {
		return nil
	}

	vehicle := &types.VehicleTelemetry{
		SOCPercent: soc,
		RangeMiles: rangeMiles,
	}

	if powerW != nil {
		vehicle.ChargingPowerKW = math.Round(*powerW/10) / 100
		vehicle.Charging = *powerW > 0.1
	}

	return vehicle
}

func friendlyName(s haState) string {
	if s.Attributes.FriendlyName != "" {
		return s.Attributes.FriendlyName
	}
	return s.EntityID
}

// primaryTemp picks the configured sensor's value when it reported, else
// the lowest entity id for a stable choice.
func primaryTemp(temps map[string]float64, preferred string) *float64 {
	if preferred != "" {
		if v, ok := temps[preferred]; ok {
			return types.Ptr(v)
		}
	}

	ids := make([]string, 0, len(temps))
	for id := range temps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return types.Ptr(temps[ids[0]])
}
