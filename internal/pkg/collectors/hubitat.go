package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"
)

// Hubitat Maker API adapter, used for hubs with no local Home Assistant
// bridge. One call to the cloud "devices/all" endpoint returns every
// device with its current attribute values.
type hubitatCollector struct {
	propertyID string

	endpoint string
	token    string

	primaryTempSensor string

	httpClient *http.Client
}

func NewHubitat(propertyID string, cfg Config) Collector {
	return &hubitatCollector{
		propertyID:        propertyID,
		endpoint:          cfg.Endpoint,
		token:             cfg.Token,
		primaryTempSensor: cfg.PrimaryTempSensor,
		httpClient:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *hubitatCollector) Source() string {
	return types.SourceHubitatCloud
}

type hubitatDevice struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Type  string      `json:"type"`
	Date  string      `json:"date"`

	Attributes []struct {
		Name         string `json:"name"`
		CurrentValue any    `json:"currentValue"`
	} `json:"attributes"`
}

func (d hubitatDevice) displayName() string {
	if d.Label != "" {
		return d.Label
	}
	if d.Name != "" {
		return d.Name
	}
	return d.ID.String()
}

func (d hubitatDevice) attribute(name string) (any, bool) {
	for _, a := range d.Attributes {
		if a.Name == name && a.CurrentValue != nil {
			return a.CurrentValue, true
		}
	}
	return nil, false
}

func (d hubitatDevice) numericAttribute(name string) (float64, bool) {
	v, ok := d.attribute(name)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}

	return 0, false
}

func (d hubitatDevice) lastActivity() *time.Time {
	if d.Date == "" {
		return nil
	}
	// Maker API timestamps look like "2026-02-10T06:12:44+0000".
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if t, err := time.Parse(layout, d.Date); err == nil {
			return types.Ptr(t.UTC())
		}
	}
	return nil
}

func (c *hubitatCollector) Collect(ctx context.Context) (types.Reading, error) {
	devices, err := c.getAllDevices(ctx)
	if err != nil {
		return types.Reading{}, err
	}

	reading := types.Reading{
		PropertyID:  c.propertyID,
		Source:      types.SourceHubitatCloud,
		CollectedAt: time.Now().UTC(),
	}

	temps := map[string]float64{}

	for _, d := range devices {
		// Hubitat reports temperature in °F by default.
		if v, ok := d.numericAttribute("temperature"); ok {
			temps[d.displayName()] = v
		}

		if v, ok := d.numericAttribute("battery"); ok {
			reading.BatteryDevices = append(reading.BatteryDevices, types.Device{
				PropertyID:   c.propertyID,
				EntityID:     d.ID.String(),
				Name:         d.displayName(),
				BatteryPct:   types.Ptr(v),
				DeviceType:   d.Type,
				LastActivity: d.lastActivity(),
				CollectedAt:  reading.CollectedAt,
			})
		}

		if v, ok := d.attribute("water"); ok {
			if state, ok := v.(string); ok {
				reading.WaterSensors = append(reading.WaterSensors, types.WaterSensor{
					EntityID: d.ID.String(),
					Name:     d.displayName(),
					State:    state,
				})
			}
		}
	}

	if len(temps) > 0 {
		reading.Temperatures = temps
		reading.PrimaryTemp = primaryTemp(temps, c.primaryTempSensor)
	}

	return reading, nil
}

func (c *hubitatCollector) getAllDevices(ctx context.Context) ([]hubitatDevice, error) {
	endpoint := c.endpoint
	if c.token != "" {
		endpoint = fmt.Sprintf("%s?%s", endpoint, url.Values{"access_token": {c.token}}.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devices fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("devices fetch: status %d", resp.StatusCode)
	}

	var devices []hubitatDevice
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("devices decode: %w", err)
	}

	return devices, nil
}
