package collectors

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/matryer/is"
)

func TestFactoryRejectsUnknownSourceType(t *testing.T) {
	is := is.New(t)

	_, err := New("cabin", Config{Type: "solaredge"})
	is.True(errors.Is(err, ErrUnknownSourceType))
}

func TestFactoryKnownSourceTypes(t *testing.T) {
	is := is.New(t)

	for _, sourceType := range []string{types.SourceEG4, types.SourceVictron, types.SourceHomeAssistant, types.SourceHubitatCloud} {
		c, err := New("cabin", Config{Type: sourceType})
		is.NoErr(err)
		is.Equal(sourceType, c.Source())
	}
}

func bannerWith(values map[int]uint16) []byte {
	banner := make([]byte, bannerLength)
	for offset, v := range values {
		binary.BigEndian.PutUint16(banner[offset:offset+2], v)
	}
	return banner
}

func TestParseBannerDerivesSOC(t *testing.T) {
	is := is.New(t)

	reading, err := parseBanner(bannerWith(map[int]uint16{
		offsetVoltage:      532,  // 53.2 V
		offsetPVTotal:      1324, // 132.4 W
		offsetTotalCap:     152,
		offsetRemainingCap: 868, // 86.8
		offsetCellTemp:     23,
	}))

	is.NoErr(err)
	is.Equal(53.2, *reading.Voltage)
	is.Equal(132.4, *reading.PVTotalPower)
	is.Equal(23.0, *reading.MaxCellTemp)
	is.True(*reading.SOC > 57.0 && *reading.SOC < 57.2)
}

func TestParseBannerWithoutCapacityFails(t *testing.T) {
	is := is.New(t)

	_, err := parseBanner(bannerWith(map[int]uint16{offsetVoltage: 532}))
	is.True(err != nil)
}

func TestHomeAssistantCollect(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal("Bearer token-123", r.Header.Get("Authorization"))
		is.Equal("/api/states", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"entity_id":"sensor.fm_crawlspace_temperature","state":"4.5","attributes":{"friendly_name":"Crawlspace","unit_of_measurement":"°C"}},
			{"entity_id":"sensor.fm_deck_temperature","state":"41.0","attributes":{"unit_of_measurement":"°F"}},
			{"entity_id":"sensor.fm_lock_battery","state":"88","attributes":{"friendly_name":"Front Door Lock"}},
			{"entity_id":"binary_sensor.fm_sump","state":"on","attributes":{"friendly_name":"Sump","device_class":"moisture"}},
			{"entity_id":"sensor.fm_broken_temperature","state":"unavailable","attributes":{}},
			{"entity_id":"sensor.other_location_temperature","state":"12.0","attributes":{}}
		]`))
	}))
	defer srv.Close()

	c := NewHomeAssistant("fm", Config{
		Type: types.SourceHomeAssistant, URL: srv.URL, Token: "token-123",
		LocationID: "fm", PrimaryTempSensor: "sensor.fm_deck_temperature",
	})

	reading, err := c.Collect(context.Background())
	is.NoErr(err)

	is.Equal(2, len(reading.Temperatures))
	is.Equal(40.1, reading.Temperatures["sensor.fm_crawlspace_temperature"])
	is.Equal(41.0, *reading.PrimaryTemp)

	is.Equal(1, len(reading.BatteryDevices))
	is.Equal("Front Door Lock", reading.BatteryDevices[0].Name)
	is.Equal(88.0, *reading.BatteryDevices[0].BatteryPct)

	is.Equal(1, len(reading.WaterSensors))
	is.Equal("wet", reading.WaterSensors[0].State)
}

func TestHomeAssistantCollectFailsOnBadStatus(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHomeAssistant("fm", Config{Type: types.SourceHomeAssistant, URL: srv.URL})

	_, err := c.Collect(context.Background())
	is.True(err != nil)
}

func TestHubitatCollect(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal("secret", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"101","label":"Crawlspace","type":"Generic Zigbee Temp","date":"2026-02-10T06:12:44+0000",
			 "attributes":[{"name":"temperature","currentValue":38.5},{"name":"battery","currentValue":"72"}]},
			{"id":"102","name":"Sump Sensor",
			 "attributes":[{"name":"water","currentValue":"wet"},{"name":"battery","currentValue":95}]}
		]`))
	}))
	defer srv.Close()

	c := NewHubitat("rd", Config{Type: types.SourceHubitatCloud, Endpoint: srv.URL, Token: "secret"})

	reading, err := c.Collect(context.Background())
	is.NoErr(err)

	is.Equal(38.5, reading.Temperatures["Crawlspace"])
	is.Equal(38.5, *reading.PrimaryTemp)

	is.Equal(2, len(reading.BatteryDevices))
	is.Equal("101", reading.BatteryDevices[0].EntityID)
	is.Equal(72.0, *reading.BatteryDevices[0].BatteryPct)
	is.True(reading.BatteryDevices[0].LastActivity != nil)

	is.Equal(1, len(reading.WaterSensors))
	is.Equal("Sump Sensor", reading.WaterSensors[0].Name)
	is.Equal("wet", reading.WaterSensors[0].State)
}
