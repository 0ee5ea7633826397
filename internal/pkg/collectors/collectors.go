package collectors

import (
	"context"
	"fmt"

	"github.com/homefleet/safety-monitor/pkg/types"
)

var ErrUnknownSourceType = fmt.Errorf("unknown source type")

// Collector pulls one source's telemetry for one property. Implementations
// must respect the passed context and return errors instead of panicking;
// the reconciler treats any error as "this source contributed nothing".
type Collector interface {
	Source() string
	Collect(ctx context.Context) (types.Reading, error)
}

// Config is one collector block from the property configuration. Which
// fields apply depends on Type; unused fields are ignored.
type Config struct {
	Type string `yaml:"type"`

	// eg4
	LocalAddress string `yaml:"local_address"`
	UseCloud     bool   `yaml:"use_cloud"`
	CloudURL     string `yaml:"cloud_url"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	LoggerSerial string `yaml:"logger_serial"`

	// victron
	BrokerAddress string `yaml:"broker_address"`
	PortalID      string `yaml:"portal_id"`

	// ha_api and hubitat_cloud
	URL               string `yaml:"url"`
	Token             string `yaml:"token"`
	Endpoint          string `yaml:"endpoint"`
	LocationID        string `yaml:"location_id"`
	PrimaryTempSensor string `yaml:"primary_temp_sensor"`
	IncludeVehicle    bool   `yaml:"include_vehicle"`
}

// New instantiates the collector matching cfg.Type. The set of source
// types is closed; anything else is a configuration error.
func New(propertyID string, cfg Config) (Collector, error) {
	switch cfg.Type {
	case types.SourceEG4:
		return NewEG4(propertyID, cfg), nil
	case types.SourceVictron:
		return NewVictron(propertyID, cfg), nil
	case types.SourceHomeAssistant:
		return NewHomeAssistant(propertyID, cfg), nil
	case types.SourceHubitatCloud:
		return NewHubitat(propertyID, cfg), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownSourceType, cfg.Type)
}
