package alerts

// Hardcoded fallback thresholds. Every setting resolves through three
// tiers: property override, then global default block, then these.
const (
	DefaultIndoorTempWarning  = 40.0
	DefaultIndoorTempCritical = 32.0

	DefaultOutdoorTempWarning  = 15.0
	DefaultOutdoorTempCritical = 0.0

	DefaultTemperatureCooldownMinutes = 60

	DefaultBatteryLowThreshold      = 20.0
	DefaultBatteryCriticalThreshold = 10.0
	DefaultBatteryCooldownMinutes   = 120

	DefaultOfflineTimeoutMinutes  = 30
	DefaultOfflineCooldownMinutes = 120
)

// Config is the alert section of the application configuration: one
// global default block per category plus per-property overrides.
type Config struct {
	Temperature CategoryDefaults `yaml:"temperature"`
	Battery     CategoryDefaults `yaml:"battery"`
	Water       CategoryDefaults `yaml:"water"`
	Offline     CategoryDefaults `yaml:"offline"`

	properties map[string]PropertyConfig
}

// CategoryDefaults mirrors the per-property override keys at the global
// level. Pointer fields so an unset key falls through to the next tier.
type CategoryDefaults struct {
	Enabled         *bool `yaml:"enabled"`
	PushoverEnabled *bool `yaml:"pushover_enabled"`

	IndoorTempWarning  *float64 `yaml:"indoor_temp_warning"`
	IndoorTempCritical *float64 `yaml:"indoor_temp_critical"`

	OutdoorTempWarning  *float64 `yaml:"outdoor_temp_warning"`
	OutdoorTempCritical *float64 `yaml:"outdoor_temp_critical"`

	LowThresholdPercent      *float64 `yaml:"low_threshold_percent"`
	CriticalThresholdPercent *float64 `yaml:"critical_threshold_percent"`

	TimeoutMinutes  *int `yaml:"timeout_minutes"`
	CooldownMinutes *int `yaml:"cooldown_minutes"`

	ExcludeSensors []string `yaml:"exclude_sensors"`
	OutdoorSensors []string `yaml:"outdoor_sensors"`
	ExcludeDevices []string `yaml:"exclude_devices"`
}

// PropertyConfig is the per-property alerts override block.
type PropertyConfig struct {
	Name string `yaml:"-"`

	ExcludeSensors []string `yaml:"exclude_sensors"`
	OutdoorSensors []string `yaml:"outdoor_sensors"`

	IndoorTempWarning   *float64 `yaml:"indoor_temp_warning"`
	IndoorTempCritical  *float64 `yaml:"indoor_temp_critical"`
	OutdoorTempWarning  *float64 `yaml:"outdoor_temp_warning"`
	OutdoorTempCritical *float64 `yaml:"outdoor_temp_critical"`

	TemperatureCooldownMinutes *int `yaml:"temperature_cooldown_minutes"`

	BatteryLowThresholdPercent      *float64 `yaml:"battery_low_threshold_percent"`
	BatteryCriticalThresholdPercent *float64 `yaml:"battery_critical_threshold_percent"`
	BatteryCooldownMinutes          *int     `yaml:"battery_cooldown_minutes"`
	BatteryExcludeDevices           []string `yaml:"battery_exclude_devices"`

	OfflineTimeoutMinutes  *int `yaml:"offline_timeout_minutes"`
	OfflineCooldownMinutes *int `yaml:"offline_cooldown_minutes"`

	WaterExcludeSensors []string `yaml:"water_exclude_sensors"`
}

// SetPropertyConfig registers (or replaces) the override block for one
// property. Replacement during an in-flight evaluation is acceptable:
// every evaluation resolves its settings once up front.
func (c *Config) SetPropertyConfig(propertyID string, pc PropertyConfig) {
	if c.properties == nil {
		c.properties = map[string]PropertyConfig{}
	}

	c.properties[propertyID] = pc
}

// Settings is the fully resolved, effective configuration for one
// property. Resolved fresh per evaluation; never stored.
type Settings struct {
	Temperature TemperatureSettings
	Battery     BatterySettings
	Water       WaterSettings
	Offline     OfflineSettings
}

type TemperatureSettings struct {
	Enabled  bool
	Pushover bool

	IndoorWarning   float64
	IndoorCritical  float64
	OutdoorWarning  float64
	OutdoorCritical float64

	CooldownMinutes int

	ExcludeSensors []string
	OutdoorSensors []string
}

type BatterySettings struct {
	Enabled  bool
	Pushover bool

	LowThreshold      float64
	CriticalThreshold float64

	CooldownMinutes int

	ExcludeDevices []string
}

type WaterSettings struct {
	Enabled  bool
	Pushover bool

	ExcludeSensors []string
}

type OfflineSettings struct {
	Enabled  bool
	Pushover bool

	TimeoutMinutes  int
	CooldownMinutes int
}

// Resolve layers the property override block on top of the global
// defaults on top of the hardcoded constants.
func (c *Config) Resolve(propertyID string) Settings {
	pc := c.properties[propertyID]

	return Settings{
		Temperature: TemperatureSettings{
			Enabled:         enabledOrDefault(c.Temperature.Enabled),
			Pushover:        enabledOrDefault(c.Temperature.PushoverEnabled),
			IndoorWarning:   resolveFloat(pc.IndoorTempWarning, c.Temperature.IndoorTempWarning, DefaultIndoorTempWarning),
			IndoorCritical:  resolveFloat(pc.IndoorTempCritical, c.Temperature.IndoorTempCritical, DefaultIndoorTempCritical),
			OutdoorWarning:  resolveFloat(pc.OutdoorTempWarning, c.Temperature.OutdoorTempWarning, DefaultOutdoorTempWarning),
			OutdoorCritical: resolveFloat(pc.OutdoorTempCritical, c.Temperature.OutdoorTempCritical, DefaultOutdoorTempCritical),
			CooldownMinutes: resolveInt(pc.TemperatureCooldownMinutes, c.Temperature.CooldownMinutes, DefaultTemperatureCooldownMinutes),
			ExcludeSensors:  resolveList(pc.ExcludeSensors, c.Temperature.ExcludeSensors),
			OutdoorSensors:  resolveList(pc.OutdoorSensors, c.Temperature.OutdoorSensors),
		},
		Battery: BatterySettings{
			Enabled:           enabledOrDefault(c.Battery.Enabled),
			Pushover:          enabledOrDefault(c.Battery.PushoverEnabled),
			LowThreshold:      resolveFloat(pc.BatteryLowThresholdPercent, c.Battery.LowThresholdPercent, DefaultBatteryLowThreshold),
			CriticalThreshold: resolveFloat(pc.BatteryCriticalThresholdPercent, c.Battery.CriticalThresholdPercent, DefaultBatteryCriticalThreshold),
			CooldownMinutes:   resolveInt(pc.BatteryCooldownMinutes, c.Battery.CooldownMinutes, DefaultBatteryCooldownMinutes),
			ExcludeDevices:    resolveList(pc.BatteryExcludeDevices, c.Battery.ExcludeDevices),
		},
		Water: WaterSettings{
			Enabled:        enabledOrDefault(c.Water.Enabled),
			Pushover:       enabledOrDefault(c.Water.PushoverEnabled),
			ExcludeSensors: resolveList(pc.WaterExcludeSensors, c.Water.ExcludeSensors),
		},
		Offline: OfflineSettings{
			Enabled:         enabledOrDefault(c.Offline.Enabled),
			Pushover:        enabledOrDefault(c.Offline.PushoverEnabled),
			TimeoutMinutes:  resolveInt(pc.OfflineTimeoutMinutes, c.Offline.TimeoutMinutes, DefaultOfflineTimeoutMinutes),
			CooldownMinutes: resolveInt(pc.OfflineCooldownMinutes, c.Offline.CooldownMinutes, DefaultOfflineCooldownMinutes),
		},
	}
}

func resolveFloat(override, global *float64, def float64) float64 {
	if override != nil {
		return *override
	}
	if global != nil {
		return *global
	}
	return def
}

func resolveInt(override, global *int, def int) int {
	if override != nil {
		return *override
	}
	if global != nil {
		return *global
	}
	return def
}

// Enable flags only exist at the global level; a property cannot turn a
// category on or off for itself, so these skip the override tier.
func enabledOrDefault(global *bool) bool {
	if global != nil {
		return *global
	}
	return true
}

// resolveList replaces rather than merges: a property that sets its own
// list takes it whole; merging exclude lists would make an override
// impossible to narrow.
func resolveList(override, global []string) []string {
	if override != nil {
		return override
	}
	return global
}
