package collectors

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// The EG4 inverter's SolarmanV5 data logger sends a 197 byte hello
// banner on every TCP connection to port 8000. The banner carries live
// register values packed as big endian uint16 at fixed offsets. State of
// charge is not stored directly; it is derived from the remaining and
// total capacity registers.
//
// The cloud portal (monitor.eg4electronics.com) is the fallback: a form
// encoded login establishes a JSESSIONID session, then the runtime
// endpoint returns the full register set as JSON. Login with a JSON body
// fails with HTTP 500, so the form encoding is not optional.
const (
	bannerLength = 197

	offsetVoltage      = 60  // uint16 / 10 -> V
	offsetPVTotal      = 80  // uint16 / 10 -> W
	offsetTotalCap     = 84  // capacity units, SOC denominator
	offsetRemainingCap = 162 // uint16 / 10, SOC numerator
	offsetCellTemp     = 188 // degrees C

	eg4CacheTTL = 30 * time.Second
)

type eg4Collector struct {
	propertyID string

	localAddress string
	useCloud     bool
	cloudURL     string
	username     string
	password     string
	loggerSerial string

	httpClient *http.Client

	mu       sync.Mutex
	cache    types.Reading
	cachedAt time.Time
	loggedIn bool
}

func NewEG4(propertyID string, cfg Config) Collector {
	jar, _ := cookiejar.New(nil)

	cloudURL := cfg.CloudURL
	if cloudURL == "" {
		cloudURL = "https://monitor.eg4electronics.com"
	}

	return &eg4Collector{
		propertyID:   propertyID,
		localAddress: cfg.LocalAddress,
		useCloud:     cfg.UseCloud,
		cloudURL:     strings.TrimSuffix(cloudURL, "/"),
		username:     cfg.Username,
		password:     cfg.Password,
		loggerSerial: cfg.LoggerSerial,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}
}

func (c *eg4Collector) Source() string {
	return types.SourceEG4
}

func (c *eg4Collector) Collect(ctx context.Context) (types.Reading, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cachedAt.IsZero() && time.Since(c.cachedAt) < eg4CacheTTL {
		return c.cache, nil
	}

	log := logging.GetFromContext(ctx)

	var reading types.Reading
	var err error

	if c.useCloud {
		reading, err = c.collectCloud(ctx)
	} else {
		reading, err = c.collectBanner(ctx)
		if err != nil && c.username != "" {
			log.Warn("banner parse failed, falling back to cloud", "property_id", c.propertyID, "err", err.Error())
			reading, err = c.collectCloud(ctx)
		}
	}

	if err != nil {
		return types.Reading{}, err
	}

	reading.PropertyID = c.propertyID
	reading.Source = types.SourceEG4
	reading.CollectedAt = time.Now().UTC()

	c.cache = reading
	c.cachedAt = time.Now()

	return reading, nil
}

func (c *eg4Collector) collectBanner(ctx context.Context) (types.Reading, error) {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", c.localAddress)
	if err != nil {
		return types.Reading{}, fmt.Errorf("banner connect: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	} else {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	}

	// The logger pushes the banner unprompted; just read until we have
	// the full length or the connection stalls.
	banner := make([]byte, 0, bannerLength)
	buf := make([]byte, 512)

	for len(banner) < bannerLength {
		n, err := conn.Read(buf)
		if n > 0 {
			banner = append(banner, buf[:n]...)
		}
		if err != nil {
			break
		}
	}

	if len(banner) < bannerLength {
		return types.Reading{}, fmt.Errorf("banner too short: got %d bytes, expected %d", len(banner), bannerLength)
	}

	return parseBanner(banner[:bannerLength])
}

func parseBanner(banner []byte) (types.Reading, error) {
	reg := func(offset int) float64 {
		return float64(binary.BigEndian.Uint16(banner[offset : offset+2]))
	}

	reading := types.Reading{}

	if v := reg(offsetVoltage); v != 0 {
		reading.Voltage = types.Ptr(v / 10)
	}
	if v := reg(offsetPVTotal); v != 0 {
		reading.PVTotalPower = types.Ptr(v / 10)
	}
	if v := reg(offsetCellTemp); v != 0 {
		reading.MaxCellTemp = types.Ptr(v)
	}

	remaining := reg(offsetRemainingCap) / 10
	total := reg(offsetTotalCap)

	if remaining == 0 || total == 0 {
		return reading, fmt.Errorf("could not derive SOC: remaining=%.1f total=%.0f", remaining, total)
	}

	soc := remaining / total * 100
	if soc > 100 {
		soc = 100
	}
	reading.SOC = types.Ptr(soc)

	return reading, nil
}

type eg4Runtime struct {
	Success bool `json:"success"`

	SOC        *float64 `json:"soc"`
	VBat       *float64 `json:"vBat"`
	PPV        *float64 `json:"ppv"`
	PPV1       *float64 `json:"ppv1"`
	PPV2       *float64 `json:"ppv2"`
	PCharge    *float64 `json:"pCharge"`
	PDischarge *float64 `json:"pDisCharge"`
	PEPS       *float64 `json:"peps"`
	PToUser    *float64 `json:"pToUser"`
	TInner     *float64 `json:"tinner"`
}

func (c *eg4Collector) collectCloud(ctx context.Context) (types.Reading, error) {
	if c.username == "" || c.password == "" {
		return types.Reading{}, fmt.Errorf("cloud credentials not configured")
	}

	if !c.loggedIn {
		if err := c.cloudLogin(ctx); err != nil {
			return types.Reading{}, err
		}
	}

	form := url.Values{"serialNum": {c.loggerSerial}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cloudURL+"/WManage/api/inverter/getInverterRuntime",
		strings.NewReader(form.Encode()))
	if err != nil {
		return types.Reading{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.loggedIn = false
		return types.Reading{}, fmt.Errorf("cloud runtime fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.loggedIn = false
		return types.Reading{}, fmt.Errorf("cloud runtime fetch: status %d", resp.StatusCode)
	}

	var runtime eg4Runtime
	if err := json.NewDecoder(resp.Body).Decode(&runtime); err != nil {
		return types.Reading{}, fmt.Errorf("cloud runtime decode: %w", err)
	}

	if !runtime.Success {
		c.loggedIn = false
		return types.Reading{}, fmt.Errorf("cloud runtime rejected, session expired")
	}

	reading := types.Reading{
		SOC:          runtime.SOC,
		PVTotalPower: runtime.PPV,
		PVString1:    runtime.PPV1,
		PVString2:    runtime.PPV2,
		MaxCellTemp:  runtime.TInner,
	}

	if runtime.VBat != nil {
		reading.Voltage = types.Ptr(*runtime.VBat / 10)
	}

	if runtime.PCharge != nil || runtime.PDischarge != nil {
		charge, discharge := 0.0, 0.0
		if runtime.PCharge != nil {
			charge = *runtime.PCharge
		}
		if runtime.PDischarge != nil {
			discharge = *runtime.PDischarge
		}
		reading.BatteryPower = types.Ptr(charge - discharge)
	}

	// House load is the EPS output when running off grid, pToUser when
	// grid tied.
	if runtime.PEPS != nil && *runtime.PEPS > 0 {
		reading.LoadPower = runtime.PEPS
	} else if runtime.PToUser != nil {
		reading.LoadPower = runtime.PToUser
	}

	return reading, nil
}

func (c *eg4Collector) cloudLogin(ctx context.Context) error {
	// Prime the JSESSIONID cookie before logging in.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cloudURL+"/WManage/", nil)
	if err != nil {
		return err
	}
	if resp, err := c.httpClient.Do(req); err == nil {
		resp.Body.Close()
	}

	form := url.Values{
		"account":  {c.username},
		"password": {c.password},
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost,
		c.cloudURL+"/WManage/api/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloud login: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("cloud login decode: %w", err)
	}

	if !body.Success {
		return fmt.Errorf("cloud login rejected")
	}

	c.loggedIn = true
	return nil
}
