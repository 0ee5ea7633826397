package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// The Venus OS broker does not publish state of charge as an individual
// topic on every installation; the Batteries JSON array topic is the one
// reliable carrier. A keepalive publish on R/<portal>/keepalive makes
// the broker re-emit its retained values, so a short-lived connection
// per cycle is enough.
const victronWait = 15 * time.Second

type victronCollector struct {
	propertyID string

	brokerAddress string
	portalID      string
}

func NewVictron(propertyID string, cfg Config) Collector {
	return &victronCollector{
		propertyID:    propertyID,
		brokerAddress: cfg.BrokerAddress,
		portalID:      cfg.PortalID,
	}
}

func (c *victronCollector) Source() string {
	return types.SourceVictron
}

type victronBattery struct {
	SOC                  *float64 `json:"soc"`
	Voltage              *float64 `json:"voltage"`
	Current              *float64 `json:"current"`
	Power                *float64 `json:"power"`
	Name                 string   `json:"name"`
	ActiveBatteryService bool     `json:"active_battery_service"`
}

func (c *victronCollector) Collect(ctx context.Context) (types.Reading, error) {
	log := logging.GetFromContext(ctx)

	topicBatteries := fmt.Sprintf("N/%s/system/0/Batteries", c.portalID)
	topicPVPower := fmt.Sprintf("N/%s/system/0/Dc/Pv/Power", c.portalID)
	topicCharger1 := fmt.Sprintf("N/%s/solarcharger/288/Yield/Power", c.portalID)
	topicCharger2 := fmt.Sprintf("N/%s/solarcharger/289/Yield/Power", c.portalID)

	var mu sync.Mutex
	reading := types.Reading{}
	gotBattery, gotPV := false, false
	done := make(chan struct{}, 1)

	onMessage := func(_ mqtt.Client, msg mqtt.Message) {
		mu.Lock()
		defer mu.Unlock()

		switch msg.Topic() {
		case topicBatteries:
			var payload struct {
				Value []victronBattery `json:"value"`
			}
			if err := json.Unmarshal(msg.Payload(), &payload); err != nil || len(payload.Value) == 0 {
				return
			}

			battery := payload.Value[0]
			for _, b := range payload.Value {
				if b.ActiveBatteryService {
					battery = b
					break
				}
			}

			reading.SOC = battery.SOC
			reading.Voltage = battery.Voltage
			reading.Current = battery.Current
			reading.BatteryPower = battery.Power
			gotBattery = true
		case topicPVPower:
			reading.PVPower = decodeValue(msg.Payload())
			gotPV = true
		case topicCharger1:
			reading.PVCharger1 = decodeValue(msg.Payload())
		case topicCharger2:
			reading.PVCharger2 = decodeValue(msg.Payload())
		}

		if gotBattery && gotPV {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s", c.brokerAddress)).
		SetClientID(fmt.Sprintf("safety-monitor-%s", c.propertyID)).
		SetCleanSession(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)

	if token := client.Connect(); !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return types.Reading{}, fmt.Errorf("mqtt connect %s: %w", c.brokerAddress, token.Error())
	}
	defer client.Disconnect(250)

	filters := map[string]byte{
		topicBatteries: 0,
		topicPVPower:   0,
		topicCharger1:  0,
		topicCharger2:  0,
	}
	if token := client.SubscribeMultiple(filters, onMessage); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return types.Reading{}, fmt.Errorf("mqtt subscribe: %w", token.Error())
	}

	// Nudge the broker into republishing its retained values.
	client.Publish(fmt.Sprintf("R/%s/keepalive", c.portalID), 0, false, "[]")

	wait := time.NewTimer(victronWait)
	defer wait.Stop()

	select {
	case <-done:
	case <-wait.C:
	case <-ctx.Done():
		return types.Reading{}, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()

	if !gotBattery {
		return types.Reading{}, fmt.Errorf("no battery data received from portal %s", c.portalID)
	}
	if !gotPV {
		log.Warn("pv power topic not received, solar may be offline", "property_id", c.propertyID)
	}

	reading.PropertyID = c.propertyID
	reading.Source = types.SourceVictron
	reading.CollectedAt = time.Now().UTC()

	return reading, nil
}

// decodeValue unwraps the {"value": 123.4} envelope Venus OS publishes
// on scalar topics. Null values decode to nil.
func decodeValue(payload []byte) *float64 {
	var envelope struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil
	}
	return envelope.Value
}
