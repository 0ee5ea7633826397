package notifications

import (
	"context"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/gregdel/pushover"
)

// Config holds the Pushover application credentials. Leaving them empty
// disables dispatch; alerts are still persisted, just not pushed.
type Config struct {
	AppToken string `yaml:"app_token"`
	UserKey  string `yaml:"user_key"`
}

// A stalled dispatch must never hold up a collection cycle, so every
// push is abandoned after this long.
const sendTimeout = 10 * time.Second

type pushoverNotifier struct {
	recipient *pushover.Recipient
	send      func(*pushover.Message, *pushover.Recipient) (*pushover.Response, error)
}

func NewPushover(cfg Config) *pushoverNotifier {
	n := &pushoverNotifier{}

	if cfg.AppToken != "" && cfg.UserKey != "" {
		app := pushover.New(cfg.AppToken)
		n.recipient = pushover.NewRecipient(cfg.UserKey)
		n.send = app.SendMessage
	}

	return n
}

// Send dispatches one push message and reports success. It never
// returns an error and never panics; dispatch is best effort and
// failures only surface in the log.
func (n *pushoverNotifier) Send(ctx context.Context, title, message string, priority int) bool {
	log := logging.GetFromContext(ctx)

	if n.send == nil {
		log.Warn("pushover not configured, notification dropped", "title", title)
		return false
	}

	msg := &pushover.Message{
		Title:    title,
		Message:  message,
		Priority: priority,
	}

	// Emergency priority requires a retry schedule: renotify every
	// minute until acknowledged, giving up after an hour.
	if priority >= pushover.PriorityEmergency {
		msg.Priority = pushover.PriorityEmergency
		msg.Retry = 60 * time.Second
		msg.Expire = time.Hour
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		_, err := n.send(msg, n.recipient)
		result <- err
	}()

	select {
	case err := <-result:
		if err != nil {
			log.Error("pushover dispatch failed", "title", title, "err", err.Error())
			return false
		}
		return true
	case <-ctx.Done():
		log.Error("pushover dispatch abandoned", "title", title, "err", ctx.Err().Error())
		return false
	}
}
