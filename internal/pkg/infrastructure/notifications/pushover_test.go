package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/gregdel/pushover"
	"github.com/matryer/is"
)

func TestSendUnconfiguredDropsMessage(t *testing.T) {
	is := is.New(t)

	n := NewPushover(Config{})
	is.Equal(false, n.Send(context.Background(), "title", "message", 0))
}

func TestSendReportsSuccess(t *testing.T) {
	is := is.New(t)

	var captured *pushover.Message
	n := &pushoverNotifier{
		recipient: pushover.NewRecipient("user"),
		send: func(msg *pushover.Message, _ *pushover.Recipient) (*pushover.Response, error) {
			captured = msg
			return &pushover.Response{}, nil
		},
	}

	is.True(n.Send(context.Background(), "Safety Monitor", "all quiet", 0))
	is.Equal("Safety Monitor", captured.Title)
	is.Equal(0, captured.Priority)
}

func TestSendEmergencyCarriesRetrySchedule(t *testing.T) {
	is := is.New(t)

	var captured *pushover.Message
	n := &pushoverNotifier{
		recipient: pushover.NewRecipient("user"),
		send: func(msg *pushover.Message, _ *pushover.Recipient) (*pushover.Response, error) {
			captured = msg
			return &pushover.Response{}, nil
		},
	}

	is.True(n.Send(context.Background(), "Safety Monitor", "water detected", pushover.PriorityEmergency))
	is.Equal(pushover.PriorityEmergency, captured.Priority)
	is.Equal(60*time.Second, captured.Retry)
	is.Equal(time.Hour, captured.Expire)
}

func TestSendAbandonsStalledDispatch(t *testing.T) {
	is := is.New(t)

	release := make(chan struct{})
	defer close(release)

	n := &pushoverNotifier{
		recipient: pushover.NewRecipient("user"),
		send: func(*pushover.Message, *pushover.Recipient) (*pushover.Response, error) {
			<-release
			return &pushover.Response{}, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	sent := n.Send(ctx, "title", "message", 0)

	is.Equal(false, sent)
	is.True(time.Since(started) < 2*time.Second)
}
