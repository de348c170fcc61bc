package timer

import (
	"encoding/json"
	"log/slog"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/nats-io/nats.go"
)

// NATSConfig configures a NATS timer.
type NATSConfig struct {
	// URL is the NATS server URL, e.g. "nats://localhost:4222".
	URL string
	// Subject is the subject to subscribe on. Supports NATS wildcards
	// ("*", ">").
	Subject string
	// Queue is an optional queue group name for load-balanced delivery.
	Queue string
	// ConnectTimeout bounds the initial connection attempt. Default 5s.
	ConnectTimeout time.Duration
	// Logger receives connection lifecycle events. Default slog.Default().
	Logger *slog.Logger
}

func (c NATSConfig) applyDefaults() NATSConfig {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// NATS is a Timer whose ticks are driven by CloudEvents received over a
// NATS subject: each delivered message is decoded as a cloudevents.Event
// and every listener fires once per event. Run blocks until Stop is
// called or the connection is lost.
type NATS struct {
	base
	config NATSConfig
	conn   *nats.Conn
	event  *cloudevents.Event
}

// NewNATS creates a NATS timer. It does not connect until Run is called.
func NewNATS(config NATSConfig) *NATS {
	return &NATS{config: config.applyDefaults()}
}

// Event returns the CloudEvents event that triggered the tick currently
// being delivered to listeners, valid only from inside a listener
// callback.
func (n *NATS) Event() *cloudevents.Event { return n.event }

// Run connects to NATS, subscribes to the configured subject, and fires
// listeners once per received message until Stop is called.
func (n *NATS) Run() error {
	// Closing the connection does not close a channel subscription's
	// channel, so the read loop also watches for the connection closing.
	closed := make(chan struct{})
	conn, err := nats.Connect(n.config.URL, nats.Timeout(n.config.ConnectTimeout),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }))
	if err != nil {
		return err
	}
	n.conn = conn
	defer conn.Close()

	msgs := make(chan *nats.Msg, 256)
	var sub *nats.Subscription
	if n.config.Queue != "" {
		sub, err = conn.QueueSubscribeSyncWithChan(n.config.Subject, n.config.Queue, msgs)
	} else {
		sub, err = conn.ChanSubscribe(n.config.Subject, msgs)
	}
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	n.config.Logger.Info("timer: nats subscription started", "subject", n.config.Subject)

	for !n.Stopped() {
		var msg *nats.Msg
		select {
		case msg = <-msgs:
		case <-closed:
			return nil
		}
		if msg == nil || n.Stopped() {
			return nil
		}
		event, err := decodeCloudEvent(msg.Data)
		if err != nil {
			n.config.Logger.Warn("timer: nats message decode failed", "error", err)
			continue
		}
		n.event = event
		n.fire()
	}
	return nil
}

func decodeCloudEvent(data []byte) (*cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Stop closes the NATS connection in addition to the base Stop
// bookkeeping, which unblocks the subscription channel read in Run.
func (n *NATS) Stop() {
	n.base.Stop()
	if n.conn != nil {
		n.conn.Close()
	}
}
