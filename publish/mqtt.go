// Package publish mirrors loader snapshots to an MQTT broker.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"lottie-catalog/config"
	"lottie-catalog/loader"
)

const (
	defaultQueueSize = 16
	connectTimeout   = 10 * time.Second
	publishTimeout   = 5 * time.Second
	closeTimeout     = 5 * time.Second
)

// ErrNotConfigured is returned by Connect when no broker URL is set
var ErrNotConfigured = errors.New("mqtt broker not configured")

// ErrPublishTimeout is returned when the broker does not confirm a publish in time
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// PublishFunc sends one message to topic
type PublishFunc func(topic string, payload []byte) error

// StateMessage is the JSON document published for each snapshot. The payload
// itself is never sent.
type StateMessage struct {
	Phase            string    `json:"phase"`
	Busy             bool      `json:"busy"`
	Animations       int       `json:"animations"`
	HasPayload       bool      `json:"has_payload"`
	PayloadBytes     int       `json:"payload_bytes,omitempty"`
	DownloadProgress float64   `json:"download_progress"`
	Error            string    `json:"error,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewStateMessage summarizes a snapshot
func NewStateMessage(s loader.LoadingState, at time.Time) StateMessage {
	return StateMessage{
		Phase:            s.Phase.String(),
		Busy:             s.Busy,
		Animations:       len(s.Catalog),
		HasPayload:       s.HasPayload(),
		PayloadBytes:     len(s.Payload()),
		DownloadProgress: s.DownloadProgress,
		Error:            s.Message(),
		Timestamp:        at,
	}
}

// Publisher is a loader.Observer that forwards snapshots on a background
// goroutine so the machine never waits on the network. Snapshots arriving
// while the queue is full are dropped.
type Publisher struct {
	topic   string
	publish PublishFunc
	now     func() time.Time

	// upper bound on how long Close waits for a stuck publish
	closeTimeout time.Duration

	mu     sync.Mutex
	queue  chan StateMessage
	closed bool
	done   chan struct{}

	dropped atomic.Int64
	failed  atomic.Int64
}

var _ loader.Observer = (*Publisher)(nil)

// NewPublisher starts a publisher that sends to topic through publish
func NewPublisher(topic string, publish PublishFunc) *Publisher {
	p := &Publisher{
		topic:        topic,
		publish:      publish,
		now:          time.Now,
		closeTimeout: closeTimeout,
		queue:        make(chan StateMessage, defaultQueueSize),
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

// OnStateChange implements loader.Observer
func (p *Publisher) OnStateChange(_, next loader.LoadingState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.queue <- NewStateMessage(next, p.now()):
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns how many snapshots were skipped because the queue was full
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Failed returns how many publishes returned an error
func (p *Publisher) Failed() int64 {
	return p.failed.Load()
}

// Close drains the queue and stops the background goroutine. It gives up
// after the close timeout, leaving any stuck publish behind.
func (p *Publisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	timer := time.NewTimer(p.closeTimeout)
	defer timer.Stop()
	select {
	case <-p.done:
	case <-timer.C:
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		data, err := json.Marshal(msg)
		if err != nil {
			p.failed.Add(1)
			continue
		}
		if err := p.publish(p.topic, data); err != nil {
			p.failed.Add(1)
		}
	}
}

// ClientPublishFunc adapts an MQTT client. Messages are sent at QoS 1 and not
// retained; each publish waits at most timeout for the broker.
func ClientPublishFunc(client mqtt.Client, timeout time.Duration) PublishFunc {
	return func(topic string, payload []byte) error {
		token := client.Publish(topic, 1, false, payload)
		if !token.WaitTimeout(timeout) {
			return fmt.Errorf("%w after %s", ErrPublishTimeout, timeout)
		}
		return token.Error()
	}
}

// NewClientOptions builds broker options from the configuration
func NewClientOptions(cfg config.MQTTConfig) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true)
}

// Connect dials the configured broker and returns a running Publisher along
// with the client, which the caller disconnects after closing the Publisher.
func Connect(cfg config.MQTTConfig) (*Publisher, mqtt.Client, error) {
	if cfg.URL == "" {
		return nil, nil, ErrNotConfigured
	}

	client := mqtt.NewClient(NewClientOptions(cfg))
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, nil, fmt.Errorf("connect to %s: timed out after %s", cfg.URL, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.URL, err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = config.DefaultMQTTTopic
	}
	return NewPublisher(topic, ClientPublishFunc(client, publishTimeout)), client, nil
}
