package aio

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const defaultBroker = "tcp://io.adafruit.com:1883"

// MQTTSender publishes feed values over the Adafruit IO MQTT bridge.
// Feeds must already exist; provisioning stays on the REST client, which
// is the only surface that can express create-if-missing.
type MQTTSender struct {
	client mqtt.Client
	user   string

	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMQTTSender(user, key, clientID string) *MQTTSender {
	s := &MQTTSender{user: user, stopCh: make(chan struct{})}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(defaultBroker)
	opts.SetClientID(clientID)
	opts.SetUsername(user)
	opts.SetPassword(key)

	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) { s.setConnected(true) })
	opts.SetConnectionLostHandler(func(_ mqtt.Client, _ error) { s.setConnected(false) })

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect waits for the initial broker connection, honoring ctx and Close.
func (s *MQTTSender) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return fmt.Errorf("sender closed")
	default:
	}

	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return fmt.Errorf("sender closed")
		default:
		}
	}
}

// Send publishes value on the {user}/feeds/{key} topic.
func (s *MQTTSender) Send(_ context.Context, feedKey, value string) error {
	if !s.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	topic := fmt.Sprintf("%s/feeds/%s", s.user, feedKey)
	token := s.client.Publish(topic, 1, false, value)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// IsConnected returns whether the sender is connected to the broker.
func (s *MQTTSender) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

// Close stops the sender and closes the broker connection. Idempotent.
func (s *MQTTSender) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	s.client.Disconnect(250)
	s.setConnected(false)
}

func (s *MQTTSender) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
