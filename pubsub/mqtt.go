package pubsub

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig holds broker connection settings
type MQTTConfig struct {
	Broker         string
	ClientID       string
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	PublishTimeout time.Duration

	// Will is published retained by the broker if the client drops off
	WillTopic   string
	WillPayload string
}

// DefaultMQTTConfig returns the settings used on the game boards
func DefaultMQTTConfig(broker string) MQTTConfig {
	return MQTTConfig{
		Broker:         broker,
		KeepAlive:      5 * time.Second,
		ConnectTimeout: 10 * time.Second,
		PublishTimeout: 5 * time.Second,
	}
}

// MQTTTransport is a Transport over an MQTT broker. Subscriptions are
// restored after every reconnect.
type MQTTTransport struct {
	client mqtt.Client
	cfg    MQTTConfig
	logger *log.Logger

	mu   sync.Mutex
	subs map[string]MessageHandler
}

func NewMQTTTransport(cfg MQTTConfig, logger *log.Logger) *MQTTTransport {
	if logger == nil {
		logger = log.Default()
	}
	t := &MQTTTransport{
		cfg:    cfg,
		logger: logger,
		subs:   make(map[string]MessageHandler),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetKeepAlive(cfg.KeepAlive).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second).
		SetCleanSession(true).
		SetOnConnectHandler(t.onConnect).
		SetConnectionLostHandler(t.onConnectionLost)
	if cfg.WillTopic != "" {
		opts.SetWill(cfg.WillTopic, cfg.WillPayload, 0, true)
	}

	t.client = mqtt.NewClient(opts)
	return t
}

// Connect dials the broker and waits until the connection is up or ctx
// ends. The client keeps retrying in the background after ctx expires.
func (t *MQTTTransport) Connect(ctx context.Context) error {
	token := t.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("connect %s: %w", t.cfg.Broker, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect %s: %w", t.cfg.Broker, err)
	}
	return nil
}

// Close disconnects, giving in-flight messages a moment to go out
func (t *MQTTTransport) Close() {
	t.client.Disconnect(250)
}

func (t *MQTTTransport) IsConnected() bool {
	return t.client.IsConnectionOpen()
}

// Publish hands the message to the client and returns without waiting for
// delivery; failures are only logged.
func (t *MQTTTransport) Publish(topic, payload string, retain bool, qos byte) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}
	token := t.client.Publish(topic, qos, retain, payload)
	go func() {
		if !token.WaitTimeout(t.cfg.PublishTimeout) {
			t.logger.Printf("mqtt: publish %s timed out", topic)
			return
		}
		if err := token.Error(); err != nil {
			t.logger.Printf("mqtt: publish %s: %v", topic, err)
		}
	}()
	return nil
}

// Subscribe registers handler for pattern. The subscription is recorded
// even when the request fails so the next reconnect retries it.
func (t *MQTTTransport) Subscribe(pattern string, handler MessageHandler) error {
	t.mu.Lock()
	t.subs[pattern] = handler
	t.mu.Unlock()

	if !t.IsConnected() {
		return ErrNotConnected
	}
	token := t.client.Subscribe(pattern, 0, wrap(handler))
	if !token.WaitTimeout(t.cfg.ConnectTimeout) {
		return fmt.Errorf("subscribe %s: timed out", pattern)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", pattern, err)
	}
	return nil
}

// onConnect runs on the client's goroutine after both the first connect and
// every reconnect.
func (t *MQTTTransport) onConnect(c mqtt.Client) {
	t.logger.Printf("mqtt: connected to %s", t.cfg.Broker)

	t.mu.Lock()
	subs := make(map[string]mqtt.MessageHandler, len(t.subs))
	for pattern, h := range t.subs {
		subs[pattern] = wrap(h)
	}
	t.mu.Unlock()

	for pattern, h := range subs {
		pattern := pattern
		token := c.Subscribe(pattern, 0, h)
		go func() {
			if token.WaitTimeout(t.cfg.ConnectTimeout) && token.Error() != nil {
				t.logger.Printf("mqtt: resubscribe %s: %v", pattern, token.Error())
			}
		}()
	}
}

func (t *MQTTTransport) onConnectionLost(_ mqtt.Client, err error) {
	t.logger.Printf("mqtt: connection lost: %v", err)
}

func wrap(h MessageHandler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		h(msg.Topic(), msg.Payload())
	}
}
