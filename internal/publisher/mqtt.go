package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/curbscope/curbscope/internal/config"
	"github.com/curbscope/curbscope/pkg/models"
)

// Publisher sends per-entity map values to an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New creates a publisher and connects to the configured broker
func New(cfg config.MQTTConfig, topicPrefix, clientID string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
	}, nil
}

// statePayload is the retained message published per entity
type statePayload struct {
	EntityID  string  `json:"entityId"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	UpdatedAt string  `json:"updatedAt"`
}

// PublishValue sends one entity's map value as a retained message to
// <prefix>/<entityId>/state
func (p *Publisher) PublishValue(e models.Entity, value float64) error {
	payload := statePayload{
		EntityID:  e.ID,
		Name:      e.Name,
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/state", p.topicPrefix, e.ID)
	token := p.client.Publish(topic, 1, true, body)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
