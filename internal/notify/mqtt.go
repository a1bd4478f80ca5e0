// Package notify pushes staleness alerts to interested consumers over MQTT.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/excalibur-systems/maintenance-api/internal/models"
)

// DefaultTopic is where sweep alerts are published.
const DefaultTopic = "maintenance/alerts"

// MQTTNotifier publishes alert batches as JSON to a broker topic.
type MQTTNotifier struct {
	client mqtt.Client
	topic  string
}

// NewMQTTNotifier connects to the broker and returns a ready notifier.
func NewMQTTNotifier(broker, clientID, topic string) (*MQTTNotifier, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTNotifier{client: client, topic: topic}, nil
}

// PublishAlerts sends one message per alert so consumers can act on them
// individually.
func (n *MQTTNotifier) PublishAlerts(ctx context.Context, alerts []models.Alert) error {
	for _, alert := range alerts {
		payload, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("failed to marshal alert: %w", err)
		}

		token := n.client.Publish(n.topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to publish to topic %s: %w", n.topic, err)
		}
	}
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
