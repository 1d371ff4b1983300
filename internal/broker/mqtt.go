package broker

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/config"
)

// MessageHandler processes one MQTT message.
type MessageHandler func(topic string, payload []byte) error

type MQTTClient struct {
	client mqtt.Client
	log    zerolog.Logger
}

func NewMQTTClient(cfg config.MQTTConfig, log zerolog.Logger) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", token.Error())
	}

	return &MQTTClient{
		client: client,
		log:    log.With().Str("component", "mqtt").Logger(),
	}, nil
}

// Subscribe routes messages on topic to handler. Handler errors are logged,
// the subscription stays.
func (c *MQTTClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("mqtt message rejected")
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, token.Error())
	}
	c.log.Info().Str("topic", topic).Msg("subscribed")
	return nil
}

func (c *MQTTClient) Publish(topic string, qos byte, payload []byte) error {
	token := c.client.Publish(topic, qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}
	return nil
}

func (c *MQTTClient) Disconnect() {
	c.client.Disconnect(250)
}
