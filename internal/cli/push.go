package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"surveillance-dashboard/internal/broker"
	"surveillance-dashboard/internal/client"
	"surveillance-dashboard/internal/config"
)

var (
	pushInput client.EventInput
	pushMQTT  bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send a detection event to the dashboard",
	Long: `Send one detection event either to POST /api/events of a running
dashboard or, with --mqtt, to the configured MQTT ingest topic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pushMQTT {
			return pushOverMQTT(pushInput)
		}

		api := client.NewDashboardClient(dashboardURL, 10*time.Second)
		if err := api.PushEvent(cmd.Context(), pushInput); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "event accepted")
		return nil
	},
}

func pushOverMQTT(in client.EventInput) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("MQTT_BROKER is not set")
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	cfg.MQTT.ClientID += "-push"
	mqttClient, err := broker.NewMQTTClient(cfg.MQTT, zerolog.Nop())
	if err != nil {
		return err
	}
	defer mqttClient.Disconnect()

	return mqttClient.Publish(cfg.MQTT.Topic, cfg.MQTT.QoS, payload)
}

func init() {
	f := pushCmd.Flags()
	f.StringVar(&pushInput.CameraID, "camera", "Camera 1", "camera id")
	f.StringVar(&pushInput.EventType, "type", "Human", "event type (Human, Vehicle, Animal)")
	f.StringVar(&pushInput.Details, "details", "", "free text description")
	f.StringVar(&pushInput.AlertLevel, "level", "Low", "alert level (High, Medium, Low)")
	f.StringVar(&pushInput.Timestamp, "timestamp", "", "event time, RFC 3339; empty means now")
	f.StringVar(&pushInput.ID, "id", "", "event id; generated when empty")
	f.BoolVar(&pushMQTT, "mqtt", false, "publish to the MQTT ingest topic instead of HTTP")
}
