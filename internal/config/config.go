package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type DashboardConfig struct {
	RecentLimit  int
	CamerasFile  string
	StreamURL    string
	PollInterval time.Duration
	DemoMode     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	DB          DBConfig
	Dashboard   DashboardConfig
	Redis       RedisConfig
	MQTT        MQTTConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     !v.IsSet("DB_AUTO_MIGRATE") || v.GetBool("DB_AUTO_MIGRATE"),
		},
		Dashboard: DashboardConfig{
			RecentLimit:  v.GetInt("SNAPSHOT_RECENT_LIMIT"),
			CamerasFile:  v.GetString("CAMERAS_FILE"),
			StreamURL:    v.GetString("STREAM_URL"),
			PollInterval: v.GetDuration("ALERT_POLL_INTERVAL"),
			DemoMode:     v.GetBool("ALERT_DEMO_MODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("MQTT_BROKER"),
			ClientID: v.GetString("MQTT_CLIENT_ID"),
			Username: v.GetString("MQTT_USERNAME"),
			Password: v.GetString("MQTT_PASSWORD"),
			Topic:    v.GetString("MQTT_TOPIC"),
			QoS:      byte(v.GetUint("MQTT_QOS")),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "sqlite"
	}
	if cfg.DB.DSN == "" && cfg.DB.Driver == "sqlite" {
		cfg.DB.DSN = "data.db"
	}
	if cfg.Dashboard.RecentLimit <= 0 {
		cfg.Dashboard.RecentLimit = 50
	}
	if cfg.Dashboard.CamerasFile == "" {
		cfg.Dashboard.CamerasFile = "cameras.yaml"
	}
	if cfg.Dashboard.StreamURL == "" {
		cfg.Dashboard.StreamURL = "http://127.0.0.1:5000/video_feed"
	}
	if cfg.Dashboard.PollInterval <= 0 {
		cfg.Dashboard.PollInterval = 30 * time.Second
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "surveillance:events"
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "surveillance-dashboard"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "surveillance/events"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
