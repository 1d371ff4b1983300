package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"surveillance-dashboard/internal/broker"
	"surveillance-dashboard/internal/config"
	"surveillance-dashboard/internal/db"
	httphandler "surveillance-dashboard/internal/http"
	"surveillance-dashboard/internal/logger"
	"surveillance-dashboard/internal/metrics"
	"surveillance-dashboard/internal/realtime"
	"surveillance-dashboard/internal/repository"
	"surveillance-dashboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.New(cfg.Environment, cfg.LogLevel)
	metrics.Register()

	cameras, err := config.LoadCameraTable(cfg.Dashboard.CamerasFile)
	if err != nil {
		return err
	}

	dbm := db.NewManager(cfg, appLogger)
	defer func() {
		if err := dbm.Close(); err != nil {
			appLogger.Error().Err(err).Msg("failed to close database")
		}
	}()
	if _, err := dbm.Get(); err != nil {
		// дашборд работает и без базы, отдаёт значения по умолчанию
		appLogger.Error().Err(err).Msg("database unavailable, serving defaults")
	}

	accessor := service.NewAccessor(repository.NewEventRepository(dbm), cameras)

	hub := realtime.NewHub(appLogger)
	go hub.Run(ctx)

	publishers := []service.Publisher{hub}
	if cfg.Redis.Addr != "" {
		fanout := broker.NewRedisFanout(broker.NewRedisClient(cfg.Redis), cfg.Redis.Channel, appLogger)
		defer fanout.Close()
		publishers = append(publishers, fanout)
		go func() {
			if err := fanout.Run(ctx, hub); err != nil {
				appLogger.Error().Err(err).Msg("redis fanout stopped")
			}
		}()
	}

	ingestService := service.NewIngestService(accessor, appLogger, publishers...)
	statsService := service.NewStatsService(accessor, cfg.Dashboard.RecentLimit, appLogger)

	if cfg.MQTT.Broker != "" {
		mqttClient, err := startMQTT(cfg.MQTT, ingestService, appLogger)
		if err != nil {
			return err
		}
		defer mqttClient.Disconnect()
	}

	handler := httphandler.NewHandler(statsService, ingestService, hub, cfg.Dashboard.StreamURL, appLogger)
	router := httphandler.NewRouter(handler, appLogger, cfg.Environment)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("starting surveillance dashboard")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startMQTT(cfg config.MQTTConfig, ingest *service.IngestService, log zerolog.Logger) (*broker.MQTTClient, error) {
	client, err := broker.NewMQTTClient(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := client.Subscribe(cfg.Topic, cfg.QoS, ingest.HandleMessage); err != nil {
		client.Disconnect()
		return nil, err
	}
	return client, nil
}
