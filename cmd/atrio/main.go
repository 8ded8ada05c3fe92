// Atrio Core - Building Device Control Layer
//
// This is the main entry point for the Atrio Core application. Atrio Core
// sits between a building's device registry and its resident-facing UIs:
//   - Ingests pushed device records over MQTT
//   - Classifies devices and resolves their remote-control bindings
//   - Reconciles optimistic UI state with the Home Assistant controller
//   - Serves REST and WebSocket APIs to apps and dashboards
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/atriolabs/atrio-core/migrations"

	"github.com/atriolabs/atrio-core/internal/api"
	"github.com/atriolabs/atrio-core/internal/control"
	"github.com/atriolabs/atrio-core/internal/device"
	"github.com/atriolabs/atrio-core/internal/homeassistant"
	"github.com/atriolabs/atrio-core/internal/infrastructure/config"
	"github.com/atriolabs/atrio-core/internal/infrastructure/database"
	"github.com/atriolabs/atrio-core/internal/infrastructure/influxdb"
	"github.com/atriolabs/atrio-core/internal/infrastructure/logging"
	"github.com/atriolabs/atrio-core/internal/infrastructure/mqtt"
	"github.com/atriolabs/atrio-core/internal/ingest"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Atrio Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Restore the device snapshot from the last persisted state so the
	// API serves a warm inventory before the broker replays records.
	snapshotRepo := device.NewSQLiteRepository(db.DB)
	snapshot := device.NewSnapshot(snapshotRepo)
	snapshot.SetLogger(log)
	if restoreErr := snapshot.Restore(ctx); restoreErr != nil {
		return fmt.Errorf("restoring device snapshot: %w", restoreErr)
	}
	log.Info("device snapshot restored", "devices", snapshot.Count())

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Start the registry ingest: retained records repopulate the snapshot
	// on subscribe, then live pushes keep it current.
	registryIngest := ingest.NewRegistry(mqttClient, snapshot, byte(cfg.MQTT.QoS))
	registryIngest.SetLogger(log)
	if ingestErr := registryIngest.Start(); ingestErr != nil {
		return fmt.Errorf("starting registry ingest: %w", ingestErr)
	}
	log.Info("registry ingest started")

	// Connect to InfluxDB (optional); state transitions are recorded there
	var influxClient *influxdb.Client
	var recorder control.Recorder
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		recorder = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled, state history will not be recorded")
	}

	// Home Assistant client and the control session manager
	haClient := homeassistant.NewClient(cfg.Controller.BaseURL, cfg.Controller.Token, cfg.ControllerTimeout())
	manager := control.NewManager(haClient, control.SystemClock{}, recorder, log, controlOptions(cfg))
	defer func() {
		log.Info("closing control sessions")
		manager.CloseAll()
	}()

	// Start API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Snapshot: snapshot,
		Control:  manager,
		MQTT:     mqttClient,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Control sessions
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database

	log.Info("Atrio Core stopped")
	return nil
}

// controlOptions converts the config timing values (milliseconds) into
// session options.
func controlOptions(cfg *config.Config) control.Options {
	schedule := make([]time.Duration, 0, len(cfg.Control.RefreshSchedule))
	for _, ms := range cfg.Control.RefreshSchedule {
		schedule = append(schedule, time.Duration(ms)*time.Millisecond)
	}
	return control.Options{
		PollInterval:    time.Duration(cfg.Control.PollInterval) * time.Millisecond,
		ThrottleWindow:  time.Duration(cfg.Control.ThrottleWindow) * time.Millisecond,
		RefreshSchedule: schedule,
		DisablePolling:  cfg.Control.DisablePolling,
	}
}

// getConfigPath returns the configuration file path.
// Uses ATRIO_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ATRIO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
