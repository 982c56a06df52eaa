// Reiki Core - Smart Home Coordination Core
//
// This is the main entry point for the Reiki Core application.
// Reiki Core is the single point of coordination for a smart home:
//   - Serialised device command dispatch
//   - Room-keyed device and sensor state registry
//   - WebSocket fan-out to panels and apps
//   - MQTT bridge to embedded sensor nodes
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reiki-home/reiki-core/internal/api"
	"github.com/reiki-home/reiki-core/internal/bridges/node"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/dispatch"
	"github.com/reiki-home/reiki-core/internal/history"
	"github.com/reiki-home/reiki-core/internal/hub"
	"github.com/reiki-home/reiki-core/internal/infrastructure/config"
	"github.com/reiki-home/reiki-core/internal/infrastructure/database"
	"github.com/reiki-home/reiki-core/internal/infrastructure/influxdb"
	"github.com/reiki-home/reiki-core/internal/infrastructure/logging"
	"github.com/reiki-home/reiki-core/internal/infrastructure/mqtt"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/registry"
	"github.com/reiki-home/reiki-core/internal/scene"
	"github.com/reiki-home/reiki-core/internal/sensor"
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
//
//nolint:gocognit // Linear component wiring; splitting it obscures startup order
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Reiki Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
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

	// State registry, seeded with every installed device and room
	reg := registry.New(
		registry.WithStalenessWindow(cfg.StalenessWindow()),
		registry.WithLogger(log),
	)
	log.Info("state registry initialised", "staleness_window", cfg.StalenessWindow())

	// Scene table: builtins plus optional overrides from disk
	scenes := scene.NewResolver()
	if cfg.Scenes.Path != "" {
		if err := scenes.LoadFile(cfg.Scenes.Path); err != nil {
			return fmt.Errorf("loading scenes: %w", err)
		}
		log.Info("scene overrides loaded", "path", cfg.Scenes.Path)
	}

	// State history (optional)
	var store *history.Store
	if cfg.Database.Enabled {
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

		store, err = history.NewStore(ctx, db)
		if err != nil {
			return fmt.Errorf("initialising state history: %w", err)
		}
		log.Info("state history enabled", "path", cfg.Database.Path)
	} else {
		log.Info("state history disabled")
	}

	// InfluxDB telemetry (optional)
	var influxClient *influxdb.Client
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
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Dispatcher: the single writer for all state mutations.
	// Interface fields stay nil unless the component exists, so the
	// dispatcher's nil checks short-circuit correctly.
	dispatchDeps := dispatch.Deps{
		Registry: reg,
		Logger:   log,
	}
	if store != nil {
		dispatchDeps.Recorder = store
	}
	if influxClient != nil {
		dispatchDeps.Metrics = influxClient
	}
	dispatcher, err := dispatch.New(dispatchDeps)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	// Connection hub for WebSocket clients
	h, err := hub.New(hub.Deps{
		Dispatcher: dispatcher,
		Scenes:     scenes,
		State:      reg,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("creating hub: %w", err)
	}

	// MQTT node bridge (optional)
	broadcasters := dispatch.MultiBroadcaster{h}
	if cfg.MQTT.Enabled {
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
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
		mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		bridge, err := node.New(node.Deps{
			Client:     mqttClient,
			Dispatcher: dispatcher,
			QoS:        byte(cfg.MQTT.QoS),
			Logger:     log,
		})
		if err != nil {
			return fmt.Errorf("creating node bridge: %w", err)
		}
		if err := bridge.Start(); err != nil {
			return fmt.Errorf("starting node bridge: %w", err)
		}
		broadcasters = append(broadcasters, bridge)
	} else {
		log.Info("MQTT node bridge disabled")
	}

	// Telemetry sink receives the same broadcast stream as clients
	if influxClient != nil {
		broadcasters = append(broadcasters, telemetrySink{client: influxClient})
	}
	dispatcher.SetBroadcaster(broadcasters)

	// Start the dispatcher loop and the hub
	go dispatcher.Run(ctx)
	go h.Run(ctx)

	// Sensor simulator (optional)
	if cfg.Sensors.SimulationEnabled {
		sim := sensor.NewSimulator(sensor.Config{
			Store:       reg,
			Broadcaster: broadcasters,
			Interval:    cfg.SimulationInterval(),
			Logger:      log,
		})
		go sim.Run(ctx)
	} else {
		log.Info("sensor simulation disabled")
	}

	// HTTP API and WebSocket endpoint
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Logger:     log,
		Hub:        h,
		Dispatcher: dispatcher,
		Scenes:     scenes,
		State:      reg,
		History:    store,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. Database (if enabled)

	log.Info("Reiki Core stopped")
	return nil
}

// telemetrySink forwards broadcast sensor readings to InfluxDB.
// Device metrics are written by the dispatcher's metrics hook, so the
// device side is a no-op here.
type telemetrySink struct {
	client *influxdb.Client
}

func (telemetrySink) BroadcastDeviceUpdate(device.Type, location.Location, device.State) {}

func (t telemetrySink) BroadcastSensor(loc location.Location, r sensor.Reading) {
	t.client.WriteSensorReading(loc, r)
}

// getConfigPath returns the configuration file path.
// Uses REIKI_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("REIKI_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
