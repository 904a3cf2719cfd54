package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"

	grpcAdapter "github.com/quentinrf/brightness-tracker/internal/adapters/grpc"
	"github.com/quentinrf/brightness-tracker/internal/adapters/memory"
	"github.com/quentinrf/brightness-tracker/internal/adapters/mock"
	"github.com/quentinrf/brightness-tracker/internal/adapters/sqlite"
	"github.com/quentinrf/brightness-tracker/internal/adapters/yamlprefs"
	"github.com/quentinrf/brightness-tracker/internal/config"
	"github.com/quentinrf/brightness-tracker/internal/domain"
	"github.com/quentinrf/brightness-tracker/internal/eventlog"
	"github.com/quentinrf/brightness-tracker/internal/logging"
	"github.com/quentinrf/brightness-tracker/internal/ports"
	"github.com/quentinrf/brightness-tracker/pkg/tlsconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Logger = logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "brightness-tracker",
	})

	log.Info().Msg("starting brightness tracker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("tracker exited")
	}

	log.Info().Msg("server stopped")
}

// run wires the tracker from cfg and blocks until ctx is cancelled
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize threshold preferences
	store, closeStore, err := openThresholdStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize event log; a missing log folder leaves the console sink only
	console := eventlog.NewConsoleSink(log.Logger)
	events, err := eventlog.NewWithFallback(cfg.EventLogPath, console)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.EventLogPath).Msg("writing events to console only")
	} else {
		log.Info().Str("path", cfg.EventLogPath).Msg("initialized event log file")
	}

	// Initialize sensor; a missing one keeps every session from starting
	sensor := openSensor(cfg.Sensor)
	if sensor != nil {
		defer sensor.Close()
	}

	var sessionOpts []ports.SessionOption
	if sensor != nil {
		if err := ports.ProbeSensor(ctx, sensor); err != nil {
			log.Error().Err(err).Str("sensor", cfg.Sensor.Type).Msg("no light sensor, tracking disabled")
			sessionOpts = append(sessionOpts, ports.WithSensorCheck(err))
			sensor = nil
		}
	}

	session := ports.NewSession(ctx, events, store, cfg.DefaultThreshold, sessionOpts...)

	switch {
	case cfg.Sensor.Type == "none":
		log.Info().Msg("no sensor configured, waiting for StartSession")
	case sensor != nil:
		if err := session.Start(); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
	}

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if cfg.TLS.Enabled() {
		tlsCfg, err := tlsconfig.LoadServerTLS(cfg.TLS.Cert, cfg.TLS.Key, cfg.TLS.CA)
		if err != nil {
			return fmt.Errorf("load TLS config: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	grpcAdapter.RegisterTrackerServer(grpcServer, grpcAdapter.NewTrackerHandler(session, events))
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info().Str("port", cfg.Port).Msg("gRPC server listening")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return grpcServer.Serve(listener)
	})

	if sensor != nil {
		recorder := ports.NewRecorder(sensor, session, cfg.Sensor.Interval)
		g.Go(func() error {
			recorder.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		grpcServer.GracefulStop()
		if err := session.Stop(); err != nil && !errors.Is(err, domain.ErrSessionNotRunning) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// openThresholdStore picks the preference backend named by PREFS_TYPE
func openThresholdStore(ctx context.Context, cfg *config.Config) (domain.ThresholdStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.PrefsType {
	case "sqlite":
		s, err := sqlite.NewThresholdStore(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open SQLite preferences %s: %w", cfg.DBPath, err)
		}
		ev := log.Info().Str("db_path", cfg.DBPath)
		if at, err := s.UpdatedAt(ctx); err == nil {
			ev = ev.Time("threshold_updated_at", at)
		}
		ev.Msg("initialized SQLite preferences")
		return s, s.Close, nil
	case "yaml":
		s, err := yamlprefs.NewThresholdStore(cfg.PrefsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open YAML preferences %s: %w", cfg.PrefsPath, err)
		}
		log.Info().Str("prefs_path", cfg.PrefsPath).Msg("initialized YAML preferences")
		return s, noop, nil
	default:
		log.Info().Msg("initialized in-memory preferences")
		return memory.NewThresholdStore(), noop, nil
	}
}

// openSensor returns nil for SENSOR_TYPE=none
func openSensor(cfg config.SensorConfig) ports.LightSensor {
	switch cfg.Type {
	case "gpio":
		// no GPIO driver on this build; the probe reports the sensor as missing
		return mock.AbsentSensor{}
	case "none":
		return nil
	default:
		log.Info().
			Float64("base_lux", cfg.MockBaseLux).
			Float64("variation_lux", cfg.MockVariance).
			Float64("dropout", cfg.MockDropout).
			Msg("initialized mock sensor")
		return mock.NewFakeSensor(cfg.MockBaseLux, cfg.MockVariance).WithDropout(cfg.MockDropout)
	}
}
