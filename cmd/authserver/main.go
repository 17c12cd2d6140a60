package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oldrealm/aegisauth/internal/authengine"
	"github.com/oldrealm/aegisauth/internal/broker"
	"github.com/oldrealm/aegisauth/internal/config"
	"github.com/oldrealm/aegisauth/internal/credentials"
	"github.com/oldrealm/aegisauth/internal/errsink"
	"github.com/oldrealm/aegisauth/internal/gamefiles"
	"github.com/oldrealm/aegisauth/internal/patch"
	"github.com/oldrealm/aegisauth/internal/realmregistry"
	"github.com/oldrealm/aegisauth/internal/sessionstore"
)

const defaultConfigPath = "config/authserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		configPath       = flag.String("config", defaultConfigPath, "path to the YAML config file")
		authAddress      = flag.String("address", "", "override the auth listener bind address")
		brokerAddress    = flag.String("broker-address", "", "override the broker listener bind address")
		randomizePinGrid = flag.Bool("randomize-pin-grid", false, "reshuffle the PIN grid on every LOGON challenge")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("aegisauth starting")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *authAddress != "" {
		cfg.AuthBindAddress = *authAddress
	}
	if *brokerAddress != "" {
		cfg.BrokerBindAddress = *brokerAddress
	}
	if *randomizePinGrid {
		cfg.RandomizePinGrid = true
	}
	slog.Info("config loaded", "auth_address", cfg.AuthBindAddress, "broker_address", cfg.BrokerBindAddress)

	credSource, closeCreds, err := openCredentialSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening credential source: %w", err)
	}
	defer closeCreds()

	sessions := sessionstore.New()
	realms := realmregistry.New()

	authSrv := authengine.NewServer(
		authengine.Config{
			BindAddress:        cfg.AuthBindAddress,
			MaxConcurrentUsers: cfg.MaxConcurrentUsers,
			RandomizePinGrid:   cfg.RandomizePinGrid,
		},
		credSource,
		patch.New(),
		gamefiles.New(),
		realms,
		sessions,
		errsink.New(),
	)

	brokerSrv := broker.NewServer(cfg.BrokerBindAddress, sessions, realms)

	errCh := make(chan error, 2)
	go func() { errCh <- authSrv.Run(ctx) }()
	go func() { errCh <- brokerSrv.Run(ctx) }()

	for range 2 {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}

// openCredentialSource picks the PostgreSQL-backed credential source when a
// database is configured, otherwise falls back to an empty in-memory
// source suitable for local/dev runs.
func openCredentialSource(ctx context.Context, cfg config.Config) (credentials.Source, func(), error) {
	dsn := cfg.Database.DSN()
	if dsn == "" {
		slog.Info("no database configured, using in-memory credential source")
		return credentials.NewInMemorySource(), func() {}, nil
	}

	if err := credentials.RunMigrations(ctx, dsn); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	pg, err := credentials.NewPostgresSource(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")
	return pg, pg.Close, nil
}
