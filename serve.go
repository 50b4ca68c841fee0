package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"PRNG/api"
	"PRNG/auditlog"
	"PRNG/config"
	"PRNG/events"
	"PRNG/fswatch"
	"PRNG/ipfs"
	jwtutil "PRNG/jwt"
	"PRNG/prng"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (configured from PRNG_* environment variables)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := auditlog.OpenBolt(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	feed := events.NewFeed()
	defer feed.Close()
	svc := prng.NewService(store,
		prng.WithFeed(feed),
		prng.WithLogger(logger.Named("prng")),
		prng.WithMaxLength(cfg.MaxLength),
	)

	opts := []api.Option{api.WithLogger(logger.Named("api")), api.WithMaxLength(cfg.MaxLength)}
	if cfg.JWTSecretFile != "" {
		auth, err := watchSecret(ctx, cfg.JWTSecretFile, logger.Named("jwt"))
		if err != nil {
			return err
		}
		opts = append(opts, api.WithAuthenticator(auth))
	} else {
		logger.Warn("PRNG_JWT_SECRET_FILE not set, generation is unauthenticated")
	}

	if cfg.IPFSAddr != "" {
		records, cancel := feed.Subscribe(events.DefaultBuffer)
		defer cancel()
		go ipfs.NewClient(cfg.IPFSAddr).Archive(ctx, records, logger.Named("ipfs"))
	}

	n, err := store.Len()
	if err != nil {
		return err
	}
	logger.Info("audit log opened", zap.String("path", cfg.DBPath), zap.Uint64("records", n))

	return api.NewServer(svc, opts...).ListenAndServe(ctx, cfg.Addr)
}

// watchSecret loads the JWT secret and reloads it whenever the file changes.
func watchSecret(ctx context.Context, path string, logger *zap.Logger) (*jwtutil.Authenticator, error) {
	secret, err := jwtutil.LoadSecret(path)
	if err != nil {
		return nil, fmt.Errorf("load jwt secret: %w", err)
	}
	auth, err := jwtutil.NewAuthenticator(secret)
	if err != nil {
		return nil, err
	}
	reload := func() {
		secret, err := jwtutil.LoadSecret(path)
		if err == nil {
			err = auth.SetSecret(secret)
		}
		if err != nil {
			logger.Warn("keeping previous jwt secret", zap.Error(err))
			return
		}
		logger.Info("jwt secret reloaded")
	}
	go func() {
		if err := fswatch.WatchFile(ctx, path, fswatch.DefaultThrottle, logger, reload); err != nil {
			logger.Error("secret watcher stopped", zap.Error(err))
		}
	}()
	return auth, nil
}
