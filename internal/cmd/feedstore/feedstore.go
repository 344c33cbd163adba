// Package feedstore parses feed store service flags and launches the service.
package feedstore

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/feedstore/internal/platform/cmd"
	server "github.com/louisbranch/feedstore/internal/services/feedstore/app"
)

// Config holds feed store command configuration.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8095"`
	DBPath string `env:"DB_PATH" envDefault:"data/feedstore.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The feed store gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the feed cache SQLite file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the feed store gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceFeedStore, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port, cfg.DBPath)
	})
}
