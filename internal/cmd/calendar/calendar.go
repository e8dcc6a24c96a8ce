// Package calendar parses calendar command flags and starts the service runtime.
package calendar

import (
	"context"
	"flag"

	entrypoint "github.com/calshare/calshare/internal/platform/cmd"
	server "github.com/calshare/calshare/internal/services/calendar/app"
)

// Config holds calendar command configuration.
type Config struct {
	Port int    `env:"CALSHARE_PORT" envDefault:"8080"`
	Addr string `env:"CALSHARE_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The calendar HTTP server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The calendar HTTP listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the calendar HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCalendar, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
