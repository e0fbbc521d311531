// Package dice parses dice command flags and composes the service entrypoint.
package dice

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	entrypoint "github.com/louisbranch/diceroll/internal/platform/cmd"
	"github.com/louisbranch/diceroll/internal/services/dice/app"
	"github.com/louisbranch/diceroll/internal/services/dice/client"
)

// Config holds dice command configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"        envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	BaseURL         string        `env:"BASE_URL"         envDefault:"http://localhost:8080"`
	// Roll switches the command from serving to a single client roll.
	Roll bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "dice HTTP listen address")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "dice service base URL used with -roll")
	fs.BoolVar(&cfg.Roll, "roll", false, "roll once against -base-url and print the face")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the dice API, or performs one remote roll when cfg.Roll is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Roll {
		return runRoll(ctx, cfg, os.Stdout)
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceDice, entrypoint.RunOptions{
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, func(ctx context.Context) error {
		if err := app.Run(ctx, app.Config{
			HTTPAddr:        cfg.HTTPAddr,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}); err != nil {
			return fmt.Errorf("serve dice: %w", err)
		}
		return nil
	})
}

func runRoll(ctx context.Context, cfg Config, out io.Writer) error {
	c, err := client.New(cfg.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("dice client: %w", err)
	}
	face, err := c.Roll(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, face)
	return err
}
