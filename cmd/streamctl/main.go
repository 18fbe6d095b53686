// streamctl sends stream commands to a Redis-compatible store and prints
// the decoded replies as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/genc-murat/crystalstream/internal/client"
	"github.com/genc-murat/crystalstream/internal/config"
	"github.com/genc-murat/crystalstream/internal/logger"
	"github.com/genc-murat/crystalstream/internal/pool"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Fatal(err, "streamctl failed")
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		configPath string
		address    string
		aofPath    string
		logLevel   string
		logFormat  string
		pretty     bool
		stats      bool
	)

	flagSet := pflag.NewFlagSet("streamctl", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	flagSet.StringVarP(&address, "address", "a", "", "store address (overrides server.address)")
	flagSet.StringVar(&aofPath, "aof", "", "journal write commands to this file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flagSet.StringVar(&logFormat, "log-format", "", "log format (console or json)")
	flagSet.BoolVar(&pretty, "pretty", false, "indent JSON output")
	flagSet.BoolVar(&stats, "stats", false, "log per-command stats when done")
	flagSet.Usage = func() { printUsage(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(flagSet)
		return fmt.Errorf("%w: missing subcommand", errUsage)
	}
	sub, ok := subcommands[rest[0]]
	if !ok {
		return fmt.Errorf("%w: unknown subcommand %q", errUsage, rest[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Server.Address = address
	}
	if aofPath != "" {
		cfg.Storage.AOF.Enabled = true
		cfg.Storage.AOF.Path = aofPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := logger.Configure(os.Stderr, cfg.Logging.Format, cfg.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var c *client.Client
	if sub.journals {
		if c, err = client.Open(cfg); err != nil {
			return err
		}
	} else {
		c = client.New(pool.New(cfg), client.WithRetry(client.RetryFromConfig(cfg.Pool.Retry)))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.WarnErr(err, "closing client")
		}
	}()

	a := &app{cfg: cfg, client: c, out: stdout, pretty: pretty}
	err = sub.run(ctx, a, rest[1:])
	if stats {
		for _, s := range c.Metrics().GetStats() {
			logger.Info("command", s.Command, "calls", s.Calls, "errors", s.Errors, "avg_us", s.AvgTimeUs, "command stats")
		}
	}
	return err
}

func printUsage(flagSet *pflag.FlagSet) {
	names := make([]string, 0, len(subcommands))
	for _, name := range subcommandOrder {
		names = append(names, fmt.Sprintf("  %-10s %s", name, subcommands[name].summary))
	}
	fmt.Fprintf(os.Stderr, "Usage: streamctl [flags] <subcommand> [args]\n\nSubcommands:\n%s\n\nFlags:\n%s",
		strings.Join(names, "\n"), flagSet.FlagUsages())
}
