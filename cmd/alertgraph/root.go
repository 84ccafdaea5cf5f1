package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alertgraph/internal/client"
	"alertgraph/internal/config"
	"alertgraph/internal/layout"
	"alertgraph/internal/logging"
	"alertgraph/internal/metrics"
	"alertgraph/internal/service"
	"alertgraph/internal/ui"
)

var version = "0.1.0"

// app carries what every subcommand needs once flags and config are resolved
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	upstream   string

	cfg     *config.Config
	source  string
	logger  *zap.Logger
	metrics *metrics.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "alertgraph",
		Short: "Lay out and inspect alert entity graphs",
		Long: ui.Brand.Sprint("alertgraph") + " lays out the process, file and socket graph of a security alert\n" +
			ui.Subtle.Sprint("Serve it over HTTP, render it to a file, or browse it in the terminal"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: search ALERTGRAPH_CONFIG, ./alertgraph.yaml, user config dir)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: json or console")
	flags.StringVar(&a.upstream, "upstream", "", "Base URL of the alert data service")

	root.AddCommand(
		a.serveCmd(),
		a.renderCmd(),
		a.browseCmd(),
		a.alertsCmd(),
		a.configCmd(),
	)
	return root
}

// init loads config, applies flag overrides and builds the logger
func (a *app) init() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, a.source, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, a.source, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.upstream != "" {
		cfg.Upstream.BaseURL = a.upstream
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.metrics = metrics.NewRegistry()
	return nil
}

func (a *app) layoutConfig() layout.Config {
	c := layout.DefaultConfig()
	c.RankSpacing = a.cfg.Layout.RankSpacing
	c.LayerSpacing = a.cfg.Layout.LayerSpacing
	c.LegacyOffset = a.cfg.Layout.LegacyOffset
	return c
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.Upstream.BaseURL, a.cfg.Upstream.Timeout.Duration(),
		client.WithLogger(a.logger),
		client.WithMetrics(a.metrics))
}

// graphService wires the layout pipeline; fetcher may be nil for file input
func (a *app) graphService(fetcher service.Fetcher) *service.GraphService {
	return service.NewGraphService(fetcher, layout.NewBuilder(a.layoutConfig()), a.logger, a.metrics)
}

// quietLogger silences logging for full-screen commands unless debugging
func (a *app) quietLogger() *zap.Logger {
	if a.cfg.Log.Level == "debug" {
		return a.logger
	}
	return zap.NewNop()
}
