package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/config"
	"github.com/nomis52/keep/logging"
	"github.com/nomis52/keep/metrics"
	"github.com/nomis52/keep/registry"
	"github.com/nomis52/keep/server"
)

type Args struct {
	ConfigPath string
}

func main() {
	if err := doMain(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func doMain() error {
	args := parseArgs()
	if args.ConfigPath == "" {
		return fmt.Errorf("-c or --config flag is required")
	}

	cfg, err := config.LoadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("Error loading config: %w", err)
	}

	// Initialize logger
	loggerConfig := logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	}
	logger, err := logging.New(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("keep started", "config_path", args.ConfigPath)

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("Error getting hostname: %w", err)
	}

	// Initialize the metrics registry per the configured mode.
	var (
		metricsReg metrics.Registry
		scrapeReg  *metrics.ScrapeRegistry
	)
	switch cfg.Monitoring.Mode {
	case "push":
		metricsReg = metrics.NewPushRegistry(metrics.PushConfig{
			URL:      cfg.Monitoring.PushURL,
			Prefix:   cfg.Monitoring.MetricsPrefix,
			Job:      cfg.Monitoring.JobName,
			Instance: hostname,
			Timeout:  cfg.Monitoring.PushTimeout,
		})
	default:
		scrapeReg, err = metrics.NewScrapeRegistry()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		metricsReg = scrapeReg
	}

	set, err := metrics.NewSet(metricsReg)
	if err != nil {
		return fmt.Errorf("failed to create metric set: %w", err)
	}

	collector := logging.NewLogCollector()
	statuses := activity.NewStatusHandler()

	reg := registry.New(
		registry.WithLogger(logger.Logger),
		registry.WithMetrics(set),
		registry.WithStatusHandler(statuses),
		registry.WithLoggerHook(logging.NewCapturingLoggerHook(collector)),
	)
	defer reg.Close()

	var budgetOpts []registry.BudgetOption
	if cfg.Budget.MaxCount > 0 {
		budgetOpts = append(budgetOpts, registry.MaxCount(cfg.Budget.MaxCount))
	}
	if cfg.Budget.MaxCost > 0 {
		budgetOpts = append(budgetOpts, registry.MaxCost(cfg.Budget.MaxCost))
	}
	if len(budgetOpts) > 0 {
		if err := reg.ConfigureBudget(budgetOpts...); err != nil {
			return fmt.Errorf("failed to configure budget: %w", err)
		}
	}

	serverOpts := []server.Option{
		server.WithListenAddr(cfg.Server.Listen),
		server.WithLogger(logger.Logger),
		server.WithLogCollector(collector),
		server.WithStatusHandler(statuses),
	}
	if scrapeReg != nil {
		serverOpts = append(serverOpts, server.WithMetricsHandler(scrapeReg.Handler()))
	}
	if !cfg.Sweep.Disabled && cfg.Sweep.Schedule != "" {
		serverOpts = append(serverOpts, server.WithSweep(cfg.Sweep.Schedule))
	}

	srv, err := server.New(reg, serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("keep stopped")
	return nil
}

func parseArgs() Args {
	configPath := flag.String("config", "", "Path to config file")
	configPathShort := flag.String("c", "", "Path to config file (shorthand)")
	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}
	return Args{ConfigPath: path}
}
